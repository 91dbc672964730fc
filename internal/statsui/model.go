// Package statsui provides the Bubble Tea stats interface.
package statsui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/stenopad/internal/model"
	"github.com/verte-zerg/stenopad/internal/stats"
	"github.com/verte-zerg/stenopad/internal/store"
)

const (
	tabOverview = iota
	tabWordTable
	tabWordCurves
)

const (
	fieldLang = iota
	fieldSince
	fieldLast
	fieldTest
	fieldWindow
)

const (
	plotHeight       = 10
	defaultWordCount = 5
)

// Model implements the Bubble Tea stats UI.
type Model struct {
	store *store.Store
	cfg   model.StatsConfig

	report     stats.Report
	errMsg     string
	wordErrMsg string

	tabs       []string
	activeTab  int
	viewports  []viewport.Model
	wordTable  table.Model
	wordLayout tableLayout

	width  int
	height int

	filterMode   bool
	filterInputs []textinput.Model
	filterIndex  int
	filterError  string

	wordSelection       []string
	wordSelectionCustom bool
	wordPerAttempt      map[int64]map[string]model.WordAggregate

	wordInputMode bool
	wordInput     textinput.Model
}

type tableLayout struct {
	width    int
	height   int
	rowCount int
}

// NewModel constructs a stats UI model.
func NewModel(st *store.Store, cfg model.StatsConfig) *Model {
	m := &Model{
		store: st,
		cfg:   cfg,
		tabs:  []string{"Overview", "Word Table", "Word Curves"},
	}
	m.wordSelection = parseWords(cfg.Words)
	m.wordSelectionCustom = len(m.wordSelection) > 0
	m.initInputs()
	m.wordInput = newFilterInput("Words: ")
	m.wordInput.Placeholder = "court, hearing, adjourned"
	m.wordTable = newWordTable()
	m.viewports = make([]viewport.Model, len(m.tabs))
	for i := range m.viewports {
		m.viewports[i] = viewport.New(0, 0)
	}
	m.refreshReport()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.renderTabContents()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.filterMode {
			return m.updateFilter(msg)
		}
		if m.wordInputMode {
			return m.updateWordInput(msg)
		}
		return m.updateBrowse(msg)
	}
	return m, nil
}

func (m *Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "left", "h":
		m.moveTab(-1)
		return m, tea.ClearScreen
	case "right", "l":
		m.moveTab(1)
		return m, tea.ClearScreen
	case "=":
		m.cfg.CurveWindow = nextCurveWindow(m.cfg.CurveWindow)
		m.refreshReport()
		m.updateLayout()
		return m, nil
	case "-":
		m.cfg.CurveWindow = prevCurveWindow(m.cfg.CurveWindow)
		m.refreshReport()
		m.updateLayout()
		return m, nil
	case "/":
		return m.startFilter()
	case "enter":
		if m.activeTab == tabWordCurves {
			return m.startWordInput()
		}
		return m, nil
	case "g", "home":
		if m.activeTab == tabWordTable {
			m.wordTable.GotoTop()
		} else {
			m.viewports[m.activeTab].GotoTop()
		}
		return m, nil
	case "G", "end":
		if m.activeTab == tabWordTable {
			m.wordTable.GotoBottom()
		} else {
			m.viewports[m.activeTab].GotoBottom()
		}
		return m, nil
	}
	var cmd tea.Cmd
	if m.activeTab == tabWordTable {
		m.wordTable, cmd = m.wordTable.Update(msg)
		return m, cmd
	}
	m.viewports[m.activeTab], cmd = m.viewports[m.activeTab].Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if m.wordInputMode {
		return fitLines(m.renderWordModal(), m.width, m.height)
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(bodyHeight), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) initInputs() {
	m.filterInputs = []textinput.Model{
		fieldLang:   newFilterInput("Lang: "),
		fieldSince:  newFilterInput("Since (YYYY-MM-DD): "),
		fieldLast:   newFilterInput("Last: "),
		fieldTest:   newFilterInput("Test ID: "),
		fieldWindow: newFilterInput("Curve window: "),
	}
	m.setInputsFromConfig()
}

func newFilterInput(prompt string) textinput.Model {
	input := textinput.New()
	input.Prompt = prompt
	input.CharLimit = 0
	input.Cursor.SetMode(cursor.CursorBlink)
	return input
}

func (m *Model) setInputsFromConfig() {
	m.filterInputs[fieldLang].SetValue(strings.TrimSpace(m.cfg.Lang))
	m.filterInputs[fieldSince].SetValue("")
	if m.cfg.Since != nil {
		m.filterInputs[fieldSince].SetValue(m.cfg.Since.Format("2006-01-02"))
	}
	m.filterInputs[fieldLast].SetValue(optionalInt(int64(m.cfg.Last)))
	m.filterInputs[fieldTest].SetValue(optionalInt(m.cfg.TestID))
	m.filterInputs[fieldWindow].SetValue(strconv.Itoa(m.cfg.CurveWindow))
}

func optionalInt(v int64) string {
	if v <= 0 {
		return ""
	}
	return strconv.FormatInt(v, 10)
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := maxInt(1, lipgloss.Height(activeNavStyle.Render("X")))
	headerHeight = tabsHeight + 1
	footerHeight = 1
	if !m.filterMode && m.errMsg != "" {
		footerHeight++
	}
	bodyHeight = maxInt(1, m.height-headerHeight-footerHeight)
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight, _ := m.layoutHeights()
	for i := range m.viewports {
		m.viewports[i].Width = m.width
		m.viewports[i].Height = bodyHeight
	}
	m.setWordTableSize(m.width, bodyHeight)
	for i := range m.filterInputs {
		promptWidth := lipgloss.Width(m.filterInputs[i].Prompt)
		m.filterInputs[i].Width = maxInt(10, m.width-promptWidth-2)
	}
	promptWidth := lipgloss.Width(m.wordInput.Prompt)
	m.wordInput.Width = maxInt(10, modalInnerWidth(m.width)-promptWidth)
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	m.activeTab = (m.activeTab + delta + count) % count
	if m.activeTab == tabWordTable {
		m.wordTable.Focus()
	} else {
		m.wordTable.Blur()
	}
}

func (m *Model) refreshReport() {
	report, err := stats.BuildReport(context.Background(), m.store, m.cfg)
	if err != nil {
		m.errMsg = err.Error()
		m.wordErrMsg = ""
		for i := range m.viewports {
			m.viewports[i].SetContent("Failed to load stats.")
		}
		return
	}
	m.errMsg = ""
	m.report = report
	if !m.wordSelectionCustom {
		m.wordSelection = defaultWordSelection(report)
	}
	m.loadWordPerAttempt()
	m.wordTable.SetRows(wordTableRows(report.WordAggsWindow))
	m.wordLayout.rowCount = len(report.WordAggsWindow)
	m.renderTabContents()
}

// defaultWordSelection prefers the weakest recent words, falling back to the most frequent.
func defaultWordSelection(report stats.Report) []string {
	if weak := stats.WeakWords(report.WordAggsWindow, defaultWordCount); len(weak) > 0 {
		return weak
	}
	return stats.TopWordsByFrequency(report.WordAggsAll, defaultWordCount)
}

func (m *Model) renderTabContents() {
	if m.errMsg != "" {
		return
	}
	width := m.width
	if width <= 0 {
		width = 80
	}
	m.viewports[tabOverview].SetContent(renderOverview(m.report.Attempts, m.cfg.CurveWindow, width))
	m.viewports[tabWordCurves].SetContent(renderWordCurves(m.report.Attempts, m.wordSelection, m.wordPerAttempt, m.cfg.CurveWindow, width, m.wordErrMsg))
}

func (m *Model) loadWordPerAttempt() {
	m.wordErrMsg = ""
	m.wordPerAttempt = nil
	if len(m.report.Attempts) == 0 || len(m.wordSelection) == 0 {
		return
	}
	perAttempt, err := m.store.ListWordStatsForAttempts(context.Background(), stats.AttemptIDs(m.report.Attempts), m.wordSelection)
	if err != nil {
		m.wordErrMsg = err.Error()
		return
	}
	m.wordPerAttempt = perAttempt
}

func (m *Model) startFilter() (tea.Model, tea.Cmd) {
	m.filterMode = true
	m.filterError = ""
	m.setInputsFromConfig()
	return m, m.setFilterIndex(0)
}

func (m *Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.filterMode = false
		m.filterError = ""
		return m, nil
	case tea.KeyEnter:
		cfg, err := parseFilter(m.filterInputs, m.cfg.Words)
		if err != nil {
			m.filterError = err.Error()
			return m, nil
		}
		m.cfg = cfg
		m.filterMode = false
		m.filterError = ""
		m.refreshReport()
		m.updateLayout()
		return m, nil
	case tea.KeyTab, tea.KeyDown:
		return m, m.setFilterIndex(m.filterIndex + 1)
	case tea.KeyShiftTab, tea.KeyUp:
		return m, m.setFilterIndex(m.filterIndex - 1)
	}
	var cmd tea.Cmd
	m.filterInputs[m.filterIndex], cmd = m.filterInputs[m.filterIndex].Update(msg)
	return m, cmd
}

func (m *Model) setFilterIndex(idx int) tea.Cmd {
	count := len(m.filterInputs)
	m.filterIndex = (idx + count) % count
	var cmd tea.Cmd
	for i := range m.filterInputs {
		if i == m.filterIndex {
			cmd = m.filterInputs[i].Focus()
		} else {
			m.filterInputs[i].Blur()
		}
	}
	return cmd
}

func parseFilter(inputs []textinput.Model, words string) (model.StatsConfig, error) {
	cfg := model.StatsConfig{
		Lang:  strings.TrimSpace(inputs[fieldLang].Value()),
		Words: words,
	}
	if raw := strings.TrimSpace(inputs[fieldSince].Value()); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			return cfg, fmt.Errorf("invalid since date (expected YYYY-MM-DD)")
		}
		cfg.Since = &parsed
	}
	if raw := strings.TrimSpace(inputs[fieldLast].Value()); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			return cfg, fmt.Errorf("invalid last value (use 0 or positive integer)")
		}
		cfg.Last = parsed
	}
	if raw := strings.TrimSpace(inputs[fieldTest].Value()); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed < 0 {
			return cfg, fmt.Errorf("invalid test id (use 0 or positive integer)")
		}
		cfg.TestID = parsed
	}
	cfg.CurveWindow = 1
	if raw := strings.TrimSpace(inputs[fieldWindow].Value()); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			return cfg, fmt.Errorf("invalid curve window (use integer >= 1)")
		}
		cfg.CurveWindow = parsed
	}
	return cfg, nil
}

func (m *Model) startWordInput() (tea.Model, tea.Cmd) {
	m.wordInputMode = true
	m.wordInput.SetValue(strings.Join(m.wordSelection, ", "))
	m.wordInput.CursorEnd()
	return m, m.wordInput.Focus()
}

func (m *Model) updateWordInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.wordInputMode = false
		m.wordInput.Blur()
		return m, nil
	case tea.KeyEnter:
		m.applyWordInput()
		m.wordInputMode = false
		m.wordInput.Blur()
		m.loadWordPerAttempt()
		m.renderTabContents()
		return m, nil
	}
	var cmd tea.Cmd
	m.wordInput, cmd = m.wordInput.Update(msg)
	return m, cmd
}

func (m *Model) applyWordInput() {
	words := parseWords(m.wordInput.Value())
	if len(words) == 0 {
		m.wordSelectionCustom = false
		m.cfg.Words = ""
		m.wordSelection = defaultWordSelection(m.report)
		return
	}
	m.wordSelectionCustom = true
	m.cfg.Words = strings.Join(words, ",")
	m.wordSelection = words
}

func nextCurveWindow(n int) int {
	if n < 5 {
		return 5
	}
	return (n/5 + 1) * 5
}

func prevCurveWindow(n int) int {
	if n <= 5 {
		return 1
	}
	if n%5 == 0 {
		return n - 5
	}
	return (n / 5) * 5
}
