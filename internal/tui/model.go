// Package tui provides the Bubble Tea transcription pad.
package tui

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/stenopad/internal/evaluate"
	"github.com/verte-zerg/stenopad/internal/generator"
	"github.com/verte-zerg/stenopad/internal/model"
	statsPkg "github.com/verte-zerg/stenopad/internal/stats"
	"github.com/verte-zerg/stenopad/internal/store"
)

// Drill configures weak-word passage generation for a pad.
type Drill struct {
	Gen               *generator.Generator
	Pool              []string
	WeakSet           map[string]struct{}
	WeakNoticePrinted bool
}

// Options configures a transcription pad.
type Options struct {
	Test model.StenoTest
	// Minutes overrides the duration parsed from the test label when positive.
	Minutes       float64
	ShowReference bool
	Drill         *Drill
}

type tickMsg time.Time

// Model implements the Bubble Tea transcription UI.
type Model struct {
	config model.PracticeConfig
	store  *store.Store
	eval   evaluate.Options
	opts   Options

	test    model.StenoTest
	minutes float64

	width  int
	height int

	input  textarea.Model
	result viewport.Model

	started   bool
	startedAt time.Time
	elapsed   time.Duration
	timeUp    bool

	submitted bool
	res       evaluate.Result

	lastWPM int
	lastAcc float64
	hasLast bool

	allWPMSum float64
	allAccSum float64
	allCount  int
}

var (
	correctStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A"))
	incorrectStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")).Strikethrough(true)
	extraStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#9254DE")).Strikethrough(true)
	missingStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FA8C16"))
	referenceStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	titleStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	metricStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	footerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
)

// NewModel constructs a transcription pad model.
func NewModel(cfg model.PracticeConfig, st *store.Store, opts Options) (*Model, error) {
	evalOpts, err := evaluateOptions(cfg)
	if err != nil {
		return nil, err
	}
	m := &Model{
		config: cfg,
		store:  st,
		eval:   evalOpts,
		opts:   opts,
		test:   opts.Test,
	}
	m.minutes = float64(evaluate.ParseDuration(opts.Test.Duration))
	if opts.Minutes > 0 {
		m.minutes = opts.Minutes
	}
	m.input = newInput()
	m.result = viewport.New(0, 0)
	m.resetAttempt()
	m.loadFooterStats()
	return m, nil
}

func evaluateOptions(cfg model.PracticeConfig) (evaluate.Options, error) {
	tokenize, err := evaluate.ParseTokenization(cfg.Tokenize)
	if err != nil {
		return evaluate.Options{}, err
	}
	incorrect, err := evaluate.ParseIncorrectFormula(cfg.Incorrect)
	if err != nil {
		return evaluate.Options{}, err
	}
	return evaluate.Options{Tokenization: tokenize, Incorrect: incorrect}, nil
}

func newInput() textarea.Model {
	ta := textarea.New()
	ta.Placeholder = "Start typing your transcription..."
	ta.CharLimit = 0
	ta.MaxHeight = 0
	ta.ShowLineNumbers = false
	ta.Prompt = ""
	ta.Focus()
	return ta
}

// Result returns the most recent evaluation and whether one exists.
func (m *Model) Result() (evaluate.Result, bool) {
	return m.res, m.submitted
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textarea.Blink
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		return m, nil
	case tickMsg:
		return m.handleTick(time.Time(msg))
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.submitted {
			return m.updateResult(msg)
		}
		return m.updateInput(msg)
	default:
		if m.submitted {
			var cmd tea.Cmd
			m.result, cmd = m.result.Update(msg)
			return m, cmd
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

func (m *Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlS:
		if m.input.Value() == "" {
			return m, nil
		}
		m.submit(time.Now())
		return m, nil
	case tea.KeyEsc:
		return m, tea.Quit
	}

	var cmds []tea.Cmd
	if !m.started && startsTyping(msg) {
		m.started = true
		m.startedAt = time.Now()
		cmds = append(cmds, tick())
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m *Model) updateResult(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit
	case "r":
		m.resetAttempt()
		return m, textarea.Blink
	case "g", "home":
		m.result.GotoTop()
		return m, nil
	case "G", "end":
		m.result.GotoBottom()
		return m, nil
	}
	var cmd tea.Cmd
	m.result, cmd = m.result.Update(msg)
	return m, cmd
}

func startsTyping(msg tea.KeyMsg) bool {
	switch msg.Type {
	case tea.KeyRunes, tea.KeySpace, tea.KeyEnter, tea.KeyTab:
		return true
	default:
		return false
	}
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *Model) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	if !m.started || m.submitted {
		return m, nil
	}
	m.elapsed = now.Sub(m.startedAt)
	if m.minutes > 0 && m.elapsed >= m.nominal() {
		m.timeUp = true
		if m.config.AutoSubmit && m.input.Value() != "" {
			m.submit(now)
			return m, nil
		}
	}
	return m, tick()
}

func (m *Model) nominal() time.Duration {
	return time.Duration(m.minutes * float64(time.Minute))
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.submitted {
		if m.width == 0 || m.height == 0 {
			return m.renderResult(0)
		}
		return m.result.View() + "\n" + footerStyle.Render("r try again · ↑/↓ scroll · q quit")
	}
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	if m.opts.ShowReference {
		b.WriteString(referenceStyle.Render(wrapText(m.test.OriginalText, m.contentWidth())))
		b.WriteString("\n\n")
	}
	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m *Model) renderHeader() string {
	parts := []string{titleStyle.Render(m.displayTitle())}
	var meta []string
	if m.test.Language != "" {
		meta = append(meta, m.test.Language)
	}
	if m.test.Speed != "" {
		meta = append(meta, m.test.Speed)
	}
	if m.minutes > 0 {
		meta = append(meta, evaluate.FormatDuration(int(m.minutes)))
	}
	if len(meta) > 0 {
		parts = append(parts, footerStyle.Render(strings.Join(meta, " · ")))
	}
	if m.test.AudioURL != "" {
		parts = append(parts, footerStyle.Render("Audio: "+m.test.AudioURL))
	}
	parts = append(parts, footerStyle.Render("ctrl+s submit · esc quit"))
	return strings.Join(parts, "\n")
}

func (m *Model) displayTitle() string {
	if m.test.Title != "" {
		return m.test.Title
	}
	return "Free Dictation"
}

func (m *Model) contentWidth() int {
	if m.width <= 0 {
		return 0
	}
	w := int(float64(m.width) * 0.90)
	if w < 1 {
		w = 1
	}
	return w
}

func (m *Model) updateLayout() {
	width := m.contentWidth()
	if width > 0 {
		m.input.SetWidth(width)
	}
	inputHeight := m.height - 8
	if m.opts.ShowReference {
		inputHeight -= strings.Count(wrapText(m.test.OriginalText, width), "\n") + 3
	}
	if inputHeight < 3 {
		inputHeight = 3
	}
	m.input.SetHeight(inputHeight)

	m.result.Width = m.width
	m.result.Height = m.height - 1
	if m.result.Height < 1 {
		m.result.Height = 1
	}
	if m.submitted {
		m.result.SetContent(m.renderResult(width))
	}
}

func (m *Model) loadFooterStats() {
	if m.store == nil {
		return
	}
	ctx := context.Background()
	attempts, err := m.store.ListAttempts(ctx, model.StatsConfig{Lang: m.test.Language})
	if err != nil {
		logErrf("failed to load attempt stats: %v\n", err)
		return
	}
	if len(attempts) == 0 {
		return
	}
	last := attempts[len(attempts)-1]
	m.lastWPM = last.WPM
	m.lastAcc = last.Accuracy
	m.hasLast = true
	for _, a := range attempts {
		m.allWPMSum += float64(a.WPM)
		m.allAccSum += a.Accuracy
		m.allCount++
	}
}

func (m *Model) renderFooter() string {
	segments := []string{m.renderClock()}
	if m.timeUp {
		segments = append(segments, "Time is up")
	}
	if m.hasLast {
		segments = append(segments, fmt.Sprintf("Last %d WPM · %.1f%%", m.lastWPM, m.lastAcc))
	}
	if m.allCount > 0 {
		n := float64(m.allCount)
		segments = append(segments, fmt.Sprintf("All-time %.1f WPM · %.1f%%", m.allWPMSum/n, m.allAccSum/n))
	}
	return footerStyle.Render(strings.Join(segments, "  "))
}

func (m *Model) renderClock() string {
	clock := "Elapsed " + formatClock(m.elapsed)
	if m.minutes > 0 {
		clock += " / " + formatClock(m.nominal())
	}
	return clock
}

func formatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d.Round(time.Second) / time.Second)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

func (m *Model) resetAttempt() {
	m.started = false
	m.startedAt = time.Time{}
	m.elapsed = 0
	m.timeUp = false
	m.submitted = false
	m.res = evaluate.Result{}
	m.input.Reset()
	m.input.Focus()
	if m.opts.Drill != nil {
		m.test.OriginalText = m.generateText()
	}
	m.updateLayout()
}

func (m *Model) generateText() string {
	d := m.opts.Drill
	var words []string
	if len(d.WeakSet) > 0 {
		words = d.Gen.GenerateWeighted(d.Pool, m.config.DrillWords, d.WeakSet, m.config.WeakFactor)
	} else {
		words = d.Gen.Generate(d.Pool, m.config.DrillWords)
	}
	return strings.Join(words, " ")
}

func (m *Model) submit(endedAt time.Time) {
	if !m.started {
		m.startedAt = endedAt
	}
	m.elapsed = endedAt.Sub(m.startedAt)
	minutes := m.minutes
	if minutes <= 0 {
		minutes = m.elapsed.Minutes()
	}
	submittedText := m.input.Value()
	res := m.eval.Evaluate(evaluate.Input{
		ReferenceText:   m.test.OriginalText,
		SubmittedText:   submittedText,
		DurationMinutes: minutes,
	})
	m.res = res
	m.submitted = true
	m.input.Blur()

	m.lastWPM = res.WordsPerMinute
	m.lastAcc = res.AccuracyPercent
	m.hasLast = true
	m.allWPMSum += float64(res.WordsPerMinute)
	m.allAccSum += res.AccuracyPercent
	m.allCount++

	m.saveAttempt(res, submittedText, minutes, endedAt)
	m.updateLayout()
	m.result.GotoTop()

	if m.opts.Drill != nil {
		m.refreshWeakSet()
	}
}

func (m *Model) saveAttempt(res evaluate.Result, submittedText string, minutes float64, endedAt time.Time) {
	if m.store == nil {
		return
	}
	attempt := model.AttemptStats{
		TestID:          m.test.ID,
		StartedAt:       m.startedAt,
		EndedAt:         endedAt,
		Lang:            m.test.Language,
		DurationMinutes: minutes,
		WPM:             res.WordsPerMinute,
		Accuracy:        res.AccuracyPercent,
		TotalWords:      res.TotalWords,
		CorrectWords:    res.CorrectWords,
		IncorrectWords:  res.IncorrectWords,
		MissingWords:    res.MissingWords,
		ExtraWords:      res.ExtraWords,
		ElapsedMs:       endedAt.Sub(m.startedAt).Milliseconds(),
		SubmittedText:   submittedText,
	}
	ctx := context.Background()
	if _, err := m.store.InsertAttempt(ctx, attempt, statsPkg.WordStatsFromDiff(res.Diff)); err != nil {
		logErrf("failed to save attempt: %v\n", err)
	}
}

func (m *Model) refreshWeakSet() {
	if m.store == nil {
		return
	}
	d := m.opts.Drill
	ctx := context.Background()
	aggs, err := m.store.GetWeakWords(ctx, m.config.WeakWindow, m.test.Language)
	if err != nil {
		logErrf("failed to load weak words: %v\n", err)
		return
	}
	weak := statsPkg.SelectWeakWords(aggs, m.config.WeakTop)
	if len(weak) == 0 && !d.WeakNoticePrinted {
		logErrln("no weak words recorded yet; drilling uniformly")
		d.WeakNoticePrinted = true
	}
	d.WeakSet = weak
}

func (m *Model) renderResult(width int) string {
	res := m.res
	var b strings.Builder
	b.WriteString(titleStyle.Render("Evaluation Result: "+m.displayTitle()) + "\n\n")
	fmt.Fprintf(&b, "Typing Speed  %s WPM\n", metricStyle.Render(fmt.Sprintf("%d", res.WordsPerMinute)))
	fmt.Fprintf(&b, "Accuracy      %s\n", metricStyle.Render(fmt.Sprintf("%.1f%%", res.AccuracyPercent)))
	fmt.Fprintf(&b, "Correct       %s\n", correctStyle.Render(fmt.Sprintf("%d", res.CorrectWords)))
	fmt.Fprintf(&b, "Incorrect     %s\n", incorrectStyle.UnsetStrikethrough().Render(fmt.Sprintf("%d", res.IncorrectWords)))
	fmt.Fprintf(&b, "Missing       %s\n", missingStyle.Render(fmt.Sprintf("%d", res.MissingWords)))
	fmt.Fprintf(&b, "Extra         %s\n", extraStyle.UnsetStrikethrough().Render(fmt.Sprintf("%d", res.ExtraWords)))
	fmt.Fprintf(&b, "Elapsed       %s\n\n", formatClock(m.elapsed))

	b.WriteString(titleStyle.Render("Your Transcription") + "\n")
	b.WriteString(wrapSpans(buildDiffSpans(res.Diff), width) + "\n\n")
	b.WriteString(titleStyle.Render("Original Text") + "\n")
	b.WriteString(referenceStyle.Render(wrapText(m.test.OriginalText, width)) + "\n")
	return b.String()
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
