package statsui

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/stenopad/internal/model"
	"github.com/verte-zerg/stenopad/internal/store"
)

func TestCurveWindowSteps(t *testing.T) {
	cases := []struct {
		in, next, prev int
	}{
		{in: 1, next: 5, prev: 1},
		{in: 5, next: 10, prev: 1},
		{in: 7, next: 10, prev: 5},
		{in: 20, next: 25, prev: 15},
	}
	for _, tc := range cases {
		if got := nextCurveWindow(tc.in); got != tc.next {
			t.Fatalf("nextCurveWindow(%d) = %d, want %d", tc.in, got, tc.next)
		}
		if got := prevCurveWindow(tc.in); got != tc.prev {
			t.Fatalf("prevCurveWindow(%d) = %d, want %d", tc.in, got, tc.prev)
		}
	}
}

func TestParseWords(t *testing.T) {
	got := parseWords(" Court, hearing  court;\tbail,, ")
	want := []string{"court", "hearing", "bail"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
	if words := parseWords(""); len(words) != 0 {
		t.Fatalf("expected no words, got %v", words)
	}
}

func TestFitLinesPadsAndClips(t *testing.T) {
	out := fitLines("ab\ncd\nef", 4, 2)
	if out != "ab  \ncd  " {
		t.Fatalf("unexpected fit: %q", out)
	}
	out = fitLines("x", 2, 3)
	if out != "x \n  \n  " {
		t.Fatalf("unexpected padding: %q", out)
	}
}

func TestTruncateLine(t *testing.T) {
	if got := truncateLine("abcdefgh", 6); got != "abc..." {
		t.Fatalf("unexpected truncation %q", got)
	}
	if got := truncateLine("abc", 6); got != "abc" {
		t.Fatalf("expected short line unchanged, got %q", got)
	}
}

func TestWordTableRowsWeakestFirst(t *testing.T) {
	rows := wordTableRows([]model.WordAggregate{
		{Word: "court", Correct: 3},
		{Word: "bail", Correct: 1, Incorrect: 1},
		{Word: "plea", Correct: 2, Missing: 2},
	})
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if rows[0][0] != "plea" || rows[1][0] != "bail" || rows[2][0] != "court" {
		t.Fatalf("unexpected order: %v", rows)
	}
	if rows[0][1] != "50.00%" || rows[0][5] != "4" {
		t.Fatalf("unexpected row values: %v", rows[0])
	}
}

func TestParseFilter(t *testing.T) {
	m := &Model{}
	m.initInputs()
	m.filterInputs[fieldLang].SetValue("English")
	m.filterInputs[fieldSince].SetValue("2026-01-02")
	m.filterInputs[fieldLast].SetValue("10")
	m.filterInputs[fieldTest].SetValue("3")
	m.filterInputs[fieldWindow].SetValue("4")

	cfg, err := parseFilter(m.filterInputs, "court")
	if err != nil {
		t.Fatalf("parse filter: %v", err)
	}
	if cfg.Lang != "English" || cfg.Last != 10 || cfg.TestID != 3 || cfg.CurveWindow != 4 || cfg.Words != "court" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.Since == nil || cfg.Since.Format("2006-01-02") != "2026-01-02" {
		t.Fatalf("unexpected since: %v", cfg.Since)
	}

	m.filterInputs[fieldWindow].SetValue("0")
	if _, err := parseFilter(m.filterInputs, ""); err == nil {
		t.Fatalf("expected error for zero window")
	}
	m.filterInputs[fieldWindow].SetValue("4")
	m.filterInputs[fieldSince].SetValue("yesterday")
	if _, err := parseFilter(m.filterInputs, ""); err == nil {
		t.Fatalf("expected error for bad date")
	}
}

func TestModelRendersAttempts(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "stenopad.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	ctx := context.Background()
	base := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		_, err := st.InsertAttempt(ctx, model.AttemptStats{
			StartedAt:      base.Add(time.Duration(i) * time.Hour),
			EndedAt:        base.Add(time.Duration(i)*time.Hour + time.Minute),
			Lang:           "English",
			WPM:            40 + i*5,
			Accuracy:       80,
			TotalWords:     5,
			CorrectWords:   4,
			IncorrectWords: 1,
		}, []model.WordStats{
			{Word: "court", Correct: 1},
			{Word: "bail", Incorrect: 1},
		})
		if err != nil {
			t.Fatalf("insert attempt: %v", err)
		}
	}

	m := NewModel(st, model.StatsConfig{CurveWindow: 2})
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	if m.errMsg != "" {
		t.Fatalf("unexpected error: %s", m.errMsg)
	}
	if len(m.report.Attempts) != 3 {
		t.Fatalf("expected 3 attempts, got %d", len(m.report.Attempts))
	}
	if len(m.wordSelection) != 1 || m.wordSelection[0] != "bail" {
		t.Fatalf("expected weak word selected by default, got %v", m.wordSelection)
	}
	view := m.View()
	if !strings.Contains(view, "Attempts") || !strings.Contains(view, "Avg WPM") {
		t.Fatalf("expected overview cards in view")
	}

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("=")})
	if m.cfg.CurveWindow != 5 {
		t.Fatalf("expected window to grow to 5, got %d", m.cfg.CurveWindow)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if m.activeTab != tabWordTable {
		t.Fatalf("expected word table tab, got %d", m.activeTab)
	}
	if !strings.Contains(m.View(), "bail") {
		t.Fatalf("expected word table to list bail")
	}
}
