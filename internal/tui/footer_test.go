package tui

import (
	"strings"
	"testing"
	"time"
)

func TestRenderFooterFormats(t *testing.T) {
	m := &Model{
		minutes:   10,
		elapsed:   83 * time.Second,
		hasLast:   true,
		lastWPM:   72,
		lastAcc:   97.84,
		allWPMSum: 136.2,
		allAccSum: 193.8,
		allCount:  2,
	}
	out := m.renderFooter()
	if out == "" {
		t.Fatalf("expected footer output")
	}
	if !containsAll(out, []string{"Elapsed 01:23 / 10:00", "Last 72 WPM", "97.8%", "All-time 68.1 WPM", "96.9%"}) {
		t.Fatalf("footer missing expected segments: %s", out)
	}
}

func TestRenderFooterWithoutDuration(t *testing.T) {
	m := &Model{elapsed: 5 * time.Second, timeUp: false}
	out := m.renderFooter()
	if !strings.Contains(out, "Elapsed 00:05") || strings.Contains(out, "/") {
		t.Fatalf("unexpected footer: %s", out)
	}
	if strings.Contains(out, "All-time") {
		t.Fatalf("expected no all-time segment without history: %s", out)
	}
}

func TestFormatClock(t *testing.T) {
	cases := map[time.Duration]string{
		-time.Second:            "00:00",
		0:                       "00:00",
		59600 * time.Millisecond: "01:00",
		61 * time.Minute:        "61:00",
	}
	for in, want := range cases {
		if got := formatClock(in); got != want {
			t.Fatalf("formatClock(%v) = %q, want %q", in, got, want)
		}
	}
}

func containsAll(haystack string, needles []string) bool {
	for _, needle := range needles {
		if !strings.Contains(haystack, needle) {
			return false
		}
	}
	return true
}
