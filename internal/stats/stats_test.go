package stats

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/verte-zerg/stenopad/internal/evaluate"
	"github.com/verte-zerg/stenopad/internal/model"
)

func TestSummarize(t *testing.T) {
	s := Summarize([]model.AttemptAggregate{
		{WPM: 40, Accuracy: 80},
		{WPM: 60, Accuracy: 90},
	})
	if s.Attempts != 2 || s.BestWPM != 60 || s.BestAccuracy != 90 {
		t.Fatalf("unexpected summary: %+v", s)
	}
	if math.Abs(s.AvgWPM-50) > 1e-9 || math.Abs(s.AvgAccuracy-85) > 1e-9 {
		t.Fatalf("unexpected averages: %+v", s)
	}
	if empty := Summarize(nil); empty.Attempts != 0 {
		t.Fatalf("expected empty summary, got %+v", empty)
	}
}

func TestMovingAverage(t *testing.T) {
	got := MovingAverage([]float64{2, 4, 6, 8}, 2)
	want := []float64{2, 3, 5, 7}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-9 {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
	same := MovingAverage([]float64{1, 5}, 1)
	if same[0] != 1 || same[1] != 5 {
		t.Fatalf("expected window 1 to copy values, got %v", same)
	}
}

func TestSparkline(t *testing.T) {
	if got := Sparkline([]float64{1, 1, 1}); len(got) != 3 {
		t.Fatalf("expected flat sparkline of 3, got %q", got)
	}
	got := Sparkline([]float64{0, 10})
	if got[0] != sparkChars[0] || got[1] != sparkChars[len(sparkChars)-1] {
		t.Fatalf("unexpected sparkline %q", got)
	}
}

func TestRenderResult(t *testing.T) {
	var buf bytes.Buffer
	res := evaluate.Evaluate("the quick brown fox", "the slow brown", 1)
	if err := RenderResult(&buf, res); err != nil {
		t.Fatalf("render result: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Typing Speed: 3 WPM", "Accuracy: 50.0%", "Incorrect Words: 1", "Missing Words: 1", "Missing", "quick"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestRenderWordTableWeakestFirst(t *testing.T) {
	var buf bytes.Buffer
	err := RenderWordTable(&buf, []model.WordAggregate{
		{Word: "court", Correct: 2},
		{Word: "bail", Correct: 1, Missing: 1},
	})
	if err != nil {
		t.Fatalf("render word table: %v", err)
	}
	out := buf.String()
	if strings.Index(out, "bail") > strings.Index(out, "court") {
		t.Fatalf("expected weakest word first:\n%s", out)
	}

	buf.Reset()
	if err := RenderWordTable(&buf, nil); err != nil {
		t.Fatalf("render empty table: %v", err)
	}
	if !strings.Contains(buf.String(), "No word stats found.") {
		t.Fatalf("unexpected empty output %q", buf.String())
	}
}
