package stats

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/verte-zerg/stenopad/internal/evaluate"
	"github.com/verte-zerg/stenopad/internal/model"
	"github.com/verte-zerg/stenopad/internal/store"
)

func TestBuildReport(t *testing.T) {
	dir := t.TempDir()
	st, err := store.Open(filepath.Join(dir, "stenopad.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})

	ctx := context.Background()
	submissions := []string{"the quick brown fox", "the slow brown fox", "the quick brown"}
	var ids []int64
	for i, submitted := range submissions {
		res := evaluate.Evaluate("the quick brown fox", submitted, 1)
		start := time.Unix(0, 0).Add(time.Duration(i) * time.Minute)
		end := start.Add(30 * time.Second)
		attempt := model.AttemptStats{
			TestID:          1,
			StartedAt:       start,
			EndedAt:         end,
			Lang:            "English",
			DurationMinutes: 1,
			WPM:             res.WordsPerMinute,
			Accuracy:        res.AccuracyPercent,
			TotalWords:      res.TotalWords,
			CorrectWords:    res.CorrectWords,
			IncorrectWords:  res.IncorrectWords,
			MissingWords:    res.MissingWords,
			ExtraWords:      res.ExtraWords,
			ElapsedMs:       end.Sub(start).Milliseconds(),
			SubmittedText:   submitted,
		}
		id, err := st.InsertAttempt(ctx, attempt, WordStatsFromDiff(res.Diff))
		if err != nil {
			t.Fatalf("insert attempt: %v", err)
		}
		ids = append(ids, id)
	}

	cfg := model.StatsConfig{
		Lang:        "English",
		Last:        2,
		CurveWindow: 1,
	}
	report, err := BuildReport(ctx, st, cfg)
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	if len(report.Attempts) != 2 {
		t.Fatalf("expected 2 attempts, got %d", len(report.Attempts))
	}
	if report.Attempts[0].AttemptID != ids[1] || report.Attempts[1].AttemptID != ids[2] {
		t.Fatalf("unexpected attempt ids: %+v", report.Attempts)
	}
	if len(report.WindowAttemptIDs) != 1 || report.WindowAttemptIDs[0] != ids[2] {
		t.Fatalf("unexpected window attempt ids: %v", report.WindowAttemptIDs)
	}

	all := map[string]model.WordAggregate{}
	for _, agg := range report.WordAggsAll {
		all[agg.Word] = agg
	}
	if q := all["quick"]; q.Correct != 1 || q.Incorrect != 1 {
		t.Fatalf("unexpected quick aggregate: %+v", q)
	}
	if f := all["fox"]; f.Correct != 1 || f.Missing != 1 {
		t.Fatalf("unexpected fox aggregate: %+v", f)
	}
	if len(report.WordAggsWindow) != 4 {
		t.Fatalf("expected 4 words in window, got %d", len(report.WordAggsWindow))
	}
}
