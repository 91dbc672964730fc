package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/verte-zerg/stenopad/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "stenopad.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func TestTestLibraryRoundTrip(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	firstID, err := st.AddTest(ctx, model.StenoTest{
		Title:        "Court dictation",
		Language:     "English",
		Speed:        "80 WPM",
		Duration:     "10 Minutes",
		OriginalText: "the court is now in session",
		CreatedAt:    base,
	})
	if err != nil {
		t.Fatalf("add test: %v", err)
	}
	if _, err := st.AddTest(ctx, model.StenoTest{
		Title:        "Hindi warmup",
		Language:     "Hindi",
		Speed:        "60 WPM",
		Duration:     "5 Minutes",
		IsFree:       true,
		AudioURL:     "https://example.com/a.mp3",
		OriginalText: "नमस्ते दुनिया",
		CreatedAt:    base.Add(time.Hour),
	}); err != nil {
		t.Fatalf("add test: %v", err)
	}

	got, err := st.GetTest(ctx, firstID)
	if err != nil {
		t.Fatalf("get test: %v", err)
	}
	if got.Title != "Court dictation" || got.Duration != "10 Minutes" || got.IsFree {
		t.Fatalf("unexpected test: %+v", got)
	}
	if !got.CreatedAt.Equal(base) {
		t.Fatalf("expected created at %v, got %v", base, got.CreatedAt)
	}

	all, err := st.ListTests(ctx, model.TestFilter{})
	if err != nil {
		t.Fatalf("list tests: %v", err)
	}
	if len(all) != 2 || all[0].Title != "Hindi warmup" {
		t.Fatalf("expected newest first, got %+v", all)
	}

	free, err := st.ListTests(ctx, model.TestFilter{FreeOnly: true})
	if err != nil {
		t.Fatalf("list free tests: %v", err)
	}
	if len(free) != 1 || !free[0].IsFree {
		t.Fatalf("expected one free test, got %+v", free)
	}

	english, err := st.ListTests(ctx, model.TestFilter{Language: "english"})
	if err != nil {
		t.Fatalf("list english tests: %v", err)
	}
	if len(english) != 1 || english[0].ID != firstID {
		t.Fatalf("expected case-insensitive language filter, got %+v", english)
	}

	if err := st.DeleteTest(ctx, firstID); err != nil {
		t.Fatalf("delete test: %v", err)
	}
	if _, err := st.GetTest(ctx, firstID); !errors.Is(err, ErrTestNotFound) {
		t.Fatalf("expected ErrTestNotFound, got %v", err)
	}
	if err := st.DeleteTest(ctx, firstID); !errors.Is(err, ErrTestNotFound) {
		t.Fatalf("expected ErrTestNotFound on second delete, got %v", err)
	}
}

func insertAttempt(t *testing.T, st *Store, testID int64, lang string, endedAt time.Time, words []model.WordStats) int64 {
	t.Helper()
	id, err := st.InsertAttempt(context.Background(), model.AttemptStats{
		TestID:          testID,
		StartedAt:       endedAt.Add(-time.Minute),
		EndedAt:         endedAt,
		Lang:            lang,
		DurationMinutes: 1,
		WPM:             40,
		Accuracy:        75,
		TotalWords:      4,
		CorrectWords:    3,
		IncorrectWords:  1,
		ElapsedMs:       60000,
		SubmittedText:   "the slow brown fox",
	}, words)
	if err != nil {
		t.Fatalf("insert attempt: %v", err)
	}
	return id
}

func TestAttemptsAndWordStats(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	words := []model.WordStats{
		{Word: "quick", Incorrect: 1},
		{Word: "fox", Correct: 1},
	}
	first := insertAttempt(t, st, 1, "English", base, words)
	second := insertAttempt(t, st, 2, "English", base.Add(time.Hour), []model.WordStats{
		{Word: "quick", Correct: 1},
		{Word: "lazy", Missing: 1},
	})
	insertAttempt(t, st, 3, "Hindi", base.Add(2*time.Hour), nil)

	attempts, err := st.ListAttempts(ctx, model.StatsConfig{Lang: "english"})
	if err != nil {
		t.Fatalf("list attempts: %v", err)
	}
	if len(attempts) != 2 || attempts[0].AttemptID != first || attempts[1].AttemptID != second {
		t.Fatalf("unexpected attempts: %+v", attempts)
	}
	if attempts[0].WPM != 40 || attempts[0].Accuracy != 75 || attempts[0].Correct != 3 {
		t.Fatalf("unexpected attempt metrics: %+v", attempts[0])
	}

	since := base.Add(30 * time.Minute)
	recent, err := st.ListAttempts(ctx, model.StatsConfig{Since: &since})
	if err != nil {
		t.Fatalf("list attempts since: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("expected 2 recent attempts, got %d", len(recent))
	}

	byTest, err := st.ListAttempts(ctx, model.StatsConfig{TestID: 2})
	if err != nil {
		t.Fatalf("list attempts by test: %v", err)
	}
	if len(byTest) != 1 || byTest[0].AttemptID != second {
		t.Fatalf("unexpected attempts for test 2: %+v", byTest)
	}

	aggs, err := st.ListWordAggregatesForAttempts(ctx, []int64{first, second})
	if err != nil {
		t.Fatalf("list word aggregates: %v", err)
	}
	byWord := map[string]model.WordAggregate{}
	for _, agg := range aggs {
		byWord[agg.Word] = agg
	}
	if q := byWord["quick"]; q.Correct != 1 || q.Incorrect != 1 {
		t.Fatalf("unexpected quick aggregate: %+v", q)
	}
	if l := byWord["lazy"]; l.Missing != 1 {
		t.Fatalf("unexpected lazy aggregate: %+v", l)
	}

	perAttempt, err := st.ListWordStatsForAttempts(ctx, []int64{first, second}, []string{"quick"})
	if err != nil {
		t.Fatalf("list word stats: %v", err)
	}
	if perAttempt[first]["quick"].Incorrect != 1 || perAttempt[second]["quick"].Correct != 1 {
		t.Fatalf("unexpected per-attempt stats: %+v", perAttempt)
	}
	if _, ok := perAttempt[first]["fox"]; ok {
		t.Fatalf("expected unselected words to be excluded")
	}

	weak, err := st.GetWeakWords(ctx, 1, "English")
	if err != nil {
		t.Fatalf("get weak words: %v", err)
	}
	if len(weak) != 2 {
		t.Fatalf("expected words from latest english attempt only, got %+v", weak)
	}
	none, err := st.GetWeakWords(ctx, 0, "")
	if err != nil || none != nil {
		t.Fatalf("expected no weak words for zero window, got %v %v", none, err)
	}
}

func TestInsertAttemptRollsBackOnDuplicateWord(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	_, err := st.InsertAttempt(ctx, model.AttemptStats{
		StartedAt: time.Unix(0, 0),
		EndedAt:   time.Unix(60, 0),
		Lang:      "English",
	}, []model.WordStats{{Word: "dup"}, {Word: "dup"}})
	if err == nil {
		t.Fatalf("expected primary key violation")
	}
	attempts, err := st.ListAttempts(ctx, model.StatsConfig{})
	if err != nil {
		t.Fatalf("list attempts: %v", err)
	}
	if len(attempts) != 0 {
		t.Fatalf("expected rollback, found %d attempts", len(attempts))
	}
}
