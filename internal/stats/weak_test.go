package stats

import (
	"testing"

	"github.com/verte-zerg/stenopad/internal/model"
)

func TestWeakWordsOrdersByAccuracy(t *testing.T) {
	aggs := []model.WordAggregate{
		{Word: "court", Correct: 4},
		{Word: "hearing", Correct: 1, Incorrect: 1},
		{Word: "bail", Missing: 2},
		{Word: "adjourn", Correct: 3, Missing: 1},
		{Word: "plea", Incorrect: 1},
	}
	got := WeakWords(aggs, 0)
	want := []string{"bail", "plea", "hearing", "adjourn"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestSelectWeakWordsLimitsTop(t *testing.T) {
	aggs := []model.WordAggregate{
		{Word: "a", Incorrect: 1},
		{Word: "b", Correct: 1, Incorrect: 1},
		{Word: "c", Correct: 1},
	}
	set := SelectWeakWords(aggs, 1)
	if len(set) != 1 {
		t.Fatalf("expected 1 weak word, got %v", set)
	}
	if _, ok := set["a"]; !ok {
		t.Fatalf("expected weakest word selected, got %v", set)
	}
	if set := SelectWeakWords(nil, 3); len(set) != 0 {
		t.Fatalf("expected empty set, got %v", set)
	}
}
