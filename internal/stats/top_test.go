package stats

import (
	"testing"

	"github.com/verte-zerg/stenopad/internal/model"
)

func TestTopWordsByFrequency(t *testing.T) {
	aggs := []model.WordAggregate{
		{Word: "brown", Correct: 3, Incorrect: 1},
		{Word: "appeal", Correct: 2, Missing: 2},
		{Word: "court", Correct: 1},
	}
	top := TopWordsByFrequency(aggs, 2)
	if len(top) != 2 {
		t.Fatalf("expected 2 words, got %d", len(top))
	}
	if top[0] != "appeal" || top[1] != "brown" {
		t.Fatalf("unexpected order: %v", top)
	}
	if got := TopWordsByFrequency(aggs, 10); len(got) != 3 {
		t.Fatalf("expected all words when n exceeds size, got %v", got)
	}
}
