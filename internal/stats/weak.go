package stats

import (
	"sort"

	"github.com/verte-zerg/stenopad/internal/model"
)

// WeakWords returns up to top words with imperfect accuracy, weakest first.
// A non-positive top returns every imperfect word.
func WeakWords(aggs []model.WordAggregate, top int) []string {
	candidates := make([]model.WordAggregate, 0, len(aggs))
	for _, agg := range aggs {
		if agg.Accuracy() < 1 {
			candidates = append(candidates, agg)
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		ai, aj := candidates[i].Accuracy(), candidates[j].Accuracy()
		if ai == aj {
			if candidates[i].Total() == candidates[j].Total() {
				return candidates[i].Word < candidates[j].Word
			}
			return candidates[i].Total() > candidates[j].Total()
		}
		return ai < aj
	})
	if top <= 0 || top > len(candidates) {
		top = len(candidates)
	}
	out := make([]string, 0, top)
	for _, agg := range candidates[:top] {
		out = append(out, agg.Word)
	}
	return out
}

// SelectWeakWords returns the weakest words as a lookup set.
func SelectWeakWords(aggs []model.WordAggregate, top int) map[string]struct{} {
	weakSet := map[string]struct{}{}
	for _, word := range WeakWords(aggs, top) {
		weakSet[word] = struct{}{}
	}
	return weakSet
}
