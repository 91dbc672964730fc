package stats

import (
	"sort"

	"github.com/verte-zerg/stenopad/internal/model"
)

// TopWordsByFrequency returns the top N words by number of occurrences.
func TopWordsByFrequency(aggs []model.WordAggregate, n int) []string {
	if n <= 0 || len(aggs) == 0 {
		return nil
	}
	items := append([]model.WordAggregate(nil), aggs...)
	sort.Slice(items, func(i, j int) bool {
		ti, tj := items[i].Total(), items[j].Total()
		if ti == tj {
			return items[i].Word < items[j].Word
		}
		return ti > tj
	})
	if n > len(items) {
		n = len(items)
	}
	out := make([]string, 0, n)
	for _, agg := range items[:n] {
		out = append(out, agg.Word)
	}
	return out
}
