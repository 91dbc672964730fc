package stats

import (
	"sort"

	"github.com/verte-zerg/stenopad/internal/evaluate"
	"github.com/verte-zerg/stenopad/internal/model"
	"github.com/verte-zerg/stenopad/internal/passage"
)

// WordStatsFromDiff tallies outcomes per normalized reference word.
// Extra entries have no reference word and are skipped.
func WordStatsFromDiff(diff []evaluate.Entry) []model.WordStats {
	byWord := map[string]*model.WordStats{}
	for _, e := range diff {
		if e.Kind == evaluate.Extra {
			continue
		}
		word := passage.NormalizeWord(e.Original)
		if !passage.IsDrillWord(word) {
			continue
		}
		ws, ok := byWord[word]
		if !ok {
			ws = &model.WordStats{Word: word}
			byWord[word] = ws
		}
		switch e.Kind {
		case evaluate.Correct:
			ws.Correct++
		case evaluate.Incorrect:
			ws.Incorrect++
		case evaluate.Missing:
			ws.Missing++
		}
	}
	out := make([]model.WordStats, 0, len(byWord))
	for _, ws := range byWord {
		out = append(out, *ws)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Word < out[j].Word
	})
	return out
}
