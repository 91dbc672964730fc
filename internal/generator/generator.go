// Package generator builds drill passages from practiced words.
package generator

import (
	"math/rand"
	"time"
)

// Generator produces randomized drill passages.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewWithSeed(time.Now().UnixNano())
}

// NewWithSeed returns a deterministic Generator.
func NewWithSeed(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// Generate selects count words uniformly from the pool.
func (g *Generator) Generate(pool []string, count int) []string {
	if len(pool) == 0 || count <= 0 {
		return nil
	}
	result := make([]string, 0, count)
	for i := 0; i < count; i++ {
		result = append(result, pool[g.rnd.Intn(len(pool))])
	}
	return result
}

// GenerateWeighted selects words with a bias toward the weak set.
// Weak words weigh 1+factor, the rest weigh 1.
func (g *Generator) GenerateWeighted(pool []string, count int, weakSet map[string]struct{}, factor float64) []string {
	if len(pool) == 0 || count <= 0 {
		return nil
	}
	if factor < 0 {
		factor = 0
	}
	weights := make([]float64, len(pool))
	total := 0.0
	for i, word := range pool {
		w := 1.0
		if _, ok := weakSet[word]; ok {
			w += factor
		}
		weights[i] = w
		total += w
	}

	result := make([]string, 0, count)
	prev := -1
	for i := 0; i < count; i++ {
		idx := g.pick(weights, total)
		// Avoid immediate repeats when the pool allows it.
		if idx == prev && len(pool) > 1 {
			idx = g.pick(weights, total)
		}
		prev = idx
		result = append(result, pool[idx])
	}
	return result
}

func (g *Generator) pick(weights []float64, total float64) int {
	r := g.rnd.Float64() * total
	acc := 0.0
	for j, w := range weights {
		acc += w
		if r <= acc {
			return j
		}
	}
	return len(weights) - 1
}
