package generator

import "testing"

func TestGenerateUsesPool(t *testing.T) {
	gen := NewWithSeed(1)
	pool := []string{"alpha", "beta", "gamma"}
	words := gen.Generate(pool, 20)
	if len(words) != 20 {
		t.Fatalf("expected 20 words, got %d", len(words))
	}
	allowed := map[string]bool{"alpha": true, "beta": true, "gamma": true}
	for _, w := range words {
		if !allowed[w] {
			t.Fatalf("unexpected word %q", w)
		}
	}
}

func TestGenerateEmptyPool(t *testing.T) {
	gen := NewWithSeed(1)
	if words := gen.Generate(nil, 5); words != nil {
		t.Fatalf("expected nil for empty pool, got %v", words)
	}
	if words := gen.GenerateWeighted([]string{"a"}, 0, nil, 2); words != nil {
		t.Fatalf("expected nil for zero count, got %v", words)
	}
}

func TestGenerateWeightedFavorsWeakWords(t *testing.T) {
	gen := NewWithSeed(42)
	pool := []string{"easy", "plain", "simple", "tricky"}
	weak := map[string]struct{}{"tricky": {}}
	words := gen.GenerateWeighted(pool, 2000, weak, 9)

	counts := map[string]int{}
	for _, w := range words {
		counts[w]++
	}
	if counts["tricky"] <= counts["easy"] || counts["tricky"] <= counts["plain"] {
		t.Fatalf("expected weak word to dominate, got %v", counts)
	}
}

func TestGenerateDeterministicWithSeed(t *testing.T) {
	pool := []string{"one", "two", "three", "four"}
	a := NewWithSeed(7).Generate(pool, 10)
	b := NewWithSeed(7).Generate(pool, 10)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("expected identical sequences, differ at %d: %v vs %v", i, a, b)
		}
	}
}
