package passage

import (
	"strings"
	"unicode"
)

// IsDrillWord reports whether a token is worth drilling: it must contain a letter.
func IsDrillWord(word string) bool {
	for _, r := range word {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

// NormalizeWord lowercases a word and strips surrounding punctuation.
func NormalizeWord(word string) string {
	word = strings.TrimFunc(word, func(r rune) bool {
		return unicode.IsPunct(r) || unicode.IsSymbol(r)
	})
	return strings.ToLower(word)
}

// Vocabulary collects the distinct drill words of the given texts in first-seen order.
func Vocabulary(texts ...string) []string {
	seen := map[string]struct{}{}
	var words []string
	for _, text := range texts {
		for _, field := range strings.Fields(text) {
			word := NormalizeWord(field)
			if !IsDrillWord(word) {
				continue
			}
			if _, ok := seen[word]; ok {
				continue
			}
			seen[word] = struct{}{}
			words = append(words, word)
		}
	}
	return words
}
