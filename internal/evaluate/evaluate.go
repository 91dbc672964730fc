// Package evaluate scores a typed transcription against a reference text.
package evaluate

import (
	"fmt"
	"math"
	"strings"
)

// Kind classifies one aligned word position.
type Kind int

const (
	// Correct marks positions whose words match case-insensitively.
	Correct Kind = iota
	// Incorrect marks positions where both words exist but differ.
	Incorrect
	// Missing marks reference words the submission never reached.
	Missing
	// Extra marks submitted words past the end of the reference.
	Extra
)

var kindNames = [...]string{"correct", "incorrect", "missing", "extra"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// MarshalText renders the kind by name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Entry is one position of the word-aligned diff.
// Original is empty for Extra entries and Submitted is empty for Missing ones.
type Entry struct {
	Kind      Kind   `json:"type"`
	Original  string `json:"original,omitempty"`
	Submitted string `json:"submitted,omitempty"`
}

// Input carries the texts and nominal duration of a single attempt.
type Input struct {
	ReferenceText   string
	SubmittedText   string
	DurationMinutes float64
}

// Result holds the scored diff and summary metrics.
type Result struct {
	WordsPerMinute  int     `json:"wpm"`
	AccuracyPercent float64 `json:"accuracy"`
	TotalWords      int     `json:"totalWords"`
	CorrectWords    int     `json:"correctWords"`
	IncorrectWords  int     `json:"incorrectWords"`
	MissingWords    int     `json:"missingWords"`
	ExtraWords      int     `json:"extraWords"`
	Diff            []Entry `json:"diff"`
}

// Tokenization selects how the two texts are split into words.
type Tokenization int

const (
	// TokenizeCollapse trims and splits both texts on whitespace runs.
	TokenizeCollapse Tokenization = iota
	// TokenizeCompat keeps the legacy behavior where a blank reference
	// still yields a single empty word.
	TokenizeCompat
)

// IncorrectFormula selects how IncorrectWords is derived.
type IncorrectFormula int

const (
	// IncorrectEntries counts Incorrect entries only.
	IncorrectEntries IncorrectFormula = iota
	// IncorrectCompat uses reference words minus correct words plus extra words.
	IncorrectCompat
)

// Options tunes tokenization and the incorrect-word formula.
// The zero value is the recommended default.
type Options struct {
	Tokenization Tokenization
	Incorrect    IncorrectFormula
}

// Evaluate scores submitted against reference with default options.
func Evaluate(reference, submitted string, durationMinutes float64) Result {
	return Options{}.Evaluate(Input{
		ReferenceText:   reference,
		SubmittedText:   submitted,
		DurationMinutes: durationMinutes,
	})
}

// Evaluate aligns the two texts word by word, strictly by position.
// It never fails: blank texts and non-positive durations yield zero metrics.
func (o Options) Evaluate(in Input) Result {
	refWords := o.referenceWords(in.ReferenceText)
	subWords := SubmittedWords(in.SubmittedText)

	alignLen := len(refWords)
	if len(subWords) > alignLen {
		alignLen = len(subWords)
	}

	res := Result{
		TotalWords: len(refWords),
		Diff:       make([]Entry, 0, alignLen),
	}
	for i := 0; i < alignLen; i++ {
		switch {
		case i >= len(subWords):
			res.Diff = append(res.Diff, Entry{Kind: Missing, Original: refWords[i]})
			res.MissingWords++
		case i >= len(refWords):
			res.Diff = append(res.Diff, Entry{Kind: Extra, Submitted: subWords[i]})
			res.ExtraWords++
		case strings.ToLower(subWords[i]) == strings.ToLower(refWords[i]):
			res.Diff = append(res.Diff, Entry{Kind: Correct, Original: refWords[i], Submitted: subWords[i]})
			res.CorrectWords++
		default:
			res.Diff = append(res.Diff, Entry{Kind: Incorrect, Original: refWords[i], Submitted: subWords[i]})
			res.IncorrectWords++
		}
	}

	if o.Incorrect == IncorrectCompat {
		res.IncorrectWords = len(refWords) - res.CorrectWords + res.ExtraWords
		if res.IncorrectWords < 0 {
			res.IncorrectWords = 0
		}
	}

	res.WordsPerMinute = wordsPerMinute(len(subWords), in.DurationMinutes)
	if len(refWords) > 0 {
		res.AccuracyPercent = float64(res.CorrectWords) / float64(len(refWords)) * 100
	}
	return res
}

func (o Options) referenceWords(text string) []string {
	if o.Tokenization == TokenizeCompat {
		trimmed := strings.TrimSpace(text)
		if trimmed == "" {
			return []string{""}
		}
		return strings.Fields(trimmed)
	}
	return strings.Fields(text)
}

// SubmittedWords splits a transcription into words, dropping empty tokens.
func SubmittedWords(text string) []string {
	return strings.Fields(text)
}

func wordsPerMinute(words int, minutes float64) int {
	if !(minutes > 0) {
		return 0
	}
	wpm := math.Round(float64(words) / minutes)
	if wpm > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(wpm)
}
