// Package model defines shared data structures.
package model

import "time"

// StenoTest is a dictation test from the local library.
type StenoTest struct {
	ID           int64
	Title        string
	Language     string
	Speed        string
	Duration     string
	IsFree       bool
	AudioURL     string
	OriginalText string
	CreatedAt    time.Time
}

// TestFilter narrows library listings.
type TestFilter struct {
	Language string
	FreeOnly bool
}

// PracticeConfig defines transcription pad settings.
type PracticeConfig struct {
	Tokenize     string
	Incorrect    string
	AutoSubmit   bool
	WeakTop      int
	WeakFactor   float64
	WeakWindow   int
	DrillWords   int
	DrillMinutes int
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	Lang        string
	Since       *time.Time
	Last        int
	TestID      int64
	CurveWindow int
	Words       string
}

// AttemptStats captures a submitted transcription.
type AttemptStats struct {
	TestID          int64
	StartedAt       time.Time
	EndedAt         time.Time
	Lang            string
	DurationMinutes float64
	WPM             int
	Accuracy        float64
	TotalWords      int
	CorrectWords    int
	IncorrectWords  int
	MissingWords    int
	ExtraWords      int
	ElapsedMs       int64
	SubmittedText   string
}

// WordStats stores per-reference-word outcomes for one attempt.
type WordStats struct {
	Word      string
	Correct   int
	Incorrect int
	Missing   int
}

// WordAggregate aggregates word stats across attempts.
type WordAggregate struct {
	Word      string
	Correct   int
	Incorrect int
	Missing   int
}

// Total counts every occurrence of the word.
func (a WordAggregate) Total() int {
	return a.Correct + a.Incorrect + a.Missing
}

// Accuracy is the correct share of occurrences; words never seen count as fully accurate.
func (a WordAggregate) Accuracy() float64 {
	total := a.Total()
	if total == 0 {
		return 1.0
	}
	return float64(a.Correct) / float64(total)
}

// AttemptAggregate summarizes an attempt for reporting.
type AttemptAggregate struct {
	AttemptID  int64
	TestID     int64
	EndedAt    time.Time
	WPM        int
	Accuracy   float64
	TotalWords int
	Correct    int
	Incorrect  int
	ElapsedMs  int64
}
