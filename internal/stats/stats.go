// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/verte-zerg/stenopad/internal/evaluate"
	"github.com/verte-zerg/stenopad/internal/model"
)

const sparkChars = " .:-=+*#%@"

// Summary aggregates attempt metrics.
type Summary struct {
	Attempts     int
	AvgWPM       float64
	BestWPM      int
	AvgAccuracy  float64
	BestAccuracy float64
}

// Summarize averages WPM and accuracy over attempts.
func Summarize(attempts []model.AttemptAggregate) Summary {
	var s Summary
	if len(attempts) == 0 {
		return s
	}
	var totalWPM, totalAcc float64
	for _, a := range attempts {
		totalWPM += float64(a.WPM)
		totalAcc += a.Accuracy
		if a.WPM > s.BestWPM {
			s.BestWPM = a.WPM
		}
		if a.Accuracy > s.BestAccuracy {
			s.BestAccuracy = a.Accuracy
		}
	}
	s.Attempts = len(attempts)
	s.AvgWPM = totalWPM / float64(len(attempts))
	s.AvgAccuracy = totalAcc / float64(len(attempts))
	return s
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window <= 1 || len(values) == 0 {
		copy(out, values)
		return out
	}
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal, maxVal := minMax(values)
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// RenderSummary prints a summary block for attempts.
func RenderSummary(w io.Writer, attempts []model.AttemptAggregate) error {
	if len(attempts) == 0 {
		_, err := fmt.Fprintln(w, "No attempts found.")
		return err
	}
	s := Summarize(attempts)
	wpms := make([]float64, len(attempts))
	for i, a := range attempts {
		wpms[i] = float64(a.WPM)
	}
	lines := []string{
		"Summary",
		fmt.Sprintf("Attempts: %d", s.Attempts),
		fmt.Sprintf("Avg WPM: %.1f", s.AvgWPM),
		fmt.Sprintf("Best WPM: %d", s.BestWPM),
		fmt.Sprintf("Avg Accuracy: %.1f%%", s.AvgAccuracy),
		fmt.Sprintf("Best Accuracy: %.1f%%", s.BestAccuracy),
		fmt.Sprintf("WPM trend: %s", Sparkline(wpms)),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderCurves prints learning curves for WPM and accuracy.
func RenderCurves(w io.Writer, attempts []model.AttemptAggregate, window int) error {
	return RenderCurvesWithSize(w, attempts, window, 0, defaultPlotHeight, false)
}

// RenderCurvesWithSize prints learning curves sized to a given total width.
func RenderCurvesWithSize(w io.Writer, attempts []model.AttemptAggregate, window, totalWidth, height int, useColor bool) error {
	if len(attempts) == 0 {
		return nil
	}
	wpms := make([]float64, len(attempts))
	accs := make([]float64, len(attempts))
	for i, a := range attempts {
		wpms[i] = float64(a.WPM)
		accs[i] = a.Accuracy
	}
	width := 0
	if totalWidth > 0 {
		width = PlotWidthFor(totalWidth)
	}
	return PlotSeriesWithColor(w, "Learning Curves", []Series{
		{Name: "WPM", Values: MovingAverage(wpms, window)},
		{Name: "Accuracy", Values: MovingAverage(accs, window)},
	}, width, height, useColor)
}

// RenderWordTable prints per-word aggregates, weakest first.
func RenderWordTable(w io.Writer, aggs []model.WordAggregate) error {
	if len(aggs) == 0 {
		_, err := fmt.Fprintln(w, "No word stats found.")
		return err
	}
	rows := append([]model.WordAggregate(nil), aggs...)
	sort.Slice(rows, func(i, j int) bool {
		ai, aj := rows[i].Accuracy(), rows[j].Accuracy()
		if ai == aj {
			return rows[i].Word < rows[j].Word
		}
		return ai < aj
	})

	if _, err := fmt.Fprintln(w, "Per-Word (Windowed)"); err != nil {
		return err
	}
	headers := []string{"Word", "Accuracy", "Correct", "Incorrect", "Missing"}
	tableRows := make([][]string, 0, len(rows))
	for _, r := range rows {
		tableRows = append(tableRows, []string{
			r.Word,
			fmt.Sprintf("%.2f%%", r.Accuracy()*100),
			fmt.Sprintf("%d", r.Correct),
			fmt.Sprintf("%d", r.Incorrect),
			fmt.Sprintf("%d", r.Missing),
		})
	}
	rightAlign := map[int]bool{1: true, 2: true, 3: true, 4: true}
	for _, line := range formatTable(headers, tableRows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderWordCurves prints per-word accuracy curves.
func RenderWordCurves(w io.Writer, attempts []model.AttemptAggregate, perAttempt map[int64]map[string]model.WordAggregate, words []string, window int) error {
	return RenderWordCurvesWithSize(w, attempts, perAttempt, words, window, 0, defaultPlotHeight, false)
}

// RenderWordCurvesWithSize prints per-word accuracy curves sized to a given total width.
// Attempts where the word did not occur carry the previous value forward.
func RenderWordCurvesWithSize(w io.Writer, attempts []model.AttemptAggregate, perAttempt map[int64]map[string]model.WordAggregate, words []string, window, totalWidth, height int, useColor bool) error {
	if len(words) == 0 || len(attempts) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, "Per-Word Curves"); err != nil {
		return err
	}
	width := 0
	if totalWidth > 0 {
		width = PlotWidthFor(totalWidth)
	}
	for _, word := range words {
		series := make([]float64, 0, len(attempts))
		last := -1.0
		for _, a := range attempts {
			if agg, ok := perAttempt[a.AttemptID][word]; ok && agg.Total() > 0 {
				last = agg.Accuracy() * 100
			}
			if last >= 0 {
				series = append(series, last)
			}
		}
		if len(series) == 0 {
			continue
		}
		if err := PlotSeriesWithColor(w, fmt.Sprintf("Word %q", word), []Series{
			{Name: "Accuracy", Values: MovingAverage(series, window)},
		}, width, height, useColor); err != nil {
			return err
		}
	}
	return nil
}

// RenderResult prints an evaluation summary followed by the word diff.
func RenderResult(w io.Writer, res evaluate.Result) error {
	lines := []string{
		fmt.Sprintf("Typing Speed: %d WPM", res.WordsPerMinute),
		fmt.Sprintf("Accuracy: %.1f%%", res.AccuracyPercent),
		fmt.Sprintf("Correct Words: %d", res.CorrectWords),
		fmt.Sprintf("Incorrect Words: %d", res.IncorrectWords),
		fmt.Sprintf("Missing Words: %d", res.MissingWords),
		fmt.Sprintf("Extra Words: %d", res.ExtraWords),
		fmt.Sprintf("Total Words: %d", res.TotalWords),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if len(res.Diff) == 0 {
		return nil
	}
	headers := []string{"#", "Result", "Original", "Submitted"}
	rows := make([][]string, 0, len(res.Diff))
	for i, e := range res.Diff {
		rows = append(rows, []string{fmt.Sprintf("%d", i+1), e.Kind.String(), e.Original, e.Submitted})
	}
	for _, line := range formatTable(headers, rows, map[int]bool{0: true}) {
		if _, err := fmt.Fprintln(w, strings.TrimRight(line, " ")); err != nil {
			return err
		}
	}
	return nil
}
