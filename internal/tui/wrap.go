package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/stenopad/internal/evaluate"
)

type diffSpan struct {
	s     string
	width int
}

func buildDiffSpans(diff []evaluate.Entry) []diffSpan {
	out := make([]diffSpan, 0, len(diff))
	for _, entry := range diff {
		var s, plain string
		switch entry.Kind {
		case evaluate.Correct:
			plain = entry.Submitted
			s = correctStyle.Render(plain)
		case evaluate.Incorrect:
			hint := "(" + entry.Original + ")"
			plain = entry.Submitted + " " + hint
			s = incorrectStyle.Render(entry.Submitted) + " " + referenceStyle.Render(hint)
		case evaluate.Extra:
			plain = entry.Submitted
			s = extraStyle.Render(plain)
		case evaluate.Missing:
			plain = entry.Original
			s = missingStyle.Render(plain)
		default:
			continue
		}
		out = append(out, diffSpan{s: s, width: runewidth.StringWidth(plain)})
	}
	return out
}

// wrapSpans joins spans with single spaces, breaking lines between spans.
func wrapSpans(spans []diffSpan, width int) string {
	var out strings.Builder
	lineWidth := 0
	for i, span := range spans {
		if i > 0 {
			if width > 0 && lineWidth+1+span.width > width {
				out.WriteRune('\n')
				lineWidth = 0
			} else {
				out.WriteRune(' ')
				lineWidth++
			}
		}
		out.WriteString(span.s)
		lineWidth += span.width
	}
	return out.String()
}

// wrapText word-wraps plain text, keeping existing line breaks.
func wrapText(text string, width int) string {
	if width <= 0 {
		return text
	}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		words := strings.Fields(line)
		spans := make([]diffSpan, len(words))
		for j, w := range words {
			spans[j] = diffSpan{s: w, width: runewidth.StringWidth(w)}
		}
		lines[i] = wrapSpans(spans, width)
	}
	return strings.Join(lines, "\n")
}
