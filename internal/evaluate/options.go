package evaluate

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseTokenization maps a config value to a Tokenization. Empty means default.
func ParseTokenization(s string) (Tokenization, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "collapse":
		return TokenizeCollapse, nil
	case "compat":
		return TokenizeCompat, nil
	default:
		return TokenizeCollapse, fmt.Errorf("unknown tokenization %q (use collapse or compat)", s)
	}
}

// ParseIncorrectFormula maps a config value to an IncorrectFormula. Empty means default.
func ParseIncorrectFormula(s string) (IncorrectFormula, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "entries":
		return IncorrectEntries, nil
	case "compat":
		return IncorrectCompat, nil
	default:
		return IncorrectEntries, fmt.Errorf("unknown incorrect formula %q (use entries or compat)", s)
	}
}

// ParseDuration reads the leading integer of a label such as "10 Minutes".
// Labels without a leading integer yield 0.
func ParseDuration(label string) int {
	fields := strings.Fields(label)
	if len(fields) == 0 {
		return 0
	}
	head := fields[0]
	end := 0
	if end < len(head) && (head[end] == '-' || head[end] == '+') {
		end++
	}
	digitsStart := end
	for end < len(head) && head[end] >= '0' && head[end] <= '9' {
		end++
	}
	if end == digitsStart {
		return 0
	}
	n, err := strconv.Atoi(head[:end])
	if err != nil {
		return 0
	}
	return n
}

// FormatDuration builds the label ParseDuration understands.
func FormatDuration(minutes int) string {
	if minutes == 1 {
		return "1 Minute"
	}
	return fmt.Sprintf("%d Minutes", minutes)
}
