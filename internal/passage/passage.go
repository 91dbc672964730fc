// Package passage loads dictation texts from files.
package passage

import (
	"fmt"
	"os"
	"strings"
)

// ReadText reads a text file, dropping a byte order mark and CRLF line endings.
func ReadText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	return strings.TrimPrefix(text, "\ufeff"), nil
}

// LoadText reads a passage file and rejects blank passages.
func LoadText(path string) (string, error) {
	text, err := ReadText(path)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("passage %s is empty", path)
	}
	return text, nil
}
