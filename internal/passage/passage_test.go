package passage

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "passage.txt")
	if err := os.WriteFile(path, []byte("\ufeffone two\r\nthree\r\n"), 0o644); err != nil {
		t.Fatalf("write passage: %v", err)
	}
	text, err := LoadText(path)
	if err != nil {
		t.Fatalf("load passage: %v", err)
	}
	if text != "one two\nthree\n" {
		t.Fatalf("unexpected text: %q", text)
	}
}

func TestLoadTextRejectsBlank(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blank.txt")
	if err := os.WriteFile(path, []byte(" \n\t\n"), 0o644); err != nil {
		t.Fatalf("write passage: %v", err)
	}
	if _, err := LoadText(path); err == nil {
		t.Fatalf("expected blank passage to be rejected")
	}
	if _, err := LoadText(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Fatalf("expected missing passage to fail")
	}
}

func TestIsDrillWord(t *testing.T) {
	for _, word := range []string{"hello", "Court", "नमस्ते", "don't"} {
		if !IsDrillWord(word) {
			t.Fatalf("expected %q to be a drill word", word)
		}
	}
	for _, word := range []string{"", "--", "1984", "..."} {
		if IsDrillWord(word) {
			t.Fatalf("expected %q to be rejected", word)
		}
	}
}

func TestNormalizeWord(t *testing.T) {
	if got := NormalizeWord("\"Hello,\""); got != "hello" {
		t.Fatalf("unexpected normalized word %q", got)
	}
	if got := NormalizeWord("don't"); got != "don't" {
		t.Fatalf("expected inner punctuation kept, got %q", got)
	}
}

func TestVocabulary(t *testing.T) {
	got := Vocabulary("The court, the bail.", "Bail 42 granted")
	want := []string{"the", "court", "bail", "granted"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
	if words := Vocabulary("", "  "); len(words) != 0 {
		t.Fatalf("expected no words, got %v", words)
	}
}

func TestReadTextAllowsBlank(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blank.txt")
	if err := os.WriteFile(path, []byte("\r\n"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	text, err := ReadText(path)
	if err != nil {
		t.Fatalf("read text: %v", err)
	}
	if text != "\n" {
		t.Fatalf("unexpected text: %q", text)
	}
}
