package info

import (
	"testing"

	"tableflip.dev/notebox/pkg/note"
)

func TestLanguagesOrdered(t *testing.T) {
	got := languages(map[note.Language]int{note.Python: 1, note.Rust: 3})
	if got != "🦀 3 🐍 1" {
		t.Fatalf("languages() = %q", got)
	}
	if got := languages(nil); got != "" {
		t.Fatalf("languages(nil) = %q", got)
	}
}
