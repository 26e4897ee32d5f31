package list

import (
	"testing"

	"tableflip.dev/notebox/pkg/note"
)

func TestMatchPrefersBestScore(t *testing.T) {
	sections := []note.Section{
		{ID: 1, Title: "📁 Notes"},
		{ID: 2, Title: "📁 Rust tricks"},
		{ID: 3, Title: "📁 Python"},
	}
	got, ok := Match(sections, "rst")
	if !ok || got.ID != 2 {
		t.Fatalf("Match(rst) = %+v, %v", got, ok)
	}
	got, ok = Match(sections, "Python")
	if !ok || got.ID != 3 {
		t.Fatalf("Match(Python) = %+v, %v", got, ok)
	}
}

func TestMatchNone(t *testing.T) {
	if _, ok := Match([]note.Section{{Title: "📁 Notes"}}, "zzz"); ok {
		t.Fatal("expected no match")
	}
	if _, ok := Match(nil, "a"); ok {
		t.Fatal("expected no match on empty list")
	}
}
