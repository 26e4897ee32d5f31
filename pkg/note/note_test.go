package note

import (
	"encoding/json"
	"testing"
	"time"
)

func TestNormalizeSectionTitle(t *testing.T) {
	cases := map[string]string{
		"Work":          "📁 Work",
		"  Work  ":      "📁 Work",
		"📁 Work":        "📁 Work",
		"📁Personal":     "📁Personal",
		"":              "📁 ",
	}
	for in, want := range cases {
		if got := NormalizeSectionTitle(in); got != want {
			t.Fatalf("NormalizeSectionTitle(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestStripSectionGlyphRoundTrip(t *testing.T) {
	title := NormalizeSectionTitle("Recipes")
	if got := StripSectionGlyph(title); got != "Recipes" {
		t.Fatalf("expected glyph stripped, got %q", got)
	}
	if got := StripSectionGlyph("Plain"); got != "Plain" {
		t.Fatalf("expected untouched title, got %q", got)
	}
}

func TestLanguageCycleAndMetadata(t *testing.T) {
	if None.Next() != Rust || Rust.Next() != Python || Python.Next() != None {
		t.Fatalf("unexpected language cycle")
	}
	if Rust.Extension() != "rs" || Python.Extension() != "py" || None.Extension() != "txt" {
		t.Fatalf("unexpected extensions")
	}
	if lang, ok := LanguageForDir("python"); !ok || lang != Python {
		t.Fatalf("expected python dir to map back, got %v %v", lang, ok)
	}
	var zero Language
	if zero != None {
		t.Fatalf("zero language should be None")
	}
}

func TestParseLanguage(t *testing.T) {
	for in, want := range map[string]Language{"Rust": Rust, "python": Python, "": None, "NONE": None} {
		got, err := ParseLanguage(in)
		if err != nil {
			t.Fatalf("ParseLanguage(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseLanguage(%q) = %v, want %v", in, got, want)
		}
	}
	if _, err := ParseLanguage("cobol"); err == nil {
		t.Fatalf("expected error for unknown language")
	}
}

func TestDetailJSONUsesLanguageNames(t *testing.T) {
	d := NewDetail("t", "d", Python, time.Date(2024, 1, 2, 3, 4, 5, 0, time.Local))
	b, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back Detail
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.Language != Python || back.CreatedAt != "2024-01-02 03:04:05" {
		t.Fatalf("unexpected detail after round trip: %+v", back)
	}
}

func TestFocusAndPopupCycles(t *testing.T) {
	if FocusSections.Next() != FocusDetails || FocusSearch.Next() != FocusSections {
		t.Fatalf("unexpected focus cycle")
	}
	if FocusSections.Prev() != FocusSearch {
		t.Fatalf("unexpected reverse focus cycle")
	}
	if PopupCode.Next() != PopupTitle || PopupTitle.Prev() != PopupCode {
		t.Fatalf("unexpected popup cycle")
	}
}

func TestSectionCloneIsDeep(t *testing.T) {
	s := Section{ID: 1, Details: []Detail{{ID: 1, Title: "a"}}}
	c := s.Clone()
	c.Details[0].Title = "b"
	if s.Details[0].Title != "a" {
		t.Fatalf("clone shares details with original")
	}
	if s.DetailIndex(1) != 0 || s.DetailIndex(9) != -1 {
		t.Fatalf("unexpected DetailIndex")
	}
}
