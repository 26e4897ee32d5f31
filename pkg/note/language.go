package note

import (
	"fmt"
	"strings"

	"tableflip.dev/notebox/pkg/glyph"
)

// Language identifies the syntax of a detail's code snippet.
type Language int

const (
	None Language = iota
	Rust
	Python
)

// Languages lists every language in cycling order.
var Languages = []Language{None, Rust, Python}

// ParseLanguage accepts "rust", "python", "none" or "" in any case.
func ParseLanguage(s string) (Language, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "rust":
		return Rust, nil
	case "python":
		return Python, nil
	case "none", "":
		return None, nil
	default:
		return None, fmt.Errorf("note: invalid language %q", s)
	}
}

// String returns the stored name of the language.
func (l Language) String() string {
	switch l {
	case Rust:
		return "rust"
	case Python:
		return "python"
	default:
		return "none"
	}
}

// Extension is the file extension used for snippets.
func (l Language) Extension() string {
	switch l {
	case Rust:
		return "rs"
	case Python:
		return "py"
	default:
		return "txt"
	}
}

// Dir is the code store subdirectory for the language.
func (l Language) Dir() string {
	switch l {
	case Rust:
		return "rust"
	case Python:
		return "python"
	default:
		return "text"
	}
}

func (l Language) Icon() string {
	switch l {
	case Rust:
		return glyph.Rust
	case Python:
		return glyph.Python
	default:
		return glyph.Text
	}
}

// Label is the human readable name with its icon.
func (l Language) Label() string {
	switch l {
	case Rust:
		return l.Icon() + " Rust"
	case Python:
		return l.Icon() + " Python"
	default:
		return l.Icon() + " Text"
	}
}

// Next cycles None → Rust → Python → None.
func (l Language) Next() Language {
	for i, lang := range Languages {
		if lang == l {
			return Languages[(i+1)%len(Languages)]
		}
	}
	return None
}

// LanguageForDir maps a code store directory back to its language.
func LanguageForDir(dir string) (Language, bool) {
	for _, lang := range Languages {
		if lang.Dir() == dir {
			return lang, true
		}
	}
	return None, false
}

func (l Language) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

func (l *Language) UnmarshalText(b []byte) error {
	parsed, err := ParseLanguage(string(b))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}
