// Package highlight colors code snippets for terminal display.
package highlight

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"

	"tableflip.dev/notebox/pkg/note"
)

// DefaultStyle is the chroma style used when none is configured.
const DefaultStyle = "monokai"

// Lines returns code split on newlines with each line colored for lang.
// The result always has one entry per line of code, so callers can index
// it with buffer line numbers. Plain text and lexer failures come back
// uncolored.
func Lines(code string, lang note.Language, style string) []string {
	plain := strings.Split(code, "\n")
	lexer := lexerFor(lang)
	if lexer == nil || code == "" {
		return plain
	}
	it, err := lexer.Tokenise(nil, code)
	if err != nil {
		return plain
	}
	st := styles.Get(style)
	if st == nil {
		st = styles.Fallback
	}

	out := make([]string, 0, len(plain))
	for _, line := range chroma.SplitTokensIntoLines(it.Tokens()) {
		if len(out) == len(plain) {
			break
		}
		var b strings.Builder
		if err := formatters.TTY256.Format(&b, st, chroma.Literator(line...)); err != nil {
			return plain
		}
		out = append(out, strings.ReplaceAll(b.String(), "\n", ""))
	}
	for len(out) < len(plain) {
		out = append(out, plain[len(out)])
	}
	return out
}

// Highlight returns code colored for lang as a single string.
func Highlight(code string, lang note.Language, style string) string {
	return strings.Join(Lines(code, lang, style), "\n")
}

func lexerFor(lang note.Language) chroma.Lexer {
	var l chroma.Lexer
	switch lang {
	case note.Rust:
		l = lexers.Get("rust")
	case note.Python:
		l = lexers.Get("python")
	default:
		return nil
	}
	if l == nil {
		return nil
	}
	return chroma.Coalesce(l)
}
