package glyph

import "fmt"

// Glyph pairs a symbol with its meaning for the key legend.
type Glyph struct {
	Key     string
	Symbol  string
	Meaning string
}

const (
	Folder = "📁"
	Rust   = "🦀"
	Python = "🐍"
	Text   = "📝"
	Code   = "💻"
	Link   = "🔗"
	Local  = "🔎"
	OK     = "✅"
	Failed = "❌"
)

const (
	escape        = "\x1b"
	resetCode     = 0
	boldCode      = 1
	underlineCode = 4
)

func Bold(in string) string {
	return fmt.Sprintf("%s[%dm%s%s[%dm", escape, boldCode, in, escape, resetCode)
}

func Underline(in string) string {
	return fmt.Sprintf("%s[%dm%s%s[%dm", escape, underlineCode, in, escape, resetCode)
}

// DefaultGlyphs returns the legend printed by `notebox key`.
func DefaultGlyphs() []Glyph {
	return []Glyph{
		{Key: "section", Symbol: Folder, Meaning: "section"},
		{Key: "rust", Symbol: Rust, Meaning: "rust snippet"},
		{Key: "python", Symbol: Python, Meaning: "python snippet"},
		{Key: "none", Symbol: Text, Meaning: "plain note"},
		{Key: "code", Symbol: Code, Meaning: "detail has attached code"},
		{Key: "link", Symbol: Link, Meaning: "remote search result"},
		{Key: "local", Symbol: Local, Meaning: "local search result"},
	}
}

func (g Glyph) String() string {
	return g.Symbol
}
