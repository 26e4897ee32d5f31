// Package textbuf implements cursor and selection arithmetic over a single
// mutable UTF-8 string. Offsets are byte offsets that always sit on rune
// boundaries; columns are counted in runes.
package textbuf

import (
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

// IndentWidth is the number of spaces inserted for an indentation tab.
const IndentWidth = 4

// Motion names a cursor movement.
type Motion int

const (
	Left Motion = iota
	Right
	Up
	Down
	Home
	End
	Top
	Bottom
)

// Buffer is an editable text with a cursor, an optional selection and a
// vertical scroll offset.
type Buffer struct {
	text       string
	cursor     int
	sel        selection
	goal       int
	scroll     int
	singleLine bool
}

type selection struct {
	start, end int
	active     bool
}

// New returns a multi-line buffer with the cursor at the end of text.
func New(text string) *Buffer {
	b := &Buffer{goal: -1}
	b.SetText(text)
	return b
}

// NewSingleLine returns a buffer that rejects newlines.
func NewSingleLine(text string) *Buffer {
	b := &Buffer{goal: -1, singleLine: true}
	b.SetText(text)
	return b
}

// Text returns the buffer contents.
func (b *Buffer) Text() string { return b.text }

// Len returns the length of the buffer in bytes.
func (b *Buffer) Len() int { return len(b.text) }

// Empty reports whether the buffer holds only whitespace.
func (b *Buffer) Empty() bool { return strings.TrimSpace(b.text) == "" }

// Cursor returns the cursor byte offset.
func (b *Buffer) Cursor() int { return b.cursor }

// Scroll returns the index of the first visible line.
func (b *Buffer) Scroll() int { return b.scroll }

// SetText replaces the contents, moves the cursor to the end and drops the
// selection and scroll.
func (b *Buffer) SetText(text string) {
	if b.singleLine {
		text = stripNewlines(text)
	}
	b.text = text
	b.cursor = len(text)
	b.sel = selection{}
	b.goal = -1
	b.scroll = 0
}

// SetCursor moves the cursor to p, clamped to the buffer and aligned to the
// start of the rune containing p.
func (b *Buffer) SetCursor(p int) {
	b.cursor = b.clamp(p)
	b.goal = -1
}

func (b *Buffer) clamp(p int) int {
	if p < 0 {
		return 0
	}
	if p > len(b.text) {
		return len(b.text)
	}
	for p > 0 && p < len(b.text) && !utf8.RuneStart(b.text[p]) {
		p--
	}
	return p
}

// Line returns the number of newlines before offset p.
func (b *Buffer) Line(p int) int {
	p = b.clamp(p)
	return strings.Count(b.text[:p], "\n")
}

// Column returns the rune distance between p and the start of its line.
func (b *Buffer) Column(p int) int {
	p = b.clamp(p)
	start := strings.LastIndexByte(b.text[:p], '\n') + 1
	return utf8.RuneCountInString(b.text[start:p])
}

// Position is the inverse of Line and Column. The column is clamped to the
// line length and lines past the end resolve to the end of the buffer.
func (b *Buffer) Position(line, column int) int {
	if line < 0 {
		return 0
	}
	start := 0
	for i := 0; i < line; i++ {
		nl := strings.IndexByte(b.text[start:], '\n')
		if nl < 0 {
			return len(b.text)
		}
		start += nl + 1
	}
	end := b.lineEnd(start)
	p := start
	for col := 0; col < column && p < end; col++ {
		_, size := utf8.DecodeRuneInString(b.text[p:])
		p += size
	}
	return p
}

// CursorLine is Line(Cursor()).
func (b *Buffer) CursorLine() int { return b.Line(b.cursor) }

// CursorColumn is Column(Cursor()).
func (b *Buffer) CursorColumn() int { return b.Column(b.cursor) }

// LineCount returns the number of lines, which is at least one.
func (b *Buffer) LineCount() int {
	return strings.Count(b.text, "\n") + 1
}

// Lines splits the buffer on newlines.
func (b *Buffer) Lines() []string {
	return strings.Split(b.text, "\n")
}

// LineStart returns the offset of the first byte of line.
func (b *Buffer) LineStart(line int) int {
	return b.Position(line, 0)
}

// LineLength returns the rune length of line, or 0 when out of range.
func (b *Buffer) LineLength(line int) int {
	if line < 0 || line >= b.LineCount() {
		return 0
	}
	start := b.LineStart(line)
	return utf8.RuneCountInString(b.text[start:b.lineEnd(start)])
}

// DisplayColumn returns the terminal cell column of offset p.
func (b *Buffer) DisplayColumn(p int) int {
	p = b.clamp(p)
	start := strings.LastIndexByte(b.text[:p], '\n') + 1
	return runewidth.StringWidth(b.text[start:p])
}

func (b *Buffer) lineEnd(start int) int {
	if nl := strings.IndexByte(b.text[start:], '\n'); nl >= 0 {
		return start + nl
	}
	return len(b.text)
}

// Move applies m and drops any selection.
func (b *Buffer) Move(m Motion) {
	b.ClearSelection()
	b.apply(m)
}

// Select applies m while extending the selection. The first selecting
// motion anchors the selection at the current cursor.
func (b *Buffer) Select(m Motion) {
	if !b.sel.active {
		b.sel = selection{start: b.cursor, end: b.cursor, active: true}
	}
	b.apply(m)
	b.sel.end = b.cursor
}

func (b *Buffer) apply(m Motion) {
	switch m {
	case Left:
		if b.cursor > 0 {
			_, size := utf8.DecodeLastRuneInString(b.text[:b.cursor])
			b.cursor -= size
		}
		b.goal = -1
	case Right:
		if b.cursor < len(b.text) {
			_, size := utf8.DecodeRuneInString(b.text[b.cursor:])
			b.cursor += size
		}
		b.goal = -1
	case Up, Down:
		line := b.CursorLine()
		if b.goal < 0 {
			b.goal = b.CursorColumn()
		}
		if m == Up {
			if line == 0 {
				return
			}
			line--
		} else {
			if line >= b.LineCount()-1 {
				return
			}
			line++
		}
		b.cursor = b.Position(line, b.goal)
	case Home:
		b.cursor = b.LineStart(b.CursorLine())
		b.goal = -1
	case End:
		b.cursor = b.lineEnd(b.LineStart(b.CursorLine()))
		b.goal = -1
	case Top:
		b.cursor = 0
		b.goal = -1
	case Bottom:
		b.cursor = len(b.text)
		b.goal = -1
	}
}

// HasSelection reports whether a selection is active.
func (b *Buffer) HasSelection() bool { return b.sel.active }

// Selection returns the raw selection ends in the order they were set.
func (b *Buffer) Selection() (start, end int, ok bool) {
	return b.sel.start, b.sel.end, b.sel.active
}

// Range returns the selection ordered as (min, max).
func (b *Buffer) Range() (start, end int, ok bool) {
	if !b.sel.active {
		return 0, 0, false
	}
	start, end = b.clamp(b.sel.start), b.clamp(b.sel.end)
	if start > end {
		start, end = end, start
	}
	return start, end, true
}

// SelectedText returns the text covered by the selection.
func (b *Buffer) SelectedText() string {
	start, end, ok := b.Range()
	if !ok {
		return ""
	}
	return b.text[start:end]
}

// ClearSelection drops both selection ends.
func (b *Buffer) ClearSelection() {
	b.sel = selection{}
}

// SelectAll selects the whole buffer and moves the cursor to the end.
func (b *Buffer) SelectAll() {
	b.sel = selection{start: 0, end: len(b.text), active: true}
	b.cursor = len(b.text)
	b.goal = -1
}

// Insert writes s at the cursor, replacing the selection when one is
// active, and moves the cursor past the inserted text.
func (b *Buffer) Insert(s string) {
	if b.singleLine {
		s = stripNewlines(s)
	}
	if s == "" {
		return
	}
	b.DeleteSelection()
	b.text = b.text[:b.cursor] + s + b.text[b.cursor:]
	b.cursor += len(s)
	b.goal = -1
}

// Indent inserts IndentWidth spaces.
func (b *Buffer) Indent() {
	b.Insert(strings.Repeat(" ", IndentWidth))
}

// Newline inserts a line break unless the buffer is single-line.
func (b *Buffer) Newline() {
	if b.singleLine {
		return
	}
	b.Insert("\n")
}

// Backspace deletes the selection or the rune before the cursor.
func (b *Buffer) Backspace() {
	if b.DeleteSelection() || b.cursor == 0 {
		return
	}
	_, size := utf8.DecodeLastRuneInString(b.text[:b.cursor])
	b.text = b.text[:b.cursor-size] + b.text[b.cursor:]
	b.cursor -= size
	b.goal = -1
}

// Delete deletes the selection or the rune under the cursor.
func (b *Buffer) Delete() {
	if b.DeleteSelection() || b.cursor >= len(b.text) {
		return
	}
	_, size := utf8.DecodeRuneInString(b.text[b.cursor:])
	b.text = b.text[:b.cursor] + b.text[b.cursor+size:]
	b.goal = -1
}

// DeleteSelection removes the selected text and reports whether anything
// was removed.
func (b *Buffer) DeleteSelection() bool {
	start, end, ok := b.Range()
	b.ClearSelection()
	if !ok || start == end {
		return false
	}
	b.text = b.text[:start] + b.text[end:]
	b.cursor = start
	b.goal = -1
	return true
}

// EnsureVisible adjusts the scroll offset so the cursor line is inside a
// window of height lines.
func (b *Buffer) EnsureVisible(height int) {
	if height <= 0 {
		return
	}
	line := b.CursorLine()
	if line < b.scroll {
		b.scroll = line
	}
	if line >= b.scroll+height {
		b.scroll = line - height + 1
	}
	b.clampScroll(height)
}

// ScrollBy moves the scroll offset by delta lines within a window of
// height lines.
func (b *Buffer) ScrollBy(delta, height int) {
	b.scroll += delta
	b.clampScroll(height)
}

func (b *Buffer) clampScroll(height int) {
	maxScroll := b.LineCount() - height
	if maxScroll < 0 {
		maxScroll = 0
	}
	if b.scroll > maxScroll {
		b.scroll = maxScroll
	}
	if b.scroll < 0 {
		b.scroll = 0
	}
}

func stripNewlines(s string) string {
	if !strings.ContainsAny(s, "\r\n") {
		return s
	}
	return strings.NewReplacer("\r\n", " ", "\n", " ", "\r", "").Replace(s)
}
