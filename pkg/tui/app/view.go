package teaui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/muesli/reflow/wordwrap"

	"tableflip.dev/notebox/pkg/export"
	"tableflip.dev/notebox/pkg/glyph"
	"tableflip.dev/notebox/pkg/highlight"
	"tableflip.dev/notebox/pkg/note"
	"tableflip.dev/notebox/pkg/textbuf"
	"tableflip.dev/notebox/pkg/tui/components/panel"
)

const (
	fallbackWidth  = 100
	fallbackHeight = 30
)

func (m *Model) View() string {
	var sections []string

	switch m.mode {
	case note.ModeAdding, note.ModeEditing:
		sections = append(sections, m.renderEditor())
	case note.ModeViewing:
		sections = append(sections, m.renderViewer())
	case note.ModeHelp:
		if m.help != nil {
			sections = append(sections, m.help.View())
		}
	case note.ModeExporting:
		sections = append(sections, m.renderExport())
	default:
		sections = append(sections, m.renderBody())
	}

	if footer, _ := m.bottom.View(); footer != "" {
		sections = append(sections, footer)
	}
	return strings.Join(sections, "\n")
}

// applySizes recalculates component sizes based on the terminal size.
func (m *Model) applySizes() {
	m.bottom.SetWidth(m.termWidth)
	if m.help != nil {
		m.help.SetSize(m.overlaySize())
	}
}

func (m *Model) size() (int, int) {
	w, h := m.termWidth, m.termHeight
	if w <= 0 {
		w = fallbackWidth
	}
	if h <= 0 {
		h = fallbackHeight
	}
	return w, h
}

func (m *Model) bodyHeight() int {
	_, h := m.size()
	return max(h-m.bottom.Height()-1, 6)
}

func (m *Model) overlaySize() (int, int) {
	w, _ := m.size()
	return max(w-2, 32), max(m.bodyHeight(), 8)
}

// codeHeight is the number of code lines visible in the editor and viewer.
func (m *Model) codeHeight() int {
	_, h := m.overlaySize()
	return max(h-14, 3)
}

func (m *Model) renderBody() string {
	w, _ := m.size()
	h := m.bodyHeight()
	leftW := w * m.leftWidth / 100
	rightW := w - leftW
	searchH := max(h/3, 5)

	left := m.renderPanel(glyph.Folder+" Sections", m.sectionLines(), m.selectedSection, leftW, h, m.focus == note.FocusSections)
	details := m.renderPanel(m.detailsTitle(), m.detailLines(rightW), m.selectedDetail, rightW, h-searchH, m.focus == note.FocusDetails)
	lines, selected := m.searchLines()
	results := m.renderPanel(m.searchTitle(), lines, selected, rightW, searchH, m.focus == note.FocusSearch)

	right := lipgloss.JoinVertical(lipgloss.Left, details, results)
	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}

func (m *Model) renderPanel(title string, lines []string, selected, width, height int, focused bool) string {
	p := panel.New(m.theme.Panel, m.theme.List)
	p.SetContent(title, lines, selected)
	p.SetSize(width, height)
	p.SetFocused(focused)
	return p.View()
}

func (m *Model) sectionLines() []string {
	lines := make([]string, len(m.sections))
	for i, sec := range m.sections {
		lines[i] = fmt.Sprintf("%s (%d)", sec.Title, len(sec.Details))
	}
	return lines
}

func (m *Model) detailsTitle() string {
	if sec := m.currentSection(); sec != nil {
		return glyph.Text + " " + note.StripSectionGlyph(sec.Title)
	}
	return glyph.Text + " Details"
}

func (m *Model) detailLines(width int) []string {
	details := m.currentDetails()
	lines := make([]string, 0, len(details)+4)
	for _, d := range details {
		line := d.Language.Icon() + " " + d.Title
		if d.HasCode() {
			line += " " + glyph.Code
		}
		lines = append(lines, line+"  "+d.CreatedAt)
	}
	if d := m.currentDetail(); d != nil && strings.TrimSpace(d.Description) != "" {
		lines = append(lines, "")
		wrapped := wordwrap.String(d.Description, max(width-6, 10))
		lines = append(lines, strings.Split(wrapped, "\n")...)
	}
	return lines
}

func (m *Model) searchTitle() string {
	title := fmt.Sprintf("%s Search ⟶ %s", glyph.Local, m.search.target)
	if m.search.pending > 0 {
		title += " " + m.spinner.View() + " searching"
	}
	return title
}

// searchLines returns the query line followed by results, and the line
// index of the selected result.
func (m *Model) searchLines() ([]string, int) {
	query := m.search.query
	prompt := "> " + query.Text()
	if m.mode == note.ModeSearching {
		prompt = "> " + m.renderLine(query.Text(), 0, query.Cursor(), true, 0, 0, false)
	}
	lines := []string{prompt}
	if m.search.shown != "" && m.search.shown != strings.TrimSpace(query.Text()) {
		lines = append(lines, fmt.Sprintf("results for %q", m.search.shown))
	}
	offset := len(lines)
	if len(m.search.results) == 0 && !query.Empty() && m.search.pending == 0 {
		lines = append(lines, "no results")
	}
	for _, r := range m.search.results {
		desc, _, _ := strings.Cut(strings.TrimSpace(r.Description), "\n")
		line := r.Source.Icon() + " " + r.Title
		if desc != "" {
			line += " · " + desc
		}
		lines = append(lines, line)
	}
	selected := -1
	if m.search.selected >= 0 {
		selected = m.search.selected + offset
	}
	return lines, selected
}

func (m *Model) renderEditor() string {
	s := m.edit
	if s == nil {
		return ""
	}
	w, _ := m.overlaySize()
	frame := m.theme.Modal.Frame
	innerW := max(w-frame.GetHorizontalFrameSize(), 10)

	var heading string
	switch {
	case s.kind == editSection && m.mode == note.ModeAdding:
		heading = "New section"
	case s.kind == editSection:
		heading = "Edit section"
	case m.mode == note.ModeAdding:
		heading = "New detail"
		if s.section >= 0 && s.section < len(m.sections) {
			heading += " in " + m.sections[s.section].Title
		}
	default:
		heading = "Edit detail"
	}

	parts := []string{m.theme.Modal.Title.Render(heading)}
	parts = append(parts, m.renderField("Title", s.title, s.focus == note.PopupTitle, innerW, 1, nil, false))
	if s.kind == editDetail {
		parts = append(parts,
			m.renderField("Description", s.desc, s.focus == note.PopupDescription, innerW, 4, nil, false),
			m.renderField("Code · "+s.language.Label(), s.code, s.focus == note.PopupCode, innerW, m.codeHeight(), nil, true),
		)
	}
	return frame.Render(strings.Join(parts, "\n"))
}

func (m *Model) renderViewer() string {
	s := m.edit
	if s == nil {
		return ""
	}
	w, _ := m.overlaySize()
	frame := m.theme.Modal.Frame
	innerW := max(w-frame.GetHorizontalFrameSize(), 10)

	var created string
	if sec := m.currentSection(); sec != nil && s.detail >= 0 && s.detail < len(sec.Details) {
		created = sec.Details[s.detail].CreatedAt
	}
	parts := []string{
		m.theme.Modal.Title.Render(s.language.Icon() + " " + s.title.Text()),
		m.theme.Modal.Label.Render(created),
	}
	if desc := strings.TrimSpace(s.desc.Text()); desc != "" {
		parts = append(parts, "", m.theme.Modal.Body.Render(wordwrap.String(desc, innerW)))
	}
	if s.code.Len() > 0 {
		style := m.codeStyle
		if style == "" {
			style = highlight.DefaultStyle
		}
		colored := highlight.Lines(s.code.Text(), s.language, style)
		parts = append(parts, "", m.renderField("Code · "+s.language.Label(), s.code, true, innerW, m.codeHeight(), colored, true))
	}
	return frame.Render(strings.Join(parts, "\n"))
}

func (m *Model) renderField(label string, buf *textbuf.Buffer, active bool, width, height int, colored []string, numbers bool) string {
	labelStyle, box := m.theme.Modal.Label, m.theme.Modal.Field
	if active {
		labelStyle, box = m.theme.Modal.ActiveLabel, m.theme.Modal.ActiveField
	}
	innerW := max(width-box.GetHorizontalFrameSize(), 4)
	body := m.renderBuffer(buf, height, active, colored, numbers)
	return labelStyle.Render(label) + "\n" + box.Render(lipgloss.NewStyle().Width(innerW).Render(body))
}

// renderBuffer draws the visible window of buf. Lines touched by the
// cursor or the selection are drawn plain so the overlay stays readable;
// the rest use colored when given.
func (m *Model) renderBuffer(buf *textbuf.Buffer, height int, showCursor bool, colored []string, numbers bool) string {
	if height > 0 && showCursor {
		buf.EnsureVisible(height)
	}
	lines := buf.Lines()
	first, last := 0, len(lines)
	if height > 0 {
		first = buf.Scroll()
		last = min(len(lines), first+height)
	}
	selStart, selEnd, hasSel := buf.Range()
	cursor := buf.Cursor()

	out := make([]string, 0, last-first)
	offset := buf.LineStart(first)
	for i := first; i < last; i++ {
		line := lines[i]
		start, end := offset, offset+len(line)
		offset = end + 1

		touched := (showCursor && cursor >= start && cursor <= end) ||
			(hasSel && selStart <= end && selEnd > start)
		text := line
		switch {
		case touched:
			text = m.renderLine(line, start, cursor, showCursor, selStart, selEnd, hasSel)
		case i < len(colored):
			text = colored[i]
		}
		if numbers {
			text = m.theme.Editor.LineNumber.Render(fmt.Sprintf("%3d ", i+1)) + text
		}
		out = append(out, text)
	}
	for height > 0 && len(out) < height {
		out = append(out, "")
	}
	return strings.Join(out, "\n")
}

// renderLine styles one line whose first byte sits at offset base.
func (m *Model) renderLine(line string, base, cursor int, showCursor bool, selStart, selEnd int, hasSel bool) string {
	var b strings.Builder
	for i, r := range line {
		p := base + i
		switch {
		case showCursor && p == cursor:
			b.WriteString(m.theme.Editor.Cursor.Render(string(r)))
		case hasSel && p >= selStart && p < selEnd:
			b.WriteString(m.theme.Editor.Selection.Render(string(r)))
		default:
			b.WriteRune(r)
		}
	}
	if showCursor && cursor == base+len(line) {
		b.WriteString(m.theme.Editor.Cursor.Render(" "))
	}
	return b.String()
}

func (m *Model) renderExport() string {
	frame := m.theme.Modal.Frame
	parts := []string{m.theme.Modal.Title.Render("Export")}
	for i, f := range export.Formats {
		line := fmt.Sprintf("%s (%s)", f, export.FileName(f))
		if i == m.export.index {
			parts = append(parts, m.theme.List.Selected.Render(panel.SelectedMarker+line))
			continue
		}
		parts = append(parts, m.theme.List.Item.Render(panel.PlainMarker+line))
	}
	if m.export.message != "" {
		parts = append(parts, "", m.theme.Modal.Body.Render(m.export.message))
	}
	return frame.Render(strings.Join(parts, "\n"))
}
