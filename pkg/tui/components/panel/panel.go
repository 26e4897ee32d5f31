// Package panel renders the framed, scrolling lists of the main screen.
package panel

import (
	"strings"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/muesli/reflow/truncate"

	"tableflip.dev/notebox/pkg/tui/theme"
)

const (
	SelectedMarker = "› "
	PlainMarker    = "  "
)

// Model is a titled list with at most one selected line. The selected line
// is kept inside the visible window.
type Model struct {
	title    string
	lines    []string
	selected int
	width    int
	height   int
	focused  bool
	panel    theme.PanelTheme
	list     theme.ListTheme
}

func New(pt theme.PanelTheme, lt theme.ListTheme) Model {
	return Model{panel: pt, list: lt, selected: -1}
}

// SetContent replaces the title and lines. selected may be -1.
func (m *Model) SetContent(title string, lines []string, selected int) {
	m.title = title
	m.lines = lines
	m.selected = selected
}

// SetSize sets the outer size, frame included.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) SetFocused(focused bool) {
	m.focused = focused
}

// Window returns the range of lines that fit under the title.
func (m Model) Window() (first, last int) {
	innerH := m.innerHeight()
	if m.selected >= innerH {
		first = m.selected - innerH + 1
	}
	return first, min(len(m.lines), first+innerH)
}

func (m Model) frame() lipgloss.Style {
	if m.focused {
		return m.panel.Focused
	}
	return m.panel.Frame
}

func (m Model) innerWidth() int {
	return max(m.width-m.frame().GetHorizontalFrameSize(), 4)
}

func (m Model) innerHeight() int {
	return max(m.height-m.frame().GetVerticalFrameSize()-1, 1)
}

func (m Model) View() string {
	innerW := m.innerWidth()
	first, last := m.Window()

	out := []string{m.panel.Title.Render(Fit(m.title, innerW))}
	for i := first; i < last; i++ {
		if i == m.selected {
			style := m.list.SelectedBlur
			if m.focused {
				style = m.list.Selected
			}
			out = append(out, style.Render(Fit(SelectedMarker+m.lines[i], innerW)))
			continue
		}
		out = append(out, m.list.Item.Render(Fit(PlainMarker+m.lines[i], innerW)))
	}
	for len(out) < m.innerHeight()+1 {
		out = append(out, "")
	}
	body := lipgloss.NewStyle().Width(innerW).Render(strings.Join(out, "\n"))
	return m.frame().Render(body)
}

// Fit truncates s to width display columns with a trailing ellipsis.
func Fit(s string, width int) string {
	if width <= 0 || lipgloss.Width(s) <= width {
		return s
	}
	return truncate.StringWithTail(s, uint(width), "…")
}
