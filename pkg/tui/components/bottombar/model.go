package bottombar

import (
	"strings"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/muesli/reflow/truncate"

	"tableflip.dev/notebox/pkg/tui/theme"
)

// Mode represents the UI mode that influences footer layout.
type Mode int

const (
	ModeNormal Mode = iota
	ModeEdit
	ModeView
	ModeSearch
	ModeHelp
	ModeExport
)

func (m Mode) label() string {
	switch m {
	case ModeEdit:
		return "EDIT"
	case ModeView:
		return "VIEW"
	case ModeSearch:
		return "SEARCH"
	case ModeHelp:
		return "HELP"
	case ModeExport:
		return "EXPORT"
	}
	return "NORMAL"
}

// Model tracks footer/help/status rendering state.
type Model struct {
	mode       Mode
	helpLine   string
	statusLine string
	isError    bool
	target     string
	width      int
	styles     theme.FooterTheme
}

// New returns a footer model using the given styles.
func New(styles theme.FooterTheme) Model {
	return Model{mode: ModeNormal, styles: styles}
}

// SetMode updates the visual mode.
func (m *Model) SetMode(mode Mode) {
	m.mode = mode
}

// Mode returns the current footer mode.
func (m Model) Mode() Mode {
	return m.mode
}

// SetHelp sets the contextual help line.
func (m *Model) SetHelp(help string) {
	m.helpLine = help
}

// SetStatus sets the status message to display.
func (m *Model) SetStatus(status string) {
	m.statusLine = status
	m.isError = false
}

// SetError sets a status message rendered as an error.
func (m *Model) SetError(status string) {
	m.statusLine = status
	m.isError = true
}

// Status returns the current status message.
func (m Model) Status() string {
	return m.statusLine
}

// SetTarget shows the active search target; empty hides it.
func (m *Model) SetTarget(target string) {
	m.target = target
}

// SetWidth truncates the rendered lines to width cells; zero disables it.
func (m *Model) SetWidth(width int) {
	m.width = width
}

// Height reports the number of lines consumed by the footer.
func (m Model) Height() int {
	if m.statusLine == "" {
		return 1
	}
	return 2
}

// View renders the footer string and reports lines consumed.
func (m Model) View() (string, int) {
	var lines []string
	if m.statusLine != "" {
		style := m.styles.Status
		if m.isError {
			style = m.styles.Error
		}
		lines = append(lines, style.Render(m.fit(m.statusLine)))
	}

	segments := []string{m.styles.Target.Render(m.mode.label())}
	if m.target != "" {
		segments = append(segments, m.styles.Target.Render("⟶ "+m.target))
	}
	if m.helpLine != "" {
		segments = append(segments, m.styles.Help.Render(m.helpLine))
	}
	lines = append(lines, m.fit(strings.Join(segments, " │ ")))
	return strings.Join(lines, "\n"), len(lines)
}

func (m Model) fit(s string) string {
	if m.width <= 0 || lipgloss.Width(s) <= m.width {
		return s
	}
	return truncate.StringWithTail(s, uint(m.width), "…")
}
