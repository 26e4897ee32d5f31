package theme

import "github.com/charmbracelet/lipgloss/v2"

// Theme centralizes Lip Gloss styles for the Bubble Tea UI.
type Theme struct {
	Footer FooterTheme
	Panel  PanelTheme
	List   ListTheme
	Modal  ModalTheme
	Editor EditorTheme
}

// FooterTheme groups styles used by the bottom status bar.
type FooterTheme struct {
	Help   lipgloss.Style
	Status lipgloss.Style
	Error  lipgloss.Style
	Target lipgloss.Style
}

// PanelTheme styles the framed sections/details/search panels.
type PanelTheme struct {
	Frame   lipgloss.Style
	Focused lipgloss.Style
	Title   lipgloss.Style
	Body    lipgloss.Style
}

// ListTheme styles rows inside a panel.
type ListTheme struct {
	Item         lipgloss.Style
	Selected     lipgloss.Style
	SelectedBlur lipgloss.Style
	Dim          lipgloss.Style
}

// ModalTheme styles centered popups (add/edit/view/export).
type ModalTheme struct {
	Frame       lipgloss.Style
	Title       lipgloss.Style
	Body        lipgloss.Style
	Label       lipgloss.Style
	ActiveLabel lipgloss.Style
	Field       lipgloss.Style
	ActiveField lipgloss.Style
}

// EditorTheme styles the text buffer cursor and selection.
type EditorTheme struct {
	Cursor     lipgloss.Style
	Selection  lipgloss.Style
	LineNumber lipgloss.Style
}

// Default returns the built-in theme used across the UI.
func Default() Theme {
	accent := lipgloss.Color("212")
	muted := lipgloss.Color("244")

	frame := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
	field := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	return Theme{
		Footer: FooterTheme{
			Help:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
			Status: lipgloss.NewStyle().Foreground(muted),
			Error:  lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
			Target: lipgloss.NewStyle().Foreground(accent).Bold(true),
		},
		Panel: PanelTheme{
			Frame:   frame,
			Focused: frame.BorderForeground(accent),
			Title:   lipgloss.NewStyle().Bold(true),
			Body:    lipgloss.NewStyle(),
		},
		List: ListTheme{
			Item:         lipgloss.NewStyle(),
			Selected:     lipgloss.NewStyle().Foreground(accent).Bold(true).Reverse(true),
			SelectedBlur: lipgloss.NewStyle().Foreground(accent),
			Dim:          lipgloss.NewStyle().Foreground(muted),
		},
		Modal: ModalTheme{
			Frame: lipgloss.NewStyle().
				Border(lipgloss.DoubleBorder()).
				BorderForeground(accent).
				Padding(0, 1),
			Title:       lipgloss.NewStyle().Bold(true),
			Body:        lipgloss.NewStyle(),
			Label:       lipgloss.NewStyle().Foreground(muted),
			ActiveLabel: lipgloss.NewStyle().Foreground(accent).Bold(true),
			Field:       field,
			ActiveField: field.BorderForeground(accent),
		},
		Editor: EditorTheme{
			Cursor:     lipgloss.NewStyle().Reverse(true),
			Selection:  lipgloss.NewStyle().Background(lipgloss.Color("238")),
			LineNumber: lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		},
	}
}
