package teaui

import (
	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/notebox/pkg/export"
	"tableflip.dev/notebox/pkg/note"
	"tableflip.dev/notebox/pkg/tui/components/help"
)

type exportState struct {
	index   int
	message string
	done    bool
}

func (m *Model) enterExport() {
	m.export = exportState{}
	m.setMode(note.ModeExporting)
}

func (m *Model) handleExportKey(msg tea.KeyPressMsg) {
	switch msg.String() {
	case "esc", "q":
		m.export = exportState{}
		m.setMode(note.ModeNormal)
	case "up", "k":
		if !m.export.done {
			m.export.index = wrapIndex(m.export.index, len(export.Formats), -1)
		}
	case "down", "j":
		if !m.export.done {
			m.export.index = wrapIndex(m.export.index, len(export.Formats), 1)
		}
	case "enter":
		if m.export.done {
			m.export = exportState{}
			m.setMode(note.ModeNormal)
			return
		}
		f := export.Formats[m.export.index]
		path, err := m.exporter.Export(m.sections, f)
		if err != nil {
			m.log.Error().Err(err).Stringer("format", f).Msg("export")
		}
		m.export.message = export.Message(path, err)
		m.export.done = true
		m.setStatus(m.export.message)
	}
}

func (m *Model) enterHelp() {
	w, h := m.overlaySize()
	if m.help == nil {
		m.help = help.New(w, h, m.theme.Modal.Frame)
	} else {
		m.help.SetSize(w, h)
	}
	m.help.Top()
	m.setMode(note.ModeHelp)
}

func (m *Model) handleHelpKey(msg tea.KeyPressMsg, cmds *[]tea.Cmd) {
	switch msg.String() {
	case "esc", "q", "h", "?":
		m.setMode(note.ModeNormal)
	default:
		if m.help != nil {
			var cmd tea.Cmd
			m.help, cmd = m.help.Update(msg)
			*cmds = append(*cmds, cmd)
		}
	}
}
