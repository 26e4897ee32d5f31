package teaui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/notebox/pkg/note"
)

// Panel width bounds in percent of the terminal.
const (
	minLeftWidth  = 20
	maxLeftWidth  = 50
	minRightWidth = 40
	maxRightWidth = 80
	resizeStep    = 5
)

func (m *Model) handleNormalKey(msg tea.KeyPressMsg, cmds *[]tea.Cmd) bool {
	switch msg.String() {
	case "q", "ctrl+q", "ctrl+c":
		m.shutdown()
		return true
	case "up", "k":
		m.moveSelection(-1)
	case "down", "j":
		m.moveSelection(1)
	case "tab":
		m.focus = m.focus.Next()
		m.updateBottomContext()
	case "shift+tab":
		m.focus = m.focus.Prev()
		m.updateBottomContext()
	case "a":
		switch m.focus {
		case note.FocusSections:
			m.beginAddSection()
		case note.FocusDetails:
			m.beginAddDetail()
		case note.FocusSearch:
			m.enterSearch()
		}
	case "e":
		m.beginEdit()
	case "d":
		m.deleteSelected()
	case "enter", "v":
		if m.focus == note.FocusSearch {
			m.commitSearchResult()
			break
		}
		m.beginView()
	case "s", "/":
		m.enterSearch()
	case "h", "?":
		m.enterHelp()
	case "x":
		m.enterExport()
	case "ctrl+left":
		m.resizePanels(false)
	case "ctrl+right":
		m.resizePanels(true)
	}
	return false
}

func (m *Model) moveSelection(delta int) {
	switch m.focus {
	case note.FocusSections:
		prev := m.selectedSection
		m.selectedSection = wrapIndex(m.selectedSection, len(m.sections), delta)
		if m.selectedSection != prev {
			m.selectedDetail = -1
		}
	case note.FocusDetails:
		m.selectedDetail = wrapIndex(m.selectedDetail, len(m.currentDetails()), delta)
	case note.FocusSearch:
		m.moveResult(delta)
	}
}

// resizePanels grows or shrinks the focused panel. The two widths always
// add up to 100.
func (m *Model) resizePanels(grow bool) {
	switch m.focus {
	case note.FocusSections:
		if grow && m.leftWidth < maxLeftWidth {
			m.leftWidth += resizeStep
			m.rightWidth -= resizeStep
		} else if !grow && m.leftWidth > minLeftWidth {
			m.leftWidth -= resizeStep
			m.rightWidth += resizeStep
		}
	case note.FocusDetails:
		if grow && m.rightWidth < maxRightWidth {
			m.rightWidth += resizeStep
			m.leftWidth -= resizeStep
		} else if !grow && m.rightWidth > minRightWidth {
			m.rightWidth -= resizeStep
			m.leftWidth += resizeStep
		}
	}
}

func (m *Model) deleteSelected() {
	if m.svc == nil {
		m.setError("ERR: " + errServiceUnavailable.Error())
		return
	}
	switch m.focus {
	case note.FocusSections:
		sec := m.currentSection()
		if sec == nil {
			m.setStatus("No section selected")
			return
		}
		if err := m.svc.DeleteSection(m.ctx, *sec); err != nil {
			m.log.Error().Err(err).Int64("section", sec.ID).Msg("delete section")
			m.setError("Delete failed: " + err.Error())
			return
		}
		m.generation++
		title := sec.Title
		m.sections = append(m.sections[:m.selectedSection:m.selectedSection], m.sections[m.selectedSection+1:]...)
		m.selectedSection = clampIndex(m.selectedSection, len(m.sections))
		m.selectedDetail = -1
		m.setStatus(fmt.Sprintf("Deleted %s", title))
	case note.FocusDetails:
		sec, d := m.currentSection(), m.currentDetail()
		if d == nil {
			m.setStatus("No detail selected")
			return
		}
		if err := m.svc.DeleteDetail(m.ctx, *sec, *d); err != nil {
			m.log.Error().Err(err).Int64("section", sec.ID).Int64("detail", d.ID).Msg("delete detail")
			m.setError("Delete failed: " + err.Error())
			return
		}
		m.generation++
		title := d.Title
		i := m.selectedDetail
		sec.Details = append(sec.Details[:i:i], sec.Details[i+1:]...)
		m.selectedDetail = clampIndex(m.selectedDetail, len(sec.Details))
		m.setStatus(fmt.Sprintf("Deleted %s", title))
	}
}
