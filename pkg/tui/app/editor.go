package teaui

import (
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/notebox/pkg/app"
	"tableflip.dev/notebox/pkg/note"
	"tableflip.dev/notebox/pkg/textbuf"
)

type editKind int

const (
	editSection editKind = iota
	editDetail
)

// editSession holds the transient buffers of one add, edit or view. It
// exists only while the mode is Adding, Editing or Viewing.
type editSession struct {
	kind     editKind
	title    *textbuf.Buffer
	desc     *textbuf.Buffer
	code     *textbuf.Buffer
	language note.Language
	focus    note.PopupFocus

	// section indexes m.sections and detail its details; -1 means new.
	section int
	detail  int
}

func newSectionSession(index int, title string) *editSession {
	return &editSession{
		kind:    editSection,
		title:   textbuf.NewSingleLine(title),
		desc:    textbuf.New(""),
		code:    textbuf.New(""),
		focus:   note.PopupTitle,
		section: index,
		detail:  -1,
	}
}

func newDetailSession(section, detail int, d note.Detail, code string) *editSession {
	s := &editSession{
		kind:     editDetail,
		title:    textbuf.NewSingleLine(d.Title),
		desc:     textbuf.New(d.Description),
		code:     textbuf.New(code),
		language: d.Language,
		focus:    note.PopupTitle,
		section:  section,
		detail:   detail,
	}
	return s
}

// active returns the buffer receiving input.
func (s *editSession) active() *textbuf.Buffer {
	switch s.focus {
	case note.PopupDescription:
		return s.desc
	case note.PopupCode:
		return s.code
	}
	return s.title
}

func (s *editSession) draft() app.DetailDraft {
	return app.DetailDraft{
		Title:       s.title.Text(),
		Description: s.desc.Text(),
		Code:        s.code.Text(),
		Language:    s.language,
	}
}

func (m *Model) beginAddSection() {
	m.edit = newSectionSession(-1, "")
	m.setMode(note.ModeAdding)
}

func (m *Model) beginAddDetail() {
	if m.currentSection() == nil {
		m.setStatus("Select a section first")
		return
	}
	m.edit = newDetailSession(m.selectedSection, -1, note.Detail{}, "")
	m.setMode(note.ModeAdding)
}

func (m *Model) beginEdit() {
	switch m.focus {
	case note.FocusSections:
		sec := m.currentSection()
		if sec == nil {
			m.setStatus("No section selected")
			return
		}
		m.edit = newSectionSession(m.selectedSection, note.StripSectionGlyph(sec.Title))
		m.setMode(note.ModeEditing)
	case note.FocusDetails:
		d := m.currentDetail()
		if d == nil {
			m.setStatus("No detail selected")
			return
		}
		m.edit = newDetailSession(m.selectedSection, m.selectedDetail, *d, m.readCode(*d))
		m.setMode(note.ModeEditing)
	}
}

func (m *Model) beginView() {
	d := m.currentDetail()
	if d == nil {
		m.setStatus("No detail selected")
		return
	}
	m.edit = newDetailSession(m.selectedSection, m.selectedDetail, *d, m.readCode(*d))
	m.edit.code.SetCursor(0)
	m.edit.focus = note.PopupCode
	m.setMode(note.ModeViewing)
}

// readCode loads a snippet for editing; a missing or unreadable file
// yields an empty buffer.
func (m *Model) readCode(d note.Detail) string {
	if !d.HasCode() || m.svc == nil {
		return ""
	}
	code, err := m.svc.ReadCode(d)
	if err != nil {
		m.log.Warn().Err(err).Str("path", d.CodePath).Msg("read snippet")
		return ""
	}
	return code
}

func (m *Model) closeEdit(status string) {
	m.edit = nil
	m.setMode(note.ModeNormal)
	if status != "" {
		m.setStatus(status)
	}
}

func (m *Model) handleEditKey(msg tea.KeyPressMsg) {
	s := m.edit
	if s == nil {
		m.setMode(note.ModeNormal)
		return
	}
	buf := s.active()
	switch msg.String() {
	case "esc":
		m.closeEdit("Discarded")
	case "ctrl+s":
		m.commitEdit()
	case "enter":
		if s.focus == note.PopupTitle {
			m.commitEdit()
			return
		}
		buf.Newline()
	case "tab":
		if s.kind != editDetail {
			return
		}
		if s.focus == note.PopupCode {
			buf.Indent()
			return
		}
		s.focus = s.focus.Next()
	case "shift+tab":
		if s.kind == editDetail {
			s.focus = s.focus.Prev()
		}
	case "ctrl+l":
		if s.kind == editDetail {
			s.language = s.language.Next()
			m.setStatus("Language: " + s.language.Label())
		}
	case "ctrl+a":
		buf.SelectAll()
	case "ctrl+c":
		m.copyText(buf.SelectedText())
	case "ctrl+x":
		if text := buf.SelectedText(); text != "" {
			m.copyText(text)
			buf.DeleteSelection()
		}
	case "ctrl+v":
		m.paste(buf)
	case "backspace":
		buf.Backspace()
	case "delete":
		buf.Delete()
	case "pgup":
		buf.ScrollBy(-m.codeHeight(), m.codeHeight())
	case "pgdown":
		buf.ScrollBy(m.codeHeight(), m.codeHeight())
	default:
		if moveBuffer(buf, msg.String()) {
			return
		}
		if text := insertable(msg); text != "" {
			buf.Insert(text)
		}
	}
}

// moveBuffer applies cursor keys. Shift extends the selection; plain moves
// clear it.
func moveBuffer(buf *textbuf.Buffer, key string) bool {
	motion, selecting, ok := parseMotion(key)
	if !ok {
		return false
	}
	if selecting {
		buf.Select(motion)
	} else {
		buf.Move(motion)
	}
	return true
}

var motions = map[string]textbuf.Motion{
	"left":      textbuf.Left,
	"right":     textbuf.Right,
	"up":        textbuf.Up,
	"down":      textbuf.Down,
	"home":      textbuf.Home,
	"end":       textbuf.End,
	"ctrl+home": textbuf.Top,
	"ctrl+end":  textbuf.Bottom,
}

func parseMotion(key string) (textbuf.Motion, bool, bool) {
	if rest, ok := strings.CutPrefix(key, "shift+"); ok {
		mo, ok := motions[rest]
		return mo, true, ok
	}
	mo, ok := motions[key]
	return mo, false, ok
}

// insertable returns the text a key press types, ignoring chords.
func insertable(msg tea.KeyPressMsg) string {
	if msg.Mod&(tea.ModCtrl|tea.ModAlt) != 0 {
		return ""
	}
	return msg.Text
}

func (m *Model) copyText(text string) {
	if text == "" {
		m.setStatus("Nothing selected")
		return
	}
	if err := m.clipboard.WriteAll(text); err != nil {
		m.log.Warn().Err(err).Msg("clipboard write")
		m.setError("Copy failed: " + err.Error())
		return
	}
	m.setStatus("Copied to clipboard")
}

func (m *Model) paste(buf *textbuf.Buffer) {
	text, err := m.clipboard.ReadAll()
	if err != nil {
		m.log.Warn().Err(err).Msg("clipboard read")
		m.setError("Paste failed: " + err.Error())
		return
	}
	buf.Insert(text)
}

func (m *Model) commitEdit() {
	s := m.edit
	if s.title.Empty() {
		m.setStatus("Title is required")
		return
	}
	if m.svc == nil {
		m.setError("ERR: " + errServiceUnavailable.Error())
		return
	}
	if s.kind == editSection {
		m.commitSection(s)
		return
	}
	m.commitDetail(s)
}

func (m *Model) commitSection(s *editSession) {
	var base note.Section
	if s.section >= 0 {
		base = m.sections[s.section]
	}
	saved, err := m.svc.SaveSectionTitle(m.ctx, base, s.title.Text())
	if err != nil {
		m.reportSaveError(err)
		return
	}
	m.generation++
	if s.section >= 0 {
		m.sections[s.section] = saved
	} else {
		m.sections = append(m.sections, saved)
		m.selectedSection = len(m.sections) - 1
		m.selectedDetail = -1
	}
	m.closeEdit("Saved " + saved.Title)
}

func (m *Model) commitDetail(s *editSession) {
	if s.section < 0 || s.section >= len(m.sections) {
		m.closeEdit("Section no longer exists")
		return
	}
	res, err := m.svc.SaveDetail(m.ctx, m.sections[s.section], s.detail, s.draft())
	if err != nil {
		m.reportSaveError(err)
		return
	}
	m.generation++
	m.sections[s.section] = res.Section
	m.selectedSection = s.section
	m.selectedDetail = res.Index
	status := "Saved " + res.Section.Details[res.Index].Title
	if len(res.Warnings) > 0 {
		status = strings.Join(res.Warnings, " ")
	}
	m.closeEdit(status)
}

// A failed save keeps the session open so nothing typed is lost.
func (m *Model) reportSaveError(err error) {
	if errors.Is(err, app.ErrEmptyTitle) {
		m.setStatus("Title is required")
		return
	}
	m.log.Error().Err(err).Msg("save")
	m.setError("Save failed: " + err.Error())
}

func (m *Model) handleViewKey(msg tea.KeyPressMsg) {
	s := m.edit
	if s == nil {
		m.setMode(note.ModeNormal)
		return
	}
	buf := s.code
	switch key := msg.String(); key {
	case "esc", "q":
		m.closeEdit("")
	case "e":
		s.focus = note.PopupTitle
		s.code.ClearSelection()
		m.setMode(note.ModeEditing)
	case "y", "ctrl+y", "ctrl+c":
		text := buf.SelectedText()
		if text == "" {
			text = buf.Text()
		}
		m.copyText(text)
	case "pgup":
		buf.ScrollBy(-m.codeHeight(), m.codeHeight())
	case "pgdown":
		buf.ScrollBy(m.codeHeight(), m.codeHeight())
	case "ctrl+left", "ctrl+right", "ctrl+up", "ctrl+down":
		mo := motions[strings.TrimPrefix(key, "ctrl+")]
		buf.Select(mo)
		buf.EnsureVisible(m.codeHeight())
	default:
		if moveBuffer(buf, key) {
			buf.EnsureVisible(m.codeHeight())
		}
	}
}
