package teaui

import (
	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/notebox/pkg/note"
	"tableflip.dev/notebox/pkg/search"
	"tableflip.dev/notebox/pkg/textbuf"
)

type searchState struct {
	query    *textbuf.Buffer
	target   search.Target
	results  []search.Result
	selected int
	// pending counts remote queries whose responses have not arrived.
	pending int
	// shown is the query whose results are displayed; with no cancellation
	// it can lag behind the typed query.
	shown string
	link  string
}

func newSearchState() searchState {
	return searchState{query: textbuf.NewSingleLine(""), selected: -1}
}

func (m *Model) enterSearch() {
	m.focus = note.FocusSearch
	m.setMode(note.ModeSearching)
}

func (m *Model) handleSearchKey(msg tea.KeyPressMsg, cmds *[]tea.Cmd) {
	q := m.search.query
	switch key := msg.String(); key {
	case "esc":
		m.search = searchState{
			query:    textbuf.NewSingleLine(""),
			target:   m.search.target,
			selected: -1,
			pending:  m.search.pending,
		}
		m.setMode(note.ModeNormal)
	case "tab":
		m.search.target = m.search.target.Next()
		m.search.results = nil
		m.search.selected = -1
		m.search.link = ""
		m.updateBottomContext()
		m.runSearch(cmds)
	case "up":
		m.moveResult(-1)
	case "down":
		m.moveResult(1)
	case "enter":
		m.commitSearchResult()
	case "backspace":
		q.Backspace()
		m.runSearch(cmds)
	case "delete":
		q.Delete()
		m.runSearch(cmds)
	case "ctrl+v":
		m.paste(q)
		m.runSearch(cmds)
	default:
		if moveBuffer(q, key) {
			return
		}
		if text := insertable(msg); text != "" {
			q.Insert(text)
			m.runSearch(cmds)
		}
	}
}

// runSearch issues the current query. Local answers land immediately;
// remote ones arrive through pollSearch.
func (m *Model) runSearch(cmds *[]tea.Cmd) {
	query := m.search.query.Text()
	if m.search.query.Empty() {
		m.search.results = nil
		m.search.selected = -1
		m.search.link = ""
		m.search.shown = ""
		return
	}
	results, pending := m.searcher.Search(m.ctx, query, m.search.target)
	if !pending {
		if !m.search.target.Remote() {
			m.setResults(query, results)
		}
		return
	}
	m.search.pending++
	if !m.spinning {
		m.spinning = true
		*cmds = append(*cmds, m.spinner.Tick)
	}
}

// pollSearch drains at most one finished remote search.
func (m *Model) pollSearch() {
	if m.searcher == nil {
		return
	}
	resp, ok := m.searcher.Poll()
	if !ok {
		return
	}
	if m.search.pending > 0 {
		m.search.pending--
	}
	results := resp.Results
	if resp.Target == search.TargetAll {
		results = append(m.searcher.Local(m.ctx, resp.Query), results...)
	}
	m.setResults(resp.Query, results)
}

func (m *Model) setResults(query string, results []search.Result) {
	m.search.results = results
	m.search.shown = query
	m.search.selected = clampIndex(m.search.selected, len(results))
	m.search.link = ""
	if r := m.selectedResult(); r != nil && r.Remote() {
		m.search.link = r.URL
	}
}

func (m *Model) moveResult(delta int) {
	m.search.selected = wrapIndex(m.search.selected, len(m.search.results), delta)
	m.search.link = ""
	if r := m.selectedResult(); r != nil && r.Remote() {
		m.search.link = r.URL
	}
}

func (m *Model) selectedResult() *search.Result {
	if m.search.selected < 0 || m.search.selected >= len(m.search.results) {
		return nil
	}
	return &m.search.results[m.search.selected]
}

// commitSearchResult opens a remote link, or jumps to a local hit.
func (m *Model) commitSearchResult() {
	r := m.selectedResult()
	if r == nil {
		m.setStatus("No result selected")
		return
	}
	if m.search.link != "" {
		if err := m.openURL(m.search.link); err != nil {
			m.log.Warn().Err(err).Str("url", m.search.link).Msg("open link")
			m.setError("Open failed: " + err.Error())
			return
		}
		m.setStatus("Opened " + m.search.link)
		return
	}

	si := -1
	for i := range m.sections {
		if m.sections[i].ID == r.SectionID {
			si = i
			break
		}
	}
	if si < 0 {
		m.setStatus("Result is no longer available")
		return
	}
	m.selectedSection = si
	m.selectedDetail = -1
	if r.DetailID == 0 {
		m.focus = note.FocusSections
		m.setMode(note.ModeNormal)
		return
	}
	di := m.sections[si].DetailIndex(r.DetailID)
	if di < 0 {
		m.setStatus("Result is no longer available")
		return
	}
	m.selectedDetail = di
	m.focus = note.FocusDetails
	m.beginView()
}
