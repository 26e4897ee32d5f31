// Package teaui hosts the Bubble Tea program for the notebox TUI.
package teaui

import (
	"context"
	"errors"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/v2/spinner"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/rs/zerolog"

	"tableflip.dev/notebox/pkg/app"
	"tableflip.dev/notebox/pkg/export"
	"tableflip.dev/notebox/pkg/note"
	"tableflip.dev/notebox/pkg/search"
	"tableflip.dev/notebox/pkg/store"
	"tableflip.dev/notebox/pkg/tui/components/bottombar"
	"tableflip.dev/notebox/pkg/tui/components/help"
	"tableflip.dev/notebox/pkg/tui/theme"
)

const (
	defaultLeftWidth  = 30
	defaultRightWidth = 70
)

var errServiceUnavailable = errors.New("service unavailable")

// Exporter writes the section tree in one format and returns the path.
type Exporter interface {
	Export(sections []note.Section, f export.Format) (string, error)
}

// Clipboard is the system clipboard.
type Clipboard interface {
	ReadAll() (string, error)
	WriteAll(text string) error
}

type systemClipboard struct{}

func (systemClipboard) ReadAll() (string, error) { return clipboard.ReadAll() }
func (systemClipboard) WriteAll(s string) error  { return clipboard.WriteAll(s) }

// Model contains UI state. It is the single owner of the in-memory
// sections; the store only ever receives copies at commit time.
type Model struct {
	svc    *app.Service
	ctx    context.Context
	cancel context.CancelFunc

	sections        []note.Section
	selectedSection int
	selectedDetail  int
	loaded          bool
	reloadPending   bool
	// generation counts local writes; a snapshot loaded before the latest
	// write is stale.
	generation int

	mode  note.Mode
	focus note.Focus
	edit  *editSession

	search searchState
	export exportState

	leftWidth  int
	rightWidth int
	termWidth  int
	termHeight int

	bottom   bottombar.Model
	help     *help.Model
	spinner  spinner.Model
	spinning bool
	theme    theme.Theme

	watchCh     <-chan store.Event
	watchCancel context.CancelFunc

	searcher  *search.Coordinator
	exporter  Exporter
	clipboard Clipboard
	openURL   func(string) error
	log       zerolog.Logger
	now       func() time.Time
	codeStyle string
}

// Option configures a Model.
type Option func(*Model)

// WithSearch sets the search coordinator. The model closes it on quit.
func WithSearch(c *search.Coordinator) Option {
	return func(m *Model) { m.searcher = c }
}

func WithExporter(e Exporter) Option {
	return func(m *Model) { m.exporter = e }
}

func WithClipboard(c Clipboard) Option {
	return func(m *Model) { m.clipboard = c }
}

// WithOpener replaces the browser launcher used for remote results.
func WithOpener(open func(string) error) Option {
	return func(m *Model) { m.openURL = open }
}

func WithLogger(l zerolog.Logger) Option {
	return func(m *Model) { m.log = l }
}

func WithNow(now func() time.Time) Option {
	return func(m *Model) { m.now = now }
}

// WithCodeStyle sets the chroma style for highlighted snippets.
func WithCodeStyle(style string) Option {
	return func(m *Model) { m.codeStyle = style }
}

// New creates a new UI model backed by the Service.
func New(svc *app.Service, opts ...Option) *Model {
	th := theme.Default()
	ctx, cancel := context.WithCancel(context.Background())
	m := &Model{
		svc:             svc,
		ctx:             ctx,
		cancel:          cancel,
		selectedSection: -1,
		selectedDetail:  -1,
		mode:            note.ModeNormal,
		focus:           note.FocusSections,
		search:          newSearchState(),
		leftWidth:       defaultLeftWidth,
		rightWidth:      defaultRightWidth,
		bottom:          bottombar.New(th.Footer),
		spinner:         spinner.New(spinner.WithSpinner(spinner.Dot)),
		theme:           th,
		exporter:        export.Exporter{},
		clipboard:       systemClipboard{},
		openURL:         search.OpenURL,
		log:             zerolog.Nop(),
		now:             time.Now,
	}
	for _, o := range opts {
		o(m)
	}
	if m.searcher == nil {
		var local search.Provider
		if svc != nil {
			local = search.Local{Store: svc}
		}
		m.searcher = search.NewCoordinator(local, nil, nil, search.WithLogger(m.log))
	}
	m.bottom.SetMode(bottombar.ModeNormal)
	m.updateBottomContext()
	return m
}

// Init loads initial data
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.loadSections(), startWatchCmd(m.ctx, m.svc))
}

type errMsg struct{ err error }

type sectionsLoadedMsg struct {
	sections   []note.Section
	generation int
}

func (m *Model) loadSections() tea.Cmd {
	if m.svc == nil {
		return nil
	}
	svc, ctx, gen := m.svc, m.ctx, m.generation
	return func() tea.Msg {
		sections, err := svc.Sections(ctx)
		if err != nil {
			return errMsg{err}
		}
		return sectionsLoadedMsg{sections: sections, generation: gen}
	}
}

type watchStartedMsg struct {
	ch     <-chan store.Event
	cancel context.CancelFunc
	err    error
}

type watchEventMsg struct {
	event store.Event
}

type watchStoppedMsg struct{}

func startWatchCmd(parent context.Context, svc *app.Service) tea.Cmd {
	if svc == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithCancel(parent)
		ch, err := svc.Watch(ctx)
		if err != nil {
			cancel()
			return watchStartedMsg{err: err}
		}
		return watchStartedMsg{ch: ch, cancel: cancel}
	}
}

func (m *Model) waitForWatch() tea.Cmd {
	if m.watchCh == nil {
		return nil
	}
	ch := m.watchCh
	return func() tea.Msg {
		if ev, ok := <-ch; ok {
			return watchEventMsg{event: ev}
		}
		return watchStoppedMsg{}
	}
}

func (m *Model) stopWatch() {
	if m.watchCancel != nil {
		m.watchCancel()
		m.watchCancel = nil
	}
	m.watchCh = nil
}

// Reloading under an open edit session would shift the indices it holds,
// so events outside Normal mode are deferred until the session ends.
func (m *Model) handleWatchEvent(ev store.Event, cmds *[]tea.Cmd) {
	m.log.Debug().Stringer("type", ev.Type).Str("file", ev.File).Msg("store changed")
	if m.mode != note.ModeNormal {
		m.reloadPending = true
		return
	}
	*cmds = append(*cmds, m.loadSections())
}

func (m *Model) applySections(sections []note.Section) {
	m.sections = sections
	if !m.loaded {
		m.loaded = true
		if len(sections) > 0 {
			m.selectedSection = 0
		}
	}
	m.selectedSection = clampIndex(m.selectedSection, len(m.sections))
	m.selectedDetail = clampIndex(m.selectedDetail, len(m.currentDetails()))
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.termWidth = msg.Width
		m.termHeight = msg.Height
		m.applySizes()
	case errMsg:
		m.log.Error().Err(msg.err).Msg("command failed")
		m.setError("ERR: " + msg.err.Error())
	case sectionsLoadedMsg:
		if m.mode != note.ModeNormal || msg.generation != m.generation {
			m.log.Debug().Int("generation", msg.generation).Msg("discarding stale snapshot")
			m.reloadPending = true
			break
		}
		m.applySections(msg.sections)
		m.updateBottomContext()
	case watchStartedMsg:
		if msg.err != nil {
			m.setError("ERR: watch " + msg.err.Error())
			break
		}
		m.stopWatch()
		m.watchCh = msg.ch
		m.watchCancel = msg.cancel
		if cmd := m.waitForWatch(); cmd != nil {
			cmds = append(cmds, cmd)
		}
	case watchEventMsg:
		m.handleWatchEvent(msg.event, &cmds)
		if cmd := m.waitForWatch(); cmd != nil {
			cmds = append(cmds, cmd)
		}
	case watchStoppedMsg:
		m.stopWatch()
		if m.ctx.Err() == nil {
			cmds = append(cmds, startWatchCmd(m.ctx, m.svc))
		}
	case spinner.TickMsg:
		if m.search.pending > 0 {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		} else {
			m.spinning = false
		}
	case tea.KeyPressMsg:
		if m.handleKeyPress(msg, &cmds) {
			return m, tea.Quit
		}
	default:
		if m.mode == note.ModeHelp && m.help != nil {
			var cmd tea.Cmd
			m.help, cmd = m.help.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	if m.mode == note.ModeNormal && m.reloadPending {
		m.reloadPending = false
		cmds = append(cmds, m.loadSections())
	}
	m.pollSearch()

	return m, tea.Batch(cmds...)
}

// handleKeyPress routes a key to the handler of the current mode and
// reports whether the program should quit.
func (m *Model) handleKeyPress(msg tea.KeyPressMsg, cmds *[]tea.Cmd) bool {
	switch m.mode {
	case note.ModeAdding, note.ModeEditing:
		m.handleEditKey(msg)
	case note.ModeViewing:
		m.handleViewKey(msg)
	case note.ModeSearching:
		m.handleSearchKey(msg, cmds)
	case note.ModeHelp:
		m.handleHelpKey(msg, cmds)
	case note.ModeExporting:
		m.handleExportKey(msg)
	default:
		return m.handleNormalKey(msg, cmds)
	}
	return false
}

func (m *Model) shutdown() {
	m.stopWatch()
	if m.searcher != nil {
		m.searcher.Close()
	}
	m.cancel()
}

// Run launches the interactive TUI program.
func Run(svc *app.Service, opts ...Option) error {
	m := New(svc, opts...)
	defer m.shutdown()
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m *Model) setMode(mode note.Mode) {
	m.mode = mode
	m.bottom.SetMode(mapBottomMode(mode))
	m.updateBottomContext()
}

func (m *Model) setStatus(msg string) {
	m.bottom.SetStatus(msg)
}

func (m *Model) setError(msg string) {
	m.bottom.SetError(msg)
}

func mapBottomMode(mode note.Mode) bottombar.Mode {
	switch mode {
	case note.ModeAdding, note.ModeEditing:
		return bottombar.ModeEdit
	case note.ModeViewing:
		return bottombar.ModeView
	case note.ModeSearching:
		return bottombar.ModeSearch
	case note.ModeHelp:
		return bottombar.ModeHelp
	case note.ModeExporting:
		return bottombar.ModeExport
	}
	return bottombar.ModeNormal
}

func (m *Model) updateBottomContext() {
	var help string
	switch m.mode {
	case note.ModeAdding, note.ModeEditing:
		if m.edit != nil && m.edit.kind == editSection {
			help = "Section · enter save · esc cancel"
		} else {
			help = "Detail · tab next field · ctrl+s save · ctrl+l language · esc cancel"
		}
	case note.ModeViewing:
		help = "View · arrows move · shift+arrows select · y copy · e edit · esc close"
	case note.ModeSearching:
		help = "Search · tab target · ↑/↓ select · enter open · esc close"
	case note.ModeHelp:
		help = "Help · esc close"
	case note.ModeExporting:
		help = "Export · ↑/↓ format · enter export · esc close"
	default:
		switch m.focus {
		case note.FocusDetails:
			help = "Details · j/k move · enter view · a add · e edit · d delete · tab focus"
		case note.FocusSearch:
			help = "Search · / type · j/k select · enter open · tab focus"
		default:
			help = "Sections · j/k move · a add · e edit · d delete · tab focus · x export · ? help · q quit"
		}
	}
	m.bottom.SetHelp(help)
	if m.mode == note.ModeSearching || m.focus == note.FocusSearch {
		m.bottom.SetTarget(m.search.target.String())
	} else {
		m.bottom.SetTarget("")
	}
}

func (m *Model) currentSection() *note.Section {
	if m.selectedSection < 0 || m.selectedSection >= len(m.sections) {
		return nil
	}
	return &m.sections[m.selectedSection]
}

func (m *Model) currentDetails() []note.Detail {
	if sec := m.currentSection(); sec != nil {
		return sec.Details
	}
	return nil
}

func (m *Model) currentDetail() *note.Detail {
	sec := m.currentSection()
	if sec == nil || m.selectedDetail < 0 || m.selectedDetail >= len(sec.Details) {
		return nil
	}
	return &sec.Details[m.selectedDetail]
}

// clampIndex keeps i inside [0, n-1], or -1 when the list is empty. A -1
// input stays -1.
func clampIndex(i, n int) int {
	if n == 0 {
		return -1
	}
	if i >= n {
		return n - 1
	}
	return i
}

// wrapIndex moves cur by delta with wraparound. No prior selection picks
// the first item.
func wrapIndex(cur, n, delta int) int {
	if n == 0 {
		return -1
	}
	if cur < 0 || cur >= n {
		return 0
	}
	return ((cur+delta)%n + n) % n
}
