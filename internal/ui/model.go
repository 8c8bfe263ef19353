// Package ui is the interactive console: one tab per administered domain,
// each driving its own engine view through Bubble Tea commands.
package ui

import (
	"context"
	"log"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"fedadmin/internal/domain"
	"fedadmin/internal/domains"
	"fedadmin/internal/engine"
	"fedadmin/internal/ui/input"
	inputtypes "fedadmin/internal/ui/input/types"
	"fedadmin/internal/ui/views"
)

// Backends are the remote collaborators of the four domains
type Backends struct {
	Users       engine.Backend[domain.User]
	Courts      engine.Backend[domain.Court]
	Tournaments engine.Backend[domain.Tournament]
	Microsites  engine.Backend[domain.Microsite]
}

// Options configures the console
type Options struct {
	Backends  Backends
	Saver     engine.Saver
	Publisher engine.Publisher
	Clock     engine.Clock
	PageSize  int
	// Domain is the tab shown first
	Domain string
}

// Model represents the UI state
type Model struct {
	cancel context.CancelFunc

	width  int
	height int

	screens []Screen
	active  int

	inputHandler *input.Handler
	renderer     *views.Renderer
	help         help.Model
	keys         keyMap
	spinner      spinner.Model

	showHelp bool
	info     string // detail shown inline when no pager is available
	pager    Pager

	// Program reference for terminal management
	program *tea.Program
}

// NewModel creates the console. ctx bounds every request it sends; it is
// cancelled when the console quits.
func NewModel(ctx context.Context, opts Options) *Model {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)

	m := &Model{
		cancel:       cancel,
		inputHandler: input.New(),
		renderer:     views.NewRenderer(),
		help:         help.New(),
		keys:         newKeyMap(),
		spinner:      spinner.New(spinner.WithSpinner(spinner.Dot)),
	}

	deps := screenDeps{
		ctx:      ctx,
		saver:    opts.Saver,
		pageSize: opts.PageSize,
		pub:      opts.Publisher,
		clock:    opts.Clock,
		modes:    m.inputHandler,
		pager:    m.openPager,
	}
	m.screens = []Screen{
		newScreen(domains.Users(), opts.Backends.Users, deps),
		newScreen(domains.Courts(), opts.Backends.Courts, deps),
		newScreen(domains.Tournaments(), opts.Backends.Tournaments, deps),
		newScreen(domains.Microsites(), opts.Backends.Microsites, deps),
	}
	if i := domains.IndexOf(opts.Domain); i >= 0 {
		m.active = i
	}
	return m
}

// SetProgram sets the program reference for terminal management
func (m *Model) SetProgram(p *tea.Program) {
	m.program = p
	m.pager = &ovPager{program: p}
}

// SetPager replaces the detail and help pager
func (m *Model) SetPager(p Pager) {
	m.pager = p
}

func (m *Model) activeScreen() Screen {
	return m.screens[m.active]
}

// Init starts the spinner and loads the first tab
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.activeScreen().Start())
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case pagerClosedMsg:
		if msg.err != nil {
			log.Printf("pager: %v", msg.err)
			m.activeScreen().SetNotice("pager failed: "+msg.err.Error(), true)
		}
		return m, nil

	case tea.KeyMsg:
		return m, m.handleKey(msg)
	}

	var cmds []tea.Cmd
	if cmd := m.inputHandler.Update(msg); cmd != nil {
		cmds = append(cmds, cmd)
	}
	for _, s := range m.screens {
		if handled, cmd := s.Update(msg); handled {
			cmds = append(cmds, cmd)
			break
		}
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	// Popups close on esc, q or the key that opened them
	if m.info != "" || m.showHelp {
		switch msg.String() {
		case "esc", "q", "enter", "?":
			m.info = ""
			m.showHelp = false
		case "ctrl+c":
			return m.quit()
		}
		return nil
	}

	actions, cmd := m.inputHandler.HandleKey(msg, m.activeScreen())

	cmds := []tea.Cmd{}
	if cmd != nil {
		cmds = append(cmds, cmd)
	}
	for _, action := range actions {
		if actionCmd := m.processAction(action); actionCmd != nil {
			cmds = append(cmds, actionCmd)
		}
	}
	return tea.Batch(cmds...)
}

// processAction processes an action from the input handler
func (m *Model) processAction(action inputtypes.Action) tea.Cmd {
	switch a := action.(type) {
	case inputtypes.QuitAction:
		return m.quit()

	case inputtypes.SwitchTabAction:
		next := m.active + a.Delta
		if a.Index >= 0 {
			next = a.Index
		}
		if next < 0 {
			next = len(m.screens) - 1
		}
		if next >= len(m.screens) {
			if a.Index >= 0 {
				return nil
			}
			next = 0
		}
		m.active = next
		return m.activeScreen().Start()

	case inputtypes.ToggleHelpAction:
		if m.pager != nil {
			return m.openPager(renderHelpContent(m.keys))
		}
		m.showHelp = !m.showHelp
		return nil

	case inputtypes.UpdateTextAction:
		return nil

	default:
		return m.activeScreen().Handle(action)
	}
}

func (m *Model) quit() tea.Cmd {
	m.cancel()
	return tea.Quit
}

// openPager shows content in the pager, or inline when there is none
func (m *Model) openPager(content string) tea.Cmd {
	if m.pager == nil {
		m.info = content
		return nil
	}
	pager := m.pager
	return func() tea.Msg {
		return pagerClosedMsg{err: pager.Show(content)}
	}
}

// View renders the UI
func (m *Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	scr := m.activeScreen()
	state := views.ViewState{
		Width:   m.width,
		Height:  m.height,
		Spinner: m.spinner.View(),
	}
	for i, s := range m.screens {
		state.Tabs = append(state.Tabs, views.Tab{Title: s.Title(), Active: i == m.active, Busy: s.Busy()})
	}
	scr.Fill(&state)

	state.Prompt = m.inputHandler.Prompt(scr)
	switch m.inputHandler.CurrentMode() {
	case inputtypes.ModeConfirm, inputtypes.ModeReason, inputtypes.ModeSuspension:
		if pending := scr.PendingAction(); pending != "" {
			state.Prompt = pending + " " + state.Prompt
		}
	}
	if ti := m.inputHandler.TextInput(); ti != nil {
		state.TextInput = ti.View()
	}
	state.HelpLine = m.help.ShortHelpView(m.keys.ShortHelp())

	switch {
	case m.info != "":
		state.ShowInfo, state.InfoContent = true, m.info
	case m.showHelp:
		state.ShowInfo, state.InfoContent = true, renderHelpContent(m.keys)
	}
	return m.renderer.Render(state)
}

// Notice returns the status line of the active tab
func (m *Model) Notice() (string, bool) {
	return m.activeScreen().Notice()
}

// ActiveDomain returns the name of the active tab
func (m *Model) ActiveDomain() string {
	return m.activeScreen().Name()
}

