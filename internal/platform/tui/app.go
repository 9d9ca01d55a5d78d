package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/alcatrazEscapee/chromatic-sub000/internal/chromatic/puzzles"
	"github.com/alcatrazEscapee/chromatic-sub000/internal/storage"
)

type screen int

const (
	screenMenu screen = iota
	screenPlay
	screenProgress
)

// AppModel manages the full flow: menu -> puzzle -> menu, with the progress
// table reachable from the menu. It is used both locally and per SSH session.
type AppModel struct {
	levels   []puzzles.Level
	store    *storage.Store
	opts     PlayOptions
	width    int
	height   int
	screen   screen
	menu     MenuModel
	play     PlayModel
	progress ProgressModel
	quitting bool
}

// NewAppModel creates the application model starting at the puzzle menu.
func NewAppModel(levels []puzzles.Level, store *storage.Store, opts PlayOptions, width, height int) AppModel {
	if opts.Theme.Colors == nil {
		opts.Theme = DefaultTheme()
	}
	if store != nil && opts.Session.Store == nil {
		opts.Session.Store = store
	}
	return AppModel{
		levels: levels,
		store:  store,
		opts:   opts,
		width:  width,
		height: height,
		menu:   NewMenuModel(levels, store, opts.Theme, width, height),
	}
}

// NewAppModelAt creates the application model with a puzzle already open.
func NewAppModelAt(levels []puzzles.Level, store *storage.Store, opts PlayOptions, width, height int, level puzzles.Level) AppModel {
	m := NewAppModel(levels, store, opts, width, height)
	m.openPuzzle(level)
	return m
}

func (m *AppModel) openPuzzle(level puzzles.Level) {
	m.play = NewPlayModel(level, m.opts)
	m.play.width, m.play.height = m.width, m.height
	m.play.help.Width = m.width
	m.screen = screenPlay
}

// Init initializes the current screen.
func (m AppModel) Init() tea.Cmd {
	if m.screen == screenPlay {
		return m.play.Init()
	}
	return m.menu.Init()
}

// Update handles messages for the active screen.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Handle window resize globally
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = wsm.Width
		m.height = wsm.Height
	}

	switch m.screen {
	case screenPlay:
		return m.updatePlay(msg)
	case screenProgress:
		return m.updateProgress(msg)
	default:
		return m.updateMenu(msg)
	}
}

// updateMenu handles updates when in menu mode.
func (m AppModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	newMenu, cmd := m.menu.Update(msg)
	if menuModel, ok := newMenu.(MenuModel); ok {
		m.menu = menuModel
	}

	if m.menu.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if selected := m.menu.Selected(); selected != nil {
		m.openPuzzle(selected.Level)
		return m, m.play.Init()
	}

	if m.menu.WantsProgress() {
		m.progress = NewProgressModel(m.levels, m.store, m.width, m.height)
		m.screen = screenProgress
		return m, m.progress.Init()
	}

	return m, cmd
}

// updatePlay handles updates when a puzzle is open.
func (m AppModel) updatePlay(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.play.Update(msg)
	if playModel, ok := newModel.(PlayModel); ok {
		m.play = playModel
	}

	if m.play.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.play.BackToMenu() {
		m.backToMenu()
		return m, m.menu.Init()
	}

	return m, cmd
}

// updateProgress handles updates on the progress screen.
func (m AppModel) updateProgress(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.progress.Update(msg)
	if progressModel, ok := newModel.(ProgressModel); ok {
		m.progress = progressModel
	}

	if m.progress.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.progress.IsGoingBack() {
		m.backToMenu()
		return m, m.menu.Init()
	}

	return m, cmd
}

// backToMenu rebuilds the menu so solved markers are fresh.
func (m *AppModel) backToMenu() {
	cursor := m.menu.cursor
	m.menu = NewMenuModel(m.levels, m.store, m.opts.Theme, m.width, m.height)
	m.menu.cursor = min(cursor, max(len(m.levels)-1, 0))
	m.menu.updateScroll()
	m.screen = screenMenu
}

// View renders the current view.
func (m AppModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.screen {
	case screenPlay:
		return m.play.View()
	case screenProgress:
		return m.progress.View()
	default:
		return m.menu.View()
	}
}

// Run starts the Bubble Tea program locally. When start is not nil the
// puzzle opens directly.
func Run(levels []puzzles.Level, store *storage.Store, opts PlayOptions, width, height int, start *puzzles.Level) error {
	model := NewAppModel(levels, store, opts, width, height)
	if start != nil {
		model = NewAppModelAt(levels, store, opts, width, height, *start)
	}

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	_, err := p.Run()
	return err
}
