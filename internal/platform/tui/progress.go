package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/alcatrazEscapee/chromatic-sub000/internal/chromatic/puzzles"
	"github.com/alcatrazEscapee/chromatic-sub000/internal/storage"
)

// ProgressKeyMap defines the key bindings for the progress screen.
type ProgressKeyMap struct {
	Up    key.Binding
	Down  key.Binding
	Reset key.Binding
	Back  key.Binding
	Quit  key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ProgressKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Reset, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k ProgressKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Reset},
		{k.Back, k.Quit},
	}
}

// DefaultProgressKeyMap returns default key bindings.
func DefaultProgressKeyMap() ProgressKeyMap {
	return ProgressKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		Reset: key.NewBinding(
			key.WithKeys("X"),
			key.WithHelp("X", "clear puzzle"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b", "tab"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ProgressModel is the Bubble Tea model for the solve records screen.
type ProgressModel struct {
	levels    []puzzles.Level
	store     *storage.Store
	entries   []storage.ProgressEntry
	table     table.Model
	help      help.Model
	keys      ProgressKeyMap
	width     int
	height    int
	quitting  bool
	goingBack bool // True if user pressed back (not quit)
}

// NewProgressModel creates a new progress model.
func NewProgressModel(levels []puzzles.Level, store *storage.Store, width, height int) ProgressModel {
	h := help.New()
	h.ShowAll = false

	m := ProgressModel{
		levels: levels,
		store:  store,
		keys:   DefaultProgressKeyMap(),
		help:   h,
		width:  width,
		height: height,
	}
	m.table = m.createTable()
	m.loadProgress()
	return m
}

// createTable creates a new table with appropriate columns.
func (m *ProgressModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "#", Width: 4},
		{Title: "Puzzle", Width: 22},
		{Title: "Solves", Width: 7},
		{Title: "Best", Width: 6},
		{Title: "First solved", Width: 14},
		{Title: "Saved", Width: 6},
	}

	height := m.height - 8 // Leave room for header, help, and margins
	if height < 5 {
		height = 5
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(height),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// loadProgress reads the solve records and refreshes the rows.
func (m *ProgressModel) loadProgress() {
	m.entries = nil
	if m.store != nil {
		if entries, err := m.store.Progress(); err == nil {
			m.entries = entries
		}
	}
	m.table.SetRows(ProgressRows(m.levels, m.entries))
	m.table.GotoTop()
}

// ProgressRows formats one row per known puzzle, followed by records for
// puzzles no longer in the pack.
func ProgressRows(levels []puzzles.Level, entries []storage.ProgressEntry) []table.Row {
	byID := make(map[int]storage.ProgressEntry, len(entries))
	for _, e := range entries {
		byID[e.PuzzleID] = e
	}

	row := func(id int, name string, e storage.ProgressEntry) table.Row {
		best, first := "-", "-"
		if e.Solves > 0 {
			best = fmt.Sprintf("%d", e.BestSteps)
			if !e.FirstSolved.IsZero() {
				first = e.FirstSolved.Format("Jan 02 15:04")
			}
		}
		saved := ""
		if e.HasSave {
			saved = "yes"
		}
		return table.Row{fmt.Sprintf("%d", id), name, fmt.Sprintf("%d", e.Solves), best, first, saved}
	}

	rows := make([]table.Row, 0, len(levels))
	known := make(map[int]bool, len(levels))
	for _, lvl := range levels {
		known[lvl.ID()] = true
		rows = append(rows, row(lvl.ID(), lvl.Name(), byID[lvl.ID()]))
	}
	for _, e := range entries {
		if !known[e.PuzzleID] {
			rows = append(rows, row(e.PuzzleID, "(unknown)", e))
		}
	}
	return rows
}

// Init initializes the progress model.
func (m ProgressModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the progress screen.
func (m ProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, nil

		case key.Matches(msg, m.keys.Reset):
			if row := m.table.SelectedRow(); row != nil && m.store != nil {
				var id int
				if _, err := fmt.Sscan(row[0], &id); err == nil {
					//nolint:errcheck // Table refresh shows the outcome
					m.store.ClearProgress(id)
					m.loadProgress()
				}
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table = m.createTable()
		m.loadProgress()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the progress screen.
func (m ProgressModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		MarginBottom(1)
	b.WriteString(titleStyle.Render(centerText("PROGRESS", m.width)))
	b.WriteString("\n\n")

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	if m.store == nil {
		emptyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(2, 4)
		b.WriteString(tableStyle.Render(emptyStyle.Render("Progress is not being saved.")))
	} else {
		b.WriteString(tableStyle.Render(m.table.View()))
	}

	b.WriteString("\n")
	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// IsGoingBack returns true if user wants to go back to menu.
func (m ProgressModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m ProgressModel) IsQuitting() bool {
	return m.quitting
}
