package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/alcatrazEscapee/chromatic-sub000/internal/chromatic"
	"github.com/alcatrazEscapee/chromatic-sub000/internal/chromatic/core"
	"github.com/alcatrazEscapee/chromatic-sub000/internal/chromatic/puzzles"
	"github.com/alcatrazEscapee/chromatic-sub000/internal/chromatic/render"
)

// PlayOptions configures the puzzle screen.
type PlayOptions struct {
	Session  chromatic.Options
	TickRate int
	Theme    Theme
}

// brushColors is the cycle order of the label brush.
var brushColors = append([]core.Color{core.ColorNone}, core.AllColors()...)

// PlayModel is the Bubble Tea model for solving one puzzle.
type PlayModel struct {
	level    puzzles.Level
	session  *chromatic.Session
	canvas   *render.Canvas
	theme    Theme
	keys     PlayKeyMap
	help     help.Model
	tickRate int
	lastTick time.Time

	cursor   core.Coord
	brush    core.Color
	pressure int
	slot     int

	status    string
	statusErr bool
	width     int
	height    int
	quitting  bool
	back      bool
}

// NewPlayModel creates the puzzle screen and restores any saved board.
func NewPlayModel(level puzzles.Level, opts PlayOptions) PlayModel {
	if opts.TickRate <= 0 {
		opts.TickRate = 30
	}
	if opts.Theme.Colors == nil {
		opts.Theme = DefaultTheme()
	}

	w, h := render.Size(level.Puzzle.Width())
	m := PlayModel{
		level:    level,
		session:  chromatic.NewSession(level.Puzzle, opts.Session),
		canvas:   render.NewCanvas(w, h),
		theme:    opts.Theme,
		keys:     DefaultPlayKeyMap(),
		help:     help.New(),
		tickRate: opts.TickRate,
		brush:    core.Red,
		pressure: 1,
	}
	if err := m.session.Restore(); err != nil {
		m.setError(fmt.Errorf("could not restore board: %w", err))
	}
	return m
}

// Init starts the tick loop.
func (m PlayModel) Init() tea.Cmd {
	return tickCmd(m.tickRate)
}

// Update handles messages and updates the model state.
func (m PlayModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		return m.handleTick(time.Time(msg))
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m PlayModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Back):
		m.session.Stop()
		m.back = true
		return m, nil

	case key.Matches(msg, m.keys.Up):
		m.moveCursor(core.Up)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(core.Down)
	case key.Matches(msg, m.keys.Left):
		m.moveCursor(core.Left)
	case key.Matches(msg, m.keys.Right):
		m.moveCursor(core.Right)

	case key.Matches(msg, m.keys.Place):
		m.slot = 0
		m.report(m.session.Place(m.cursor, placeKinds[msg.String()]), "")
	case key.Matches(msg, m.keys.Rotate):
		m.report(m.session.Rotate(m.cursor), "")
	case key.Matches(msg, m.keys.Remove):
		m.report(m.session.Remove(m.cursor), "")

	case key.Matches(msg, m.keys.Color):
		m.brush = nextColor(m.brush)
	case key.Matches(msg, m.keys.Pressure):
		m.pressure = m.pressure%core.MaxPressure + 1
	case key.Matches(msg, m.keys.Slot):
		if t := m.session.Board().At(m.cursor); t != nil {
			m.slot = (m.slot + 1) % len(t.Keys())
		}
	case key.Matches(msg, m.keys.Paint):
		m.paint()

	case key.Matches(msg, m.keys.Run):
		m.toggleRun()
	case key.Matches(msg, m.keys.Solution):
		if !m.level.HasSolution() {
			m.setStatus("no solution for this puzzle")
			break
		}
		m.report(m.session.LoadBoard(m.level.SolutionBoard()), "solution loaded")
	case key.Matches(msg, m.keys.Copy):
		m.copyCode()
	case key.Matches(msg, m.keys.Paste):
		m.pasteCode()

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}

	return m, nil
}

// handleTick advances the simulation by the wall time since the last tick.
func (m PlayModel) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	if m.session.Running() && !m.lastTick.IsZero() {
		results, err := m.session.Tick(now.Sub(m.lastTick))
		if err != nil {
			m.setError(err)
		}
		for _, res := range results {
			if res.Victory {
				m.setStatus(fmt.Sprintf("solved in %d steps", res.Step))
			}
		}
	}
	m.lastTick = now

	return m, tickCmd(m.tickRate)
}

func (m *PlayModel) moveCursor(d core.Direction) {
	next := m.cursor.Step(d)
	if m.session.Board().InBounds(next) {
		m.cursor = next
		m.slot = 0
	}
}

func (m *PlayModel) paint() {
	t := m.session.Board().At(m.cursor)
	if t == nil {
		m.setError(chromatic.ErrNoTile)
		return
	}
	keys := t.Keys()
	k := keys[m.slot%len(keys)]
	m.report(m.session.SetLabel(m.cursor, k, m.brush, m.pressure), "")
}

func (m *PlayModel) toggleRun() {
	if m.session.Running() {
		m.session.Stop()
		m.setStatus("stopped")
		return
	}
	m.session.Start()
	m.lastTick = time.Time{}
	m.setStatus("running")
}

func (m *PlayModel) copyCode() {
	code, ok := m.session.SaveCode()
	if !ok {
		m.setStatus("board is empty")
		return
	}
	if err := clipboard.WriteAll(code); err != nil {
		// No clipboard over SSH; show the code instead.
		m.setStatus("code: " + code)
		return
	}
	m.setStatus("copied " + code)
}

func (m *PlayModel) pasteCode() {
	text, err := clipboard.ReadAll()
	if err != nil {
		m.setError(fmt.Errorf("clipboard: %w", err))
		return
	}
	m.report(m.session.LoadCode(strings.TrimSpace(text)), "code loaded")
}

func (m *PlayModel) report(err error, ok string) {
	if err != nil {
		m.setError(err)
		return
	}
	if ok != "" {
		m.setStatus(ok)
	}
}

func (m *PlayModel) setStatus(s string) {
	m.status = s
	m.statusErr = false
}

func (m *PlayModel) setError(err error) {
	m.status = err.Error()
	m.statusErr = true
}

func nextColor(c core.Color) core.Color {
	for i, bc := range brushColors {
		if bc == c {
			return brushColors[(i+1)%len(brushColors)]
		}
	}
	return brushColors[0]
}

// View renders the current state to a string for display.
func (m PlayModel) View() string {
	if m.quitting || m.back {
		return ""
	}

	m.canvas.Clear()
	render.Draw(m.canvas, render.Frame{
		Puzzle: m.level.Puzzle,
		Board:  m.session.Board(),
		Sim:    m.session.Simulator(),
	})
	board := RenderCanvas(m.canvas, m.theme, CellHighlight(m.cursor))

	var b strings.Builder
	title := m.theme.HUDTitle.Render(fmt.Sprintf("#%d %s", m.level.ID(), m.level.Name()))
	b.WriteString(title)
	if m.session.Solved() {
		b.WriteString("  " + m.theme.HUDSolved.Render("SOLVED"))
	}
	b.WriteString("\n\n")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, board, "   ", m.panel()))
	b.WriteString("\n\n")

	if m.status != "" {
		style := m.theme.HUDValue
		if m.statusErr {
			style = m.theme.HUDError
		}
		b.WriteString(style.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(m.theme.HUDControls.Render(m.help.View(m.keys)))

	return b.String()
}

// panel renders the side panel with the brush and the tile under the cursor.
func (m PlayModel) panel() string {
	row := func(label, value string) string {
		return m.theme.HUDLabel.Render(fmt.Sprintf("%-9s", label)) + m.theme.HUDValue.Render(value) + "\n"
	}

	var b strings.Builder
	b.WriteString(row("brush", m.theme.ColorStyle(m.brush).Render(m.brush.String())))
	b.WriteString(row("pressure", fmt.Sprint(m.pressure)))
	b.WriteString("\n")

	b.WriteString(row("cell", m.cursor.String()))
	if t := m.session.Board().At(m.cursor); t != nil {
		b.WriteString(row("tile", fmt.Sprintf("%s %s", t.Kind, t.Dir)))
		keys := t.Keys()
		for i, k := range keys {
			marker := "  "
			if i == m.slot%len(keys) {
				marker = "> "
			}
			prop := t.Property(k)
			b.WriteString(row(marker+k.String(), m.theme.ColorStyle(prop.Color).Render(prop.String())))
		}
	}
	b.WriteString("\n")

	sim := m.session.Simulator()
	state := "editing"
	if sim.Running() {
		state = "running"
	}
	b.WriteString(row("state", state))
	b.WriteString(row("step", fmt.Sprint(sim.StepCount())))
	b.WriteString(row("leaks", fmt.Sprint(len(sim.Leaks()))))
	b.WriteString(row("colors", strings.Join(render.Legend(m.level.Puzzle), " ")))

	return b.String()
}

// Session returns the underlying puzzle session.
func (m PlayModel) Session() *chromatic.Session {
	return m.session
}

// Cursor returns the selected grid cell.
func (m PlayModel) Cursor() core.Coord {
	return m.cursor
}

// Status returns the last status line.
func (m PlayModel) Status() string {
	return m.status
}

// IsQuitting returns true if user requested to quit entirely.
func (m PlayModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to the puzzle list.
func (m PlayModel) BackToMenu() bool {
	return m.back
}
