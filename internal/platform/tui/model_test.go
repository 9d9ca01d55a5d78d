package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/alcatrazEscapee/chromatic-sub000/internal/chromatic/core"
	"github.com/alcatrazEscapee/chromatic-sub000/internal/chromatic/puzzles"
	"github.com/alcatrazEscapee/chromatic-sub000/internal/chromatic/render"
	"github.com/alcatrazEscapee/chromatic-sub000/internal/storage"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m PlayModel, msgs ...tea.Msg) PlayModel {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		pm, ok := next.(PlayModel)
		if !ok {
			t.Fatalf("Update returned %T", next)
		}
		m = pm
	}
	return m
}

func testLevel(t *testing.T, id int) puzzles.Level {
	t.Helper()
	lvl, err := puzzles.Default().LoadByID(id)
	if err != nil {
		t.Fatalf("LoadByID(%d) failed: %v", id, err)
	}
	return lvl
}

func TestPlayModelCursorStaysOnGrid(t *testing.T) {
	m := NewPlayModel(testLevel(t, 1), PlayOptions{})

	m = press(t, m, runes("a"), runes("w"))
	if m.Cursor() != core.C(0, 0) {
		t.Errorf("Expected cursor to stay at (0,0), got %s", m.Cursor())
	}

	m = press(t, m, runes("d"), runes("d"), runes("d"), runes("s"))
	if m.Cursor() != core.C(2, 1) {
		t.Errorf("Expected cursor at (2,1), got %s", m.Cursor())
	}
}

func TestPlayModelEditAndSolve(t *testing.T) {
	m := NewPlayModel(testLevel(t, 1), PlayOptions{})

	m = press(t, m,
		runes("s"), runes("1"),
		runes("d"), runes("1"),
		runes("d"), runes("1"),
	)
	if got := m.Session().Board().Count(); got != 3 {
		t.Fatalf("Expected 3 tiles, got %d", got)
	}

	m = press(t, m, tea.KeyMsg{Type: tea.KeySpace})
	if !m.Session().Running() {
		t.Fatal("Expected simulation to run")
	}

	// Editing is refused while running
	m = press(t, m, runes("x"))
	if m.Session().Board().Count() != 3 || m.Status() == "" {
		t.Errorf("Expected remove to be refused, status %q", m.Status())
	}

	start := time.Unix(0, 0)
	for i := 0; i <= 10; i++ {
		m = press(t, m, TickMsg(start.Add(time.Duration(i)*core.DefaultStepDuration)))
	}
	if !m.Session().Solved() {
		t.Fatal("Expected puzzle to be solved")
	}
	if !strings.HasPrefix(m.Status(), "solved in") {
		t.Errorf("Unexpected status %q", m.Status())
	}
	if !strings.Contains(m.View(), "SOLVED") {
		t.Error("Expected view to show the solved marker")
	}
}

func TestPlayModelPaintLabel(t *testing.T) {
	m := NewPlayModel(testLevel(t, 1), PlayOptions{})

	// Brush starts at red; one press moves to yellow.
	m = press(t, m, runes("1"), runes("c"), runes("p"), tea.KeyMsg{Type: tea.KeyEnter})

	got := *m.Session().Board().At(core.C(0, 0)).Property(core.KeyInternal)
	want := core.Property{Color: core.Yellow, Pressure: 2}
	if got != want {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestPlayModelShowSolution(t *testing.T) {
	lvl := testLevel(t, 4)
	m := NewPlayModel(lvl, PlayOptions{})

	m = press(t, m, runes("S"))
	if !m.Session().Board().Equal(lvl.SolutionBoard()) {
		t.Error("Expected the reference solution on the board")
	}
}

func TestPlayModelBackStopsSimulation(t *testing.T) {
	m := NewPlayModel(testLevel(t, 1), PlayOptions{})
	m = press(t, m, tea.KeyMsg{Type: tea.KeySpace}, tea.KeyMsg{Type: tea.KeyEsc})

	if !m.BackToMenu() {
		t.Error("Expected back to menu")
	}
	if m.Session().Running() {
		t.Error("Expected simulation to stop on back")
	}
}

func TestNextColorCycles(t *testing.T) {
	c := core.ColorNone
	for range brushColors {
		c = nextColor(c)
	}
	if c != core.ColorNone {
		t.Errorf("Expected full cycle back to none, got %s", c)
	}
	if nextColor(core.Brown) != core.ColorNone {
		t.Error("Expected brown to wrap to none")
	}
}

func TestRenderCanvas(t *testing.T) {
	lvl := testLevel(t, 1)
	c := render.NewFrameCanvas(render.Frame{Puzzle: lvl.Puzzle, Board: lvl.SolutionBoard()})

	out := RenderCanvas(c, DefaultTheme(), CellHighlight(core.C(0, 0)))
	if got := strings.Count(out, "\n"); got != c.Height()-1 {
		t.Errorf("Expected %d newlines, got %d", c.Height()-1, got)
	}
	if !strings.Contains(out, strings.Repeat("─", 9)) {
		t.Error("Expected the pipe run to render as one styled run")
	}
}

func TestProgressRows(t *testing.T) {
	levels := []puzzles.Level{testLevel(t, 1), testLevel(t, 2)}
	entries := []storage.ProgressEntry{
		{PuzzleID: 2, Solves: 3, BestSteps: 5, HasSave: true},
		{PuzzleID: 99, Solves: 1, BestSteps: 7},
	}

	rows := ProgressRows(levels, entries)
	if len(rows) != 3 {
		t.Fatalf("Expected 3 rows, got %d", len(rows))
	}
	if rows[0][2] != "0" || rows[0][3] != "-" {
		t.Errorf("Unexpected row for unsolved puzzle: %v", rows[0])
	}
	if rows[1][2] != "3" || rows[1][3] != "5" || rows[1][5] != "yes" {
		t.Errorf("Unexpected row for puzzle 2: %v", rows[1])
	}
	if rows[2][0] != "99" || rows[2][1] != "(unknown)" {
		t.Errorf("Unexpected row for unknown puzzle: %v", rows[2])
	}
}

func TestAppModelFlow(t *testing.T) {
	levels := []puzzles.Level{testLevel(t, 1), testLevel(t, 2)}
	m := NewAppModel(levels, nil, PlayOptions{}, 80, 24)

	step := func(msg tea.Msg) {
		next, _ := m.Update(msg)
		m = next.(AppModel)
	}

	step(runes("j"))
	step(tea.KeyMsg{Type: tea.KeyEnter})
	if m.screen != screenPlay || m.play.level.ID() != 2 {
		t.Fatalf("Expected puzzle 2 to open, screen=%d", m.screen)
	}

	step(tea.KeyMsg{Type: tea.KeyEsc})
	if m.screen != screenMenu || m.menu.cursor != 1 {
		t.Errorf("Expected menu with cursor kept, screen=%d cursor=%d", m.screen, m.menu.cursor)
	}

	step(tea.KeyMsg{Type: tea.KeyTab})
	if m.screen != screenProgress {
		t.Errorf("Expected progress screen, got %d", m.screen)
	}
	step(tea.KeyMsg{Type: tea.KeyEsc})
	if m.screen != screenMenu {
		t.Errorf("Expected menu after progress, got %d", m.screen)
	}
}
