package render_test

import (
	"strings"
	"testing"

	"github.com/alcatrazEscapee/chromatic-sub000/internal/chromatic/core"
	"github.com/alcatrazEscapee/chromatic-sub000/internal/chromatic/puzzles"
	"github.com/alcatrazEscapee/chromatic-sub000/internal/chromatic/render"
)

func loadLevel(t *testing.T, id int) *puzzles.Level {
	t.Helper()
	lvl, err := puzzles.Default().LoadByID(id)
	if err != nil {
		t.Fatalf("LoadByID(%d) failed: %v", id, err)
	}
	return &lvl
}

func TestSize(t *testing.T) {
	for _, width := range []int{3, 4, 5} {
		w, h := render.Size(width)
		if w != (width+2)*render.CellSize || h != w {
			t.Errorf("Size(%d) = %dx%d", width, w, h)
		}
	}
}

func TestDrawEmptyBoard(t *testing.T) {
	lvl := loadLevel(t, 1)
	c := render.NewFrameCanvas(render.Frame{Puzzle: lvl.Puzzle, Board: core.NewBoard(3)})

	x, y := render.Center(core.C(1, 1))
	if got := c.Get(x, y).Rune; got != '·' {
		t.Errorf("Expected grid dot at empty cell, got %q", got)
	}

	in := c.Get(render.Center(core.C(-1, 1)))
	if in.Rune != '▶' || in.Color != core.Red {
		t.Errorf("Expected red input arrow, got %+v", in)
	}
	out := c.Get(render.Center(core.C(3, 1)))
	if out.Rune != '▶' || out.Color != core.Red {
		t.Errorf("Expected red output arrow, got %+v", out)
	}
}

func TestDrawSolution(t *testing.T) {
	lvl := loadLevel(t, 1)
	text := render.ASCII(render.Frame{Puzzle: lvl.Puzzle, Board: lvl.SolutionBoard()})

	rows := strings.Split(text, "\n")
	if len(rows) != 15 {
		t.Fatalf("Expected 15 rows, got %d", len(rows))
	}
	want := " ▶ " + strings.Repeat("─", 9) + " ▶ "
	if rows[7] != want {
		t.Errorf("Row 7:\n got %q\nwant %q", rows[7], want)
	}
}

func TestDrawSimulation(t *testing.T) {
	lvl := loadLevel(t, 1)
	board := lvl.SolutionBoard()
	sim := core.NewSimulator(board, lvl.Puzzle, nil, core.DefaultOptions())
	sim.Init()
	if _, err := sim.RunToCompletion(20); err != nil {
		t.Fatalf("RunToCompletion failed: %v", err)
	}

	c := render.NewFrameCanvas(render.Frame{Puzzle: lvl.Puzzle, Board: board, Sim: sim})

	if got := c.Get(render.Center(core.C(3, 1))).Rune; got != '◆' {
		t.Errorf("Expected satisfied output marker, got %q", got)
	}
	if got := c.Get(render.Center(core.C(1, 1))).Color; got != core.Red {
		t.Errorf("Expected red flow through the middle tile, got %s", got)
	}
}

func TestDrawLeak(t *testing.T) {
	lvl := loadLevel(t, 1)
	board := core.NewBoard(3)
	sim := core.NewSimulator(board, lvl.Puzzle, nil, core.DefaultOptions())
	sim.Init()
	if _, err := sim.RunToCompletion(5); err != nil {
		t.Fatalf("RunToCompletion failed: %v", err)
	}

	c := render.NewFrameCanvas(render.Frame{Puzzle: lvl.Puzzle, Board: board, Sim: sim})
	cell := c.Get(render.Center(core.C(0, 1)))
	if cell.Rune != '✱' || cell.Color != core.Red {
		t.Errorf("Expected red leak at (0,1), got %+v", cell)
	}
}

func TestDrawFilter(t *testing.T) {
	lvl := loadLevel(t, 7)
	c := render.NewFrameCanvas(render.Frame{Puzzle: lvl.Puzzle, Board: core.NewBoard(3)})

	x, y := render.Center(core.C(1, 1))
	for _, dx := range []int{1, 2} {
		if cell := c.Get(x+dx, y); cell.Rune != '▒' || cell.Color != core.Yellow {
			t.Errorf("Expected yellow filter at offset %d, got %+v", dx, cell)
		}
	}
}

func TestLegend(t *testing.T) {
	lvl := loadLevel(t, 7)
	got := render.Legend(lvl.Puzzle)
	if len(got) != 2 || got[0] != "red" || got[1] != "yellow" {
		t.Errorf("Unexpected legend %v", got)
	}
}
