package core_test

import (
	"testing"

	"github.com/alcatrazEscapee/chromatic-sub000/internal/chromatic/core"
)

// recorder counts listener callbacks.
type recorder struct {
	updates   map[core.Coord]int
	victories int
}

func newRecorder() *recorder {
	return &recorder{updates: make(map[core.Coord]int)}
}

func (r *recorder) UpdateTile(pos core.Coord) { r.updates[pos]++ }
func (r *recorder) OnVictory()                { r.victories++ }

func newPuzzle(t *testing.T, width int) *core.Puzzle {
	t.Helper()
	size, err := core.GridSizeByWidth(width)
	if err != nil {
		t.Fatalf("grid size: %v", err)
	}
	return &core.Puzzle{ID: 7, Name: "test", Size: size}
}

func place(b *core.Board, pos core.Coord, kind core.TileKind, dir core.Direction) *core.Tile {
	tile := core.NewTile(kind, dir)
	b.Set(pos, tile)
	return tile
}

func label(b *core.Board, pos core.Coord, key core.Key) core.Property {
	return *b.At(pos).Property(key)
}
