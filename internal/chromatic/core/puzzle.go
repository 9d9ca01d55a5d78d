package core

import (
	"errors"
	"fmt"
)

// GridSize is one of the fixed puzzle grid sizes. Everything except Width is
// geometry for renderers; the engine only needs Width.
type GridSize struct {
	ID            int
	Width         int
	TileWidth     int
	InsideWidth   int
	InsideTop     int
	PressureWidth int
	PortWidth     int
}

var gridSizes = []GridSize{
	{ID: 0, Width: 3, TileWidth: 120, InsideWidth: 40, InsideTop: 40, PressureWidth: 8, PortWidth: 20},
	{ID: 1, Width: 4, TileWidth: 90, InsideWidth: 30, InsideTop: 30, PressureWidth: 6, PortWidth: 15},
	{ID: 2, Width: 5, TileWidth: 72, InsideWidth: 24, InsideTop: 24, PressureWidth: 5, PortWidth: 12},
}

// GridSizeByID returns the grid size with the given id.
func GridSizeByID(id int) (GridSize, error) {
	for _, s := range gridSizes {
		if s.ID == id {
			return s, nil
		}
	}
	return GridSize{}, fmt.Errorf("grid size %d: %w", id, ErrUnknownName)
}

// GridSizeByWidth returns the grid size with the given width.
func GridSizeByWidth(width int) (GridSize, error) {
	for _, s := range gridSizes {
		if s.Width == width {
			return s, nil
		}
	}
	return GridSize{}, fmt.Errorf("grid width %d: %w", width, ErrUnknownName)
}

// Edge is a puzzle input or output. Pos is the cell just outside the grid and
// Dir points outward, away from the adjacent interior cell.
type Edge struct {
	Pos      Coord
	Dir      Direction
	Color    Color
	Pressure int
}

// Interior returns the grid cell the edge is attached to.
func (e Edge) Interior() Coord {
	return e.Pos.Step(e.Dir.Flip())
}

// Filter forces the color of anything crossing the edge between Pos and
// Pos.Step(Dir), in either direction.
type Filter struct {
	Pos   Coord
	Dir   Direction
	Color Color
}

// Crosses reports whether moving from `from` in direction d crosses this filter.
func (f Filter) Crosses(from Coord, d Direction) bool {
	if from == f.Pos && d == f.Dir {
		return true
	}
	return from == f.Pos.Step(f.Dir) && d == f.Dir.Flip()
}

// Puzzle is an immutable level definition.
type Puzzle struct {
	ID      int
	Name    string
	Size    GridSize
	Inputs  []Edge
	Outputs []Edge
	Filters []Filter
}

// Width returns the grid width of the puzzle.
func (p *Puzzle) Width() int {
	return p.Size.Width
}

// InBounds reports whether c is inside the puzzle grid.
func (p *Puzzle) InBounds(c Coord) bool {
	w := p.Size.Width
	return c.X >= 0 && c.X < w && c.Y >= 0 && c.Y < w
}

// FilterAt returns the filter crossed by moving from `from` in direction d.
func (p *Puzzle) FilterAt(from Coord, d Direction) (Filter, bool) {
	for _, f := range p.Filters {
		if f.Crosses(from, d) {
			return f, true
		}
	}
	return Filter{}, false
}

// EdgeAt returns the input or output located at pos, inputs first.
func (p *Puzzle) EdgeAt(pos Coord) (Edge, bool) {
	for _, e := range p.Inputs {
		if e.Pos == pos {
			return e, true
		}
	}
	for _, e := range p.Outputs {
		if e.Pos == pos {
			return e, true
		}
	}
	return Edge{}, false
}

// Validate checks that the puzzle is well formed.
func (p *Puzzle) Validate() error {
	if _, err := GridSizeByID(p.Size.ID); err != nil {
		return err
	}
	if len(p.Inputs) == 0 {
		return errors.New("puzzle has no inputs")
	}
	if len(p.Outputs) == 0 {
		return errors.New("puzzle has no outputs")
	}
	seen := make(map[Coord]bool)
	check := func(role string, i int, e Edge) error {
		if p.InBounds(e.Pos) || !p.InBounds(e.Interior()) {
			return fmt.Errorf("%s %d at %s %s is not on the grid boundary", role, i, e.Pos, e.Dir)
		}
		if !e.Color.Valid() {
			return fmt.Errorf("%s %d has no color", role, i)
		}
		if e.Pressure < 1 || e.Pressure > MaxPressure {
			return fmt.Errorf("%s %d has pressure %d outside 1-%d", role, i, e.Pressure, MaxPressure)
		}
		if seen[e.Pos] {
			return fmt.Errorf("%s %d at %s overlaps another edge", role, i, e.Pos)
		}
		seen[e.Pos] = true
		return nil
	}
	for i, e := range p.Inputs {
		if err := check("input", i, e); err != nil {
			return err
		}
	}
	for i, e := range p.Outputs {
		if err := check("output", i, e); err != nil {
			return err
		}
	}
	for i, f := range p.Filters {
		if !p.InBounds(f.Pos) && !p.InBounds(f.Pos.Step(f.Dir)) {
			return fmt.Errorf("filter %d at %s is outside the grid", i, f.Pos)
		}
		if !f.Color.Valid() {
			return fmt.Errorf("filter %d has no color", i)
		}
	}
	return nil
}
