package core

import "fmt"

// Board is the runtime grid of placed tiles.
// Tiles are stored in row-major order: index = x + width*y.
type Board struct {
	width int
	tiles []*Tile
}

// NewBoard creates an empty width x width board.
func NewBoard(width int) *Board {
	return &Board{
		width: width,
		tiles: make([]*Tile, width*width),
	}
}

// Width returns the width of the board.
func (b *Board) Width() int {
	return b.width
}

// InBounds returns true if the coordinate is within the board.
func (b *Board) InBounds(c Coord) bool {
	return c.X >= 0 && c.X < b.width && c.Y >= 0 && c.Y < b.width
}

// Index converts a coordinate to a flat index. Panics when out of bounds.
func (b *Board) Index(c Coord) int {
	if !b.InBounds(c) {
		panic(fmt.Sprintf("core: coordinate %s outside %dx%d board", c, b.width, b.width))
	}
	return c.X + b.width*c.Y
}

// CoordOf converts a flat index back to a coordinate.
func (b *Board) CoordOf(index int) Coord {
	return Coord{X: index % b.width, Y: index / b.width}
}

// At returns the tile at c, or nil. Panics when out of bounds.
func (b *Board) At(c Coord) *Tile {
	return b.tiles[b.Index(c)]
}

// Set places a tile at c, replacing whatever was there.
func (b *Board) Set(c Coord, t *Tile) {
	b.tiles[b.Index(c)] = t
}

// Remove clears the tile at c.
func (b *Board) Remove(c Coord) {
	b.tiles[b.Index(c)] = nil
}

// Clear removes every tile.
func (b *Board) Clear() {
	for i := range b.tiles {
		b.tiles[i] = nil
	}
}

// Count returns the number of placed tiles.
func (b *Board) Count() int {
	n := 0
	for _, t := range b.tiles {
		if t != nil {
			n++
		}
	}
	return n
}

// IsEmpty returns true if no tile is placed.
func (b *Board) IsEmpty() bool {
	return b.Count() == 0
}

// Each calls fn for every placed tile in index order.
func (b *Board) Each(fn func(c Coord, t *Tile)) {
	for i, t := range b.tiles {
		if t != nil {
			fn(b.CoordOf(i), t)
		}
	}
}

// ClearFlows releases the flow slots of every tile.
func (b *Board) ClearFlows() {
	for _, t := range b.tiles {
		if t != nil {
			t.ClearFlows()
		}
	}
}

// Validate checks every label on the board.
func (b *Board) Validate() error {
	for i, t := range b.tiles {
		if t == nil {
			continue
		}
		for _, k := range t.Keys() {
			if prop := t.Property(k); !prop.Valid() {
				return fmt.Errorf("%w %s in slot %s at %s", ErrInvalidProperty, prop, k, b.CoordOf(i))
			}
		}
	}
	return nil
}

// Clone returns a deep copy of the board layout. Flows are not copied.
func (b *Board) Clone() *Board {
	out := NewBoard(b.width)
	for i, t := range b.tiles {
		if t != nil {
			out.tiles[i] = t.Clone()
		}
	}
	return out
}

// Equal returns true if two boards hold the same tiles with the same labels.
func (b *Board) Equal(other *Board) bool {
	if b.width != other.width {
		return false
	}
	for i, t := range b.tiles {
		if !t.SameLayout(other.tiles[i]) {
			return false
		}
	}
	return true
}
