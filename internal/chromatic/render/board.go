package render

import (
	"github.com/alcatrazEscapee/chromatic-sub000/internal/chromatic/core"
)

// CellSize is the width and height, in characters, of one grid cell.
const CellSize = 3

// Frame is everything needed to draw one picture of a puzzle.
type Frame struct {
	Puzzle *core.Puzzle
	Board  *core.Board
	Sim    *core.Simulator // optional; adds flows, leaks and satisfied outputs
}

var (
	inputArrows  = [4]rune{'◀', '▲', '▶', '▼'}
	curveCorners = [4]rune{'┘', '└', '┌', '┐'}
	actionGlyphs = map[core.TileKind]rune{
		core.KindMix:   'M',
		core.KindUnmix: 'X',
		core.KindUp:    '+',
		core.KindDown:  '-',
	}
)

// Size returns the canvas size needed for a board of the given width,
// including a one-cell border for the edges.
func Size(width int) (w, h int) {
	n := (width + 2) * CellSize
	return n, n
}

// Center returns the canvas position of the middle of grid cell pos.
// Cells just outside the grid are drawable.
func Center(pos core.Coord) (x, y int) {
	return (pos.X+1)*CellSize + 1, (pos.Y+1)*CellSize + 1
}

// NewFrameCanvas allocates a canvas sized for the frame and draws it.
func NewFrameCanvas(f Frame) *Canvas {
	w, h := Size(f.Puzzle.Width())
	c := NewCanvas(w, h)
	Draw(c, f)
	return c
}

// ASCII renders a frame as plain text.
func ASCII(f Frame) string {
	return NewFrameCanvas(f).String()
}

// Draw paints the frame onto the canvas.
func Draw(c *Canvas, f Frame) {
	drawGrid(c, f.Puzzle.Width())
	if f.Board != nil {
		f.Board.Each(func(pos core.Coord, t *core.Tile) {
			drawTile(c, pos, t)
		})
	}
	for _, flt := range f.Puzzle.Filters {
		drawFilter(c, flt)
	}
	for _, e := range f.Puzzle.Inputs {
		drawEdge(c, e, inputArrows[e.Dir.Flip()])
	}
	for i, e := range f.Puzzle.Outputs {
		glyph := inputArrows[e.Dir]
		if f.Sim != nil && f.Sim.Satisfied(i) {
			glyph = '◆'
		}
		drawEdge(c, e, glyph)
	}
	if f.Sim != nil {
		for _, l := range f.Sim.Leaks() {
			color := core.ColorNone
			if len(l.Colors) > 0 {
				color = l.Colors[0]
			}
			x, y := Center(l.Pos)
			c.Set(x, y, '✱', color)
		}
	}
}

// drawGrid marks the center of every empty grid cell.
func drawGrid(c *Canvas, width int) {
	for y := 0; y < width; y++ {
		for x := 0; x < width; x++ {
			cx, cy := Center(core.C(x, y))
			c.Set(cx, cy, '·', core.ColorNone)
		}
	}
}

func drawTile(c *Canvas, pos core.Coord, t *core.Tile) {
	cx, cy := Center(pos)

	for _, key := range t.Keys() {
		color := slotColor(t, key)
		for _, d := range t.Connections(key) {
			dx, dy := d.Delta()
			c.Set(cx+dx, cy+dy, arm(d), color)
		}
	}

	switch t.Kind {
	case core.KindStraight:
		c.Set(cx, cy, arm(t.Dir), slotColor(t, core.KeyInternal))
	case core.KindCurve:
		c.Set(cx, cy, curveCorners[t.Dir], slotColor(t, core.KeyInternal))
	case core.KindCross:
		c.Set(cx, cy, '┼', slotColor(t, core.KeyHorizontal))
	default:
		c.Set(cx, cy, actionGlyphs[t.Kind], core.ColorNone)
	}

	// Pressure above one is shown in the top-left corner.
	if !t.Kind.IsAction() {
		if p := t.Property(t.Keys()[0]).Pressure; p > 1 {
			c.Set(cx-1, cy-1, rune('0'+p), core.ColorNone)
		}
	}
}

// slotColor is the flow color when a flow occupies the slot, else the label color.
func slotColor(t *core.Tile, key core.Key) core.Color {
	if f := t.Flow(key); f != nil {
		return f.Color
	}
	return t.Property(key).Color
}

func arm(d core.Direction) rune {
	if d.Axis() == core.Horizontal {
		return '─'
	}
	return '│'
}

func drawFilter(c *Canvas, f core.Filter) {
	x, y := Center(f.Pos)
	dx, dy := f.Dir.Delta()
	c.Set(x+dx, y+dy, '▒', f.Color)
	c.Set(x+2*dx, y+2*dy, '▒', f.Color)
}

func drawEdge(c *Canvas, e core.Edge, glyph rune) {
	x, y := Center(e.Pos)
	c.Set(x, y, glyph, e.Color)
	if e.Pressure > 1 {
		dx, dy := e.Dir.Delta()
		c.Set(x+dx, y+dy, rune('0'+e.Pressure), e.Color)
	}
}

// Legend lists the colors used by the frame's edges and filters, in ordinal order.
func Legend(p *core.Puzzle) []string {
	seen := make(map[core.Color]bool)
	for _, e := range p.Inputs {
		seen[e.Color] = true
	}
	for _, e := range p.Outputs {
		seen[e.Color] = true
	}
	for _, f := range p.Filters {
		seen[f.Color] = true
	}

	var out []string
	for _, color := range core.AllColors() {
		if seen[color] {
			out = append(out, color.String())
		}
	}
	return out
}
