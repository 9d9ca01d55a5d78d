package tui

import (
	"strings"

	"github.com/alcatrazEscapee/chromatic-sub000/internal/chromatic/core"
	"github.com/alcatrazEscapee/chromatic-sub000/internal/chromatic/render"
)

// Highlight is a rectangle of canvas cells drawn with the cursor style.
type Highlight struct {
	X, Y, W, H int
}

func (h *Highlight) contains(x, y int) bool {
	return h != nil && x >= h.X && x < h.X+h.W && y >= h.Y && y < h.Y+h.H
}

// CellHighlight returns the highlight covering grid cell pos.
func CellHighlight(pos core.Coord) *Highlight {
	x, y := render.Center(pos)
	return &Highlight{X: x - 1, Y: y - 1, W: render.CellSize, H: render.CellSize}
}

// RenderCanvas converts a canvas to a styled string for display.
// Groups adjacent cells with the same style to minimize ANSI escape sequences.
func RenderCanvas(c *render.Canvas, theme Theme, hl *Highlight) string {
	var sb strings.Builder
	// Pre-allocate with extra space for ANSI codes
	sb.Grow(c.Width()*c.Height()*2 + c.Height())

	for y := range c.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < c.Width() {
			startColor := c.Get(x, y).Color
			startLit := hl.contains(x, y)

			var run strings.Builder
			for x < c.Width() {
				cell := c.Get(x, y)
				if cell.Color != startColor || hl.contains(x, y) != startLit {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			style := theme.ColorStyle(startColor)
			if startLit {
				style = style.Inherit(theme.Cursor)
			}
			sb.WriteString(style.Render(run.String()))
		}
	}
	return sb.String()
}
