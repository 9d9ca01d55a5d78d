// Package export draws boards as PNG images.
package export

import (
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"

	"github.com/alcatrazEscapee/chromatic-sub000/internal/chromatic/core"
	"github.com/alcatrazEscapee/chromatic-sub000/internal/chromatic/render"
)

// Options controls the image layout.
type Options struct {
	CellPx int  // pixel size of one grid cell
	Title  bool // draw the puzzle name above the board
}

// DefaultOptions returns 48px cells with a title.
func DefaultOptions() Options {
	return Options{CellPx: 48, Title: true}
}

var (
	background = color.RGBA{0x12, 0x12, 0x12, 0xff}
	gridLine   = color.RGBA{0x2a, 0x2a, 0x2a, 0xff}
	textColor  = color.RGBA{0xe0, 0xe0, 0xe0, 0xff}
)

const titleBand = 28

// painter maps grid cells to pixels. Cells just outside the grid are drawable.
type painter struct {
	dc   *gg.Context
	cell float64
	top  float64
}

func (p painter) origin(pos core.Coord) (x, y float64) {
	return float64(pos.X+1) * p.cell, p.top + float64(pos.Y+1)*p.cell
}

func (p painter) center(pos core.Coord) (x, y float64) {
	x, y = p.origin(pos)
	return x + p.cell/2, y + p.cell/2
}

// Render draws the frame and returns the image.
func Render(f render.Frame, opts Options) (image.Image, error) {
	if opts.CellPx <= 0 {
		opts.CellPx = DefaultOptions().CellPx
	}
	width := f.Puzzle.Width()
	side := (width + 2) * opts.CellPx

	p := painter{cell: float64(opts.CellPx)}
	if opts.Title {
		p.top = titleBand
	}
	p.dc = gg.NewContext(side, side+int(p.top))
	p.dc.SetColor(background)
	p.dc.Clear()

	if opts.Title {
		if err := p.title(fmt.Sprintf("#%d %s", f.Puzzle.ID, f.Puzzle.Name)); err != nil {
			return nil, err
		}
	}

	p.grid(width)
	if f.Board != nil {
		f.Board.Each(p.tile)
	}
	for _, flt := range f.Puzzle.Filters {
		p.filter(flt)
	}
	for _, e := range f.Puzzle.Inputs {
		p.edge(e, e.Dir.Flip(), false)
	}
	for i, e := range f.Puzzle.Outputs {
		p.edge(e, e.Dir, f.Sim != nil && f.Sim.Satisfied(i))
	}
	if f.Sim != nil {
		for _, l := range f.Sim.Leaks() {
			p.leak(l)
		}
	}

	return p.dc.Image(), nil
}

// WritePNG encodes the frame as PNG to w.
func WritePNG(w io.Writer, f render.Frame, opts Options) error {
	img, err := Render(f, opts)
	if err != nil {
		return err
	}
	return gg.NewContextForImage(img).EncodePNG(w)
}

// SavePNG writes the frame as a PNG file.
func SavePNG(path string, f render.Frame, opts Options) error {
	img, err := Render(f, opts)
	if err != nil {
		return err
	}
	if err := gg.SavePNG(path, img); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	return nil
}

func (p painter) title(text string) error {
	ttfFont, err := truetype.Parse(gomono.TTF)
	if err != nil {
		return fmt.Errorf("failed to parse font: %w", err)
	}
	face := truetype.NewFace(ttfFont, &truetype.Options{
		Size:    16,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	p.dc.SetFontFace(face)
	p.dc.SetColor(textColor)
	p.dc.DrawStringAnchored(text, p.cell/4, p.top/2, 0, 0.5)
	return nil
}

func (p painter) grid(width int) {
	p.dc.SetColor(gridLine)
	p.dc.SetLineWidth(1)
	for y := 0; y < width; y++ {
		for x := 0; x < width; x++ {
			ox, oy := p.origin(core.C(x, y))
			p.dc.DrawRectangle(ox+0.5, oy+0.5, p.cell-1, p.cell-1)
			p.dc.Stroke()
		}
	}
}

// tile draws each slot as arms from the cell center toward its connections.
func (p painter) tile(pos core.Coord, t *core.Tile) {
	cx, cy := p.center(pos)
	half := p.cell / 2

	p.dc.SetLineWidth(p.cell / 4)
	p.dc.SetLineCap(gg.LineCapButt)
	for _, k := range t.Keys() {
		p.dc.SetColor(render.RGB(slotColor(t, k)))
		for _, d := range t.Connections(k) {
			dx, dy := d.Delta()
			p.dc.DrawLine(cx, cy, cx+float64(dx)*half, cy+float64(dy)*half)
			p.dc.Stroke()
		}
	}

	if t.Kind.IsAction() {
		p.dc.SetColor(textColor)
		p.dc.DrawCircle(cx, cy, p.cell/5)
		p.dc.Fill()
		p.dc.SetColor(background)
		p.dc.DrawStringAnchored(actionLabel(t.Kind), cx, cy, 0.5, 0.35)
	}
}

func slotColor(t *core.Tile, key core.Key) core.Color {
	if f := t.Flow(key); f != nil {
		return f.Color
	}
	return t.Property(key).Color
}

func actionLabel(kind core.TileKind) string {
	switch kind {
	case core.KindMix:
		return "M"
	case core.KindUnmix:
		return "X"
	case core.KindUp:
		return "+"
	default:
		return "-"
	}
}

// filter draws a bar across the boundary between Pos and its neighbor.
func (p painter) filter(f core.Filter) {
	cx, cy := p.center(f.Pos)
	dx, dy := f.Dir.Delta()
	bx, by := cx+float64(dx)*p.cell/2, cy+float64(dy)*p.cell/2
	// The bar runs perpendicular to the crossing direction.
	px, py := float64(dy)*p.cell/3, float64(dx)*p.cell/3

	p.dc.SetColor(render.RGB(f.Color))
	p.dc.SetLineWidth(p.cell / 8)
	p.dc.DrawLine(bx-px, by-py, bx+px, by+py)
	p.dc.Stroke()
}

// edge draws a triangle pointing along d; satisfied outputs are drawn as a diamond.
func (p painter) edge(e core.Edge, d core.Direction, satisfied bool) {
	cx, cy := p.center(e.Pos)
	r := p.cell / 3
	p.dc.SetColor(render.RGB(e.Color))

	if satisfied {
		p.dc.DrawRegularPolygon(4, cx, cy, r, 0)
		p.dc.Fill()
		return
	}

	dx, dy := d.Delta()
	fx, fy := float64(dx), float64(dy)
	p.dc.MoveTo(cx+fx*r, cy+fy*r)
	p.dc.LineTo(cx-fx*r-fy*r, cy-fy*r+fx*r)
	p.dc.LineTo(cx-fx*r+fy*r, cy-fy*r-fx*r)
	p.dc.ClosePath()
	p.dc.Fill()
}

func (p painter) leak(l core.Leak) {
	cx, cy := p.center(l.Pos)
	c := core.ColorNone
	if len(l.Colors) > 0 {
		c = l.Colors[0]
	}
	p.dc.SetColor(render.RGB(c))
	p.dc.DrawRegularPolygon(6, cx, cy, p.cell/4, 0)
	p.dc.Fill()
}
