package render

import (
	"fmt"
	"image/color"

	"github.com/alcatrazEscapee/chromatic-sub000/internal/chromatic/core"
)

// palette is indexed by core.Color; index 0 is the unlabeled gray.
var palette = [...]color.RGBA{
	core.ColorNone:  {0x8a, 0x8a, 0x8a, 0xff},
	core.Red:        {0xe5, 0x39, 0x35, 0xff},
	core.Yellow:     {0xfd, 0xd8, 0x35, 0xff},
	core.Blue:       {0x1e, 0x88, 0xe5, 0xff},
	core.Orange:     {0xfb, 0x8c, 0x00, 0xff},
	core.Green:      {0x43, 0xa0, 0x47, 0xff},
	core.Purple:     {0x8e, 0x24, 0xaa, 0xff},
	core.Vermilion:  {0xf4, 0x51, 0x1e, 0xff},
	core.Amber:      {0xff, 0xb3, 0x00, 0xff},
	core.Chartreuse: {0xa0, 0xd9, 0x1a, 0xff},
	core.Teal:       {0x00, 0x89, 0x7b, 0xff},
	core.Violet:     {0x5e, 0x35, 0xb1, 0xff},
	core.Magenta:    {0xd8, 0x1b, 0x60, 0xff},
	core.Brown:      {0x6d, 0x4c, 0x41, 0xff},
}

// RGB returns the display color of c. Unknown colors map to the unlabeled gray.
func RGB(c core.Color) color.RGBA {
	if int(c) < len(palette) {
		return palette[c]
	}
	return palette[core.ColorNone]
}

// Hex returns the display color of c as "#rrggbb".
func Hex(c core.Color) string {
	rgb := RGB(c)
	return fmt.Sprintf("#%02x%02x%02x", rgb.R, rgb.G, rgb.B)
}
