package core

import (
	"fmt"
	"strings"
)

// Color is a flow or label color. The zero value ColorNone means "no color".
// Declaration order is the authoritative ordinal order used when resolving
// label conflicts, so new colors must only ever be appended.
type Color uint8

const (
	ColorNone Color = iota
	Red
	Yellow
	Blue
	Orange
	Green
	Purple
	Vermilion
	Amber
	Chartreuse
	Teal
	Violet
	Magenta
	Brown
	colorCount // Sentinel value for iteration
)

var colorNames = [colorCount]string{
	"none", "red", "yellow", "blue", "orange", "green", "purple",
	"vermilion", "amber", "chartreuse", "teal", "violet", "magenta", "brown",
}

// String returns the string representation of a color.
func (c Color) String() string {
	if c < colorCount {
		return colorNames[c]
	}
	return "unknown"
}

// Valid reports whether c is a named color (not ColorNone).
func (c Color) Valid() bool {
	return c > ColorNone && c < colorCount
}

// Ordinal returns the zero-based position of a named color, or -1 for ColorNone.
func (c Color) Ordinal() int {
	return int(c) - 1
}

// ParseColor converts a name to a Color. "none" and the empty string parse to ColorNone.
func ParseColor(s string) (Color, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "" {
		return ColorNone, nil
	}
	for i, n := range colorNames {
		if n == name {
			return Color(i), nil
		}
	}
	return ColorNone, fmt.Errorf("color %q: %w", s, ErrUnknownName)
}

// AllColors returns all named colors in ordinal order.
func AllColors() []Color {
	colors := make([]Color, 0, colorCount-1)
	for c := Red; c < colorCount; c++ {
		colors = append(colors, c)
	}
	return colors
}

// Mix is a registered mix: Left and Right combine to Result.
type Mix struct {
	Left   Color
	Right  Color
	Result Color
}

// mixes is the closed mix table. Each (result, constituent) pair identifies
// exactly one other constituent, which keeps Unmix well defined.
var mixes = []Mix{
	{Red, Yellow, Orange},
	{Yellow, Blue, Green},
	{Blue, Red, Purple},
	{Red, Orange, Vermilion},
	{Yellow, Orange, Amber},
	{Yellow, Green, Chartreuse},
	{Blue, Green, Teal},
	{Blue, Purple, Violet},
	{Red, Purple, Magenta},
	{Red, Green, Brown},
	{Yellow, Purple, Brown},
	{Blue, Orange, Brown},
}

// Mixes returns a copy of the mix table.
func Mixes() []Mix {
	out := make([]Mix, len(mixes))
	copy(out, mixes)
	return out
}

// MixColors returns the mix of a and b. The operation is commutative.
func MixColors(a, b Color) (Color, bool) {
	for _, m := range mixes {
		if (m.Left == a && m.Right == b) || (m.Left == b && m.Right == a) {
			return m.Result, true
		}
	}
	return ColorNone, false
}

// UnmixColor returns the color that mixes with part to produce mixed.
func UnmixColor(mixed, part Color) (Color, bool) {
	for _, m := range mixes {
		if m.Result != mixed {
			continue
		}
		if m.Left == part {
			return m.Right, true
		}
		if m.Right == part {
			return m.Left, true
		}
	}
	return ColorNone, false
}

// Outlandish picks the winning color of a label conflict: any color beats
// ColorNone, otherwise the higher ordinal wins.
func Outlandish(a, b Color) Color {
	if a > b {
		return a
	}
	return b
}
