// Package core provides the puzzle engine for Chromatic: tiles, the label
// navigator, and the flow simulator.
// This package is UI-agnostic and deterministic.
package core

import (
	"fmt"
	"strings"
)

// Direction is one of the four grid directions. Ordinals are cyclic so that
// rotation is modular arithmetic.
type Direction uint8

const (
	Left Direction = iota
	Up
	Right
	Down
)

// AllDirections returns the directions in ordinal order.
func AllDirections() []Direction {
	return []Direction{Left, Up, Right, Down}
}

// String returns the string representation of a direction.
func (d Direction) String() string {
	switch d {
	case Left:
		return "left"
	case Up:
		return "up"
	case Right:
		return "right"
	case Down:
		return "down"
	default:
		return "unknown"
	}
}

// CW returns the direction rotated a quarter turn clockwise.
func (d Direction) CW() Direction {
	return (d + 1) % 4
}

// CCW returns the direction rotated a quarter turn counter-clockwise.
func (d Direction) CCW() Direction {
	return (d + 3) % 4
}

// Flip returns the opposite direction.
func (d Direction) Flip() Direction {
	return (d + 2) % 4
}

// Rotate rotates d by r, treating Left as the identity rotation.
func (d Direction) Rotate(r Direction) Direction {
	return (d + r) % 4
}

// Unrotate is the inverse of Rotate.
func (d Direction) Unrotate(r Direction) Direction {
	return (d + 4 - r%4) % 4
}

// Axis returns the axis the direction lies on.
func (d Direction) Axis() Axis {
	return Axis(d % 2)
}

// Delta returns the (dx, dy) offset for moving one step in this direction.
// Up decreases Y, Down increases Y (screen coordinates).
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case Left:
		return -1, 0
	case Up:
		return 0, -1
	case Right:
		return 1, 0
	case Down:
		return 0, 1
	default:
		return 0, 0
	}
}

// ParseDirection converts a name to a Direction.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(s) {
	case "left", "l":
		return Left, nil
	case "up", "u":
		return Up, nil
	case "right", "r":
		return Right, nil
	case "down", "d":
		return Down, nil
	default:
		return Left, fmt.Errorf("direction %q: %w", s, ErrUnknownName)
	}
}

// Axis is either Horizontal or Vertical.
type Axis uint8

const (
	Horizontal Axis = iota
	Vertical
)

// String returns the string representation of an axis.
func (a Axis) String() string {
	if a == Horizontal {
		return "horizontal"
	}
	return "vertical"
}

// Coord represents a 2D coordinate on the grid.
// X increases to the right, Y increases downward (screen coordinates).
type Coord struct {
	X int
	Y int
}

// C is a convenience constructor for Coord.
func C(x, y int) Coord {
	return Coord{X: x, Y: y}
}

// String returns a string representation of the coordinate.
func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Step returns a new Coord one step in the given direction.
func (c Coord) Step(d Direction) Coord {
	dx, dy := d.Delta()
	return Coord{X: c.X + dx, Y: c.Y + dy}
}
