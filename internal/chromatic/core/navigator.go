package core

import "github.com/zyedidia/generic/mapset"

// Listener receives notifications from the navigator and simulator.
type Listener interface {
	// UpdateTile is called after a tile's labels change.
	UpdateTile(pos Coord)
	// OnVictory is called once, when the last output is satisfied.
	OnVictory()
}

// NopListener ignores every notification.
type NopListener struct{}

func (NopListener) UpdateTile(Coord) {}
func (NopListener) OnVictory()       {}

// Navigator keeps the labels of connected pipe networks consistent as the
// board is edited.
type Navigator struct {
	board    *Board
	puzzle   *Puzzle
	listener Listener
}

// NewNavigator creates a navigator over a board. A nil listener is replaced by NopListener.
func NewNavigator(board *Board, puzzle *Puzzle, listener Listener) *Navigator {
	if listener == nil {
		listener = NopListener{}
	}
	return &Navigator{board: board, puzzle: puzzle, listener: listener}
}

// hop is the outcome of moving one cell.
type hop struct {
	pos  Coord
	in   Direction // direction of travel on arrival
	out  Direction // direction of travel on departure
	edge bool      // pos is outside the board
	port bool      // pos is an action tile; the walk ends here
}

// visit identifies a slot for cycle detection.
type visit struct {
	key Key
	pos Coord
}

// UpdateTile initializes the labels of a freshly placed or rotated tile from
// its neighbors and pushes the result back out so the network stays
// consistent. A slot with no labeled neighbor is left at its default.
func (n *Navigator) UpdateTile(pos Coord) {
	t := n.board.At(pos)
	if t == nil {
		return
	}
	for _, key := range t.Keys() {
		*t.Property(key) = DefaultProperty()
	}
	visited := mapset.New[visit]()

	if t.Kind.IsAction() {
		for _, key := range t.Keys() {
			if p, ok := n.peek(pos, t.PortDir(key)); ok {
				*t.Property(key) = p
			}
		}
		n.listener.UpdateTile(pos)
		return
	}

	for _, key := range t.Keys() {
		dirs := t.Connections(key)
		n.resolve(pos, t, key, dirs[0], dirs[1], visited)
	}
	n.listener.UpdateTile(pos)
}

// UpdateFrom pushes a manually edited label outward. The edited slot always wins.
func (n *Navigator) UpdateFrom(pos Coord, key Key) {
	t := n.board.At(pos)
	if t == nil {
		return
	}
	value := *t.Property(key)
	clearColor := value.Color == ColorNone

	visited := mapset.New[visit]()
	visited.Put(visit{key: key, pos: pos})
	n.listener.UpdateTile(pos)

	for _, d := range t.Connections(key) {
		n.propagate(pos, d, value, clearColor, visited)
	}
}

// resolve settles one slot from the two sides it connects to.
func (n *Navigator) resolve(pos Coord, t *Tile, key Key, a, b Direction, visited mapset.Set[visit]) {
	left, lok := n.peek(pos, a)
	right, rok := n.peek(pos, b)

	var value Property
	switch {
	case lok && rok:
		value = Property{
			Color:    Outlandish(left.Color, right.Color),
			Pressure: max(left.Pressure, right.Pressure),
		}
	case lok:
		value = left
	case rok:
		value = right
	default:
		return
	}

	*t.Property(key) = value
	visited.Put(visit{key: key, pos: pos})
	n.listener.UpdateTile(pos)

	if lok && left != value {
		n.propagate(pos, a, value, false, visited)
	}
	if rok && right != value {
		n.propagate(pos, b, value, false, visited)
	}
}

// peek reads the label on the far side of the edge leaving pos in direction d.
// A filter on that edge hides the color.
func (n *Navigator) peek(pos Coord, d Direction) (Property, bool) {
	h, ok := n.traverse(pos, d)
	if !ok {
		return Property{}, false
	}
	p, ok := n.access(h)
	if !ok {
		return Property{}, false
	}
	if _, filtered := n.puzzle.FilterAt(pos, d); filtered {
		p.Color = ColorNone
	}
	return p, true
}

// propagate walks outward from pos writing value into every connected slot
// until the network ends, reaches an action tile, or revisits a slot.
func (n *Navigator) propagate(pos Coord, d Direction, value Property, clearColor bool, visited mapset.Set[visit]) {
	for {
		if _, filtered := n.puzzle.FilterAt(pos, d); filtered {
			value.Color = ColorNone
			clearColor = false
		}

		h, ok := n.traverse(pos, d)
		if !ok || h.edge {
			return
		}
		t := n.board.At(h.pos)
		key, ok := t.EntryKey(h.in)
		if !ok {
			return
		}
		v := visit{key: key, pos: h.pos}
		if visited.Has(v) {
			return
		}
		visited.Put(v)

		p := t.Property(key)
		p.Pressure = value.Pressure
		if value.Color != ColorNone || clearColor {
			p.Color = value.Color
		}
		n.listener.UpdateTile(h.pos)
		clearColor = clearColor && p.Color == ColorNone

		if h.port {
			return
		}
		pos, d = h.pos, h.out
	}
}

// traverse moves one cell from pos in direction d and reports how the pipe
// network continues there.
func (n *Navigator) traverse(pos Coord, d Direction) (hop, bool) {
	to := pos.Step(d)
	if !n.board.InBounds(to) {
		return hop{pos: to, in: d, out: d, edge: true}, true
	}
	t := n.board.At(to)
	if t == nil {
		return hop{}, false
	}
	switch t.Kind {
	case KindStraight:
		if d.Axis() != t.Dir.Axis() {
			return hop{}, false
		}
		return hop{pos: to, in: d, out: d}, true
	case KindCurve:
		out, ok := OutputCurve(t.Dir, d)
		if !ok {
			return hop{}, false
		}
		return hop{pos: to, in: d, out: out}, true
	case KindCross:
		return hop{pos: to, in: d, out: d}, true
	default:
		if t.Excludes(d) {
			return hop{}, false
		}
		return hop{pos: to, in: d, out: d, port: true}, true
	}
}

// access reads the label at the far side of a traversal. At the board edge
// it reports the pressure of a matching puzzle input or output; edges never
// contribute a color.
func (n *Navigator) access(h hop) (Property, bool) {
	if h.edge {
		e, ok := n.puzzle.EdgeAt(h.pos)
		if !ok {
			return Property{}, false
		}
		return Property{Color: ColorNone, Pressure: e.Pressure}, true
	}
	t := n.board.At(h.pos)
	key, ok := t.EntryKey(h.in)
	if !ok {
		return Property{}, false
	}
	return *t.Property(key), true
}
