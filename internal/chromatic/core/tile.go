package core

import (
	"fmt"
	"strings"
)

// MaxPressure is the largest legal flow pressure.
const MaxPressure = 4

// TileKind identifies the shape of a placed tile. Values are part of the save format.
type TileKind uint8

const (
	KindEmpty TileKind = iota
	KindStraight
	KindCurve
	KindCross
	KindMix
	KindUnmix
	KindUp
	KindDown
	kindCount
)

var kindNames = [kindCount]string{"empty", "straight", "curve", "cross", "mix", "unmix", "up", "down"}

// String returns the string representation of a tile kind.
func (k TileKind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return "unknown"
}

// Valid reports whether k names a placeable tile.
func (k TileKind) Valid() bool {
	return k > KindEmpty && k < kindCount
}

// IsAction reports whether k combines or splits flows.
func (k TileKind) IsAction() bool {
	return k >= KindMix && k < kindCount
}

// IsAdditive reports whether k combines two inputs into one output.
func (k TileKind) IsAdditive() bool {
	return k == KindMix || k == KindUp
}

// ParseKind converts a name to a TileKind.
func ParseKind(s string) (TileKind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range kindNames {
		if n == name && TileKind(i) != KindEmpty {
			return TileKind(i), nil
		}
	}
	return KindEmpty, fmt.Errorf("tile kind %q: %w", s, ErrUnknownName)
}

// Key addresses a property or flow slot. Which keys exist depends on the kind:
// straight and curve tiles have KeyInternal, cross tiles have one key per axis,
// and action tiles have one key per usable port, all in the un-rotated frame.
type Key uint8

const (
	KeyInternal Key = iota
	KeyHorizontal
	KeyVertical
	KeyLeft
	KeyUp
	KeyRight
)

// String returns the string representation of a key.
func (k Key) String() string {
	switch k {
	case KeyInternal:
		return "internal"
	case KeyHorizontal:
		return "horizontal"
	case KeyVertical:
		return "vertical"
	case KeyLeft:
		return "left"
	case KeyUp:
		return "up"
	case KeyRight:
		return "right"
	default:
		return "unknown"
	}
}

// ParseKey converts a name to a Key.
func ParseKey(s string) (Key, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for k := KeyInternal; k <= KeyRight; k++ {
		if k.String() == name {
			return k, nil
		}
	}
	return KeyInternal, fmt.Errorf("key %q: %w", s, ErrUnknownName)
}

// AxisKey returns the cross tile key for an un-rotated axis.
func AxisKey(a Axis) Key {
	if a == Horizontal {
		return KeyHorizontal
	}
	return KeyVertical
}

// PortKeyOf returns the action tile key for an un-rotated port direction.
// Down is the excluded port and has no key.
func PortKeyOf(d Direction) (Key, bool) {
	switch d {
	case Left:
		return KeyLeft, true
	case Up:
		return KeyUp, true
	case Right:
		return KeyRight, true
	default:
		return KeyInternal, false
	}
}

// Port returns the un-rotated port direction of an action tile key.
func (k Key) Port() Direction {
	switch k {
	case KeyUp:
		return Up
	case KeyRight:
		return Right
	default:
		return Left
	}
}

// Property is a label a flow must match to enter a slot.
type Property struct {
	Color    Color
	Pressure int
}

// DefaultProperty returns the label of a fresh slot.
func DefaultProperty() Property {
	return Property{Color: ColorNone, Pressure: 1}
}

// Valid reports whether the pressure is in 1-MaxPressure and the color is
// ColorNone or a named color.
func (p Property) Valid() bool {
	return p.Pressure >= 1 && p.Pressure <= MaxPressure && (p.Color == ColorNone || p.Color.Valid())
}

// String returns a compact representation such as "red/2".
func (p Property) String() string {
	return fmt.Sprintf("%s/%d", p.Color, p.Pressure)
}

// FlowKind describes how a flow passes through its slot.
type FlowKind uint8

const (
	FlowStraight FlowKind = iota
	FlowCurve
	FlowCrossUnder
	FlowActionIn
	FlowActionOut
)

// Flow occupies a slot of a tile for the rest of a simulation run.
type Flow struct {
	Kind     FlowKind
	Color    Color
	Pressure int
	From     Direction // direction of travel when entering
	To       Direction // direction of travel when leaving
	Step     int       // simulation step the flow entered on
}

// Tile is a placed, rotatable pipe segment.
type Tile struct {
	Kind TileKind
	Dir  Direction

	props [3]Property
	flows [3]*Flow
}

// NewTile creates a tile with default labels. Panics on KindEmpty or unknown kinds.
func NewTile(kind TileKind, dir Direction) *Tile {
	if !kind.Valid() {
		panic(fmt.Sprintf("core: cannot create tile of kind %s", kind))
	}
	t := &Tile{Kind: kind, Dir: dir % 4}
	for i := range t.props {
		t.props[i] = DefaultProperty()
	}
	return t
}

// Keys returns the slot keys of this tile in save order.
func (t *Tile) Keys() []Key {
	switch {
	case t.Kind == KindCross:
		return []Key{KeyHorizontal, KeyVertical}
	case t.Kind.IsAction():
		return []Key{KeyLeft, KeyUp, KeyRight}
	default:
		return []Key{KeyInternal}
	}
}

// HasKey reports whether key addresses a slot of this tile.
func (t *Tile) HasKey(key Key) bool {
	_, ok := t.slotOf(key)
	return ok
}

func (t *Tile) slotOf(key Key) (int, bool) {
	switch t.Kind {
	case KindStraight, KindCurve:
		if key == KeyInternal {
			return 0, true
		}
	case KindCross:
		switch key {
		case KeyHorizontal:
			return 0, true
		case KeyVertical:
			return 1, true
		}
	case KindMix, KindUnmix, KindUp, KindDown:
		switch key {
		case KeyLeft:
			return 0, true
		case KeyUp:
			return 1, true
		case KeyRight:
			return 2, true
		}
	}
	return 0, false
}

func (t *Tile) slot(key Key) int {
	i, ok := t.slotOf(key)
	if !ok {
		panic(fmt.Sprintf("core: key %s is not valid for a %s tile", key, t.Kind))
	}
	return i
}

// Property returns a mutable reference to the label in the given slot.
func (t *Tile) Property(key Key) *Property {
	return &t.props[t.slot(key)]
}

// Rotate turns the tile a quarter turn clockwise. Labels are frame-relative
// and keep their values.
func (t *Tile) Rotate() {
	t.Dir = t.Dir.CW()
}

// AddFlow occupies a slot with a flow.
func (t *Tile) AddFlow(key Key, f *Flow) error {
	i := t.slot(key)
	if t.flows[i] != nil {
		return &DuplicateFlowError{Key: key}
	}
	t.flows[i] = f
	return nil
}

// HasFlow reports whether a slot is occupied.
func (t *Tile) HasFlow(key Key) bool {
	return t.flows[t.slot(key)] != nil
}

// Flow returns the flow in a slot, or nil.
func (t *Tile) Flow(key Key) *Flow {
	return t.flows[t.slot(key)]
}

// TotalFlows returns the number of occupied slots.
func (t *Tile) TotalFlows() int {
	n := 0
	for _, f := range t.flows {
		if f != nil {
			n++
		}
	}
	return n
}

// ClearFlows releases every slot.
func (t *Tile) ClearFlows() {
	t.flows = [3]*Flow{}
}

// CanAccept reports whether a flow of the given color and pressure may enter a slot.
func (t *Tile) CanAccept(key Key, color Color, pressure int) bool {
	p := t.props[t.slot(key)]
	return p.Pressure == pressure && (p.Color == ColorNone || p.Color == color)
}

// PortKey maps a world-facing port of an action tile to its un-rotated key.
// Returns false for the excluded port.
func (t *Tile) PortKey(world Direction) (Key, bool) {
	return PortKeyOf(world.Unrotate(t.Dir))
}

// PortDir returns the world-facing direction of an action tile port key.
func (t *Tile) PortDir(key Key) Direction {
	return key.Port().Rotate(t.Dir)
}

// Excludes reports whether a flow travelling in dir would enter an action
// tile through its excluded port.
func (t *Tile) Excludes(dir Direction) bool {
	return dir == t.Dir.CW()
}

// Clone returns a copy of the tile's kind, rotation and labels. Flows are not copied.
func (t *Tile) Clone() *Tile {
	return &Tile{Kind: t.Kind, Dir: t.Dir, props: t.props}
}

// SameLayout reports whether two tiles agree on kind, rotation and every label.
func (t *Tile) SameLayout(o *Tile) bool {
	if t == nil || o == nil {
		return t == o
	}
	if t.Kind != o.Kind || t.Dir != o.Dir {
		return false
	}
	for _, k := range t.Keys() {
		if *t.Property(k) != *o.Property(k) {
			return false
		}
	}
	return true
}

// OutputCurve returns the direction a flow leaves a curve facing tileDir when
// it arrives travelling in dir. The curve joins its tileDir and cw(tileDir) ports.
func OutputCurve(tileDir, dir Direction) (Direction, bool) {
	switch dir.Flip() {
	case tileDir:
		return tileDir.CW(), true
	case tileDir.CW():
		return tileDir, true
	default:
		return dir, false
	}
}

// EntryKey returns the slot a flow travelling in dir occupies when it enters
// the tile, and false if the tile does not connect on that side.
func (t *Tile) EntryKey(dir Direction) (Key, bool) {
	switch t.Kind {
	case KindStraight:
		return KeyInternal, dir.Axis() == t.Dir.Axis()
	case KindCurve:
		_, ok := OutputCurve(t.Dir, dir)
		return KeyInternal, ok
	case KindCross:
		if dir.Axis() == t.Dir.Axis() {
			return KeyHorizontal, true
		}
		return KeyVertical, true
	case KindMix, KindUnmix, KindUp, KindDown:
		return t.PortKey(dir.Flip())
	default:
		return KeyInternal, false
	}
}

// Connections returns the directions, as directions of travel away from the
// tile, through which the slot addressed by key reaches its neighbors.
func (t *Tile) Connections(key Key) []Direction {
	switch t.Kind {
	case KindStraight:
		return []Direction{t.Dir, t.Dir.Flip()}
	case KindCurve:
		return []Direction{t.Dir, t.Dir.CW()}
	case KindCross:
		if key == KeyHorizontal {
			return []Direction{t.Dir, t.Dir.Flip()}
		}
		return []Direction{t.Dir.CW(), t.Dir.CCW()}
	default:
		return []Direction{t.PortDir(key)}
	}
}
