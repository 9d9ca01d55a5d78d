package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/alcatrazEscapee/chromatic-sub000/internal/chromatic/core"
)

// PlayKeyMap defines the key bindings for the puzzle screen.
type PlayKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	Place    key.Binding
	Rotate   key.Binding
	Remove   key.Binding
	Color    key.Binding
	Pressure key.Binding
	Slot     key.Binding
	Paint    key.Binding
	Run      key.Binding
	Solution key.Binding
	Copy     key.Binding
	Paste    key.Binding
	Help     key.Binding
	Back     key.Binding
	Quit     key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k PlayKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Place, k.Rotate, k.Paint, k.Run, k.Help, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k PlayKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.Place, k.Rotate, k.Remove},
		{k.Color, k.Pressure, k.Slot, k.Paint},
		{k.Run, k.Solution, k.Copy, k.Paste},
		{k.Help, k.Back, k.Quit},
	}
}

// DefaultPlayKeyMap returns default key bindings.
func DefaultPlayKeyMap() PlayKeyMap {
	return PlayKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "w"),
			key.WithHelp("↑/w", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "s"),
			key.WithHelp("↓/s", "down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "a"),
			key.WithHelp("←/a", "left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "d"),
			key.WithHelp("→/d", "right"),
		),
		Place: key.NewBinding(
			key.WithKeys("1", "2", "3", "4", "5", "6", "7"),
			key.WithHelp("1-7", "place tile"),
		),
		Rotate: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "rotate"),
		),
		Remove: key.NewBinding(
			key.WithKeys("x", "backspace", "delete"),
			key.WithHelp("x", "remove"),
		),
		Color: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "brush color"),
		),
		Pressure: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "brush pressure"),
		),
		Slot: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next slot"),
		),
		Paint: key.NewBinding(
			key.WithKeys("enter", "l"),
			key.WithHelp("enter", "paint label"),
		),
		Run: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "run/stop"),
		),
		Solution: key.NewBinding(
			key.WithKeys("S"),
			key.WithHelp("S", "show solution"),
		),
		Copy: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy code"),
		),
		Paste: key.NewBinding(
			key.WithKeys("ctrl+v"),
			key.WithHelp("ctrl+v", "paste code"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// placeKinds maps the number keys to tile kinds.
var placeKinds = map[string]core.TileKind{
	"1": core.KindStraight,
	"2": core.KindCurve,
	"3": core.KindCross,
	"4": core.KindMix,
	"5": core.KindUnmix,
	"6": core.KindUp,
	"7": core.KindDown,
}

// MenuAction represents a menu-specific action derived from input.
type MenuAction int

const (
	MenuActionNone MenuAction = iota
	MenuActionUp
	MenuActionDown
	MenuActionSelect
	MenuActionProgress
	MenuActionBack
	MenuActionQuit
)

// MapKeyToMenuAction translates a key to a menu action.
func MapKeyToMenuAction(msg tea.KeyMsg) MenuAction {
	switch msg.String() {
	case "ctrl+c", "q":
		return MenuActionQuit
	case "w", "up", "k": // vim-style k for up
		return MenuActionUp
	case "s", "down", "j": // vim-style j for down
		return MenuActionDown
	case "enter", " ":
		return MenuActionSelect
	case "tab":
		return MenuActionProgress
	case "b", "esc":
		return MenuActionBack
	}

	return MenuActionNone
}
