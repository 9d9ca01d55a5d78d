package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/alcatrazEscapee/chromatic-sub000/internal/chromatic/puzzles"
	"github.com/alcatrazEscapee/chromatic-sub000/internal/storage"
)

// MenuItem represents a selectable puzzle in the menu.
type MenuItem struct {
	Level   puzzles.Level
	Solved  bool
	HasSave bool
}

// MenuModel is the Bubble Tea model for the puzzle picker.
type MenuModel struct {
	items        []MenuItem
	cursor       int
	scrollOffset int
	width        int
	height       int
	theme        Theme
	quitting     bool
	selected     *MenuItem // Set when user selects a puzzle
	openProgress bool      // True if user pressed Tab for progress
}

// NewMenuModel creates a new menu model. Solved markers are read from store
// when it is not nil.
func NewMenuModel(levels []puzzles.Level, store *storage.Store, theme Theme, width, height int) MenuModel {
	progress := make(map[int]storage.ProgressEntry)
	if store != nil {
		// Markers are best-effort.
		entries, _ := store.Progress()
		for _, e := range entries {
			progress[e.PuzzleID] = e
		}
	}

	items := make([]MenuItem, 0, len(levels))
	for _, lvl := range levels {
		p := progress[lvl.ID()]
		items = append(items, MenuItem{
			Level:   lvl,
			Solved:  p.Solves > 0,
			HasSave: p.HasSave,
		})
	}

	return MenuModel{
		items:  items,
		width:  width,
		height: height,
		theme:  theme,
	}
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch MapKeyToMenuAction(msg) {
	case MenuActionQuit, MenuActionBack:
		m.quitting = true
		return m, tea.Quit

	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
			m.updateScroll()
		}

	case MenuActionDown:
		if m.cursor < len(m.items)-1 {
			m.cursor++
			m.updateScroll()
		}

	case MenuActionSelect:
		if len(m.items) > 0 {
			selected := m.items[m.cursor]
			m.selected = &selected
		}

	case MenuActionProgress:
		m.openProgress = true
	}

	return m, nil
}

func (m MenuModel) visibleItems() int {
	visible := m.height - 10 // Account for header and footer
	if visible < 3 {
		visible = 3
	}
	return visible
}

// updateScroll adjusts scroll offset to keep cursor visible.
func (m *MenuModel) updateScroll() {
	visible := m.visibleItems()
	if m.cursor < m.scrollOffset {
		m.scrollOffset = m.cursor
	} else if m.cursor >= m.scrollOffset+visible {
		m.scrollOffset = m.cursor - visible + 1
	}
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText(m.theme.MenuTitle.Render("C H R O M A T I C"), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(m.theme.MenuDescription.Render("Select a puzzle"), m.width))
	b.WriteString("\n\n")

	if len(m.items) == 0 {
		b.WriteString(centerText(m.theme.MenuDescription.Render("No puzzles found"), m.width))
		b.WriteString("\n")
	}

	end := min(m.scrollOffset+m.visibleItems(), len(m.items))
	if m.scrollOffset > 0 {
		b.WriteString(centerText(m.theme.MenuDescription.Render("... more above ..."), m.width))
		b.WriteString("\n")
	}
	for i := m.scrollOffset; i < end; i++ {
		item := m.items[i]
		cursor := "  "
		style := m.theme.MenuItemNormal
		if item.Solved {
			style = m.theme.MenuItemSolved
		}
		if i == m.cursor {
			cursor = "> "
			style = m.theme.MenuItemActive
		}

		mark := " "
		switch {
		case item.Solved:
			mark = "✓"
		case item.HasSave:
			mark = "…"
		}
		size := item.Level.Puzzle.Width()
		line := fmt.Sprintf("%s%2d. %-22s %dx%d %s", cursor, item.Level.ID(), item.Level.Name(), size, size, mark)
		b.WriteString(centerText(style.Render(line), m.width))
		b.WriteString("\n")
	}
	if end < len(m.items) {
		b.WriteString(centerText(m.theme.MenuDescription.Render("... more below ..."), m.width))
		b.WriteString("\n")
	}

	// Footer with controls
	b.WriteString("\n")
	controls := m.theme.HUDControls.Render("Up/Down: Navigate  |  Enter: Play  |  Tab: Progress  |  Q: Quit")
	b.WriteString(centerText(controls, m.width))
	b.WriteString("\n")

	return b.String()
}

// Selected returns the selected menu item, or nil if none selected.
func (m MenuModel) Selected() *MenuItem {
	return m.selected
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsProgress returns true if user requested the progress table.
func (m MenuModel) WantsProgress() bool {
	return m.openProgress
}

// centerText centers text within given width.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	padding := (width - w) / 2
	return strings.Repeat(" ", padding) + text
}
