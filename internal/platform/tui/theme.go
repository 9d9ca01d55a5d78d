package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/alcatrazEscapee/chromatic-sub000/internal/chromatic/core"
	"github.com/alcatrazEscapee/chromatic-sub000/internal/chromatic/render"
)

// Theme contains all configurable visual styles for the puzzle screens.
type Theme struct {
	// Board
	Colors map[core.Color]lipgloss.Style
	Cursor lipgloss.Style

	// HUD styles
	HUDTitle    lipgloss.Style
	HUDValue    lipgloss.Style
	HUDLabel    lipgloss.Style
	HUDSolved   lipgloss.Style
	HUDError    lipgloss.Style
	HUDControls lipgloss.Style

	// Puzzle picker styles
	MenuTitle       lipgloss.Style
	MenuItemNormal  lipgloss.Style
	MenuItemActive  lipgloss.Style
	MenuItemSolved  lipgloss.Style
	MenuDescription lipgloss.Style
}

// DefaultTheme returns the default visual theme. Flow colors come from the
// shared palette so the terminal matches exported images.
func DefaultTheme() Theme {
	colors := make(map[core.Color]lipgloss.Style)
	colors[core.ColorNone] = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	for _, c := range core.AllColors() {
		colors[c] = lipgloss.NewStyle().Foreground(lipgloss.Color(render.Hex(c))).Bold(true)
	}

	return Theme{
		Colors: colors,
		Cursor: lipgloss.NewStyle().Background(lipgloss.Color("237")),

		HUDTitle:    lipgloss.NewStyle().Foreground(lipgloss.Color("51")).Bold(true),
		HUDValue:    lipgloss.NewStyle().Foreground(lipgloss.Color("255")),
		HUDLabel:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		HUDSolved:   lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Bold(true),
		HUDError:    lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
		HUDControls: lipgloss.NewStyle().Foreground(lipgloss.Color("241")),

		MenuTitle:       lipgloss.NewStyle().Foreground(lipgloss.Color("51")).Bold(true),
		MenuItemNormal:  lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		MenuItemActive:  lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true),
		MenuItemSolved:  lipgloss.NewStyle().Foreground(lipgloss.Color("46")),
		MenuDescription: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	}
}

// MonochromeTheme returns a grayscale theme where flows are told apart by weight only.
func MonochromeTheme() Theme {
	theme := DefaultTheme()
	for c := range theme.Colors {
		theme.Colors[c] = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Bold(c != core.ColorNone)
	}
	return theme
}

// ThemeByName returns a named theme, falling back to the default.
func ThemeByName(name string) Theme {
	if name == "mono" || name == "monochrome" {
		return MonochromeTheme()
	}
	return DefaultTheme()
}

// ColorStyle returns the style for a flow color.
func (t Theme) ColorStyle(c core.Color) lipgloss.Style {
	if style, ok := t.Colors[c]; ok {
		return style
	}
	return t.Colors[core.ColorNone]
}
