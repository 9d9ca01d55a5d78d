package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/alcatrazEscapee/chromatic-sub000/internal/chromatic"
	"github.com/alcatrazEscapee/chromatic-sub000/internal/chromatic/puzzles"
	"github.com/alcatrazEscapee/chromatic-sub000/internal/platform/tui"
)

var flagTheme string

var playCmd = &cobra.Command{
	Use:   "play [id]",
	Short: "Play in the terminal",
	Long: `Open the puzzle menu, or a puzzle directly when an id is given.

Controls:
  Arrows/WASD  - Move the cursor
  1-7          - Place straight, curve, cross, mix, unmix, up, down
  R            - Rotate clockwise
  X            - Remove tile
  C / P / Tab  - Brush color / brush pressure / next slot
  Enter        - Paint the selected slot with the brush
  Space        - Run or stop the simulation
  Shift+S      - Load the reference solution
  Y / Ctrl+V   - Copy / paste a share code
  Esc          - Back to menu
  Q/Ctrl+C     - Quit

Examples:
  chromatic play
  chromatic play 3 --speed fast
  chromatic play --theme mono`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagTheme, "theme", "", "Color theme: default, mono")
}

func runPlay(_ *cobra.Command, args []string) error {
	levels, err := loadLevels()
	if err != nil {
		return err
	}

	var start *puzzles.Level
	if len(args) == 1 {
		lvl, err := findLevel(levels, args[0])
		if err != nil {
			return err
		}
		start = &lvl
	}

	store, err := openStore()
	if err != nil {
		logger.Warn("could not open progress database, progress will not be saved", "error", err)
	} else {
		defer store.Close()
	}

	// Get terminal size early for the menu layout
	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	opts := tui.PlayOptions{
		Session: chromatic.Options{
			Sim: cfg.SimOptions(),
			// The TUI owns the terminal, so session logs are discarded.
		},
		TickRate: cfg.UI.TickRate,
		Theme:    tui.ThemeByName(flagTheme),
	}
	return tui.Run(levels, store, opts, width, height, start)
}
