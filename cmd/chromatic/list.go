package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all puzzles",
	Long:  `Shows every puzzle in the pack, marking solved ones with a check.`,
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func runList(_ *cobra.Command, _ []string) error {
	levels, err := loadLevels()
	if err != nil {
		return err
	}
	if len(levels) == 0 {
		fmt.Println("No puzzles available.")
		return nil
	}

	solved := make(map[int]bool)
	if store, err := openStore(); err != nil {
		logger.Warn("could not open progress database", "error", err)
	} else {
		defer store.Close()
		entries, err := store.Progress()
		if err != nil {
			logger.Warn("could not read progress", "error", err)
		}
		for _, e := range entries {
			solved[e.PuzzleID] = e.Solves > 0
		}
	}

	fmt.Println("Puzzles:")
	fmt.Println()

	// Calculate column widths
	maxNameLen := 4 // "Name" header
	for _, lvl := range levels {
		if len(lvl.Name()) > maxNameLen {
			maxNameLen = len(lvl.Name())
		}
	}

	fmt.Printf("  %-3s  %-*s  %-4s  %s\n", "ID", maxNameLen, "Name", "Size", "Solved")
	fmt.Printf("  %-3s  %-*s  %-4s  %s\n", "--", maxNameLen, "----", "----", "------")

	for _, lvl := range levels {
		mark := ""
		if solved[lvl.ID()] {
			mark = "✓"
		}
		w := lvl.Puzzle.Width()
		fmt.Printf("  %-3d  %-*s  %dx%d   %s\n", lvl.ID(), maxNameLen, lvl.Name(), w, w, mark)
	}

	fmt.Println()
	fmt.Println("Run 'chromatic play <id>' to play a puzzle.")
	return nil
}
