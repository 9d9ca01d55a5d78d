package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alcatrazEscapee/chromatic-sub000/internal/platform/tui"
)

var (
	flagClear int
	flagBest  int
)

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Show solve records",
	Long: `Display solves and saved boards for every puzzle.

Examples:
  chromatic progress
  chromatic progress --best 3     # Fastest solves of puzzle 3
  chromatic progress --clear 3    # Forget puzzle 3`,
	Args: cobra.NoArgs,
	RunE: runProgress,
}

func init() {
	progressCmd.Flags().IntVar(&flagClear, "clear", 0, "Delete the save and solves of a puzzle")
	progressCmd.Flags().IntVar(&flagBest, "best", 0, "List the fastest solves of a puzzle")
}

func runProgress(_ *cobra.Command, _ []string) error {
	store, err := openStore()
	if err != nil {
		return fmt.Errorf("cannot open progress database: %w", err)
	}
	defer store.Close()

	if flagClear > 0 {
		if err := store.ClearProgress(flagClear); err != nil {
			return err
		}
		fmt.Printf("Cleared progress of puzzle %d\n", flagClear)
		return nil
	}

	if flagBest > 0 {
		solves, err := store.BestSolves(flagBest, 10)
		if err != nil {
			return err
		}
		if len(solves) == 0 {
			fmt.Printf("No solves recorded for puzzle %d.\n", flagBest)
			return nil
		}
		fmt.Printf("  %-4s  %-5s  %-5s  %s\n", "Rank", "Steps", "Leaks", "Date")
		fmt.Printf("  %-4s  %-5s  %-5s  %s\n", "----", "-----", "-----", "----")
		for i, s := range solves {
			fmt.Printf("  %-4d  %-5d  %-5d  %s\n", i+1, s.Steps, s.Leaks, s.CreatedAt.Format("2006-01-02 15:04"))
		}
		return nil
	}

	levels, err := loadLevels()
	if err != nil {
		return err
	}
	entries, err := store.Progress()
	if err != nil {
		return err
	}

	fmt.Println("Progress")
	fmt.Println()
	fmt.Printf("  %-3s  %-22s  %-6s  %-4s  %-16s  %s\n", "ID", "Puzzle", "Solves", "Best", "First solved", "Saved")
	fmt.Printf("  %-3s  %-22s  %-6s  %-4s  %-16s  %s\n", "--", "------", "------", "----", "------------", "-----")
	for _, row := range tui.ProgressRows(levels, entries) {
		fmt.Printf("  %-3s  %-22s  %-6s  %-4s  %-16s  %s\n", row[0], row[1], row[2], row[3], row[4], row[5])
	}
	return nil
}
