package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alcatrazEscapee/chromatic-sub000/internal/chromatic"
	"github.com/alcatrazEscapee/chromatic-sub000/internal/chromatic/render"
)

var (
	runBoard   boardFlags
	flagMax    int
	flagShow   bool
	flagRecord bool
)

var runCmd = &cobra.Command{
	Use:   "run <id>",
	Short: "Simulate a board without a UI",
	Long: `Run the simulation of a board until it settles, then report the result.
Exits non-zero when the board does not reach victory.

The board is taken from --code, --solution, or the last board saved
for the puzzle.

Examples:
  chromatic run 1 --solution
  chromatic run 3 --code AwQBAgM --show
  chromatic run 5 --max-steps 100`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

func init() {
	runBoard.register(runCmd)
	runCmd.Flags().IntVar(&flagMax, "max-steps", 0, "Step cap (overrides config)")
	runCmd.Flags().BoolVar(&flagShow, "show", false, "Print the final board")
	runCmd.Flags().BoolVar(&flagRecord, "record", false, "Record a victory in the progress database")
}

func runRun(_ *cobra.Command, args []string) error {
	levels, err := loadLevels()
	if err != nil {
		return err
	}
	lvl, err := findLevel(levels, args[0])
	if err != nil {
		return err
	}
	board, err := runBoard.board(lvl)
	if err != nil {
		return err
	}

	opts := chromatic.Options{Sim: cfg.SimOptions(), Logger: logger}
	if flagRecord {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()
		opts.Store = store
	}

	session := chromatic.NewSession(lvl.Puzzle, opts)
	if err := session.LoadBoard(board); err != nil {
		return err
	}

	maxSteps := cfg.Simulation.MaxSteps
	if flagMax > 0 {
		maxSteps = flagMax
	}
	sum, err := session.Run(maxSteps)
	if err != nil {
		return err
	}

	if flagShow {
		fmt.Println(render.ASCII(render.Frame{
			Puzzle: lvl.Puzzle,
			Board:  session.Board(),
			Sim:    session.Simulator(),
		}))
		fmt.Println()
	}

	fmt.Printf("Puzzle #%d %s\n", lvl.ID(), lvl.Name())
	for _, l := range sum.Leaks {
		fmt.Printf("  leak at %s on step %d: %v\n", l.Pos, l.Step, l.Colors)
	}
	if !sum.Victory {
		return fmt.Errorf("no victory after %d steps (%d leaks)", sum.Steps, len(sum.Leaks))
	}
	fmt.Printf("Victory in %d steps with %d leaks\n", sum.Steps, len(sum.Leaks))
	return nil
}
