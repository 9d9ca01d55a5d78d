package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alcatrazEscapee/chromatic-sub000/internal/chromatic/core"
	"github.com/alcatrazEscapee/chromatic-sub000/internal/chromatic/puzzles"
)

var errNoBoard = errors.New("no board: pass --code or --solution, or save a board with 'chromatic play'")

// boardFlags selects which board a headless command works on.
type boardFlags struct {
	code     string
	solution bool
}

func (f *boardFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.code, "code", "", "Share code of the board")
	cmd.Flags().BoolVar(&f.solution, "solution", false, "Use the puzzle's reference solution")
}

// board resolves the flags: a share code first, then the reference
// solution, then the board last saved for the puzzle.
func (f *boardFlags) board(lvl puzzles.Level) (*core.Board, error) {
	code := f.code
	switch {
	case code != "":
	case f.solution:
		if !lvl.HasSolution() {
			return nil, fmt.Errorf("puzzle %d has no reference solution", lvl.ID())
		}
		return lvl.SolutionBoard(), nil
	default:
		store, err := openStore()
		if err != nil {
			return nil, err
		}
		defer store.Close()
		saved, ok, err := store.LoadGrid(lvl.ID())
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, errNoBoard
		}
		code = saved
	}

	save, err := core.ParseCode(code)
	if err != nil {
		return nil, err
	}
	if save.PuzzleID != lvl.ID() {
		return nil, fmt.Errorf("code is for puzzle %d, not %d", save.PuzzleID, lvl.ID())
	}
	board := core.NewBoard(lvl.Puzzle.Width())
	if err := core.RestoreState(save, lvl.Puzzle, board); err != nil {
		return nil, err
	}
	return board, nil
}
