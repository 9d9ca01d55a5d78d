// Package chromatic hosts a single puzzle: the board being edited, the
// navigator that keeps its labels consistent, and the simulator that runs it.
package chromatic

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/alcatrazEscapee/chromatic-sub000/internal/chromatic/core"
)

var (
	// ErrRunning is returned when the board is edited during a simulation.
	ErrRunning = errors.New("simulation is running")

	// ErrNoTile is returned when an edit targets an empty cell.
	ErrNoTile = errors.New("no tile at position")

	// ErrOutOfBounds is returned when an edit targets a cell outside the grid.
	ErrOutOfBounds = errors.New("position outside the grid")
)

// SaveStore persists boards and solves. *storage.Store satisfies it.
type SaveStore interface {
	SaveGrid(puzzleID int, code string) error
	LoadGrid(puzzleID int) (string, bool, error)
	RecordSolve(puzzleID, steps, leaks int) error
}

// Options configures a Session.
type Options struct {
	Sim    core.Options
	Store  SaveStore
	Logger *log.Logger
}

// Session owns the board and engine for one puzzle and implements
// core.Listener for them. It is not safe for concurrent use.
type Session struct {
	puzzle *core.Puzzle
	board  *core.Board
	nav    *core.Navigator
	sim    *core.Simulator
	store  SaveStore
	logger *log.Logger

	solved  bool
	changed map[core.Coord]bool
}

// NewSession creates a session with an empty board.
func NewSession(puzzle *core.Puzzle, opts Options) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	s := &Session{
		puzzle:  puzzle,
		board:   core.NewBoard(puzzle.Width()),
		store:   opts.Store,
		logger:  logger.With("puzzle", puzzle.ID),
		changed: make(map[core.Coord]bool),
	}
	s.nav = core.NewNavigator(s.board, puzzle, s)
	s.sim = core.NewSimulator(s.board, puzzle, s, opts.Sim)
	return s
}

// Puzzle returns the puzzle being played.
func (s *Session) Puzzle() *core.Puzzle {
	return s.puzzle
}

// Board returns the board. Callers must not edit it directly.
func (s *Session) Board() *core.Board {
	return s.board
}

// Simulator returns the session's simulator.
func (s *Session) Simulator() *core.Simulator {
	return s.sim
}

// UpdateTile implements core.Listener.
func (s *Session) UpdateTile(pos core.Coord) {
	s.changed[pos] = true
}

// OnVictory implements core.Listener.
func (s *Session) OnVictory() {
	s.solved = true
	steps, leaks := s.sim.StepCount(), len(s.sim.Leaks())
	s.logger.Info("puzzle solved", "steps", steps, "leaks", leaks)

	if s.store != nil {
		if err := s.store.RecordSolve(s.puzzle.ID, steps, leaks); err != nil {
			s.logger.Warn("could not record solve", "error", err)
		}
	}
}

// Changed returns and forgets the cells whose labels changed since the last call.
func (s *Session) Changed() []core.Coord {
	out := make([]core.Coord, 0, len(s.changed))
	w := s.board.Width()
	for i := 0; i < w*w; i++ {
		if c := s.board.CoordOf(i); s.changed[c] {
			out = append(out, c)
		}
	}
	clear(s.changed)
	return out
}

func (s *Session) editable(pos core.Coord) error {
	if s.sim.Running() {
		return ErrRunning
	}
	if !s.board.InBounds(pos) {
		return fmt.Errorf("%w: %s", ErrOutOfBounds, pos)
	}
	return nil
}

// Place puts a new tile at pos, replacing any tile there, and initializes
// its labels from its neighbors.
func (s *Session) Place(pos core.Coord, kind core.TileKind) error {
	if err := s.editable(pos); err != nil {
		return err
	}
	if !kind.Valid() {
		return &core.UnknownKindError{Kind: kind}
	}

	s.board.Set(pos, core.NewTile(kind, core.Left))
	s.nav.UpdateTile(pos)
	s.logger.Debug("tile placed", "pos", pos, "kind", kind)
	s.autosave()
	return nil
}

// Rotate turns the tile at pos clockwise and re-reads its neighbors.
func (s *Session) Rotate(pos core.Coord) error {
	if err := s.editable(pos); err != nil {
		return err
	}
	t := s.board.At(pos)
	if t == nil {
		return fmt.Errorf("%w: %s", ErrNoTile, pos)
	}

	t.Rotate()
	s.nav.UpdateTile(pos)
	s.logger.Debug("tile rotated", "pos", pos, "dir", t.Dir)
	s.autosave()
	return nil
}

// Remove clears the tile at pos.
func (s *Session) Remove(pos core.Coord) error {
	if err := s.editable(pos); err != nil {
		return err
	}
	if s.board.At(pos) == nil {
		return fmt.Errorf("%w: %s", ErrNoTile, pos)
	}

	s.board.Remove(pos)
	s.changed[pos] = true
	s.logger.Debug("tile removed", "pos", pos)
	s.autosave()
	return nil
}

// SetLabel edits one property slot and pushes it through the connected network.
func (s *Session) SetLabel(pos core.Coord, key core.Key, color core.Color, pressure int) error {
	if err := s.editable(pos); err != nil {
		return err
	}
	t := s.board.At(pos)
	if t == nil {
		return fmt.Errorf("%w: %s", ErrNoTile, pos)
	}
	if !t.HasKey(key) {
		return fmt.Errorf("key %s is not valid for a %s tile", key, t.Kind)
	}
	if pressure < 1 || pressure > core.MaxPressure {
		return fmt.Errorf("pressure %d outside 1-%d", pressure, core.MaxPressure)
	}
	if color != core.ColorNone && !color.Valid() {
		return fmt.Errorf("color %d: %w", color, core.ErrUnknownName)
	}

	*t.Property(key) = core.Property{Color: color, Pressure: pressure}
	s.nav.UpdateFrom(pos, key)
	s.logger.Debug("label set", "pos", pos, "key", key, "color", color, "pressure", pressure)
	s.autosave()
	return nil
}

// Start begins a simulation run from the inputs.
func (s *Session) Start() {
	s.sim.Init()
	s.logger.Debug("simulation started")
}

// Stop ends the simulation run and clears all flows.
func (s *Session) Stop() {
	s.sim.Reset()
}

// Running reports whether a simulation run is active.
func (s *Session) Running() bool {
	return s.sim.Running()
}

// Solved reports whether this session has reached victory at least once.
func (s *Session) Solved() bool {
	return s.solved
}

// Tick advances the simulation by elapsed wall time.
func (s *Session) Tick(elapsed time.Duration) ([]core.StepResult, error) {
	results, err := s.sim.Tick(elapsed)
	for _, res := range results {
		for _, l := range res.Leaks {
			s.logger.Debug("leak", "step", l.Step, "pos", l.Pos, "colors", l.Colors)
		}
	}
	if err != nil {
		s.logger.Error("simulation defect", "error", err)
	}
	return results, err
}

// Run starts a fresh simulation and steps it until it settles.
func (s *Session) Run(maxSteps int) (core.Summary, error) {
	s.sim.Init()
	sum, err := s.sim.RunToCompletion(maxSteps)
	if err != nil {
		s.logger.Error("simulation defect", "error", err)
	}
	return sum, err
}

// SaveCode returns the share code of the board, or false when it is empty.
func (s *Session) SaveCode() (string, bool) {
	save, ok := core.SaveState(s.puzzle, s.board)
	if !ok {
		return "", false
	}
	return save.Code(), true
}

// LoadCode replaces the board with a share code. A code for another puzzle
// is ignored.
func (s *Session) LoadCode(code string) error {
	if s.sim.Running() {
		return ErrRunning
	}
	save, err := core.ParseCode(code)
	if err != nil {
		return err
	}
	if save.PuzzleID != s.puzzle.ID {
		s.logger.Debug("ignoring save for another puzzle", "save", save.PuzzleID)
		return nil
	}
	if err := core.RestoreState(save, s.puzzle, s.board); err != nil {
		return err
	}
	s.board.Each(func(c core.Coord, _ *core.Tile) {
		s.changed[c] = true
	})
	return nil
}

// LoadBoard replaces the board with a copy of b, such as a reference solution.
func (s *Session) LoadBoard(b *core.Board) error {
	if s.sim.Running() {
		return ErrRunning
	}
	if b.Width() != s.board.Width() {
		return fmt.Errorf("board width %d does not match puzzle width %d", b.Width(), s.board.Width())
	}
	if err := b.Validate(); err != nil {
		return err
	}
	s.board.Clear()
	b.Clone().Each(func(c core.Coord, t *core.Tile) {
		s.board.Set(c, t)
		s.changed[c] = true
	})
	s.autosave()
	return nil
}

// Restore loads the board last persisted for this puzzle, if any.
func (s *Session) Restore() error {
	if s.store == nil {
		return nil
	}
	code, ok, err := s.store.LoadGrid(s.puzzle.ID)
	if err != nil || !ok {
		return err
	}
	return s.LoadCode(code)
}

func (s *Session) autosave() {
	if s.store == nil {
		return
	}
	code, _ := s.SaveCode()
	if err := s.store.SaveGrid(s.puzzle.ID, code); err != nil {
		s.logger.Warn("could not save board", "error", err)
	}
}
