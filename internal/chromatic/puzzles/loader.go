// Package puzzles loads puzzle packs. The default pack is embedded in the binary.
// This package depends on core but core does not depend on puzzles.
package puzzles

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/alcatrazEscapee/chromatic-sub000/internal/chromatic/core"
	"github.com/alcatrazEscapee/chromatic-sub000/internal/chromatic/puzzles/formats"
)

//go:embed data/*.yaml
var embedded embed.FS

// ErrNotFound is returned when a puzzle id is not in the pack.
var ErrNotFound = errors.New("puzzle not found")

// Level is a puzzle together with its optional reference solution.
type Level struct {
	Puzzle   *core.Puzzle
	Solution []formats.Placement
	Metadata map[string]string
	FilePath string
}

// ID returns the puzzle id.
func (l *Level) ID() int {
	return l.Puzzle.ID
}

// Name returns the puzzle name.
func (l *Level) Name() string {
	return l.Puzzle.Name
}

// HasSolution reports whether the level ships a reference solution.
func (l *Level) HasSolution() bool {
	return len(l.Solution) > 0
}

// SolutionBoard builds a board holding the reference solution.
func (l *Level) SolutionBoard() *core.Board {
	b := core.NewBoard(l.Puzzle.Width())
	for _, pl := range l.Solution {
		t := core.NewTile(pl.Kind, pl.Dir)
		for key, prop := range pl.Labels {
			*t.Property(key) = prop
		}
		b.Set(pl.Pos, t)
	}
	return b
}

// Loader handles loading puzzles from a file system.
type Loader struct {
	fsys fs.FS
	root string
}

// NewLoader creates a loader over a directory on disk.
func NewLoader(dir string) *Loader {
	return &Loader{fsys: os.DirFS(dir), root: "."}
}

// NewFSLoader creates a loader over root within fsys.
func NewFSLoader(fsys fs.FS, root string) *Loader {
	return &Loader{fsys: fsys, root: root}
}

// Default returns a loader over the embedded puzzle pack.
func Default() *Loader {
	return NewFSLoader(embedded, "data")
}

// LoadAll recursively scans and loads all puzzle files.
// Returns puzzles sorted by ID for deterministic ordering.
func (l *Loader) LoadAll() ([]Level, error) {
	var levels []Level
	seen := make(map[int]string)

	err := fs.WalkDir(l.fsys, l.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		ext := strings.ToLower(path.Ext(p))
		if !isSupportedExtension(ext) {
			return nil
		}

		level, err := l.LoadFile(p)
		if err != nil {
			return err
		}
		if other, dup := seen[level.ID()]; dup {
			return fmt.Errorf("puzzle id %d used by both %s and %s", level.ID(), other, p)
		}
		seen[level.ID()] = p

		levels = append(levels, level)
		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", l.root, err)
	}

	sort.Slice(levels, func(i, j int) bool {
		return levels[i].ID() < levels[j].ID()
	})

	return levels, nil
}

// LoadFile loads a single puzzle file.
func (l *Loader) LoadFile(p string) (Level, error) {
	data, err := fs.ReadFile(l.fsys, p)
	if err != nil {
		return Level{}, fmt.Errorf("reading file %s: %w", p, err)
	}

	ext := strings.ToLower(path.Ext(p))
	parsed, err := parseByExtension(data, ext)
	if err != nil {
		return Level{}, fmt.Errorf("parsing file %s: %w", p, err)
	}

	return Level{
		Puzzle:   parsed.Puzzle,
		Solution: parsed.Solution,
		Metadata: parsed.Metadata,
		FilePath: p,
	}, nil
}

// LoadByID loads a specific puzzle by ID.
func (l *Loader) LoadByID(id int) (Level, error) {
	levels, err := l.LoadAll()
	if err != nil {
		return Level{}, err
	}

	for _, lvl := range levels {
		if lvl.ID() == id {
			return lvl, nil
		}
	}

	return Level{}, fmt.Errorf("%w: %d", ErrNotFound, id)
}

// isSupportedExtension checks if extension is supported.
func isSupportedExtension(ext string) bool {
	for _, supported := range formats.FormatExtensions() {
		if ext == supported {
			return true
		}
	}
	return false
}

// parseByExtension routes to the correct parser.
func parseByExtension(data []byte, ext string) (formats.Puzzle, error) {
	switch ext {
	case ".yaml", ".yml":
		return formats.ParseYAML(data)
	default:
		return formats.Puzzle{}, fmt.Errorf("unsupported extension: %s", ext)
	}
}
