// Package storage provides SQLite-based persistence for saved boards and solves.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Store manages the SQLite database connection for puzzle progress.
type Store struct {
	db *sql.DB
}

// SolveEntry represents a single recorded solve.
type SolveEntry struct {
	ID        int64
	PuzzleID  int
	Steps     int
	Leaks     int
	CreatedAt time.Time
}

// ProgressEntry summarizes the solves of one puzzle.
type ProgressEntry struct {
	PuzzleID    int
	Solves      int
	BestSteps   int
	FirstSolved time.Time
	HasSave     bool
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS saves (
			puzzle_id INTEGER PRIMARY KEY,
			code TEXT NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS solves (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			puzzle_id INTEGER NOT NULL,
			steps INTEGER NOT NULL,
			leaks INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_solves_puzzle_id ON solves(puzzle_id);
		CREATE INDEX IF NOT EXISTS idx_solves_best ON solves(puzzle_id, steps ASC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveGrid stores the share code of a puzzle's board, replacing any earlier
// one. An empty code deletes the save.
func (s *Store) SaveGrid(puzzleID int, code string) error {
	if code == "" {
		if _, err := s.db.Exec("DELETE FROM saves WHERE puzzle_id = ?", puzzleID); err != nil {
			return fmt.Errorf("storage: cannot delete save: %w", err)
		}
		return nil
	}

	_, err := s.db.Exec(
		`INSERT INTO saves (puzzle_id, code, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(puzzle_id) DO UPDATE SET code = excluded.code, updated_at = excluded.updated_at`,
		puzzleID, code,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save grid: %w", err)
	}
	return nil
}

// LoadGrid returns the stored share code for a puzzle.
func (s *Store) LoadGrid(puzzleID int) (string, bool, error) {
	var code string
	err := s.db.QueryRow("SELECT code FROM saves WHERE puzzle_id = ?", puzzleID).Scan(&code)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("storage: cannot load grid: %w", err)
	}
	return code, true, nil
}

// RecordSolve records a victory on a puzzle.
func (s *Store) RecordSolve(puzzleID, steps, leaks int) error {
	_, err := s.db.Exec(
		"INSERT INTO solves (puzzle_id, steps, leaks) VALUES (?, ?, ?)",
		puzzleID, steps, leaks,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot record solve: %w", err)
	}
	return nil
}

// Solved reports whether a puzzle has at least one recorded solve.
func (s *Store) Solved(puzzleID int) (bool, error) {
	var n int
	err := s.db.QueryRow("SELECT COUNT(*) FROM solves WHERE puzzle_id = ?", puzzleID).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("storage: cannot query solves: %w", err)
	}
	return n > 0, nil
}

// BestSolves retrieves the fastest N solves of a puzzle.
// Results are ordered by steps ascending, oldest first on ties.
func (s *Store) BestSolves(puzzleID int, limit int) ([]SolveEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, puzzle_id, steps, leaks, created_at
		 FROM solves
		 WHERE puzzle_id = ?
		 ORDER BY steps ASC, id ASC
		 LIMIT ?`,
		puzzleID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query solves: %w", err)
	}
	defer rows.Close()

	var entries []SolveEntry
	for rows.Next() {
		var e SolveEntry
		var createdAt any
		if err := rows.Scan(&e.ID, &e.PuzzleID, &e.Steps, &e.Leaks, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.CreatedAt = parseTime(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// Progress summarizes every puzzle that has a save or a solve, ordered by puzzle id.
func (s *Store) Progress() ([]ProgressEntry, error) {
	rows, err := s.db.Query(
		`SELECT ids.puzzle_id,
		        COUNT(solves.id),
		        COALESCE(MIN(solves.steps), 0),
		        MIN(solves.created_at),
		        EXISTS (SELECT 1 FROM saves WHERE saves.puzzle_id = ids.puzzle_id)
		 FROM (SELECT puzzle_id FROM saves UNION SELECT puzzle_id FROM solves) AS ids
		 LEFT JOIN solves ON solves.puzzle_id = ids.puzzle_id
		 GROUP BY ids.puzzle_id
		 ORDER BY ids.puzzle_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query progress: %w", err)
	}
	defer rows.Close()

	var entries []ProgressEntry
	for rows.Next() {
		var e ProgressEntry
		var firstSolved any
		if err := rows.Scan(&e.PuzzleID, &e.Solves, &e.BestSteps, &firstSolved, &e.HasSave); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.FirstSolved = parseTime(firstSolved)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// ClearProgress deletes the save and every solve of a puzzle.
func (s *Store) ClearProgress(puzzleID int) error {
	if _, err := s.db.Exec("DELETE FROM solves WHERE puzzle_id = ?", puzzleID); err != nil {
		return fmt.Errorf("storage: cannot clear solves: %w", err)
	}
	if _, err := s.db.Exec("DELETE FROM saves WHERE puzzle_id = ?", puzzleID); err != nil {
		return fmt.Errorf("storage: cannot clear save: %w", err)
	}
	return nil
}

// parseTime handles both time.Time and string datetimes from the driver.
func parseTime(v any) time.Time {
	switch v := v.(type) {
	case time.Time:
		return v
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", v); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
