// chromatic is a color-mixing pipe puzzle for the terminal.
//
// Usage:
//
//	chromatic list                     - List puzzles with solved markers
//	chromatic play [id]                - Play in the terminal
//	chromatic serve                    - Start SSH server for remote play
//	chromatic run <id> --code <code>   - Simulate a board headlessly
//	chromatic progress                 - Show solve records
//	chromatic export <id> --out <png>  - Draw a board as PNG
//	chromatic watch                    - Start the websocket spectator server
//
// Global flags:
//
//	--config <path>     - Config file (default search: ~/.chromatic, ./configs)
//	--db <path>         - Database path (default: ~/.chromatic/chromatic.db)
//	--puzzles <dir>     - Puzzle directory (default: built-in pack)
//	--log-level <lvl>   - debug, info, warn, error
//	--speed <preset>    - slow, normal, fast
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/alcatrazEscapee/chromatic-sub000/internal/chromatic/puzzles"
	"github.com/alcatrazEscapee/chromatic-sub000/internal/config"
	"github.com/alcatrazEscapee/chromatic-sub000/internal/storage"
)

var (
	// Global flags
	flagConfig   string
	flagDBPath   string
	flagPuzzles  string
	flagLogLevel string
	flagSpeed    string

	cfg    config.Config
	logger *log.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "chromatic",
	Short: "Chromatic - mix colors through pipes in your terminal",
	Long: `Chromatic is a pipe puzzle: lay tiles on a grid so every colored input
reaches an output of the right color and pressure, mixing and splitting
colors on the way.

Available commands:
  list      - Show all puzzles
  play      - Play in the terminal
  serve     - Start SSH server for remote play
  run       - Simulate a board without a UI
  progress  - View solve records
  export    - Draw a board as PNG
  watch     - Stream simulations to a browser

Examples:
  chromatic list
  chromatic play 3
  chromatic run 1 --solution
  chromatic export 4 --solution --out underpass.png
  chromatic serve --ssh :2222`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to progress database (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagPuzzles, "puzzles", "", "Directory of puzzle YAML files (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagSpeed, "speed", "", "Simulation speed preset: slow, normal, fast")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(progressCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(watchCmd)
}

// setup loads the config, applies flag overrides and builds the logger.
func setup(_ *cobra.Command, _ []string) error {
	var err error
	cfg, err = config.Load(flagConfig)
	if err != nil {
		return err
	}

	if flagDBPath != "" {
		cfg.Storage.DBPath = flagDBPath
	}
	if flagPuzzles != "" {
		cfg.Puzzles.Dir = flagPuzzles
	}
	if flagLogLevel != "" {
		cfg.Log.Level = flagLogLevel
	}
	config.ApplySpeedPreset(&cfg, config.SpeedPreset(flagSpeed))
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "chromatic",
	})
	level, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.Log.Level, err)
	}
	logger.SetLevel(level)
	return nil
}

// loadLevels reads the configured puzzle pack.
func loadLevels() ([]puzzles.Level, error) {
	loader := puzzles.Default()
	if cfg.Puzzles.Dir != "" {
		loader = puzzles.NewLoader(cfg.Puzzles.Dir)
	}
	levels, err := loader.LoadAll()
	if err != nil {
		return nil, fmt.Errorf("cannot load puzzles: %w", err)
	}
	return levels, nil
}

// findLevel parses a puzzle id argument and looks it up.
func findLevel(levels []puzzles.Level, arg string) (puzzles.Level, error) {
	id, err := strconv.Atoi(arg)
	if err != nil {
		return puzzles.Level{}, fmt.Errorf("invalid puzzle id %q", arg)
	}
	for _, lvl := range levels {
		if lvl.ID() == id {
			return lvl, nil
		}
	}
	return puzzles.Level{}, fmt.Errorf("puzzle %d: %w (run 'chromatic list')", id, puzzles.ErrNotFound)
}

// openStore opens the progress database. Commands that can run without it
// log a warning and continue with a nil store.
func openStore() (*storage.Store, error) {
	return storage.Open(cfg.Storage.DBPath)
}
