package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/alcatrazEscapee/chromatic-sub000/internal/chromatic"
	"github.com/alcatrazEscapee/chromatic-sub000/internal/platform/tui"
)

var (
	flagSSHAddr string
	flagHostKey string
	flagMaxSess int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Chromatic SSH server",
	Long: `Start an SSH server that allows users to connect and play.

Each SSH connection gets its own session with the puzzle menu.
Progress is stored per-server (all users share the same saves and records).

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.chromatic/host_key

Examples:
  chromatic serve                           # Listen on the configured address
  chromatic serve --ssh :2222               # Listen on port 2222
  chromatic serve --host-key ./my_host_key  # Use specific host key

Users can connect with:
  ssh localhost -p 23235
  ssh -t localhost -p 23235 3               # Open puzzle 3 directly`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", "", "SSH server address (host:port, overrides config)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (overrides config)")
	serveCmd.Flags().IntVar(&flagMaxSess, "max-sessions", -1, "Concurrent player limit, 0 for none (overrides config)")
}

func runServe(_ *cobra.Command, _ []string) error {
	levels, err := loadLevels()
	if err != nil {
		return err
	}

	store, err := openStore()
	if err != nil {
		logger.Warn("could not open progress database", "error", err)
		// Continue without storage
	} else {
		defer store.Close()
	}

	sshCfg := tui.SSHServerConfig{
		Address:     cfg.SSH.Address,
		HostKeyPath: cfg.SSH.HostKey,
		IdleTimeout: cfg.IdleTimeout(),
		MaxSessions: cfg.SSH.MaxSessions,
		Play: tui.PlayOptions{
			Session:  chromatic.Options{Sim: cfg.SimOptions()},
			TickRate: cfg.UI.TickRate,
		},
	}
	if flagSSHAddr != "" {
		sshCfg.Address = flagSSHAddr
	}
	if flagHostKey != "" {
		sshCfg.HostKeyPath = flagHostKey
	}
	if flagMaxSess >= 0 {
		sshCfg.MaxSessions = flagMaxSess
	}

	server, err := tui.NewSSHServer(sshCfg, levels, store, logger)
	if err != nil {
		return fmt.Errorf("cannot create server: %w", err)
	}

	fmt.Printf("Starting Chromatic SSH server on %s\n", server.Addr())
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Println("Press Ctrl+C to stop")
	return server.ListenAndServe(ctx)
}
