package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/alcatrazEscapee/chromatic-sub000/internal/platform/web"
)

var flagWebAddr string

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Stream simulations to a browser",
	Long: `Start an HTTP server with a spectator page. Each websocket at /ws/<id>
runs its own simulation of the reference solution, or of ?code=<share code>,
and streams every step as JSON.

Examples:
  chromatic watch
  chromatic watch --http :9000 --speed slow`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&flagWebAddr, "http", "", "HTTP address (host:port, overrides config)")
}

func runWatch(_ *cobra.Command, _ []string) error {
	levels, err := loadLevels()
	if err != nil {
		return err
	}

	addr := cfg.Web.Address
	if flagWebAddr != "" {
		addr = flagWebAddr
	}

	server := web.NewServer(web.Config{
		Address:      addr,
		StepDuration: cfg.SimOptions().StepDuration,
		MaxSteps:     cfg.Simulation.MaxSteps,
	}, levels, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Open http://localhost%s to watch\n", addr)
	fmt.Println("Press Ctrl+C to stop")
	return server.ListenAndServe(ctx)
}
