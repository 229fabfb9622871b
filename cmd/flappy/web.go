package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-flappy/internal/config"
	"github.com/vovakirdan/tui-flappy/internal/web"
)

var flagWebAddr string

var webCmd = &cobra.Command{
	Use:   "web",
	Short: "Start the browser server",
	Long: `Serve the canvas client over HTTP and run one game per browser tab
over a websocket. The simulation runs on the server; the page only draws
frames and sends flaps.

Routes:
  /             - The game page
  /ws           - Game socket
  /schema.json  - JSON schema of the socket protocol

Examples:
  flappy web
  flappy web --addr :9000
  flappy web --fps 30 --db ./runs.db`,
	Args: cobra.NoArgs,
	Run:  runWeb,
}

func init() {
	webCmd.Flags().StringVar(&flagWebAddr, "addr", ":8080", "HTTP listen address (host:port) ($"+config.EnvWebAddr+")")
}

func runWeb(cmd *cobra.Command, _ []string) {
	envFlag(cmd, "addr", &flagWebAddr, config.EnvWebAddr)

	gameCfg, err := loadGameConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger, closeLog, err := newLogger("flappy-web", false)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	store, err := openStore()
	if err != nil {
		logger.Warn("could not open run journal", "error", err)
		store = nil
	}
	if store != nil {
		defer store.Close()
	}

	cfg := web.DefaultConfig()
	cfg.Addr = flagWebAddr
	cfg.TickRate = flagFPS
	cfg.Seed = flagSeed
	cfg.Game = gameCfg

	server := web.NewServer(cfg, store, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Open http://localhost%s in a browser\n", flagWebAddr)
	fmt.Println("Press Ctrl+C to stop")

	if err := server.ListenAndServe(ctx); err != nil {
		logger.Error("Server error", "error", err)
		stop()
		if store != nil {
			store.Close()
		}
		closeLog()
		os.Exit(1)
	}
}
