// flappy is a Flappy Bird clone for the terminal, SSH and the browser.
//
// Usage:
//
//	flappy play              - Play in this terminal
//	flappy menu              - Start menu with the game and the run journal
//	flappy serve             - Start SSH server for remote play
//	flappy web               - Start the browser server
//	flappy runs              - Browse journalled runs
//	flappy replay <id>       - Re-simulate a journalled run and check it
//	flappy schema            - Print the browser protocol JSON schema
//
// Global flags:
//
//	--fps <rate>         - Set tick rate (default: 60)
//	--seed <value>       - Set RNG seed for reproducible gameplay
//	--db <path>          - Set run journal path (default: ~/.flappy/runs.db)
//	--config <path>      - Load game tuning from a YAML file
//	--log-level <level>  - debug, info, warn or error
//	--log-file <path>    - Write logs to a file
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-flappy/internal/config"
	"github.com/vovakirdan/tui-flappy/internal/storage"
)

const defaultDBPath = "~/.flappy/runs.db"

var (
	// Global flags
	flagFPS      int
	flagSeed     int64
	flagDBPath   string
	flagConfig   string
	flagLogLevel string
	flagLogFile  string

	logLevel log.Level
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "flappy",
	Short: "Flappy Bird in your terminal, over SSH and in the browser",
	Long: `Flappy Bird with a deterministic simulation: every game can be
journalled and replayed frame for frame.

Available commands:
  play     - Play in this terminal
  menu     - Menu with the game and the run journal
  serve    - Start SSH server for remote play
  web      - Start the browser server
  runs     - Browse journalled runs
  replay   - Re-simulate a journalled run
  schema   - Print the browser protocol schema

Settings can also come from the environment or a .env file:
  FLAPPY_DB, FLAPPY_CONFIG, FLAPPY_LOG_LEVEL, FLAPPY_WEB_ADDR, FLAPPY_SSH_ADDR

Examples:
  flappy play
  flappy play --seed 42
  flappy serve --ssh :2222
  flappy web --addr :8080
  flappy replay 12`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", defaultDBPath, "Path to the run journal ($"+config.EnvDBPath+")")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to a game config YAML ($"+config.EnvConfigPath+")")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error ($"+config.EnvLogLevel+")")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file")

	// Add subcommands
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(webCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(schemaCmd)
}

// setup loads .env and lets environment variables fill in flags the user
// did not pass.
func setup(cmd *cobra.Command, _ []string) error {
	if err := config.LoadEnv(); err != nil {
		return err
	}

	envFlag(cmd, "db", &flagDBPath, config.EnvDBPath)
	envFlag(cmd, "config", &flagConfig, config.EnvConfigPath)
	envFlag(cmd, "log-level", &flagLogLevel, config.EnvLogLevel)

	level, err := log.ParseLevel(strings.ToLower(flagLogLevel))
	if err != nil {
		return fmt.Errorf("invalid --log-level %q: %w", flagLogLevel, err)
	}
	logLevel = level

	if flagFPS <= 0 {
		return fmt.Errorf("--fps must be positive, got %d", flagFPS)
	}
	return nil
}

func envFlag(cmd *cobra.Command, name string, dst *string, key string) {
	if cmd.Flags().Changed(name) {
		return
	}
	*dst = config.GetEnv(key, *dst)
}

// loadGameConfig reads the game tuning from --config or the default search path.
func loadGameConfig() (config.FlappyConfig, error) {
	return config.Load(flagConfig)
}

// newLogger builds the logger for a command. Servers log to stderr unless
// --log-file is set; the terminal game passes quiet=true because it owns
// the terminal, so it only logs to a file.
func newLogger(prefix string, quiet bool) (*log.Logger, func(), error) {
	var out io.Writer = os.Stderr
	closeFn := func() {}

	switch {
	case flagLogFile != "":
		path := expandHome(flagLogFile)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, nil, fmt.Errorf("cannot create log directory: %w", err)
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("cannot open log file: %w", err)
		}
		out = f
		closeFn = func() { f.Close() }
	case quiet:
		out = io.Discard
	}

	logger := log.NewWithOptions(out, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
		Level:           logLevel,
	})
	return logger, closeFn, nil
}

// openStore opens the run journal. An empty path disables journalling.
func openStore() (*storage.Store, error) {
	if flagDBPath == "" {
		return nil, nil
	}
	return storage.Open(flagDBPath)
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
