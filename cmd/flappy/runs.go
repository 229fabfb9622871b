package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-flappy/internal/platform/tui"
)

var (
	flagPlain bool
	flagLimit int
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Browse journalled runs",
	Long: `Browse the run journal. Select a run and press Enter to replay it
and check it still reproduces, or D to delete it.

With --plain the most recent runs are printed instead.

Examples:
  flappy runs
  flappy runs --plain --limit 5
  flappy runs --db ./runs.db`,
	Args: cobra.NoArgs,
	Run:  runRuns,
}

func init() {
	runsCmd.Flags().BoolVar(&flagPlain, "plain", false, "Print runs instead of opening the browser")
	runsCmd.Flags().IntVar(&flagLimit, "limit", 10, "Number of runs to print with --plain")
}

func runRuns(_ *cobra.Command, _ []string) {
	store, err := openStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening run journal: %v\n", err)
		os.Exit(1)
	}
	if store == nil {
		fmt.Fprintln(os.Stderr, "Error: no run journal (--db is empty)")
		os.Exit(1)
	}
	defer store.Close()

	if !flagPlain {
		cfg := runtimeConfig()
		if err := tui.RunRuns(store, cfg.ScreenW, cfg.ScreenH); err != nil {
			store.Close()
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	runs, err := store.RecentRuns(flagLimit)
	if err != nil {
		store.Close()
		fmt.Fprintf(os.Stderr, "Error retrieving runs: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Recent runs")
	fmt.Println()

	if len(runs) == 0 {
		fmt.Println("No runs journalled yet.")
		fmt.Println()
		fmt.Println("Play 'flappy play' to record the first one!")
		return
	}

	// Print header
	fmt.Printf("  %-6s  %-6s  %-7s  %-9s  %s\n", "ID", "Score", "Frames", "End", "Date")
	fmt.Printf("  %-6s  %-6s  %-7s  %-9s  %s\n", "--", "-----", "------", "---", "----")

	for _, rec := range runs {
		dateStr := rec.PlayedAt.Format("2006-01-02 15:04")
		fmt.Printf("  %-6d  %-6d  %-7d  %-9s  %s\n", rec.ID, rec.Run.Score, rec.Run.Frames, rec.Run.Cause, dateStr)
	}

	stats, err := store.Stats()
	if err == nil {
		fmt.Println()
		fmt.Printf("%d runs, %d frames played\n", stats.Runs, stats.TotalFrames)
	}
}
