package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-flappy/internal/replay"
)

var flagMaxFrames int

var replayCmd = &cobra.Command{
	Use:   "replay <id>",
	Short: "Re-simulate a journalled run and check it",
	Long: `Rebuild a journalled run from its seed, tuning and flaps, step it
to the end and check the result matches the journal.

Exits with status 1 when the run diverges or cannot be replayed.

Examples:
  flappy replay 12
  flappy replay 12 --max-frames 100000`,
	Args: cobra.ExactArgs(1),
	Run:  runReplay,
}

func init() {
	replayCmd.Flags().IntVar(&flagMaxFrames, "max-frames", replay.DefaultMaxFrames, "Stop after this many frames")
}

func runReplay(_ *cobra.Command, args []string) {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid run id %q\n", args[0])
		os.Exit(1)
	}

	store, err := openStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening run journal: %v\n", err)
		os.Exit(1)
	}
	if store == nil {
		fmt.Fprintln(os.Stderr, "Error: no run journal (--db is empty)")
		os.Exit(1)
	}
	rec, err := store.Run(id)
	store.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving run: %v\n", err)
		os.Exit(1)
	}
	if rec == nil {
		fmt.Fprintf(os.Stderr, "Error: no run with id %d\n", id)
		os.Exit(1)
	}

	run := rec.Run
	fmt.Printf("Run %d - played %s\n", rec.ID, rec.PlayedAt.Format("2006-01-02 15:04"))
	fmt.Printf("  seed %d, %d flaps, field %gx%g\n", run.Seed, len(run.Flaps), run.Geometry.Width, run.Geometry.Height)
	fmt.Printf("  recorded: score %d after %d frames (%s)\n", run.Score, run.Frames, run.Cause)

	snap, err := replay.Replay(run, flagMaxFrames)
	fmt.Printf("  replayed: score %d after %d frames (%s)\n", snap.Score, snap.Frames, replay.CauseOf(snap.Cause))

	switch {
	case err == nil:
		fmt.Println("Replay matches the journal.")
	case errors.Is(err, replay.ErrDiverged):
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	default:
		fmt.Fprintf(os.Stderr, "Error: run cannot be replayed: %v\n", err)
		os.Exit(1)
	}
}
