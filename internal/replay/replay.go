// Package replay captures finished games as compact runs and re-simulates
// them. A run is the seed, the tuning and the frames on which the bird
// flapped; the simulation is deterministic, so that is enough to rebuild
// every frame of the game.
package replay

import (
	"errors"
	"fmt"
	"slices"

	"github.com/vovakirdan/tui-flappy/internal/flappy"
)

// Cause describes how a run ended.
type Cause string

const (
	CauseGround    Cause = "ground"
	CauseObstacle  Cause = "obstacle"
	CauseAbandoned Cause = "abandoned" // Player left before the game ended
)

// DefaultMaxFrames bounds Replay when the caller passes no limit.
// At 60 fps this is a little over an hour of play.
const DefaultMaxFrames = 1 << 18

var (
	// ErrDiverged is returned when a replay does not reproduce the recorded result.
	ErrDiverged = errors.New("replay: diverged from record")

	// ErrInvalidRun is returned for runs that cannot be replayed.
	ErrInvalidRun = errors.New("replay: invalid run")
)

// Run is everything needed to reproduce one game.
type Run struct {
	Seed     int64           `json:"seed"`
	Params   flappy.Params   `json:"params"`
	Geometry flappy.Geometry `json:"geometry"`
	Flaps    []int           `json:"flaps"`
	Score    int             `json:"score"`
	Frames   int             `json:"frames"`
	Cause    Cause           `json:"cause"`
}

// Capture describes the world's current game as a run. A game that has not
// ended yet is recorded as abandoned.
func Capture(w *flappy.World) Run {
	return Run{
		Seed:     w.Seed(),
		Params:   w.Params(),
		Geometry: w.Geometry(),
		Flaps:    w.Flaps(),
		Score:    w.Score(),
		Frames:   w.Frames(),
		Cause:    CauseOf(w.Cause()),
	}
}

// CauseOf maps a world end cause to a run cause. A game still in progress
// counts as abandoned.
func CauseOf(c flappy.EndCause) Cause {
	switch c {
	case flappy.CauseGround:
		return CauseGround
	case flappy.CauseObstacle:
		return CauseObstacle
	default:
		return CauseAbandoned
	}
}

// Validate reports runs that Replay cannot rebuild.
func (r Run) Validate() error {
	if err := r.Params.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRun, err)
	}
	if r.Geometry.Width <= 0 || r.Geometry.Height <= r.Geometry.GroundHeight {
		return fmt.Errorf("%w: field %vx%v", ErrInvalidRun, r.Geometry.Width, r.Geometry.Height)
	}
	if !slices.IsSorted(r.Flaps) {
		return fmt.Errorf("%w: flaps out of order", ErrInvalidRun)
	}
	if n := len(r.Flaps); n > 0 && (r.Flaps[0] < 0 || r.Flaps[n-1] > r.Frames) {
		return fmt.Errorf("%w: flap outside frames 0..%d", ErrInvalidRun, r.Frames)
	}
	switch r.Cause {
	case CauseGround, CauseObstacle, CauseAbandoned:
	default:
		return fmt.Errorf("%w: unknown cause %q", ErrInvalidRun, r.Cause)
	}
	return nil
}

// Replay re-simulates a run and returns the final state. Flaps are applied
// before the step of the frame they were recorded on. The error wraps
// ErrDiverged when the result does not match the record; the snapshot is
// valid either way.
func Replay(run Run, maxFrames int) (flappy.Snapshot, error) {
	if err := run.Validate(); err != nil {
		return flappy.Snapshot{}, err
	}
	if maxFrames <= 0 {
		maxFrames = DefaultMaxFrames
	}

	w := flappy.NewWorld(run.Params, run.Geometry, run.Seed)
	next := 0

	for steps := 0; steps < maxFrames && w.Phase() != flappy.PhaseOver; steps++ {
		if run.Cause == CauseAbandoned && w.Frames() >= run.Frames {
			break
		}
		for next < len(run.Flaps) && run.Flaps[next] == w.Frames() {
			w.Flap()
			next++
		}
		if w.Phase() == flappy.PhaseNotStarted {
			// Nothing left that could start the game
			break
		}
		w.Step()
		w.Effects()
	}

	snap := w.Snapshot()
	got := Capture(w)
	if got.Score != run.Score || got.Frames != run.Frames || got.Cause != run.Cause {
		return snap, fmt.Errorf("%w: score %d/%d, frames %d/%d, cause %s/%s",
			ErrDiverged, got.Score, run.Score, got.Frames, run.Frames, got.Cause, run.Cause)
	}
	return snap, nil
}
