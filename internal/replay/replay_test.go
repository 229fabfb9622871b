package replay

import (
	"errors"
	"testing"

	"github.com/vovakirdan/tui-flappy/internal/flappy"
)

var testField = flappy.Geometry{Width: 420, Height: 600, GroundHeight: 112}

// play runs a game with a flap every interval frames until it ends or
// limit frames have been stepped.
func play(seed int64, interval, limit int) *flappy.World {
	w := flappy.NewWorld(flappy.DefaultParams(), testField, seed)
	w.Flap()
	for i := 0; i < limit && w.Phase() == flappy.PhaseRunning; i++ {
		if w.Frames()%interval == interval-1 {
			w.Flap()
		}
		w.Step()
		w.Effects()
	}
	return w
}

func TestCaptureFinishedGame(t *testing.T) {
	w := play(7, 21, 10000)
	if w.Phase() != flappy.PhaseOver {
		t.Fatal("expected the game to end")
	}

	run := Capture(w)

	if run.Seed != 7 || run.Frames != w.Frames() || run.Score != w.Score() {
		t.Errorf("Capture() = %+v, does not match world", run)
	}
	if run.Cause != CauseGround && run.Cause != CauseObstacle {
		t.Errorf("cause = %q, expected ground or obstacle", run.Cause)
	}
	if len(run.Flaps) == 0 || run.Flaps[0] != 0 {
		t.Errorf("flaps = %v, expected the starting flap at frame 0", run.Flaps)
	}
}

func TestCaptureUnfinishedGame(t *testing.T) {
	w := play(7, 21, 30)

	if got := Capture(w).Cause; got != CauseAbandoned {
		t.Errorf("cause = %q, expected abandoned", got)
	}
}

func TestReplayReproducesRun(t *testing.T) {
	seeds := []int64{1, 42, 12345, -9}
	intervals := []int{18, 21, 25}

	for _, seed := range seeds {
		for _, interval := range intervals {
			w := play(seed, interval, 10000)
			run := Capture(w)

			snap, err := Replay(run, 0)
			if err != nil {
				t.Fatalf("Replay(seed=%d, interval=%d) failed: %v", seed, interval, err)
			}
			if snap.Bird != w.Bird() {
				t.Errorf("seed %d: bird %+v, expected %+v", seed, snap.Bird, w.Bird())
			}
			if snap.Phase != flappy.PhaseOver {
				t.Errorf("seed %d: phase %v, expected over", seed, snap.Phase)
			}
		}
	}
}

func TestReplayGameResizedWhilePlaying(t *testing.T) {
	w := flappy.NewWorld(flappy.DefaultParams(), testField, 11)
	w.Flap()
	for i := 0; i < 10000 && w.Phase() == flappy.PhaseRunning; i++ {
		if i == 40 {
			w.Resize(flappy.Geometry{Width: 358, Height: 506, GroundHeight: 112})
		}
		if w.Frames()%21 == 20 {
			w.Flap()
		}
		w.Step()
	}

	run := Capture(w)
	if run.Geometry != testField {
		t.Errorf("captured field = %+v, expected the field the game was played on", run.Geometry)
	}
	if _, err := Replay(run, 0); err != nil {
		t.Errorf("Replay() failed: %v", err)
	}
}

func TestReplayAbandonedRun(t *testing.T) {
	w := play(3, 20, 90)
	run := Capture(w)

	snap, err := Replay(run, 0)
	if err != nil {
		t.Fatalf("Replay() failed: %v", err)
	}
	if snap.Frames != 90 || snap.Phase != flappy.PhaseRunning {
		t.Errorf("replay stopped at frame %d in phase %v, expected 90 running", snap.Frames, snap.Phase)
	}
}

func TestReplayUnstartedRun(t *testing.T) {
	w := flappy.NewWorld(flappy.DefaultParams(), testField, 5)
	run := Capture(w)

	snap, err := Replay(run, 0)
	if err != nil {
		t.Fatalf("Replay() failed: %v", err)
	}
	if snap.Phase != flappy.PhaseNotStarted {
		t.Errorf("phase = %v, expected not_started", snap.Phase)
	}
}

func TestReplayDetectsDivergence(t *testing.T) {
	w := play(11, 21, 10000)

	tests := []struct {
		name   string
		mutate func(r *Run)
	}{
		{"score", func(r *Run) { r.Score += 5 }},
		{"frames", func(r *Run) { r.Frames++ }},
		{"cause", func(r *Run) {
			if r.Cause == CauseGround {
				r.Cause = CauseObstacle
			} else {
				r.Cause = CauseGround
			}
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			run := Capture(w)
			tc.mutate(&run)
			if _, err := Replay(run, 0); !errors.Is(err, ErrDiverged) {
				t.Errorf("Replay() = %v, expected ErrDiverged", err)
			}
		})
	}
}

func TestReplayMaxFrames(t *testing.T) {
	w := play(11, 21, 10000)
	run := Capture(w)

	snap, err := Replay(run, 10)
	if !errors.Is(err, ErrDiverged) {
		t.Errorf("Replay() = %v, expected ErrDiverged for a truncated replay", err)
	}
	if snap.Frames != 10 {
		t.Errorf("frames = %d, expected 10", snap.Frames)
	}
}

func TestRunValidate(t *testing.T) {
	base := Capture(play(2, 21, 10000))

	tests := []struct {
		name   string
		mutate func(r *Run)
	}{
		{"bad params", func(r *Run) { r.Params.Gravity = 0 }},
		{"empty field", func(r *Run) { r.Geometry.Width = 0 }},
		{"field under ground", func(r *Run) { r.Geometry.Height = r.Geometry.GroundHeight }},
		{"unsorted flaps", func(r *Run) { r.Flaps = []int{0, 10, 5} }},
		{"flap after end", func(r *Run) { r.Flaps = []int{0, r.Frames + 1} }},
		{"negative flap", func(r *Run) { r.Flaps = []int{-1} }},
		{"unknown cause", func(r *Run) { r.Cause = "meteor" }},
	}

	if err := base.Validate(); err != nil {
		t.Fatalf("captured run invalid: %v", err)
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			run := base
			run.Flaps = append([]int(nil), base.Flaps...)
			tc.mutate(&run)
			if err := run.Validate(); !errors.Is(err, ErrInvalidRun) {
				t.Errorf("Validate() = %v, expected ErrInvalidRun", err)
			}
			if _, err := Replay(run, 0); !errors.Is(err, ErrInvalidRun) {
				t.Errorf("Replay() = %v, expected ErrInvalidRun", err)
			}
		})
	}
}
