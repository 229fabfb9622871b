package flappy

import (
	"math/rand"
	"slices"

	"github.com/vovakirdan/tui-flappy/internal/core"
)

// Phase is the coarse game state.
type Phase int

const (
	PhaseNotStarted Phase = iota // Waiting for the first flap
	PhaseRunning                 // Simulation active
	PhaseOver                    // Frozen until restart
)

// String returns a snake_case name for the phase.
func (p Phase) String() string {
	switch p {
	case PhaseNotStarted:
		return "not_started"
	case PhaseRunning:
		return "running"
	case PhaseOver:
		return "over"
	default:
		return "unknown"
	}
}

// EndCause records what ended a game.
type EndCause int

const (
	CauseNone     EndCause = iota // Game still in progress
	CauseGround                   // Bird landed on the ground
	CauseObstacle                 // Bird hit an obstacle
)

// String returns a short name for the cause.
func (c EndCause) String() string {
	switch c {
	case CauseNone:
		return "none"
	case CauseGround:
		return "ground"
	case CauseObstacle:
		return "obstacle"
	default:
		return "unknown"
	}
}

// Bird is the player sprite. Y is the vertical center of its box.
type Bird struct {
	Y        float64 `json:"y"`
	Velocity float64 `json:"velocity"` // Units per frame, positive = down
}

// Obstacle is a vertical barrier with a passable gap.
// GapBottom - GapTop equals the field's gap height, up to rounding.
type Obstacle struct {
	X         float64 `json:"x"` // Left edge
	GapTop    float64 `json:"gapTop"`
	GapBottom float64 `json:"gapBottom"`
	Scored    bool    `json:"scored"`
}

// World is the complete simulation state for one game.
//
// A World is driven from a single goroutine: the frame driver calls Step,
// input handlers call Flap and Restart between steps, and renderers read
// it through the accessors or a Snapshot.
type World struct {
	params Params
	geom   Geometry
	next   *Geometry // Applied by the next Reset
	rng    *rand.Rand
	seed   int64

	bird      Bird
	obstacles []Obstacle
	score     int
	phase     Phase
	frames    int
	cause     EndCause
	hitFired  bool
	flaps     []int

	effects EffectQueue
}

// NewWorld creates a world in the NotStarted phase.
func NewWorld(p Params, g Geometry, seed int64) *World {
	w := &World{
		params:    p,
		geom:      g,
		obstacles: make([]Obstacle, 0, 4),
	}
	w.Reset(seed)
	return w
}

// Reset reinitializes every field of the world with a fresh RNG seed.
// The bird is centered with zero velocity and exactly one obstacle waits at
// the right edge. Pending effects are dropped, and a field size queued by
// Resize takes effect.
func (w *World) Reset(seed int64) {
	if w.next != nil {
		w.geom = *w.next
		w.next = nil
	}
	w.seed = seed
	w.rng = rand.New(rand.NewSource(seed))

	w.bird = Bird{Y: w.geom.Height / 2}
	w.obstacles = append(w.obstacles[:0], w.newObstacle())
	w.score = 0
	w.phase = PhaseNotStarted
	w.frames = 0
	w.cause = CauseNone
	w.hitFired = false
	w.flaps = w.flaps[:0]
	w.effects.Drain()
}

// Resize changes the play field. A world that has not started is laid out
// again on the new field with the same seed. A running or finished game
// keeps its field, phase and score; the new field applies from the next
// Reset, so a recorded game always replays on the field it was played on.
func (w *World) Resize(g Geometry) {
	w.next = &g
	if w.phase == PhaseNotStarted {
		w.Reset(w.seed)
	}
}

// setGeometry replaces the field immediately, dropping any queued resize.
// Callers reset the world right after.
func (w *World) setGeometry(g Geometry) {
	w.geom = g
	w.next = nil
}

// newObstacle creates an obstacle at the right edge with a random gap.
// The gap top is uniform over a band that keeps TopMargin above it and
// GroundClearance (which includes the margin) above the ground.
func (w *World) newObstacle() Obstacle {
	gap := w.geom.GapHeight(w.params)
	band := w.geom.Height - gap - w.geom.GroundHeight - w.params.GroundClearance

	top := w.params.TopMargin
	if band > 0 {
		top += w.rng.Float64() * band
	}

	return Obstacle{
		X:         w.geom.Width,
		GapTop:    top,
		GapBottom: top + gap,
	}
}

// BirdBox returns the bird's bounding box in world units.
func (w *World) BirdBox() core.RectF {
	return core.CenteredRectF(w.params.BirdX, w.bird.Y, w.params.BirdWidth, w.params.BirdHeight)
}

// Bird returns the bird state.
func (w *World) Bird() Bird { return w.bird }

// Obstacles returns the live obstacles, leftmost first.
// The slice is owned by the world and must not be modified.
func (w *World) Obstacles() []Obstacle { return w.obstacles }

// Score returns the number of obstacles passed.
func (w *World) Score() int { return w.score }

// Phase returns the current phase.
func (w *World) Phase() Phase { return w.phase }

// Frames returns the number of steps executed while running.
func (w *World) Frames() int { return w.frames }

// Seed returns the seed the current game was generated from.
func (w *World) Seed() int64 { return w.seed }

// Cause returns what ended the game, or CauseNone.
func (w *World) Cause() EndCause { return w.cause }

// Params returns the simulation parameters.
func (w *World) Params() Params { return w.params }

// Geometry returns the play field.
func (w *World) Geometry() Geometry { return w.geom }

// Flaps returns a copy of the frames on which the bird flapped this game.
func (w *World) Flaps() []int { return slices.Clone(w.flaps) }

// Effects drains the effects raised since the last call.
func (w *World) Effects() []Effect { return w.effects.Drain() }
