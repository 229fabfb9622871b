package flappy

import "slices"

// Snapshot is a read-only copy of the world for renderers and transports.
type Snapshot struct {
	Phase     Phase
	Cause     EndCause
	Bird      Bird
	Obstacles []Obstacle
	Score     int
	Frames    int
	Seed      int64

	Field         Geometry
	Slot          Slot
	BirdWidth     float64
	BirdHeight    float64
	ObstacleWidth float64
	GapHeight     float64
}

// Snapshot captures the current state. The obstacle slice is copied so the
// snapshot stays valid after further steps.
func (w *World) Snapshot() Snapshot {
	return Snapshot{
		Phase:         w.phase,
		Cause:         w.cause,
		Bird:          w.bird,
		Obstacles:     slices.Clone(w.obstacles),
		Score:         w.score,
		Frames:        w.frames,
		Seed:          w.seed,
		Field:         w.geom,
		Slot:          w.params.Slot(),
		BirdWidth:     w.params.BirdWidth,
		BirdHeight:    w.params.BirdHeight,
		ObstacleWidth: w.params.ObstacleWidth,
		GapHeight:     w.geom.GapHeight(w.params),
	}
}
