package flappy

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/vovakirdan/tui-flappy/internal/config"
)

// Params holds the tuning constants of the simulation.
// All distances are world units and all rates are per frame; there is no
// delta-time scaling, so the game speed follows the frame rate.
type Params struct {
	Gravity       float64 `json:"gravity"`
	FlapImpulse   float64 `json:"flapImpulse"` // Negative = upward
	ObstacleSpeed float64 `json:"obstacleSpeed"`
	SpawnSpacing  float64 `json:"spawnSpacing"`

	BirdX      float64 `json:"birdX"` // Center of the bird's fixed horizontal slot
	BirdWidth  float64 `json:"birdWidth"`
	BirdHeight float64 `json:"birdHeight"`

	ObstacleWidth   float64 `json:"obstacleWidth"`
	GapRatio        float64 `json:"gapRatio"`
	MinGap          float64 `json:"minGap"`
	TopMargin       float64 `json:"topMargin"`
	GroundClearance float64 `json:"groundClearance"`

	DeathDelay time.Duration `json:"deathDelay"` // Delay of the dead effect after the hit
}

// DefaultParams returns the classic tuning.
func DefaultParams() Params {
	return ParamsFromConfig(config.Default())
}

// ParamsFromConfig extracts simulation parameters from a game config.
func ParamsFromConfig(cfg config.FlappyConfig) Params {
	return Params{
		Gravity:         cfg.Physics.Gravity,
		FlapImpulse:     cfg.Physics.FlapImpulse,
		ObstacleSpeed:   cfg.Physics.ObstacleSpeed,
		SpawnSpacing:    cfg.Obstacles.SpawnSpacing,
		BirdX:           cfg.Bird.X,
		BirdWidth:       cfg.Bird.Width,
		BirdHeight:      cfg.Bird.Height,
		ObstacleWidth:   cfg.Obstacles.Width,
		GapRatio:        cfg.Obstacles.GapRatio,
		MinGap:          cfg.Obstacles.MinGap,
		TopMargin:       cfg.Obstacles.TopMargin,
		GroundClearance: cfg.Obstacles.GroundClearance,
		DeathDelay:      time.Duration(cfg.Bird.DeathDelayMS) * time.Millisecond,
	}
}

// ErrInvalidParams is wrapped by Params.Validate failures.
var ErrInvalidParams = errors.New("flappy: invalid params")

// Validate reports parameters that would make the simulation meaningless.
func (p Params) Validate() error {
	switch {
	case p.Gravity <= 0:
		return fmt.Errorf("%w: gravity %v", ErrInvalidParams, p.Gravity)
	case p.FlapImpulse >= 0:
		return fmt.Errorf("%w: flap impulse %v", ErrInvalidParams, p.FlapImpulse)
	case p.ObstacleSpeed <= 0:
		return fmt.Errorf("%w: obstacle speed %v", ErrInvalidParams, p.ObstacleSpeed)
	case p.BirdWidth <= 0 || p.BirdHeight <= 0:
		return fmt.Errorf("%w: bird size %vx%v", ErrInvalidParams, p.BirdWidth, p.BirdHeight)
	case p.ObstacleWidth <= 0:
		return fmt.Errorf("%w: obstacle width %v", ErrInvalidParams, p.ObstacleWidth)
	}
	return nil
}

// Slot returns the bird's fixed horizontal slot.
func (p Params) Slot() Slot {
	return Slot{
		Left:  p.BirdX - p.BirdWidth/2,
		Right: p.BirdX + p.BirdWidth/2,
	}
}

// Slot is the horizontal span occupied by the bird. It never moves.
type Slot struct {
	Left  float64 `json:"left"`
	Right float64 `json:"right"`
}

// Geometry describes the visible play field. It depends on the display
// (canvas or terminal) and is supplied by the driver.
type Geometry struct {
	Width        float64 `json:"width"`
	Height       float64 `json:"height"`
	GroundHeight float64 `json:"groundHeight"`
}

// GroundLine returns the y-coordinate of the top of the ground.
func (g Geometry) GroundLine() float64 {
	return g.Height - g.GroundHeight
}

// GapHeight returns the obstacle gap height for this field.
func (g Geometry) GapHeight(p Params) float64 {
	return math.Max(g.Height*p.GapRatio, p.MinGap)
}

// Browser viewport sizing: the canvas keeps a margin on the sides and
// uses 60% of the viewport height.
const (
	viewportSideMargin  = 32
	viewportHeightRatio = 0.6
)

// FieldForViewport sizes the play field for a browser viewport the same way
// the canvas is sized: capped by the configured maximum, never larger than
// the viewport.
func FieldForViewport(f config.FlappyField, viewW, viewH float64) Geometry {
	w := math.Min(f.MaxWidth, viewW-viewportSideMargin)
	h := math.Min(f.MaxHeight, math.Floor(viewH*viewportHeightRatio))

	// Degenerate viewports still get a field the bird fits in.
	w = math.Max(w, 1)
	h = math.Max(h, f.GroundHeight+1)

	return Geometry{Width: w, Height: h, GroundHeight: f.GroundHeight}
}

// FieldForTerminal maps a terminal of cols×rows cells to world units.
func FieldForTerminal(t config.FlappyTerminal, cols, rows int) Geometry {
	rows = max(rows, t.GroundRows+1)
	cols = max(cols, 1)
	return Geometry{
		Width:        float64(cols) * t.CellWidth,
		Height:       float64(rows) * t.CellHeight,
		GroundHeight: float64(t.GroundRows) * t.CellHeight,
	}
}
