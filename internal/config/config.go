// Package config provides YAML-based game configuration loading for the
// flappy platform.
package config

import (
	"errors"
	"fmt"
)

// FlappyConfig contains all configuration for the game.
type FlappyConfig struct {
	Physics   FlappyPhysics   `yaml:"physics"`
	Obstacles FlappyObstacles `yaml:"obstacles"`
	Bird      FlappyBird      `yaml:"bird"`
	Field     FlappyField     `yaml:"field"`
	Terminal  FlappyTerminal  `yaml:"terminal"`
}

// FlappyPhysics defines physics parameters. Values are per frame.
type FlappyPhysics struct {
	Gravity       float64 `yaml:"gravity"`
	FlapImpulse   float64 `yaml:"flap_impulse"`
	ObstacleSpeed float64 `yaml:"obstacle_speed"`
}

// FlappyObstacles defines obstacle parameters.
type FlappyObstacles struct {
	Width           float64 `yaml:"width"`
	SpawnSpacing    float64 `yaml:"spawn_spacing"`
	GapRatio        float64 `yaml:"gap_ratio"` // Gap height as a fraction of field height
	MinGap          float64 `yaml:"min_gap"`
	TopMargin       float64 `yaml:"top_margin"`
	GroundClearance float64 `yaml:"ground_clearance"`
}

// FlappyBird defines the bird hitbox and its fixed horizontal slot.
type FlappyBird struct {
	X            float64 `yaml:"x"` // Center of the horizontal slot
	Width        float64 `yaml:"width"`
	Height       float64 `yaml:"height"`
	DeathDelayMS int     `yaml:"death_delay_ms"`
}

// FlappyField defines the play field used by the browser driver.
type FlappyField struct {
	MaxWidth     float64 `yaml:"max_width"`
	MaxHeight    float64 `yaml:"max_height"`
	GroundHeight float64 `yaml:"ground_height"`
}

// FlappyTerminal defines how terminal cells map to world units.
type FlappyTerminal struct {
	CellWidth  float64 `yaml:"cell_width"`
	CellHeight float64 `yaml:"cell_height"`
	GroundRows int     `yaml:"ground_rows"`
}

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Validate checks that the configuration describes a playable game.
func (c FlappyConfig) Validate() error {
	positive := []struct {
		name  string
		value float64
	}{
		{"physics.gravity", c.Physics.Gravity},
		{"physics.obstacle_speed", c.Physics.ObstacleSpeed},
		{"obstacles.width", c.Obstacles.Width},
		{"obstacles.spawn_spacing", c.Obstacles.SpawnSpacing},
		{"obstacles.min_gap", c.Obstacles.MinGap},
		{"bird.width", c.Bird.Width},
		{"bird.height", c.Bird.Height},
		{"field.max_width", c.Field.MaxWidth},
		{"field.max_height", c.Field.MaxHeight},
		{"terminal.cell_width", c.Terminal.CellWidth},
		{"terminal.cell_height", c.Terminal.CellHeight},
	}
	for _, p := range positive {
		if p.value <= 0 {
			return fmt.Errorf("%w: %s must be positive, got %v", ErrInvalidConfig, p.name, p.value)
		}
	}

	// Negative is upward; a non-negative flap could never lift the bird.
	if c.Physics.FlapImpulse >= 0 {
		return fmt.Errorf("%w: physics.flap_impulse must be negative, got %v", ErrInvalidConfig, c.Physics.FlapImpulse)
	}
	if c.Obstacles.GapRatio < 0 || c.Obstacles.GapRatio >= 1 {
		return fmt.Errorf("%w: obstacles.gap_ratio must be in [0, 1), got %v", ErrInvalidConfig, c.Obstacles.GapRatio)
	}
	if c.Field.GroundHeight < 0 || c.Field.GroundHeight >= c.Field.MaxHeight {
		return fmt.Errorf("%w: field.ground_height must be in [0, max_height), got %v", ErrInvalidConfig, c.Field.GroundHeight)
	}
	if c.Terminal.GroundRows < 0 {
		return fmt.Errorf("%w: terminal.ground_rows must not be negative", ErrInvalidConfig)
	}
	if c.Bird.DeathDelayMS < 0 {
		return fmt.Errorf("%w: bird.death_delay_ms must not be negative", ErrInvalidConfig)
	}
	return nil
}
