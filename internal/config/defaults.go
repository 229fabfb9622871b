package config

import (
	_ "embed"
)

//go:embed defaults/flappy.yaml
var defaultFlappyYAML []byte

// Default returns the hardcoded default configuration.
// It mirrors defaults/flappy.yaml and is used when the embedded file
// cannot be parsed.
func Default() FlappyConfig {
	return FlappyConfig{
		Physics: FlappyPhysics{
			Gravity:       0.54,
			FlapImpulse:   -8.5,
			ObstacleSpeed: 3.2,
		},
		Obstacles: FlappyObstacles{
			Width:           52,
			SpawnSpacing:    200,
			GapRatio:        0.24,
			MinGap:          120,
			TopMargin:       20,
			GroundClearance: 60,
		},
		Bird: FlappyBird{
			X:            60,
			Width:        34,
			Height:       24,
			DeathDelayMS: 500,
		},
		Field: FlappyField{
			MaxWidth:     420,
			MaxHeight:    600,
			GroundHeight: 112,
		},
		Terminal: FlappyTerminal{
			CellWidth:  5.25,
			CellHeight: 25,
			GroundRows: 2,
		},
	}
}

// DefaultYAML returns the embedded default YAML.
func DefaultYAML() []byte {
	return defaultFlappyYAML
}
