// Package flappy implements a Flappy Bird-style simulation.
// The player controls a bird that must navigate through gaps in a stream of
// vertical obstacles by timing upward flaps against constant gravity.
//
// World holds the simulation; Game adapts it to the terminal platform.
package flappy

import (
	"github.com/vovakirdan/tui-flappy/internal/config"
	"github.com/vovakirdan/tui-flappy/internal/core"
)

// StepResult is returned by Game.Step after each simulation tick.
type StepResult struct {
	State   core.GameState
	Effects []Effect // Effects raised by input and the step, in order
}

// Game adapts a World to the terminal platform: screen-sized geometry,
// input frames, pause, and rendering into a core.Screen.
type Game struct {
	cfg     config.FlappyConfig
	params  Params
	world   *World
	runtime core.RuntimeConfig
	paused  bool
}

// New creates a game with the given configuration.
func New(cfg config.FlappyConfig) *Game {
	return &Game{
		cfg:    cfg,
		params: ParamsFromConfig(cfg),
	}
}

// ID returns the identifier used for logs and the run journal.
func (g *Game) ID() string {
	return "flappy"
}

// Title returns the display name.
func (g *Game) Title() string {
	return "Flappy Bird"
}

// Reset initializes or restarts the game for the given screen.
func (g *Game) Reset(rc core.RuntimeConfig) {
	g.runtime = rc
	g.paused = false
	geom := FieldForTerminal(g.cfg.Terminal, rc.ScreenW, rc.ScreenH)

	if g.world == nil {
		g.world = NewWorld(g.params, geom, rc.Seed)
		return
	}
	g.world.setGeometry(geom)
	g.world.Reset(rc.Seed)
}

// Resize adapts the play field to a new screen size. A game in progress
// keeps its field until it is restarted.
func (g *Game) Resize(w, h int) {
	g.runtime.ScreenW = w
	g.runtime.ScreenH = h
	if g.world == nil {
		return
	}
	g.world.Resize(FieldForTerminal(g.cfg.Terminal, w, h))
}

// Step applies the input collected since the last tick, then advances the
// world by one frame.
func (g *Game) Step(in core.InputFrame) StepResult {
	phase := g.world.Phase()

	// Pause only makes sense while the world is moving
	if in.Has(core.ActionPause) && phase == PhaseRunning {
		g.paused = !g.paused
	}
	if g.paused {
		return StepResult{State: g.State()}
	}

	if in.Has(core.ActionRestart) && phase == PhaseOver {
		// Cannot fail: the world is over
		_ = g.world.Restart()
	}
	if in.Has(core.ActionJump) {
		g.world.Flap()
	}

	g.world.Step()

	return StepResult{
		State:   g.State(),
		Effects: g.world.Effects(),
	}
}

// World returns the underlying simulation.
func (g *Game) World() *World {
	return g.world
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	phase := g.world.Phase()
	return core.GameState{
		Score:    g.world.Score(),
		Started:  phase != PhaseNotStarted,
		GameOver: phase == PhaseOver,
		Paused:   g.paused,
	}
}
