package flappy

import "errors"

// ErrRestartWhileRunning is returned by Restart during a live game.
// Drivers only offer restart once the game is over.
var ErrRestartWhileRunning = errors.New("flappy: restart while running")

// Flap applies the upward impulse. The first flap starts the game. Flapping
// after the game is over does nothing.
func (w *World) Flap() {
	if w.phase == PhaseNotStarted {
		w.phase = PhaseRunning
		w.effects.Push(Effect{Kind: EffectSwoosh, Frame: w.frames})
	}
	if w.phase == PhaseOver {
		return
	}

	w.bird.Velocity = w.params.FlapImpulse
	w.flaps = append(w.flaps, w.frames)
	w.effects.Push(Effect{Kind: EffectWing, Frame: w.frames})
}

// Restart resets the world for a new game. The next seed is drawn from the
// current game's RNG so a sequence of games stays reproducible.
func (w *World) Restart() error {
	if w.phase == PhaseRunning {
		return ErrRestartWhileRunning
	}
	w.Reset(w.rng.Int63())
	return nil
}
