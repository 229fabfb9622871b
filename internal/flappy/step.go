package flappy

import "slices"

// Step advances the world by one frame. It does nothing unless the game is
// running. The stages run in a fixed order that decides the edge cases:
//
//  1. integrate the bird
//  2. clamp to the ground (ends the frame early)
//  3. advance obstacles
//  4. obstacle collisions
//  5. scoring
//  6. recycle the leftmost obstacle
//  7. spawn a new obstacle
func (w *World) Step() {
	if w.phase != PhaseRunning {
		return
	}
	w.frames++

	w.bird.Velocity += w.params.Gravity
	w.bird.Y += w.bird.Velocity

	ground := w.geom.GroundLine()
	if OnGround(w.BirdBox(), ground) {
		w.bird.Y = ground - w.params.BirdHeight/2
		w.end(CauseGround)
		return
	}

	for i := range w.obstacles {
		w.obstacles[i].X -= w.params.ObstacleSpeed
	}

	slot := w.params.Slot()
	width := w.params.ObstacleWidth
	box := w.BirdBox()
	for _, o := range w.obstacles {
		if OverlapsSlot(o, width, slot) && HitsObstacle(box, o) {
			w.end(CauseObstacle)
		}
	}

	for i := range w.obstacles {
		if Passed(w.obstacles[i], width, slot) {
			w.obstacles[i].Scored = true
			w.score++
			w.effects.Push(Effect{Kind: EffectScored, Frame: w.frames})
		}
	}

	if len(w.obstacles) > 0 && OffScreen(w.obstacles[0], width) {
		w.obstacles = slices.Delete(w.obstacles, 0, 1)
	}

	// An empty sequence only happens when the spacing exceeds the field
	// width; spawn anyway so the stream never stops.
	if n := len(w.obstacles); n == 0 || w.obstacles[n-1].X < w.geom.Width-w.params.SpawnSpacing {
		w.obstacles = append(w.obstacles, w.newObstacle())
	}
}

// end moves the game to Over. The hit and dead effects fire once per game
// no matter how many collisions are detected.
func (w *World) end(cause EndCause) {
	w.phase = PhaseOver
	if w.hitFired {
		return
	}
	w.hitFired = true
	w.cause = cause
	w.effects.Push(Effect{Kind: EffectHit, Frame: w.frames})
	w.effects.Push(Effect{Kind: EffectDead, Frame: w.frames, Delay: w.params.DeathDelay})
}
