package flappy

import "github.com/vovakirdan/tui-flappy/internal/core"

// Collision and scoring predicates. They are pure so that the stepper's
// decisions can be tested edge by edge.

// OverlapsSlot reports whether an obstacle of the given width horizontally
// overlaps the bird's slot.
func OverlapsSlot(o Obstacle, width float64, s Slot) bool {
	return o.X < s.Right && o.X+width > s.Left
}

// HitsObstacle reports whether a bird box that overlaps the obstacle
// horizontally leaves its gap vertically.
func HitsObstacle(bird core.RectF, o Obstacle) bool {
	return bird.Top() < o.GapTop || bird.Bottom() > o.GapBottom
}

// Passed reports whether an unscored obstacle's trailing edge has cleared
// the left side of the slot.
func Passed(o Obstacle, width float64, s Slot) bool {
	return !o.Scored && o.X+width < s.Left
}

// OnGround reports whether the bird's bottom edge reached the ground line.
func OnGround(bird core.RectF, groundLine float64) bool {
	return bird.Bottom() >= groundLine
}

// OffScreen reports whether an obstacle's trailing edge left the field.
func OffScreen(o Obstacle, width float64) bool {
	return o.X+width < 0
}
