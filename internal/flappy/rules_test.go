package flappy

import (
	"testing"

	"github.com/vovakirdan/tui-flappy/internal/core"
)

func TestOverlapsSlot(t *testing.T) {
	slot := Slot{Left: 43, Right: 77}

	tests := []struct {
		name string
		x    float64
		want bool
	}{
		{"far right", 200, false},
		{"touching right edge", 77, false},
		{"entering", 76.9, true},
		{"covering", 50, true},
		{"leaving", -8.9, true},
		{"touching left edge", -9, false},
		{"far left", -100, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := OverlapsSlot(Obstacle{X: tc.x}, 52, slot); got != tc.want {
				t.Errorf("OverlapsSlot(x=%v) = %v, expected %v", tc.x, got, tc.want)
			}
		})
	}
}

func TestHitsObstacle(t *testing.T) {
	o := Obstacle{GapTop: 100, GapBottom: 244}

	tests := []struct {
		name string
		y    float64 // Bird center, height 24
		want bool
	}{
		{"centered in gap", 172, false},
		{"touching top", 112, false},
		{"touching bottom", 232, false},
		{"clipping top", 111, true},
		{"clipping bottom", 233, true},
		{"far below", 400, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			bird := core.CenteredRectF(60, tc.y, 34, 24)
			if got := HitsObstacle(bird, o); got != tc.want {
				t.Errorf("HitsObstacle(y=%v) = %v, expected %v", tc.y, got, tc.want)
			}
		})
	}
}

func TestPassed(t *testing.T) {
	slot := Slot{Left: 43, Right: 77}

	tests := []struct {
		name string
		o    Obstacle
		want bool
	}{
		{"still overlapping", Obstacle{X: -8.8}, false},
		{"exactly at edge", Obstacle{X: -9}, false},
		{"cleared", Obstacle{X: -12}, true},
		{"already scored", Obstacle{X: -12, Scored: true}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Passed(tc.o, 52, slot); got != tc.want {
				t.Errorf("Passed(%+v) = %v, expected %v", tc.o, got, tc.want)
			}
		})
	}
}

func TestOnGround(t *testing.T) {
	tests := []struct {
		y    float64
		want bool
	}{
		{475, false},
		{476, true}, // Bottom exactly on the ground line
		{490, true},
	}

	for _, tc := range tests {
		bird := core.CenteredRectF(60, tc.y, 34, 24)
		if got := OnGround(bird, 488); got != tc.want {
			t.Errorf("OnGround(y=%v) = %v, expected %v", tc.y, got, tc.want)
		}
	}
}

func TestOffScreen(t *testing.T) {
	if OffScreen(Obstacle{X: -52}, 52) {
		t.Error("obstacle with trailing edge at 0 is still visible")
	}
	if !OffScreen(Obstacle{X: -52.1}, 52) {
		t.Error("obstacle with trailing edge past 0 should be off screen")
	}
}
