package flappy

import (
	"errors"
	"testing"
	"time"

	"github.com/vovakirdan/tui-flappy/internal/config"
)

func TestDefaultParams(t *testing.T) {
	p := DefaultParams()

	if p.Gravity != 0.54 || p.FlapImpulse != -8.5 || p.ObstacleSpeed != 3.2 {
		t.Errorf("physics = %v/%v/%v, expected 0.54/-8.5/3.2", p.Gravity, p.FlapImpulse, p.ObstacleSpeed)
	}
	if p.ObstacleWidth != 52 || p.SpawnSpacing != 200 {
		t.Errorf("obstacle width/spacing = %v/%v, expected 52/200", p.ObstacleWidth, p.SpawnSpacing)
	}
	if p.BirdX != 60 || p.BirdWidth != 34 || p.BirdHeight != 24 {
		t.Errorf("bird = %v %vx%v, expected 60 34x24", p.BirdX, p.BirdWidth, p.BirdHeight)
	}
	if p.DeathDelay != 500*time.Millisecond {
		t.Errorf("death delay = %v, expected 500ms", p.DeathDelay)
	}
	if err := p.Validate(); err != nil {
		t.Errorf("default params invalid: %v", err)
	}
}

func TestParamsValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *Params)
	}{
		{"zero gravity", func(p *Params) { p.Gravity = 0 }},
		{"downward flap", func(p *Params) { p.FlapImpulse = 2 }},
		{"stopped obstacles", func(p *Params) { p.ObstacleSpeed = 0 }},
		{"flat bird", func(p *Params) { p.BirdHeight = 0 }},
		{"thin obstacle", func(p *Params) { p.ObstacleWidth = -1 }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := DefaultParams()
			tc.mutate(&p)
			if err := p.Validate(); !errors.Is(err, ErrInvalidParams) {
				t.Errorf("Validate() = %v, expected ErrInvalidParams", err)
			}
		})
	}
}

func TestGapHeight(t *testing.T) {
	p := DefaultParams()

	tests := []struct {
		height float64
		want   float64
	}{
		{600, 144},
		{400, 120}, // 96 is below the minimum gap
		{1000, 240},
	}

	for _, tc := range tests {
		g := Geometry{Width: 420, Height: tc.height, GroundHeight: 112}
		if got := g.GapHeight(p); got != tc.want {
			t.Errorf("GapHeight(h=%v) = %v, expected %v", tc.height, got, tc.want)
		}
	}
}

func TestFieldForViewport(t *testing.T) {
	field := config.Default().Field

	tests := []struct {
		name         string
		viewW, viewH float64
		want         Geometry
	}{
		{"desktop", 1920, 1080, Geometry{Width: 420, Height: 600, GroundHeight: 112}},
		{"phone", 390, 844, Geometry{Width: 358, Height: 506, GroundHeight: 112}},
		{"short window", 1280, 500, Geometry{Width: 420, Height: 300, GroundHeight: 112}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := FieldForViewport(field, tc.viewW, tc.viewH); got != tc.want {
				t.Errorf("FieldForViewport(%v, %v) = %+v, expected %+v", tc.viewW, tc.viewH, got, tc.want)
			}
		})
	}
}

func TestFieldForTerminal(t *testing.T) {
	term := config.Default().Terminal

	got := FieldForTerminal(term, 80, 24)
	want := Geometry{Width: 420, Height: 600, GroundHeight: 50}
	if got != want {
		t.Errorf("FieldForTerminal(80, 24) = %+v, expected %+v", got, want)
	}

	// Tiny terminals still leave a row above the ground
	tiny := FieldForTerminal(term, 0, 0)
	if tiny.Height <= tiny.GroundHeight || tiny.Width <= 0 {
		t.Errorf("FieldForTerminal(0, 0) = %+v, expected a usable field", tiny)
	}
}

func TestSlot(t *testing.T) {
	s := DefaultParams().Slot()
	if s.Left != 43 || s.Right != 77 {
		t.Errorf("Slot() = %+v, expected [43, 77]", s)
	}
}
