package tui

import (
	"github.com/vovakirdan/tui-flappy/internal/core"
	"github.com/vovakirdan/tui-flappy/internal/flappy"
)

// HUD timings, in ticks.
const (
	hitFlashTicks = 6
	bonusTicks    = 30
)

// HUD presents simulation effects on top of the rendered game: the scene
// flashes red on a hit, a "+1" follows the score, and a restart hint
// appears once the dead effect is due.
type HUD struct {
	flash int
	bonus int
	dead  bool
}

// NewHUD creates an idle HUD.
func NewHUD() *HUD {
	return &HUD{}
}

// HandleEffect implements flappy.Sink. The dead effect is delayed by the
// model and arrives through ShowDead.
func (h *HUD) HandleEffect(e flappy.Effect) {
	switch e.Kind {
	case flappy.EffectHit:
		h.flash = hitFlashTicks
	case flappy.EffectScored:
		h.bonus = bonusTicks
	case flappy.EffectSwoosh:
		h.Reset()
	}
}

// ShowDead shows the restart hint.
func (h *HUD) ShowDead() {
	h.dead = true
}

// Reset clears all pending presentation.
func (h *HUD) Reset() {
	*h = HUD{}
}

// Tick advances the HUD timers by one frame.
func (h *HUD) Tick() {
	if h.flash > 0 {
		h.flash--
	}
	if h.bonus > 0 {
		h.bonus--
	}
}

// Flashing reports whether the hit flash is visible.
func (h *HUD) Flashing() bool { return h.flash > 0 }

// Render draws the HUD over an already rendered game screen.
func (h *HUD) Render(dst *core.Screen, score int) {
	if h.flash > 0 {
		for y := range dst.Height() {
			for x := range dst.Width() {
				if c := dst.GetCell(x, y); c.Rune != ' ' {
					dst.SetColored(x, y, c.Rune, core.ColorRed)
				}
			}
		}
	}

	if h.bonus > 0 {
		// Right after " Score: N " at column 2
		x := 2 + len(" Score: ") + digits(score) + 1
		dst.DrawTextColored(x, 0, "+1", core.ColorBrightGreen)
	}

	if h.dead {
		dst.DrawTextCentered(dst.Height()-1, " tap R to fly again ", core.ColorBrightCyan)
	}
}

func digits(n int) int {
	d := 1
	for n >= 10 {
		n /= 10
		d++
	}
	return d
}
