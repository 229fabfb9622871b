package flappy

import (
	"fmt"
	"math"

	"github.com/vovakirdan/tui-flappy/internal/core"
)

// Visual characters for rendering
const (
	BirdChar      = '●'
	BeakChar      = '▶'
	PipeChar      = '█'
	PipeCapTop    = '▀'
	PipeCapBottom = '▄'
	GroundChar    = '▒'
	GroundTopChar = '═'
)

// wingFrames cycles the bird's wing; it advances every wingFrameTicks frames.
var wingFrames = [...]rune{'▼', '─', '▲'}

const wingFrameTicks = 5

// Render draws the current game state to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	v := newViewport(g.world.Geometry(), dst)

	for _, o := range g.world.Obstacles() {
		g.drawObstacle(dst, v, o)
	}
	g.drawGround(dst, v)
	g.drawBird(dst, v)

	// Draw HUD
	scoreText := fmt.Sprintf(" Score: %d ", g.world.Score())
	dst.DrawTextColored(2, 0, scoreText, core.ColorBrightYellow)

	switch {
	case g.world.Phase() == PhaseNotStarted:
		g.drawCenteredMessage(dst, "FLAPPY BIRD", "Press Space to flap")
	case g.paused:
		g.drawCenteredMessage(dst, "PAUSED", "Press P to resume")
	case g.world.Phase() == PhaseOver:
		g.drawCenteredMessage(dst, "GAME OVER", fmt.Sprintf("Score: %d  |  Press R to restart", g.world.Score()))
	}
}

// viewport converts world units to screen cells.
type viewport struct {
	sx, sy     float64 // Cells per world unit
	groundRow  int     // First row of the ground band
	cols, rows int
}

func newViewport(geom Geometry, dst *core.Screen) viewport {
	v := viewport{cols: dst.Width(), rows: dst.Height()}
	if geom.Width > 0 && geom.Height > 0 {
		v.sx = float64(v.cols) / geom.Width
		v.sy = float64(v.rows) / geom.Height
	}
	v.groundRow = v.row(geom.GroundLine())
	return v
}

func (v viewport) col(x float64) int { return int(math.Round(x * v.sx)) }
func (v viewport) row(y float64) int { return int(math.Round(y * v.sy)) }

// drawObstacle renders the upper and lower parts of an obstacle with caps
// facing the gap.
func (g *Game) drawObstacle(dst *core.Screen, v viewport, o Obstacle) {
	x0 := v.col(o.X)
	x1 := max(v.col(o.X+g.params.ObstacleWidth), x0+1)
	gapTop := v.row(o.GapTop)
	gapBottom := v.row(o.GapBottom)

	dst.DrawRectColored(core.NewRect(x0, 0, x1-x0, gapTop), PipeChar, core.ColorGreen)
	if gapTop > 0 {
		dst.DrawHLine(x0, gapTop-1, x1-x0, PipeCapTop, core.ColorBrightGreen)
	}

	if gapBottom < v.groundRow {
		dst.DrawRectColored(core.NewRect(x0, gapBottom, x1-x0, v.groundRow-gapBottom), PipeChar, core.ColorGreen)
		dst.DrawHLine(x0, gapBottom, x1-x0, PipeCapBottom, core.ColorBrightGreen)
	}
}

// drawGround renders the ground band below the ground line.
func (g *Game) drawGround(dst *core.Screen, v viewport) {
	if v.groundRow >= v.rows {
		return
	}
	dst.DrawHLine(0, v.groundRow, v.cols, GroundTopChar, core.ColorOrange)
	for y := v.groundRow + 1; y < v.rows; y++ {
		dst.DrawHLine(0, y, v.cols, GroundChar, core.ColorYellow)
	}
}

// drawBird renders the bird body, an animated wing on the left and the
// beak on the right.
func (g *Game) drawBird(dst *core.Screen, v viewport) {
	box := g.world.BirdBox()
	x0 := v.col(box.Left())
	x1 := max(v.col(box.Right()), x0+1)
	y0 := v.row(box.Top())
	y1 := max(v.row(box.Bottom()), y0+1)

	dst.DrawRectColored(core.NewRect(x0, y0, x1-x0, y1-y0), BirdChar, core.ColorBrightYellow)

	wing := wingFrames[(g.world.Frames()/wingFrameTicks)%len(wingFrames)]
	dst.SetColored(x0, y0, wing, core.ColorWhite)
	dst.SetColored(x1-1, y0, BeakChar, core.ColorOrange)
}

// drawCenteredMessage draws a message box in the center of the screen.
func (g *Game) drawCenteredMessage(dst *core.Screen, title, subtitle string) {
	w := dst.Width()
	h := dst.Height()

	// Calculate box dimensions
	boxW := max(len(title), len(subtitle)) + 4
	boxH := 5
	boxX := (w - boxW) / 2
	boxY := (h - boxH) / 2

	// Draw box
	dst.DrawRect(core.NewRect(boxX, boxY, boxW, boxH), ' ')
	dst.DrawBox(core.NewRect(boxX, boxY, boxW, boxH))

	// Draw text
	titleX := boxX + (boxW-len(title))/2
	dst.DrawTextColored(titleX, boxY+1, title, core.ColorBrightCyan)

	subtitleX := boxX + (boxW-len(subtitle))/2
	dst.DrawText(subtitleX, boxY+3, subtitle)
}
