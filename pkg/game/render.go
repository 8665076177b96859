package game

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/mpihlak/ebiten-boatrace/pkg/dashboard"
	"github.com/mpihlak/ebiten-boatrace/pkg/game/objects"
	"github.com/mpihlak/ebiten-boatrace/pkg/geometry"
	"github.com/mpihlak/ebiten-boatrace/pkg/sim"
)

var (
	waterColor     = color.NRGBA{0, 105, 148, 255}
	buoyColor      = color.NRGBA{255, 140, 0, 255}
	buoyHaloColor  = color.NRGBA{255, 255, 255, 60}
	lineColor      = color.NRGBA{255, 255, 255, 230}
	idealLineColor = color.NRGBA{255, 230, 0, 140}
	ghostColor     = color.NRGBA{255, 255, 255, 110}
)

func drawWorld(screen *ebiten.Image, f *sim.Frame, collisionRadius float64) {
	screen.Fill(waterColor)

	if f.Layout != nil {
		tl := f.Layout.TimingLine
		drawDottedLine(screen, tl.A, tl.B, lineColor)

		for _, b := range f.Layout.Buoys {
			vector.StrokeCircle(screen, float32(b.X), float32(b.Y), float32(collisionRadius), 1, buoyHaloColor, true)
			vector.DrawFilledCircle(screen, float32(b.X), float32(b.Y), 5, buoyColor, true)
		}
	}

	for i := 1; i < len(f.IdealLine); i++ {
		a, b := f.IdealLine[i-1], f.IdealLine[i]
		vector.StrokeLine(screen, float32(a.X), float32(a.Y), float32(b.X), float32(b.Y), 2, idealLineColor, true)
	}

	wake := objects.Wake{Points: f.Wake}
	wake.Segments(func(a, b geometry.Point, alpha float64) {
		// Points on both sides of a wrap are not connected.
		if a.Dist(b) > 50 {
			return
		}
		c := color.NRGBA{173, 216, 230, uint8(150 * alpha)}
		vector.StrokeLine(screen, float32(a.X), float32(a.Y), float32(b.X), float32(b.Y), 2, c, true)
	})

	if f.ShowGhost {
		drawHull(screen, f.Ghost.Pos, f.Ghost.Heading, ghostColor)
	}
	drawHull(screen, f.Craft.Pos, f.Craft.Heading, color.White)
}

// drawDottedLine draws 5 pixel dashes with 2.5 pixel gaps.
func drawDottedLine(screen *ebiten.Image, from, to geometry.Point, c color.Color) {
	const dash, gap = 5.0, 2.5

	length := from.Dist(to)
	if length == 0 {
		return
	}
	dir := to.Sub(from).Scale(1 / length)

	for d := 0.0; d < length; d += dash + gap {
		end := math.Min(d+dash, length)
		a := from.Add(dir.Scale(d))
		b := from.Add(dir.Scale(end))
		vector.StrokeLine(screen, float32(a.X), float32(a.Y), float32(b.X), float32(b.Y), 2, c, false)
	}
}

// drawHull draws the craft as a triangle pointing along heading.
func drawHull(screen *ebiten.Image, pos geometry.Point, heading float64, c color.Color) {
	const length, width = 14.0, 7.0

	dir := geometry.Point{X: math.Cos(heading), Y: math.Sin(heading)}
	side := geometry.Point{X: -dir.Y, Y: dir.X}

	tip := pos.Add(dir.Scale(length / 2))
	base := pos.Sub(dir.Scale(length / 2))
	left := base.Add(side.Scale(width / 2))
	right := base.Sub(side.Scale(width / 2))

	for _, edge := range [][2]geometry.Point{{tip, left}, {left, right}, {right, tip}} {
		vector.StrokeLine(screen,
			float32(edge[0].X), float32(edge[0].Y),
			float32(edge[1].X), float32(edge[1].Y),
			1.5, c, true)
	}
}

func drawDashboard(screen *ebiten.Image, d *dashboard.Dashboard) {
	bounds := screen.Bounds()
	ebitenutil.DebugPrintAt(screen, d.String(), bounds.Dx()-200, 10)

	telemetry := dashboard.Telemetry(d.History)
	if len(telemetry) > 1 {
		ebitenutil.DebugPrintAt(screen, strings.Join(telemetry, "\n"), 10, 70)
	}
}

// drawHelpScreen displays the help overlay when game is paused
func drawHelpScreen(screen *ebiten.Image, touch bool, tracks []string, penalty float64) {
	bounds := screen.Bounds()
	vector.DrawFilledRect(screen, 0, 0, float32(bounds.Dx()), float32(bounds.Dy()), color.NRGBA{0, 0, 0, 180}, false)

	x := bounds.Dx()/2 - 200
	y := bounds.Dy()/2 - 180
	ebitenutil.DebugPrintAt(screen, helpText(touch, tracks, penalty), x, y)
}

func helpText(touch bool, tracks []string, penalty float64) string {
	var b strings.Builder
	b.WriteString("BOAT RACE - PAUSED\n\n")
	b.WriteString("How to Play:\n")
	b.WriteString("  Cross the timing line to start a lap, cross it again to finish.\n")
	fmt.Fprintf(&b, "  Hitting a buoy costs a %g second penalty, once per lap.\n", penalty)
	b.WriteString("  Your last lap comes back as a ghost to race against.\n\n")

	if touch {
		b.WriteString("Touch Controls:\n")
		b.WriteString("  Bottom corners   - Steer\n")
		b.WriteString("  GAS / BRK        - Throttle and brake\n")
		b.WriteString("  Menu button      - Reset and next track\n\n")
		b.WriteString("Tap anywhere to continue...")
	} else {
		quitText := "Quit Game"
		if IsWASM() {
			quitText = "Pause Game"
		}
		b.WriteString("Controls:\n")
		b.WriteString("  Up / W          - Throttle\n")
		b.WriteString("  Down / S        - Brake\n")
		b.WriteString("  Left / A        - Bank left\n")
		b.WriteString("  Right / D       - Bank right\n")
		b.WriteString("  Space           - Pause/Resume\n")
		b.WriteString("  R               - Reset boat\n")
		b.WriteString("  E / I           - Export / import ghost lap\n")
		b.WriteString("  L               - Toggle ideal line\n")
		b.WriteString("  H               - Lap times\n")
		b.WriteString("  Q               - " + quitText + "\n\n")
		b.WriteString("Tracks:\n")
		for i, name := range tracks {
			if i >= 9 {
				break
			}
			fmt.Fprintf(&b, "  %d               - %s\n", i+1, name)
		}
		b.WriteString("\nPress SPACE to continue...")
	}
	return b.String()
}
