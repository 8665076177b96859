package game

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/mpihlak/ebiten-boatrace/pkg/geometry"
)

// Telltale is a streamer hanging from a sticker that shows how hard the
// craft is banked. It hangs straight down when level and swings towards the
// side of the turn, fluttering more the faster the craft goes.
type Telltale struct {
	Length  float64 // Length in pixels
	BaseX   float64 // Screen X position (hinge point)
	BaseY   float64 // Screen Y position (hinge point)
	Angle   float64 // Degrees from straight down, positive swings right
	MaxBank float64

	elapsedTime float64
	wobblePhase float64
}

func NewTelltale(screenWidth int, maxBank float64) *Telltale {
	t := &Telltale{
		Length:      60.0,
		MaxBank:     maxBank,
		wobblePhase: math.Pi * 0.3, // Slight phase offset for natural look
	}
	t.Resize(screenWidth)
	return t
}

func (t *Telltale) Resize(screenWidth int) {
	t.BaseX = float64(screenWidth / 2)
	t.BaseY = 40
}

// Update swings the streamer for the current bank angle. speedFraction is
// the craft speed relative to top speed.
func (t *Telltale) Update(dt, bankDeg, speedFraction float64) {
	t.elapsedTime += dt
	t.Angle = telltaleAngle(bankDeg, t.MaxBank, speedFraction, t.elapsedTime, t.wobblePhase)
}

// telltaleAngle maps the bank to at most 80 degrees of swing and adds a
// flutter whose amplitude grows with speed.
func telltaleAngle(bankDeg, maxBank, speedFraction, elapsed, phase float64) float64 {
	const maxSwing = 80.0

	base := 0.0
	if maxBank > 0 {
		base = geometry.Clamp(bankDeg/maxBank, -1, 1) * maxSwing
	}

	speedFraction = geometry.Clamp(speedFraction, 0, 1)
	frequency := 2.0 + 6.0*speedFraction
	amplitude := 4.0 * speedFraction

	// Several sine waves for natural movement
	wobble := math.Sin(elapsed*frequency+phase)*amplitude +
		math.Sin(elapsed*frequency*1.7+phase*1.3)*amplitude*0.3 +
		math.Sin(elapsed*frequency*0.6+phase*0.7)*amplitude*0.5

	return base + wobble
}

func (t *Telltale) Draw(screen *ebiten.Image, bankDeg float64) {
	const stickerRadius = 8.0
	red := color.NRGBA{255, 0, 0, 255}

	vector.DrawFilledCircle(screen, float32(t.BaseX), float32(t.BaseY), stickerRadius, red, false)

	rad := t.Angle * math.Pi / 180
	endX := t.BaseX + t.Length*math.Sin(rad)
	endY := t.BaseY + t.Length*math.Cos(rad)
	vector.StrokeLine(screen,
		float32(t.BaseX), float32(t.BaseY),
		float32(endX), float32(endY),
		4.0, red, false)

	ebitenutil.DebugPrintAt(screen, bankLabel(bankDeg), int(t.BaseX)+14, int(t.BaseY)-6)
}

func bankLabel(bankDeg float64) string {
	switch {
	case bankDeg < -0.5:
		return "L"
	case bankDeg > 0.5:
		return "R"
	}
	return ""
}
