package game

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/mpihlak/ebiten-boatrace/pkg/game/objects"
)

// MobileControls handles touch-based input for mobile devices
type MobileControls struct {
	// Held buttons
	leftButton     TouchZone
	rightButton    TouchZone
	throttleButton TouchZone
	brakeButton    TouchZone

	// Tap buttons
	pauseButton     TouchZone
	menuButton      TouchZone
	resetButton     TouchZone
	nextTrackButton TouchZone

	input         MobileInput
	menuOpen      bool
	hasTouchInput bool // Track if we've ever seen touch input
}

// TouchZone defines a rectangular touch area
type TouchZone struct {
	X, Y, Width, Height int
	Enabled             bool
}

// MobileInput represents the current mobile input state
type MobileInput struct {
	Controls objects.Controls

	PausePressed     bool
	ResetPressed     bool
	NextTrackPressed bool
}

func NewMobileControls(screenWidth, screenHeight int) *MobileControls {
	mc := &MobileControls{}
	mc.Resize(screenWidth, screenHeight)
	return mc
}

// Resize lays the buttons out for a new screen size. Steering sits in the
// bottom corners with throttle and brake above them.
func (mc *MobileControls) Resize(screenWidth, screenHeight int) {
	const (
		buttonSize = 80
		margin     = 20
		small      = buttonSize / 2
	)
	bottom := screenHeight - buttonSize - margin
	above := bottom - buttonSize - margin

	mc.leftButton = TouchZone{X: margin, Y: bottom, Width: buttonSize, Height: buttonSize, Enabled: true}
	mc.rightButton = TouchZone{X: screenWidth - buttonSize - margin, Y: bottom, Width: buttonSize, Height: buttonSize, Enabled: true}
	mc.brakeButton = TouchZone{X: margin, Y: above, Width: buttonSize, Height: buttonSize, Enabled: true}
	mc.throttleButton = TouchZone{X: screenWidth - buttonSize - margin, Y: above, Width: buttonSize, Height: buttonSize, Enabled: true}
	mc.pauseButton = TouchZone{X: screenWidth/2 - buttonSize/2, Y: bottom, Width: buttonSize, Height: buttonSize, Enabled: true}

	mc.menuButton = TouchZone{X: margin, Y: margin, Width: small, Height: small, Enabled: true}
	mc.resetButton = TouchZone{X: margin, Y: margin + small + 10, Width: small, Height: small, Enabled: mc.menuOpen}
	mc.nextTrackButton = TouchZone{X: margin, Y: margin + 2*(small+10), Width: small, Height: small, Enabled: mc.menuOpen}
}

// Contains checks if a point is within the touch zone
func (tz *TouchZone) Contains(x, y int) bool {
	return tz.Enabled &&
		x >= tz.X && x < tz.X+tz.Width &&
		y >= tz.Y && y < tz.Y+tz.Height
}

// OnButton reports whether (x, y) hits any button, so that a tap elsewhere
// can be treated as a tap on the playing field.
func (mc *MobileControls) OnButton(x, y int) bool {
	for _, z := range mc.zones() {
		if z.Contains(x, y) {
			return true
		}
	}
	return false
}

func (mc *MobileControls) zones() []*TouchZone {
	return []*TouchZone{
		&mc.leftButton, &mc.rightButton, &mc.throttleButton, &mc.brakeButton,
		&mc.pauseButton, &mc.menuButton, &mc.resetButton, &mc.nextTrackButton,
	}
}

// Update reads the touch screen and returns this tick's touch input.
func (mc *MobileControls) Update() MobileInput {
	var held, tapped []image.Point
	for _, id := range ebiten.AppendTouchIDs(nil) {
		x, y := ebiten.TouchPosition(id)
		held = append(held, image.Pt(x, y))
	}
	for _, id := range inpututil.AppendJustPressedTouchIDs(nil) {
		x, y := ebiten.TouchPosition(id)
		tapped = append(tapped, image.Pt(x, y))
	}
	return mc.process(held, tapped)
}

// process maps touch points to input. held are all current touches, tapped
// the ones that started this tick.
func (mc *MobileControls) process(held, tapped []image.Point) MobileInput {
	mc.input = MobileInput{}
	if len(held) > 0 {
		mc.hasTouchInput = true
	}
	if !mc.hasTouchInput {
		return mc.input
	}

	for _, p := range held {
		switch {
		case mc.leftButton.Contains(p.X, p.Y):
			mc.input.Controls.Left = true
		case mc.rightButton.Contains(p.X, p.Y):
			mc.input.Controls.Right = true
		case mc.throttleButton.Contains(p.X, p.Y):
			mc.input.Controls.Up = true
		case mc.brakeButton.Contains(p.X, p.Y):
			mc.input.Controls.Down = true
		}
	}

	for _, p := range tapped {
		switch {
		case mc.pauseButton.Contains(p.X, p.Y):
			mc.input.PausePressed = true
		case mc.menuButton.Contains(p.X, p.Y):
			mc.menuOpen = !mc.menuOpen
			mc.resetButton.Enabled = mc.menuOpen
			mc.nextTrackButton.Enabled = mc.menuOpen
		case mc.resetButton.Contains(p.X, p.Y):
			mc.input.ResetPressed = true
		case mc.nextTrackButton.Contains(p.X, p.Y):
			mc.input.NextTrackPressed = true
		}
	}
	return mc.input
}

// Draw renders the mobile control elements on screen
func (mc *MobileControls) Draw(screen *ebiten.Image, isPaused bool) {
	// Only show controls if we've detected touch input (actual mobile device)
	if !mc.hasTouchInput {
		return
	}

	in := mc.input.Controls
	mc.drawButton(screen, mc.leftButton, "<", buttonColor(in.Left))
	mc.drawButton(screen, mc.rightButton, ">", buttonColor(in.Right))
	mc.drawButton(screen, mc.throttleButton, "GAS", buttonColor(in.Up))
	mc.drawButton(screen, mc.brakeButton, "BRK", buttonColor(in.Down))

	pauseText := "||"
	if isPaused {
		pauseText = ">"
	}
	mc.drawButton(screen, mc.pauseButton, pauseText, buttonColor(mc.input.PausePressed))
	mc.drawButton(screen, mc.menuButton, "=", color.NRGBA{80, 80, 80, 200})

	if mc.menuOpen {
		mc.drawButton(screen, mc.resetButton, "R", color.NRGBA{150, 100, 100, 200})
		mc.drawButton(screen, mc.nextTrackButton, "T+", color.NRGBA{100, 150, 100, 200})
	}
}

func buttonColor(pressed bool) color.NRGBA {
	if pressed {
		return color.NRGBA{150, 150, 150, 220}
	}
	return color.NRGBA{100, 100, 100, 200}
}

func (mc *MobileControls) drawButton(screen *ebiten.Image, zone TouchZone, text string, bg color.Color) {
	if !zone.Enabled {
		return
	}

	vector.DrawFilledRect(screen,
		float32(zone.X), float32(zone.Y),
		float32(zone.Width), float32(zone.Height),
		bg, false)
	vector.StrokeRect(screen,
		float32(zone.X), float32(zone.Y),
		float32(zone.Width), float32(zone.Height),
		2, color.NRGBA{255, 255, 255, 150}, false)

	ebitenutil.DebugPrintAt(screen, text, zone.X+zone.Width/2-3*len(text), zone.Y+zone.Height/2-8)
}
