package game

import (
	"image"
	"testing"

	"github.com/mpihlak/ebiten-boatrace/pkg/game/objects"
)

func TestTouchZoneContains(t *testing.T) {
	zone := TouchZone{X: 10, Y: 20, Width: 30, Height: 40, Enabled: true}

	tests := []struct {
		name     string
		x, y     int
		expected bool
	}{
		{"Top left corner", 10, 20, true},
		{"Inside", 25, 50, true},
		{"Right edge is exclusive", 40, 30, false},
		{"Bottom edge is exclusive", 20, 60, false},
		{"Outside", 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := zone.Contains(tt.x, tt.y); got != tt.expected {
				t.Errorf("Contains(%d, %d) = %v, want %v", tt.x, tt.y, got, tt.expected)
			}
		})
	}

	zone.Enabled = false
	if zone.Contains(25, 50) {
		t.Error("disabled zone should not contain anything")
	}
}

func TestMobileControlsHeldButtons(t *testing.T) {
	mc := NewMobileControls(1280, 720)

	if in := mc.process(nil, nil); in != (MobileInput{}) {
		t.Fatalf("no touches should give no input, got %+v", in)
	}

	held := []image.Point{
		{X: 50, Y: 650},   // left
		{X: 1200, Y: 550}, // throttle
	}
	in := mc.process(held, nil)

	expected := objects.Controls{Up: true, Left: true}
	if in.Controls != expected {
		t.Errorf("expected %+v, got %+v", expected, in.Controls)
	}
	if !mc.hasTouchInput {
		t.Error("touch input should be detected")
	}

	in = mc.process([]image.Point{{X: 1200, Y: 650}, {X: 50, Y: 550}}, nil)
	expected = objects.Controls{Down: true, Right: true}
	if in.Controls != expected {
		t.Errorf("expected %+v, got %+v", expected, in.Controls)
	}
}

func TestMobileControlsMenu(t *testing.T) {
	mc := NewMobileControls(1280, 720)
	reset := image.Point{X: 30, Y: 80}

	in := mc.process([]image.Point{reset}, []image.Point{reset})
	if in.ResetPressed {
		t.Error("reset should be hidden until the menu is opened")
	}

	menu := image.Point{X: 30, Y: 30}
	mc.process([]image.Point{menu}, []image.Point{menu})
	if !mc.menuOpen {
		t.Fatal("tapping the menu button should open the menu")
	}

	in = mc.process([]image.Point{reset}, []image.Point{reset})
	if !in.ResetPressed {
		t.Error("reset should work once the menu is open")
	}

	next := image.Point{X: 30, Y: 130}
	in = mc.process([]image.Point{next}, []image.Point{next})
	if !in.NextTrackPressed {
		t.Error("next track should work once the menu is open")
	}

	pause := image.Point{X: 640, Y: 660}
	in = mc.process([]image.Point{pause}, []image.Point{pause})
	if !in.PausePressed {
		t.Error("pause button was not detected")
	}
	if in.Controls != (objects.Controls{}) {
		t.Errorf("pause button should not steer, got %+v", in.Controls)
	}
}

func TestMobileControlsResize(t *testing.T) {
	mc := NewMobileControls(1280, 720)
	mc.Resize(800, 600)

	if !mc.rightButton.Contains(750, 550) {
		t.Errorf("right button should follow the new width, got %+v", mc.rightButton)
	}
	if !mc.OnButton(400, 550) {
		t.Error("pause button should be centered on the new width")
	}
	if mc.OnButton(400, 300) {
		t.Error("middle of the screen is not a button")
	}
}
