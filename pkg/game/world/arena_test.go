package world

import (
	"testing"

	"github.com/mpihlak/ebiten-boatrace/pkg/geometry"
	"github.com/mpihlak/ebiten-boatrace/pkg/track"
)

func testArena(buoys ...geometry.Point) *Arena {
	a := &Arena{
		TimingLine: geometry.Segment{A: geometry.Point{X: 190, Y: 300}, B: geometry.Point{X: 400, Y: 600}},
		Width:      800,
		Height:     600,
	}
	for i, p := range buoys {
		a.Buoys = append(a.Buoys, Buoy{Pos: p, Index: i})
	}
	return a
}

func TestCheckCollisions_DirectHit(t *testing.T) {
	arena := testArena(geometry.Point{X: 190, Y: 300}, geometry.Point{X: 610, Y: 300})

	// Craft on top of the first buoy
	collisions := arena.CheckCollisions(geometry.Point{X: 190, Y: 300}, 12)

	if len(collisions) != 1 {
		t.Fatalf("Expected 1 collision, got %d", len(collisions))
	}
	if collisions[0].Buoy.Index != 0 {
		t.Errorf("Expected collision with buoy 0, got %d", collisions[0].Buoy.Index)
	}
	if collisions[0].Type != CollisionBuoy {
		t.Errorf("Expected CollisionBuoy type, got %v", collisions[0].Type)
	}
}

func TestCheckCollisions_NearMiss(t *testing.T) {
	arena := testArena(geometry.Point{X: 190, Y: 300})

	collisions := arena.CheckCollisions(geometry.Point{X: 210, Y: 300}, 12)

	if len(collisions) != 0 {
		t.Errorf("Expected no collision, got %d collisions", len(collisions))
	}
}

func TestCheckCollisions_EdgeCase(t *testing.T) {
	arena := testArena(geometry.Point{X: 190, Y: 300})

	// Exactly at the radius does not count
	collisions := arena.CheckCollisions(geometry.Point{X: 202, Y: 300}, 12)
	if len(collisions) != 0 {
		t.Errorf("Expected no collision at threshold, got %d", len(collisions))
	}

	collisions = arena.CheckCollisions(geometry.Point{X: 201.9, Y: 300}, 12)
	if len(collisions) != 1 {
		t.Errorf("Expected collision just inside threshold, got %d", len(collisions))
	}
}

func TestCheckCollisions_MultipleBuoys(t *testing.T) {
	arena := testArena(
		geometry.Point{X: 100, Y: 100},
		geometry.Point{X: 110, Y: 100},
		geometry.Point{X: 400, Y: 400},
	)

	collisions := arena.CheckCollisions(geometry.Point{X: 105, Y: 100}, 12)
	if len(collisions) != 2 {
		t.Fatalf("Expected 2 collisions, got %d", len(collisions))
	}

	first, ok := arena.FirstCollision(geometry.Point{X: 105, Y: 100}, 12)
	if !ok || first.Buoy.Index != 0 {
		t.Errorf("Expected first collision with buoy 0, got %+v (ok=%v)", first, ok)
	}
}

func TestCheckCollisions_NoBuoys(t *testing.T) {
	arena := testArena()

	if collisions := arena.CheckCollisions(geometry.Point{X: 100, Y: 100}, 12); len(collisions) != 0 {
		t.Errorf("Expected no collisions with empty arena, got %d", len(collisions))
	}
	if _, ok := arena.FirstCollision(geometry.Point{X: 100, Y: 100}, 12); ok {
		t.Error("Expected no first collision with empty arena")
	}
}

func TestCheckCollisions_DiagonalDistance(t *testing.T) {
	arena := testArena(geometry.Point{X: 300, Y: 300})

	// 3-4-5 triangle, distance 5
	collisions := arena.CheckCollisions(geometry.Point{X: 303, Y: 304}, 12)
	if len(collisions) != 1 {
		t.Fatalf("Expected collision at diagonal distance, got %d", len(collisions))
	}
	if collisions[0].Dist != 5 {
		t.Errorf("Expected distance 5, got %.3f", collisions[0].Dist)
	}
}

func TestCrossesTimingLine(t *testing.T) {
	arena := testArena()

	tests := []struct {
		name     string
		prev     geometry.Point
		cur      geometry.Point
		expected bool
	}{
		{"Left to right", geometry.Point{X: 280, Y: 450}, geometry.Point{X: 300, Y: 450}, true},
		{"Right to left", geometry.Point{X: 300, Y: 450}, geometry.Point{X: 280, Y: 450}, true},
		{"Stays left", geometry.Point{X: 200, Y: 450}, geometry.Point{X: 250, Y: 450}, false},
		{"Past the buoy end", geometry.Point{X: 150, Y: 250}, geometry.Point{X: 250, Y: 250}, false},
		{"Ends on bottom edge", geometry.Point{X: 380, Y: 590}, geometry.Point{X: 420, Y: 600}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := arena.CrossesTimingLine(tt.prev, tt.cur); got != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestNewArenaFromLayout(t *testing.T) {
	l := track.NewLayout(track.SpeedTrack, 800, 600)
	arena := NewArena(l)

	if len(arena.Buoys) != 3 {
		t.Fatalf("Expected 3 buoys, got %d", len(arena.Buoys))
	}
	for i, b := range arena.Buoys {
		if b.Pos != l.Buoys[i] || b.Index != i {
			t.Errorf("Buoy %d mismatch: %+v vs %v", i, b, l.Buoys[i])
		}
	}
	if arena.TimingLine != l.TimingLine {
		t.Errorf("Expected timing line %v, got %v", l.TimingLine, arena.TimingLine)
	}
}
