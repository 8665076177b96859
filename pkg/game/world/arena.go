package world

import (
	"github.com/mpihlak/ebiten-boatrace/pkg/geometry"
	"github.com/mpihlak/ebiten-boatrace/pkg/track"
)

type Buoy struct {
	Pos   geometry.Point
	Index int
}

type CollisionType int

const (
	CollisionNone CollisionType = iota
	CollisionBuoy
)

type Collision struct {
	Type CollisionType
	Buoy Buoy
	Dist float64
}

// Arena is the playing field in pixel space: the buoys and the timing line.
type Arena struct {
	Buoys      []Buoy
	TimingLine geometry.Segment
	Width      float64
	Height     float64
}

func NewArena(l *track.Layout) *Arena {
	a := &Arena{
		Buoys:      make([]Buoy, len(l.Buoys)),
		TimingLine: l.TimingLine,
		Width:      l.Width,
		Height:     l.Height,
	}
	for i, p := range l.Buoys {
		a.Buoys[i] = Buoy{Pos: p, Index: i}
	}
	return a
}

// CheckCollisions returns the buoys strictly closer than radius to pos, in
// buoy order.
func (a *Arena) CheckCollisions(pos geometry.Point, radius float64) []Collision {
	var collisions []Collision
	for _, b := range a.Buoys {
		if d := b.Pos.Dist(pos); d < radius {
			collisions = append(collisions, Collision{Type: CollisionBuoy, Buoy: b, Dist: d})
		}
	}
	return collisions
}

// FirstCollision is CheckCollisions that stops at the first hit.
func (a *Arena) FirstCollision(pos geometry.Point, radius float64) (Collision, bool) {
	for _, b := range a.Buoys {
		if d := b.Pos.Dist(pos); d < radius {
			return Collision{Type: CollisionBuoy, Buoy: b, Dist: d}, true
		}
	}
	return Collision{}, false
}

// CrossesTimingLine reports whether the move from prev to cur properly
// crosses the timing line. Moves that end exactly on the viewport border are
// ignored since they come from wrapping around an edge.
func (a *Arena) CrossesTimingLine(prev, cur geometry.Point) bool {
	if cur.X == 0 || cur.X == a.Width || cur.Y == 0 || cur.Y == a.Height {
		return false
	}
	return geometry.Segment{A: prev, B: cur}.Crosses(a.TimingLine)
}
