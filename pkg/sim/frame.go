package sim

import (
	"github.com/mpihlak/ebiten-boatrace/pkg/game/objects"
	"github.com/mpihlak/ebiten-boatrace/pkg/geometry"
	"github.com/mpihlak/ebiten-boatrace/pkg/lap"
	"github.com/mpihlak/ebiten-boatrace/pkg/track"
)

// GhostPose is where to draw the ghost.
type GhostPose struct {
	Pos     geometry.Point
	Heading float64
}

// Frame is everything the renderer needs after a tick. Slices are copies.
type Frame struct {
	Craft    objects.Craft
	SpeedKmh float64
	Wake     []geometry.Point

	Layout *track.Layout

	LapState lap.State
	Lap      lap.Readout
	History  []lap.Record

	Ghost     GhostPose
	ShowGhost bool
	IdealLine []geometry.Point
}

func (s *Simulation) frame() Frame {
	f := Frame{
		Craft:     s.craft,
		SpeedKmh:  s.craft.SpeedKmh(s.cfg.Physics),
		Wake:      append([]geometry.Point(nil), s.wake.Points...),
		Layout:    s.layout,
		LapState:  s.lap.State(),
		Lap:       s.lap.Display(),
		History:   s.lap.History().Records(),
		IdealLine: s.IdealLine(),
	}
	f.Ghost.Pos, f.Ghost.Heading, f.ShowGhost = s.GhostPixel()
	return f
}

// Snapshot builds a Frame without advancing the simulation, e.g. while paused.
func (s *Simulation) Snapshot() Frame {
	s.drain()
	return s.frame()
}
