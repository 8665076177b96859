package lap

import (
	"math"
	"time"

	"github.com/mpihlak/ebiten-boatrace/pkg/geometry"
)

// Session is the bookkeeping for the lap in progress.
type Session struct {
	Start    time.Time
	Penalty  float64
	Collided bool

	Distance float64 // track units
	TopSpeed float64
	MinSpeed float64
	sumSpeed float64
	samples  int
	lastPos  geometry.Point
}

func newSession(start time.Time, pos geometry.Point) *Session {
	return &Session{
		Start:    start,
		MinSpeed: math.Inf(1),
		lastPos:  pos,
	}
}

// sample folds one tick of telemetry into the session. scale converts pixels
// to track units.
func (s *Session) sample(pos geometry.Point, speedKmh, scale float64) {
	s.TopSpeed = math.Max(s.TopSpeed, speedKmh)
	s.MinSpeed = math.Min(s.MinSpeed, speedKmh)
	s.sumSpeed += speedKmh
	s.samples++

	s.Distance += s.lastPos.Dist(pos) / scale
	s.lastPos = pos
}

func (s *Session) AvgSpeed() float64 {
	if s.samples == 0 {
		return 0
	}
	return s.sumSpeed / float64(s.samples)
}

func (s *Session) record(raw float64) Record {
	minSpeed := s.MinSpeed
	if math.IsInf(minSpeed, 1) {
		minSpeed = 0
	}
	return Record{
		TopSpeed:  s.TopSpeed,
		MinSpeed:  minSpeed,
		AvgSpeed:  s.AvgSpeed(),
		Distance:  s.Distance,
		FinalTime: raw + s.Penalty,
		Penalty:   s.Penalty,
	}
}
