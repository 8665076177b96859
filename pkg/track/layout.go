package track

import "github.com/mpihlak/ebiten-boatrace/pkg/geometry"

// Mapper converts between track units and pixels for one viewport.
type Mapper struct {
	Scale  float64
	Offset geometry.Point
	Height float64
}

func (m Mapper) ToPixel(p geometry.Point) geometry.Point {
	return geometry.Point{
		X: p.X*m.Scale + m.Offset.X,
		Y: m.Height - p.Y*m.Scale + m.Offset.Y,
	}
}

func (m Mapper) ToDistanceUnits(p geometry.Point) geometry.Point {
	return geometry.Point{
		X: (p.X - m.Offset.X) / m.Scale,
		Y: (m.Height - (p.Y - m.Offset.Y)) / m.Scale,
	}
}

// Layout is a track placed in a viewport: buoys centered on screen and the
// timing line in pixel coordinates.
type Layout struct {
	Track      *Track
	Mapper     Mapper
	Buoys      []geometry.Point
	TimingLine geometry.Segment
	Width      float64
	Height     float64
}

// NewLayout centers the track's buoys in a width x height viewport.
func NewLayout(t *Track, width, height float64) *Layout {
	flipped := make([]geometry.Point, len(t.Buoys))
	for i, b := range t.Buoys {
		flipped[i] = Mapper{Scale: t.Scale, Height: height}.ToPixel(b)
	}

	center := geometry.Point{X: width / 2, Y: height / 2}
	m := Mapper{
		Scale:  t.Scale,
		Offset: center.Sub(geometry.Centroid(flipped)),
		Height: height,
	}

	l := &Layout{
		Track:  t,
		Mapper: m,
		Buoys:  make([]geometry.Point, len(flipped)),
		Width:  width,
		Height: height,
	}
	for i, b := range flipped {
		l.Buoys[i] = b.Add(m.Offset)
	}
	if len(l.Buoys) > 0 && t.Rule != nil {
		l.TimingLine = t.Rule(l.Buoys, width, height)
	}
	return l
}
