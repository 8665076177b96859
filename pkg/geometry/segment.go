package geometry

// Segment is a line segment between two points.
type Segment struct {
	A, B Point
}

// Orientation returns the signed area term for the turn p->q->r. Positive and
// negative values are the two windings; zero means the points are collinear.
func Orientation(p, q, r Point) float64 {
	return (q.Y-p.Y)*(r.X-q.X) - (q.X-p.X)*(r.Y-q.Y)
}

// Crosses reports whether s and t properly cross each other: the endpoints of
// each segment must lie strictly on opposite sides of the other one. Touching
// or collinear configurations never count.
func (s Segment) Crosses(t Segment) bool {
	o1 := Orientation(s.A, s.B, t.A)
	o2 := Orientation(s.A, s.B, t.B)
	o3 := Orientation(t.A, t.B, s.A)
	o4 := Orientation(t.A, t.B, s.B)

	return straddles(o1, o2) && straddles(o3, o4)
}

func straddles(a, b float64) bool {
	return (a > 0 && b < 0) || (a < 0 && b > 0)
}

func (s Segment) Length() float64 {
	return s.A.Dist(s.B)
}
