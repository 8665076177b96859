package objects

import "github.com/mpihlak/ebiten-boatrace/pkg/geometry"

// Wake is the trail left behind the craft. Its total length shrinks and
// grows with speed.
type Wake struct {
	Points []geometry.Point
}

// Push adds p to the trail and drops the oldest points until the trail is no
// longer than maxLength pixels. A single point always remains.
func (w *Wake) Push(p geometry.Point, maxLength float64) {
	w.Points = append(w.Points, p)
	for len(w.Points) > 1 && w.Length() > maxLength {
		w.Points = w.Points[1:]
	}
}

// Length is the path length of the trail in pixels.
func (w *Wake) Length() float64 {
	d := 0.0
	for i := 1; i < len(w.Points); i++ {
		d += w.Points[i-1].Dist(w.Points[i])
	}
	return d
}

func (w *Wake) Reset() {
	w.Points = nil
}

// Segments calls fn for each consecutive pair of points with an opacity that
// rises from the tail to the craft.
func (w *Wake) Segments(fn func(a, b geometry.Point, alpha float64)) {
	n := len(w.Points)
	for i := 1; i < n; i++ {
		fn(w.Points[i-1], w.Points[i], float64(i)/float64(n))
	}
}
