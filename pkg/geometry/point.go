package geometry

import (
	"fmt"
	"math"
)

// Point is a 2D position. Depending on context it is either in pixel space
// (Y grows down) or in track units (Y grows up).
type Point struct {
	X, Y float64
}

func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

func (p Point) Scale(s float64) Point {
	return Point{X: p.X * s, Y: p.Y * s}
}

// Dist returns the Euclidean distance between p and q.
func (p Point) Dist(q Point) float64 {
	return math.Hypot(q.X-p.X, q.Y-p.Y)
}

func (p Point) String() string {
	return fmt.Sprintf("(%.2f, %.2f)", p.X, p.Y)
}

// LerpPoint interpolates between a and b; t=0 gives a, t=1 gives b.
func LerpPoint(t float64, a, b Point) Point {
	return Point{X: Lerp(t, a.X, b.X), Y: Lerp(t, a.Y, b.Y)}
}

// Centroid returns the average of pts, or the zero point for an empty slice.
func Centroid(pts []Point) Point {
	if len(pts) == 0 {
		return Point{}
	}
	var c Point
	for _, p := range pts {
		c = c.Add(p)
	}
	return c.Scale(1 / float64(len(pts)))
}
