// Package track holds the built-in circuits and maps their track units
// (meters, Y up) onto the pixel viewport (Y down).
package track

import (
	"strings"
	"unicode"

	"github.com/mpihlak/ebiten-boatrace/pkg/geometry"
)

// TimingRule places the timing line given the buoys already in pixel space.
type TimingRule func(buoys []geometry.Point, width, height float64) geometry.Segment

type Track struct {
	Key   string
	Name  string
	Scale float64 // pixels per track unit
	Buoys []geometry.Point
	Rule  TimingRule
}

// FromFirstBuoy runs the timing line from the first buoy to the middle of
// the bottom edge.
func FromFirstBuoy(buoys []geometry.Point, width, height float64) geometry.Segment {
	return geometry.Segment{
		A: buoys[0],
		B: geometry.Point{X: width / 2, Y: height},
	}
}

// FromBottomBuoy runs the timing line from the buoy lowest on screen to the
// middle of the bottom edge. Ties go to the earlier buoy.
func FromBottomBuoy(buoys []geometry.Point, width, height float64) geometry.Segment {
	bottom := buoys[0]
	for _, b := range buoys[1:] {
		if b.Y > bottom.Y {
			bottom = b
		}
	}
	return geometry.Segment{
		A: bottom,
		B: geometry.Point{X: width / 2, Y: height},
	}
}

var SpeedTrack = &Track{
	Key:   "speedTrack",
	Name:  "Speed Track",
	Scale: 4,
	Buoys: []geometry.Point{
		{X: 20, Y: 15},
		{X: 81.43, Y: 48.56},
		{X: 125, Y: 15},
	},
	Rule: FromFirstBuoy,
}

// DubaiTrack is a 150m x 75m layout.
var DubaiTrack = &Track{
	Key:   "dubaiTrack",
	Name:  "Dubai Track",
	Scale: 4,
	Buoys: []geometry.Point{
		// Goal area with two lane separators
		{X: 55, Y: 1},
		{X: 75, Y: 0},
		{X: 95, Y: 1},

		// Bottom center
		{X: 55, Y: 21},
		{X: 75, Y: 21},
		{X: 95, Y: 21},

		// Turn 4, top left
		{X: 35, Y: 55},
		{X: 35, Y: 75},
		{X: 15, Y: 75},

		// Turn 1, bottom right
		{X: 150, Y: 5},
		{X: 140, Y: 25},

		// Turn 2, top right
		{X: 135, Y: 75},
		{X: 115, Y: 75},
		{X: 115, Y: 55},

		// Turn 5, bottom left
		{X: 10, Y: 25},
		{X: 0, Y: 5},
	},
	Rule: FromBottomBuoy,
}

// Registry is an ordered set of tracks. The order is the selection order
// offered to the player.
type Registry struct {
	tracks []*Track
	byKey  map[string]*Track
}

func NewRegistry(tracks ...*Track) *Registry {
	r := &Registry{byKey: make(map[string]*Track)}
	for _, t := range tracks {
		r.tracks = append(r.tracks, t)
		r.byKey[t.Key] = t
	}
	return r
}

// Builtin returns the tracks that ship with the game.
func Builtin() *Registry {
	return NewRegistry(SpeedTrack, DubaiTrack)
}

func (r *Registry) Lookup(key string) (*Track, bool) {
	t, ok := r.byKey[key]
	return t, ok
}

// At returns the i-th track (zero based).
func (r *Registry) At(i int) (*Track, bool) {
	if i < 0 || i >= len(r.tracks) {
		return nil, false
	}
	return r.tracks[i], true
}

func (r *Registry) Len() int {
	return len(r.tracks)
}

func (r *Registry) All() []*Track {
	return append([]*Track(nil), r.tracks...)
}

// IdealLineFile is the file name of the track's ideal-line overlay, derived
// from its display name: "Speed Track" becomes "speed_track.json".
func IdealLineFile(t *Track) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(t.Name) {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			sb.WriteRune(r)
		} else {
			sb.WriteByte('_')
		}
	}
	sb.WriteString(".json")
	return sb.String()
}
