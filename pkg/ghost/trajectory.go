// Package ghost records the path of a lap and plays it back. Positions are
// stored in track units so a ghost recorded in one window size replays
// correctly in another.
package ghost

import (
	"sort"

	"github.com/mpihlak/ebiten-boatrace/pkg/geometry"
)

type Sample struct {
	Time    float64        // seconds since the lap started
	Pos     geometry.Point // track units
	Heading float64        // radians
}

type Trajectory struct {
	TrackKey string // empty when unknown
	Samples  []Sample
}

func (tr *Trajectory) Len() int {
	if tr == nil {
		return 0
	}
	return len(tr.Samples)
}

// Duration is the time of the last sample.
func (tr *Trajectory) Duration() float64 {
	if tr.Len() == 0 {
		return 0
	}
	return tr.Samples[len(tr.Samples)-1].Time
}

// At returns the interpolated sample at time t. Times before the first sample
// give the first one and times after the last give the last; there is no
// extrapolation or looping. ok is false for an empty trajectory.
func (tr *Trajectory) At(t float64) (s Sample, ok bool) {
	if tr.Len() == 0 {
		return Sample{}, false
	}
	samples := tr.Samples

	i := sort.Search(len(samples), func(i int) bool { return samples[i].Time >= t })
	switch {
	case i == 0:
		return samples[0], true
	case i == len(samples):
		return samples[len(samples)-1], true
	case samples[i].Time == t:
		return samples[i], true
	}

	prev, cur := samples[i-1], samples[i]
	span := cur.Time - prev.Time
	if span <= 0 {
		return prev, true
	}
	r := (t - prev.Time) / span
	return Sample{
		Time:    t,
		Pos:     geometry.LerpPoint(r, prev.Pos, cur.Pos),
		Heading: geometry.Lerp(r, prev.Heading, cur.Heading),
	}, true
}

// Ordered reports whether sample times never decrease.
func (tr *Trajectory) Ordered() bool {
	for i := 1; i < tr.Len(); i++ {
		if tr.Samples[i].Time < tr.Samples[i-1].Time {
			return false
		}
	}
	return true
}

// Recorder collects samples during a lap.
type Recorder struct {
	samples []Sample
}

func (r *Recorder) Reset() {
	r.samples = r.samples[:0]
}

func (r *Recorder) Record(t float64, pos geometry.Point, heading float64) {
	r.samples = append(r.samples, Sample{Time: t, Pos: pos, Heading: heading})
}

func (r *Recorder) Len() int {
	return len(r.samples)
}

// Freeze returns the recording as a trajectory for trackKey. The result does
// not share memory with the recorder.
func (r *Recorder) Freeze(trackKey string) *Trajectory {
	return &Trajectory{
		TrackKey: trackKey,
		Samples:  append([]Sample(nil), r.samples...),
	}
}
