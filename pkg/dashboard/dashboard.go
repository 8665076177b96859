// Package dashboard formats the text readouts drawn over the race.
package dashboard

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/mpihlak/ebiten-boatrace/pkg/geometry"
	"github.com/mpihlak/ebiten-boatrace/pkg/lap"
)

type Dashboard struct {
	TrackName string
	SpeedKmh  float64
	BankDeg   float64
	Lap       lap.Readout
	History   []lap.Record

	// Distance to the timing line is shown when Scale is set.
	Pos        geometry.Point
	TimingLine geometry.Segment
	Scale      float64 // pixels per track unit
}

func Speed(kmh float64) string {
	return fmt.Sprintf("Speed: %.1f km/h", kmh)
}

func Bank(deg float64) string {
	return fmt.Sprintf("Bank: %.0f°", deg)
}

// LapTime shows the running lap, or the last finished one, with any penalty.
func LapTime(r lap.Readout) string {
	showPenalty := r.Penalty > 0
	if r.Active {
		showPenalty = showPenalty && r.Collided
	}
	if showPenalty {
		return fmt.Sprintf("Laptime: %.2f (- %ss penalty!)", r.Total, strconv.FormatFloat(r.Penalty, 'f', -1, 64))
	}
	return fmt.Sprintf("Laptime: %.2f", r.Total)
}

// Telemetry lists the recent laps, newest first.
func Telemetry(records []lap.Record) []string {
	lines := []string{"Telemetry:"}
	for i, r := range records {
		lines = append(lines,
			fmt.Sprintf("Lap %d:", i+1),
			fmt.Sprintf("  Time:   %.2f s", r.FinalTime),
			fmt.Sprintf("  Dist:   %.1f m", r.Distance),
			fmt.Sprintf("  TopSpd: %.1f km/h", r.TopSpeed),
			fmt.Sprintf("  MinSpd: %.1f km/h", r.MinSpeed),
			fmt.Sprintf("  AvgSpd: %.1f km/h", r.AvgSpeed),
			"")
	}
	return lines
}

// FormatLapTime renders seconds as m:ss.cc, or s.cc under a minute.
func FormatLapTime(seconds float64) string {
	cs := int64(math.Round(seconds * 100))
	if cs < 6000 {
		return fmt.Sprintf("%d.%02d", cs/100, cs%100)
	}
	m, rest := cs/6000, cs%6000
	return fmt.Sprintf("%d:%02d.%02d", m, rest/100, rest%100)
}

// DistanceToLine is the perpendicular distance from pos to the (infinite)
// line through the timing line, in track units. It is negative on the left
// of the line as seen from its first point.
func DistanceToLine(pos geometry.Point, line geometry.Segment, scale float64) float64 {
	// Line equation Ax + By + C = 0
	A := line.B.Y - line.A.Y
	B := line.A.X - line.B.X
	C := line.B.X*line.A.Y - line.A.X*line.B.Y

	n := math.Sqrt(A*A + B*B)
	if n == 0 || scale == 0 {
		return 0
	}
	return (A*pos.X + B*pos.Y + C) / n / scale
}

// Lines is the readout block in the top right corner.
func (d *Dashboard) Lines() []string {
	lines := []string{
		d.TrackName,
		Speed(d.SpeedKmh),
		Bank(d.BankDeg),
		LapTime(d.Lap),
	}
	if d.Scale > 0 {
		dist := math.Abs(DistanceToLine(d.Pos, d.TimingLine, d.Scale))
		lines = append(lines, fmt.Sprintf("To line: %.0f m", dist))
	}
	if best, ok := lap.Best(d.History); ok {
		lines = append(lines, "Best: "+FormatLapTime(best.FinalTime))
	}
	return lines
}

func (d *Dashboard) String() string {
	return strings.Join(d.Lines(), "\n")
}
