// Package handling models how tightly the craft can turn for a given speed
// and bank angle.
package handling

import (
	"fmt"

	"github.com/mpihlak/ebiten-boatrace/pkg/geometry"
	"gonum.org/v1/gonum/interp"
)

// Model returns the turn radius for a speed (display units per hour) and a
// bank angle magnitude in degrees.
type Model interface {
	TurnRadius(speed, bankDeg float64) float64
}

const (
	// Speeds outside this range use the value at the nearest end.
	MinTableSpeed = 10
	MaxTableSpeed = 60

	// StraightRadius is the effective radius with no bank at all.
	StraightRadius = 5000

	FullBankAngle = 30 // bank angle where the baseline radius applies
	PeakBankAngle = 50 // bank angle where the reduction factor is fully applied
	MaxBankAngle  = 55
)

// Table maps speed to a value with linear interpolation between entries.
type Table struct {
	pl interp.PiecewiseLinear
}

// NewTable fits speeds (strictly increasing) to values.
func NewTable(speeds, values []float64) (*Table, error) {
	if len(speeds) != len(values) {
		return nil, fmt.Errorf("turn table has %d speeds but %d values", len(speeds), len(values))
	}
	if len(speeds) < 2 {
		return nil, fmt.Errorf("turn table needs at least 2 entries, got %d", len(speeds))
	}
	for i := 1; i < len(speeds); i++ {
		if speeds[i] <= speeds[i-1] {
			return nil, fmt.Errorf("turn table speeds not increasing at index %d", i)
		}
	}

	t := &Table{}
	if err := t.pl.Fit(speeds, values); err != nil {
		return nil, fmt.Errorf("fitting turn table: %w", err)
	}
	return t, nil
}

func mustTable(speeds, values []float64) *Table {
	t, err := NewTable(speeds, values)
	if err != nil {
		panic(err)
	}
	return t
}

// At returns the value for speed, clamped to [MinTableSpeed, MaxTableSpeed].
func (t *Table) At(speed float64) float64 {
	return t.pl.Predict(geometry.Clamp(speed, MinTableSpeed, MaxTableSpeed))
}

// TableModel blends between a nearly straight course, the baseline radius at
// 30° of bank and the reduced radius at 50°.
type TableModel struct {
	Baseline  *Table // radius at FullBankAngle
	Reduction *Table // radius multiplier at PeakBankAngle
}

var tableSpeeds = []float64{10, 15, 30, 40, 60}

// Default returns the stock turn tables.
func Default() *TableModel {
	return &TableModel{
		Baseline:  mustTable(tableSpeeds, []float64{10, 15, 30, 65, 80}),
		Reduction: mustTable(tableSpeeds, []float64{0.85, 0.82, 0.83, 0.85, 0.90}),
	}
}

func (m *TableModel) TurnRadius(speed, bankDeg float64) float64 {
	angle := geometry.Clamp(bankDeg, 0, MaxBankAngle)
	base := m.Baseline.At(speed)
	peak := base * m.Reduction.At(speed)

	switch {
	case angle < FullBankAngle:
		return geometry.Lerp(angle/FullBankAngle, StraightRadius, base)
	case angle <= PeakBankAngle:
		return geometry.Lerp((angle-FullBankAngle)/(PeakBankAngle-FullBankAngle), base, peak)
	default:
		return peak
	}
}
