package objects

import (
	"math"

	"github.com/mpihlak/ebiten-boatrace/pkg/config"
	"github.com/mpihlak/ebiten-boatrace/pkg/geometry"
	"github.com/mpihlak/ebiten-boatrace/pkg/handling"
)

// Controls is the input snapshot for one tick.
type Controls struct {
	Up, Down, Left, Right bool
}

// Merge combines two input sources, e.g. keyboard and touch.
func (c Controls) Merge(o Controls) Controls {
	return Controls{
		Up:    c.Up || o.Up,
		Down:  c.Down || o.Down,
		Left:  c.Left || o.Left,
		Right: c.Right || o.Right,
	}
}

type Craft struct {
	Pos     geometry.Point // pixels
	Heading float64        // radians, 0 points along +X, grows clockwise on screen
	Speed   float64        // simulation units per second
	BankDeg float64        // negative banks left
}

// SpeedKmh is the speed shown to the player and fed to the turn model.
func (c *Craft) SpeedKmh(p config.Physics) float64 {
	return c.Speed * p.SpeedConversion
}

// Update advances the craft by dt seconds inside a width x height viewport.
// It reports whether the craft wrapped around an edge during this tick.
func (c *Craft) Update(dt float64, in Controls, p config.Physics, m handling.Model, width, height float64) bool {
	if in.Up {
		c.Speed += p.AccelRate * dt
	}
	if in.Down {
		c.Speed -= p.DecelRate * dt
	}
	c.Speed = geometry.Clamp(c.Speed, 0, p.MaxSpeed)

	c.updateBank(dt, in, p)

	radius := m.TurnRadius(c.SpeedKmh(p), math.Abs(c.BankDeg))
	bankRad := c.BankDeg * math.Pi / 180
	turnRate := geometry.Sign(bankRad) * math.Abs(bankRad) * p.TurnGain * (1/radius + p.LowFactor)
	c.Heading += turnRate * dt

	step := c.Speed * p.SpeedScale * dt
	c.Pos.X += step * math.Cos(c.Heading)
	c.Pos.Y += step * math.Sin(c.Heading)

	return c.wrap(width, height)
}

func (c *Craft) updateBank(dt float64, in Controls, p config.Physics) {
	target := 0.0
	if in.Left {
		target = -1
	}
	if in.Right {
		target = 1 // right wins when both are held
	}

	if target != 0 {
		mag := math.Abs(c.BankDeg)
		sign := geometry.Sign(c.BankDeg)
		if sign == 0 {
			sign = target
		}
		if sign != target {
			// Reversing starts again from level.
			mag = 0
			sign = target
		}
		rate := p.BankRateLow
		if mag >= p.BankRateThreshold {
			rate = p.BankRateHigh
		}
		mag = math.Min(mag+rate*dt, p.BankMax)
		c.BankDeg = sign * mag
		return
	}

	if math.Abs(c.BankDeg) < p.BankSnapBefore {
		c.BankDeg = 0
		return
	}
	c.BankDeg *= math.Pow(p.BankDecay, p.BankDecayFPS*dt)
	if math.Abs(c.BankDeg) < p.BankSnapAfter {
		c.BankDeg = 0
	}
}

// wrap moves the craft to the opposite edge on each axis it left.
func (c *Craft) wrap(width, height float64) bool {
	wrapped := false
	if c.Pos.X > width {
		c.Pos.X = 0
		wrapped = true
	} else if c.Pos.X < 0 {
		c.Pos.X = width
		wrapped = true
	}
	if c.Pos.Y > height {
		c.Pos.Y = 0
		wrapped = true
	} else if c.Pos.Y < 0 {
		c.Pos.Y = height
		wrapped = true
	}
	return wrapped
}
