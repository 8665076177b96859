// Package lap times laps: it watches the craft cross the timing line, keeps
// per-lap telemetry and hands out penalties for hitting buoys.
package lap

import (
	"github.com/mpihlak/ebiten-boatrace/pkg/clock"
	"github.com/mpihlak/ebiten-boatrace/pkg/config"
	"github.com/mpihlak/ebiten-boatrace/pkg/game/world"
	"github.com/mpihlak/ebiten-boatrace/pkg/geometry"
)

type State int

const (
	Idle State = iota
	Active
)

func (s State) String() string {
	if s == Active {
		return "active"
	}
	return "idle"
}

// Tick is what the machine needs to know about one physics step.
type Tick struct {
	Prev     geometry.Point
	Pos      geometry.Point
	Wrapped  bool
	SpeedKmh float64
}

// Outcome reports what happened during a tick.
type Outcome struct {
	Started  bool
	Finished bool
	Record   Record // set when Finished

	Collided bool
	Buoy     int // index of the buoy that was hit
}

// Readout is the lap time shown to the player.
type Readout struct {
	Total    float64 // seconds including penalty
	Penalty  float64
	Collided bool
	Active   bool
}

type Machine struct {
	rules config.Lap
	clock clock.Clock

	arena *world.Arena
	scale float64

	state   State
	session *Session
	history *History

	lastTotal   float64
	lastPenalty float64
	lastRaw     float64
}

func NewMachine(rules config.Lap, c clock.Clock) *Machine {
	return &Machine{
		rules:   rules,
		clock:   c,
		history: NewHistory(rules.HistorySize),
	}
}

// SetArena switches the geometry used for crossing and collision tests.
// scale is the pixels per track unit of the current layout.
func (m *Machine) SetArena(a *world.Arena, scale float64) {
	m.arena = a
	m.scale = scale
}

func (m *Machine) State() State {
	return m.state
}

func (m *Machine) Active() bool {
	return m.state == Active
}

func (m *Machine) History() *History {
	return m.history
}

// Session returns the lap in progress, or nil when idle.
func (m *Machine) Session() *Session {
	return m.session
}

// Update runs the lap rules for one tick: crossing check first, then
// telemetry and the collision check while a lap is running.
func (m *Machine) Update(t Tick) Outcome {
	var out Outcome
	if m.arena == nil {
		return out
	}

	if !t.Wrapped && m.arena.CrossesTimingLine(t.Prev, t.Pos) {
		if m.state == Idle {
			m.start(t.Pos)
			out.Started = true
		} else {
			out.Record = m.finish()
			out.Finished = true
		}
	}

	if m.state != Active {
		return out
	}

	m.session.sample(t.Pos, t.SpeedKmh, m.scale)

	if !m.session.Collided {
		if c, ok := m.arena.FirstCollision(t.Pos, m.rules.CollisionRadius); ok {
			m.session.Penalty += m.rules.PenaltySeconds
			m.session.Collided = true
			out.Collided = true
			out.Buoy = c.Buoy.Index
		}
	}

	return out
}

func (m *Machine) start(pos geometry.Point) {
	m.state = Active
	m.session = newSession(m.clock.Now(), pos)
}

func (m *Machine) finish() Record {
	raw := m.clock.Since(m.session.Start).Seconds()
	r := m.session.record(raw)
	m.history.Push(r)

	m.lastRaw = raw
	m.lastTotal = r.FinalTime
	m.lastPenalty = r.Penalty

	m.state = Idle
	m.session = nil
	return r
}

// Abort drops the lap in progress without recording it.
func (m *Machine) Abort() {
	m.state = Idle
	m.session = nil
}

// Elapsed is the raw time since the lap started, zero when idle.
func (m *Machine) Elapsed() float64 {
	if m.state != Active {
		return 0
	}
	return m.clock.Since(m.session.Start).Seconds()
}

// PlaybackTime is the time to show the ghost at: the running lap's raw time,
// or the raw time of the lap that just finished.
func (m *Machine) PlaybackTime() float64 {
	if m.state == Active {
		return m.Elapsed()
	}
	return m.lastRaw
}

// Display is the lap time readout for the running lap, or for the last
// finished one when idle.
func (m *Machine) Display() Readout {
	if m.state == Active {
		return Readout{
			Total:    m.Elapsed() + m.session.Penalty,
			Penalty:  m.session.Penalty,
			Collided: m.session.Collided,
			Active:   true,
		}
	}
	return Readout{
		Total:    m.lastTotal,
		Penalty:  m.lastPenalty,
		Collided: m.lastPenalty > 0,
	}
}
