// Package clock provides the wall time source used for lap timing, so tests
// can drive it by hand.
package clock

import (
	"sync"
	"time"
)

// Clock is the subset of the time package the simulation needs.
type Clock interface {
	Now() time.Time
	Since(t time.Time) time.Duration
}

// Real implements Clock using the standard time package.
type Real struct{}

func (Real) Now() time.Time {
	return time.Now()
}

func (Real) Since(t time.Time) time.Duration {
	return time.Since(t)
}

// Manual is a manually controlled clock for testing.
type Manual struct {
	mu  sync.Mutex
	now time.Time
}

// NewManual creates a Manual clock set to t.
func NewManual(t time.Time) *Manual {
	return &Manual{now: t}
}

func (c *Manual) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *Manual) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// Advance moves the clock forward by d.
func (c *Manual) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func (c *Manual) Since(t time.Time) time.Duration {
	return c.Now().Sub(t)
}

// Pausable wraps another clock and hides the time spent paused, so a lap
// that is running while the game is paused does not accumulate time.
type Pausable struct {
	base Clock

	mu       sync.Mutex
	paused   bool
	pausedAt time.Time
	hidden   time.Duration // total time spent paused
}

func NewPausable(base Clock) *Pausable {
	return &Pausable{base: base}
}

func (c *Pausable) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.paused {
		return c.pausedAt.Add(-c.hidden)
	}
	return c.base.Now().Add(-c.hidden)
}

func (c *Pausable) Since(t time.Time) time.Duration {
	return c.Now().Sub(t)
}

// Pause freezes the clock. Calling it twice is a no-op.
func (c *Pausable) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.paused {
		return
	}
	c.paused = true
	c.pausedAt = c.base.Now()
}

// Resume continues from where Pause left off.
func (c *Pausable) Resume() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.paused {
		return
	}
	c.paused = false
	c.hidden += c.base.Now().Sub(c.pausedAt)
}

func (c *Pausable) Paused() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.paused
}
