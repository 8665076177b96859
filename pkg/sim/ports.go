package sim

import "github.com/mpihlak/ebiten-boatrace/pkg/log"

// Cues are fire-and-forget side effects, typically sounds. Implementations
// must not block the simulation.
type Cues interface {
	LapStart()
	LapEnd()
	Collision()
	// Speed reports speed as a fraction of top speed, every tick.
	Speed(fraction float64)
}

type NopCues struct{}

func (NopCues) LapStart() {}
func (NopCues) LapEnd() {}
func (NopCues) Collision() {}
func (NopCues) Speed(_ float64) {}

// Notifier shows warnings to the player.
type Notifier interface {
	Warn(msg string)
}

// LogNotifier only writes warnings to the log.
type LogNotifier struct {
	Log *log.Logger
}

func (n LogNotifier) Warn(msg string) {
	n.Log.Warn(msg)
}
