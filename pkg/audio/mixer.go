// Package audio plays the race sounds: looping wind whose volume follows the
// craft speed, music while a lap is running, and one-shot effects for the
// finish and for buoy hits.
package audio

import (
	"sync"
	"time"

	"github.com/mpihlak/ebiten-boatrace/pkg/config"
	"github.com/mpihlak/ebiten-boatrace/pkg/geometry"
	"github.com/mpihlak/ebiten-boatrace/pkg/log"
)

// Player is the subset of an ebiten audio player the mixer drives.
type Player interface {
	Play()
	Pause()
	Rewind() error
	SetVolume(volume float64)
	IsPlaying() bool
}

// Players holds one player per sound. Any of them may be nil, in which case
// that sound is silently skipped.
type Players struct {
	Wind      Player
	Music     Player
	Boom      Player
	Collision Player
}

// Mixer implements the simulation cues on top of a set of players. It is
// safe for concurrent use; fades run on their own goroutine.
type Mixer struct {
	lg    *log.Logger
	fade  time.Duration
	steps int

	mu      sync.Mutex
	p       Players
	fading  chan struct{}
	windOn  bool
	stopped bool
}

func NewMixer(cfg config.Audio, p Players, lg *log.Logger) *Mixer {
	steps := cfg.FadeSteps
	if steps < 1 {
		steps = 1
	}
	return &Mixer{
		lg:    lg,
		fade:  cfg.MusicFade,
		steps: steps,
		p:     p,
	}
}

// LapStart restarts the music from the beginning at full volume, cancelling
// any fade still in progress.
func (m *Mixer) LapStart() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.cancelFade()
	if m.p.Music == nil {
		return
	}
	m.p.Music.SetVolume(1)
	m.restart("music", m.p.Music)
}

// LapEnd plays the finish effect and fades the music out.
func (m *Mixer) LapEnd() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.restart("boom", m.p.Boom)
	m.fadeOut()
}

func (m *Mixer) Collision() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.restart("collision", m.p.Collision)
}

// Speed sets the wind volume. The wind loop starts on the first call.
func (m *Mixer) Speed(fraction float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.p.Wind == nil || m.stopped {
		return
	}
	m.p.Wind.SetVolume(geometry.Clamp(fraction, 0, 1))
	if !m.windOn {
		m.p.Wind.Play()
		m.windOn = true
	}
}

// Close stops all sounds.
func (m *Mixer) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.cancelFade()
	m.stopped = true
	for _, pl := range []Player{m.p.Wind, m.p.Music, m.p.Boom, m.p.Collision} {
		if pl != nil {
			pl.Pause()
		}
	}
}

// restart must be called with mu held.
func (m *Mixer) restart(name string, pl Player) {
	if pl == nil || m.stopped {
		return
	}
	if err := pl.Rewind(); err != nil {
		m.lg.Warnf("%s: rewind: %v", name, err)
	}
	pl.Play()
}

func (m *Mixer) cancelFade() {
	if m.fading != nil {
		close(m.fading)
		m.fading = nil
	}
}

// fadeOut lowers the music volume to zero in equal steps over the configured
// fade time, then stops and rewinds it. Must be called with mu held.
func (m *Mixer) fadeOut() {
	if m.p.Music == nil || !m.p.Music.IsPlaying() {
		return
	}
	m.cancelFade()

	stop := make(chan struct{})
	m.fading = stop

	interval := m.fade / time.Duration(m.steps)
	if interval <= 0 {
		interval = time.Millisecond
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for step := 1; ; step++ {
			select {
			case <-stop:
				return
			case <-ticker.C:
			}

			m.mu.Lock()
			if m.fading != stop {
				m.mu.Unlock()
				return
			}
			music := m.p.Music
			if step >= m.steps {
				music.SetVolume(0)
				music.Pause()
				if err := music.Rewind(); err != nil {
					m.lg.Warnf("music: rewind: %v", err)
				}
				music.SetVolume(1)
				m.fading = nil
				m.mu.Unlock()
				return
			}
			music.SetVolume(1 - float64(step)/float64(m.steps))
			m.mu.Unlock()
		}
	}()
}
