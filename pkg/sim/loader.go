package sim

import (
	"log/slog"
	"path/filepath"

	"github.com/mpihlak/ebiten-boatrace/pkg/ghost"
	"github.com/mpihlak/ebiten-boatrace/pkg/track"
)

type loadKind int

const (
	loadGhost loadKind = iota
	loadIdealLine
)

// loadResult is handed from a loader goroutine back to the simulation loop.
type loadResult struct {
	kind     loadKind
	path     string
	trackKey string // track the ideal line belongs to
	traj     *ghost.Trajectory
	err      error
}

// load reads path on a new goroutine and posts the result. Concurrent loads
// of the same file share one read.
func (s *Simulation) load(kind loadKind, path, trackKey string) {
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()

		v, err, _ := s.loads.Do(path, func() (any, error) {
			return ghost.LoadFile(path)
		})
		res := loadResult{kind: kind, path: path, trackKey: trackKey, err: err}
		if err == nil {
			res.traj = v.(*ghost.Trajectory)
		}
		s.results <- res
	}()
}

// drain applies every load that finished since the previous tick.
func (s *Simulation) drain() {
	for _, res := range s.parked {
		s.apply(res)
	}
	s.parked = nil

	for {
		select {
		case res := <-s.results:
			s.apply(res)
		default:
			return
		}
	}
}

func (s *Simulation) apply(res loadResult) {
	switch res.kind {
	case loadGhost:
		if res.err != nil {
			s.log.Warn("ghost import failed", slog.String("path", res.path), slog.Any("error", res.err))
			s.notifier.Warn("Could not import ghost: " + importProblem(res.err))
			return
		}
		s.acceptGhost(res.traj)

	case loadIdealLine:
		if res.err != nil {
			s.log.Warn("ideal line unavailable", slog.String("track", res.trackKey),
				slog.String("path", res.path), slog.Any("error", res.err))
			return
		}
		s.idealLines.Add(res.trackKey, res.traj)
		s.log.Info("ideal line loaded", slog.String("track", res.trackKey), slog.Int("frames", res.traj.Len()))
	}
}

func (s *Simulation) idealLinePath(t *track.Track) string {
	return filepath.Join(s.cfg.Paths.IdealLines, track.IdealLineFile(t))
}

// LoadIdealLine starts loading the overlay for the selected track unless it
// is already cached.
func (s *Simulation) LoadIdealLine() {
	t := s.layout.Track
	if s.idealLines.Contains(t.Key) {
		return
	}
	s.load(loadIdealLine, s.idealLinePath(t), t.Key)
}

// ToggleIdealLine shows or hides the overlay, loading it on first use.
func (s *Simulation) ToggleIdealLine() bool {
	s.showIdeal = !s.showIdeal
	if s.showIdeal {
		s.LoadIdealLine()
	}
	return s.showIdeal
}

// ImportGhostFileAsync reads a ghost file in the background. The result is
// applied at the start of a later Step.
func (s *Simulation) ImportGhostFileAsync(path string) {
	s.log.Info("importing ghost", slog.String("path", path))
	s.load(loadGhost, path, "")
}

// Wait blocks until all background loads have posted their results. They are
// applied by the next Step. Results are moved off the channel while waiting
// so loaders never block on a full buffer.
func (s *Simulation) Wait() {
	done := make(chan struct{})
	go func() {
		s.pending.Wait()
		close(done)
	}()

	for {
		select {
		case res := <-s.results:
			s.parked = append(s.parked, res)
		case <-done:
			for {
				select {
				case res := <-s.results:
					s.parked = append(s.parked, res)
				default:
					return
				}
			}
		}
	}
}
