// Package sim owns the whole simulation state and advances it one tick at a
// time: physics, lap timing, ghost recording and background file loads.
// Every method must be called from the same goroutine.
package sim

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"github.com/mpihlak/ebiten-boatrace/pkg/clock"
	"github.com/mpihlak/ebiten-boatrace/pkg/config"
	"github.com/mpihlak/ebiten-boatrace/pkg/game/objects"
	"github.com/mpihlak/ebiten-boatrace/pkg/game/world"
	"github.com/mpihlak/ebiten-boatrace/pkg/geometry"
	"github.com/mpihlak/ebiten-boatrace/pkg/ghost"
	"github.com/mpihlak/ebiten-boatrace/pkg/handling"
	"github.com/mpihlak/ebiten-boatrace/pkg/lap"
	"github.com/mpihlak/ebiten-boatrace/pkg/log"
	"github.com/mpihlak/ebiten-boatrace/pkg/track"
)

var (
	ErrNoGhost      = errors.New("no ghost lap to export")
	ErrUnknownTrack = errors.New("unknown track")
)

const idealLineCacheSize = 8

type Options struct {
	Config   config.Config
	Clock    clock.Clock     // defaults to the wall clock
	Log      *log.Logger     // nil logs warnings through slog only
	Cues     Cues            // defaults to NopCues
	Notifier Notifier        // defaults to LogNotifier
	Tracks   *track.Registry // defaults to the built-in tracks
	Model    handling.Model  // defaults to handling.Default()
	Width    float64
	Height   float64
}

type Simulation struct {
	cfg      config.Config
	clock    clock.Clock
	log      *log.Logger
	cues     Cues
	notifier Notifier
	tracks   *track.Registry
	model    handling.Model

	layout *track.Layout
	arena  *world.Arena
	craft  objects.Craft
	wake   objects.Wake
	lap    *lap.Machine

	recorder ghost.Recorder
	ghost    *ghost.Trajectory

	showIdeal  bool
	idealLines *lru.Cache[string, *ghost.Trajectory]

	loads   singleflight.Group
	results chan loadResult
	parked  []loadResult // collected by Wait, applied by the next Step
	pending sync.WaitGroup
}

func New(opts Options) (*Simulation, error) {
	if err := opts.Config.Validate(); err != nil {
		return nil, err
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("invalid viewport %gx%g", opts.Width, opts.Height)
	}

	s := &Simulation{
		cfg:      opts.Config,
		clock:    opts.Clock,
		log:      opts.Log,
		cues:     opts.Cues,
		notifier: opts.Notifier,
		tracks:   opts.Tracks,
		model:    opts.Model,
		results:  make(chan loadResult, 16),
	}
	if s.clock == nil {
		s.clock = clock.Real{}
	}
	if s.cues == nil {
		s.cues = NopCues{}
	}
	if s.notifier == nil {
		s.notifier = LogNotifier{Log: s.log}
	}
	if s.tracks == nil {
		s.tracks = track.Builtin()
	}
	if s.model == nil {
		s.model = handling.Default()
	}

	var err error
	if s.idealLines, err = lru.New[string, *ghost.Trajectory](idealLineCacheSize); err != nil {
		return nil, err
	}

	t, ok := s.tracks.Lookup(s.cfg.Track.Initial)
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownTrack, s.cfg.Track.Initial)
	}

	s.lap = lap.NewMachine(s.cfg.Lap, s.clock)
	s.setLayout(track.NewLayout(t, opts.Width, opts.Height))
	s.Reset()

	return s, nil
}

func (s *Simulation) setLayout(l *track.Layout) {
	s.layout = l
	s.arena = world.NewArena(l)
	s.lap.SetArena(s.arena, l.Track.Scale)
}

// Reset puts the craft back in the middle of the viewport, stopped and
// pointing right, and drops any lap in progress. Lap history and the ghost
// are kept.
func (s *Simulation) Reset() {
	s.craft = objects.Craft{
		Pos: geometry.Point{X: s.layout.Width / 2, Y: s.layout.Height / 2},
	}
	s.wake.Reset()
	s.recorder.Reset()
	s.lap.Abort()
}

// Resize recomputes the track layout for a new viewport.
func (s *Simulation) Resize(width, height float64) {
	if width <= 0 || height <= 0 || (width == s.layout.Width && height == s.layout.Height) {
		return
	}
	s.setLayout(track.NewLayout(s.layout.Track, width, height))
	s.log.Debug("viewport resized", slog.Float64("width", width), slog.Float64("height", height))
}

// SelectTrack switches to the track with the given key. A lap in progress is
// abandoned since its timing line no longer exists.
func (s *Simulation) SelectTrack(key string) error {
	t, ok := s.tracks.Lookup(key)
	if !ok {
		return fmt.Errorf("%w %q", ErrUnknownTrack, key)
	}
	s.switchTrack(t)
	return nil
}

// SelectTrackIndex selects the i-th track of the registry (zero based).
func (s *Simulation) SelectTrackIndex(i int) error {
	t, ok := s.tracks.At(i)
	if !ok {
		return fmt.Errorf("%w: no track #%d", ErrUnknownTrack, i+1)
	}
	s.switchTrack(t)
	return nil
}

func (s *Simulation) switchTrack(t *track.Track) {
	if t == s.layout.Track {
		return
	}
	if s.lap.Active() {
		s.lap.Abort()
		s.recorder.Reset()
	}
	s.setLayout(track.NewLayout(t, s.layout.Width, s.layout.Height))
	s.log.Info("track selected", slog.String("track", t.Key))

	if s.showIdeal {
		s.LoadIdealLine()
	}
}

func (s *Simulation) Track() *track.Track {
	return s.layout.Track
}

func (s *Simulation) Tracks() *track.Registry {
	return s.tracks
}

func (s *Simulation) Layout() *track.Layout {
	return s.layout
}

// Craft returns a copy of the craft state.
func (s *Simulation) Craft() objects.Craft {
	return s.craft
}

func (s *Simulation) Ghost() *ghost.Trajectory {
	return s.ghost
}

// Step advances the simulation by dt seconds, capped at the configured
// maximum step.
func (s *Simulation) Step(dt float64, in objects.Controls) Frame {
	p := s.cfg.Physics
	dt = geometry.Clamp(dt, 0, p.MaxStep)

	s.drain()

	s.wake.Push(s.craft.Pos, s.craft.Speed/p.MaxSpeed*p.WakeMaxLength)

	prev := s.craft.Pos
	wrapped := s.craft.Update(dt, in, p, s.model, s.layout.Width, s.layout.Height)
	s.cues.Speed(s.craft.Speed / p.MaxSpeed)

	out := s.lap.Update(lap.Tick{
		Prev:     prev,
		Pos:      s.craft.Pos,
		Wrapped:  wrapped,
		SpeedKmh: s.craft.SpeedKmh(p),
	})
	if out.Started {
		s.recorder.Reset()
		s.cues.LapStart()
		s.log.Info("lap started", slog.String("track", s.layout.Track.Key))
	}
	if out.Finished {
		s.ghost = s.recorder.Freeze(s.layout.Track.Key)
		s.cues.LapEnd()
		s.log.Info("lap finished",
			slog.String("track", s.layout.Track.Key),
			slog.Float64("time", out.Record.FinalTime),
			slog.Float64("penalty", out.Record.Penalty),
			slog.Float64("distance", out.Record.Distance),
			slog.Int("ghostFrames", s.ghost.Len()))
	}
	if out.Collided {
		s.cues.Collision()
		s.log.Info("buoy hit", slog.Int("buoy", out.Buoy), slog.Float64("penalty", s.cfg.Lap.PenaltySeconds))
	}

	if s.lap.Active() {
		s.recorder.Record(s.lap.Elapsed(), s.layout.Mapper.ToDistanceUnits(s.craft.Pos), s.craft.Heading)
	}

	return s.frame()
}

// GhostPixel returns the ghost's pose in pixels for the current playback
// time. ok is false when there is nothing to show: no ghost, no lap run yet,
// or a ghost recorded on another track.
func (s *Simulation) GhostPixel() (pos geometry.Point, heading float64, ok bool) {
	if s.ghost == nil {
		return geometry.Point{}, 0, false
	}
	if s.ghost.TrackKey != "" && s.ghost.TrackKey != s.layout.Track.Key {
		return geometry.Point{}, 0, false
	}
	if !s.lap.Active() && s.lap.History().Len() == 0 {
		return geometry.Point{}, 0, false
	}

	sample, ok := s.ghost.At(s.lap.PlaybackTime())
	if !ok {
		return geometry.Point{}, 0, false
	}
	return s.layout.Mapper.ToPixel(sample.Pos), sample.Heading, true
}

// IdealLine returns the overlay for the selected track in pixels, or nil when
// it is hidden or not loaded.
func (s *Simulation) IdealLine() []geometry.Point {
	if !s.showIdeal {
		return nil
	}
	tr, ok := s.idealLines.Get(s.layout.Track.Key)
	if !ok {
		return nil
	}
	pts := make([]geometry.Point, tr.Len())
	for i, sample := range tr.Samples {
		pts[i] = s.layout.Mapper.ToPixel(sample.Pos)
	}
	return pts
}

// CanExportGhost reports whether there is a ghost to export. Export needs a
// lap finished in this session, even when a ghost was imported.
func (s *Simulation) CanExportGhost() bool {
	return s.ghost != nil && s.lap.History().Len() > 0
}

// ExportGhost writes the current ghost to w.
func (s *Simulation) ExportGhost(w io.Writer, f ghost.Format) error {
	if !s.CanExportGhost() {
		s.notifier.Warn("No ghost lap to export yet. Finish a lap first.")
		return ErrNoGhost
	}
	if err := ghost.Encode(w, s.ghost, f); err != nil {
		s.log.Error("ghost export failed", slog.Any("error", err))
		s.notifier.Warn("Could not export ghost: " + err.Error())
		return err
	}
	s.log.Info("ghost exported", slog.String("format", f.String()), slog.Int("frames", s.ghost.Len()))
	return nil
}

// ExportGhostFile writes the current ghost to path. No file is created when
// there is no ghost.
func (s *Simulation) ExportGhostFile(path string) error {
	if !s.CanExportGhost() {
		return s.ExportGhost(io.Discard, ghost.JSON)
	}
	if err := ghost.SaveFile(path, s.ghost); err != nil {
		s.log.Error("ghost export failed", slog.String("path", path), slog.Any("error", err))
		s.notifier.Warn("Could not export ghost: " + err.Error())
		return err
	}
	s.log.Info("ghost exported", slog.String("path", path), slog.Int("frames", s.ghost.Len()))
	return nil
}

type ImportResult struct {
	TrackKey     string // as declared by the data, may be empty
	Switched     bool   // the selected track changed
	UnknownTrack bool   // the declared track does not exist here
	Frames       int
}

// ImportGhost decodes a ghost from r and makes it current. Invalid data
// leaves the simulation untouched.
func (s *Simulation) ImportGhost(r io.Reader, f ghost.Format) (ImportResult, error) {
	tr, err := ghost.Decode(r, f)
	if err != nil {
		s.log.Warn("ghost import failed", slog.Any("error", err))
		s.notifier.Warn("Could not import ghost: " + importProblem(err))
		return ImportResult{}, err
	}
	return s.acceptGhost(tr), nil
}

// ImportGhostFile is ImportGhost reading from a file, synchronously.
func (s *Simulation) ImportGhostFile(path string) (ImportResult, error) {
	fd, err := os.Open(path)
	if err != nil {
		s.log.Warn("ghost import failed", slog.String("path", path), slog.Any("error", err))
		s.notifier.Warn("Could not import ghost: " + err.Error())
		return ImportResult{}, err
	}
	defer fd.Close()
	return s.ImportGhost(fd, ghost.FormatForPath(path))
}

func (s *Simulation) acceptGhost(tr *ghost.Trajectory) ImportResult {
	res := ImportResult{TrackKey: tr.TrackKey, Frames: tr.Len()}

	if tr.TrackKey != "" {
		if t, ok := s.tracks.Lookup(tr.TrackKey); ok {
			if t != s.layout.Track {
				s.switchTrack(t)
				res.Switched = true
			}
		} else {
			res.UnknownTrack = true
			s.notifier.Warn(fmt.Sprintf("Ghost was recorded on unknown track %q. Keeping %s.",
				tr.TrackKey, s.layout.Track.Name))
		}
	}

	s.ghost = tr
	s.log.Info("ghost imported",
		slog.String("trackKey", tr.TrackKey),
		slog.Bool("switched", res.Switched),
		slog.Bool("unknownTrack", res.UnknownTrack),
		slog.Int("frames", res.Frames))
	return res
}

// importProblem turns a decode error into something for the player.
func importProblem(err error) string {
	switch {
	case errors.Is(err, ghost.ErrMissingFrames):
		return "the file has no frames"
	case errors.Is(err, ghost.ErrFramesNotSequence):
		return "frames must be a list"
	case errors.Is(err, ghost.ErrUnordered):
		return "frame times go backwards"
	case errors.Is(err, ghost.ErrMalformed):
		return "the file is not a valid ghost file"
	case errors.Is(err, os.ErrNotExist):
		return "file not found"
	default:
		return strings.TrimSpace(err.Error())
	}
}
