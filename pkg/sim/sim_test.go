package sim

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mpihlak/ebiten-boatrace/pkg/clock"
	"github.com/mpihlak/ebiten-boatrace/pkg/config"
	"github.com/mpihlak/ebiten-boatrace/pkg/game/objects"
	"github.com/mpihlak/ebiten-boatrace/pkg/geometry"
	"github.com/mpihlak/ebiten-boatrace/pkg/ghost"
	"github.com/mpihlak/ebiten-boatrace/pkg/lap"
	"github.com/mpihlak/ebiten-boatrace/pkg/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	warnings []string
}

func (n *recordingNotifier) Warn(msg string) {
	n.warnings = append(n.warnings, msg)
}

type countingCues struct {
	starts, ends, collisions int
	speed                    float64
}

func (c *countingCues) LapStart() { c.starts++ }
func (c *countingCues) LapEnd() { c.ends++ }
func (c *countingCues) Collision() { c.collisions++ }
func (c *countingCues) Speed(f float64) { c.speed = f }

type fixture struct {
	sim    *Simulation
	clock  *clock.Manual
	notes  *recordingNotifier
	cues   *countingCues
	config config.Config
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	cfg := config.Default()
	cfg.Paths.IdealLines = t.TempDir()

	f := &fixture{
		clock:  clock.NewManual(time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)),
		notes:  &recordingNotifier{},
		cues:   &countingCues{},
		config: cfg,
	}
	s, err := New(Options{
		Config:   cfg,
		Clock:    f.clock,
		Log:      log.Discard(),
		Cues:     f.cues,
		Notifier: f.notes,
		Width:    800,
		Height:   600,
	})
	require.NoError(t, err)
	f.sim = s
	return f
}

// crossLine drives the craft east across the speed track timing line, which
// sits near x=287 at y=470 in an 800x600 viewport.
func (f *fixture) crossLine(t *testing.T) []lap.State {
	t.Helper()

	f.sim.craft = objects.Craft{Pos: geometry.Point{X: 280, Y: 470}, Speed: 50}
	var states []lap.State
	for i := 0; i < 3; i++ {
		frame := f.sim.Step(0.1, objects.Controls{})
		states = append(states, frame.LapState)
	}
	return states
}

func TestNewCentersCraft(t *testing.T) {
	f := newFixture(t)

	frame := f.sim.Snapshot()
	assert.Equal(t, geometry.Point{X: 400, Y: 300}, frame.Craft.Pos)
	assert.Zero(t, frame.Craft.Heading)
	assert.Equal(t, "speedTrack", f.sim.Track().Key)
	assert.Equal(t, lap.Idle, frame.LapState)
	assert.False(t, frame.ShowGhost)
}

func TestNewRejectsUnknownTrack(t *testing.T) {
	cfg := config.Default()
	cfg.Track.Initial = "monaco"

	_, err := New(Options{Config: cfg, Width: 800, Height: 600})
	assert.ErrorIs(t, err, ErrUnknownTrack)
}

func TestStepClampsDt(t *testing.T) {
	f := newFixture(t)

	frame := f.sim.Step(5, objects.Controls{Up: true})

	assert.InDelta(t, f.config.Physics.AccelRate*f.config.Physics.MaxStep, frame.Craft.Speed, 1e-9)
	assert.InDelta(t, frame.Craft.Speed/f.config.Physics.MaxSpeed, f.cues.speed, 1e-12)
}

func TestLapRecordsGhost(t *testing.T) {
	f := newFixture(t)

	states := f.crossLine(t)
	assert.Equal(t, []lap.State{lap.Idle, lap.Active, lap.Active}, states)
	assert.Equal(t, 1, f.cues.starts)

	f.clock.Advance(10 * time.Second)
	f.crossLine(t)
	assert.Equal(t, 1, f.cues.ends)

	g := f.sim.Ghost()
	require.NotNil(t, g)
	assert.Equal(t, "speedTrack", g.TrackKey)
	require.Equal(t, 3, g.Len(), "every active tick is recorded")
	assert.Zero(t, g.Samples[0].Time)

	// Ghost samples are in track units.
	px := f.sim.Layout().Mapper.ToPixel(g.Samples[0].Pos)
	assert.InDelta(t, 280+2*50*f.config.Physics.SpeedScale*0.1, px.X, 1e-9)
	assert.InDelta(t, 470, px.Y, 1e-9)

	frame := f.sim.Snapshot()
	require.Len(t, frame.History, 1)
	assert.InDelta(t, 10.0, frame.History[0].FinalTime, 1e-9)
	assert.True(t, frame.ShowGhost, "finished lap shows the ghost at its final pose")
	last := g.Samples[len(g.Samples)-1]
	assert.InDelta(t, f.sim.Layout().Mapper.ToPixel(last.Pos).X, frame.Ghost.Pos.X, 1e-9)
}

func TestGhostHiddenOnOtherTrack(t *testing.T) {
	f := newFixture(t)

	f.crossLine(t)
	f.clock.Advance(5 * time.Second)
	f.crossLine(t)
	_, _, ok := f.sim.GhostPixel()
	require.True(t, ok)

	require.NoError(t, f.sim.SelectTrack("dubaiTrack"))
	_, _, ok = f.sim.GhostPixel()
	assert.False(t, ok)

	require.NoError(t, f.sim.SelectTrack("speedTrack"))
	_, _, ok = f.sim.GhostPixel()
	assert.True(t, ok)
}

func TestSelectTrack(t *testing.T) {
	f := newFixture(t)

	err := f.sim.SelectTrack("monaco")
	assert.ErrorIs(t, err, ErrUnknownTrack)
	assert.Equal(t, "speedTrack", f.sim.Track().Key)

	require.NoError(t, f.sim.SelectTrackIndex(1))
	assert.Equal(t, "dubaiTrack", f.sim.Track().Key)
	assert.Len(t, f.sim.Layout().Buoys, 16)

	assert.ErrorIs(t, f.sim.SelectTrackIndex(8), ErrUnknownTrack)
}

func TestSelectTrackAbandonsLap(t *testing.T) {
	f := newFixture(t)

	f.crossLine(t)
	require.Equal(t, lap.Active, f.sim.Snapshot().LapState)

	require.NoError(t, f.sim.SelectTrack("dubaiTrack"))
	assert.Equal(t, lap.Idle, f.sim.Snapshot().LapState)
	assert.Nil(t, f.sim.Ghost())
}

func TestResizeRecentersTrack(t *testing.T) {
	f := newFixture(t)

	f.sim.Resize(1600, 1200)
	l := f.sim.Layout()
	assert.Equal(t, 1600.0, l.Width)
	c := geometry.Centroid(l.Buoys)
	assert.InDelta(t, 800, c.X, 1e-9)
	assert.InDelta(t, 600, c.Y, 1e-9)

	f.sim.Resize(0, 100)
	assert.Equal(t, 1600.0, f.sim.Layout().Width, "bogus sizes are ignored")
}

func TestExportWithoutGhost(t *testing.T) {
	f := newFixture(t)

	var buf bytes.Buffer
	err := f.sim.ExportGhost(&buf, ghost.JSON)
	assert.ErrorIs(t, err, ErrNoGhost)
	assert.Zero(t, buf.Len())
	assert.Len(t, f.notes.warnings, 1)

	path := filepath.Join(t.TempDir(), "ghost.json")
	assert.ErrorIs(t, f.sim.ExportGhostFile(path), ErrNoGhost)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "no file may be produced")
}

func TestExportImportedGhostNeedsFinishedLap(t *testing.T) {
	f := newFixture(t)
	_, err := f.sim.ImportGhost(strings.NewReader(`{"trackKey": "speedTrack", "frames": [{"time": 0}]}`), ghost.JSON)
	require.NoError(t, err)
	require.NotNil(t, f.sim.Ghost())
	assert.False(t, f.sim.CanExportGhost())

	var buf bytes.Buffer
	assert.ErrorIs(t, f.sim.ExportGhost(&buf, ghost.JSON), ErrNoGhost)
	assert.Zero(t, buf.Len())

	path := filepath.Join(t.TempDir(), "ghost.json")
	assert.ErrorIs(t, f.sim.ExportGhostFile(path), ErrNoGhost)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))

	f.crossLine(t)
	f.clock.Advance(3 * time.Second)
	f.crossLine(t)
	assert.True(t, f.sim.CanExportGhost())
	require.NoError(t, f.sim.ExportGhost(&buf, ghost.JSON))
	assert.NotZero(t, buf.Len())
}

func TestExportImportRoundTrip(t *testing.T) {
	f := newFixture(t)
	f.crossLine(t)
	f.clock.Advance(3 * time.Second)
	f.crossLine(t)

	path := filepath.Join(t.TempDir(), "ghost.json.zst")
	require.NoError(t, f.sim.ExportGhostFile(path))

	other := newFixture(t)
	res, err := other.sim.ImportGhostFile(path)
	require.NoError(t, err)
	assert.Equal(t, ImportResult{TrackKey: "speedTrack", Frames: 3}, res)
	assert.Equal(t, f.sim.Ghost(), other.sim.Ghost())
}

func TestImportWithoutTrackKey(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.sim.SelectTrack("dubaiTrack"))

	res, err := f.sim.ImportGhost(strings.NewReader(`{"frames": [{"time": 0, "x": 10, "y": 10, "heading": 0}]}`), ghost.JSON)
	require.NoError(t, err)

	assert.False(t, res.Switched)
	assert.Equal(t, "dubaiTrack", f.sim.Track().Key)
	require.NotNil(t, f.sim.Ghost())
	assert.Equal(t, 1, f.sim.Ghost().Len())
	assert.Empty(t, f.notes.warnings)
}

func TestImportSwitchesToKnownTrack(t *testing.T) {
	f := newFixture(t)

	res, err := f.sim.ImportGhost(strings.NewReader(`{"trackKey": "dubaiTrack", "frames": []}`), ghost.JSON)
	require.NoError(t, err)

	assert.True(t, res.Switched)
	assert.Equal(t, "dubaiTrack", f.sim.Track().Key)
	assert.Len(t, f.sim.Layout().Buoys, 16)
}

func TestImportUnknownTrackWarnsButAccepts(t *testing.T) {
	f := newFixture(t)

	res, err := f.sim.ImportGhost(strings.NewReader(`{"trackKey": "monaco", "frames": [{"time": 0}]}`), ghost.JSON)
	require.NoError(t, err)

	assert.True(t, res.UnknownTrack)
	assert.Equal(t, "speedTrack", f.sim.Track().Key)
	require.NotNil(t, f.sim.Ghost())
	assert.Equal(t, "monaco", f.sim.Ghost().TrackKey)
	require.Len(t, f.notes.warnings, 1)
	assert.Contains(t, f.notes.warnings[0], "monaco")
}

func TestImportInvalidKeepsState(t *testing.T) {
	f := newFixture(t)
	_, err := f.sim.ImportGhost(strings.NewReader(`{"trackKey": "speedTrack", "frames": [{"time": 1}]}`), ghost.JSON)
	require.NoError(t, err)
	before := f.sim.Ghost()

	for _, input := range []string{
		`{"trackKey": "dubaiTrack"}`,
		`{"trackKey": "dubaiTrack", "frames": 3}`,
		`not json`,
	} {
		_, err := f.sim.ImportGhost(strings.NewReader(input), ghost.JSON)
		assert.Error(t, err, input)
	}

	assert.Same(t, before, f.sim.Ghost())
	assert.Equal(t, "speedTrack", f.sim.Track().Key)
	assert.Len(t, f.notes.warnings, 3)
}

func TestImportGhostFileAsync(t *testing.T) {
	f := newFixture(t)

	path := filepath.Join(t.TempDir(), "lap.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"trackKey": "dubaiTrack", "frames": [{"time": 0}]}`), 0o644))

	f.sim.ImportGhostFileAsync(path)
	f.sim.Wait()
	assert.Equal(t, "speedTrack", f.sim.Track().Key, "results apply on the next step")

	f.sim.Step(0.016, objects.Controls{})
	assert.Equal(t, "dubaiTrack", f.sim.Track().Key)
	require.NotNil(t, f.sim.Ghost())

	f.sim.ImportGhostFileAsync(filepath.Join(t.TempDir(), "missing.json"))
	f.sim.Wait()
	f.sim.Step(0.016, objects.Controls{})
	require.Len(t, f.notes.warnings, 1)
	assert.Contains(t, f.notes.warnings[0], "file not found")
}

func TestWaitWithManyLoadsInFlight(t *testing.T) {
	f := newFixture(t)
	dir := t.TempDir()

	const loads = 3 * 16
	for i := 0; i < loads; i++ {
		f.sim.ImportGhostFileAsync(filepath.Join(dir, fmt.Sprintf("missing-%d.json", i)))
	}

	done := make(chan struct{})
	go func() {
		f.sim.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Wait did not return with more loads than the result buffer holds")
	}

	assert.Empty(t, f.notes.warnings, "results apply on the next step")
	f.sim.Step(0.016, objects.Controls{})
	assert.Len(t, f.notes.warnings, loads)

	f.sim.Step(0.016, objects.Controls{})
	assert.Len(t, f.notes.warnings, loads, "each result applies once")
}

func TestIdealLine(t *testing.T) {
	f := newFixture(t)

	path := filepath.Join(f.config.Paths.IdealLines, "speed_track.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"frames": [
		{"time": 0, "x": 20, "y": 15, "heading": 0},
		{"time": 1, "x": 125, "y": 15, "heading": 0}
	]}`), 0o644))

	assert.True(t, f.sim.ToggleIdealLine())
	assert.Nil(t, f.sim.IdealLine(), "still loading")

	f.sim.Wait()
	frame := f.sim.Step(0.016, objects.Controls{})
	require.Len(t, frame.IdealLine, 2)
	assert.Equal(t, f.sim.Layout().Buoys[0], frame.IdealLine[0])

	// Dubai has no overlay file; nothing shows and nothing breaks.
	require.NoError(t, f.sim.SelectTrack("dubaiTrack"))
	f.sim.Wait()
	frame = f.sim.Step(0.016, objects.Controls{})
	assert.Nil(t, frame.IdealLine)
	assert.Empty(t, f.notes.warnings, "overlay failures are only logged")

	require.NoError(t, f.sim.SelectTrack("speedTrack"))
	assert.Len(t, f.sim.IdealLine(), 2, "cached per track")

	assert.False(t, f.sim.ToggleIdealLine())
	assert.Nil(t, f.sim.IdealLine())
}

func TestReset(t *testing.T) {
	f := newFixture(t)
	f.crossLine(t)

	f.sim.Reset()

	frame := f.sim.Snapshot()
	assert.Equal(t, lap.Idle, frame.LapState)
	assert.Equal(t, geometry.Point{X: 400, Y: 300}, frame.Craft.Pos)
	assert.Zero(t, frame.Craft.Speed)
	assert.Empty(t, frame.Wake)
}
