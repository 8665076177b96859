// Package game is the ebiten front end: it samples input, steps the
// simulation once per tick and draws the result.
package game

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/mpihlak/ebiten-boatrace/pkg/audio"
	"github.com/mpihlak/ebiten-boatrace/pkg/clock"
	"github.com/mpihlak/ebiten-boatrace/pkg/config"
	"github.com/mpihlak/ebiten-boatrace/pkg/dashboard"
	"github.com/mpihlak/ebiten-boatrace/pkg/game/objects"
	"github.com/mpihlak/ebiten-boatrace/pkg/ghost"
	"github.com/mpihlak/ebiten-boatrace/pkg/log"
	"github.com/mpihlak/ebiten-boatrace/pkg/sim"
)

var trackKeys = []ebiten.Key{
	ebiten.KeyDigit1, ebiten.KeyDigit2, ebiten.KeyDigit3,
	ebiten.KeyDigit4, ebiten.KeyDigit5, ebiten.KeyDigit6,
	ebiten.KeyDigit7, ebiten.KeyDigit8, ebiten.KeyDigit9,
}

// dialogResult carries a file dialog answer back to the game loop.
type dialogResult struct {
	export bool
	path   string
}

type GameState struct {
	cfg   *config.Config
	log   *log.Logger
	clock *clock.Pausable

	sim    *sim.Simulation
	frame  sim.Frame
	mixer  *audio.Mixer
	banner *Banner

	mobileControls *MobileControls
	telltale       *Telltale

	width, height int
	isPaused      bool // Game pause state
	showBoard     bool

	dialogOpen bool
	dialogs    chan dialogResult
}

func NewGame(cfg *config.Config, lg *log.Logger) (*GameState, error) {
	g := &GameState{
		cfg:      cfg,
		log:      lg,
		clock:    clock.NewPausable(clock.Real{}),
		banner:   NewBanner(clock.Real{}, lg),
		width:    cfg.Window.Width,
		height:   cfg.Window.Height,
		isPaused: true, // Start game in paused mode
		dialogs:  make(chan dialogResult, 1),
	}
	g.clock.Pause()

	var cues sim.Cues = sim.NopCues{}
	if cfg.Audio.Enabled {
		g.mixer = audio.NewMixer(cfg.Audio, loadSounds(cfg.Audio, cfg.Paths.Sounds, lg), lg)
		cues = g.mixer
	}

	s, err := sim.New(sim.Options{
		Config:   *cfg,
		Clock:    g.clock,
		Log:      lg,
		Cues:     cues,
		Notifier: g.banner,
		Width:    float64(g.width),
		Height:   float64(g.height),
	})
	if err != nil {
		return nil, err
	}
	g.sim = s
	g.frame = s.Snapshot()

	g.mobileControls = NewMobileControls(g.width, g.height)
	g.telltale = NewTelltale(g.width, cfg.Physics.BankMax)

	return g, nil
}

// Close stops the sounds and waits for background loads.
func (g *GameState) Close() {
	if g.mixer != nil {
		g.mixer.Close()
	}
	g.sim.Wait()
}

func (g *GameState) Update() error {
	g.handleDialogs()

	mobileInput := g.mobileControls.Update()

	// Handle quit key - different behavior for WASM vs standalone
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		if IsWASM() {
			g.setPaused(true)
			return nil
		}
		return ebiten.Termination
	}

	pauseTogglePressed := inpututil.IsKeyJustPressed(ebiten.KeySpace) || mobileInput.PausePressed

	// On mobile, any touch when paused should unpause (except on buttons)
	if g.isPaused && !pauseTogglePressed {
		for _, id := range inpututil.AppendJustPressedTouchIDs(nil) {
			if x, y := ebiten.TouchPosition(id); !g.mobileControls.OnButton(x, y) {
				pauseTogglePressed = true
				break
			}
		}
	}
	if pauseTogglePressed {
		g.setPaused(!g.isPaused)
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyR) || mobileInput.ResetPressed {
		g.sim.Reset()
	}
	for i, k := range trackKeys {
		if inpututil.IsKeyJustPressed(k) {
			g.selectTrack(i)
		}
	}
	if mobileInput.NextTrackPressed {
		g.selectTrack(g.trackIndex() + 1)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyE) {
		g.exportGhost()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyI) {
		g.importGhost()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyL) {
		g.sim.ToggleIdealLine()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		g.showBoard = !g.showBoard
	}

	// Don't update game logic when paused
	if g.isPaused {
		g.frame = g.sim.Snapshot()
		return nil
	}

	dt := 1 / float64(ebiten.TPS())
	g.frame = g.sim.Step(dt, keyboardControls().Merge(mobileInput.Controls))
	g.telltale.Update(dt, g.frame.Craft.BankDeg, g.frame.Craft.Speed/g.cfg.Physics.MaxSpeed)

	return nil
}

func keyboardControls() objects.Controls {
	return objects.Controls{
		Up:    ebiten.IsKeyPressed(ebiten.KeyArrowUp) || ebiten.IsKeyPressed(ebiten.KeyW),
		Down:  ebiten.IsKeyPressed(ebiten.KeyArrowDown) || ebiten.IsKeyPressed(ebiten.KeyS),
		Left:  ebiten.IsKeyPressed(ebiten.KeyArrowLeft) || ebiten.IsKeyPressed(ebiten.KeyA),
		Right: ebiten.IsKeyPressed(ebiten.KeyArrowRight) || ebiten.IsKeyPressed(ebiten.KeyD),
	}
}

func (g *GameState) setPaused(paused bool) {
	if paused == g.isPaused {
		return
	}
	g.isPaused = paused
	if paused {
		g.clock.Pause()
	} else {
		g.clock.Resume()
	}
	g.log.Debug("pause toggled", slog.Bool("paused", paused))
}

func (g *GameState) trackIndex() int {
	current := g.sim.Track()
	for i, t := range g.sim.Tracks().All() {
		if t == current {
			return i
		}
	}
	return 0
}

func (g *GameState) selectTrack(i int) {
	if n := g.sim.Tracks().Len(); n > 0 {
		i %= n
	}
	if err := g.sim.SelectTrackIndex(i); err != nil {
		g.banner.Warn(err.Error())
	}
}

func (g *GameState) exportGhost() {
	if !g.sim.CanExportGhost() {
		g.banner.Warn("No ghost lap to export yet. Finish a lap first.")
		return
	}
	name := g.sim.Track().Key + ".ghost" + ghost.JSON.Extension()
	g.openDialog(true, filepath.Join(g.cfg.Paths.Ghosts, name))
}

func (g *GameState) importGhost() {
	g.openDialog(false, g.cfg.Paths.Ghosts)
}

// openDialog runs a file dialog on its own goroutine so the game keeps
// drawing. The answer is picked up by handleDialogs.
func (g *GameState) openDialog(export bool, path string) {
	if g.dialogOpen {
		return
	}
	g.dialogOpen = true

	if err := os.MkdirAll(g.cfg.Paths.Ghosts, 0o755); err != nil {
		g.log.Warnf("ghost directory: %v", err)
	}

	go func() {
		var (
			picked string
			ok     bool
			err    error
		)
		if export {
			picked, ok, err = saveGhostDialog(path)
		} else {
			picked, ok, err = openGhostDialog(path)
		}
		if err != nil {
			g.banner.Warn(err.Error())
		}
		if !ok {
			picked = ""
		}
		g.dialogs <- dialogResult{export: export, path: picked}
	}()
}

func (g *GameState) handleDialogs() {
	select {
	case res := <-g.dialogs:
		g.dialogOpen = false
		if res.path == "" {
			return
		}
		if res.export {
			// Failures are reported through the banner by the simulation.
			_ = g.sim.ExportGhostFile(res.path)
		} else {
			g.sim.ImportGhostFileAsync(res.path)
		}
	default:
	}
}

func (g *GameState) Draw(screen *ebiten.Image) {
	f := &g.frame
	drawWorld(screen, f, g.cfg.Lap.CollisionRadius)

	d := &dashboard.Dashboard{
		TrackName: g.sim.Track().Name,
		SpeedKmh:  f.SpeedKmh,
		BankDeg:   f.Craft.BankDeg,
		Lap:       f.Lap,
		History:   f.History,
	}
	if f.Layout != nil {
		d.Pos = f.Craft.Pos
		d.TimingLine = f.Layout.TimingLine
		d.Scale = f.Layout.Mapper.Scale
	}
	drawDashboard(screen, d)
	g.telltale.Draw(screen, f.Craft.BankDeg)

	g.mobileControls.Draw(screen, g.isPaused)

	if g.showBoard {
		drawLapBoard(screen, g.sim.Track().Name, f.History)
	}

	if g.isPaused {
		var names []string
		for _, t := range g.sim.Tracks().All() {
			names = append(names, t.Name)
		}
		drawHelpScreen(screen, g.mobileControls.hasTouchInput, names, g.cfg.Lap.PenaltySeconds)
	}

	g.banner.Draw(screen)
}

// Layout uses the full window and rebuilds the track layout when its size
// changes.
func (g *GameState) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth > 0 && outsideHeight > 0 && (outsideWidth != g.width || outsideHeight != g.height) {
		g.width, g.height = outsideWidth, outsideHeight
		g.sim.Resize(float64(g.width), float64(g.height))
		g.mobileControls.Resize(g.width, g.height)
		g.telltale.Resize(g.width)
		g.frame = g.sim.Snapshot()
	}
	return g.width, g.height
}
