package main

import (
	"errors"
	stdlog "log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/pflag"

	"github.com/mpihlak/ebiten-boatrace/pkg/config"
	"github.com/mpihlak/ebiten-boatrace/pkg/game"
	"github.com/mpihlak/ebiten-boatrace/pkg/log"
)

func main() {
	fs := config.Flags()
	if err := fs.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		stdlog.Fatal(err)
	}

	configPath, _ := fs.GetString("config")
	cfg, err := config.Load(configPath, fs)
	if err != nil {
		stdlog.Fatal(err)
	}

	lg := log.New(cfg.Log.Level, cfg.Log.Dir)

	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowTitle("Boat Race")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	g, err := game.NewGame(cfg, lg)
	if err != nil {
		lg.Errorf("startup: %v", err)
		stdlog.Fatal(err)
	}
	defer g.Close()

	if err := ebiten.RunGame(g); err != nil {
		lg.Errorf("game: %v", err)
		stdlog.Fatal(err)
	}
	lg.Info("exiting")
}
