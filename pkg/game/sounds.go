package game

import (
	"bytes"
	"fmt"
	"io"
	"os"

	ebaudio "github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/mp3"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"

	"github.com/mpihlak/ebiten-boatrace/pkg/audio"
	"github.com/mpihlak/ebiten-boatrace/pkg/config"
	"github.com/mpihlak/ebiten-boatrace/pkg/log"
)

type stream interface {
	io.ReadSeeker
	Length() int64
}

// loadSounds opens every sound it can find in dir. Missing or broken files
// are logged and leave the corresponding player nil.
func loadSounds(cfg config.Audio, dir string, lg *log.Logger) audio.Players {
	ctx := ebaudio.CurrentContext()
	if ctx == nil {
		ctx = ebaudio.NewContext(cfg.SampleRate)
	}

	return audio.Players{
		Wind:      loadSound(ctx, dir, audio.WindSound, true, lg),
		Music:     loadSound(ctx, dir, audio.MusicSound, true, lg),
		Boom:      loadSound(ctx, dir, audio.BoomSound, false, lg),
		Collision: loadSound(ctx, dir, audio.CollisionSound, false, lg),
	}
}

func loadSound(ctx *ebaudio.Context, dir, name string, loop bool, lg *log.Logger) audio.Player {
	p, err := openSound(ctx, dir, name, loop)
	if err != nil {
		lg.Warnf("%s: %v", name, err)
		return nil
	}
	lg.Debugf("%s: loaded", name)
	return p
}

func openSound(ctx *ebaudio.Context, dir, name string, loop bool) (*ebaudio.Player, error) {
	path, enc, err := audio.Find(dir, name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var s stream
	switch enc {
	case audio.MP3:
		s, err = mp3.DecodeWithSampleRate(ctx.SampleRate(), bytes.NewReader(data))
	default:
		s, err = wav.DecodeWithSampleRate(ctx.SampleRate(), bytes.NewReader(data))
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	if loop {
		return ctx.NewPlayer(ebaudio.NewInfiniteLoop(s, s.Length()))
	}

	pcm, err := io.ReadAll(s)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ctx.NewPlayerFromBytes(pcm), nil
}
