package audio

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Sound file base names looked up in the sounds directory.
const (
	WindSound      = "wind"
	MusicSound     = "music"
	BoomSound      = "boom_stop"
	CollisionSound = "collision"
)

// Encoding of a sound file, taken from its extension.
type Encoding int

const (
	WAV Encoding = iota
	MP3
)

func (e Encoding) String() string {
	if e == MP3 {
		return "mp3"
	}
	return "wav"
}

var ErrNoSoundFile = errors.New("no sound file")

// Find returns the path of the named sound in dir, preferring WAV over MP3.
func Find(dir, name string) (string, Encoding, error) {
	for _, enc := range []Encoding{WAV, MP3} {
		path := filepath.Join(dir, name+"."+enc.String())
		fi, err := os.Stat(path)
		if err == nil && !fi.IsDir() {
			return path, enc, nil
		}
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return "", 0, fmt.Errorf("%s: %w", path, err)
		}
	}
	return "", 0, fmt.Errorf("%s in %s: %w", name, dir, ErrNoSoundFile)
}
