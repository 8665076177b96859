package audio

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpihlak/ebiten-boatrace/pkg/config"
	"github.com/mpihlak/ebiten-boatrace/pkg/log"
)

type fakePlayer struct {
	mu      sync.Mutex
	playing bool
	volume  float64
	plays   int
	rewinds int
}

func newFakePlayer() *fakePlayer { return &fakePlayer{volume: 1} }

func (f *fakePlayer) Play() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.playing = true
	f.plays++
}

func (f *fakePlayer) Pause() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.playing = false
}

func (f *fakePlayer) Rewind() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rewinds++
	return nil
}

func (f *fakePlayer) SetVolume(v float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.volume = v
}

func (f *fakePlayer) IsPlaying() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.playing
}

func (f *fakePlayer) state() (playing bool, volume float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.playing, f.volume
}

func newTestMixer(fade time.Duration) (*Mixer, Players) {
	p := Players{
		Wind:      newFakePlayer(),
		Music:     newFakePlayer(),
		Boom:      newFakePlayer(),
		Collision: newFakePlayer(),
	}
	cfg := config.Default().Audio
	cfg.MusicFade = fade
	cfg.FadeSteps = 4
	return NewMixer(cfg, p, log.Discard()), p
}

func TestLapStartPlaysMusic(t *testing.T) {
	m, p := newTestMixer(time.Second)
	music := p.Music.(*fakePlayer)
	music.SetVolume(0.3)

	m.LapStart()

	playing, volume := music.state()
	assert.True(t, playing)
	assert.Equal(t, 1.0, volume)
	assert.Equal(t, 1, music.rewinds)
}

func TestLapEndFadesMusicOut(t *testing.T) {
	m, p := newTestMixer(20 * time.Millisecond)
	music := p.Music.(*fakePlayer)
	boom := p.Boom.(*fakePlayer)

	m.LapStart()
	m.LapEnd()

	assert.True(t, boom.IsPlaying())
	require.Eventually(t, func() bool {
		playing, volume := music.state()
		return !playing && volume == 1
	}, time.Second, 5*time.Millisecond, "music stops and its volume is restored")
}

func TestLapStartCancelsFade(t *testing.T) {
	m, p := newTestMixer(20 * time.Millisecond)
	music := p.Music.(*fakePlayer)

	m.LapStart()
	m.LapEnd()
	m.LapStart()

	time.Sleep(60 * time.Millisecond)
	playing, volume := music.state()
	assert.True(t, playing)
	assert.Equal(t, 1.0, volume)
}

func TestLapEndWithoutMusicOnlyBooms(t *testing.T) {
	m, p := newTestMixer(20 * time.Millisecond)

	m.LapEnd()

	assert.True(t, p.Boom.IsPlaying())
	assert.False(t, p.Music.IsPlaying())
	m.mu.Lock()
	assert.Nil(t, m.fading)
	m.mu.Unlock()
}

func TestSpeedDrivesWind(t *testing.T) {
	m, p := newTestMixer(time.Second)
	wind := p.Wind.(*fakePlayer)

	m.Speed(0.5)
	m.Speed(1.7)

	playing, volume := wind.state()
	assert.True(t, playing)
	assert.Equal(t, 1.0, volume)
	assert.Equal(t, 1, wind.plays, "the wind loop is started once")

	m.Speed(-1)
	_, volume = wind.state()
	assert.Equal(t, 0.0, volume)
}

func TestCollisionRestartsEffect(t *testing.T) {
	m, p := newTestMixer(time.Second)
	hit := p.Collision.(*fakePlayer)

	m.Collision()
	m.Collision()

	assert.Equal(t, 2, hit.rewinds)
	assert.Equal(t, 2, hit.plays)
}

func TestMissingPlayersAreSkipped(t *testing.T) {
	m := NewMixer(config.Default().Audio, Players{}, log.Discard())

	assert.NotPanics(t, func() {
		m.LapStart()
		m.LapEnd()
		m.Collision()
		m.Speed(0.4)
		m.Close()
	})
}

func TestCloseSilences(t *testing.T) {
	m, p := newTestMixer(time.Second)

	m.Speed(0.8)
	m.LapStart()
	m.Close()

	assert.False(t, p.Wind.IsPlaying())
	assert.False(t, p.Music.IsPlaying())

	m.Collision()
	assert.False(t, p.Collision.IsPlaying())
}

func TestFind(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "wind.mp3"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "music.mp3"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "music.wav"), []byte("x"), 0o644))

	path, enc, err := Find(dir, WindSound)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "wind.mp3"), path)
	assert.Equal(t, MP3, enc)

	path, enc, err = Find(dir, MusicSound)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "music.wav"), path)
	assert.Equal(t, WAV, enc)

	_, _, err = Find(dir, CollisionSound)
	assert.ErrorIs(t, err, ErrNoSoundFile)
}
