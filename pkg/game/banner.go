package game

import (
	"image/color"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/mpihlak/ebiten-boatrace/pkg/clock"
	"github.com/mpihlak/ebiten-boatrace/pkg/log"
)

const bannerDuration = 4 * time.Second

// Banner shows the most recent warning across the top of the screen for a
// few seconds. It may be called from any goroutine.
type Banner struct {
	clock clock.Clock
	log   *log.Logger

	mu    sync.Mutex
	msg   string
	until time.Time
}

func NewBanner(c clock.Clock, lg *log.Logger) *Banner {
	return &Banner{clock: c, log: lg}
}

func (b *Banner) Warn(msg string) {
	b.log.Warn(msg)

	b.mu.Lock()
	defer b.mu.Unlock()
	b.msg = msg
	b.until = b.clock.Now().Add(bannerDuration)
}

// Message returns the warning to show, if it has not expired yet.
func (b *Banner) Message() (string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.msg == "" || !b.clock.Now().Before(b.until) {
		return "", false
	}
	return b.msg, true
}

func (b *Banner) Draw(screen *ebiten.Image) {
	msg, ok := b.Message()
	if !ok {
		return
	}

	bounds := screen.Bounds()
	w := float32(len(msg)*6 + 20) // debug font glyphs are 6px wide
	x := (float32(bounds.Dx()) - w) / 2
	vector.DrawFilledRect(screen, x, 8, w, 24, color.NRGBA{180, 40, 40, 220}, false)
	ebitenutil.DebugPrintAt(screen, msg, int(x)+10, 12)
}
