package game

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/mpihlak/ebiten-boatrace/pkg/dashboard"
	"github.com/mpihlak/ebiten-boatrace/pkg/lap"
)

// drawLapBoard draws the recent laps ranked by time.
func drawLapBoard(screen *ebiten.Image, trackName string, records []lap.Record) {
	bounds := screen.Bounds()
	centerX := bounds.Dx() / 2
	startY := 100

	vector.DrawFilledRect(screen, float32(centerX-220), float32(startY-50), 440, 280, color.NRGBA{0, 0, 0, 180}, false)

	title := "LAP TIMES - " + trackName
	ebitenutil.DebugPrintAt(screen, title, centerX-3*len(title), startY-30)

	// Headers
	headerY := startY + 20
	ebitenutil.DebugPrintAt(screen, "Rank", centerX-180, headerY)
	ebitenutil.DebugPrintAt(screen, "Lap", centerX-120, headerY)
	ebitenutil.DebugPrintAt(screen, "Time", centerX-70, headerY)
	ebitenutil.DebugPrintAt(screen, "Penalty", centerX+10, headerY)
	ebitenutil.DebugPrintAt(screen, "Dist", centerX+90, headerY)

	lineY := float32(headerY + 15)
	vector.StrokeLine(screen, float32(centerX-190), lineY, float32(centerX+150), lineY, 1, color.White, false)

	entries := dashboard.Board(records)
	if len(entries) == 0 {
		ebitenutil.DebugPrintAt(screen, "No laps yet. Cross the timing line to start one.", centerX-150, startY+50)
	}

	for i, entry := range entries {
		entryY := startY + 50 + (i * 25)

		if entry.IsLatest {
			vector.DrawFilledRect(screen, float32(centerX-195), float32(entryY-2), 350, 20, color.NRGBA{173, 216, 230, 150}, false)
		}

		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%d", entry.Rank), centerX-180, entryY)
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("#%d", entry.Lap), centerX-120, entryY)
		ebitenutil.DebugPrintAt(screen, entry.Time, centerX-70, entryY)
		ebitenutil.DebugPrintAt(screen, entry.Penalty, centerX+10, entryY)
		ebitenutil.DebugPrintAt(screen, entry.Distance, centerX+90, entryY)
	}

	ebitenutil.DebugPrintAt(screen, "Press H to close", centerX-48, startY+200)
}
