package dashboard

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/mpihlak/ebiten-boatrace/pkg/lap"
)

// BoardEntry is one formatted row of the lap board.
type BoardEntry struct {
	Rank     int
	Lap      int // 1 is the most recent lap
	Time     string
	Penalty  string
	Distance string
	IsLatest bool // highlight the lap that just finished
}

// Board ranks laps (newest first, as kept by lap.History) by final time.
func Board(records []lap.Record) []BoardEntry {
	order := make([]int, len(records))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return records[order[i]].FinalTime < records[order[j]].FinalTime
	})

	entries := make([]BoardEntry, 0, len(records))
	for rank, idx := range order {
		r := records[idx]

		penalty := "-"
		if r.Penalty > 0 {
			penalty = "+" + strconv.FormatFloat(r.Penalty, 'f', -1, 64) + "s"
		}

		entries = append(entries, BoardEntry{
			Rank:     rank + 1,
			Lap:      idx + 1,
			Time:     boardTime(r.FinalTime),
			Penalty:  penalty,
			Distance: fmt.Sprintf("%.0fm", r.Distance),
			IsLatest: idx == 0,
		})
	}
	return entries
}

func boardTime(seconds float64) string {
	minutes := int(seconds) / 60
	secs := int(seconds) % 60
	centiseconds := int((seconds - float64(int(seconds))) * 100)
	return fmt.Sprintf("%02d:%02d.%02d", minutes, secs, centiseconds)
}
