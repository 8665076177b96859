package lap

// Record is the summary of one finished lap. Speeds are in km/h, distance in
// track units and times in seconds. FinalTime includes Penalty.
type Record struct {
	TopSpeed  float64 `json:"topSpeed"`
	MinSpeed  float64 `json:"minSpeed"`
	AvgSpeed  float64 `json:"avgSpeed"`
	Distance  float64 `json:"distance"`
	FinalTime float64 `json:"finalTime"`
	Penalty   float64 `json:"penalty"`
}

// History holds the most recent laps, newest first.
type History struct {
	records []Record
	size    int
}

func NewHistory(size int) *History {
	return &History{size: size}
}

// Push adds r at the front, evicting the oldest record when full.
func (h *History) Push(r Record) {
	h.records = append([]Record{r}, h.records...)
	if len(h.records) > h.size {
		h.records = h.records[:h.size]
	}
}

// Records returns a copy, newest first.
func (h *History) Records() []Record {
	return append([]Record(nil), h.records...)
}

func (h *History) Len() int {
	return len(h.records)
}

// Best returns the fastest recorded lap.
func (h *History) Best() (Record, bool) {
	return Best(h.records)
}

// Best returns the record with the lowest final time. Ties go to the earlier
// entry.
func Best(records []Record) (Record, bool) {
	if len(records) == 0 {
		return Record{}, false
	}
	best := records[0]
	for _, r := range records[1:] {
		if r.FinalTime < best.FinalTime {
			best = r
		}
	}
	return best, true
}
