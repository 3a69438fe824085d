package activity

import (
	"slices"

	"github.com/starford/tablero/internal/calendar"
	"github.com/starford/tablero/internal/models"
)

// ClientSummary is the recent activity of one known client.
//
// TotalInWindow counts every operation in the window; SampleOperations is
// only the most recent few of them.
type ClientSummary struct {
	Place            models.Place       `json:"place"`
	TotalInWindow    int                `json:"totalInWindow"`
	MostRecentDate   calendar.Time      `json:"mostRecentDate"`
	SampleOperations []models.Operation `json:"sampleOperations"`
}

// SummarizeByClient summarizes the operations of each known client over the
// trailing window [today-N, today]. Clients without operations in the window
// are omitted; the rest are ordered by their most recent operation, newest
// first. Input order does not matter: the sample is the client's newest
// operations, not the first ones listed.
func (e *Engine) SummarizeByClient(ops []models.Operation) []ClientSummary {
	window := calendar.Trailing(e.Now(), e.recentWindowDays)

	type candidate struct {
		op models.Operation
		at calendar.Time
	}
	byPlace := make(map[models.Place][]candidate, len(models.Places))
	for _, op := range ops {
		if !op.Type.Known() || !op.Place.Known() {
			continue
		}
		at := e.Parse(op.Date)
		if !window.Contains(at) {
			continue
		}
		byPlace[op.Place] = append(byPlace[op.Place], candidate{op: op, at: at})
	}

	out := []ClientSummary{}
	for _, place := range models.Places {
		cands := byPlace[place]
		if len(cands) == 0 {
			continue
		}
		slices.SortStableFunc(cands, func(a, b candidate) int {
			return b.at.Compare(a.at)
		})
		n := min(e.sampleSize, len(cands))
		sample := make([]models.Operation, n)
		for i := range n {
			sample[i] = cands[i].op
		}
		out = append(out, ClientSummary{
			Place:            place,
			TotalInWindow:    len(cands),
			MostRecentDate:   cands[0].at,
			SampleOperations: sample,
		})
	}

	slices.SortStableFunc(out, func(a, b ClientSummary) int {
		return b.MostRecentDate.Compare(a.MostRecentDate)
	})
	return out
}
