package activity

import (
	"slices"

	"github.com/starford/tablero/internal/calendar"
	"github.com/starford/tablero/internal/models"
)

// Timeline holds the notes and operations of a dashboard window, each list
// sorted by timestamp ascending.
type Timeline struct {
	Notes      []Item `json:"notes"`
	Operations []Item `json:"operations"`
}

// DayGroup is one calendar day of a merged timeline.
type DayGroup struct {
	Day   string `json:"day"`
	Items []Item `json:"items"`
}

// Today returns today's notes of any area and today's operations of a
// known type.
func (e *Engine) Today(notes []models.Note, ops []models.Operation) Timeline {
	now := e.Now()
	return e.timeline(notes, ops, calendar.Span{Start: now.Day(), End: now.Day()})
}

// Upcoming returns the items dated after today and no later than
// today+days. A non-positive days uses DefaultUpcomingDays.
func (e *Engine) Upcoming(notes []models.Note, ops []models.Operation, days int) Timeline {
	if days <= 0 {
		days = DefaultUpcomingDays
	}
	return e.timeline(notes, ops, calendar.Upcoming(e.Now(), days))
}

func (e *Engine) timeline(notes []models.Note, ops []models.Operation, span calendar.Span) Timeline {
	tl := Timeline{Notes: []Item{}, Operations: []Item{}}
	for _, n := range notes {
		it := e.FromNote(n)
		if span.Contains(it.Date) {
			tl.Notes = append(tl.Notes, it)
		}
	}
	for _, o := range ops {
		if !o.Type.Known() {
			continue
		}
		it := e.FromOperation(o)
		if span.Contains(it.Date) {
			tl.Operations = append(tl.Operations, it)
		}
	}
	sortItems(tl.Notes)
	sortItems(tl.Operations)
	return tl
}

// Merged returns notes and operations in a single chronological sequence.
// Notes precede operations at the same instant.
func (t Timeline) Merged() []Item {
	out := make([]Item, 0, len(t.Notes)+len(t.Operations))
	out = append(out, t.Notes...)
	out = append(out, t.Operations...)
	sortItems(out)
	return out
}

// ByDay groups Merged by calendar day.
func (t Timeline) ByDay() []DayGroup {
	groups := []DayGroup{}
	for _, it := range t.Merged() {
		key := it.Date.Key()
		if n := len(groups); n > 0 && groups[n-1].Day == key {
			groups[n-1].Items = append(groups[n-1].Items, it)
			continue
		}
		groups = append(groups, DayGroup{Day: key, Items: []Item{it}})
	}
	return groups
}

// Len returns the number of items in the timeline.
func (t Timeline) Len() int {
	return len(t.Notes) + len(t.Operations)
}

func sortItems(items []Item) {
	slices.SortStableFunc(items, func(a, b Item) int {
		return a.Date.Compare(b.Date)
	})
}
