package activity

import (
	"time"
	_ "time/tzdata"

	"github.com/starford/tablero/internal/models"
)

var madrid = func() *time.Location {
	loc, err := time.LoadLocation("Europe/Madrid")
	if err != nil {
		panic(err)
	}
	return loc
}()

// testEngine is pinned to Wednesday 2024-03-13 09:00 in Madrid. The current
// week runs from Sunday 2024-03-10 to Saturday 2024-03-16.
func testEngine(opts ...Option) *Engine {
	now := time.Date(2024, 3, 13, 9, 0, 0, 0, madrid)
	base := []Option{WithLocation(madrid), WithClock(func() time.Time { return now })}
	return New(append(base, opts...)...)
}

func op(id string, t models.OperationType, p models.Place, date string) models.Operation {
	return models.Operation{ID: id, Type: t, Place: p, Date: date}
}

func note(id string, area models.Area, date string) models.Note {
	return models.Note{ID: id, Area: area, Date: date, Content: "nota " + id}
}

func opIDs(ops []models.Operation) []string {
	out := make([]string, len(ops))
	for i, o := range ops {
		out[i] = o.ID
	}
	return out
}

func itemIDs(items []Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}
