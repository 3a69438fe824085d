package activity

import (
	"slices"

	"github.com/starford/tablero/internal/calendar"
	"github.com/starford/tablero/internal/models"
)

// DayLabelLayout formats day buckets the way the dashboard prints dates.
const DayLabelLayout = "2/1/2006"

// WeekdayLabels are the labels of the weekly statistics chart, Sunday first.
var WeekdayLabels = []string{"Dom", "Lun", "Mar", "Mié", "Jue", "Vie", "Sáb"}

// Series is one line of values aligned with the dataset labels.
type Series struct {
	Key    string `json:"key"`
	Name   string `json:"name"`
	Values []int  `json:"values"`
}

// ChartDataset is the input of a chart: labels and the series over them.
type ChartDataset struct {
	Labels []string `json:"labels"`
	Series []Series `json:"series"`
}

// Aligned reports whether every series has one value per label.
func (d ChartDataset) Aligned() bool {
	for _, s := range d.Series {
		if len(s.Values) != len(d.Labels) {
			return false
		}
	}
	return true
}

// Total sums the values of the series with the given key.
func (d ChartDataset) Total(key string) int {
	total := 0
	for _, s := range d.Series {
		if s.Key != key {
			continue
		}
		for _, v := range s.Values {
			total += v
		}
	}
	return total
}

// BuildOperationsSeries counts operations per day and type. Only days with
// at least one operation get a label; every type has a value for each of
// them.
func (e *Engine) BuildOperationsSeries(ops []models.Operation) ChartDataset {
	counts := make(map[string]map[models.OperationType]int)
	var days []calendar.Time
	for _, op := range ops {
		if !op.Type.Known() {
			continue
		}
		at := e.Parse(op.Date)
		if !at.Valid() {
			continue
		}
		key := at.Key()
		if _, ok := counts[key]; !ok {
			counts[key] = make(map[models.OperationType]int, len(models.OperationTypes))
			days = append(days, at.Day())
		}
		counts[key][op.Type]++
	}
	slices.SortFunc(days, calendar.Time.Compare)

	ds := ChartDataset{Labels: make([]string, len(days)), Series: make([]Series, 0, len(models.OperationTypes))}
	for i, d := range days {
		ds.Labels[i] = d.Format(DayLabelLayout)
	}
	for _, t := range models.OperationTypes {
		s := Series{Key: string(t), Name: t.Plural(), Values: make([]int, len(days))}
		for i, d := range days {
			s.Values[i] = counts[d.Key()][t]
		}
		ds.Series = append(ds.Series, s)
	}
	return ds
}

// NotesSeriesKey is the key of the single series of BuildNotesSeries.
const NotesSeriesKey = "notas"

// BuildNotesSeries counts notes per chart area. The label axis is always the
// full area list; areas must match exactly.
func (e *Engine) BuildNotesSeries(notes []models.Note) ChartDataset {
	ds := ChartDataset{Labels: make([]string, len(models.ChartAreas))}
	index := make(map[models.Area]int, len(models.ChartAreas))
	for i, a := range models.ChartAreas {
		ds.Labels[i] = string(a)
		index[a] = i
	}
	values := make([]int, len(models.ChartAreas))
	for _, n := range notes {
		if i, ok := index[n.Area]; ok {
			values[i]++
		}
	}
	ds.Series = []Series{{Key: NotesSeriesKey, Name: "Cantidad de notas", Values: values}}
	return ds
}

// WeeklyStats counts elaboration notes and operations for each day of the
// current week, Sunday first.
func (e *Engine) WeeklyStats(notes []models.Note, ops []models.Operation) ChartDataset {
	week := calendar.WeekOf(e.Now())
	elaborations := make([]int, len(WeekdayLabels))
	operations := make([]int, len(WeekdayLabels))

	for _, n := range notes {
		if n.Area != models.AreaElaboration && n.Area != models.AreaOther {
			continue
		}
		if at := e.Parse(n.Date); week.Contains(at) {
			elaborations[at.Weekday()]++
		}
	}
	for _, op := range ops {
		if !op.Type.Known() {
			continue
		}
		if at := e.Parse(op.Date); week.Contains(at) {
			operations[at.Weekday()]++
		}
	}

	return ChartDataset{
		Labels: slices.Clone(WeekdayLabels),
		Series: []Series{
			{Key: "elaboraciones", Name: "Elaboraciones", Values: elaborations},
			{Key: "operaciones", Name: "Operaciones", Values: operations},
		},
	}
}

// OperationsIn returns the operations dated within span.
func (e *Engine) OperationsIn(ops []models.Operation, span calendar.Span) []models.Operation {
	out := []models.Operation{}
	for _, op := range ops {
		if span.Contains(e.Parse(op.Date)) {
			out = append(out, op)
		}
	}
	return out
}

// NotesIn returns the notes dated within span.
func (e *Engine) NotesIn(notes []models.Note, span calendar.Span) []models.Note {
	out := []models.Note{}
	for _, n := range notes {
		if span.Contains(e.Parse(n.Date)) {
			out = append(out, n)
		}
	}
	return out
}
