package activity

import (
	"slices"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/tablero/internal/calendar"
	"github.com/starford/tablero/internal/models"
)

// Values of FilterSpec.Status and FilterSpec.Week that disable the predicate.
const (
	StatusAny = "todos"
	WeekAny   = "todas"
)

// Week restrictions.
const (
	WeekCurrent = "actual"
	WeekNext    = "proxima"
)

// FilterSpec selects operations. Empty fields are wildcards.
type FilterSpec struct {
	Date   string               `json:"fecha,omitempty"`
	Type   models.OperationType `json:"tipo,omitempty"`
	Place  models.Place         `json:"lugar,omitempty"`
	Person string               `json:"persona,omitempty"`
	Status string               `json:"estado,omitempty"`
	Week   string               `json:"semana,omitempty"`
	Search string               `json:"busqueda,omitempty"`
}

// Validate checks the enumerated fields.
func (f FilterSpec) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Status, validation.In(StatusAny, string(models.StatusPending), string(models.StatusCompleted))),
		validation.Field(&f.Week, validation.In(WeekAny, WeekCurrent, WeekNext)),
		validation.Field(&f.Type, validation.In(models.OperationUnloading, models.OperationClassification)),
		validation.Field(&f.Place, validation.In(models.PlaceFrigalsa, models.PlaceISP, models.PlacePayPay, models.PlaceAtunlo)),
		validation.Field(&f.Date, validation.By(validDate)),
	)
}

// WithDefaults fills Status and Week with their wildcard values.
func (f FilterSpec) WithDefaults() FilterSpec {
	if f.Status == "" {
		f.Status = StatusAny
	}
	if f.Week == "" {
		f.Week = WeekAny
	}
	return f
}

// IsZero reports whether the spec selects everything.
func (f FilterSpec) IsZero() bool {
	return f.WithDefaults() == FilterSpec{}.WithDefaults()
}

func validDate(v any) error {
	s, _ := v.(string)
	if s == "" {
		return nil
	}
	if !calendar.Parse(s, nil).Valid() {
		return validation.NewError("validation_date_invalid", "must be a date (YYYY-MM-DD)")
	}
	return nil
}

// Filter returns the operations matching every predicate of spec, ordered by
// day ascending with pending operations first on the same day.
func (e *Engine) Filter(ops []models.Operation, spec FilterSpec) []models.Operation {
	spec = spec.WithDefaults()
	now := e.Now()

	var (
		day    calendar.Time
		hasDay = spec.Date != ""
		week   calendar.Span
	)
	if hasDay {
		day = e.Parse(spec.Date)
	}
	hasWeek := spec.Week == WeekCurrent || spec.Week == WeekNext
	if spec.Week == WeekCurrent {
		week = calendar.WeekOf(now)
	} else if spec.Week == WeekNext {
		week = calendar.NextWeekOf(now)
	}
	search := strings.ToLower(strings.TrimSpace(spec.Search))

	type entry struct {
		op models.Operation
		at calendar.Time
	}
	matched := make([]entry, 0, len(ops))
	for _, op := range ops {
		at := e.Parse(op.Date)
		if hasDay && !calendar.SameDay(at, day) {
			continue
		}
		if spec.Type != "" && op.Type != spec.Type {
			continue
		}
		if spec.Place != "" && op.Place != spec.Place {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(op.Description), search) &&
			!strings.Contains(strings.ToLower(string(op.Place)), search) {
			continue
		}
		if spec.Person != "" && !op.HasPerson(spec.Person) {
			continue
		}
		if spec.Status != StatusAny && string(op.EffectiveStatus()) != spec.Status {
			continue
		}
		if hasWeek && !week.Contains(at) {
			continue
		}
		matched = append(matched, entry{op: op, at: at})
	}

	slices.SortStableFunc(matched, func(a, b entry) int {
		if c := a.at.CompareDay(b.at); c != 0 {
			return c
		}
		if c := statusRank(a.op.EffectiveStatus()) - statusRank(b.op.EffectiveStatus()); c != 0 {
			return c
		}
		return a.at.Compare(b.at)
	})

	out := make([]models.Operation, len(matched))
	for i, m := range matched {
		out[i] = m.op
	}
	return out
}

func statusRank(s models.Status) int {
	switch s {
	case models.StatusPending:
		return 0
	case models.StatusCompleted:
		return 1
	default:
		return 2
	}
}
