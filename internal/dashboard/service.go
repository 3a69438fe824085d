// Package dashboard assembles dashboard views from the record store and keeps
// them fresh for subscribers.
package dashboard

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/starford/tablero/internal/activity"
	"github.com/starford/tablero/internal/calendar"
	"github.com/starford/tablero/internal/models"
)

// Source provides the current records.
type Source interface {
	ListNotes(ctx context.Context) ([]models.Note, error)
	ListOperations(ctx context.Context) ([]models.Operation, error)
	ListPersonnel(ctx context.Context) ([]models.Person, error)
}

// Service computes dashboard views from a Source.
type Service struct {
	src          Source
	engine       *activity.Engine
	upcomingDays int
	logger       *slog.Logger
}

// NewService creates a dashboard service. A non-positive upcomingDays uses
// activity.DefaultUpcomingDays.
func NewService(src Source, engine *activity.Engine, upcomingDays int, logger *slog.Logger) *Service {
	if upcomingDays <= 0 {
		upcomingDays = activity.DefaultUpcomingDays
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{src: src, engine: engine, upcomingDays: upcomingDays, logger: logger}
}

// Engine returns the aggregation engine.
func (s *Service) Engine() *activity.Engine {
	return s.engine
}

type records struct {
	notes  []models.Note
	ops    []models.Operation
	people []models.Person
}

func (s *Service) load(ctx context.Context, withPeople bool) (records, error) {
	var r records
	var err error
	if r.notes, err = s.src.ListNotes(ctx); err != nil {
		return r, fmt.Errorf("dashboard: list notes: %w", err)
	}
	if r.ops, err = s.src.ListOperations(ctx); err != nil {
		return r, fmt.Errorf("dashboard: list operations: %w", err)
	}
	if withPeople {
		if r.people, err = s.src.ListPersonnel(ctx); err != nil {
			return r, fmt.Errorf("dashboard: list personnel: %w", err)
		}
	}
	s.logMalformed(r)
	return r, nil
}

func (s *Service) logMalformed(r records) {
	if !s.logger.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	for _, n := range r.notes {
		if !s.engine.Parse(n.Date).Valid() {
			s.logger.Debug("dashboard: note excluded", slog.String("id", n.ID), slog.String("fecha", n.Date))
		}
	}
	for _, o := range r.ops {
		switch {
		case !s.engine.Parse(o.Date).Valid():
			s.logger.Debug("dashboard: operation excluded", slog.String("id", o.ID), slog.String("fecha", o.Date))
		case !o.Type.Known():
			s.logger.Debug("dashboard: operation excluded", slog.String("id", o.ID), slog.String("tipo", string(o.Type)))
		}
	}
}

// Build computes a complete view.
func (s *Service) Build(ctx context.Context) (*View, error) {
	r, err := s.load(ctx, true)
	if err != nil {
		return nil, err
	}
	e := s.engine
	return &View{
		GeneratedAt: e.Now().Std(),
		Today:       e.Today(r.notes, r.ops),
		Upcoming:    e.Upcoming(r.notes, r.ops, s.upcomingDays),
		Clients:     nonNilSlice(e.SummarizeByClient(r.ops)),
		Personal:    SummarizePersonnel(r.people),
		Charts:      s.charts(r),
		Totals: Totals{
			Notes:      len(r.notes),
			Operations: len(r.ops),
			Personnel:  len(r.people),
		},
	}, nil
}

// Today returns today's timeline.
func (s *Service) Today(ctx context.Context) (activity.Timeline, error) {
	r, err := s.load(ctx, false)
	if err != nil {
		return activity.Timeline{}, err
	}
	return s.engine.Today(r.notes, r.ops), nil
}

// Upcoming returns the timeline of the next days. A non-positive days uses
// the configured window.
func (s *Service) Upcoming(ctx context.Context, days int) (activity.Timeline, error) {
	if days <= 0 {
		days = s.upcomingDays
	}
	r, err := s.load(ctx, false)
	if err != nil {
		return activity.Timeline{}, err
	}
	return s.engine.Upcoming(r.notes, r.ops, days), nil
}

// Clients returns the recent activity per client.
func (s *Service) Clients(ctx context.Context) ([]activity.ClientSummary, error) {
	ops, err := s.src.ListOperations(ctx)
	if err != nil {
		return nil, fmt.Errorf("dashboard: list operations: %w", err)
	}
	return nonNilSlice(s.engine.SummarizeByClient(ops)), nil
}

// Charts returns every chart dataset.
func (s *Service) Charts(ctx context.Context) (Charts, error) {
	r, err := s.load(ctx, false)
	if err != nil {
		return nil, err
	}
	return s.charts(r), nil
}

// Chart returns the dataset of one slot.
func (s *Service) Chart(ctx context.Context, slot string) (activity.ChartDataset, error) {
	charts, err := s.Charts(ctx)
	if err != nil {
		return activity.ChartDataset{}, err
	}
	ds, ok := charts[slot]
	if !ok {
		return activity.ChartDataset{}, fmt.Errorf("dashboard: unknown chart %q", slot)
	}
	return ds, nil
}

// Filter returns the operations selected by spec.
func (s *Service) Filter(ctx context.Context, spec activity.FilterSpec) ([]models.Operation, error) {
	ops, err := s.src.ListOperations(ctx)
	if err != nil {
		return nil, fmt.Errorf("dashboard: list operations: %w", err)
	}
	return s.engine.Filter(ops, spec), nil
}

func (s *Service) charts(r records) Charts {
	e := s.engine
	now := e.Now()
	week, month := calendar.WeekToDate(now), calendar.MonthToDate(now)
	notesMonth := e.BuildNotesSeries(e.NotesIn(r.notes, month))
	return Charts{
		SlotWeeklyStats:       e.WeeklyStats(r.notes, r.ops),
		SlotOperationsWeek:    e.BuildOperationsSeries(e.OperationsIn(r.ops, week)),
		SlotOperationsMonth:   e.BuildOperationsSeries(e.OperationsIn(r.ops, month)),
		SlotNotesWeek:         e.BuildNotesSeries(e.NotesIn(r.notes, week)),
		SlotNotesMonth:        notesMonth,
		SlotNotesDistribution: notesMonth,
	}
}

func nonNilSlice[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
