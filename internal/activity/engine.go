// Package activity aggregates notes and operations into dashboard views.
//
// Every function here is a pure computation over a snapshot of records: it
// never mutates its input and never fails. Records with unparsable dates or
// unknown enum values contribute nothing to windowed views.
package activity

import (
	"time"

	"github.com/starford/tablero/internal/calendar"
)

// Defaults used when the corresponding option is not given.
const (
	DefaultUpcomingDays     = 7
	DefaultRecentWindowDays = 30
	DefaultSampleSize       = 3
)

// Engine computes dashboard views relative to a clock and a time zone.
type Engine struct {
	loc              *time.Location
	now              func() time.Time
	recentWindowDays int
	sampleSize       int
}

// Option configures an Engine.
type Option func(*Engine)

// WithLocation sets the zone used to resolve calendar days.
func WithLocation(loc *time.Location) Option {
	return func(e *Engine) {
		if loc != nil {
			e.loc = loc
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithRecentWindow sets the trailing window of the client summary in days.
func WithRecentWindow(days int) Option {
	return func(e *Engine) {
		if days > 0 {
			e.recentWindowDays = days
		}
	}
}

// WithSampleSize sets how many operations each client summary keeps.
func WithSampleSize(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.sampleSize = n
		}
	}
}

// New creates an Engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		loc:              time.Local,
		now:              time.Now,
		recentWindowDays: DefaultRecentWindowDays,
		sampleSize:       DefaultSampleSize,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Now returns the current instant in the engine's zone.
func (e *Engine) Now() calendar.Time {
	return calendar.Of(e.now().In(e.loc))
}

// Location returns the zone used to resolve calendar days.
func (e *Engine) Location() *time.Location {
	return e.loc
}

// Parse parses a record date in the engine's zone.
func (e *Engine) Parse(s string) calendar.Time {
	return calendar.Parse(s, e.loc)
}
