package dashboard

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/starford/tablero/internal/activity"
	"github.com/starford/tablero/internal/apperr"
)

// DefaultSessionID names the session used by clients that do not send one.
const DefaultSessionID = "default"

// Chart is a rendered chart held by a session. Once disposed it must not be
// used again.
type Chart struct {
	Slot       string                `json:"slot"`
	Dataset    activity.ChartDataset `json:"dataset"`
	RenderedAt time.Time             `json:"renderedAt"`

	disposed atomic.Bool
}

// NewChart renders ds into slot.
func NewChart(slot string, ds activity.ChartDataset, at time.Time) *Chart {
	return &Chart{Slot: slot, Dataset: ds, RenderedAt: at}
}

// Dispose releases the chart. It is safe to call more than once.
func (c *Chart) Dispose() {
	c.disposed.Store(true)
}

// Disposed reports whether Dispose was called.
func (c *Chart) Disposed() bool {
	return c.disposed.Load()
}

// Session is the dashboard state of one client: its operation filter and its
// rendered charts.
type Session struct {
	ID string

	mu       sync.Mutex
	filter   activity.FilterSpec
	charts   map[string]*Chart
	lastSeen time.Time
	closed   bool
}

func newSession(id string, now time.Time) *Session {
	return &Session{ID: id, charts: make(map[string]*Chart), lastSeen: now}
}

// Filter returns the stored filter.
func (s *Session) Filter() activity.FilterSpec {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter
}

// SetFilter validates and stores spec.
func (s *Session) SetFilter(spec activity.FilterSpec) error {
	if err := spec.Validate(); err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrInvalid, err)
	}
	s.mu.Lock()
	s.filter = spec
	s.mu.Unlock()
	return nil
}

// ReplaceChart disposes the chart currently held in c.Slot and stores c.
func (s *Session) ReplaceChart(c *Chart) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if prev, ok := s.charts[c.Slot]; ok && prev != c {
		prev.Dispose()
	}
	if s.closed {
		c.Dispose()
		return
	}
	s.charts[c.Slot] = c
}

// Render replaces every slot with a chart built from charts.
func (s *Session) Render(charts Charts, at time.Time) []*Chart {
	out := make([]*Chart, 0, len(charts))
	for _, slot := range Slots {
		ds, ok := charts[slot]
		if !ok {
			continue
		}
		c := NewChart(slot, ds, at)
		s.ReplaceChart(c)
		out = append(out, c)
	}
	return out
}

// Chart returns the chart held in slot.
func (s *Session) Chart(slot string) (*Chart, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.charts[slot]
	return c, ok
}

// Close disposes every chart. Later ReplaceChart calls dispose their input.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for slot, c := range s.charts {
		c.Dispose()
		delete(s.charts, slot)
	}
	s.closed = true
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// Sessions is the registry of live sessions.
type Sessions struct {
	mu  sync.Mutex
	m   map[string]*Session
	now func() time.Time
}

// NewSessions creates an empty registry.
func NewSessions(now func() time.Time) *Sessions {
	if now == nil {
		now = time.Now
	}
	return &Sessions{m: make(map[string]*Session), now: now}
}

// Get returns the session with id, creating it when missing. An empty id
// selects DefaultSessionID.
func (r *Sessions) Get(id string) *Session {
	if id == "" {
		id = DefaultSessionID
	}
	now := r.now()
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.m[id]
	if !ok {
		s = newSession(id, now)
		r.m[id] = s
		return s
	}
	s.touch(now)
	return s
}

// Drop closes and removes a session. It reports whether it existed.
func (r *Sessions) Drop(id string) bool {
	if id == "" {
		id = DefaultSessionID
	}
	r.mu.Lock()
	s, ok := r.m[id]
	delete(r.m, id)
	r.mu.Unlock()
	if ok {
		s.Close()
	}
	return ok
}

// Prune closes sessions idle for longer than maxIdle and returns how many
// were removed.
func (r *Sessions) Prune(maxIdle time.Duration) int {
	cutoff := r.now().Add(-maxIdle)
	r.mu.Lock()
	var stale []*Session
	for id, s := range r.m {
		if s.idleSince().Before(cutoff) {
			stale = append(stale, s)
			delete(r.m, id)
		}
	}
	r.mu.Unlock()
	for _, s := range stale {
		s.Close()
	}
	return len(stale)
}

// Len returns the number of live sessions.
func (r *Sessions) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.m)
}

// Close closes every session.
func (r *Sessions) Close() {
	r.mu.Lock()
	all := r.m
	r.m = make(map[string]*Session)
	r.mu.Unlock()
	for _, s := range all {
		s.Close()
	}
}
