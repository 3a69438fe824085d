package dashboard

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/starford/tablero/internal/models"
)

// DefaultRefreshInterval is the period of the timed refresh.
const DefaultRefreshInterval = 5 * time.Minute

// Builder computes a dashboard view.
type Builder interface {
	Build(ctx context.Context) (*View, error)
}

// Subscriber receives every refreshed view. It is called from the refresh
// goroutine and must not block.
type Subscriber func(*View)

// ChangeListener receives every record change as it is reported.
type ChangeListener func(models.Change)

// Scheduler refreshes the dashboard on a timer and after record changes.
//
// Triggers that arrive while a refresh is pending are coalesced into it, and
// refreshes never overlap: the Run loop and on-demand Refresh calls share one
// singleflight group.
type Scheduler struct {
	builder  Builder
	interval time.Duration
	logger   *slog.Logger

	trigger chan struct{}
	group   singleflight.Group

	mu        sync.RWMutex
	subs      map[int]Subscriber
	nextSub   int
	listeners []ChangeListener
	latest    *View
}

// NewScheduler creates a scheduler. A non-positive interval uses
// DefaultRefreshInterval.
func NewScheduler(b Builder, interval time.Duration, logger *slog.Logger) *Scheduler {
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		builder:  b,
		interval: interval,
		logger:   logger,
		trigger:  make(chan struct{}, 1),
		subs:     make(map[int]Subscriber),
	}
}

// Subscribe registers fn for refreshed views and returns a function that
// removes it.
func (s *Scheduler) Subscribe(fn Subscriber) (cancel func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}

// AddListener registers fn for record changes.
func (s *Scheduler) AddListener(fn ChangeListener) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

// Notify reports a record change: listeners are called synchronously and a
// refresh is requested.
func (s *Scheduler) Notify(c models.Change) {
	s.mu.RLock()
	listeners := append([]ChangeListener(nil), s.listeners...)
	s.mu.RUnlock()
	for _, fn := range listeners {
		fn(c)
	}
	s.Request()
}

// Request asks the Run loop for a refresh without waiting for it.
func (s *Scheduler) Request() {
	select {
	case s.trigger <- struct{}{}:
	default:
	}
}

// Latest returns the most recent view, or nil before the first refresh.
func (s *Scheduler) Latest() *View {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest
}

// Refresh builds a view now and delivers it to subscribers. Concurrent calls
// share one build.
func (s *Scheduler) Refresh(ctx context.Context) (*View, error) {
	v, err, _ := s.group.Do("refresh", func() (any, error) {
		view, err := s.builder.Build(ctx)
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		s.latest = view
		subs := make([]Subscriber, 0, len(s.subs))
		for _, fn := range s.subs {
			subs = append(subs, fn)
		}
		s.mu.Unlock()
		for _, fn := range subs {
			fn(view)
		}
		return view, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*View), nil
}

// Run refreshes once, then on every tick and every request, until ctx is
// done.
func (s *Scheduler) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("scheduler: started", slog.Duration("interval", s.interval))
	s.refresh(ctx, "startup")
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler: stopped")
			return nil
		case <-ticker.C:
			s.refresh(ctx, "timer")
		case <-s.trigger:
			s.refresh(ctx, "change")
		}
	}
}

func (s *Scheduler) refresh(ctx context.Context, reason string) {
	if _, err := s.Refresh(ctx); err != nil {
		if ctx.Err() != nil {
			return
		}
		s.logger.Error("scheduler: refresh failed",
			slog.String("reason", reason), slog.String("error", err.Error()))
		return
	}
	s.logger.Debug("scheduler: refreshed", slog.String("reason", reason))
}
