package session

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/brewmap/internal/domain"
	"github.com/couchcryptid/brewmap/internal/observability"
)

// ErrClosed is returned by Send after the session stopped.
var ErrClosed = errors.New("session closed")

// DatasetProvider exposes the shared dataset to sessions.
type DatasetProvider interface {
	Done() <-chan struct{}
	Dataset() (*domain.Dataset, error)
}

// Options tune a session. Zero values pick the defaults.
type Options struct {
	Debounce time.Duration
	Clock    clockwork.Clock
}

// Session is one user's map. All events are applied by the Run goroutine, one
// at a time; every recomputation publishes a fresh Snapshot.
type Session struct {
	provider  DatasetProvider
	palette   *domain.Palette
	debouncer *Debouncer
	logger    *slog.Logger
	metrics   *observability.Metrics

	events chan Event
	views  chan Snapshot
	done   chan struct{}
}

// New creates a Session. Call Run to start it.
func New(provider DatasetProvider, palette *domain.Palette, opts Options, logger *slog.Logger, metrics *observability.Metrics) *Session {
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	return &Session{
		provider:  provider,
		palette:   palette,
		debouncer: NewDebouncer(opts.Clock, opts.Debounce),
		logger:    logger,
		metrics:   metrics,
		events:    make(chan Event, 16),
		views:     make(chan Snapshot, 4),
		done:      make(chan struct{}),
	}
}

// Send queues an event for the Run loop.
func (s *Session) Send(ctx context.Context, ev Event) error {
	select {
	case <-s.done:
		return ErrClosed
	default:
	}
	select {
	case s.events <- ev:
		return nil
	case <-s.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Views delivers snapshots. It is closed when Run returns.
func (s *Session) Views() <-chan Snapshot {
	return s.views
}

// Run applies events until ctx is cancelled. The first snapshot is published
// once the dataset load finishes.
func (s *Session) Run(ctx context.Context) error {
	s.metrics.ActiveSessions.Inc()
	defer s.metrics.ActiveSessions.Dec()
	defer close(s.views)
	defer close(s.done)
	defer s.debouncer.Cancel()

	state := NewState(s.palette)
	loaded := s.provider.Done()

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-loaded:
			loaded = nil
			var ev Event
			if ds, err := s.provider.Dataset(); err != nil {
				ev = LoadFailed{Err: err}
			} else {
				ev = Loaded{Dataset: ds}
			}
			state, _ = s.apply(state, ev)
			if !s.publish(ctx, state) {
				return nil
			}

		case ev := <-s.events:
			next, publish := s.handle(state, ev)
			state = next
			if publish && !s.publish(ctx, state) {
				return nil
			}
		}
	}
}

// handle routes search keystrokes through the debouncer and applies everything else.
func (s *Session) handle(state State, ev Event) (State, bool) {
	switch e := ev.(type) {
	case QueryTyped:
		value := e.Value
		s.debouncer.Schedule(func(gen uint64) {
			s.deliver(queryCommitted{gen: gen, value: value})
		})
		s.metrics.SearchInputs.WithLabelValues("scheduled").Inc()
	case queryCommitted:
		if !s.debouncer.Current(e.gen) {
			s.metrics.SearchInputs.WithLabelValues("stale").Inc()
			return state, false
		}
		s.metrics.SearchInputs.WithLabelValues("committed").Inc()
	case CategoryChanged, CountryChanged, RegionChanged, Reset:
		// These settle the query themselves.
		s.debouncer.Cancel()
	}

	return s.apply(state, ev)
}

// apply runs Update and records the recomputation.
func (s *Session) apply(state State, ev Event) (State, bool) {
	start := time.Now()
	next, recomputed := Update(state, ev)
	if !recomputed {
		return next, false
	}
	s.metrics.FilterRecomputations.WithLabelValues(ev.trigger()).Inc()
	s.metrics.FilterDuration.Observe(time.Since(start).Seconds())
	s.logger.Debug("filters applied", append(next.Criteria.LogAttrs(), "count", len(next.Active))...)
	return next, true
}

// deliver feeds a timer callback back into the Run loop.
func (s *Session) deliver(ev Event) {
	select {
	case s.events <- ev:
	case <-s.done:
	}
}

func (s *Session) publish(ctx context.Context, state State) bool {
	select {
	case s.views <- state.Snapshot():
		return true
	case <-ctx.Done():
		return false
	}
}
