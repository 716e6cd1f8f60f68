package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/couchcryptid/brewmap/internal/domain"
	"github.com/couchcryptid/brewmap/internal/observability"
)

// ErrNotLoaded is returned while the initial load is still in flight.
var ErrNotLoaded = errors.New("dataset has not been loaded yet")

// Source fetches and parses the tabular brewery file.
type Source interface {
	Fetch(ctx context.Context) (domain.Table, error)
}

// RecordSink receives every normalized record of a successful load.
type RecordSink interface {
	Publish(ctx context.Context, records []domain.Brewery) error
}

// Store holds the canonical dataset. It is written once by Load and read by
// every session and API request afterwards.
type Store struct {
	source  Source
	sink    RecordSink
	logger  *slog.Logger
	metrics *observability.Metrics

	mu      sync.RWMutex
	dataset *domain.Dataset
	err     error

	done chan struct{}
	once sync.Once
}

// NewStore creates a Store. Pass a nil sink to skip publishing.
func NewStore(source Source, sink RecordSink, logger *slog.Logger, metrics *observability.Metrics) *Store {
	return &Store{
		source:  source,
		sink:    sink,
		logger:  logger,
		metrics: metrics,
		done:    make(chan struct{}),
	}
}

// Load fetches and normalizes the dataset. A failure is recorded and returned
// once; it is not retried. Row-level defects never fail a load.
func (s *Store) Load(ctx context.Context) error {
	start := time.Now()

	table, err := s.source.Fetch(ctx)
	if err != nil {
		s.finish(nil, err)
		s.metrics.LoadFailures.Inc()
		s.logger.Error("dataset load failed", "error", err)
		return fmt.Errorf("load dataset: %w", err)
	}

	ds := domain.NewDataset(table)
	renderable := ds.RenderableCount()
	s.finish(ds, nil)

	s.metrics.LoadDuration.Observe(time.Since(start).Seconds())
	s.metrics.RecordsLoaded.Set(float64(len(ds.Records)))
	s.metrics.RecordsRenderable.Set(float64(renderable))
	s.logger.Info("dataset loaded",
		"records", len(ds.Records),
		"renderable", renderable,
		"schema", ds.Schema,
	)

	s.publish(ctx, ds)
	return nil
}

func (s *Store) finish(ds *domain.Dataset, err error) {
	s.mu.Lock()
	s.dataset = ds
	s.err = err
	s.mu.Unlock()
	s.once.Do(func() { close(s.done) })
}

// publish hands the records to the sink. Sink errors are logged and counted only.
func (s *Store) publish(ctx context.Context, ds *domain.Dataset) {
	if s.sink == nil {
		return
	}
	if err := s.sink.Publish(ctx, ds.Records); err != nil {
		s.metrics.SinkErrors.Inc()
		s.logger.Warn("record sink publish failed", "error", err, "records", len(ds.Records))
		return
	}
	s.metrics.RecordsPublished.Add(float64(len(ds.Records)))
}

// Done is closed once the first load has finished, successfully or not.
func (s *Store) Done() <-chan struct{} {
	return s.done
}

// Dataset returns the loaded dataset, the load error, or ErrNotLoaded.
func (s *Store) Dataset() (*domain.Dataset, error) {
	select {
	case <-s.done:
	default:
		return nil, ErrNotLoaded
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.err != nil {
		return nil, s.err
	}
	return s.dataset, nil
}

// CheckReadiness reports nil once a dataset is loaded.
func (s *Store) CheckReadiness(_ context.Context) error {
	_, err := s.Dataset()
	return err
}
