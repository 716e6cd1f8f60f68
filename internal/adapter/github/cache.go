package github

import (
	"context"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"
	gocache "github.com/patrickmn/go-cache"

	"github.com/couchcryptid/brewmap/internal/domain"
	"github.com/couchcryptid/brewmap/internal/observability"
)

// CommitLookup fetches the latest data version.
type CommitLookup interface {
	LatestCommit(ctx context.Context) (domain.VersionInfo, error)
}

const versionKey = "latest"

// VersionService renders the badge from a cached lookup. Only successful
// lookups are cached so a transient failure is retried on the next read.
type VersionService struct {
	lookup  CommitLookup
	cache   *gocache.Cache
	clock   clockwork.Clock
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewVersionService wraps lookup with a TTL cache.
func NewVersionService(lookup CommitLookup, ttl time.Duration, clock clockwork.Clock, logger *slog.Logger, metrics *observability.Metrics) *VersionService {
	return &VersionService{
		lookup:  lookup,
		cache:   gocache.New(ttl, 2*ttl),
		clock:   clock,
		logger:  logger,
		metrics: metrics,
	}
}

// Badge returns the current badge. Lookup errors degrade to the unknown badge
// and are never returned.
func (s *VersionService) Badge(ctx context.Context) domain.Badge {
	if s == nil || s.lookup == nil {
		return domain.UnknownBadge()
	}

	if v, ok := s.cache.Get(versionKey); ok {
		s.metrics.VersionCache.WithLabelValues("hit").Inc()
		return domain.NewBadge(v.(domain.VersionInfo), s.clock.Now())
	}
	s.metrics.VersionCache.WithLabelValues("miss").Inc()

	info, err := s.lookup.LatestCommit(ctx)
	if err != nil {
		s.metrics.VersionLookups.WithLabelValues("error").Inc()
		s.logger.Warn("data version lookup failed", "error", err)
		return domain.UnknownBadge()
	}
	s.metrics.VersionLookups.WithLabelValues("success").Inc()
	s.cache.SetDefault(versionKey, info)
	return domain.NewBadge(info, s.clock.Now())
}
