package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/brewmap/internal/domain"
	"github.com/couchcryptid/brewmap/internal/observability"
	"github.com/couchcryptid/brewmap/internal/session"
)

// Catalog is the loaded dataset as seen by the API and map sessions.
type Catalog interface {
	session.DatasetProvider
	sharedobs.ReadinessChecker
}

// BadgeSource renders the data version badge.
type BadgeSource interface {
	Badge(ctx context.Context) domain.Badge
}

// Clusterer groups markers for a zoom level.
type Clusterer interface {
	Cluster(markers []domain.Marker, zoom int) []domain.Cluster
}

// Options tune the server.
type Options struct {
	Addr        string
	CORSOrigins []string
	Debounce    time.Duration
}

// Dependencies are the collaborators behind the routes.
type Dependencies struct {
	Catalog   Catalog
	Palette   *domain.Palette
	Clusterer Clusterer
	Versions  BadgeSource
	Metrics   *observability.Metrics
}

// Server exposes the map API, map sessions over WebSocket, and the health,
// readiness, and metrics endpoints.
type Server struct {
	httpServer *http.Server
	deps       Dependencies
	opts       Options
	logger     *slog.Logger

	// sessions is cancelled on Shutdown to end open map sessions.
	sessions context.Context
	stop     context.CancelFunc
}

// NewServer creates an HTTP server with all routes registered.
func NewServer(opts Options, deps Dependencies, logger *slog.Logger) *Server {
	mux := http.NewServeMux()
	sessions, stop := context.WithCancel(context.Background())

	s := &Server{
		httpServer: &http.Server{
			Addr:         opts.Addr,
			Handler:      corsHandler(opts.CORSOrigins)(mux),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		deps:     deps,
		opts:     opts,
		logger:   logger,
		sessions: sessions,
		stop:     stop,
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(deps.Catalog))
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /api/facets", s.handleFacets)
	mux.HandleFunc("GET /api/breweries", s.handleBreweries)
	mux.HandleFunc("GET /api/markers", s.handleMarkers)
	mux.HandleFunc("GET /api/clusters", s.handleClusters)
	mux.HandleFunc("GET /api/legend", s.handleLegend)
	mux.HandleFunc("GET /api/version", s.handleVersion)
	mux.HandleFunc("GET /ws", s.handleSession)

	return s
}

func corsHandler(origins []string) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	})
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown ends open map sessions and gracefully drains connections within
// the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	s.stop()
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // client may have gone away
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
