package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/brewmap/internal/adapter/cluster"
	"github.com/couchcryptid/brewmap/internal/adapter/github"
	httpadapter "github.com/couchcryptid/brewmap/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/brewmap/internal/adapter/kafka"
	"github.com/couchcryptid/brewmap/internal/adapter/tabular"
	"github.com/couchcryptid/brewmap/internal/config"
	"github.com/couchcryptid/brewmap/internal/domain"
	"github.com/couchcryptid/brewmap/internal/observability"
	"github.com/couchcryptid/brewmap/internal/session"
)

func main() {
	// A missing .env file is fine; the environment may already be set.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	palette, err := loadPalette(cfg.PaletteFile)
	if err != nil {
		logger.Error("failed to load palette", "error", err, "path", cfg.PaletteFile)
		os.Exit(1)
	}

	// Optional record sink (feature-flagged via KAFKA_BROKERS).
	var sink session.RecordSink
	var writer *kafkaadapter.Writer
	if cfg.SinkEnabled() {
		writer = kafkaadapter.NewWriter(cfg, logger)
		sink = writer
		logger.Info("record sink enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	} else {
		logger.Info("record sink disabled")
	}

	// Data version badge (feature-flagged via VERSION_ENABLED / VERSION_REPO).
	var versions *github.VersionService
	if cfg.VersionEnabled {
		client := github.NewClient(cfg.VersionBaseURL, cfg.VersionRepo, cfg.VersionPath, cfg.VersionTimeout, logger)
		versions = github.NewVersionService(client, cfg.VersionCacheTTL, clockwork.NewRealClock(), logger, metrics)
		logger.Info("data version lookup enabled", "repo", cfg.VersionRepo, "path", cfg.VersionPath)
	} else {
		logger.Info("data version lookup disabled")
	}

	source := tabular.NewSource(cfg.DataSource, cfg.LoadTimeout, logger)
	store := session.NewStore(source, sink, logger, metrics)

	srv := httpadapter.NewServer(
		httpadapter.Options{
			Addr:        cfg.HTTPAddr,
			CORSOrigins: cfg.CORSOrigins,
			Debounce:    cfg.SearchDebounce,
		},
		httpadapter.Dependencies{
			Catalog:   store,
			Palette:   palette,
			Clusterer: cluster.NewClusterer(palette),
			Versions:  versions,
			Metrics:   metrics,
		},
		logger,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Load the dataset once. A failure keeps the service up in the load-failed state.
	go func() {
		loadCtx, cancel := context.WithTimeout(ctx, cfg.LoadTimeout)
		defer cancel()
		_ = store.Load(loadCtx)
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}

func loadPalette(path string) (*domain.Palette, error) {
	if path == "" {
		return domain.DefaultPalette(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return domain.ParsePalette(data)
}
