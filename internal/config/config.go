package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	DataSource      string
	LoadTimeout     time.Duration
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
	CORSOrigins     []string

	// Map session settings.
	SearchDebounce time.Duration
	PaletteFile    string

	// Data version badge (GitHub commit lookup).
	VersionEnabled  bool
	VersionBaseURL  string
	VersionRepo     string
	VersionPath     string
	VersionTimeout  time.Duration
	VersionCacheTTL time.Duration

	// Optional record sink; disabled when KafkaBrokers is empty.
	KafkaBrokers []string
	KafkaTopic   string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	loadTimeout, err := parseDuration("LOAD_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}
	debounce, err := parseDuration("SEARCH_DEBOUNCE", "120ms")
	if err != nil {
		return nil, err
	}
	versionTimeout, err := parseDuration("VERSION_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}
	versionTTL, err := parseDuration("VERSION_CACHE_TTL", "10m")
	if err != nil {
		return nil, err
	}

	var brokers []string
	if raw := os.Getenv("KAFKA_BROKERS"); strings.TrimSpace(raw) != "" {
		brokers = sharedcfg.ParseBrokers(raw)
	}

	// An explicitly empty VERSION_REPO disables the badge lookup.
	versionRepo := "piersondarren/brewmap"
	if v, ok := os.LookupEnv("VERSION_REPO"); ok {
		versionRepo = strings.TrimSpace(v)
	}
	versionEnabled := versionRepo != ""
	if v := os.Getenv("VERSION_ENABLED"); v != "" {
		versionEnabled = v == "true"
	}

	cfg := &Config{
		DataSource:      sharedcfg.EnvOrDefault("DATA_SOURCE", "./data/na_breweries_combined.csv"),
		LoadTimeout:     loadTimeout,
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,
		CORSOrigins:     splitList(sharedcfg.EnvOrDefault("CORS_ORIGINS", "*")),

		SearchDebounce: debounce,
		PaletteFile:    os.Getenv("PALETTE_FILE"),

		VersionEnabled:  versionEnabled,
		VersionBaseURL:  sharedcfg.EnvOrDefault("VERSION_BASE_URL", "https://api.github.com"),
		VersionRepo:     versionRepo,
		VersionPath:     sharedcfg.EnvOrDefault("VERSION_PATH", "data/na_breweries_combined.csv"),
		VersionTimeout:  versionTimeout,
		VersionCacheTTL: versionTTL,

		KafkaBrokers: brokers,
		KafkaTopic:   sharedcfg.EnvOrDefault("KAFKA_TOPIC", "brewery-records"),
	}

	if cfg.DataSource == "" {
		return nil, errors.New("DATA_SOURCE is required")
	}
	if cfg.VersionEnabled && cfg.VersionRepo == "" {
		return nil, errors.New("VERSION_ENABLED is true but VERSION_REPO is not set")
	}
	if len(cfg.KafkaBrokers) > 0 && cfg.KafkaTopic == "" {
		return nil, errors.New("KAFKA_TOPIC is required when KAFKA_BROKERS is set")
	}

	return cfg, nil
}

// SinkEnabled reports whether normalized records are published to Kafka.
func (c *Config) SinkEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

func parseDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
