package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the map service.
type Metrics struct {
	// Dataset load metrics.
	RecordsLoaded     prometheus.Gauge
	RecordsRenderable prometheus.Gauge
	LoadFailures      prometheus.Counter
	LoadDuration      prometheus.Histogram
	RecordsPublished  prometheus.Counter
	SinkErrors        prometheus.Counter

	// Map session metrics.
	ActiveSessions       prometheus.Gauge
	FilterRecomputations *prometheus.CounterVec // labels: trigger={load,category,country,region,query,reset,api}
	FilterDuration       prometheus.Histogram
	SearchInputs         *prometheus.CounterVec // labels: result={scheduled,committed,stale}

	// Data version lookup metrics.
	VersionLookups *prometheus.CounterVec // labels: outcome={success,error}
	VersionCache   *prometheus.CounterVec // labels: result={hit,miss}
}

// NewMetrics creates and registers all service metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()

	prometheus.MustRegister(
		m.RecordsLoaded,
		m.RecordsRenderable,
		m.LoadFailures,
		m.LoadDuration,
		m.RecordsPublished,
		m.SinkErrors,
		m.ActiveSessions,
		m.FilterRecomputations,
		m.FilterDuration,
		m.SearchInputs,
		m.VersionLookups,
		m.VersionCache,
	)

	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		RecordsLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "brewmap",
			Name:      "records_loaded",
			Help:      "Records in the canonical set of the current load.",
		}),
		RecordsRenderable: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "brewmap",
			Name:      "records_renderable",
			Help:      "Loaded records with valid coordinates.",
		}),
		LoadFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "brewmap",
			Name:      "load_failures_total",
			Help:      "Dataset loads that failed as a whole.",
		}),
		LoadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "brewmap",
			Name:      "load_duration_seconds",
			Help:      "Duration of fetching, parsing and normalizing the dataset.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		RecordsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "brewmap",
			Name:      "records_published_total",
			Help:      "Normalized records written to the Kafka sink.",
		}),
		SinkErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "brewmap",
			Name:      "sink_errors_total",
			Help:      "Failed attempts to publish a load to the Kafka sink.",
		}),
		ActiveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "brewmap",
			Name:      "active_sessions",
			Help:      "Connected map sessions.",
		}),
		FilterRecomputations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "brewmap",
			Name:      "filter_recomputations_total",
			Help:      "Active subset recomputations by triggering event.",
		}, []string{"trigger"}),
		FilterDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "brewmap",
			Name:      "filter_duration_seconds",
			Help:      "Duration of one filter and marker recomputation.",
			Buckets:   []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1},
		}),
		SearchInputs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "brewmap",
			Name:      "search_inputs_total",
			Help:      "Search keystroke events by debounce result.",
		}, []string{"result"}),
		VersionLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "brewmap",
			Name:      "version_lookups_total",
			Help:      "Data version lookups against GitHub by outcome.",
		}, []string{"outcome"}),
		VersionCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "brewmap",
			Name:      "version_cache_total",
			Help:      "Data version cache lookups by result.",
		}, []string{"result"}),
	}
}
