package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for ingest
// and query serving.
type Metrics struct {
	// Ingest metrics.
	ProvincesFetched prometheus.Counter
	FetchErrors      prometheus.Counter
	FetchRetries     prometheus.Counter
	FilesSkipped     prometheus.Counter
	IngestRunning    prometheus.Gauge
	IngestDuration   prometheus.Histogram
	IngestFailures   prometheus.Counter
	SinkErrors       *prometheus.CounterVec // labels: sink={kafka,sqlite}

	// Dataset metrics.
	DatasetObservations prometheus.Gauge
	DatasetRegions      prometheus.Gauge

	// Query metrics.
	Queries       *prometheus.CounterVec   // labels: kind={table,plot}, outcome={ok,invalid,unavailable}
	QueryDuration *prometheus.HistogramVec // labels: kind={table,plot}
	QueryCache    *prometheus.CounterVec   // labels: result={hit,miss}
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.ProvincesFetched,
		m.FetchErrors,
		m.FetchRetries,
		m.FilesSkipped,
		m.IngestRunning,
		m.IngestDuration,
		m.IngestFailures,
		m.SinkErrors,
		m.DatasetObservations,
		m.DatasetRegions,
		m.Queries,
		m.QueryDuration,
		m.QueryCache,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		ProvincesFetched: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "vhi_dashboard",
			Name:      "provinces_fetched_total",
			Help:      "Province exports downloaded and saved to the workspace.",
		}),
		FetchErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "vhi_dashboard",
			Name:      "fetch_errors_total",
			Help:      "Province downloads that failed after all attempts.",
		}),
		FetchRetries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "vhi_dashboard",
			Name:      "fetch_retries_total",
			Help:      "Download attempts beyond the first.",
		}),
		FilesSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "vhi_dashboard",
			Name:      "files_skipped_total",
			Help:      "Workspace files skipped because they failed to normalize or parse.",
		}),
		IngestRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "vhi_dashboard",
			Name:      "ingest_running",
			Help:      "1 while an ingest run is in progress.",
		}),
		IngestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "vhi_dashboard",
			Name:      "ingest_duration_seconds",
			Help:      "Duration of a complete reset-fetch-assemble run.",
			Buckets:   []float64{1, 5, 10, 30, 60, 120, 300, 600},
		}),
		IngestFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "vhi_dashboard",
			Name:      "ingest_failures_total",
			Help:      "Ingest runs that produced no dataset.",
		}),
		SinkErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vhi_dashboard",
			Name:      "sink_errors_total",
			Help:      "Dataset sink publish failures by sink.",
		}, []string{"sink"}),
		DatasetObservations: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "vhi_dashboard",
			Name:      "dataset_observations",
			Help:      "Weekly observations in the dataset being served.",
		}),
		DatasetRegions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "vhi_dashboard",
			Name:      "dataset_regions",
			Help:      "Regions present in the dataset being served.",
		}),
		Queries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vhi_dashboard",
			Name:      "queries_total",
			Help:      "Dashboard queries by kind and outcome.",
		}, []string{"kind", "outcome"}),
		QueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "vhi_dashboard",
			Name:      "query_duration_seconds",
			Help:      "Time spent answering a dashboard query.",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		}, []string{"kind"}),
		QueryCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vhi_dashboard",
			Name:      "query_cache_total",
			Help:      "Query cache lookups by result.",
		}, []string{"result"}),
	}
}
