// Package metrics provides Prometheus metrics for the SponsorMatch recommendation service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the SponsorMatch service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	registry         prometheus.Registerer

	// Core Business Metrics - recommendation pipeline outcomes
	recommendationsServed  prometheus.Counter
	recommendationDuration prometheus.Histogram
	emptyResults           prometheus.Counter
	candidatesPerRequest   prometheus.Histogram

	// Degradation Metrics - cluster availability and score clamping
	clusterFallbacks prometheus.Counter
	scoresClamped    prometheus.Counter

	// Data Store Metrics
	storeQueryLatency prometheus.Histogram
	storeErrors       prometheus.Counter

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Ingestion Metrics - offline data preparation
	ingestRecords    prometheus.Counter
	ingestDuplicates prometheus.Counter
	ingestErrors     prometheus.Counter
	ingestQueueSize  prometheus.Gauge
	ingestWorkers    prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "sponsormatch",
		subsystem:        "recommender",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		registry:         prometheus.DefaultRegisterer,
	}

	// Apply all options
	for _, opt := range opts {
		opt(m)
	}

	// Initialize metrics
	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.recommendationsServed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "recommendations_served_total",
		Help:      "Total number of recommendation requests answered",
	})

	m.recommendationDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "recommendation_duration_ms",
		Help:      "End-to-end recommendation pipeline duration in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.emptyResults = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "empty_results_total",
		Help:      "Total number of recommendation requests that matched no candidates",
	})

	m.candidatesPerRequest = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "candidates_per_request",
		Help:      "Number of candidate companies scored per request",
		Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250, 500, 1000},
	})

	m.clusterFallbacks = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "cluster_fallbacks_total",
		Help:      "Total number of requests scored without a cluster assignment",
	})

	m.scoresClamped = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "scores_clamped_total",
		Help:      "Total number of combined scores clamped back into [0,1]",
	})

	m.storeQueryLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "store_query_latency_ms",
		Help:      "Data store query latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.storeErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "store_errors_total",
		Help:      "Total number of data store failures",
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests",
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_ms",
		Help:      "HTTP request duration in milliseconds",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method", "status_code"})

	m.ingestRecords = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "ingest_records_total",
		Help:      "Total number of records ingested into the data store",
	})

	m.ingestDuplicates = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "ingest_duplicates_total",
		Help:      "Total number of duplicate records skipped during ingestion",
	})

	m.ingestErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "ingest_errors_total",
		Help:      "Total number of records rejected during ingestion",
	})

	m.ingestQueueSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "ingest_queue_size",
		Help:      "Current number of records waiting in the ingest queue",
	})

	m.ingestWorkers = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "ingest_workers",
		Help:      "Number of running ingest workers",
	})
}

// Package-level helpers operating on the global manager.

// RecordRecommendation records one answered request and its duration.
func RecordRecommendation(durationMs float64) {
	if globalManager == nil || !globalManager.enabled {
		return
	}
	globalManager.recommendationsServed.Inc()
	globalManager.recommendationDuration.Observe(durationMs)
}

// RecordEmptyResult records a request that matched no candidates.
func RecordEmptyResult() {
	if globalManager == nil || !globalManager.enabled {
		return
	}
	globalManager.emptyResults.Inc()
}

// ObserveCandidateCount records the number of candidates scored for a request.
func ObserveCandidateCount(n int) {
	if globalManager == nil || !globalManager.enabled {
		return
	}
	globalManager.candidatesPerRequest.Observe(float64(n))
}

// RecordClusterFallback records a request served without a cluster assignment.
func RecordClusterFallback() {
	if globalManager == nil || !globalManager.enabled {
		return
	}
	globalManager.clusterFallbacks.Inc()
}

// RecordScoreClamped records a combined score that fell outside [0,1].
func RecordScoreClamped() {
	if globalManager == nil || !globalManager.enabled {
		return
	}
	globalManager.scoresClamped.Inc()
}

// RecordStoreQueryLatency records a data store query duration.
func RecordStoreQueryLatency(latencyMs float64) {
	if globalManager == nil || !globalManager.enabled {
		return
	}
	globalManager.storeQueryLatency.Observe(latencyMs)
}

// RecordStoreError records a data store failure.
func RecordStoreError() {
	if globalManager == nil || !globalManager.enabled {
		return
	}
	globalManager.storeErrors.Inc()
}

// RecordHTTPRequest records an HTTP request by endpoint, method and status.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	if globalManager == nil || !globalManager.enabled {
		return
	}
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records an HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	if globalManager == nil || !globalManager.enabled {
		return
	}
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordIngestRecord records one successfully ingested record.
func RecordIngestRecord() {
	if globalManager == nil || !globalManager.enabled {
		return
	}
	globalManager.ingestRecords.Inc()
}

// RecordIngestDuplicate records a duplicate record skipped during ingestion.
func RecordIngestDuplicate() {
	if globalManager == nil || !globalManager.enabled {
		return
	}
	globalManager.ingestDuplicates.Inc()
}

// RecordIngestError records a record rejected during ingestion.
func RecordIngestError() {
	if globalManager == nil || !globalManager.enabled {
		return
	}
	globalManager.ingestErrors.Inc()
}

// UpdateIngestQueueSize updates the ingest queue size gauge.
func UpdateIngestQueueSize(size int) {
	if globalManager == nil || !globalManager.enabled {
		return
	}
	globalManager.ingestQueueSize.Set(float64(size))
}

// UpdateIngestWorkerCount updates the ingest worker gauge.
func UpdateIngestWorkerCount(count int) {
	if globalManager == nil || !globalManager.enabled {
		return
	}
	globalManager.ingestWorkers.Set(float64(count))
}

// GetRegistry returns the custom registry used by the global manager.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
