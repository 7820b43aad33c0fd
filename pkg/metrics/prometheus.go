// Package metrics provides Prometheus metrics for the shortlist recommender.
package metrics

import (
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultRefreshInterval = 10 * time.Second
)

// Manager manages all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer
	gatherer         *prometheus.Registry

	// Recommendation pipeline
	recommendRequests     prometheus.Counter
	recommendLatency      prometheus.Histogram
	recommendResults      prometheus.Histogram
	recommendFallbacks    *prometheus.CounterVec
	balancerInvocations   prometheus.Counter
	boostMatches          *prometheus.CounterVec
	lowCandidateWarnings  prometheus.Counter
	durationFilterDropped prometheus.Counter

	// Index build
	catalogSize             prometheus.Gauge
	catalogSkipped          *prometheus.CounterVec
	catalogUnknownTestTypes *prometheus.CounterVec
	vocabularySize          prometheus.Gauge
	indexBuildDuration      prometheus.Gauge
	trainingRows            *prometheus.GaugeVec
	trainingQueries         prometheus.Gauge
	trainingMatchRate       prometheus.Gauge

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorRateByType     *prometheus.CounterVec
	errorRateByEndpoint *prometheus.CounterVec

	// Batch runner
	batchJobs       *prometheus.CounterVec
	batchQueueSize  prometheus.Gauge
	batchWorkers    prometheus.Gauge
	batchJobLatency prometheus.Histogram

	// System Performance Metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// global holds the manager every Record/Update function writes to.
var global atomic.Pointer[Manager] //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	Configure()
}

// Configure replaces the global manager with one built from opts on a fresh
// registry, so no Go runtime collectors leak into the exposition. It is
// called once at process start; values recorded before it are dropped.
func Configure(opts ...Option) {
	reg := prometheus.NewRegistry()
	m := NewManager(append(opts, WithPrometheusRegistry(reg))...)
	m.gatherer = reg
	global.Store(m)
}

func current() *Manager { return global.Load() }

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "shortlist",
		subsystem:        "recommender",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		customLabels:     make(map[string]string),
		metricPrefix:     "",
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) name(n string) string { return m.metricPrefix + n }

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)
	labels := prometheus.Labels(m.customLabels)
	latencyBuckets := []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25, 50, 100, 250}

	m.recommendRequests = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: m.name("requests_total"),
		Help: "Total number of recommendation requests served",
	})
	m.recommendLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name:    m.name("latency_milliseconds"),
		Help:    "Histogram of end-to-end recommendation latency in milliseconds",
		Buckets: latencyBuckets,
	})
	m.recommendResults = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name:    m.name("results_count"),
		Help:    "Number of records returned per request",
		Buckets: []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10},
	})
	m.recommendFallbacks = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: m.name("fallback_tier_total"),
		Help: "Fallback tiers applied to reach the minimum result count",
	}, []string{"tier"})
	m.balancerInvocations = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: m.name("balancer_invocations_total"),
		Help: "Requests whose results were category balanced",
	})
	m.boostMatches = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: m.name("training_boost_matches_total"),
		Help: "Training boost matches by kind (exact, fuzzy)",
	}, []string{"kind"})
	m.lowCandidateWarnings = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: m.name("low_candidate_total"),
		Help: "Requests left with fewer than the minimum candidates after filtering",
	})
	m.durationFilterDropped = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: m.name("duration_filtered_total"),
		Help: "Candidates dropped by the duration constraint",
	})

	m.catalogSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: m.name("catalog_size"),
		Help: "Number of assessments in the loaded catalog",
	})
	m.catalogSkipped = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: m.name("catalog_skipped_total"),
		Help: "Catalog records skipped at load by reason",
	}, []string{"reason"})
	m.catalogUnknownTestTypes = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: m.name("catalog_unknown_test_types_total"),
		Help: "Test type values outside the known code set",
	}, []string{"value"})
	m.vocabularySize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: m.name("vocabulary_size"),
		Help: "Number of terms in the fitted vector space",
	})
	m.indexBuildDuration = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: m.name("index_build_milliseconds"),
		Help: "Time spent building the engine at startup",
	})
	m.trainingRows = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: m.name("training_rows"),
		Help: "Training log rows by state (matched, dropped)",
	}, []string{"state"})
	m.trainingQueries = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: m.name("training_queries"),
		Help: "Unique historical queries in the training index",
	})
	m.trainingMatchRate = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: m.name("training_match_rate"),
		Help: "Fraction of training rows whose URL matched the catalog",
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: m.name("http_requests_total"),
		Help: "Total number of HTTP requests by endpoint and method",
	}, []string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name:    m.name("http_request_duration_milliseconds"),
		Help:    "HTTP request duration in milliseconds (user experience)",
		Buckets: m.histogramBuckets,
	}, []string{"endpoint", "method", "status_code"})
	m.errorRateByType = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: m.name("errors_by_type_total"),
		Help: "Errors by type and severity",
	}, []string{"error_type", "severity"})
	m.errorRateByEndpoint = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: m.name("errors_by_endpoint_total"),
		Help: "Errors by endpoint, method and type",
	}, []string{"endpoint", "method", "error_type"})

	m.batchJobs = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: m.name("batch_jobs_total"),
		Help: "Batch queries processed by status",
	}, []string{"status"})
	m.batchQueueSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: m.name("batch_queue_size"),
		Help: "Current number of queued batch queries",
	})
	m.batchWorkers = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: m.name("batch_workers"),
		Help: "Number of batch workers running",
	})
	m.batchJobLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name:    m.name("batch_job_latency_milliseconds"),
		Help:    "Latency of a single batch query in milliseconds",
		Buckets: latencyBuckets,
	})

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: m.name("system_memory_usage_bytes"),
		Help: "System memory usage in bytes",
	})
	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: m.name("system_goroutine_count"),
		Help: "Number of goroutines",
	})
	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name:    m.name("system_gc_pause_time_milliseconds"),
		Help:    "GC pause time in milliseconds",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
	})
}

// Recommendation pipeline.

// RecordRecommendation records one served request with its latency and size.
func RecordRecommendation(latencyMs float64, results int) {
	m := current()
	if !m.enabled {
		return
	}
	m.recommendRequests.Inc()
	m.recommendLatency.Observe(latencyMs)
	m.recommendResults.Observe(float64(results))
}

// RecordFallback increments the counter for a fallback tier.
func RecordFallback(tier string) {
	current().recommendFallbacks.WithLabelValues(tier).Inc()
}

// RecordBalancerInvocation increments the balancer counter.
func RecordBalancerInvocation() {
	current().balancerInvocations.Inc()
}

// RecordBoostMatches adds n training boost matches of kind.
func RecordBoostMatches(kind string, n int) {
	if n <= 0 {
		return
	}
	current().boostMatches.WithLabelValues(kind).Add(float64(n))
}

// RecordLowCandidates increments the low-candidate warning counter.
func RecordLowCandidates() {
	current().lowCandidateWarnings.Inc()
}

// RecordDurationFiltered adds n to the duration-filter drop counter.
func RecordDurationFiltered(n int) {
	current().durationFilterDropped.Add(float64(n))
}

// Index build.

// UpdateCatalogSize sets the catalog size gauge.
func UpdateCatalogSize(n int) {
	current().catalogSize.Set(float64(n))
}

// RecordCatalogSkipped adds n skipped records for reason.
func RecordCatalogSkipped(reason string, n int) {
	current().catalogSkipped.WithLabelValues(reason).Add(float64(n))
}

// RecordCatalogUnknownTestType adds n occurrences of an unknown test type value.
func RecordCatalogUnknownTestType(value string, n int) {
	current().catalogUnknownTestTypes.WithLabelValues(value).Add(float64(n))
}

// UpdateVocabularySize sets the vocabulary gauge.
func UpdateVocabularySize(n int) {
	current().vocabularySize.Set(float64(n))
}

// UpdateIndexBuildDuration records how long the engine took to build.
func UpdateIndexBuildDuration(ms float64) {
	current().indexBuildDuration.Set(ms)
}

// UpdateTrainingStats sets the training gauges.
func UpdateTrainingStats(matched, dropped, queries int, matchRate float64) {
	m := current()
	m.trainingRows.WithLabelValues("matched").Set(float64(matched))
	m.trainingRows.WithLabelValues("dropped").Set(float64(dropped))
	m.trainingQueries.Set(float64(queries))
	m.trainingMatchRate.Set(matchRate)
}

// HTTP.

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	current().httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	current().httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByType records an error with type and severity labels.
func RecordErrorByType(errorType, severity string) {
	current().errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	current().errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// Batch runner.

// RecordBatchJob increments the batch job counter for status and observes latency.
func RecordBatchJob(status string, latencyMs float64) {
	m := current()
	m.batchJobs.WithLabelValues(status).Inc()
	m.batchJobLatency.Observe(latencyMs)
}

// UpdateBatchQueueSize sets the batch queue gauge.
func UpdateBatchQueueSize(n int) {
	current().batchQueueSize.Set(float64(n))
}

// UpdateBatchWorkers sets the batch worker gauge.
func UpdateBatchWorkers(n int) {
	current().batchWorkers.Set(float64(n))
}

// System Performance Metrics Functions.

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	current().systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	current().systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	current().systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the registry of the current global manager.
func GetRegistry() *prometheus.Registry {
	return current().gatherer
}
