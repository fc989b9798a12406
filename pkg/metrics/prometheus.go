// Package metrics provides Prometheus metrics for the exam preparation service.
package metrics

import (
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// agentLatencyBuckets cover LLM round-trips, in milliseconds.
var agentLatencyBuckets = []float64{100, 250, 500, 1000, 2000, 5000, 10000, 20000, 40000, 60000}

// Manager manages all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          atomic.Bool
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Agent metrics
	agentInvocations *prometheus.CounterVec
	agentLatency     *prometheus.HistogramVec
	quizMalformed    prometheus.Counter

	// Evaluation metrics
	scoresExtracted  prometheus.Counter
	scoresMissing    prometheus.Counter
	recordsPersisted prometheus.Counter
	recordsTotal     prometheus.Gauge

	// Storage metrics
	storageLatency *prometheus.HistogramVec
	storageErrors  *prometheus.CounterVec

	// Session metrics
	activeSessions prometheus.Gauge

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error metrics
	errorRateByType     *prometheus.CounterVec
	errorRateByEndpoint *prometheus.CounterVec
	errorLatency        *prometheus.HistogramVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to keep the exposition limited to what we register.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	customRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "examprep",
		subsystem:        "service",
		histogramBuckets: prometheus.DefBuckets,
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}

	m.enabled.Store(true)
	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) name(n string) string {
	return m.metricPrefix + n
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)
	constLabels := prometheus.Labels(m.customLabels)

	m.agentInvocations = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("agent_invocations_total"),
		Help:        "Total number of LLM agent invocations by agent and outcome",
		ConstLabels: constLabels,
	}, []string{"agent", "status"})

	m.agentLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("agent_latency_milliseconds"),
		Help:        "LLM round-trip latency in milliseconds by agent",
		Buckets:     agentLatencyBuckets,
		ConstLabels: constLabels,
	}, []string{"agent"})

	m.quizMalformed = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("quiz_malformed_total"),
		Help:        "Generated quizzes that did not look like 5 questions with 4 options",
		ConstLabels: constLabels,
	})

	m.scoresExtracted = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("scores_extracted_total"),
		Help:        "Evaluations whose output contained an extractable score",
		ConstLabels: constLabels,
	})

	m.scoresMissing = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("scores_missing_total"),
		Help:        "Evaluations whose output had no score",
		ConstLabels: constLabels,
	})

	m.recordsPersisted = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("records_persisted_total"),
		Help:        "Performance records appended to the store",
		ConstLabels: constLabels,
	})

	m.recordsTotal = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("records"),
		Help:        "Number of performance records last seen in the store",
		ConstLabels: constLabels,
	})

	m.storageLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("storage_latency_milliseconds"),
		Help:        "Persistence store latency in milliseconds by operation",
		Buckets:     m.histogramBuckets,
		ConstLabels: constLabels,
	}, []string{"operation"})

	m.storageErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("storage_errors_total"),
		Help:        "Persistence store failures by operation",
		ConstLabels: constLabels,
	}, []string{"operation"})

	m.activeSessions = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("active_sessions"),
		Help:        "Interactive sessions currently held in memory",
		ConstLabels: constLabels,
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("http_requests_total"),
		Help:        "Total number of HTTP requests by endpoint and method",
		ConstLabels: constLabels,
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("http_request_duration_milliseconds"),
		Help:        "HTTP request duration in milliseconds",
		Buckets:     agentLatencyBuckets,
		ConstLabels: constLabels,
	}, []string{"endpoint", "method", "status_code"})

	m.errorRateByType = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("errors_by_type_total"),
		Help:        "Errors by type and severity",
		ConstLabels: constLabels,
	}, []string{"error_type", "severity"})

	m.errorRateByEndpoint = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("errors_by_endpoint_total"),
		Help:        "Errors by endpoint, method and type",
		ConstLabels: constLabels,
	}, []string{"endpoint", "method", "error_type"})

	m.errorLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("error_latency_milliseconds"),
		Help:        "Latency of operations that ended in an error",
		Buckets:     agentLatencyBuckets,
		ConstLabels: constLabels,
	}, []string{"component", "error_type"})
}

// SetEnabled turns recording through the package helpers on or off.
// Registered collectors stay exposed either way.
func SetEnabled(enabled bool) {
	globalManager.enabled.Store(enabled)
}

// Agent Metrics Functions.

// RecordAgentInvocation counts one agent call with its outcome ("ok" or "error").
func RecordAgentInvocation(agent, status string) {
	if !globalManager.enabled.Load() {
		return
	}
	globalManager.agentInvocations.WithLabelValues(agent, status).Inc()
}

// RecordAgentLatency records an agent round-trip in milliseconds.
func RecordAgentLatency(agent string, latencyMs float64) {
	if !globalManager.enabled.Load() {
		return
	}
	globalManager.agentLatency.WithLabelValues(agent).Observe(latencyMs)
}

// RecordQuizMalformed counts a quiz that did not have the requested shape.
func RecordQuizMalformed() {
	if !globalManager.enabled.Load() {
		return
	}
	globalManager.quizMalformed.Inc()
}

// Evaluation Metrics Functions.

// RecordScoreExtracted counts an evaluation with a score.
func RecordScoreExtracted() {
	if !globalManager.enabled.Load() {
		return
	}
	globalManager.scoresExtracted.Inc()
}

// RecordScoreMissing counts an evaluation without a score.
func RecordScoreMissing() {
	if !globalManager.enabled.Load() {
		return
	}
	globalManager.scoresMissing.Inc()
}

// RecordRecordPersisted counts an appended performance record.
func RecordRecordPersisted() {
	if !globalManager.enabled.Load() {
		return
	}
	globalManager.recordsPersisted.Inc()
}

// UpdateRecordsTotal sets the number of stored records.
func UpdateRecordsTotal(count int) {
	if !globalManager.enabled.Load() {
		return
	}
	globalManager.recordsTotal.Set(float64(count))
}

// Storage Metrics Functions.

// RecordStorageLatency records a store operation ("load" or "save") latency.
func RecordStorageLatency(operation string, latencyMs float64) {
	if !globalManager.enabled.Load() {
		return
	}
	globalManager.storageLatency.WithLabelValues(operation).Observe(latencyMs)
}

// RecordStorageError counts a failed store operation.
func RecordStorageError(operation string) {
	if !globalManager.enabled.Load() {
		return
	}
	globalManager.storageErrors.WithLabelValues(operation).Inc()
}

// Session Metrics Functions.

// UpdateActiveSessions sets the number of live sessions.
func UpdateActiveSessions(count int) {
	if !globalManager.enabled.Load() {
		return
	}
	globalManager.activeSessions.Set(float64(count))
}

// HTTP Metrics Functions.

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	if !globalManager.enabled.Load() {
		return
	}
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	if !globalManager.enabled.Load() {
		return
	}
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// Error Metrics Functions.

// RecordErrorByType records an error with type and severity labels.
func RecordErrorByType(errorType, severity string) {
	if !globalManager.enabled.Load() {
		return
	}
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	if !globalManager.enabled.Load() {
		return
	}
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorLatency records the latency of an operation that resulted in an error.
func RecordErrorLatency(component, errorType string, latencyMs float64) {
	if !globalManager.enabled.Load() {
		return
	}
	globalManager.errorLatency.WithLabelValues(component, errorType).Observe(latencyMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
