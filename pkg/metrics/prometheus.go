// Package metrics provides Prometheus metrics for the holical calendar service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Latency buckets in milliseconds; calendar work is sub-millisecond to a few ms.
var defaultLatencyBuckets = []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25, 50, 100, 250, 500} //nolint:gochecknoglobals // default buckets

// Manager manages all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Repository metrics
	repositoryOps     *prometheus.CounterVec
	repositoryErrors  *prometheus.CounterVec
	repositoryLatency *prometheus.HistogramVec
	repositoryRecords *prometheus.GaugeVec

	// Calendar metrics
	viewsBuilt       prometheus.Counter
	viewErrors       prometheus.Counter
	viewBuildLatency prometheus.Histogram
	navigations      *prometheus.CounterVec
	importRows       *prometheus.CounterVec
	exports          *prometheus.CounterVec

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error metrics
	errorRateByType     *prometheus.CounterVec
	errorRateByEndpoint *prometheus.CounterVec
	errorLatency        *prometheus.HistogramVec

	// System metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "holical",
		subsystem:        "calendar",
		histogramBuckets: defaultLatencyBuckets,
		enabled:          true,
		constLabels:      prometheus.Labels{},
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}, labels)
}

func (m *Manager) histogramVec(name, help string, labels ...string) *prometheus.HistogramVec {
	return promauto.With(m.registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}, labels)
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)

	m.repositoryOps = m.counterVec("repository_operations_total",
		"Repository operations by store and operation", "store", "op")
	m.repositoryErrors = m.counterVec("repository_errors_total",
		"Failed repository operations by store and operation", "store", "op")
	m.repositoryLatency = m.histogramVec("repository_operation_milliseconds",
		"Repository operation latency in milliseconds", "store", "op")
	m.repositoryRecords = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "repository_records",
		Help:        "Records currently held per store",
		ConstLabels: m.constLabels,
	}, []string{"store"})

	m.viewsBuilt = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "views_built_total",
		Help:        "Month views assembled (grid, bucket and stats)",
		ConstLabels: m.constLabels,
	})
	m.viewErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "view_errors_total",
		Help:        "Month views that failed to build",
		ConstLabels: m.constLabels,
	})
	m.viewBuildLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "view_build_milliseconds",
		Help:        "Time to assemble a month view in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	})
	m.navigations = m.counterVec("navigations_total",
		"Month navigation transitions by direction", "direction")
	m.importRows = m.counterVec("import_rows_total",
		"Spreadsheet rows processed by import outcome", "outcome")
	m.exports = m.counterVec("exports_total",
		"Calendar exports by format", "format")

	m.httpRequests = m.counterVec("http_requests_total",
		"Total number of HTTP requests by endpoint and method", "endpoint", "method", "status_code")
	m.httpRequestDuration = m.histogramVec("http_request_duration_milliseconds",
		"HTTP request duration in milliseconds", "endpoint", "method", "status_code")

	m.errorRateByType = m.counterVec("errors_by_type_total",
		"Errors by type and severity", "error_type", "severity")
	m.errorRateByEndpoint = m.counterVec("errors_by_endpoint_total",
		"Errors by endpoint, method and type", "endpoint", "method", "error_type")
	m.errorLatency = m.histogramVec("error_latency_milliseconds",
		"Latency of requests that ended in an error", "component", "error_type")

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   "system",
		Name:        "memory_usage_bytes",
		Help:        "Current heap allocation in bytes",
		ConstLabels: m.constLabels,
	})
	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   "system",
		Name:        "goroutines",
		Help:        "Current number of goroutines",
		ConstLabels: m.constLabels,
	})
	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   "system",
		Name:        "gc_pause_milliseconds",
		Help:        "Average GC pause in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	})
}

// RecordRepositoryOperation counts an operation and observes its latency.
func RecordRepositoryOperation(store, op string, latencyMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.repositoryOps.WithLabelValues(store, op).Inc()
	globalManager.repositoryLatency.WithLabelValues(store, op).Observe(latencyMs)
}

// RecordRepositoryError counts a failed repository operation.
func RecordRepositoryError(store, op string) {
	if !globalManager.enabled {
		return
	}
	globalManager.repositoryErrors.WithLabelValues(store, op).Inc()
}

// UpdateRepositoryRecords sets the record gauge for store.
func UpdateRepositoryRecords(store string, count int) {
	if !globalManager.enabled {
		return
	}
	globalManager.repositoryRecords.WithLabelValues(store).Set(float64(count))
}

// RecordViewBuilt counts a successful month view and its build time.
func RecordViewBuilt(latencyMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.viewsBuilt.Inc()
	globalManager.viewBuildLatency.Observe(latencyMs)
}

// RecordViewError counts a month view that failed to build.
func RecordViewError() {
	if !globalManager.enabled {
		return
	}
	globalManager.viewErrors.Inc()
}

// RecordNavigation counts a navigation transition.
func RecordNavigation(direction string) {
	if !globalManager.enabled {
		return
	}
	globalManager.navigations.WithLabelValues(direction).Inc()
}

// RecordImportRows counts accepted and rejected spreadsheet rows.
func RecordImportRows(accepted, rejected int) {
	if !globalManager.enabled {
		return
	}
	globalManager.importRows.WithLabelValues("accepted").Add(float64(accepted))
	globalManager.importRows.WithLabelValues("rejected").Add(float64(rejected))
}

// RecordExport counts an export in the given format, e.g. "ics" or "xlsx".
func RecordExport(format string) {
	if !globalManager.enabled {
		return
	}
	globalManager.exports.WithLabelValues(format).Inc()
}

// RecordHTTPRequest counts an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	if !globalManager.enabled {
		return
	}
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration observes an HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByType counts an error by type and severity.
func RecordErrorByType(errorType, severity string) {
	if !globalManager.enabled {
		return
	}
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint counts an error by endpoint.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	if !globalManager.enabled {
		return
	}
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorLatency observes the latency of a failed request.
func RecordErrorLatency(component, errorType string, latencyMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.errorLatency.WithLabelValues(component, errorType).Observe(latencyMs)
}

// UpdateSystemMemoryUsage sets the heap allocation gauge.
func UpdateSystemMemoryUsage(bytes uint64) {
	if !globalManager.enabled {
		return
	}
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the goroutine gauge.
func UpdateSystemGoroutineCount(count int) {
	if !globalManager.enabled {
		return
	}
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime observes the average GC pause.
func RecordSystemGCPauseTime(pauseMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// SetEnabled turns recording through the package-level functions on or off.
func SetEnabled(enabled bool) {
	globalManager.enabled = enabled
}

// GetRegistry returns the registry backing the package-level functions.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
