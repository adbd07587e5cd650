package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metric collectors / Contient tous les collecteurs de métriques Prometheus
type Metrics struct {
	// Client records metrics
	ClientOperations *prometheus.CounterVec // Client operations by operation and status
	ClientSearches   *prometheus.CounterVec // Searches by search type
	ClientsStored    prometheus.Gauge       // Row count seen by the last dashboard or list

	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec   // Total HTTP requests by method, path, status
	HTTPRequestDuration *prometheus.HistogramVec // HTTP request latency in seconds
	ActiveConnections   prometheus.Gauge         // Current number of active HTTP connections

	// Security metrics
	RateLimitHits *prometheus.CounterVec // Rate limit violations by endpoint
	CSRFFailures  prometheus.Counter     // CSRF validation failures
	AuthFailures  prometheus.Counter     // Rejected Basic auth attempts

	// System metrics
	DatabaseConnections prometheus.Gauge     // Current database connection pool size
	BackgroundTasks     *prometheus.GaugeVec // Status of background tasks (running/stopped)
}

// NewMetrics initializes Metrics instance / Initialise une instance Metrics
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		ClientOperations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "client_operations_total",
				Help: "Total number of client record operations by operation (create, update, delete, view, export) and status",
			},
			[]string{"operation", "status"},
		),

		ClientSearches: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "client_searches_total",
				Help: "Total number of client searches by search type",
			},
			[]string{"type"},
		),

		ClientsStored: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "clients_stored",
				Help: "Number of client records at the last count",
			},
		),

		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests by method, path, and status code",
			},
			[]string{"method", "path", "status_code"},
		),

		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "http_request_duration_seconds",
				Help: "HTTP request latency in seconds",
				// Page renders hit the database once or twice: 5ms to 5s
				Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
			[]string{"method", "path"},
		),

		ActiveConnections: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_active_connections",
				Help: "Current number of active HTTP connections",
			},
		),

		RateLimitHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "security_rate_limit_hits_total",
				Help: "Total number of rate limit violations by endpoint",
			},
			[]string{"endpoint"},
		),

		CSRFFailures: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "security_csrf_failures_total",
				Help: "Total number of CSRF validation failures",
			},
		),

		AuthFailures: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "security_auth_failures_total",
				Help: "Total number of rejected Basic authentication attempts",
			},
		),

		DatabaseConnections: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "database_connections_active",
				Help: "Current number of active database connections",
			},
		),

		BackgroundTasks: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "background_tasks_status",
				Help: "Status of background tasks (1=running, 0=stopped)",
			},
			[]string{"task_name"},
		),
	}
}

// RecordClientOperation records a client operation.
// Status is "success", "not_found", "no_data" or "error".
func (m *Metrics) RecordClientOperation(operation, status string) {
	m.ClientOperations.WithLabelValues(operation, status).Inc()
}

// RecordSearch records a search by its normalized type.
func (m *Metrics) RecordSearch(searchType string) {
	m.ClientSearches.WithLabelValues(searchType).Inc()
}

// SetClientCount updates the stored clients gauge.
func (m *Metrics) SetClientCount(count int) {
	m.ClientsStored.Set(float64(count))
}

// RecordHTTPRequest records an HTTP request with method, path, and status code.
func (m *Metrics) RecordHTTPRequest(method, path string, statusCode int) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, statusCodeLabel(statusCode)).Inc()
}

// RecordHTTPDuration records the duration of an HTTP request.
func (m *Metrics) RecordHTTPDuration(method, path string, duration time.Duration) {
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// IncrementActiveConnections increments the active connections gauge.
func (m *Metrics) IncrementActiveConnections() {
	m.ActiveConnections.Inc()
}

// DecrementActiveConnections decrements the active connections gauge.
func (m *Metrics) DecrementActiveConnections() {
	m.ActiveConnections.Dec()
}

// RecordRateLimitHit records a rate limit violation for a specific endpoint.
func (m *Metrics) RecordRateLimitHit(endpoint string) {
	m.RateLimitHits.WithLabelValues(endpoint).Inc()
}

// RecordCSRFFailure increments the CSRF failure counter.
func (m *Metrics) RecordCSRFFailure() {
	m.CSRFFailures.Inc()
}

// RecordAuthFailure increments the Basic auth failure counter.
func (m *Metrics) RecordAuthFailure() {
	m.AuthFailures.Inc()
}

// UpdateDatabaseConnections updates the database connections gauge.
func (m *Metrics) UpdateDatabaseConnections(count int) {
	m.DatabaseConnections.Set(float64(count))
}

// SetBackgroundTaskStatus sets the status of a background task.
// Status: 1 for running, 0 for stopped.
func (m *Metrics) SetBackgroundTaskStatus(taskName string, running bool) {
	status := 0.0
	if running {
		status = 1.0
	}
	m.BackgroundTasks.WithLabelValues(taskName).Set(status)
}

// statusCodeLabel keeps the codes this app emits exact and buckets the rest / Garde les codes usuels exacts
func statusCodeLabel(code int) string {
	switch code {
	case 200, 303, 400, 401, 403, 404, 405, 429, 500, 503:
		return strconv.Itoa(code)
	}
	if code >= 100 && code < 600 {
		return strconv.Itoa(code/100) + "xx"
	}
	return "unknown"
}
