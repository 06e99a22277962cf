package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus collectors for HTTP traffic and the retention engine.
type Metrics struct {
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	errors          *prometheus.CounterVec

	cleanupRuns      *prometheus.CounterVec
	cleanupDuration  prometheus.Histogram
	recordsProcessed *prometheus.CounterVec
	recordFailures   *prometheus.CounterVec
	reviewReminders  *prometheus.CounterVec
}

// NewMetrics registers all collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "account_http_requests_total",
			Help: "Total HTTP requests by route, method and status",
		}, []string{"route", "method", "status"}),
		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "account_http_request_duration_seconds",
			Help:    "HTTP request latency by route and method",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"route", "method"}),
		errors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "account_http_errors_total",
			Help: "Total HTTP errors by route, method and error code",
		}, []string{"route", "method", "code"}),
		cleanupRuns: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "account_retention_cleanup_runs_total",
			Help: "Retention cleanup runs by trigger and outcome (completed, skipped, panicked)",
		}, []string{"trigger", "outcome"}),
		cleanupDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "account_retention_cleanup_duration_seconds",
			Help:    "Duration of retention cleanup runs",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 15, 30, 60, 300},
		}),
		recordsProcessed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "account_retention_records_total",
			Help: "Records transitioned by the retention engine, by pass (anonymize, purge)",
		}, []string{"pass"}),
		recordFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "account_retention_record_failures_total",
			Help: "Per-record retention failures, by pass (anonymize, purge)",
		}, []string{"pass"}),
		reviewReminders: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "account_compliance_review_reminders_total",
			Help: "Compliance review reminders emitted, by kind",
		}, []string{"kind"}),
	}
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(route, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(route, method).Observe(duration.Seconds())
}

// RecordError increments error counters.
func (m *Metrics) RecordError(route, method, code string) {
	if m == nil {
		return
	}
	m.errors.WithLabelValues(route, method, code).Inc()
}

// RecordCleanupRun counts a cleanup attempt and, for completed runs, its duration.
func (m *Metrics) RecordCleanupRun(trigger, outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.cleanupRuns.WithLabelValues(trigger, outcome).Inc()
	if duration > 0 {
		m.cleanupDuration.Observe(duration.Seconds())
	}
}

// RecordPass adds the per-pass success and failure counts of a cleanup run.
func (m *Metrics) RecordPass(pass string, processed, failed int) {
	if m == nil {
		return
	}
	m.recordsProcessed.WithLabelValues(pass).Add(float64(processed))
	m.recordFailures.WithLabelValues(pass).Add(float64(failed))
}

// RecordReviewReminder counts an emitted review reminder.
func (m *Metrics) RecordReviewReminder(kind string) {
	if m == nil {
		return
	}
	m.reviewReminders.WithLabelValues(kind).Inc()
}
