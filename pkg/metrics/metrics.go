package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "path", "status"},
	)

	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"operation"},
	)

	MigrationStepCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "migration_step_count",
			Help: "Total number of migration steps by outcome",
		},
		[]string{"outcome"}, // outcome: applied, already-present, failed
	)

	WidgetValidationWarningCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "widget_validation_warning_count",
			Help: "Total number of widget validation warnings",
		},
		[]string{"widget_type"},
	)

	SubscriberTransitionCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "subscriber_transition_count",
			Help: "Total number of subscriber lifecycle transitions",
		},
		[]string{"transition"}, // transition: subscribe, unsubscribe, resubscribe
	)
)

// RecordHTTPRequestDuration records HTTP request latency.
func RecordHTTPRequestDuration(method, path, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// RecordDBQueryDuration records database query latency.
func RecordDBQueryDuration(operation string, duration time.Duration) {
	DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// IncrementMigrationStep counts one migration step outcome.
func IncrementMigrationStep(outcome string) {
	MigrationStepCount.WithLabelValues(outcome).Inc()
}

// IncrementValidationWarning counts one widget validation warning.
func IncrementValidationWarning(widgetType string) {
	WidgetValidationWarningCount.WithLabelValues(widgetType).Inc()
}

// IncrementSubscriberTransition counts one subscriber transition.
func IncrementSubscriberTransition(transition string) {
	SubscriberTransitionCount.WithLabelValues(transition).Inc()
}
