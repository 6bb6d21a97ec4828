package prometheus

import (
	"insights-service/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request metrics
	HttpRequestsTotal   prometheus.CounterVec
	HttpRequestDuration prometheus.HistogramVec

	// Sync metrics
	SyncedRecordsCounter  prometheus.CounterVec
	SyncSkippedCounter    prometheus.CounterVec
	SyncErrorsCounter     prometheus.CounterVec
	SyncRunsCounter       prometheus.CounterVec
	SyncedTenantsGauge    prometheus.Gauge
	SyncDurationHistogram prometheus.Histogram

	// Webhook metrics
	WebhookEventsCounter prometheus.CounterVec
)

// InitMetrics initializes Prometheus metrics with configuration
func InitMetrics(config *config.Config) {
	// Use metric prefix from configuration
	prefix := config.Metrics.Prefix

	// HTTP request metrics
	HttpRequestsTotal = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTP request duration
	HttpRequestDuration = *promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// Records reconciled per entity type
	SyncedRecordsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_synced_records_total",
			Help: "Total number of records reconciled into the store",
		},
		[]string{"entity"},
	)

	// Records skipped because they failed to reconcile
	SyncSkippedCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_sync_skipped_records_total",
			Help: "Total number of records skipped during sync",
		},
		[]string{"entity"},
	)

	// Entity-level sync failures
	SyncErrorsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_sync_errors_total",
			Help: "Total number of entity sync failures",
		},
		[]string{"entity"},
	)

	// Scheduled sync runs by outcome
	SyncRunsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_sync_runs_total",
			Help: "Total number of scheduled sync runs",
		},
		[]string{"status"},
	)

	// Tenants covered by the most recent scheduled run
	SyncedTenantsGauge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: prefix + "_synced_tenants",
			Help: "Number of tenants synced in the last scheduled run",
		},
	)

	// Duration of a full tenant sync
	SyncDurationHistogram = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    prefix + "_tenant_sync_duration_seconds",
			Help:    "Duration of one tenant's full sync in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Webhook deliveries by topic
	WebhookEventsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_webhook_events_total",
			Help: "Total number of webhook deliveries processed",
		},
		[]string{"topic"},
	)
}

// RecordSyncedRecords adds reconciled records to the per-entity counter
func RecordSyncedRecords(entity string, count int) {
	SyncedRecordsCounter.WithLabelValues(entity).Add(float64(count))
}

// RecordSyncSkipped increments the skipped-record counter for an entity
func RecordSyncSkipped(entity string) {
	SyncSkippedCounter.WithLabelValues(entity).Inc()
}

// RecordSyncError increments the sync error counter for an entity
func RecordSyncError(entity string) {
	SyncErrorsCounter.WithLabelValues(entity).Inc()
}

// RecordSyncRun increments the scheduled run counter for an outcome
func RecordSyncRun(status string) {
	SyncRunsCounter.WithLabelValues(status).Inc()
}

// RecordWebhookEvent increments the webhook counter for a topic
func RecordWebhookEvent(topic string) {
	WebhookEventsCounter.WithLabelValues(topic).Inc()
}
