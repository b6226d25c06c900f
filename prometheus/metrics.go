package prometheus

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request metrics
	HttpRequestsTotal   *prometheus.CounterVec
	HttpRequestDuration *prometheus.HistogramVec

	// Database operation metrics
	DbOperationDuration *prometheus.HistogramVec

	// Property metrics
	PropertyOperationsCounter *prometheus.CounterVec

	// Media upload metrics
	MediaUploadsCounter       *prometheus.CounterVec
	MediaUploadDuration       *prometheus.HistogramVec
	TransactionRetriesCounter prometheus.Counter

	initOnce sync.Once
)

// InitMetrics registers the service metrics with the default registry.
// Recorders are no-ops until it has been called.
func InitMetrics(prefix string) {
	initOnce.Do(func() {
		HttpRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		)

		HttpRequestDuration = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    prefix + "_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		)

		DbOperationDuration = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    prefix + "_db_operation_duration_seconds",
				Help:    "Duration of database operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation_type"},
		)

		PropertyOperationsCounter = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_property_operations_total",
				Help: "Total number of property operations",
			},
			[]string{"operation", "status"},
		)

		MediaUploadsCounter = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_media_uploads_total",
				Help: "Total number of media uploads",
			},
			[]string{"provider", "status"},
		)

		MediaUploadDuration = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    prefix + "_media_upload_duration_seconds",
				Help:    "Duration of media uploads in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"provider"},
		)

		TransactionRetriesCounter = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: prefix + "_db_transaction_retries_total",
				Help: "Total number of retried database transactions",
			},
		)
	})
}

// RecordHTTPRequest records the count and duration of a served request
func RecordHTTPRequest(method, path, status string, duration time.Duration) {
	if HttpRequestsTotal == nil {
		return
	}
	HttpRequestsTotal.WithLabelValues(method, path, status).Inc()
	HttpRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// TrackDBOperation returns a function that records the duration of a database operation
func TrackDBOperation(operationType string) func(startTime time.Time) {
	return func(startTime time.Time) {
		if DbOperationDuration == nil {
			return
		}
		DbOperationDuration.WithLabelValues(operationType).Observe(time.Since(startTime).Seconds())
	}
}

// RecordPropertyOperation increments the counter for property operations
func RecordPropertyOperation(operation string, err error) {
	if PropertyOperationsCounter == nil {
		return
	}
	PropertyOperationsCounter.WithLabelValues(operation, statusLabel(err)).Inc()
}

// RecordMediaUpload records the outcome and duration of an upload
func RecordMediaUpload(provider string, startTime time.Time, err error) {
	if MediaUploadsCounter == nil {
		return
	}
	MediaUploadsCounter.WithLabelValues(provider, statusLabel(err)).Inc()
	MediaUploadDuration.WithLabelValues(provider).Observe(time.Since(startTime).Seconds())
}

// RecordTransactionRetry increments the transaction retry counter
func RecordTransactionRetry() {
	if TransactionRetriesCounter == nil {
		return
	}
	TransactionRetriesCounter.Inc()
}

func statusLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
