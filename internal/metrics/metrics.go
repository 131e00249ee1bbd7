// Package metrics defines Prometheus metrics for the catalog.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "geocatalog_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "geocatalog_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	ErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "geocatalog_errors_total",
			Help: "Total errors by type",
		},
		[]string{"type"},
	)

	UploadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "geocatalog_uploads_total",
			Help: "Total upload attempts by outcome",
		},
		[]string{"outcome"},
	)

	UploadRowsInserted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "geocatalog_upload_rows_inserted_total",
			Help: "Total measurement rows inserted by uploads",
		},
	)

	UploadDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "geocatalog_upload_duration_seconds",
			Help:    "End-to-end upload processing duration in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
	)
)

func init() {
	prometheus.MustRegister(
		RequestDuration, RequestsTotal, ErrorsTotal,
		UploadsTotal, UploadRowsInserted, UploadDuration,
	)
}
