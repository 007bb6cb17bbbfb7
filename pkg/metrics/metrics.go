// Package metrics provides Prometheus instrumentation for the
// conversion pipeline: files by outcome status, rows and bytes
// written, and per-file conversion latency.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// FilesConverted counts processed files labeled by status
	// (success or failed).
	FilesConverted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "parquet_converter",
			Name:      "files_total",
			Help:      "Total files processed, labeled by outcome status",
		},
		[]string{"status"},
	)

	// RowsWritten counts rows sunk to Parquet output.
	RowsWritten = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "parquet_converter",
			Name:      "rows_written_total",
			Help:      "Total rows written to Parquet output",
		},
	)

	// BytesWritten counts output bytes on disk.
	BytesWritten = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "parquet_converter",
			Name:      "bytes_written_total",
			Help:      "Total Parquet output bytes",
		},
	)

	// ConversionDuration observes per-file wall-clock time.
	ConversionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "parquet_converter",
			Name:      "conversion_duration_seconds",
			Help:      "Per-file conversion duration",
			Buckets:   prometheus.ExponentialBuckets(0.01, 4, 10),
		},
	)
)

// ObserveFile records the outcome of one file conversion.
func ObserveFile(success bool, rows int64, bytes int64, elapsed time.Duration) {
	status := "success"
	if !success {
		status = "failed"
	}
	FilesConverted.WithLabelValues(status).Inc()
	if rows > 0 {
		RowsWritten.Add(float64(rows))
	}
	if bytes > 0 {
		BytesWritten.Add(float64(bytes))
	}
	ConversionDuration.Observe(elapsed.Seconds())
}
