package metrics

import (
	"time"

	"mercator-hq/querygate/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// ReadMetrics tracks resource reads.
//
// Metrics:
//   - querygate_uri_matches_total: catalog resolution results by resource
//   - querygate_reads_total: completed reads by resource and status
//   - querygate_read_duration_seconds: read latency histogram
//   - querygate_read_rows: rows returned per read
type ReadMetrics struct {
	matchesTotal *prometheus.CounterVec
	readsTotal   *prometheus.CounterVec
	readDuration *prometheus.HistogramVec
	rows         *prometheus.HistogramVec
}

// NewReadMetrics creates and registers read metrics with the provided registry.
func NewReadMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *ReadMetrics {
	rm := &ReadMetrics{
		matchesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "uri_matches_total",
				Help:      "Total number of resource URI resolutions by result",
			},
			[]string{"resource", "result"},
		),

		readsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "reads_total",
				Help:      "Total number of resource reads by status",
			},
			[]string{"resource", "status"},
		),

		// SQLite reads are local; buckets run from 1ms to 5s.
		readDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Name:      "read_duration_seconds",
				Help:      "Duration of resource reads in seconds",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 5},
			},
			[]string{"resource"},
		),

		rows: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Name:      "read_rows",
				Help:      "Number of rows returned per read",
				Buckets:   prometheus.ExponentialBuckets(1, 4, 6), // 1 to 1024
			},
			[]string{"resource"},
		),
	}

	registry.MustRegister(rm.matchesTotal, rm.readsTotal, rm.readDuration, rm.rows)
	return rm
}

// RecordMatch counts one URI resolution.
func (rm *ReadMetrics) RecordMatch(resource, result string) {
	rm.matchesTotal.WithLabelValues(resource, result).Inc()
}

// RecordRead records a completed read. Rows are only observed on success.
func (rm *ReadMetrics) RecordRead(resource, status string, duration time.Duration, rows int) {
	rm.readsTotal.WithLabelValues(resource, status).Inc()
	rm.readDuration.WithLabelValues(resource).Observe(duration.Seconds())
	if status == StatusSuccess {
		rm.rows.WithLabelValues(resource).Observe(float64(rows))
	}
}
