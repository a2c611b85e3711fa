package metrics

import (
	"mercator-hq/querygate/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// CatalogMetrics tracks the resource catalog.
//
// Metrics:
//   - querygate_catalog_reloads_total: reload attempts by result
//   - querygate_catalog_resources: resources in the active snapshot
type CatalogMetrics struct {
	reloadsTotal *prometheus.CounterVec
	resources    prometheus.Gauge
}

// NewCatalogMetrics creates and registers catalog metrics with the provided registry.
func NewCatalogMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *CatalogMetrics {
	cm := &CatalogMetrics{
		reloadsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "catalog_reloads_total",
				Help:      "Total number of catalog reload attempts by result",
			},
			[]string{"result"},
		),

		resources: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Name:      "catalog_resources",
				Help:      "Number of resources in the active catalog snapshot",
			},
		),
	}

	registry.MustRegister(cm.reloadsTotal, cm.resources)
	return cm
}

// RecordReload counts one reload attempt.
func (cm *CatalogMetrics) RecordReload(result string) {
	cm.reloadsTotal.WithLabelValues(result).Inc()
}

// SetResources sets the active resource count.
func (cm *CatalogMetrics) SetResources(n int) {
	cm.resources.Set(float64(n))
}
