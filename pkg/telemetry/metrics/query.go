package metrics

import (
	"mercator-hq/querygate/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// QueryMetrics tracks query parameter validation.
//
// Metrics:
//   - querygate_param_validations_total: outcomes by parameter
//   - querygate_injection_detections_total: denylist hits by category
type QueryMetrics struct {
	validationsTotal *prometheus.CounterVec
	injectionsTotal  *prometheus.CounterVec
}

// NewQueryMetrics creates and registers query metrics with the provided registry.
func NewQueryMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *QueryMetrics {
	qm := &QueryMetrics{
		validationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "param_validations_total",
				Help:      "Total number of validated query parameters by outcome",
			},
			[]string{"param", "outcome"},
		),

		injectionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "injection_detections_total",
				Help:      "Total number of rejected inputs matching a forbidden pattern",
			},
			[]string{"category"},
		),
	}

	registry.MustRegister(qm.validationsTotal, qm.injectionsTotal)
	return qm
}

// RecordValidation counts one parameter outcome.
func (qm *QueryMetrics) RecordValidation(param, outcome string) {
	qm.validationsTotal.WithLabelValues(param, outcome).Inc()
}

// RecordInjection counts one denylist hit.
func (qm *QueryMetrics) RecordInjection(category string) {
	qm.injectionsTotal.WithLabelValues(category).Inc()
}
