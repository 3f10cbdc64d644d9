package http

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus instruments for the evaluation service. Each
// Handlers instance carries its own registry so tests never collide on the
// global registerer.
type Metrics struct {
	registry *prometheus.Registry

	EvaluationsTotal   *prometheus.CounterVec
	EvaluationDuration *prometheus.HistogramVec
	CompositeScore     *prometheus.GaugeVec
}

// NewMetrics creates and registers the service metrics.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		EvaluationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reasonscore_evaluations_total",
				Help: "Total evaluation requests by scoring version and outcome",
			},
			[]string{"version", "outcome"},
		),
		EvaluationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "reasonscore_evaluation_duration_seconds",
				Help:    "Duration of the full scoring pipeline in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
			},
			[]string{"version"},
		),
		CompositeScore: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "reasonscore_agent_composite",
				Help: "Latest running composite score per agent and version",
			},
			[]string{"agent", "version"},
		),
	}
	m.registry.MustRegister(m.EvaluationsTotal, m.EvaluationDuration, m.CompositeScore)
	return m
}

// RecordComposite publishes the agent's running composite.
func (m *Metrics) RecordComposite(agent, version string, composite float64) {
	m.CompositeScore.WithLabelValues(agent, version).Set(composite)
}

// RecordEvaluation counts one evaluation request and its latency.
func (m *Metrics) RecordEvaluation(version, outcome string, duration time.Duration) {
	if version == "" {
		version = "default"
	}
	m.EvaluationsTotal.WithLabelValues(version, outcome).Inc()
	m.EvaluationDuration.WithLabelValues(version).Observe(duration.Seconds())
}

// Handler exposes the registry in Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
