package api

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels for the generation counter.
const (
	outcomeSuccess         = "success"
	outcomeInvalidRequest  = "invalid_request"
	outcomeUpstreamTimeout = "upstream_timeout"
	outcomeUpstreamError   = "upstream_error"
	outcomeNoJSON          = "no_json_found"
	outcomeMalformedJSON   = "malformed_json"
	outcomeIncomplete      = "incomplete_result"
)

// Metrics tracks generation outcomes and upstream call latency.
type Metrics struct {
	generations *prometheus.CounterVec
	duration    prometheus.Histogram
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		generations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "webgen_generations_total",
			Help: "Website generation requests by outcome.",
		}, []string{"outcome"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "webgen_model_call_duration_seconds",
			Help:    "Wall time of the upstream model call.",
			Buckets: []float64{0.5, 1, 2, 5, 10, 15, 20, 30},
		}),
	}
	reg.MustRegister(m.generations, m.duration)
	return m
}

func (m *Metrics) observe(outcome string, seconds float64) {
	m.generations.WithLabelValues(outcome).Inc()
	if seconds > 0 {
		m.duration.Observe(seconds)
	}
}
