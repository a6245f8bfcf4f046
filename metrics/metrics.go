package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// GenerationMetrics counts generation workflow outcomes. A nil receiver or
// nil collector is a no-op so callers never need to guard.
type GenerationMetrics struct {
	Requests      *prometheus.CounterVec
	ParseOutcomes *prometheus.CounterVec
	ModelDuration prometheus.Histogram
	Reclaimed     prometheus.Counter
}

// NewGenerationMetrics builds the collectors and registers them with reg.
func NewGenerationMetrics(reg prometheus.Registerer) *GenerationMetrics {
	m := &GenerationMetrics{
		Requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "contently_generation_requests_total",
				Help: "Generation requests by outcome",
			},
			[]string{"outcome"},
		),
		ParseOutcomes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "contently_generation_parse_outcomes_total",
				Help: "How model replies were interpreted",
			},
			[]string{"outcome"},
		),
		ModelDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "contently_generation_model_duration_seconds",
				Help:    "Latency of the generative model call",
				Buckets: []float64{1, 2.5, 5, 10, 20, 40, 80, 160},
			},
		),
		Reclaimed: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "contently_generation_reclaimed_total",
				Help: "Posts reverted to draft after being stuck in generating",
			},
		),
	}
	if reg != nil {
		reg.MustRegister(m.Requests, m.ParseOutcomes, m.ModelDuration, m.Reclaimed)
	}
	return m
}

func (m *GenerationMetrics) IncRequest(outcome string) {
	if m == nil || m.Requests == nil {
		return
	}
	m.Requests.WithLabelValues(outcome).Inc()
}

func (m *GenerationMetrics) IncParseOutcome(outcome string) {
	if m == nil || m.ParseOutcomes == nil {
		return
	}
	m.ParseOutcomes.WithLabelValues(outcome).Inc()
}

func (m *GenerationMetrics) ObserveModel(d time.Duration) {
	if m == nil || m.ModelDuration == nil {
		return
	}
	m.ModelDuration.Observe(d.Seconds())
}

func (m *GenerationMetrics) AddReclaimed(n int) {
	if m == nil || m.Reclaimed == nil || n <= 0 {
		return
	}
	m.Reclaimed.Add(float64(n))
}
