package metrics

import "github.com/prometheus/client_golang/prometheus"

// GenerationMetrics tracks batch order-generation outcomes per run.
type GenerationMetrics struct {
	generated *prometheus.CounterVec
	skipped   *prometheus.CounterVec
	excluded  *prometheus.CounterVec
	failed    *prometheus.CounterVec
	runs      *prometheus.CounterVec
}

// NewGenerationMetrics registers generation counters on the provided registerer.
func NewGenerationMetrics(reg prometheus.Registerer) *GenerationMetrics {
	if reg == nil {
		return &GenerationMetrics{}
	}
	generated := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "generation_orders_generated_total",
		Help: "Orders created by generation runs.",
	}, []string{"trigger"})
	skipped := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "generation_orders_skipped_total",
		Help: "Subscriptions skipped because an order already existed.",
	}, []string{"trigger"})
	excluded := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "generation_orders_excluded_total",
		Help: "Subscriptions excluded by eligibility rules.",
	}, []string{"trigger"})
	failed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "generation_orders_failed_total",
		Help: "Subscriptions that failed during generation.",
	}, []string{"trigger"})
	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "generation_runs_total",
		Help: "Generation runs by outcome.",
	}, []string{"trigger", "outcome"})
	reg.MustRegister(generated, skipped, excluded, failed, runs)
	return &GenerationMetrics{
		generated: generated,
		skipped:   skipped,
		excluded:  excluded,
		failed:    failed,
		runs:      runs,
	}
}

// ObserveRun records the counters for one completed run.
func (g *GenerationMetrics) ObserveRun(trigger, outcome string, generated, skipped, excluded, failed int) {
	if g == nil || g.runs == nil {
		return
	}
	t := normalizeLabel(trigger)
	g.generated.WithLabelValues(t).Add(float64(generated))
	g.skipped.WithLabelValues(t).Add(float64(skipped))
	g.excluded.WithLabelValues(t).Add(float64(excluded))
	g.failed.WithLabelValues(t).Add(float64(failed))
	g.runs.WithLabelValues(t, normalizeLabel(outcome)).Inc()
}
