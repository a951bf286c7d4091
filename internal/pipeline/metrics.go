package pipeline

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts the artifacts of compilation passes. Each Metrics owns its
// registry so passes in one process never share series.
type Metrics struct {
	registry *prometheus.Registry

	derivations  *prometheus.CounterVec
	dispatches   prometheus.Counter
	decisions    *prometheus.CounterVec
	objects      *prometheus.CounterVec
	unitDuration prometheus.Histogram
}

// NewMetrics creates metrics on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Metrics{
		registry: reg,
		derivations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "megac_derivations_total",
			Help: "Derivations solved, by policy kind and outcome",
		}, []string{"kind", "outcome"}),
		dispatches: f.NewCounter(prometheus.CounterOpts{
			Name: "megac_event_dispatches_total",
			Help: "Event dispatch chains built for interupts",
		}),
		decisions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "megac_decisions_total",
			Help: "Decision procedures compiled, by result",
		}, []string{"result"}),
		objects: f.NewCounterVec(prometheus.CounterOpts{
			Name: "megac_objects_total",
			Help: "Objects compiled, by status",
		}, []string{"status"}),
		unitDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "megac_object_compile_duration_seconds",
			Help:    "Time to compile one object",
			Buckets: []float64{0.0001, 0.001, 0.01, 0.1, 1},
		}),
	}
}

// Registry returns the registry holding the pass metrics.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// WriteToTextfile writes the metrics in the text exposition format, for the
// node exporter textfile collector.
func (m *Metrics) WriteToTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("writing metrics to %s: %w", path, err)
	}
	return nil
}

// The observe helpers accept a nil receiver so the pipeline can run without
// metrics.

func (m *Metrics) observeDerivation(kind, outcome string) {
	if m != nil {
		m.derivations.WithLabelValues(kind, outcome).Inc()
	}
}

func (m *Metrics) observeDispatches(n int) {
	if m != nil {
		m.dispatches.Add(float64(n))
	}
}

func (m *Metrics) observeDecision(result string) {
	if m != nil {
		m.decisions.WithLabelValues(result).Inc()
	}
}

func (m *Metrics) observeObject(status string, seconds float64) {
	if m != nil {
		m.objects.WithLabelValues(status).Inc()
		m.unitDuration.Observe(seconds)
	}
}
