package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const phaseLabel = "phase"

// PhaseMetrics records how long benchmark phases take.
type PhaseMetrics struct {
	duration   *prometheus.HistogramVec
	iterations *prometheus.CounterVec
}

// NewPhaseMetrics creates the phase metrics and registers them with reg.
func NewPhaseMetrics(namespace string, reg prometheus.Registerer) (*PhaseMetrics, error) {
	m := &PhaseMetrics{
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "phase_duration_seconds",
			Help:      "The time one iteration of a benchmark phase took.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 16),
		}, []string{phaseLabel}),
		iterations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "phase_iterations_total",
			Help:      "The number of measured iterations per benchmark phase.",
		}, []string{phaseLabel}),
	}
	for _, c := range []prometheus.Collector{m.duration, m.iterations} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// ObservePhase records one measured iteration of phase.
func (m *PhaseMetrics) ObservePhase(phase string, d time.Duration) {
	m.duration.With(prometheus.Labels{phaseLabel: phase}).Observe(d.Seconds())
	m.iterations.With(prometheus.Labels{phaseLabel: phase}).Inc()
}
