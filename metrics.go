package growthbench

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus instrumentation for the batch runner. Metrics register on the
// default registry; expose them with promhttp in the host process.
var (
	measurementsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "growthbench",
		Name:      "measurements_total",
		Help:      "Measurement steps by workload and outcome",
	}, []string{"workload", "outcome"})

	stepDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "growthbench",
		Name:      "step_duration_seconds",
		Help:      "Measured workload execution time per step",
		Buckets:   []float64{0.0001, 0.001, 0.01, 0.1, 0.5, 1, 2.5, 5, 10},
	}, []string{"workload"})

	runsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "growthbench",
		Name:      "runs_total",
		Help:      "Finished runs by terminal state",
	}, []string{"state"})

	runDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "growthbench",
		Name:      "run_duration_seconds",
		Help:      "Wall time from run start to terminal state",
		Buckets:   []float64{0.01, 0.1, 0.5, 1, 5, 15, 60, 300},
	})

	activeRuns = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "growthbench",
		Name:      "active_runs",
		Help:      "Runs currently executing",
	})
)

// recordMeasurement counts a step. Duration is observed for successful
// measurements only; skipped and aborted steps carry no timing.
func recordMeasurement(workloadID string, m Measurement) {
	measurementsTotal.WithLabelValues(workloadID, strings.ToLower(string(m.Kind))).Inc()
	if m.Kind == OutcomeSuccess {
		stepDuration.WithLabelValues(workloadID).Observe(m.Seconds())
	}
}

func recordRunStart() {
	activeRuns.Inc()
}

func recordRunEnd(state RunState, elapsed time.Duration) {
	activeRuns.Dec()
	runsTotal.WithLabelValues(strings.ToLower(string(state))).Inc()
	runDuration.Observe(elapsed.Seconds())
}
