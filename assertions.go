package growthbench

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

// AssertionConfig contains thresholds for series-quality assertions.
type AssertionConfig struct {
	// Minimum fraction of steps that must be successes
	MinSuccessRatio float64

	// Upper bound for the final successful duration
	MaxFinalDuration time.Duration
}

// DefaultAssertionConfig returns conservative thresholds.
func DefaultAssertionConfig() AssertionConfig {
	return AssertionConfig{
		MinSuccessRatio:  1.0,         // every step must succeed
		MaxFinalDuration: time.Second, // anything slower is Impractical
	}
}

// AssertAllSuccess verifies a series completed without skips or aborts.
//
// A skipped step means the safety governor rejected an (n, workload) pair;
// either raise the policy limits or shrink the range.
func AssertAllSuccess(t *testing.T, series SeriesResult) {
	t.Helper()

	var failures []string
	for _, m := range series.Measurements {
		if !m.Succeeded() {
			failures = append(failures, fmt.Sprintf("  n=%d: %s %s", m.N, m.Kind, m.Reason))
		}
	}
	if len(failures) > 0 {
		t.Errorf("Series %q has non-success steps:\n%s", series.WorkloadID, strings.Join(failures, "\n"))
		return
	}
	t.Logf("✓ All %d steps succeeded for %q", len(series.Measurements), series.WorkloadID)
}

// AssertAscendingN verifies the measurement sequence is strictly increasing
// in n, the ordering every analyzer pass relies on.
func AssertAscendingN(t *testing.T, series SeriesResult) {
	t.Helper()

	ms := series.Measurements
	for i := 1; i < len(ms); i++ {
		if ms[i].N <= ms[i-1].N {
			t.Errorf("Series %q not ascending at index %d: n=%d after n=%d",
				series.WorkloadID, i, ms[i].N, ms[i-1].N)
		}
	}
}

// AssertSuccessRatio verifies enough of the series survived admission.
func AssertSuccessRatio(t *testing.T, series SeriesResult, cfg AssertionConfig) {
	t.Helper()

	total := len(series.Measurements)
	if total == 0 {
		t.Errorf("Series %q is empty", series.WorkloadID)
		return
	}
	ratio := float64(series.SuccessCount()) / float64(total)
	if ratio < cfg.MinSuccessRatio {
		t.Errorf("Success ratio too low for %q: %.2f (min: %.2f)\n"+
			"The safety governor or cancellation removed too many steps.",
			series.WorkloadID, ratio, cfg.MinSuccessRatio)
		return
	}
	t.Logf("✓ Success ratio %.2f for %q (threshold: %.2f)", ratio, series.WorkloadID, cfg.MinSuccessRatio)
}

// AssertClassification verifies the analyzer buckets a series as expected.
func AssertClassification(t *testing.T, series SeriesResult, want EmpiricalClass) {
	t.Helper()

	analysis, err := Analyze(series)
	if errors.Is(err, ErrInsufficientData) {
		t.Fatalf("Not enough data to classify %q: %v", series.WorkloadID, err)
	}
	if err != nil {
		t.Fatalf("Failed to analyze %q: %v", series.WorkloadID, err)
	}

	if analysis.Class != want {
		t.Errorf("Classified %q as %s, want %s (avg ratio %.2fx over %d pairs)",
			series.WorkloadID, analysis.Class, want, analysis.AverageRatio, len(analysis.Ratios))
		return
	}
	t.Logf("✓ %q classified %s (avg ratio %.2fx)", series.WorkloadID, analysis.Class, analysis.AverageRatio)
}

// AssertRunTerminal verifies a run settled in the expected state.
func AssertRunTerminal(t *testing.T, run *Run, want RunState) {
	t.Helper()

	got := run.State()
	if !got.IsTerminal() {
		t.Fatalf("Run %s still in state %s, want terminal %s", run.ID(), got, want)
	}
	if got != want {
		t.Errorf("Run %s settled as %s, want %s (err: %v)", run.ID(), got, want, run.Err())
	}
}

// AssertSeriesHealthy runs the series assertions with default thresholds.
func AssertSeriesHealthy(t *testing.T, series SeriesResult, want EmpiricalClass) {
	t.Helper()

	cfg := DefaultAssertionConfig()

	t.Run("AllSuccess", func(t *testing.T) {
		AssertAllSuccess(t, series)
	})

	t.Run("AscendingN", func(t *testing.T) {
		AssertAscendingN(t, series)
	})

	t.Run("SuccessRatio", func(t *testing.T) {
		AssertSuccessRatio(t, series, cfg)
	})

	t.Run("Classification", func(t *testing.T) {
		AssertClassification(t, series, want)
	})
}

// PrintSeries outputs a measurement table with step-over-step ratios to the
// test log.
func PrintSeries(t *testing.T, series SeriesResult) {
	t.Helper()

	t.Logf("\n=== Series %s ===", series.WorkloadID)
	t.Logf("  N        Duration      Ratio    Outcome")
	t.Logf("  -------  ------------  -------  -------")

	prev := -1.0
	for _, m := range series.Measurements {
		ratio := "-"
		if m.Succeeded() {
			if prev > 0 {
				ratio = fmt.Sprintf("%.2fx", m.Seconds()/prev)
			}
			prev = m.Seconds()
		} else {
			prev = -1.0
		}
		t.Logf("  %-7d  %12.6f  %-7s  %s", m.N, m.Seconds(), ratio, m.Kind)
	}

	if analysis, err := Analyze(series); err == nil {
		t.Logf("  Average ratio: %.2fx → %s", analysis.AverageRatio, analysis.Class)
	}
}
