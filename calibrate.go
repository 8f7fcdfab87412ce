package growthbench

import (
	"context"
	"fmt"
	"time"
)

// defaultProbeBudget bounds a single calibration probe when the caller
// passes no budget.
const defaultProbeBudget = 500 * time.Millisecond

// SuggestRange trial-runs a workload at the top of its suggested range and
// shrinks the range until one step fits the budget. It is a pre-flight for
// interactive use: a machine where the linear workload crawls gets a
// smaller range instead of a stalled run.
//
// The probe goes through a Harness under the given policy, so safety
// rejections shrink the range the same way slow probes do. The range never
// shrinks below one step past Start. Probes execute the workload for real;
// expect SuggestRange itself to cost up to a few budgets of wall time.
func SuggestRange(ctx context.Context, w Workload, policy SafetyPolicy, budget time.Duration) (Range, error) {
	if budget <= 0 {
		budget = defaultProbeBudget
	}
	r := w.Suggested
	if err := r.Validate(); err != nil {
		return Range{}, fmt.Errorf("workload %q has no usable suggested range: %w", w.ID, err)
	}

	governor := NewGovernor(policy)
	harness := NewHarness(governor, nil)

	for {
		m, err := harness.Measure(ctx, w, r.End)
		if err != nil {
			return Range{}, err
		}
		if m.Kind == OutcomeAborted {
			return r, ctx.Err()
		}
		if m.Kind == OutcomeSuccess && m.Duration <= budget {
			return r, nil
		}

		shrunk, ok := r.halved()
		if !ok {
			// already minimal, take it as-is
			return r, nil
		}
		r = shrunk
	}
}

// halved returns the range with its span halved, end aligned down to the
// step grid. ok is false once the range is a single step and cannot shrink
// further.
func (r Range) halved() (Range, bool) {
	span := (r.End - r.Start) / 2
	span = span / r.Step * r.Step
	if span < r.Step {
		if r.End-r.Start <= r.Step {
			return r, false
		}
		span = r.Step
	}
	return Range{Start: r.Start, End: r.Start + span, Step: r.Step}, true
}
