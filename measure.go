package growthbench

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// sink receives every workload result. Routing the discarded values through
// a package-level variable keeps the compiler from proving the calls dead
// and eliding the counting work the harness exists to time.
var sink int

// skipReasonRecursion is the recorded reason when a workload refuses to
// recurse past its frame budget.
const skipReasonRecursion = "recursion limit"

// OutcomeKind classifies a single measurement.
type OutcomeKind string

const (
	OutcomeSuccess OutcomeKind = "SUCCESS" // timed to normal completion
	OutcomeSkipped OutcomeKind = "SKIPPED" // refused before or during invocation, no duration
	OutcomeAborted OutcomeKind = "ABORTED" // cancellation observed at this step
)

// Measurement is the result of one (workload, n) step. Exactly one is
// produced per step, appended in increasing-n order, and never revised.
type Measurement struct {
	N        int
	Kind     OutcomeKind
	Duration time.Duration // meaningful only for SUCCESS
	Reason   string        // meaningful only for SKIPPED
}

// Succeeded reports whether the step was timed to completion.
func (m Measurement) Succeeded() bool { return m.Kind == OutcomeSuccess }

// Seconds returns the measured duration in seconds.
func (m Measurement) Seconds() float64 { return m.Duration.Seconds() }

// Harness executes and times one workload call, converting every expected
// failure mode into a typed outcome. Durations come from time.Now/Since,
// which read the monotonic clock, so a wall-clock adjustment mid-run cannot
// corrupt a measurement.
type Harness struct {
	governor *Governor
	log      *slog.Logger
}

// NewHarness returns a harness gated by the given governor. A nil logger
// falls back to slog.Default().
func NewHarness(g *Governor, log *slog.Logger) *Harness {
	if log == nil {
		log = slog.Default()
	}
	return &Harness{governor: g, log: log}
}

// Measure produces the measurement for one (workload, n) pair.
//
// Pipeline: admission first (a rejection becomes SKIPPED and nothing is
// invoked or timed), then a cancellation check (an already-cancelled
// context becomes ABORTED), then the timed call. A recursion-budget error
// from the workload becomes SKIPPED with the "recursion limit" reason.
//
// Any other workload error is unexpected: it is returned with the workload
// id, n, and cause attached, and the caller treats it as fatal to the run.
func (h *Harness) Measure(ctx context.Context, w Workload, n int) (Measurement, error) {
	if adm := h.governor.Admit(w, n); !adm.Allowed() {
		h.log.Debug("step skipped", "workload", w.ID, "n", n, "reason", adm.Reason)
		return Measurement{N: n, Kind: OutcomeSkipped, Reason: adm.Reason}, nil
	}

	if ctx.Err() != nil {
		return Measurement{N: n, Kind: OutcomeAborted}, nil
	}

	start := time.Now()
	v, err := w.Execute(n)
	elapsed := time.Since(start)
	sink = v

	if err != nil {
		if errors.Is(err, ErrRecursionBudget) {
			h.log.Debug("step skipped", "workload", w.ID, "n", n, "reason", skipReasonRecursion)
			return Measurement{N: n, Kind: OutcomeSkipped, Reason: skipReasonRecursion}, nil
		}
		return Measurement{}, fmt.Errorf("workload %q at n=%d: %w", w.ID, n, err)
	}

	h.log.Debug("step measured", "workload", w.ID, "n", n, "duration", elapsed)
	return Measurement{N: n, Kind: OutcomeSuccess, Duration: elapsed}, nil
}
