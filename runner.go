package growthbench

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Configuration errors, surfaced synchronously before any run starts. They
// are fatal to the call that produced them, never to the process.
var (
	ErrInvalidRange      = errors.New("invalid range")
	ErrEmptyWorkloadSet  = errors.New("empty workload set")
	ErrDuplicateWorkload = errors.New("duplicate workload")
)

// Range is an inclusive arithmetic progression of input sizes:
// Start, Start+Step, ... up to the last value <= End.
type Range struct {
	Start int `yaml:"start"` // first n, >= 1
	End   int `yaml:"end"`   // inclusive upper bound, > Start
	Step  int `yaml:"step"`  // increment, >= 1
}

// Validate reports whether the progression is well-formed.
func (r Range) Validate() error {
	if r.Start < 1 {
		return fmt.Errorf("%w: start %d < 1", ErrInvalidRange, r.Start)
	}
	if r.End <= r.Start {
		return fmt.Errorf("%w: end %d <= start %d", ErrInvalidRange, r.End, r.Start)
	}
	if r.Step < 1 {
		return fmt.Errorf("%w: step %d < 1", ErrInvalidRange, r.Step)
	}
	return nil
}

// Count returns the number of values in the progression.
func (r Range) Count() int {
	if r.End < r.Start || r.Step < 1 {
		return 0
	}
	return (r.End-r.Start)/r.Step + 1
}

// Values materializes the progression in ascending order.
func (r Range) Values() []int {
	out := make([]int, 0, r.Count())
	for n := r.Start; n <= r.End; n += r.Step {
		out = append(out, n)
	}
	return out
}

// String renders the progression as "start..end/step".
func (r Range) String() string {
	return fmt.Sprintf("%d..%d/%d", r.Start, r.End, r.Step)
}

// RunConfig describes one batch run. It is constructed once, validated by
// StartRun, and immutable for the run's lifetime; rerunning requires a
// fresh config.
type RunConfig struct {
	Workloads    []Workload    // ordered, non-empty, unique ids
	Range        Range         // input sizes, ascending
	StepInterval time.Duration // optional pause between steps, 0 = none
	Policy       *SafetyPolicy // nil = snapshot the engine's policy at start
}

// Validate checks the config without starting anything.
func (c RunConfig) Validate() error {
	if len(c.Workloads) == 0 {
		return ErrEmptyWorkloadSet
	}
	seen := make(map[string]struct{}, len(c.Workloads))
	for _, w := range c.Workloads {
		if w.Execute == nil {
			return fmt.Errorf("workload %q: nil Execute", w.ID)
		}
		if _, dup := seen[w.ID]; dup {
			return fmt.Errorf("%w: %q", ErrDuplicateWorkload, w.ID)
		}
		seen[w.ID] = struct{}{}
	}
	if err := c.Range.Validate(); err != nil {
		return err
	}
	if c.StepInterval < 0 {
		return fmt.Errorf("step interval %v is negative", c.StepInterval)
	}
	return nil
}

// steps returns the total number of (workload, n) pairs the run covers.
func (c RunConfig) steps() int {
	return c.Range.Count() * len(c.Workloads)
}

// StepEvent is one live progress notification: the measurement for a
// single (workload, n) step, emitted the moment the step finishes.
type StepEvent struct {
	RunID       string
	WorkloadID  string
	Measurement Measurement
}

// SeriesResult is the ordered measurement sequence for one workload across
// the run's range. Measurements are strictly increasing in n, at most one
// per configured step. The producing run owns it exclusively until a
// terminal state, after which it is read-only.
type SeriesResult struct {
	WorkloadID   string
	Measurements []Measurement
}

// LastSuccess returns the final successful measurement, if any.
func (s SeriesResult) LastSuccess() (Measurement, bool) {
	for i := len(s.Measurements) - 1; i >= 0; i-- {
		if s.Measurements[i].Succeeded() {
			return s.Measurements[i], true
		}
	}
	return Measurement{}, false
}

// SuccessCount returns the number of successful measurements.
func (s SeriesResult) SuccessCount() int {
	count := 0
	for _, m := range s.Measurements {
		if m.Succeeded() {
			count++
		}
	}
	return count
}

// clone returns an independent copy for publication to callers.
func (s SeriesResult) clone() SeriesResult {
	out := SeriesResult{WorkloadID: s.WorkloadID}
	out.Measurements = make([]Measurement, len(s.Measurements))
	copy(out.Measurements, s.Measurements)
	return out
}

// loop drives the whole batch, then settles the run's terminal state. It
// runs on the run's own goroutine; everything it mutates is either owned
// by that goroutine or guarded by the run's mutex.
func (r *Run) loop(ctx context.Context) {
	state, err := r.iterate(ctx)
	r.finish(state, err)
}

// iterate walks n ascending through the range and, within each n, the
// workloads in registration order. One measurement is recorded and one
// event emitted per step, immediately, so a subscriber sees progress live
// and an abort costs at most one step of latency.
//
// Cancellation is checked before every step (the pacing wait is a second
// checkpoint). An admitted step cannot be interrupted once started: the
// workloads have no internal checkpoints, which is the accepted limit of
// cooperative cancellation here.
func (r *Run) iterate(ctx context.Context) (RunState, error) {
	for _, n := range r.cfg.Range.Values() {
		for _, w := range r.cfg.Workloads {
			if ctx.Err() != nil {
				return RunStateAborted, nil
			}
			if r.limiter != nil {
				if err := r.limiter.Wait(ctx); err != nil {
					return RunStateAborted, nil
				}
			}

			m, err := r.harness.Measure(ctx, w, n)
			if err != nil {
				return RunStateFailed, err
			}

			r.record(w.ID, m)
			r.events <- StepEvent{RunID: r.id, WorkloadID: w.ID, Measurement: m}
			recordMeasurement(w.ID, m)

			if m.Kind == OutcomeAborted {
				return RunStateAborted, nil
			}
		}
	}
	return RunStateCompleted, nil
}

// record appends the measurement to its series. Increasing-n order holds
// by construction; the mutex makes the series safely countable while the
// run is still moving.
func (r *Run) record(workloadID string, m Measurement) {
	r.mu.Lock()
	r.series[workloadID].Measurements = append(r.series[workloadID].Measurements, m)
	r.mu.Unlock()
}
