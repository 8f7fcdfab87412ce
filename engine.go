package growthbench

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

var (
	// ErrRunActive is returned by StartRun while another run is in flight.
	ErrRunActive = errors.New("run already active")
	// ErrRunNotTerminal is returned when results are requested from a run
	// that has not finished.
	ErrRunNotTerminal = errors.New("run has not reached a terminal state")
)

// RunState is the lifecycle position of a run.
type RunState string

const (
	RunStateIdle      RunState = "IDLE"      // created, not started
	RunStateRunning   RunState = "RUNNING"   // batch loop in progress
	RunStateCompleted RunState = "COMPLETED" // every step executed
	RunStateAborted   RunState = "ABORTED"   // cancelled cooperatively, partial series kept
	RunStateFailed    RunState = "FAILED"    // unexpected error, see Run.Err
)

// IsTerminal reports whether the state is final.
func (s RunState) IsTerminal() bool {
	switch s {
	case RunStateCompleted, RunStateAborted, RunStateFailed:
		return true
	}
	return false
}

// runTransitions is the legal lifecycle graph. Terminal states have no
// successors, which is what makes Cancel after completion a no-op.
var runTransitions = map[RunState][]RunState{
	RunStateIdle:    {RunStateRunning},
	RunStateRunning: {RunStateCompleted, RunStateAborted, RunStateFailed},
}

// CanTransitionTo reports whether next is a legal successor of s.
func (s RunState) CanTransitionTo(next RunState) bool {
	for _, allowed := range runTransitions[s] {
		if next == allowed {
			return true
		}
	}
	return false
}

// WorkloadInfo is the listing view of a catalog entry, enough for a
// selection UI without handing out the function itself.
type WorkloadInfo struct {
	ID          string
	Label       string
	Description string
	DangerClass DangerClass
	Suggested   Range
}

// EngineConfig configures an Engine. Zero value works: nil fields fall
// back to the built-in catalog, the default safety policy, and
// slog.Default().
type EngineConfig struct {
	Registry *Registry
	Policy   *SafetyPolicy
	Logger   *slog.Logger
}

// Engine is the benchmarking facade. It owns the workload registry and the
// current safety policy, and enforces the one-active-run rule. All methods
// are safe for concurrent use.
type Engine struct {
	registry *Registry
	log      *slog.Logger

	mu     sync.Mutex
	policy SafetyPolicy
	active *Run
}

// NewEngine builds an engine from the config.
func NewEngine(cfg EngineConfig) *Engine {
	reg := cfg.Registry
	if reg == nil {
		reg = BuiltinCatalog()
	}
	policy := DefaultSafetyPolicy()
	if cfg.Policy != nil {
		policy = cfg.Policy.Clone()
	}
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Engine{registry: reg, log: log, policy: policy}
}

// Registry exposes the engine's workload catalog.
func (e *Engine) Registry() *Registry { return e.registry }

// ListWorkloads returns the catalog in registration order.
func (e *Engine) ListWorkloads() []WorkloadInfo {
	all := e.registry.All()
	out := make([]WorkloadInfo, 0, len(all))
	for _, w := range all {
		out = append(out, WorkloadInfo{
			ID:          w.ID,
			Label:       w.Label,
			Description: w.Description,
			DangerClass: w.DangerClass,
			Suggested:   w.Suggested,
		})
	}
	return out
}

// GetSafetyPolicy returns a copy of the current policy.
func (e *Engine) GetSafetyPolicy() SafetyPolicy {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.policy.Clone()
}

// SetSafetyEnabled toggles the policy for future runs. A run already in
// flight keeps the snapshot it started with.
func (e *Engine) SetSafetyEnabled(enabled bool) {
	e.mu.Lock()
	e.policy.Enabled = enabled
	e.mu.Unlock()
	e.log.Info("safety policy updated", "enabled", enabled)
}

// StartRun validates the config, snapshots the safety policy, and launches
// the batch on its own goroutine. The returned handle is how callers
// subscribe, cancel, and later fetch series, classifications, and the
// ranking.
//
// Only one run may be active per engine; a second StartRun fails with
// ErrRunActive until the first reaches a terminal state. The run also
// stops if ctx is cancelled.
func (e *Engine) StartRun(ctx context.Context, cfg RunConfig) (*Run, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	e.mu.Lock()
	if e.active != nil && !e.active.State().IsTerminal() {
		id := e.active.ID()
		e.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrRunActive, id)
	}
	policy := e.policy.Clone()
	if cfg.Policy != nil {
		policy = cfg.Policy.Clone()
	}
	run := newRun(cfg, policy, e.log, e.release)
	e.active = run
	e.mu.Unlock()

	run.start(ctx)
	return run, nil
}

// ActiveRun returns the run currently holding the active slot, or nil.
func (e *Engine) ActiveRun() *Run {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.active
}

// release frees the active slot once a run settles.
func (e *Engine) release(r *Run) {
	e.mu.Lock()
	if e.active == r {
		e.active = nil
	}
	e.mu.Unlock()
}

// Run is the handle for one batch run. A handle is single-use: it is
// created by StartRun, moves through Running to exactly one terminal
// state, and cannot be restarted.
type Run struct {
	id     string
	cfg    RunConfig
	policy SafetyPolicy
	env    Environment
	log    *slog.Logger

	governor *Governor
	harness  *Harness
	limiter  *rate.Limiter

	cancel context.CancelFunc
	events chan StepEvent
	done   chan struct{}
	onDone func(*Run)

	mu         sync.Mutex
	state      RunState
	err        error
	startedAt  time.Time
	finishedAt time.Time
	series     map[string]*SeriesResult
	order      []string
}

// newRun wires a run from a validated config and a policy snapshot. The
// event channel is sized to the full step count so emission never blocks
// on a slow or absent subscriber.
func newRun(cfg RunConfig, policy SafetyPolicy, log *slog.Logger, onDone func(*Run)) *Run {
	id := "run_" + uuid.New().String()[:8]
	governor := NewGovernor(policy)
	runLog := log.With("run", id)

	r := &Run{
		id:       id,
		cfg:      cfg,
		policy:   policy,
		log:      runLog,
		governor: governor,
		harness:  NewHarness(governor, runLog),
		events:   make(chan StepEvent, cfg.steps()),
		done:     make(chan struct{}),
		onDone:   onDone,
		state:    RunStateIdle,
		series:   make(map[string]*SeriesResult, len(cfg.Workloads)),
	}
	if cfg.StepInterval > 0 {
		r.limiter = rate.NewLimiter(rate.Every(cfg.StepInterval), 1)
	}
	for _, w := range cfg.Workloads {
		r.order = append(r.order, w.ID)
		r.series[w.ID] = &SeriesResult{WorkloadID: w.ID}
	}
	return r
}

// start transitions to Running and launches the batch goroutine.
func (r *Run) start(ctx context.Context) {
	runCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.env = CaptureEnvironment()

	r.mu.Lock()
	r.startedAt = time.Now()
	r.setStateLocked(RunStateRunning)
	r.mu.Unlock()

	r.log.Info("run started",
		"workloads", r.order,
		"range", r.cfg.Range.String(),
		"safety", r.policy.Enabled,
		"pacing", r.cfg.StepInterval,
		"env", r.env,
	)
	recordRunStart()

	go r.loop(runCtx)
}

// finish settles the terminal state, publishes it, and releases the
// engine's active slot. State is set before the channels close, so a
// subscriber that drains to the end always observes a terminal state.
func (r *Run) finish(state RunState, err error) {
	r.mu.Lock()
	r.err = err
	r.finishedAt = time.Now()
	r.setStateLocked(state)
	elapsed := r.finishedAt.Sub(r.startedAt)
	steps := 0
	for _, s := range r.series {
		steps += len(s.Measurements)
	}
	r.mu.Unlock()

	switch state {
	case RunStateFailed:
		r.log.Error("run failed", "error", err, "steps", steps, "elapsed", elapsed)
	default:
		r.log.Info("run finished", "state", state, "steps", steps, "elapsed", elapsed)
	}
	recordRunEnd(state, elapsed)

	if r.onDone != nil {
		r.onDone(r)
	}
	close(r.events)
	close(r.done)
}

// setStateLocked applies a lifecycle transition. Illegal transitions are
// dropped; with terminal states having no successors this is what makes
// settling a state final.
func (r *Run) setStateLocked(next RunState) {
	if !r.state.CanTransitionTo(next) {
		return
	}
	r.state = next
}

// ID returns the run's unique id.
func (r *Run) ID() string { return r.id }

// State returns the current lifecycle state.
func (r *Run) State() RunState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Err returns the failure cause after a Failed terminal state, nil
// otherwise.
func (r *Run) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

// Policy returns the safety snapshot this run executes under.
func (r *Run) Policy() SafetyPolicy { return r.policy.Clone() }

// Environment returns the process environment captured at start.
func (r *Run) Environment() Environment { return r.env }

// Duration returns the wall time from start to terminal state, or zero
// while the run is still moving.
func (r *Run) Duration() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.state.IsTerminal() {
		return 0
	}
	return r.finishedAt.Sub(r.startedAt)
}

// Events subscribes to the run's step stream: one event per (workload, n)
// step, in execution order, closed at the terminal state. The stream is
// buffered for the whole run, so subscribing late replays what was missed;
// concurrent subscribers split the stream between them.
func (r *Run) Events() <-chan StepEvent { return r.events }

// Done returns a channel closed when the run reaches a terminal state.
func (r *Run) Done() <-chan struct{} { return r.done }

// Cancel requests cooperative cancellation. The batch stops at the next
// step boundary and settles as Aborted, keeping every measurement taken so
// far. Idempotent, and a no-op once the run has terminated.
func (r *Run) Cancel() {
	r.cancel()
}

// Wait blocks until the run settles or ctx expires. It returns the run's
// failure cause, if any.
func (r *Run) Wait(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-r.done:
		return r.Err()
	}
}

// requireTerminal gates result access on the lifecycle.
func (r *Run) requireTerminal() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.state.IsTerminal() {
		return fmt.Errorf("%w: %s", ErrRunNotTerminal, r.state)
	}
	return nil
}

// Series returns the measurement series for one workload. Available only
// after the run reaches a terminal state.
func (r *Run) Series(workloadID string) (SeriesResult, error) {
	if err := r.requireTerminal(); err != nil {
		return SeriesResult{}, err
	}
	s, ok := r.series[workloadID]
	if !ok {
		return SeriesResult{}, fmt.Errorf("%w: %q", ErrUnknownWorkload, workloadID)
	}
	return s.clone(), nil
}

// Results returns every series in workload registration order. Available
// only after the run reaches a terminal state.
func (r *Run) Results() ([]SeriesResult, error) {
	if err := r.requireTerminal(); err != nil {
		return nil, err
	}
	out := make([]SeriesResult, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.series[id].clone())
	}
	return out, nil
}

// Classification runs the growth analyzer over one workload's series.
// Available only after a terminal state; insufficient usable pairs yield
// ErrInsufficientData.
func (r *Run) Classification(workloadID string) (EmpiricalClass, error) {
	series, err := r.Series(workloadID)
	if err != nil {
		return "", err
	}
	return Classify(series)
}

// Classifications analyzes every series concurrently and returns the
// classes keyed by workload id. Series without enough usable pairs are
// omitted. Available only after a terminal state.
func (r *Run) Classifications(ctx context.Context) (map[string]EmpiricalClass, error) {
	results, err := r.Results()
	if err != nil {
		return nil, err
	}
	return ClassifyAll(ctx, results)
}

// Ranking orders the workloads by their final successful durations and
// attaches verdicts. Available only after a terminal state.
func (r *Run) Ranking() ([]RankedEntry, error) {
	results, err := r.Results()
	if err != nil {
		return nil, err
	}
	return Rank(results), nil
}

// Statistics returns run-level operational stats, governor decisions
// included.
func (r *Run) Statistics() map[string]interface{} {
	stats := r.governor.GetStatistics()
	r.mu.Lock()
	defer r.mu.Unlock()
	steps := 0
	for _, s := range r.series {
		steps += len(s.Measurements)
	}
	stats["run_id"] = r.id
	stats["state"] = string(r.state)
	stats["steps_recorded"] = steps
	stats["steps_planned"] = r.cfg.steps()
	return stats
}
