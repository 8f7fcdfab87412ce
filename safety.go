package growthbench

import (
	"fmt"
	"sync"
)

// Default admission limits for the dangerous classes. An exponential
// workload at n=30 is ~10^9 doublings of unit work away from n=0; a
// factorial workload at n=10 enumerates 3,628,800 permutations. Past these
// points a single step stops being interactive.
const (
	maxSafeExponentialN = 30
	maxSafeFactorialN   = 10
)

// SafetyPolicy decides which (workload, n) pairs may run. The engine holds
// one mutable policy; every run snapshots it at start, so toggling safety
// never affects a run already in flight.
type SafetyPolicy struct {
	Enabled  bool                // false admits everything (hard caps excepted)
	MaxSafeN map[DangerClass]int // per-class admission ceiling
}

// DefaultSafetyPolicy returns the enabled policy with the standard limits.
func DefaultSafetyPolicy() SafetyPolicy {
	return SafetyPolicy{
		Enabled: true,
		MaxSafeN: map[DangerClass]int{
			DangerExponential: maxSafeExponentialN,
			DangerFactorial:   maxSafeFactorialN,
		},
	}
}

// Clone returns a deep copy. Snapshotting a run's policy must not alias the
// engine's live map.
func (p SafetyPolicy) Clone() SafetyPolicy {
	out := SafetyPolicy{Enabled: p.Enabled}
	if p.MaxSafeN != nil {
		out.MaxSafeN = make(map[DangerClass]int, len(p.MaxSafeN))
		for class, limit := range p.MaxSafeN {
			out.MaxSafeN[class] = limit
		}
	}
	return out
}

// LimitFor returns the admission ceiling for a class, if one is configured.
func (p SafetyPolicy) LimitFor(class DangerClass) (int, bool) {
	limit, ok := p.MaxSafeN[class]
	return limit, ok
}

// AdmissionType represents the governor's decision.
type AdmissionType string

const (
	AdmitAllow  AdmissionType = "ALLOW"  // proceed to measurement
	AdmitReject AdmissionType = "REJECT" // record a skipped measurement, no timing
)

// Admission is the governor's decision for one (workload, n) pair.
type Admission struct {
	Type       AdmissionType
	Reason     string // rejection reason, empty on allow
	WorkloadID string
	N          int
	Limit      int // the ceiling that applied, 0 when none did
}

// Allowed reports whether the pair may be executed.
func (a Admission) Allowed() bool { return a.Type == AdmitAllow }

// Governor gates workload invocations against a policy snapshot.
//
// Admission is strictly a pre-check, never a timeout: an exponential or
// factorial step cannot be interrupted once started, because the workloads
// have no internal checkpoints. The only protection that works is refusing
// to start the step at all. The exponential workload's iteration cap is the
// one backstop that survives a disabled policy, and it lives in the
// workload itself, not here.
type Governor struct {
	policy SafetyPolicy

	// Decision counters. The run goroutine writes, anyone may read stats
	// mid-run, hence the lock. The policy itself is immutable after
	// construction and needs none.
	mu       sync.Mutex
	admitted int
	rejected int
}

// NewGovernor creates a governor over its own copy of the policy.
func NewGovernor(policy SafetyPolicy) *Governor {
	return &Governor{policy: policy.Clone()}
}

// Admit decides whether the pair may run.
//
// Ladder: disabled policy or a safe class always passes; a dangerous class
// passes while n is within its ceiling; otherwise the pair is rejected with
// the limit spelled out.
func (g *Governor) Admit(w Workload, n int) Admission {
	if !g.policy.Enabled || w.DangerClass == DangerNone {
		g.countAdmit()
		return Admission{Type: AdmitAllow, WorkloadID: w.ID, N: n}
	}

	limit, ok := g.policy.LimitFor(w.DangerClass)
	if !ok || n <= limit {
		g.countAdmit()
		return Admission{Type: AdmitAllow, WorkloadID: w.ID, N: n, Limit: limit}
	}

	g.countReject()
	return Admission{
		Type:       AdmitReject,
		Reason:     fmt.Sprintf("safety limit %d exceeded for %s", limit, w.DangerClass),
		WorkloadID: w.ID,
		N:          n,
		Limit:      limit,
	}
}

// Policy returns a copy of the snapshot this governor enforces.
func (g *Governor) Policy() SafetyPolicy { return g.policy.Clone() }

func (g *Governor) countAdmit() {
	g.mu.Lock()
	g.admitted++
	g.mu.Unlock()
}

func (g *Governor) countReject() {
	g.mu.Lock()
	g.rejected++
	g.mu.Unlock()
}

// GetStatistics returns governor operational stats.
func (g *Governor) GetStatistics() map[string]interface{} {
	g.mu.Lock()
	defer g.mu.Unlock()
	return map[string]interface{}{
		"enabled":  g.policy.Enabled,
		"admitted": g.admitted,
		"rejected": g.rejected,
	}
}
