package growthbench

import (
	"errors"
	"fmt"
)

// ErrUnknownWorkload is returned when a workload id is not in the registry.
var ErrUnknownWorkload = errors.New("unknown workload")

// ErrRecursionBudget is returned by recursive workloads when the requested n
// would exceed their frame budget. The harness records it as a skipped
// measurement, never as a run failure.
var ErrRecursionBudget = errors.New("recursion budget exceeded")

// DangerClass marks workloads whose cost grows too fast to run unguarded.
// The Safety Governor consults it before every invocation.
type DangerClass int

const (
	DangerNone        DangerClass = iota // safe at any admitted n
	DangerExponential                    // cost doubles per unit of n
	DangerFactorial                      // cost multiplies by n per unit of n
)

// String returns the lowercase class name used in admission reasons.
func (d DangerClass) String() string {
	switch d {
	case DangerExponential:
		return "exponential"
	case DangerFactorial:
		return "factorial"
	default:
		return "none"
	}
}

// Workload is a named, pure function under measurement.
//
// Execute must depend only on n and must not share mutable state across
// calls: the engine may invoke it from concurrently running series. The
// returned value is discarded by the harness but the work producing it is
// what gets timed, so implementations must actually perform their counting.
type Workload struct {
	ID          string                   // stable identifier, e.g. "quadratic"
	Label       string                   // complexity label, e.g. "O(n^2)"
	Description string                   // one-line teaching note
	DangerClass DangerClass              // admission category
	Suggested   Range                    // sensible default N-range for this class
	Execute     func(n int) (int, error) // the measured function
}

// Registry is an ordered catalog of workloads. Registration order is
// preserved and defines iteration order everywhere downstream (batch loops,
// listings, rankings on ties).
type Registry struct {
	order []string
	byID  map[string]Workload
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byID: make(map[string]Workload)}
}

// Register adds a workload. The id must be non-empty and unused, and
// Execute must be non-nil.
func (r *Registry) Register(w Workload) error {
	if w.ID == "" {
		return fmt.Errorf("register workload: empty id")
	}
	if w.Execute == nil {
		return fmt.Errorf("register workload %q: nil Execute", w.ID)
	}
	if _, exists := r.byID[w.ID]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateWorkload, w.ID)
	}
	r.order = append(r.order, w.ID)
	r.byID[w.ID] = w
	return nil
}

// Lookup returns the workload registered under id.
func (r *Registry) Lookup(id string) (Workload, error) {
	w, ok := r.byID[id]
	if !ok {
		return Workload{}, fmt.Errorf("%w: %q", ErrUnknownWorkload, id)
	}
	return w, nil
}

// All returns every workload in registration order.
func (r *Registry) All() []Workload {
	out := make([]Workload, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out
}

// Len returns the number of registered workloads.
func (r *Registry) Len() int { return len(r.order) }

// mustRegister panics on registration failure. Catalog entries are static,
// so a failure here is a programming error, not a runtime condition.
func mustRegister(r *Registry, w Workload) {
	if err := r.Register(w); err != nil {
		panic(err)
	}
}

// exponentialIterationCap bounds the exponential workload's loop. The cap
// is algorithmic, not policy: it holds even with safety disabled. Past it
// the workload returns a zero-work result instead of iterating, trading a
// misleading near-zero timing for a bounded wall clock.
const exponentialIterationCap = 100_000_000

// fibDepthBudget bounds the recursive fibonacci workload. Depth grows with
// n, and past roughly a thousand frames the reference behavior is a hard
// recursion failure; here it is a typed error checked before descending.
const fibDepthBudget = 1000

// BuiltinCatalog returns the standard workload set, one canonical
// implementation per complexity class.
func BuiltinCatalog() *Registry {
	r := NewRegistry()
	mustRegister(r, Workload{
		ID:          "constant",
		Label:       "O(1)",
		Description: "Constant time: the same amount of work no matter how large n grows. The gold standard.",
		DangerClass: DangerNone,
		Suggested:   Range{Start: 25000, End: 100000, Step: 25000},
		Execute:     runConstant,
	})
	mustRegister(r, Workload{
		ID:          "logarithmic",
		Label:       "O(log n)",
		Description: "Logarithmic time: doubling n adds only a constant amount of work. Excellent.",
		DangerClass: DangerNone,
		Suggested:   Range{Start: 25000, End: 100000, Step: 25000},
		Execute:     runLogarithmic,
	})
	mustRegister(r, Workload{
		ID:          "linear",
		Label:       "O(n)",
		Description: "Linear time: work grows in direct proportion to n. Fair and predictable.",
		DangerClass: DangerNone,
		Suggested:   Range{Start: 25000, End: 100000, Step: 25000},
		Execute:     runLinear,
	})
	mustRegister(r, Workload{
		ID:          "linearithmic",
		Label:       "O(n log n)",
		Description: "Linearithmic time: slightly steeper than linear, the shape of good sorting algorithms.",
		DangerClass: DangerNone,
		Suggested:   Range{Start: 25000, End: 100000, Step: 25000},
		Execute:     runLinearithmic,
	})
	mustRegister(r, Workload{
		ID:          "quadratic",
		Label:       "O(n^2)",
		Description: "Quadratic time: doubling n quadruples the work. Avoid for large inputs.",
		DangerClass: DangerNone,
		Suggested:   Range{Start: 500, End: 2000, Step: 500},
		Execute:     runQuadratic,
	})
	mustRegister(r, Workload{
		ID:          "exponential",
		Label:       "O(2^n)",
		Description: "Exponential time: the work doubles with every single increment of n. Impractical past n=40.",
		DangerClass: DangerExponential,
		Suggested:   Range{Start: 10, End: 22, Step: 4},
		Execute:     runExponential,
	})
	mustRegister(r, Workload{
		ID:          "factorial",
		Label:       "O(n!)",
		Description: "Factorial time: visits every permutation of n elements. Impractical past n=12.",
		DangerClass: DangerFactorial,
		Suggested:   Range{Start: 4, End: 10, Step: 2},
		Execute:     runFactorial,
	})
	mustRegister(r, Workload{
		ID:          "fibonacci",
		Label:       "O(2^n)",
		Description: "Naive recursive fibonacci: elegant, exponential, and a stack hazard past its frame budget.",
		DangerClass: DangerExponential,
		Suggested:   Range{Start: 10, End: 30, Step: 5},
		Execute:     runFibonacci,
	})
	return r
}

// runConstant does one addition regardless of n.
func runConstant(n int) (int, error) {
	return n + 1, nil
}

// runLogarithmic halves n down to 1, counting the halvings.
func runLogarithmic(n int) (int, error) {
	count := 0
	for v := n; v > 1; v /= 2 {
		count++
	}
	return count, nil
}

// runLinear counts to n.
func runLinear(n int) (int, error) {
	count := 0
	for i := 0; i < n; i++ {
		count++
	}
	return count, nil
}

// runLinearithmic performs n rounds of halving an inner counter from n down
// to 1, counting every halving. Deliberately O(n log n) by construction
// rather than a real sort, so the measured work is pure counting.
func runLinearithmic(n int) (int, error) {
	count := 0
	for i := 0; i < n; i++ {
		for v := n; v > 1; v /= 2 {
			count++
		}
	}
	return count, nil
}

// runQuadratic counts n*n times via two nested loops.
func runQuadratic(n int) (int, error) {
	count := 0
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			count++
		}
	}
	return count, nil
}

// runExponential counts up to 2^n iterations, subject to the hard
// iteration cap. n >= 63 would overflow the target before the cap
// comparison, so it short-circuits first.
func runExponential(n int) (int, error) {
	if n >= 63 {
		return 0, nil
	}
	target := 1 << n
	if target > exponentialIterationCap {
		return 0, nil
	}
	count := 0
	for i := 0; i < target; i++ {
		count++
	}
	return count, nil
}

// runFactorial enumerates all permutations of n elements with Heap's
// algorithm, counting each one. Permuting the empty set yields exactly one
// (empty) permutation.
func runFactorial(n int) (int, error) {
	if n <= 0 {
		return 1, nil
	}
	items := make([]int, n)
	for i := range items {
		items[i] = i
	}
	count := 0
	var permute func(k int)
	permute = func(k int) {
		if k == 1 {
			count++
			return
		}
		for i := 0; i < k; i++ {
			permute(k - 1)
			if k%2 == 0 {
				items[i], items[k-1] = items[k-1], items[i]
			} else {
				items[0], items[k-1] = items[k-1], items[0]
			}
		}
	}
	permute(n)
	return count, nil
}

// runFibonacci computes fibonacci by naive double recursion. Recursion
// depth equals n, so the frame budget is checked up front and reported as
// a typed error instead of letting the stack unwind the hard way.
func runFibonacci(n int) (int, error) {
	if n > fibDepthBudget {
		return 0, fmt.Errorf("fibonacci at n=%d: %w", n, ErrRecursionBudget)
	}
	return naiveFib(n), nil
}

func naiveFib(n int) int {
	if n <= 1 {
		return n
	}
	return naiveFib(n-1) + naiveFib(n-2)
}
