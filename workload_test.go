package growthbench

import (
	"errors"
	"testing"
)

// TestBuiltinCatalog_Composition verifies the catalog's ids, order, and
// danger classes.
func TestBuiltinCatalog_Composition(t *testing.T) {
	reg := BuiltinCatalog()

	wantOrder := []string{
		"constant", "logarithmic", "linear", "linearithmic",
		"quadratic", "exponential", "factorial", "fibonacci",
	}
	all := reg.All()
	if len(all) != len(wantOrder) {
		t.Fatalf("Expected %d workloads, got %d", len(wantOrder), len(all))
	}
	for i, w := range all {
		if w.ID != wantOrder[i] {
			t.Errorf("Position %d: expected %q, got %q", i, wantOrder[i], w.ID)
		}
	}

	wantDanger := map[string]DangerClass{
		"constant":     DangerNone,
		"logarithmic":  DangerNone,
		"linear":       DangerNone,
		"linearithmic": DangerNone,
		"quadratic":    DangerNone,
		"exponential":  DangerExponential,
		"factorial":    DangerFactorial,
		"fibonacci":    DangerExponential,
	}
	for id, want := range wantDanger {
		w, err := reg.Lookup(id)
		if err != nil {
			t.Fatalf("Lookup(%q) failed: %v", id, err)
		}
		if w.DangerClass != want {
			t.Errorf("%s: expected danger class %s, got %s", id, want, w.DangerClass)
		}
		if err := w.Suggested.Validate(); err != nil {
			t.Errorf("%s: suggested range invalid: %v", id, err)
		}
	}
}

func TestRegistry_LookupUnknown(t *testing.T) {
	reg := BuiltinCatalog()

	_, err := reg.Lookup("bogosort")
	if !errors.Is(err, ErrUnknownWorkload) {
		t.Errorf("Expected ErrUnknownWorkload, got %v", err)
	}
}

func TestRegistry_Register(t *testing.T) {
	reg := NewRegistry()

	ok := Workload{ID: "noop", Execute: func(n int) (int, error) { return n, nil }}
	if err := reg.Register(ok); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if err := reg.Register(ok); !errors.Is(err, ErrDuplicateWorkload) {
		t.Errorf("Expected ErrDuplicateWorkload, got %v", err)
	}

	if err := reg.Register(Workload{Execute: ok.Execute}); err == nil {
		t.Error("Expected error for empty id, got nil")
	}

	if err := reg.Register(Workload{ID: "nilexec"}); err == nil {
		t.Error("Expected error for nil Execute, got nil")
	}

	if reg.Len() != 1 {
		t.Errorf("Expected 1 registered workload, got %d", reg.Len())
	}
}

// TestWorkload_Counts verifies each implementation performs exactly the
// amount of work its complexity class implies, via the returned counters.
func TestWorkload_Counts(t *testing.T) {
	tests := []struct {
		workload string
		n        int
		expected int
	}{
		{"constant", 0, 1},
		{"constant", 41, 42},
		{"constant", 100000, 100001},
		{"logarithmic", 1, 0},
		{"logarithmic", 2, 1},
		{"logarithmic", 8, 3},
		{"logarithmic", 1000, 9},
		{"logarithmic", 1024, 10},
		{"linear", 1, 1},
		{"linear", 1000, 1000},
		{"linearithmic", 1, 0},
		{"linearithmic", 4, 8},    // 4 rounds x 2 halvings
		{"linearithmic", 8, 24},   // 8 rounds x 3 halvings
		{"linearithmic", 16, 64},  // 16 rounds x 4 halvings
		{"quadratic", 1, 1},
		{"quadratic", 12, 144},
		{"quadratic", 100, 10000},
		{"exponential", 1, 2},
		{"exponential", 10, 1024},
		{"exponential", 20, 1048576},
		{"factorial", 0, 1},
		{"factorial", 1, 1},
		{"factorial", 3, 6},
		{"factorial", 5, 120},
		{"factorial", 6, 720},
		{"fibonacci", 0, 0},
		{"fibonacci", 1, 1},
		{"fibonacci", 7, 13},
		{"fibonacci", 10, 55},
	}

	reg := BuiltinCatalog()
	for _, tt := range tests {
		w, err := reg.Lookup(tt.workload)
		if err != nil {
			t.Fatalf("Lookup(%q) failed: %v", tt.workload, err)
		}
		got, err := w.Execute(tt.n)
		if err != nil {
			t.Fatalf("%s(%d) failed: %v", tt.workload, tt.n, err)
		}
		if got != tt.expected {
			t.Errorf("%s(%d): expected %d, got %d", tt.workload, tt.n, tt.expected, got)
		}
	}
}

// TestWorkload_ExponentialHardCap verifies the iteration cap short-circuits
// instead of hanging, including the n values whose 2^n would overflow.
func TestWorkload_ExponentialHardCap(t *testing.T) {
	tests := []struct {
		name string
		n    int
	}{
		{"Just past the cap", 27}, // 2^27 > 100,000,000
		{"Far past the cap", 40},
		{"Shift overflow boundary", 63},
		{"Beyond word size", 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := runExponential(tt.n)
			if err != nil {
				t.Fatalf("runExponential(%d) failed: %v", tt.n, err)
			}
			if got != 0 {
				t.Errorf("Expected zero-work result at n=%d, got %d", tt.n, got)
			}
		})
	}

	// 2^26 is the largest power of two under the cap and must still iterate
	got, err := runExponential(26)
	if err != nil {
		t.Fatalf("runExponential(26) failed: %v", err)
	}
	if got != 1<<26 {
		t.Errorf("Expected %d iterations at n=26, got %d", 1<<26, got)
	}
}

func TestWorkload_FibonacciRecursionBudget(t *testing.T) {
	_, err := runFibonacci(fibDepthBudget + 1)
	if !errors.Is(err, ErrRecursionBudget) {
		t.Errorf("Expected ErrRecursionBudget, got %v", err)
	}

	// at the budget boundary the guard must not trip; use a small n for the
	// actual computation since naive fibonacci at 1000 would never finish
	if _, err := runFibonacci(20); err != nil {
		t.Errorf("Expected no error at n=20, got %v", err)
	}
}

func TestDangerClass_String(t *testing.T) {
	tests := []struct {
		class    DangerClass
		expected string
	}{
		{DangerNone, "none"},
		{DangerExponential, "exponential"},
		{DangerFactorial, "factorial"},
	}

	for _, tt := range tests {
		if got := tt.class.String(); got != tt.expected {
			t.Errorf("Expected %q, got %q", tt.expected, got)
		}
	}
}
