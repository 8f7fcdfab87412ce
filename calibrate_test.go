package growthbench

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuggestRange_FastWorkloadKeepsRange(t *testing.T) {
	reg := BuiltinCatalog()
	constant, err := reg.Lookup("constant")
	require.NoError(t, err)

	r, err := SuggestRange(context.Background(), constant, DefaultSafetyPolicy(), 100*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, constant.Suggested, r, "an instant workload keeps its full range")
}

// TestSuggestRange_SlowWorkloadShrinks calibrates a workload that sleeps
// proportionally to n, so the probe durations are predictable.
func TestSuggestRange_SlowWorkloadShrinks(t *testing.T) {
	sleepy := Workload{
		ID:        "sleepy",
		Suggested: Range{Start: 100, End: 800, Step: 100},
		Execute: func(n int) (int, error) {
			time.Sleep(time.Duration(n) * 100 * time.Microsecond)
			return n, nil
		},
	}

	// n=800 sleeps 80ms, over budget; n=400 sleeps 40ms, under
	r, err := SuggestRange(context.Background(), sleepy, DefaultSafetyPolicy(), 60*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, Range{Start: 100, End: 400, Step: 100}, r)
}

// TestSuggestRange_FloorsAtOneStep verifies a hopelessly slow workload
// still gets a minimal valid range rather than nothing.
func TestSuggestRange_FloorsAtOneStep(t *testing.T) {
	molasses := Workload{
		ID:        "molasses",
		Suggested: Range{Start: 10, End: 40, Step: 10},
		Execute: func(n int) (int, error) {
			time.Sleep(30 * time.Millisecond)
			return n, nil
		},
	}

	r, err := SuggestRange(context.Background(), molasses, DefaultSafetyPolicy(), time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, Range{Start: 10, End: 20, Step: 10}, r, "range floors at one step past Start")
}

// TestSuggestRange_SafetyRejectionShrinks verifies a probe the governor
// refuses shrinks the range the same way a slow probe does.
func TestSuggestRange_SafetyRejectionShrinks(t *testing.T) {
	governed := Workload{
		ID:          "governed",
		DangerClass: DangerFactorial,
		Suggested:   Range{Start: 8, End: 14, Step: 2},
		Execute:     func(n int) (int, error) { return n, nil },
	}

	// default factorial ceiling is 10: the probe at n=14 is rejected, the
	// halved range ends at n=10 and that probe runs
	r, err := SuggestRange(context.Background(), governed, DefaultSafetyPolicy(), 100*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, Range{Start: 8, End: 10, Step: 2}, r)
}

func TestSuggestRange_CancelledContext(t *testing.T) {
	reg := BuiltinCatalog()
	linear, err := reg.Lookup("linear")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = SuggestRange(ctx, linear, DefaultSafetyPolicy(), time.Second)
	require.ErrorIs(t, err, context.Canceled)
}

func TestRange_Halved(t *testing.T) {
	tests := []struct {
		name     string
		in       Range
		expected Range
		ok       bool
	}{
		{"Halves on the grid", Range{Start: 100, End: 800, Step: 100}, Range{Start: 100, End: 400, Step: 100}, true},
		{"Aligns down to grid", Range{Start: 25000, End: 100000, Step: 25000}, Range{Start: 25000, End: 50000, Step: 25000}, true},
		{"Aligns to one step", Range{Start: 10, End: 40, Step: 10}, Range{Start: 10, End: 20, Step: 10}, true},
		{"Bumps up to one step", Range{Start: 10, End: 25, Step: 10}, Range{Start: 10, End: 20, Step: 10}, true},
		{"Single step cannot shrink", Range{Start: 100, End: 200, Step: 100}, Range{Start: 100, End: 200, Step: 100}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.in.halved()
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, got)
		})
	}
}
