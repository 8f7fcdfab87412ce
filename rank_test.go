package growthbench

import (
	"testing"
	"time"
)

// TestVerdictFor_Boundaries pins the bucket edges. Thresholds are strict
// upper bounds, so a duration exactly on an edge falls into the next bucket.
func TestVerdictFor_Boundaries(t *testing.T) {
	tests := []struct {
		d        time.Duration
		expected Verdict
	}{
		{0, VerdictInstant},
		{500 * time.Microsecond, VerdictInstant},
		{999 * time.Microsecond, VerdictInstant},
		{time.Millisecond, VerdictFast},
		{50 * time.Millisecond, VerdictFast},
		{100 * time.Millisecond, VerdictSluggish},
		{999 * time.Millisecond, VerdictSluggish},
		{time.Second, VerdictImpractical},
		{time.Minute, VerdictImpractical},
	}

	for _, tt := range tests {
		if got := VerdictFor(tt.d); got != tt.expected {
			t.Errorf("VerdictFor(%v): expected %s, got %s", tt.d, tt.expected, got)
		}
	}
}

// seriesWithFinal builds a two-step series whose last success has the given
// n and duration.
func seriesWithFinal(id string, n int, d time.Duration) SeriesResult {
	return SeriesResult{
		WorkloadID: id,
		Measurements: []Measurement{
			{N: n / 2, Kind: OutcomeSuccess, Duration: d / 2},
			{N: n, Kind: OutcomeSuccess, Duration: d},
		},
	}
}

func TestRank_OrdersByFinalDuration(t *testing.T) {
	results := []SeriesResult{
		seriesWithFinal("quadratic", 2000, 80*time.Millisecond),
		seriesWithFinal("linear", 2000, 20*time.Millisecond),
		seriesWithFinal("constant", 2000, 800*time.Nanosecond),
	}

	ranking := Rank(results)
	if len(ranking) != 3 {
		t.Fatalf("Expected 3 entries, got %d", len(ranking))
	}

	wantOrder := []string{"constant", "linear", "quadratic"}
	for i, want := range wantOrder {
		if ranking[i].WorkloadID != want {
			t.Errorf("Position %d: expected %s, got %s", i, want, ranking[i].WorkloadID)
		}
	}

	if ranking[0].Verdict != VerdictInstant {
		t.Errorf("Expected INSTANT for constant, got %s", ranking[0].Verdict)
	}
	if ranking[2].FinalN != 2000 {
		t.Errorf("Expected finalN=2000, got %d", ranking[2].FinalN)
	}
}

// TestRank_NoDataTrailing verifies series with no successful step rank
// last with the NO_DATA marker instead of being dropped or crashing.
func TestRank_NoDataTrailing(t *testing.T) {
	allSkipped := SeriesResult{
		WorkloadID: "factorial",
		Measurements: []Measurement{
			{N: 11, Kind: OutcomeSkipped, Reason: "safety limit 10 exceeded for factorial"},
			{N: 12, Kind: OutcomeSkipped, Reason: "safety limit 10 exceeded for factorial"},
		},
	}
	results := []SeriesResult{
		allSkipped,
		seriesWithFinal("linear", 1000, 5*time.Millisecond),
	}

	ranking := Rank(results)
	if len(ranking) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(ranking))
	}
	if ranking[0].WorkloadID != "linear" {
		t.Errorf("Expected linear first, got %s", ranking[0].WorkloadID)
	}
	last := ranking[1]
	if last.WorkloadID != "factorial" || last.Verdict != VerdictNoData {
		t.Errorf("Expected factorial with NO_DATA last, got %s %s", last.WorkloadID, last.Verdict)
	}
}

// TestRank_FinalIsLastSuccess verifies a trailing skip does not steal the
// final slot from the last actual success.
func TestRank_FinalIsLastSuccess(t *testing.T) {
	s := SeriesResult{
		WorkloadID: "exponential",
		Measurements: []Measurement{
			{N: 20, Kind: OutcomeSuccess, Duration: 3 * time.Millisecond},
			{N: 30, Kind: OutcomeSuccess, Duration: 9 * time.Millisecond},
			{N: 40, Kind: OutcomeSkipped, Reason: "safety limit 30 exceeded for exponential"},
		},
	}

	ranking := Rank([]SeriesResult{s})
	if ranking[0].FinalN != 30 {
		t.Errorf("Expected finalN=30, got %d", ranking[0].FinalN)
	}
	if ranking[0].FinalDuration != 9*time.Millisecond {
		t.Errorf("Expected final duration 9ms, got %v", ranking[0].FinalDuration)
	}
}

func TestRank_StableOnTies(t *testing.T) {
	results := []SeriesResult{
		seriesWithFinal("alpha", 100, 10*time.Millisecond),
		seriesWithFinal("beta", 100, 10*time.Millisecond),
	}

	ranking := Rank(results)
	if ranking[0].WorkloadID != "alpha" || ranking[1].WorkloadID != "beta" {
		t.Errorf("Expected stable tie order alpha, beta; got %s, %s",
			ranking[0].WorkloadID, ranking[1].WorkloadID)
	}
}

func TestSlowest(t *testing.T) {
	results := []SeriesResult{
		seriesWithFinal("linear", 1000, 5*time.Millisecond),
		seriesWithFinal("quadratic", 1000, 2*time.Second),
		{WorkloadID: "void"},
	}

	ranking := Rank(results)
	worst, ok := Slowest(ranking)
	if !ok {
		t.Fatal("Expected a slowest entry")
	}
	if worst.WorkloadID != "quadratic" {
		t.Errorf("Expected quadratic as the headline takeaway, got %s", worst.WorkloadID)
	}
	if worst.Verdict != VerdictImpractical {
		t.Errorf("Expected IMPRACTICAL, got %s", worst.Verdict)
	}

	if _, ok := Slowest(Rank([]SeriesResult{{WorkloadID: "void"}})); ok {
		t.Error("Expected no slowest entry for all-NoData ranking")
	}
	if _, ok := Slowest(nil); ok {
		t.Error("Expected no slowest entry for empty ranking")
	}
}
