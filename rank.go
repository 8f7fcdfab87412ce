package growthbench

import (
	"sort"
	"time"
)

// Verdict is a qualitative read on a workload's final measured duration.
type Verdict string

const (
	VerdictInstant     Verdict = "INSTANT"     // under 1ms
	VerdictFast        Verdict = "FAST"        // under 100ms
	VerdictSluggish    Verdict = "SLUGGISH"    // under 1s
	VerdictImpractical Verdict = "IMPRACTICAL" // 1s or more
	VerdictNoData      Verdict = "NO_DATA"     // series had no successful step
)

// Verdict thresholds, applied in order against the final duration.
const (
	instantThreshold  = time.Millisecond
	fastThreshold     = 100 * time.Millisecond
	sluggishThreshold = time.Second
)

// VerdictFor buckets a successful final duration.
func VerdictFor(d time.Duration) Verdict {
	switch {
	case d < instantThreshold:
		return VerdictInstant
	case d < fastThreshold:
		return VerdictFast
	case d < sluggishThreshold:
		return VerdictSluggish
	default:
		return VerdictImpractical
	}
}

// RankedEntry is one row of the run summary.
type RankedEntry struct {
	WorkloadID    string        // ranked workload
	FinalN        int           // n of the last successful measurement
	FinalDuration time.Duration // duration of that measurement
	Verdict       Verdict       // qualitative bucket
}

// Rank orders series by the duration of their last successful measurement,
// fastest first. Series with no successful step rank last, marked NoData,
// in the order they were given. The sort is stable, so equal durations keep
// input order.
func Rank(results []SeriesResult) []RankedEntry {
	ranked := make([]RankedEntry, 0, len(results))
	var noData []RankedEntry

	for _, series := range results {
		last, ok := series.LastSuccess()
		if !ok {
			noData = append(noData, RankedEntry{WorkloadID: series.WorkloadID, Verdict: VerdictNoData})
			continue
		}
		ranked = append(ranked, RankedEntry{
			WorkloadID:    series.WorkloadID,
			FinalN:        last.N,
			FinalDuration: last.Duration,
			Verdict:       VerdictFor(last.Duration),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].FinalDuration < ranked[j].FinalDuration
	})
	return append(ranked, noData...)
}

// Slowest returns the headline takeaway of a ranking: the slowest entry
// that actually has data. The second return is false when nothing ranked.
func Slowest(ranking []RankedEntry) (RankedEntry, bool) {
	for i := len(ranking) - 1; i >= 0; i-- {
		if ranking[i].Verdict != VerdictNoData {
			return ranking[i], true
		}
	}
	return RankedEntry{}, false
}
