package growthbench

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"
)

// ErrInsufficientData is returned when a series holds fewer than two usable
// ratio pairs, too few to average.
var ErrInsufficientData = errors.New("insufficient data for classification")

// EmpiricalClass is a coarse growth-rate bucket guessed from measured
// durations. It is a heuristic read on one run's numbers, not ground truth
// about the algorithm.
type EmpiricalClass string

const (
	ClassConstantOrLogarithmic EmpiricalClass = "CONSTANT_OR_LOGARITHMIC" // avg ratio < 1.1
	ClassLinear                EmpiricalClass = "LINEAR"                  // 1.5 <= avg <= 2.5
	ClassQuadratic             EmpiricalClass = "QUADRATIC"               // 3.5 <= avg <= 4.5
	ClassExponentialOrWorse    EmpiricalClass = "EXPONENTIAL_OR_WORSE"    // avg > 5
	ClassUnclear               EmpiricalClass = "UNCLEAR"                 // between buckets
)

// GrowthAnalysis holds the ratio breakdown behind a classification.
type GrowthAnalysis struct {
	WorkloadID   string         // series under analysis
	Ratios       []float64      // consecutive success-pair ratios, in order
	AverageRatio float64        // mean of Ratios
	Class        EmpiricalClass // bucket the average lands in
}

// Analyze computes consecutive growth ratios for a series and buckets their
// average into an empirical class.
//
// A ratio is taken from each adjacent measurement pair where both outcomes
// are successes and the earlier duration is positive. Pairs touching a
// skipped or aborted step contribute nothing; a skipped step in the middle
// of a series therefore voids the ratio on both of its sides. Fewer than
// two usable pairs fail with ErrInsufficientData.
func Analyze(series SeriesResult) (GrowthAnalysis, error) {
	var ratios []float64
	ms := series.Measurements
	for i := 0; i+1 < len(ms); i++ {
		prev, next := ms[i], ms[i+1]
		if !prev.Succeeded() || !next.Succeeded() {
			continue
		}
		if prev.Seconds() <= 0 {
			continue
		}
		ratios = append(ratios, next.Seconds()/prev.Seconds())
	}
	if len(ratios) < 2 {
		return GrowthAnalysis{}, fmt.Errorf("%w: workload %q has %d usable ratio pairs",
			ErrInsufficientData, series.WorkloadID, len(ratios))
	}

	sum := 0.0
	for _, r := range ratios {
		sum += r
	}
	avg := sum / float64(len(ratios))

	return GrowthAnalysis{
		WorkloadID:   series.WorkloadID,
		Ratios:       ratios,
		AverageRatio: avg,
		Class:        classifyAverage(avg),
	}, nil
}

// Classify is Analyze reduced to the bucket.
func Classify(series SeriesResult) (EmpiricalClass, error) {
	analysis, err := Analyze(series)
	if err != nil {
		return "", err
	}
	return analysis.Class, nil
}

// classifyAverage buckets an average growth ratio. The anchors assume n
// doubles between steps: constant and logarithmic work barely moves (~1x),
// linear doubles (~2x), quadratic quadruples (~4x), exponential explodes.
// The gaps between buckets are intentional and land in Unclear; an average
// of exactly 3.0, for instance, supports no confident call.
func classifyAverage(avg float64) EmpiricalClass {
	switch {
	case avg < 1.1:
		return ClassConstantOrLogarithmic
	case avg >= 1.5 && avg <= 2.5:
		return ClassLinear
	case avg >= 3.5 && avg <= 4.5:
		return ClassQuadratic
	case avg > 5:
		return ClassExponentialOrWorse
	default:
		return ClassUnclear
	}
}

// ClassifyAll analyzes every series concurrently and returns the classes
// keyed by workload id. Series without enough usable pairs are left out of
// the result rather than failing the whole batch.
func ClassifyAll(ctx context.Context, results []SeriesResult) (map[string]EmpiricalClass, error) {
	var mu sync.Mutex
	classes := make(map[string]EmpiricalClass, len(results))

	g, ctx := errgroup.WithContext(ctx)
	for _, series := range results {
		series := series
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			class, err := Classify(series)
			if errors.Is(err, ErrInsufficientData) {
				return nil
			}
			if err != nil {
				return err
			}
			mu.Lock()
			classes[series.WorkloadID] = class
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return classes, nil
}
