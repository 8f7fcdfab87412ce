// Package growthbench measures how running time grows with input size.
//
// # Overview
//
// growthbench runs a catalog of complexity-class workloads (O(1) through
// O(n!)) across a range of input sizes, times each call against a monotonic
// clock, and guesses the empirical complexity class from how the measured
// durations grow. A safety governor rejects input sizes that would hang the
// process before they execute.
//
// # Architecture
//
// The package components:
//
//   - workload.go  - Workload type, registry, built-in catalog
//   - safety.go    - Safety policy and admission governor
//   - measure.go   - Timing harness with typed outcomes
//   - runner.go    - Batch loop, ranges, step events, series
//   - engine.go    - Engine facade, run handle, lifecycle
//   - classify.go  - Growth-ratio analyzer
//   - rank.go      - Final ranking and verdicts
//   - suite.go     - Declarative YAML run descriptions
//   - calibrate.go - Range calibration probes
//   - assertions.go - Test helpers for series properties
//
// # Quick Start
//
// Run two workloads across a range and rank them:
//
//	engine := growthbench.NewEngine(growthbench.EngineConfig{})
//
//	linear, _ := engine.Registry().Lookup("linear")
//	quadratic, _ := engine.Registry().Lookup("quadratic")
//
//	run, err := engine.StartRun(ctx, growthbench.RunConfig{
//	    Workloads: []growthbench.Workload{linear, quadratic},
//	    Range:     growthbench.Range{Start: 1000, End: 8000, Step: 1000},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for event := range run.Events() {
//	    fmt.Printf("%s n=%d: %s\n", event.WorkloadID, event.Measurement.N, event.Measurement.Kind)
//	}
//
//	ranking, _ := run.Ranking()
//	if worst, ok := growthbench.Slowest(ranking); ok {
//	    fmt.Printf("avoid: %s (%s at n=%d)\n", worst.WorkloadID, worst.Verdict, worst.FinalN)
//	}
//
// # The Safety Governor
//
// Exponential and factorial workloads are gated before execution, never
// interrupted after. The check is an admission decision, not a timeout,
// because an O(2^n) call cannot be stopped once started:
//
//	policy := growthbench.DefaultSafetyPolicy() // exponential <= 30, factorial <= 10
//
//	run, _ := engine.StartRun(ctx, growthbench.RunConfig{
//	    Workloads: workloads,
//	    Range:     growthbench.Range{Start: 5, End: 40, Step: 5},
//	    Policy:    &policy,
//	})
//
// A rejected step lands in the series as Skipped with the rejection reason;
// the batch keeps going. Disabling safety admits any n, subject only to the
// exponential workload's hard iteration cap.
//
// # Growth Classification
//
// The analyzer averages consecutive duration ratios and buckets the result.
// With n doubling between steps, theory predicts:
//
//   - O(1), O(log n): ratio ~1x  -> CONSTANT_OR_LOGARITHMIC
//   - O(n):           ratio ~2x  -> LINEAR
//   - O(n^2):         ratio ~4x  -> QUADRATIC
//   - O(2^n):         ratio >5x  -> EXPONENTIAL_OR_WORSE
//
// Averages between buckets come back UNCLEAR. This is coarse empirical
// bucketing from one run's numbers, a heuristic rather than a proof.
//
// # Suites
//
// Runs can be described declaratively in YAML and resolved against the
// registry:
//
//	name: sorting shootout
//	workloads: [linear, linearithmic, quadratic]
//	range: {start: 1000, end: 8000, step: 1000}
//	step_interval_ms: 50
//
//	suite, err := growthbench.LoadSuiteFile("suite.yaml")
//	cfg, err := suite.RunConfig(engine.Registry(), engine.GetSafetyPolicy())
//
// # Testing
//
// Use assertions to validate series properties:
//
//	func TestMyWorkload(t *testing.T) {
//	    series := runSeries(...)
//
//	    // Assert no safety rejections in the safe range
//	    growthbench.AssertAllSuccess(t, series)
//
//	    // Assert the measured growth matches expectations
//	    growthbench.AssertClassification(t, series, growthbench.ClassLinear)
//	}
//
// # Philosophy
//
// Traditional benchmarks answer: "How fast is this?"
// growthbench answers: "How fast does this get worse?"
//
// A single timing tells you where you are; the growth ratio between
// timings tells you where you are headed. A function that takes 2ms today
// but quadruples with every doubling of input is a future outage. The
// catalog exists so the shapes can be felt, not just read about: watch the
// quadratic series pull away from the linear one step by step.
//
// # See Also
//
//   - examples/standard-suite  - full catalog run with live progress
//   - examples/danger-zone     - safety limits, bypass, and the hard cap
//   - examples/suite-file      - YAML-driven runs
//   - examples/metrics-server  - Prometheus instrumentation endpoint
package growthbench
