package growthbench

import (
	"log/slog"
	"runtime"
)

// Environment records the conditions a run executed under. Measured
// durations mean little without it: GOMAXPROCS and CPU count shape how
// much scheduler noise leaks into single-threaded timings, and results
// from different machines or Go versions are not comparable.
type Environment struct {
	GoVersion  string
	GOOS       string
	GOARCH     string
	NumCPU     int
	GOMAXPROCS int
}

// CaptureEnvironment samples the current process environment.
func CaptureEnvironment() Environment {
	return Environment{
		GoVersion:  runtime.Version(),
		GOOS:       runtime.GOOS,
		GOARCH:     runtime.GOARCH,
		NumCPU:     runtime.NumCPU(),
		GOMAXPROCS: runtime.GOMAXPROCS(0),
	}
}

// LogValue renders the environment as a structured group, so a single
// "env" attribute carries the whole fingerprint.
func (e Environment) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("go", e.GoVersion),
		slog.String("os", e.GOOS),
		slog.String("arch", e.GOARCH),
		slog.Int("cpus", e.NumCPU),
		slog.Int("maxprocs", e.GOMAXPROCS),
	)
}
