package growthbench

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// SuiteFile is a declarative run description, loadable from YAML:
//
//	name: sorting shootout
//	workloads: [linear, linearithmic, quadratic]
//	range: {start: 1000, end: 8000, step: 1000}
//	step_interval_ms: 50
//	safety: true
//
// Workload ids refer to a Registry; the file carries no code. The safety
// field is optional and overrides the engine policy's enabled flag for this
// suite only.
type SuiteFile struct {
	Name           string   `yaml:"name"`
	Workloads      []string `yaml:"workloads"`
	Range          Range    `yaml:"range"`
	StepIntervalMS int      `yaml:"step_interval_ms"`
	Safety         *bool    `yaml:"safety"`
}

// ParseSuite decodes a suite from YAML bytes.
func ParseSuite(data []byte) (SuiteFile, error) {
	var suite SuiteFile
	if err := yaml.Unmarshal(data, &suite); err != nil {
		return SuiteFile{}, fmt.Errorf("parsing suite: %w", err)
	}
	return suite, nil
}

// LoadSuiteFile reads and decodes a suite from disk.
func LoadSuiteFile(path string) (SuiteFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return SuiteFile{}, fmt.Errorf("reading suite file: %w", err)
	}
	suite, err := ParseSuite(data)
	if err != nil {
		return SuiteFile{}, fmt.Errorf("suite file %s: %w", path, err)
	}
	return suite, nil
}

// RunConfig resolves the suite against a registry into a validated run
// config. The base policy seeds the per-run snapshot; a safety override in
// the file adjusts only the enabled flag.
func (s SuiteFile) RunConfig(reg *Registry, base SafetyPolicy) (RunConfig, error) {
	if len(s.Workloads) == 0 {
		return RunConfig{}, fmt.Errorf("suite %q: %w", s.Name, ErrEmptyWorkloadSet)
	}
	workloads := make([]Workload, 0, len(s.Workloads))
	for i, id := range s.Workloads {
		w, err := reg.Lookup(id)
		if err != nil {
			return RunConfig{}, fmt.Errorf("suite %q: workload at index %d: %w", s.Name, i, err)
		}
		workloads = append(workloads, w)
	}

	cfg := RunConfig{
		Workloads:    workloads,
		Range:        s.Range,
		StepInterval: time.Duration(s.StepIntervalMS) * time.Millisecond,
	}
	if s.Safety != nil {
		policy := base.Clone()
		policy.Enabled = *s.Safety
		cfg.Policy = &policy
	}
	if err := cfg.Validate(); err != nil {
		return RunConfig{}, fmt.Errorf("suite %q: %w", s.Name, err)
	}
	return cfg, nil
}
