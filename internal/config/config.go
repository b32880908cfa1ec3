// Package config provides run-file configuration loading for lca.
// A run file is a YAML document describing a full simulation: the model
// parameters, the reporting options, and logging.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// RunConfig contains everything needed to execute one simulation run.
type RunConfig struct {
	// Simulation contains the model parameters.
	Simulation SimulationConfig `yaml:"simulation"`

	// Report contains the result-reporting options.
	Report ReportConfig `yaml:"report"`

	// Logging contains settings for operational and trace logging.
	Logging LoggingConfig `yaml:"logging"`
}

// SimulationConfig holds the model parameters for a run.
type SimulationConfig struct {
	// Input is the per-accumulator input drive. Its length determines
	// the number of accumulators.
	Input []float64 `yaml:"input"`

	// Leak is the leakage coefficient kappa.
	Leak float64 `yaml:"leak"`

	// Inhibition is the lateral inhibition coefficient beta.
	Inhibition float64 `yaml:"inhibition"`

	// Threshold is the decision threshold Z.
	Threshold float64 `yaml:"threshold"`

	// NoiseSD is the noise standard deviation s.
	NoiseSD float64 `yaml:"noise_sd"`

	// StepSize is the integration step dt in seconds.
	StepSize float64 `yaml:"step_size"`

	// MaxTime is the maximum simulated decision time in seconds; it is
	// converted into the per-trial iteration budget.
	MaxTime float64 `yaml:"max_time"`

	// Trials is the number of trials to simulate.
	Trials int `yaml:"trials"`

	// NonLinear enables the zero floor on accumulator values.
	NonLinear bool `yaml:"non_linear"`

	// StartPoint is the optional per-accumulator start vector.
	// When absent it defaults to all zeros.
	StartPoint []float64 `yaml:"start_point,omitempty"`

	// Seed is the master seed for the random stream. Zero means seed
	// from the wall clock.
	Seed uint64 `yaml:"seed,omitempty"`
}

// ReportConfig configures result reporting.
type ReportConfig struct {
	// NonDecisionTime is the fixed offset added to reaction times,
	// in seconds (values large enough to be milliseconds are rescaled).
	NonDecisionTime float64 `yaml:"non_decision_time"`

	// CorrectIndex is the 1-based accumulator treated as correct.
	// Zero means accumulator 1.
	CorrectIndex int `yaml:"correct_index,omitempty"`

	// RoundDecimals is the display rounding precision. Zero means 3.
	RoundDecimals int `yaml:"round_decimals,omitempty"`
}

// LoggingConfig configures lca's logging behavior.
type LoggingConfig struct {
	// Level sets the log verbosity: "info" (default), "debug", or "trace".
	Level string `yaml:"level"`
}

// Default returns the default run configuration: a noisy two-choice setup
// with standard Usher-McClelland-style parameters.
func Default() *RunConfig {
	return &RunConfig{
		Simulation: SimulationConfig{
			Input:      []float64{1.2, 1.0},
			Leak:       3.0,
			Inhibition: 3.0,
			Threshold:  0.25,
			NoiseSD:    0.3,
			StepSize:   0.001,
			MaxTime:    2.0,
			Trials:     1000,
			NonLinear:  true,
		},
		Report: ReportConfig{
			NonDecisionTime: 0.3,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadFromFile loads a run configuration from a YAML file, layered over the
// defaults, then applies environment overrides.
func LoadFromFile(path string) (*RunConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("validating config file: %w", err)
	}
	return config, nil
}

// Validate checks that the configuration is structurally valid. Full
// parameter validation happens in prepare; this catches config-file
// mistakes early with file-oriented messages.
func (c *RunConfig) Validate() error {
	if len(c.Simulation.Input) == 0 {
		return fmt.Errorf("simulation.input must list at least one accumulator drive")
	}
	if c.Simulation.StepSize <= 0 {
		return fmt.Errorf("simulation.step_size must be positive, got %g", c.Simulation.StepSize)
	}
	if c.Simulation.MaxTime <= 0 {
		return fmt.Errorf("simulation.max_time must be positive, got %g", c.Simulation.MaxTime)
	}
	if c.Simulation.Trials <= 0 {
		return fmt.Errorf("simulation.trials must be positive, got %d", c.Simulation.Trials)
	}
	if sp := c.Simulation.StartPoint; sp != nil && len(sp) != len(c.Simulation.Input) {
		return fmt.Errorf("simulation.start_point length %d does not match input length %d",
			len(sp), len(c.Simulation.Input))
	}

	validLevels := map[string]bool{"info": true, "debug": true, "trace": true}
	if c.Logging.Level != "" && !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s (valid: info, debug, trace, or empty for default)", c.Logging.Level)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
func applyEnvOverrides(config *RunConfig) {
	if v := os.Getenv("LCA_LOG_LEVEL"); v != "" {
		config.Logging.Level = v
	}
}
