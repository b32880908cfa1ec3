// Package lca implements the Leaky, Competing Accumulator model of choice
// (Usher & McClelland, 2001). A set of mutually inhibiting, leaky stochastic
// accumulators race toward a decision threshold; each trial yields the
// identity of the winning accumulator and a simulated reaction time.
//
// The integration is a fixed-step Euler–Maruyama discretization of the
// coupled stochastic differential equations, with an optional nonlinearity
// flooring accumulator values at zero.
package lca

import "fmt"

// NoResponse is the response code for a trial that exhausted its iteration
// budget without any accumulator reaching threshold.
const NoResponse = -1

// Params holds the model parameters for a simulation run. Params are
// immutable once a run starts; the number of accumulators is the length of
// Input.
type Params struct {
	// Input is the per-accumulator input drive (I).
	Input []float64 `json:"input"`

	// Leak (kappa) is the decay rate pulling each accumulator back
	// toward zero.
	Leak float64 `json:"leak"`

	// Inhibition (beta) scales the lateral suppression each accumulator
	// exerts on every other accumulator.
	Inhibition float64 `json:"inhibition"`

	// Threshold (Z) is the value an accumulator must reach or exceed to
	// win the trial. Must be positive.
	Threshold float64 `json:"threshold"`

	// NoiseSD (s) is the continuous-time noise intensity. The per-step
	// noise increment has standard deviation sqrt(StepSize)*NoiseSD.
	NoiseSD float64 `json:"noise_sd"`

	// StepSize (dt) is the integration time step in seconds
	// (0.001 = 1 ms).
	StepSize float64 `json:"step_size"`

	// MaxIter is the per-trial iteration budget: the number of steps
	// representable within the maximum simulated decision time.
	MaxIter int `json:"max_iter"`

	// NonLinear, when set, floors every accumulator at zero after each
	// update.
	NonLinear bool `json:"non_linear"`

	// StartPoint (x0) is the per-accumulator starting value. Must have
	// the same length as Input.
	StartPoint []float64 `json:"start_point"`
}

// NAcc returns the number of accumulators.
func (p Params) NAcc() int {
	return len(p.Input)
}

// Validate checks the parameters before a run starts. All failures are
// configuration errors; nothing can fail mid-trial.
func (p Params) Validate() error {
	if len(p.Input) < 1 {
		return fmt.Errorf("lca: at least one accumulator required, got %d", len(p.Input))
	}
	if len(p.StartPoint) != len(p.Input) {
		return fmt.Errorf("lca: start point length %d does not match input length %d",
			len(p.StartPoint), len(p.Input))
	}
	if p.StepSize <= 0 {
		return fmt.Errorf("lca: step size must be positive, got %g", p.StepSize)
	}
	if p.Threshold <= 0 {
		return fmt.Errorf("lca: threshold must be positive, got %g", p.Threshold)
	}
	if p.NoiseSD < 0 {
		return fmt.Errorf("lca: noise standard deviation must be non-negative, got %g", p.NoiseSD)
	}
	if p.MaxIter <= 0 {
		return fmt.Errorf("lca: max iterations must be positive, got %d", p.MaxIter)
	}
	return nil
}
