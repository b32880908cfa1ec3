// Package prepare validates and normalizes user-supplied model parameters
// before simulation. It owns the unit conventions (seconds everywhere) and
// the translation from a maximum decision time to an iteration budget, so
// the core simulator only ever sees well-formed parameters.
package prepare

import (
	"fmt"
	"math"

	"github.com/choicelab/lca/internal/lca"
)

// minMillisecondValue is the smallest non-decision time treated as
// milliseconds. Human non-decision times run roughly 0.1-1 s; a value this
// large in seconds is a unit mistake, so it is rescaled rather than
// rejected.
const minMillisecondValue = 25.0

// Options are the raw, possibly unnormalized inputs for a simulation run.
type Options struct {
	Input      []float64
	Leak       float64
	Inhibition float64
	Threshold  float64
	NoiseSD    float64
	StepSize   float64

	// MaxTime is the maximum simulated decision time in seconds. It is
	// converted to the per-trial iteration budget.
	MaxTime float64

	NonLinear bool

	// StartPoint is optional; when nil it defaults to all zeros.
	StartPoint []float64

	// NonDecisionTime is the fixed encoding/motor offset added to
	// reaction times by the reporter. Seconds, or milliseconds if the
	// value is implausibly large for seconds.
	NonDecisionTime float64
}

// Prepared bundles validated core parameters with the reporting offset.
type Prepared struct {
	Params lca.Params

	// NonDecisionTime is always in seconds after normalization.
	NonDecisionTime float64

	// RescaledNonDecision reports whether NonDecisionTime was
	// interpreted as milliseconds and converted.
	RescaledNonDecision bool
}

// MaxIterFor converts a maximum decision time into an iteration budget:
// floor(maxTime/dt) + 1, the number of samples on [0, maxTime] at step dt.
func MaxIterFor(maxTime, dt float64) int {
	return int(math.Floor(maxTime/dt)) + 1
}

// Prepare validates opts and produces simulation-ready parameters.
// All failures are configuration errors detected before any trial runs.
func Prepare(opts Options) (Prepared, error) {
	if len(opts.Input) < 1 {
		return Prepared{}, fmt.Errorf("prepare: at least one accumulator input required")
	}
	if opts.StepSize <= 0 {
		return Prepared{}, fmt.Errorf("prepare: step size must be positive, got %g", opts.StepSize)
	}
	if opts.MaxTime <= 0 {
		return Prepared{}, fmt.Errorf("prepare: max decision time must be positive, got %g", opts.MaxTime)
	}

	start := opts.StartPoint
	if start == nil {
		start = make([]float64, len(opts.Input))
	} else if len(start) != len(opts.Input) {
		return Prepared{}, fmt.Errorf("prepare: start point length %d does not match input length %d",
			len(start), len(opts.Input))
	}

	ndt := opts.NonDecisionTime
	if ndt < 0 {
		return Prepared{}, fmt.Errorf("prepare: non-decision time must be non-negative, got %g", ndt)
	}
	rescaled := false
	if ndt >= minMillisecondValue {
		ndt /= 1000
		rescaled = true
	}

	p := lca.Params{
		Input:      opts.Input,
		Leak:       opts.Leak,
		Inhibition: opts.Inhibition,
		Threshold:  opts.Threshold,
		NoiseSD:    opts.NoiseSD,
		StepSize:   opts.StepSize,
		MaxIter:    MaxIterFor(opts.MaxTime, opts.StepSize),
		NonLinear:  opts.NonLinear,
		StartPoint: start,
	}
	if err := p.Validate(); err != nil {
		return Prepared{}, fmt.Errorf("prepare: %w", err)
	}

	return Prepared{
		Params:              p,
		NonDecisionTime:     ndt,
		RescaledNonDecision: rescaled,
	}, nil
}
