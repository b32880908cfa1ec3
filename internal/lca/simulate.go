package lca

import (
	"fmt"

	"github.com/choicelab/lca/internal/randstream"
)

// Simulate runs nTrials independent trials and returns their results,
// index-aligned with trial order. Trials share the given random stream and
// are simulated strictly in order, so a fixed seed reproduces the run; the
// stream is not reset, and a later Simulate call on the same stream
// continues the sequence.
func Simulate(stream *randstream.Stream, p Params, nTrials int) ([]Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if nTrials < 1 {
		return nil, fmt.Errorf("lca: trial count must be positive, got %d", nTrials)
	}

	g := newIntegrator(p, stream)
	results := make([]Result, nTrials)
	for i := range results {
		results[i] = runTrial(g)
	}
	return results, nil
}

// Responses extracts the response sequence from results.
func Responses(results []Result) []int {
	out := make([]int, len(results))
	for i, r := range results {
		out[i] = r.Response
	}
	return out
}

// ReactionTimes extracts the reaction-time sequence from results.
func ReactionTimes(results []Result) []float64 {
	out := make([]float64, len(results))
	for i, r := range results {
		out[i] = r.RT
	}
	return out
}
