// Package report turns raw trial results into reportable observations:
// reaction times with the non-decision offset applied, display rounding,
// and a correctness tag against a reference accumulator.
package report

import (
	"math"

	"github.com/choicelab/lca/internal/lca"
)

// Options controls how trial results are reported.
type Options struct {
	// NonDecisionTime is the fixed encoding/motor offset, in seconds,
	// added to every reaction time.
	NonDecisionTime float64

	// CorrectIndex is the 1-based accumulator treated as the correct
	// response. Zero means the conventional default, accumulator 1.
	CorrectIndex int

	// RoundDecimals is the number of decimal places for display
	// rounding. Zero means the default of 3 (millisecond resolution).
	RoundDecimals int
}

// Trial is one reported observation.
type Trial struct {
	Index      int     `json:"trial"`
	Response   int     `json:"response"`
	RT         float64 `json:"rt"`
	Correct    bool    `json:"correct"`
	NoResponse bool    `json:"no_response"`
}

// Summary aggregates a run's reported trials.
type Summary struct {
	Trials      int     `json:"trials"`
	Correct     int     `json:"correct"`
	Errors      int     `json:"errors"`
	NoResponses int     `json:"no_responses"`
	MeanRT      float64 `json:"mean_rt"` // over responded trials, offset included
}

// Report tags and aggregates simulation results. The returned trials are
// index-aligned with the input.
func Report(results []lca.Result, opts Options) ([]Trial, Summary) {
	correctIdx := opts.CorrectIndex
	if correctIdx == 0 {
		correctIdx = 1
	}
	decimals := opts.RoundDecimals
	if decimals == 0 {
		decimals = 3
	}

	trials := make([]Trial, len(results))
	summary := Summary{Trials: len(results)}
	var rtSum float64
	var responded int

	for i, r := range results {
		rt := roundTo(r.RT+opts.NonDecisionTime, decimals)
		tr := Trial{
			Index:    i,
			Response: r.Response,
			RT:       rt,
		}
		switch {
		case r.Response == lca.NoResponse:
			tr.NoResponse = true
			summary.NoResponses++
		case r.Response == correctIdx:
			tr.Correct = true
			summary.Correct++
			rtSum += rt
			responded++
		default:
			summary.Errors++
			rtSum += rt
			responded++
		}
		trials[i] = tr
	}

	if responded > 0 {
		summary.MeanRT = roundTo(rtSum/float64(responded), decimals)
	}
	return trials, summary
}

// roundTo rounds v to n decimal places.
func roundTo(v float64, n int) float64 {
	scale := math.Pow(10, float64(n))
	return math.Round(v*scale) / scale
}
