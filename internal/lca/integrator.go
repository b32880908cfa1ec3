package lca

import (
	"math"

	"github.com/choicelab/lca/internal/randstream"
)

// integrator advances an accumulator vector one fixed time step at a time.
// The state and scratch buffers are allocated once and reused across trials;
// all mutable per-trial state lives here, never shared between trials.
type integrator struct {
	p      Params
	stream *randstream.Stream

	x     []float64 // accumulator vector
	inhib []float64 // per-accumulator inhibitory contribution, scratch

	noiseScale float64 // sqrt(dt) * s
}

func newIntegrator(p Params, stream *randstream.Stream) *integrator {
	n := p.NAcc()
	return &integrator{
		p:          p,
		stream:     stream,
		x:          make([]float64, n),
		inhib:      make([]float64, n),
		noiseScale: math.Sqrt(p.StepSize) * p.NoiseSD,
	}
}

// reset reinitializes the accumulator vector to the start point.
func (g *integrator) reset() {
	copy(g.x, g.p.StartPoint)
}

// advance applies one integration step and scans for a threshold crossing.
// It returns the 1-based index of the winning accumulator, or 0 if no
// accumulator has reached threshold.
//
// Update per accumulator z:
//
//	x[z] += dt*I[z] - kappa*x[z]*dt - sumInhib + inhib[z] + sqrt(dt)*s*N(0,1)
//
// where inhib[z] = x[z]*dt*beta and sumInhib is its sum over all
// accumulators. Subtracting the total and adding the accumulator's own
// contribution back leaves exactly the inhibition exerted by the others:
// sumInhib - inhib[z] = sum over k != z of inhib[k].
func (g *integrator) advance() int {
	p := g.p
	dt := p.StepSize

	sumInhib := 0.0
	for z, xz := range g.x {
		g.inhib[z] = xz * dt * p.Inhibition
		sumInhib += g.inhib[z]
	}

	for z := range g.x {
		noise := g.noiseScale * g.stream.Norm()
		g.x[z] += dt*p.Input[z] - p.Leak*g.x[z]*dt - sumInhib + g.inhib[z] + noise
	}

	// Detection uses the pre-clamp post-update value, and both passes
	// visit every accumulator: the clamp applies even after a winner is
	// found, and the first index at or above threshold wins regardless
	// of later crossings in the same step.
	winner := 0
	for z := range g.x {
		if winner == 0 && g.x[z] >= p.Threshold {
			winner = z + 1
		}
		if p.NonLinear && g.x[z] < 0 {
			g.x[z] = 0
		}
	}
	return winner
}
