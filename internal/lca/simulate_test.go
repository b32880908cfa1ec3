package lca

import (
	"math"
	"testing"

	"github.com/choicelab/lca/internal/randstream"
)

// twoChoiceParams returns a noisy two-accumulator setup that produces a mix
// of wins and the occasional timeout.
func twoChoiceParams() Params {
	return Params{
		Input:      []float64{1.2, 1.0},
		Leak:       3.0,
		Inhibition: 3.0,
		Threshold:  0.25,
		NoiseSD:    0.3,
		StepSize:   0.001,
		MaxIter:    500,
		NonLinear:  true,
		StartPoint: []float64{0, 0},
	}
}

func TestSimulate_ResultBounds(t *testing.T) {
	p := twoChoiceParams()
	stream := randstream.New(42)

	results, err := Simulate(stream, p, 500)
	if err != nil {
		t.Fatalf("Simulate() error = %v", err)
	}
	if len(results) != 500 {
		t.Fatalf("len(results) = %d, want 500", len(results))
	}

	dt := p.StepSize
	minRT := dt / 2
	maxRT := float64(p.MaxIter)*dt - dt/2
	for i, r := range results {
		if r.RT < minRT || r.RT > maxRT {
			t.Errorf("trial %d: RT = %v, want in [%v, %v]", i, r.RT, minRT, maxRT)
		}
		if r.Response != NoResponse && (r.Response < 1 || r.Response > p.NAcc()) {
			t.Errorf("trial %d: response = %d, want in {1..%d} or %d", i, r.Response, p.NAcc(), NoResponse)
		}
	}
}

func TestSimulate_SymmetricSubthresholdTimesOut(t *testing.T) {
	// With no noise and symmetric drives whose equilibrium I/kappa sits
	// below threshold, no accumulator can ever cross. Every trial must
	// time out at the full budget.
	p := Params{
		Input:      []float64{0.1, 0.1},
		Leak:       1.0,
		Inhibition: 0.5,
		Threshold:  1.0,
		NoiseSD:    0,
		StepSize:   0.01,
		MaxIter:    200,
		StartPoint: []float64{0, 0},
	}
	stream := randstream.New(1)

	results, err := Simulate(stream, p, 10)
	if err != nil {
		t.Fatalf("Simulate() error = %v", err)
	}

	wantRT := float64(p.MaxIter)*p.StepSize - p.StepSize/2
	for i, r := range results {
		if r.Response != NoResponse {
			t.Errorf("trial %d: response = %d, want %d (timeout)", i, r.Response, NoResponse)
		}
		if r.RT != wantRT {
			t.Errorf("trial %d: RT = %v, want %v", i, r.RT, wantRT)
		}
		if r.Steps != p.MaxIter {
			t.Errorf("trial %d: steps = %d, want %d", i, r.Steps, p.MaxIter)
		}
	}
}

func TestSimulate_SingleAccumulatorDeterministic(t *testing.T) {
	// dt and I are chosen so every intermediate value is exactly
	// representable: x grows by 0.125 per step and reaches 1.0 at step 8.
	p := Params{
		Input:      []float64{1.0},
		Leak:       0,
		Inhibition: 0,
		Threshold:  1.0,
		NoiseSD:    0,
		StepSize:   0.125,
		MaxIter:    100,
		StartPoint: []float64{0},
	}
	stream := randstream.New(3)

	results, err := Simulate(stream, p, 5)
	if err != nil {
		t.Fatalf("Simulate() error = %v", err)
	}

	for i, r := range results {
		if r.Response != 1 {
			t.Errorf("trial %d: response = %d, want 1", i, r.Response)
		}
		if r.Steps != 8 {
			t.Errorf("trial %d: steps = %d, want 8", i, r.Steps)
		}
		if want := 8*0.125 - 0.125/2; r.RT != want {
			t.Errorf("trial %d: RT = %v, want %v", i, r.RT, want)
		}
	}
}

func TestSimulate_TieBreakLowestIndex(t *testing.T) {
	// Identical deterministic accumulators cross threshold in the same
	// step; the lower index must win every trial.
	p := Params{
		Input:      []float64{1.0, 1.0},
		Leak:       0,
		Inhibition: 0,
		Threshold:  1.0,
		NoiseSD:    0,
		StepSize:   0.125,
		MaxIter:    100,
		StartPoint: []float64{0, 0},
	}
	stream := randstream.New(8)

	results, err := Simulate(stream, p, 20)
	if err != nil {
		t.Fatalf("Simulate() error = %v", err)
	}
	for i, r := range results {
		if r.Response != 1 {
			t.Errorf("trial %d: response = %d, want 1 (lowest index wins ties)", i, r.Response)
		}
	}
}

func TestSimulate_Reproducible(t *testing.T) {
	p := twoChoiceParams()

	a, err := Simulate(randstream.New(1234), p, 200)
	if err != nil {
		t.Fatalf("first Simulate() error = %v", err)
	}
	b, err := Simulate(randstream.New(1234), p, 200)
	if err != nil {
		t.Fatalf("second Simulate() error = %v", err)
	}

	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("trial %d: %+v != %+v (same seed must reproduce exactly)", i, a[i], b[i])
		}
	}
}

func TestSimulate_StreamResumesAcrossCalls(t *testing.T) {
	// Two 1-trial calls on one stream must match a single 2-trial call:
	// the stream carries over, it is not reset between invocations.
	p := twoChoiceParams()

	whole, err := Simulate(randstream.New(77), p, 2)
	if err != nil {
		t.Fatalf("Simulate() error = %v", err)
	}

	stream := randstream.New(77)
	first, err := Simulate(stream, p, 1)
	if err != nil {
		t.Fatalf("first Simulate() error = %v", err)
	}
	second, err := Simulate(stream, p, 1)
	if err != nil {
		t.Fatalf("second Simulate() error = %v", err)
	}

	if first[0] != whole[0] {
		t.Errorf("trial 0: %+v != %+v", first[0], whole[0])
	}
	if second[0] != whole[1] {
		t.Errorf("trial 1: %+v != %+v (stream reset between calls?)", second[0], whole[1])
	}
}

func TestSimulate_RTFormula(t *testing.T) {
	p := twoChoiceParams()
	stream := randstream.New(9)

	results, err := Simulate(stream, p, 300)
	if err != nil {
		t.Fatalf("Simulate() error = %v", err)
	}

	dt := p.StepSize
	for i, r := range results {
		want := float64(r.Steps)*dt - dt/2
		if math.Abs(r.RT-want) > 1e-12 {
			t.Errorf("trial %d: RT = %v, want %v (= %d*dt - dt/2)", i, r.RT, want, r.Steps)
		}
	}
}

func TestSimulate_InvalidParams(t *testing.T) {
	valid := twoChoiceParams()

	tests := []struct {
		name   string
		mutate func(*Params)
	}{
		{"empty input", func(p *Params) { p.Input = nil; p.StartPoint = nil }},
		{"length mismatch", func(p *Params) { p.StartPoint = []float64{0} }},
		{"zero step size", func(p *Params) { p.StepSize = 0 }},
		{"negative step size", func(p *Params) { p.StepSize = -0.001 }},
		{"zero threshold", func(p *Params) { p.Threshold = 0 }},
		{"negative noise", func(p *Params) { p.NoiseSD = -1 }},
		{"zero max iter", func(p *Params) { p.MaxIter = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid
			p.Input = append([]float64(nil), valid.Input...)
			p.StartPoint = append([]float64(nil), valid.StartPoint...)
			tt.mutate(&p)
			if _, err := Simulate(randstream.New(1), p, 10); err == nil {
				t.Error("Simulate() error = nil, want configuration error")
			}
		})
	}

	if _, err := Simulate(randstream.New(1), valid, 0); err == nil {
		t.Error("Simulate() with zero trials: error = nil, want error")
	}
}

func TestResponsesAndReactionTimes(t *testing.T) {
	results := []Result{
		{Response: 1, RT: 0.4},
		{Response: NoResponse, RT: 1.2},
		{Response: 2, RT: 0.3},
	}

	resp := Responses(results)
	rts := ReactionTimes(results)

	wantResp := []int{1, NoResponse, 2}
	wantRTs := []float64{0.4, 1.2, 0.3}
	for i := range results {
		if resp[i] != wantResp[i] {
			t.Errorf("Responses()[%d] = %d, want %d", i, resp[i], wantResp[i])
		}
		if rts[i] != wantRTs[i] {
			t.Errorf("ReactionTimes()[%d] = %v, want %v", i, rts[i], wantRTs[i])
		}
	}
}
