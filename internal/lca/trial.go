package lca

// trialState tracks the per-trial loop.
type trialState int

const (
	stateRunning trialState = iota
	stateWon
	stateTimedOut
)

// Result is the outcome of a single trial.
type Result struct {
	// Response is the 1-based index of the winning accumulator, or
	// NoResponse if the trial timed out.
	Response int `json:"response"`

	// RT is the simulated reaction time in seconds. For a win at step k
	// it is k*dt - dt/2; the half-step correction places the threshold
	// crossing mid-interval between the previous and current sample. A
	// timed-out trial reports the same formula at the iteration budget.
	RT float64 `json:"rt"`

	// Steps is the number of integration steps taken.
	Steps int `json:"steps"`
}

// runTrial executes one trial: reset to the start point, then alternate
// integration and threshold detection until a winner emerges or the
// iteration budget is exhausted.
func runTrial(g *integrator) Result {
	g.reset()

	state := stateRunning
	steps := 0
	winner := 0

	for state == stateRunning {
		w := g.advance()
		steps++

		switch {
		case w != 0:
			state = stateWon
			winner = w
		case steps >= g.p.MaxIter:
			state = stateTimedOut
		}
	}

	dt := g.p.StepSize
	res := Result{
		RT:    float64(steps)*dt - dt/2,
		Steps: steps,
	}
	if state == stateWon {
		res.Response = winner
	} else {
		res.Response = NoResponse
	}
	return res
}
