package report

import (
	"testing"

	"github.com/choicelab/lca/internal/lca"
)

func TestReport_OffsetAndRounding(t *testing.T) {
	results := []lca.Result{
		{Response: 1, RT: 0.4567},
		{Response: 2, RT: 0.1234},
	}
	trials, _ := Report(results, Options{NonDecisionTime: 0.3, RoundDecimals: 3})

	if got, want := trials[0].RT, 0.757; got != want {
		t.Errorf("trial 0 RT = %v, want %v", got, want)
	}
	if got, want := trials[1].RT, 0.423; got != want {
		t.Errorf("trial 1 RT = %v, want %v", got, want)
	}
}

func TestReport_CorrectnessTagging(t *testing.T) {
	results := []lca.Result{
		{Response: 1, RT: 0.4},
		{Response: 2, RT: 0.5},
		{Response: lca.NoResponse, RT: 2.0},
		{Response: 1, RT: 0.6},
	}
	trials, summary := Report(results, Options{})

	wantCorrect := []bool{true, false, false, true}
	wantNoResp := []bool{false, false, true, false}
	for i := range trials {
		if trials[i].Correct != wantCorrect[i] {
			t.Errorf("trial %d Correct = %v, want %v", i, trials[i].Correct, wantCorrect[i])
		}
		if trials[i].NoResponse != wantNoResp[i] {
			t.Errorf("trial %d NoResponse = %v, want %v", i, trials[i].NoResponse, wantNoResp[i])
		}
		if trials[i].Index != i {
			t.Errorf("trial %d Index = %d, want %d", i, trials[i].Index, i)
		}
	}

	if summary.Trials != 4 || summary.Correct != 2 || summary.Errors != 1 || summary.NoResponses != 1 {
		t.Errorf("summary = %+v, want 4 trials, 2 correct, 1 error, 1 no-response", summary)
	}
}

func TestReport_CustomCorrectIndex(t *testing.T) {
	results := []lca.Result{
		{Response: 1, RT: 0.4},
		{Response: 2, RT: 0.5},
	}
	_, summary := Report(results, Options{CorrectIndex: 2})

	if summary.Correct != 1 || summary.Errors != 1 {
		t.Errorf("summary = %+v, want 1 correct, 1 error with CorrectIndex=2", summary)
	}
}

func TestReport_MeanRTExcludesNoResponse(t *testing.T) {
	results := []lca.Result{
		{Response: 1, RT: 0.4},
		{Response: 2, RT: 0.6},
		{Response: lca.NoResponse, RT: 2.0},
	}
	_, summary := Report(results, Options{})

	if got, want := summary.MeanRT, 0.5; got != want {
		t.Errorf("MeanRT = %v, want %v (timeouts excluded)", got, want)
	}
}

func TestReport_Empty(t *testing.T) {
	trials, summary := Report(nil, Options{})
	if len(trials) != 0 {
		t.Errorf("len(trials) = %d, want 0", len(trials))
	}
	if summary.MeanRT != 0 || summary.Trials != 0 {
		t.Errorf("summary = %+v, want zero value", summary)
	}
}
