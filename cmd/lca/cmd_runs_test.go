package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/choicelab/lca/internal/store"
)

func newTestRunsCmd() *testCommand {
	cmd := newRunsCmd()
	cmd.Flags().Bool("json", false, "")
	cmd.Flags().String("log-level", "", "")

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	return &testCommand{Command: cmd, out: &out}
}

func TestRuns_List(t *testing.T) {
	dbPath, _ := seedTestDB(t)

	tc := newTestRunsCmd()
	tc.SetArgs([]string{"--db", dbPath})

	if err := tc.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(tc.out.String(), "export-test") {
		t.Errorf("output %q does not list the stored run label", tc.out.String())
	}
}

func TestRuns_JSON(t *testing.T) {
	dbPath, _ := seedTestDB(t)

	tc := newTestRunsCmd()
	tc.SetArgs([]string{"--db", dbPath, "--json"})

	if err := tc.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	var runs []store.Run
	if err := json.Unmarshal(tc.out.Bytes(), &runs); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("len(runs) = %d, want 1", len(runs))
	}
	if runs[0].Seed != 42 {
		t.Errorf("seed = %d, want 42", runs[0].Seed)
	}
}

func TestRuns_MissingDB(t *testing.T) {
	tc := newTestRunsCmd()
	tc.SetArgs(nil)
	if err := tc.Execute(); err == nil {
		t.Error("Execute() error = nil, want --db required error")
	}
}
