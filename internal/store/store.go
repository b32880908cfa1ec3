// Package store persists simulation runs and their per-trial results.
package store

import (
	"context"
	"time"
)

// Run is the provenance record for one simulation invocation: when it
// happened, how it was seeded, and the parameters it used.
type Run struct {
	ID        int64     `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Label     string    `json:"label,omitempty"`
	Seed      uint64    `json:"seed"`
	Params    string    `json:"params"` // JSON-encoded lca.Params
	NTrials   int       `json:"n_trials"`
}

// Trial is one stored trial outcome, index-aligned with simulation order.
type Trial struct {
	RunID    int64   `json:"run_id"`
	Index    int     `json:"trial"`
	Response int     `json:"response"`
	RT       float64 `json:"rt"`
}

// RunStore defines the interface for persisting and querying runs.
type RunStore interface {
	// SaveRun stores a run and its trials atomically, returning the
	// assigned run ID.
	SaveRun(ctx context.Context, run Run, trials []Trial) (int64, error)

	// GetRun returns the run with the given ID.
	GetRun(ctx context.Context, id int64) (*Run, error)

	// ListRuns returns all runs, newest first.
	ListRuns(ctx context.Context) ([]Run, error)

	// GetTrials returns a run's trials in trial order.
	GetTrials(ctx context.Context, runID int64) ([]Trial, error)

	// Close releases underlying resources.
	Close() error
}
