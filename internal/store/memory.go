package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// InMemoryRunStore implements RunStore with in-process maps. It is used in
// tests and wherever persistence is not requested.
type InMemoryRunStore struct {
	mu     sync.RWMutex
	nextID int64
	runs   map[int64]Run
	trials map[int64][]Trial
}

// NewInMemoryRunStore creates an empty in-memory run store.
func NewInMemoryRunStore() *InMemoryRunStore {
	return &InMemoryRunStore{
		nextID: 1,
		runs:   make(map[int64]Run),
		trials: make(map[int64][]Trial),
	}
}

// SaveRun stores a run and its trials.
func (s *InMemoryRunStore) SaveRun(ctx context.Context, run Run, trials []Trial) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if run.NTrials == 0 {
		run.NTrials = len(trials)
	}
	if len(trials) != run.NTrials {
		return 0, fmt.Errorf("trial count %d does not match run n_trials %d", len(trials), run.NTrials)
	}

	run.ID = s.nextID
	s.nextID++
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	stored := make([]Trial, len(trials))
	for i, tr := range trials {
		tr.RunID = run.ID
		tr.Index = i
		stored[i] = tr
	}

	s.runs[run.ID] = run
	s.trials[run.ID] = stored
	return run.ID, nil
}

// GetRun returns the run with the given ID.
func (s *InMemoryRunStore) GetRun(ctx context.Context, id int64) (*Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, ok := s.runs[id]
	if !ok {
		return nil, fmt.Errorf("run %d not found", id)
	}
	return &run, nil
}

// ListRuns returns all runs, newest first.
func (s *InMemoryRunStore) ListRuns(ctx context.Context) ([]Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	runs := make([]Run, 0, len(s.runs))
	for _, run := range s.runs {
		runs = append(runs, run)
	}
	sort.Slice(runs, func(i, j int) bool { return runs[i].ID > runs[j].ID })
	return runs, nil
}

// GetTrials returns a run's trials in trial order.
func (s *InMemoryRunStore) GetTrials(ctx context.Context, runID int64) ([]Trial, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	trials, ok := s.trials[runID]
	if !ok {
		return nil, fmt.Errorf("run %d not found", runID)
	}
	out := make([]Trial, len(trials))
	copy(out, trials)
	return out, nil
}

// Close is a no-op for the in-memory store.
func (s *InMemoryRunStore) Close() error {
	return nil
}
