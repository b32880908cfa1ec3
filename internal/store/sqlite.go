package store

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"sync"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// SQLiteRunStore implements RunStore using SQLite for persistence.
type SQLiteRunStore struct {
	mu sync.RWMutex
	db *sql.DB
}

// NewSQLiteRunStore opens (or creates) the run database at dbPath.
func NewSQLiteRunStore(dbPath string) (*SQLiteRunStore, error) {
	db, err := sql.Open("sqlite", dbPath+"?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite works best with a single writer
	db.SetMaxOpenConns(1)

	if err := InitSchema(context.Background(), db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteRunStore{db: db}, nil
}

// SaveRun stores the run and its trials in a single transaction.
func (s *SQLiteRunStore) SaveRun(ctx context.Context, run Run, trials []Trial) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if run.NTrials == 0 {
		run.NTrials = len(trials)
	}
	if len(trials) != run.NTrials {
		return 0, fmt.Errorf("trial count %d does not match run n_trials %d", len(trials), run.NTrials)
	}
	createdAt := run.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (created_at, label, seed, params, n_trials) VALUES (?, ?, ?, ?, ?)`,
		createdAt.Format(time.RFC3339Nano),
		run.Label,
		strconv.FormatUint(run.Seed, 10),
		run.Params,
		run.NTrials,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO trials (run_id, trial_index, response, rt) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare trial insert: %w", err)
	}
	defer stmt.Close()

	for i, tr := range trials {
		if _, err := stmt.ExecContext(ctx, id, i, tr.Response, tr.RT); err != nil {
			return 0, fmt.Errorf("failed to insert trial %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit run: %w", err)
	}
	return id, nil
}

// GetRun returns the run with the given ID.
func (s *SQLiteRunStore) GetRun(ctx context.Context, id int64) (*Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		`SELECT id, created_at, label, seed, params, n_trials FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run %d: %w", id, err)
	}
	return run, nil
}

// ListRuns returns all runs, newest first.
func (s *SQLiteRunStore) ListRuns(ctx context.Context) ([]Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, label, seed, params, n_trials FROM runs ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

// GetTrials returns a run's trials in trial order.
func (s *SQLiteRunStore) GetTrials(ctx context.Context, runID int64) ([]Trial, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, trial_index, response, rt FROM trials WHERE run_id = ? ORDER BY trial_index`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get trials for run %d: %w", runID, err)
	}
	defer rows.Close()

	var trials []Trial
	for rows.Next() {
		var tr Trial
		if err := rows.Scan(&tr.RunID, &tr.Index, &tr.Response, &tr.RT); err != nil {
			return nil, fmt.Errorf("failed to scan trial: %w", err)
		}
		trials = append(trials, tr)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(trials) == 0 {
		// Distinguish an unknown run from a run with no trials.
		var exists int
		if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM runs WHERE id = ?`, runID).Scan(&exists); err != nil {
			return nil, fmt.Errorf("failed to check run %d: %w", runID, err)
		}
		if exists == 0 {
			return nil, fmt.Errorf("run %d not found", runID)
		}
	}
	return trials, nil
}

// Close closes the database.
func (s *SQLiteRunStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

// scanner abstracts sql.Row and sql.Rows for scanRun.
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (*Run, error) {
	var run Run
	var createdAt, seed string
	if err := sc.Scan(&run.ID, &createdAt, &run.Label, &seed, &run.Params, &run.NTrials); err != nil {
		return nil, err
	}

	t, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("invalid created_at %q: %w", createdAt, err)
	}
	run.CreatedAt = t

	s, err := strconv.ParseUint(seed, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid seed %q: %w", seed, err)
	}
	run.Seed = s

	return &run, nil
}
