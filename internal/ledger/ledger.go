// Package ledger records pipeline runs and their per-source failures in MySQL.
package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dbsmedya/situations/internal/logger"
	"github.com/dbsmedya/situations/internal/upstream"
)

// Status is the outcome of a run.
type Status string

const (
	StatusRunning   Status = "running"
	StatusPublished Status = "published" // artifact written, every source fetched
	StatusPartial   Status = "partial"   // artifact written, some sources failed
	StatusNoChange  Status = "no_change" // nothing new, no artifact
	StatusFailed    Status = "failed"
)

const createRunTableSQL = `
CREATE TABLE IF NOT EXISTS situations_run (
	run_id CHAR(36) PRIMARY KEY,
	dataset VARCHAR(255) NOT NULL,
	run_status VARCHAR(20) NOT NULL,
	started_at DATETIME(3) NOT NULL,
	finished_at DATETIME(3) NULL,
	baseline_rows INT NOT NULL DEFAULT 0,
	fetched_records INT NOT NULL DEFAULT 0,
	added_rows INT NOT NULL DEFAULT 0,
	failed_sources INT NOT NULL DEFAULT 0,
	output_path VARCHAR(1024) NOT NULL DEFAULT '',
	message TEXT,
	INDEX idx_dataset_started (dataset, started_at)
) ENGINE=InnoDB;
`

const createRunErrorTableSQL = `
CREATE TABLE IF NOT EXISTS situations_run_error (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	run_id CHAR(36) NOT NULL,
	source_id VARCHAR(255) NOT NULL DEFAULT '',
	error_message TEXT NOT NULL,
	INDEX idx_run (run_id),
	FOREIGN KEY (run_id) REFERENCES situations_run(run_id) ON DELETE CASCADE
) ENGINE=InnoDB;
`

// Run is one row of situations_run.
type Run struct {
	ID            string
	Dataset       string
	Status        Status
	StartedAt     time.Time
	FinishedAt    *time.Time
	BaselineRows  int
	Fetched       int
	Added         int
	FailedSources int
	OutputPath    string
	Message       string
}

// Duration returns how long the run took, or zero while it is running.
func (r *Run) Duration() time.Duration {
	if r.FinishedAt == nil {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// RunError is one recorded failure of a run.
type RunError struct {
	RunID    string
	SourceID string
	Message  string
}

// Ledger persists run history.
type Ledger struct {
	db     *sql.DB
	logger *logger.Logger
	now    func() time.Time
}

// New creates a Ledger on db.
func New(db *sql.DB, log *logger.Logger) (*Ledger, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Ledger{
		db:     db,
		logger: log,
		now:    func() time.Time { return time.Now().UTC() },
	}, nil
}

// InitializeTables creates the ledger tables if they do not exist.
func (l *Ledger) InitializeTables(ctx context.Context) error {
	if _, err := l.db.ExecContext(ctx, createRunTableSQL); err != nil {
		return fmt.Errorf("failed to create situations_run table: %w", err)
	}
	if _, err := l.db.ExecContext(ctx, createRunErrorTableSQL); err != nil {
		return fmt.Errorf("failed to create situations_run_error table: %w", err)
	}
	l.logger.Debug("Ledger tables initialized")
	return nil
}

// StartRun inserts a running entry for dataset and returns it.
func (l *Ledger) StartRun(ctx context.Context, dataset string) (*Run, error) {
	run := &Run{
		ID:        uuid.NewString(),
		Dataset:   dataset,
		Status:    StatusRunning,
		StartedAt: l.now(),
	}

	_, err := l.db.ExecContext(ctx,
		"INSERT INTO situations_run (run_id, dataset, run_status, started_at) VALUES (?, ?, ?, ?)",
		run.ID, run.Dataset, string(run.Status), run.StartedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to record run start: %w", err)
	}

	l.logger.Debugw("Run started", "run_id", run.ID, "dataset", dataset)
	return run, nil
}

// CompleteRun stores the final state of run and its errors in one transaction.
func (l *Ledger) CompleteRun(ctx context.Context, run *Run, errs []error) (err error) {
	finished := l.now()
	run.FinishedAt = &finished

	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin ledger transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	_, err = tx.ExecContext(ctx,
		`UPDATE situations_run SET run_status = ?, finished_at = ?, baseline_rows = ?, fetched_records = ?,
		added_rows = ?, failed_sources = ?, output_path = ?, message = ? WHERE run_id = ?`,
		string(run.Status), finished, run.BaselineRows, run.Fetched,
		run.Added, run.FailedSources, run.OutputPath, run.Message, run.ID)
	if err != nil {
		return fmt.Errorf("failed to record run completion: %w", err)
	}

	for _, e := range errs {
		if _, err = tx.ExecContext(ctx,
			"INSERT INTO situations_run_error (run_id, source_id, error_message) VALUES (?, ?, ?)",
			run.ID, sourceOf(e), e.Error()); err != nil {
			return fmt.Errorf("failed to record run error: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit ledger transaction: %w", err)
	}
	return nil
}

func sourceOf(err error) string {
	var fe *upstream.FetchError
	if errors.As(err, &fe) {
		return fe.SourceID
	}
	return ""
}

// ListRuns returns the latest runs, newest first. An empty dataset lists all datasets.
func (l *Ledger) ListRuns(ctx context.Context, dataset string, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `SELECT run_id, dataset, run_status, started_at, finished_at, baseline_rows, fetched_records,
		added_rows, failed_sources, output_path, COALESCE(message, '') FROM situations_run`
	args := []any{}
	if dataset != "" {
		query += " WHERE dataset = ?"
		args = append(args, dataset)
	}
	query += " ORDER BY started_at DESC LIMIT ?"
	args = append(args, limit)

	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var status string
		var finished sql.NullTime
		if err := rows.Scan(&r.ID, &r.Dataset, &status, &r.StartedAt, &finished, &r.BaselineRows,
			&r.Fetched, &r.Added, &r.FailedSources, &r.OutputPath, &r.Message); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		r.Status = Status(status)
		if finished.Valid {
			t := finished.Time
			r.FinishedAt = &t
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return runs, nil
}

// RunErrors returns the errors recorded for runID in insertion order.
func (l *Ledger) RunErrors(ctx context.Context, runID string) ([]RunError, error) {
	rows, err := l.db.QueryContext(ctx,
		"SELECT run_id, source_id, error_message FROM situations_run_error WHERE run_id = ? ORDER BY id",
		runID)
	if err != nil {
		return nil, fmt.Errorf("failed to list run errors: %w", err)
	}
	defer rows.Close()

	var out []RunError
	for rows.Next() {
		var e RunError
		if err := rows.Scan(&e.RunID, &e.SourceID, &e.Message); err != nil {
			return nil, fmt.Errorf("failed to scan run error: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Outcome returns the status of a run that completed without a fatal error.
func Outcome(published bool, failedSources int) Status {
	switch {
	case !published:
		return StatusNoChange
	case failedSources > 0:
		return StatusPartial
	default:
		return StatusPublished
	}
}
