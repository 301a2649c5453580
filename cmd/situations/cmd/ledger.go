package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dbsmedya/situations/internal/config"
	"github.com/dbsmedya/situations/internal/database"
	"github.com/dbsmedya/situations/internal/ledger"
	"github.com/dbsmedya/situations/internal/lock"
	"github.com/dbsmedya/situations/internal/logger"
	"github.com/dbsmedya/situations/internal/pipeline"
)

// openLedger connects to the ledger database and makes sure its tables exist.
func openLedger(ctx context.Context, cfg *config.Config, log *logger.Logger) (*database.Manager, *ledger.Ledger, error) {
	dbManager := database.NewManager(&cfg.Ledger.Database)
	if err := dbManager.Connect(ctx); err != nil {
		return nil, nil, err
	}

	l, err := ledger.New(dbManager.DB, log)
	if err != nil {
		dbManager.Close()
		return nil, nil, err
	}
	if err := l.InitializeTables(ctx); err != nil {
		dbManager.Close()
		return nil, nil, err
	}
	return dbManager, l, nil
}

// runRecord tracks one run in the ledger while holding the dataset lock.
type runRecord struct {
	dbManager *database.Manager
	ledger    *ledger.Ledger
	lock      *lock.AdvisoryLock
	run       *ledger.Run
	log       *logger.Logger
}

// startRunRecord opens the ledger, takes the dataset lock unless force is set,
// and records the run as started.
func startRunRecord(ctx context.Context, cfg *config.Config, key string, force bool, log *logger.Logger) (*runRecord, error) {
	dbManager, l, err := openLedger(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	rec := &runRecord{dbManager: dbManager, ledger: l, log: log}

	if !force {
		datasetLock := lock.NewDatasetLock(dbManager.DB, key)
		if err := datasetLock.AcquireOrFail(ctx, cfg.Ledger.LockTimeoutSeconds); err != nil {
			dbManager.Close()
			if errors.Is(err, lock.ErrLockTimeout) {
				return nil, fmt.Errorf("dataset '%s' is already running on another instance (use --force to override)", key)
			}
			return nil, fmt.Errorf("failed to acquire dataset lock: %w", err)
		}
		rec.lock = datasetLock
		log.Infow("Acquired advisory lock for dataset", "lock", datasetLock.LockName())
	} else {
		log.Warnw("Skipping advisory lock acquisition (--force flag used)", "dataset", key)
	}

	run, err := l.StartRun(ctx, key)
	if err != nil {
		rec.close()
		return nil, err
	}
	rec.run = run
	rec.log = log.WithRun(run.ID)
	return rec, nil
}

// finish stores the outcome of the run. It uses its own context so a run
// interrupted by a signal is still recorded.
func (r *runRecord) finish(stats pipeline.Stats, res *pipeline.Result, runErr error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	r.run.BaselineRows = stats.BaselineRows
	r.run.Fetched = stats.Fetched
	r.run.Added = stats.Added
	r.run.FailedSources = stats.FailedSources

	var errs []error
	switch {
	case runErr != nil:
		r.run.Status = ledger.StatusFailed
		r.run.Message = runErr.Error()
	default:
		errs = res.Errors
		if res.Artifact != nil {
			r.run.OutputPath = res.Artifact.CSVPath
		}
		r.run.Status = ledger.Outcome(res.Artifact != nil, stats.FailedSources)
	}

	if err := r.ledger.CompleteRun(ctx, r.run, errs); err != nil {
		r.log.Errorw("Failed to record run outcome", "error", err)
		return
	}
	r.log.Infow("Run recorded", "status", r.run.Status, "duration", r.run.Duration())
}

func (r *runRecord) close() {
	if r.lock != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if _, err := r.lock.ReleaseLock(ctx); err != nil {
			r.log.Warnw("Failed to release dataset lock", "error", err)
		}
	}
	r.dbManager.Close()
}
