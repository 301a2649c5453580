// Package lock prevents two runs of the same dataset from overlapping, using
// MySQL advisory locks.
package lock

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrLockTimeout is returned when another run holds the lock.
var ErrLockTimeout = errors.New("lock acquisition timed out")

// Timeouts for GET_LOCK, in seconds.
const (
	TimeoutImmediate = 0
	TimeoutShort     = 1
	TimeoutInfinite  = -1
)

// maxLockName is MySQL's limit on lock name length.
const maxLockName = 64

// AdvisoryLock is a named MySQL lock. GET_LOCK is session scoped, so the
// lock pins one connection from the pool between acquire and release.
type AdvisoryLock struct {
	db       *sql.DB
	conn     *sql.Conn
	lockName string
}

// NewAdvisoryLock creates a lock called lockName. Nothing is acquired yet.
func NewAdvisoryLock(db *sql.DB, lockName string) *AdvisoryLock {
	return &AdvisoryLock{db: db, lockName: lockName}
}

// AcquireLock waits up to timeoutSeconds for the lock. It returns false when
// the timeout elapsed with the lock still held elsewhere.
//
// GET_LOCK returns 1 when obtained, 0 on timeout and NULL on error.
func (a *AdvisoryLock) AcquireLock(ctx context.Context, timeoutSeconds int) (bool, error) {
	if a.conn != nil {
		return true, nil
	}

	conn, err := a.db.Conn(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to reserve connection for lock: %w", err)
	}

	var result sql.NullInt64
	if err := conn.QueryRowContext(ctx, "SELECT GET_LOCK(?, ?)", a.lockName, timeoutSeconds).Scan(&result); err != nil {
		conn.Close()
		return false, fmt.Errorf("failed to execute GET_LOCK: %w", err)
	}
	if !result.Valid {
		conn.Close()
		return false, fmt.Errorf("GET_LOCK returned NULL for lock %q", a.lockName)
	}

	switch result.Int64 {
	case 1:
		a.conn = conn
		return true, nil
	case 0:
		conn.Close()
		return false, nil
	default:
		conn.Close()
		return false, fmt.Errorf("unexpected GET_LOCK return value: %d", result.Int64)
	}
}

// ReleaseLock releases the lock and returns its connection to the pool.
// It returns false when the lock was not held.
//
// RELEASE_LOCK returns 1 when released, 0 when held by another session and
// NULL when no such lock exists.
func (a *AdvisoryLock) ReleaseLock(ctx context.Context) (bool, error) {
	if a.conn == nil {
		return false, nil
	}
	conn := a.conn
	a.conn = nil
	defer conn.Close()

	var result sql.NullInt64
	if err := conn.QueryRowContext(ctx, "SELECT RELEASE_LOCK(?)", a.lockName).Scan(&result); err != nil {
		return false, fmt.Errorf("failed to execute RELEASE_LOCK: %w", err)
	}
	if !result.Valid {
		return false, fmt.Errorf("RELEASE_LOCK returned NULL for lock %q (lock did not exist)", a.lockName)
	}
	return result.Int64 == 1, nil
}

// IsHeld reports whether this instance holds the lock.
func (a *AdvisoryLock) IsHeld() bool {
	return a.conn != nil
}

// LockName returns the MySQL lock name.
func (a *AdvisoryLock) LockName() string {
	return a.lockName
}

// AcquireOrFail acquires the lock or returns ErrLockTimeout.
func (a *AdvisoryLock) AcquireOrFail(ctx context.Context, timeoutSeconds int) error {
	acquired, err := a.AcquireLock(ctx, timeoutSeconds)
	if err != nil {
		return err
	}
	if !acquired {
		return fmt.Errorf("%w: lock %q is held by another run", ErrLockTimeout, a.lockName)
	}
	return nil
}

// WithLock runs fn while holding the lock. The lock is released when fn
// returns or panics.
func (a *AdvisoryLock) WithLock(ctx context.Context, timeoutSeconds int, fn func() error) error {
	if err := a.AcquireOrFail(ctx, timeoutSeconds); err != nil {
		return err
	}
	defer func() {
		releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		// The server drops the lock with the session if this fails.
		_, _ = a.ReleaseLock(releaseCtx)
	}()

	return fn()
}

// DatasetLockName returns the lock name for a dataset: "situations:<dataset>".
// Names over MySQL's 64 character limit are shortened with a hash suffix.
func DatasetLockName(dataset string) string {
	sanitized := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_' || r == '-' {
			return r
		}
		return '_'
	}, dataset)

	name := "situations:" + sanitized
	if len(name) > maxLockName {
		sum := sha256.Sum256([]byte(dataset))
		name = name[:maxLockName-13] + ":" + hex.EncodeToString(sum[:6])
	}
	return name
}

// NewDatasetLock creates the advisory lock guarding runs of dataset.
func NewDatasetLock(db *sql.DB, dataset string) *AdvisoryLock {
	return NewAdvisoryLock(db, DatasetLockName(dataset))
}

// IsDatasetRunning reports whether another run holds the dataset's lock.
// The answer may be stale as soon as it is returned.
func IsDatasetRunning(ctx context.Context, db *sql.DB, dataset string) (bool, error) {
	l := NewDatasetLock(db, dataset)
	acquired, err := l.AcquireLock(ctx, TimeoutImmediate)
	if err != nil {
		return false, fmt.Errorf("failed to check if dataset %q is running: %w", dataset, err)
	}
	if acquired {
		_, _ = l.ReleaseLock(ctx)
		return false, nil
	}
	return true, nil
}
