// Package database manages the MySQL connection used by the run ledger.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql" // MySQL driver

	"github.com/dbsmedya/situations/internal/config"
)

// Manager owns the ledger database handle.
type Manager struct {
	DB      *sql.DB
	config  *config.DatabaseConfig
	retries int
	backoff time.Duration
}

// NewManager creates a manager for cfg. Nothing is opened until Connect.
func NewManager(cfg *config.DatabaseConfig) *Manager {
	return &Manager{
		config:  cfg,
		retries: 3,
		backoff: time.Second,
	}
}

// Connect opens and pings the ledger database, retrying with exponential backoff.
func (m *Manager) Connect(ctx context.Context) error {
	if m.config == nil {
		return errors.New("no ledger database configured")
	}
	db, err := m.connectWithRetry(ctx)
	if err != nil {
		return fmt.Errorf("failed to connect to ledger database: %w", err)
	}
	m.DB = db
	return nil
}

func (m *Manager) connectWithRetry(ctx context.Context) (*sql.DB, error) {
	var err error
	backoff := m.backoff

	for i := 0; i < m.retries; i++ {
		var db *sql.DB
		db, err = m.open()
		if err == nil {
			if err = db.PingContext(ctx); err == nil {
				return db, nil
			}
			db.Close()
		}

		if i < m.retries-1 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
				backoff *= 2
			}
		}
	}

	return nil, fmt.Errorf("failed after %d retries: %w", m.retries, err)
}

func (m *Manager) open() (*sql.DB, error) {
	db, err := sql.Open("mysql", BuildDSN(m.config))
	if err != nil {
		return nil, err
	}

	if m.config.MaxConnections > 0 {
		db.SetMaxOpenConns(m.config.MaxConnections)
	}
	if m.config.MaxIdleConnections > 0 {
		db.SetMaxIdleConns(m.config.MaxIdleConnections)
	}
	db.SetConnMaxLifetime(10 * time.Minute)

	return db, nil
}

// BuildDSN constructs a MySQL DSN from configuration.
func BuildDSN(cfg *config.DatabaseConfig) string {
	// user:password@tcp(host:port)/database?params
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.Database,
	)

	params := "?parseTime=true&loc=UTC"
	switch cfg.TLS {
	case "disable":
		params += "&tls=false"
	case "required":
		params += "&tls=true"
	case "preferred", "":
		params += "&tls=preferred"
	}

	return dsn + params
}

// Close closes the ledger connection if it was opened.
func (m *Manager) Close() error {
	if m.DB == nil {
		return nil
	}
	if err := m.DB.Close(); err != nil {
		return fmt.Errorf("ledger close: %w", err)
	}
	m.DB = nil
	return nil
}

// Ping verifies the ledger connection is alive.
func (m *Manager) Ping(ctx context.Context) error {
	if m.DB == nil {
		return errors.New("ledger database not connected")
	}
	if err := m.DB.PingContext(ctx); err != nil {
		return fmt.Errorf("ledger ping failed: %w", err)
	}
	return nil
}
