// Package db manages the local snapshot cache. Fetched per-date API lists
// and range summaries are persisted so the dashboard can render the most
// recent data while a refresh is in flight or the service is unreachable.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	// Register the pure-Go sqlite driver.
	_ "modernc.org/sqlite"
)

// DB wraps the SQL database connection with application-specific methods.
type DB struct {
	*sql.DB
	path string
}

// New creates a new database connection and initializes the schema.
func New(path string) (*DB, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create cache directory: %w", err)
		}
	}

	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	if err := sqlDB.PingContext(context.Background()); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to connect to cache database: %w", err)
	}

	db := &DB{
		DB:   sqlDB,
		path: path,
	}

	if err := db.configure(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to configure cache database: %w", err)
	}

	if err := db.createSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create cache schema: %w", err)
	}

	return db, nil
}

// Path returns the database file path.
func (db *DB) Path() string {
	return db.path
}

// configure sets up database pragmas.
func (db *DB) configure() error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	}

	for _, pragma := range pragmas {
		if _, err := db.ExecContext(context.Background(), pragma); err != nil {
			return fmt.Errorf("failed to execute %s: %w", pragma, err)
		}
	}
	return nil
}

func (db *DB) createSchema() error {
	if err := db.createAPISnapshotsTable(); err != nil {
		return err
	}
	return db.createSummarySnapshotsTable()
}

func (db *DB) createAPISnapshotsTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS api_snapshots (
		date TEXT NOT NULL,
		name TEXT NOT NULL,
		coverage REAL NOT NULL DEFAULT 0,
		usage INTEGER NOT NULL DEFAULT 0,
		total_clients INTEGER NOT NULL DEFAULT 0,
		fetched_at TEXT NOT NULL,
		PRIMARY KEY (date, name)
	);
	CREATE INDEX IF NOT EXISTS idx_api_snapshots_date ON api_snapshots(date);
	`
	_, err := db.ExecContext(context.Background(), query)
	return err
}

func (db *DB) createSummarySnapshotsTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS summary_snapshots (
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		total_apis INTEGER NOT NULL DEFAULT 0,
		avg_coverage REAL NOT NULL DEFAULT 0,
		total_calls INTEGER NOT NULL DEFAULT 0,
		fetched_at TEXT NOT NULL,
		PRIMARY KEY (start_date, end_date)
	);
	`
	_, err := db.ExecContext(context.Background(), query)
	return err
}
