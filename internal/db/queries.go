package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/n-forsell/apicov-dashboard-tui/internal/daterange"
	"github.com/n-forsell/apicov-dashboard-tui/internal/models"
)

const timeFormat = "2006-01-02 15:04:05"

// ErrNotCached is returned when no snapshot exists for the requested key.
var ErrNotCached = errors.New("not cached")

// SaveAPIList replaces the cached record set for a date. The per-date set is
// replaced wholesale, matching the fetch lifecycle: a new fetch supersedes
// everything previously known about that date.
func (db *DB) SaveAPIList(date string, records []models.APIRecord) error {
	tx, err := db.BeginTx(context.Background(), nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM api_snapshots WHERE date = ?`, date); err != nil {
		return fmt.Errorf("failed to clear snapshot for %s: %w", date, err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO api_snapshots (date, name, coverage, usage, total_clients, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare snapshot insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	now := time.Now().UTC().Format(timeFormat)
	for _, r := range records {
		if _, err := stmt.Exec(date, r.Name, r.Coverage.Value(), r.Usage, r.TotalClients, now); err != nil {
			return fmt.Errorf("failed to insert snapshot row %s: %w", r.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit snapshot: %w", err)
	}
	return nil
}

// GetAPIList returns the cached record set for a date, or ErrNotCached.
func (db *DB) GetAPIList(date string) ([]models.APIRecord, error) {
	rows, err := db.QueryContext(context.Background(), `
		SELECT name, coverage, usage, total_clients
		FROM api_snapshots
		WHERE date = ?
		ORDER BY name
	`, date)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshot for %s: %w", date, err)
	}
	defer func() { _ = rows.Close() }()

	var records []models.APIRecord
	for rows.Next() {
		var r models.APIRecord
		var coverage float64
		if err := rows.Scan(&r.Name, &coverage, &r.Usage, &r.TotalClients); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot row: %w", err)
		}
		r.Coverage = models.Percent(coverage)
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read snapshot rows: %w", err)
	}

	if records == nil {
		return nil, ErrNotCached
	}
	return records, nil
}

// ListCachedDates returns every date with a cached record set, ascending.
func (db *DB) ListCachedDates() ([]string, error) {
	rows, err := db.QueryContext(context.Background(), `
		SELECT DISTINCT date FROM api_snapshots ORDER BY date
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list cached dates: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var dates []string
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("failed to scan cached date: %w", err)
		}
		dates = append(dates, d)
	}
	return dates, rows.Err()
}

// SaveSummary caches the summary for a date range.
func (db *DB) SaveSummary(r daterange.Range, s models.Summary) error {
	_, err := db.ExecContext(context.Background(), `
		INSERT INTO summary_snapshots (start_date, end_date, total_apis, avg_coverage, total_calls, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (start_date, end_date) DO UPDATE SET
			total_apis = excluded.total_apis,
			avg_coverage = excluded.avg_coverage,
			total_calls = excluded.total_calls,
			fetched_at = excluded.fetched_at
	`, r.Start, r.End, s.TotalAPIs, s.AvgCoverage, s.TotalCalls, time.Now().UTC().Format(timeFormat))
	if err != nil {
		return fmt.Errorf("failed to save summary snapshot: %w", err)
	}
	return nil
}

// GetSummary returns the cached summary for a date range, or ErrNotCached.
func (db *DB) GetSummary(r daterange.Range) (models.Summary, error) {
	var s models.Summary
	err := db.QueryRowContext(context.Background(), `
		SELECT total_apis, avg_coverage, total_calls
		FROM summary_snapshots
		WHERE start_date = ? AND end_date = ?
	`, r.Start, r.End).Scan(&s.TotalAPIs, &s.AvgCoverage, &s.TotalCalls)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Summary{}, ErrNotCached
	}
	if err != nil {
		return models.Summary{}, fmt.Errorf("failed to query summary snapshot: %w", err)
	}
	return s, nil
}

// Prune deletes snapshots fetched before cutoff and returns the number of
// removed detail rows.
func (db *DB) Prune(cutoff time.Time) (int64, error) {
	ts := cutoff.UTC().Format(timeFormat)

	res, err := db.ExecContext(context.Background(),
		`DELETE FROM api_snapshots WHERE fetched_at < ?`, ts)
	if err != nil {
		return 0, fmt.Errorf("failed to prune api snapshots: %w", err)
	}
	removed, _ := res.RowsAffected()

	if _, err := db.ExecContext(context.Background(),
		`DELETE FROM summary_snapshots WHERE fetched_at < ?`, ts); err != nil {
		return removed, fmt.Errorf("failed to prune summary snapshots: %w", err)
	}
	return removed, nil
}
