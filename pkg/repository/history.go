// Package repository persists the refresh audit trail to SQLite. The store
// itself is memory-only; this history is write-mostly and survives restarts
// for operational review.
package repository

import (
	"context"
	"embed"
	"fmt"
	"strings"
	"time"

	"github.com/go-pkgz/repeater/v2"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // pure Go SQLite driver

	"github.com/umputun/relbot/pkg/domain"
)

//go:embed schema.sql
var schemaFS embed.FS

// Config represents database configuration
type Config struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// History records refresh attempts in SQLite
type History struct {
	db *sqlx.DB
}

// NewHistory opens the database, applies pragmas and initializes the schema
func NewHistory(ctx context.Context, cfg Config) (*History, error) {
	if cfg.DSN == "" {
		cfg.DSN = "file:relbot.db?cache=shared&mode=rwc&_txlock=immediate"
	}

	db, err := sqlx.Open("sqlite", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA temp_store = MEMORY",
		"PRAGMA busy_timeout = 5000", // 5 second timeout for locks
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			return nil, fmt.Errorf("execute %s: %w", pragma, err)
		}
	}

	schema, err := schemaFS.ReadFile("schema.sql")
	if err != nil {
		return nil, fmt.Errorf("read schema: %w", err)
	}
	if _, err := db.ExecContext(ctx, string(schema)); err != nil {
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &History{db: db}, nil
}

// Close closes the database connection
func (h *History) Close() error {
	return h.db.Close()
}

// Ping verifies the database connection
func (h *History) Ping(ctx context.Context) error {
	return h.db.PingContext(ctx)
}

// dbRecord is the database representation of a refresh record
type dbRecord struct {
	ID           int64     `db:"id"`
	Reason       string    `db:"reason"`
	StartedAt    time.Time `db:"started_at"`
	FinishedAt   time.Time `db:"finished_at"`
	Outcome      string    `db:"outcome"`
	Error        string    `db:"error"`
	Entries      int       `db:"entries"`
	SummaryChars int       `db:"summary_chars"`
}

// Record inserts a completed refresh attempt, retrying on SQLite lock errors
func (h *History) Record(ctx context.Context, rec domain.RefreshRecord) error {
	retrier := repeater.NewBackoff(5, 50*time.Millisecond, repeater.WithMaxDelay(2*time.Second))

	return retrier.Do(ctx, func() error {
		query := `
			INSERT INTO refresh_history (reason, started_at, finished_at, outcome, error, entries, summary_chars)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`
		_, err := h.db.ExecContext(ctx, query, rec.Reason, rec.StartedAt, rec.FinishedAt,
			string(rec.Outcome), rec.Error, rec.Entries, rec.SummaryChars)
		if err != nil {
			if isLockError(err) {
				return err // retry
			}
			return &criticalError{err: fmt.Errorf("insert refresh record: %w", err)}
		}
		return nil
	})
}

// Recent returns the most recent refresh attempts, newest first
func (h *History) Recent(ctx context.Context, limit int) ([]domain.RefreshRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	var rows []dbRecord
	query := `
		SELECT id, reason, started_at, finished_at, outcome, error, entries, summary_chars
		FROM refresh_history
		ORDER BY started_at DESC
		LIMIT ?
	`
	if err := h.db.SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, fmt.Errorf("get recent refresh records: %w", err)
	}

	records := make([]domain.RefreshRecord, len(rows))
	for i, row := range rows {
		records[i] = domain.RefreshRecord{
			Reason:       row.Reason,
			StartedAt:    row.StartedAt,
			FinishedAt:   row.FinishedAt,
			Outcome:      domain.Outcome(row.Outcome),
			Error:        row.Error,
			Entries:      row.Entries,
			SummaryChars: row.SummaryChars,
		}
	}
	return records, nil
}

// CountByOutcome returns the number of recorded attempts per outcome
func (h *History) CountByOutcome(ctx context.Context) (map[domain.Outcome]int, error) {
	var rows []struct {
		Outcome string `db:"outcome"`
		Count   int    `db:"count"`
	}
	query := `SELECT outcome, COUNT(*) AS count FROM refresh_history GROUP BY outcome`
	if err := h.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("count refresh records: %w", err)
	}

	counts := make(map[domain.Outcome]int, len(rows))
	for _, row := range rows {
		counts[domain.Outcome(row.Outcome)] = row.Count
	}
	return counts, nil
}

// criticalError wraps an error to signal repeater to stop retrying
type criticalError struct {
	err error
}

func (e *criticalError) Error() string {
	return e.err.Error()
}

// isLockError checks if an error is a SQLite lock/busy error
func isLockError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "SQLITE_BUSY") ||
		strings.Contains(errStr, "database is locked") ||
		strings.Contains(errStr, "database table is locked")
}
