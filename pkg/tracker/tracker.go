// Package tracker records and queries tool invocation usage.
package tracker

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/tavbridge-ai/tavbridge/pkg/models"
)

// Tracker records and queries invocations.
type Tracker interface {
	// Record stores one invocation.
	Record(ctx context.Context, inv models.Invocation) error
	// Summary returns per-operation aggregates.
	Summary(ctx context.Context) ([]models.UsageSummary, error)
	// Recent returns the newest invocations, up to limit.
	Recent(ctx context.Context, limit int) ([]models.Invocation, error)
	// Close releases resources.
	Close() error
}

// SQLiteTracker implements Tracker with a SQLite database.
type SQLiteTracker struct {
	db *sql.DB
}

const createTable = `
CREATE TABLE IF NOT EXISTS invocations (
	id TEXT PRIMARY KEY,
	operation TEXT NOT NULL,
	duration_ms INTEGER NOT NULL,
	cache_hit INTEGER NOT NULL DEFAULT 0,
	error_code TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_invocations_op_time ON invocations(operation, created_at);
`

// New creates a SQLiteTracker and runs auto-migration. An empty dbPath
// keeps the database in memory for the lifetime of the process.
func New(dbPath string) (*SQLiteTracker, error) {
	if dbPath == "" {
		dbPath = ":memory:"
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open usage db: %w", err)
	}

	if _, err := db.Exec(createTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate usage db: %w", err)
	}

	return &SQLiteTracker{db: db}, nil
}

// generateID creates an invocation ID like inv_a3f9c2b41d.
func generateID() string {
	buf := make([]byte, 5)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Sprintf("inv_%d", time.Now().UnixNano())
	}
	return "inv_" + hex.EncodeToString(buf)
}

// Record stores one invocation.
func (t *SQLiteTracker) Record(ctx context.Context, inv models.Invocation) error {
	if inv.ID == "" {
		inv.ID = generateID()
	}
	if inv.CreatedAt.IsZero() {
		inv.CreatedAt = time.Now().UTC()
	}

	_, err := t.db.ExecContext(ctx,
		`INSERT INTO invocations (id, operation, duration_ms, cache_hit, error_code, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		inv.ID, inv.Operation, inv.DurationMs, boolToInt(inv.CacheHit), inv.ErrorCode, inv.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("record invocation: %w", err)
	}
	return nil
}

// Summary returns per-operation aggregates, busiest operations first.
func (t *SQLiteTracker) Summary(ctx context.Context) ([]models.UsageSummary, error) {
	rows, err := t.db.QueryContext(ctx,
		`SELECT operation,
		        COUNT(*),
		        SUM(CASE WHEN error_code != '' THEN 1 ELSE 0 END),
		        SUM(cache_hit),
		        CAST(AVG(duration_ms) AS INTEGER)
		 FROM invocations
		 GROUP BY operation
		 ORDER BY COUNT(*) DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("usage summary: %w", err)
	}
	defer rows.Close()

	var out []models.UsageSummary
	for rows.Next() {
		var s models.UsageSummary
		if err := rows.Scan(&s.Operation, &s.Count, &s.Errors, &s.CacheHits, &s.AvgDurationMs); err != nil {
			return nil, fmt.Errorf("scan summary: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Recent returns the newest invocations, up to limit.
func (t *SQLiteTracker) Recent(ctx context.Context, limit int) ([]models.Invocation, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := t.db.QueryContext(ctx,
		`SELECT id, operation, duration_ms, cache_hit, error_code, created_at
		 FROM invocations
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("recent invocations: %w", err)
	}
	defer rows.Close()

	var out []models.Invocation
	for rows.Next() {
		var inv models.Invocation
		var cacheHit int
		if err := rows.Scan(&inv.ID, &inv.Operation, &inv.DurationMs, &cacheHit, &inv.ErrorCode, &inv.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan invocation: %w", err)
		}
		inv.CacheHit = cacheHit != 0
		out = append(out, inv)
	}
	return out, rows.Err()
}

// Close releases the database connection.
func (t *SQLiteTracker) Close() error {
	return t.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
