package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// IntegrationRollup is one provider's daily telemetry rollup row, persisted
// indefinitely once flushed.
type IntegrationRollup struct {
	Provider      string    `db:"provider"`
	Date          string    `db:"rollup_date"`
	TotalCalls    int       `db:"total_calls"`
	ErrorCount    int       `db:"error_count"`
	CacheHitCount int       `db:"cache_hit_count"`
	MeanLatencyMs float64   `db:"mean_latency_ms"`
	CreatedAt     time.Time `db:"created_at"`
}

// RollupRepo persists daily integration rollups to Postgres via sqlx; a pq
// error's code is included in the wrapped error it returns.
type RollupRepo struct {
	db      *sqlx.DB
	timeout time.Duration
}

// NewRollupRepo wraps an existing sqlx connection pool.
func NewRollupRepo(db *sqlx.DB, timeout time.Duration) *RollupRepo {
	return &RollupRepo{db: db, timeout: timeout}
}

// Upsert inserts or replaces one provider's rollup for a given date.
func (r *RollupRepo) Upsert(ctx context.Context, roll IntegrationRollup) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := `
		INSERT INTO integration_rollups (provider, rollup_date, total_calls, error_count, cache_hit_count, mean_latency_ms)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (provider, rollup_date) DO UPDATE SET
			total_calls = EXCLUDED.total_calls,
			error_count = EXCLUDED.error_count,
			cache_hit_count = EXCLUDED.cache_hit_count,
			mean_latency_ms = EXCLUDED.mean_latency_ms`

	_, err := r.db.ExecContext(ctx, query,
		roll.Provider, roll.Date, roll.TotalCalls, roll.ErrorCount, roll.CacheHitCount, roll.MeanLatencyMs)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return fmt.Errorf("persistence: upserting rollup for %s (%s): %w", roll.Provider, pqErr.Code, err)
		}
		return fmt.Errorf("persistence: upserting rollup for %s: %w", roll.Provider, err)
	}
	return nil
}

// ListByDate returns every provider's rollup for a given ET date.
func (r *RollupRepo) ListByDate(ctx context.Context, date string) ([]IntegrationRollup, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var rows []IntegrationRollup
	err := r.db.SelectContext(ctx, &rows,
		`SELECT provider, rollup_date, total_calls, error_count, cache_hit_count, mean_latency_ms, created_at
		 FROM integration_rollups WHERE rollup_date = $1 ORDER BY provider`, date)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("persistence: listing rollups for %s: %w", date, err)
	}
	return rows, nil
}

// marshalAttrs encodes a free-form detail blob for storage alongside a
// rollup row.
func marshalAttrs(v interface{}) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("persistence: marshaling attrs: %w", err)
	}
	return data, nil
}
