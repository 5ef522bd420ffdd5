// Package audit records which tools were invoked and how they ended. It never
// stores request parameters or API payloads.
package audit

import (
	"context"
	"fmt"

	"github.com/bturcanu/activecampaign-mcp/pkg/types"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS tool_invocations (
	invocation_id TEXT PRIMARY KEY,
	tool          TEXT        NOT NULL,
	client        TEXT        NOT NULL DEFAULT '',
	status        TEXT        NOT NULL,
	error_kind    TEXT        NOT NULL DEFAULT '',
	error_msg     TEXT        NOT NULL DEFAULT '',
	status_code   INTEGER     NOT NULL DEFAULT 0,
	duration_ms   BIGINT      NOT NULL,
	started_at    TIMESTAMPTZ NOT NULL
);
ALTER TABLE tool_invocations ADD COLUMN IF NOT EXISTS client TEXT NOT NULL DEFAULT '';
CREATE INDEX IF NOT EXISTS tool_invocations_tool_started_idx
	ON tool_invocations (tool, started_at DESC);`

// Store persists invocation records in Postgres.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a new audit store backed by the given connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Connect opens a pool for dsn and makes sure the table exists.
func Connect(ctx context.Context, dsn string) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("audit.Connect: %w", err)
	}
	s := NewStore(pool)
	if err := s.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

// EnsureSchema creates the invocation table if it is missing.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("audit.EnsureSchema: %w", err)
	}
	return nil
}

// RecordInvocation inserts one row. Re-recording the same id is a no-op.
func (s *Store) RecordInvocation(ctx context.Context, inv types.Invocation) error {
	inv.Normalize()
	_, err := s.pool.Exec(ctx, `
		INSERT INTO tool_invocations (
			invocation_id, tool, client, status, error_kind, error_msg,
			status_code, duration_ms, started_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		ON CONFLICT (invocation_id) DO NOTHING`,
		inv.ID, inv.Tool, inv.Client, string(inv.Status), string(inv.ErrorKind), inv.Error,
		inv.StatusCode, inv.DurationMS, inv.StartedAt,
	)
	if err != nil {
		return fmt.Errorf("audit.RecordInvocation: %w", err)
	}
	return nil
}

// Close releases the pool.
func (s *Store) Close() {
	s.pool.Close()
}
