package history

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS conversion_history (
    id              TEXT PRIMARY KEY,
    source_code     TEXT NOT NULL,
    target_platform TEXT NOT NULL,
    result_url      TEXT NOT NULL DEFAULT '',
    status          TEXT NOT NULL,
    error_message   TEXT NOT NULL DEFAULT '',
    created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_conversion_history_created_at ON conversion_history(created_at DESC);
`

// PostgresSink stores records in the conversion_history table.
type PostgresSink struct {
	pool *pgxpool.Pool
}

// NewPostgresSink connects to databaseURL and creates the table if needed.
func NewPostgresSink(ctx context.Context, databaseURL string) (*PostgresSink, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("history: parse database url: %w", err)
	}
	cfg.MaxConns = 4
	cfg.MaxConnIdleTime = time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("history: create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("history: database unreachable: %w", err)
	}
	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		pool.Close()
		return nil, fmt.Errorf("history: create schema: %w", err)
	}
	return &PostgresSink{pool: pool}, nil
}

func (s *PostgresSink) Add(ctx context.Context, r Record) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO conversion_history (id, source_code, target_platform, result_url, status, error_message, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		r.ID, r.SourceCode, r.TargetPlatform, r.ResultURL, string(r.Status), r.ErrorMessage, r.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("history: insert: %w", err)
	}
	return nil
}

func (s *PostgresSink) List(ctx context.Context, limit int) ([]Record, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, source_code, target_platform, result_url, status, error_message, created_at
		 FROM conversion_history ORDER BY created_at DESC LIMIT $1`, limitOrDefault(limit))
	if err != nil {
		return nil, fmt.Errorf("history: query: %w", err)
	}
	records, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Record, error) {
		var r Record
		var status string
		err := row.Scan(&r.ID, &r.SourceCode, &r.TargetPlatform, &r.ResultURL, &status, &r.ErrorMessage, &r.CreatedAt)
		r.Status = Status(status)
		return r, err
	})
	if err != nil {
		return nil, fmt.Errorf("history: scan: %w", err)
	}
	if records == nil {
		records = []Record{}
	}
	return records, nil
}

func (s *PostgresSink) Close() error {
	s.pool.Close()
	return nil
}

var _ Sink = (*PostgresSink)(nil)
