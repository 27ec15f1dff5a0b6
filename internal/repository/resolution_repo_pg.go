package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Domenick1991/travelquery/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const resolutionLogSchema = `CREATE TABLE IF NOT EXISTS resolution_log (
	id              UUID PRIMARY KEY,
	query           TEXT NOT NULL,
	params          JSONB NOT NULL DEFAULT '{}',
	source          TEXT NOT NULL,
	fallback_reason TEXT NOT NULL DEFAULT '',
	error           TEXT NOT NULL DEFAULT '',
	duration_ms     BIGINT NOT NULL,
	occurred_at     TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS resolution_log_occurred_at_idx ON resolution_log (occurred_at)`

type ResolutionRepository interface {
	EnsureSchema(ctx context.Context) error
	Insert(ctx context.Context, event domain.ResolutionEvent) error
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
	SummarySince(ctx context.Context, since time.Time) ([]SourceSummary, error)
}

// SourceSummary counts resolutions per query kind and source.
type SourceSummary struct {
	Query    domain.QueryKind
	Source   domain.Source
	Total    int64
	Failures int64
}

type PGResolutionRepository struct {
	db *pgxpool.Pool
}

func NewResolutionRepository(db *pgxpool.Pool) ResolutionRepository {
	return &PGResolutionRepository{db: db}
}

func (r *PGResolutionRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.db.Exec(ctx, resolutionLogSchema)
	return err
}

// Insert is idempotent on event id so redelivered messages are harmless.
func (r *PGResolutionRepository) Insert(ctx context.Context, event domain.ResolutionEvent) error {
	args, err := insertArgs(event)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO resolution_log (id, query, params, source, fallback_reason, error, duration_ms, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO NOTHING`, args...)
	return err
}

func (r *PGResolutionRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM resolution_log WHERE occurred_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *PGResolutionRepository) SummarySince(ctx context.Context, since time.Time) ([]SourceSummary, error) {
	rows, err := r.db.Query(ctx, `SELECT query, source, count(*), count(*) FILTER (WHERE error <> '')
		FROM resolution_log WHERE occurred_at >= $1
		GROUP BY query, source ORDER BY query, source`, since)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (SourceSummary, error) {
		var s SourceSummary
		err := row.Scan(&s.Query, &s.Source, &s.Total, &s.Failures)
		return s, err
	})
}

func insertArgs(event domain.ResolutionEvent) ([]any, error) {
	params := event.Params
	if params == nil {
		params = map[string]string{}
	}
	paramsJSON, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("encode params: %w", err)
	}
	return []any{
		event.ID,
		string(event.Query),
		paramsJSON,
		string(event.Source),
		event.FallbackReason,
		event.Error,
		event.DurationMs,
		event.OccurredAt,
	}, nil
}
