package repository

import (
	"context"

	"stocksentix/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel/trace"
)

const createRunsTable = `
CREATE TABLE IF NOT EXISTS analysis_runs (
    id                     TEXT             PRIMARY KEY,
    run_date               TIMESTAMPTZ      NOT NULL,
    requested_by           TEXT             NOT NULL DEFAULT '',
    stock                  TEXT             NOT NULL,
    correlation            DOUBLE PRECISION NOT NULL,
    model                  TEXT             NOT NULL,
    date_from              TEXT             NOT NULL,
    date_to                TEXT             NOT NULL,
    sample_size            INTEGER          NOT NULL,
    run_type               TEXT             NOT NULL,
    prediction_label       TEXT,
    prediction_probability DOUBLE PRECISION
);

CREATE INDEX IF NOT EXISTS idx_analysis_runs_requested_by
    ON analysis_runs (requested_by, run_date DESC);
`

type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// RunRepository stores analysis runs in Postgres.
type RunRepository struct {
	pool   PgxPool
	tracer trace.Tracer
}

func NewRunRepository(pool PgxPool, tracer trace.Tracer) *RunRepository {
	return &RunRepository{pool: pool, tracer: tracer}
}

// RunMigrations creates the runs table when cmd/migrate has not been run.
func (r *RunRepository) RunMigrations(ctx context.Context) error {
	_, span := r.tracer.Start(ctx, "run-repo.run-migrations")
	defer span.End()

	_, err := r.pool.Exec(ctx, createRunsTable)
	return err
}

func (r *RunRepository) Persist(ctx context.Context, run domain.RunRecord) error {
	_, span := r.tracer.Start(ctx, "run-repo.persist")
	defer span.End()

	_, err := r.pool.Exec(ctx,
		`INSERT INTO analysis_runs (id, run_date, requested_by, stock, correlation, model,
		     date_from, date_to, sample_size, run_type, prediction_label, prediction_probability)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 ON CONFLICT (id) DO NOTHING`,
		run.ID, run.Date, run.RequestedBy, run.Stock, run.Correlation, run.Model,
		run.DateFrom, run.DateTo, run.SampleSize, run.RunType, run.PredictionLabel, run.PredictionProbability,
	)
	return err
}

// Recent returns up to filter.Limit runs, newest first. An empty
// RequestedBy matches every requester.
func (r *RunRepository) Recent(ctx context.Context, filter domain.RunFilter) ([]domain.RunRecord, error) {
	_, span := r.tracer.Start(ctx, "run-repo.recent")
	defer span.End()

	rows, err := r.pool.Query(ctx,
		`SELECT id, run_date, requested_by, stock, correlation, model,
		        date_from, date_to, sample_size, run_type, prediction_label, prediction_probability
		 FROM analysis_runs
		 WHERE $1 = '' OR requested_by = $1
		 ORDER BY run_date DESC
		 LIMIT $2`,
		filter.RequestedBy, filter.Limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := []domain.RunRecord{}
	for rows.Next() {
		var run domain.RunRecord
		if err := rows.Scan(
			&run.ID, &run.Date, &run.RequestedBy, &run.Stock, &run.Correlation, &run.Model,
			&run.DateFrom, &run.DateTo, &run.SampleSize, &run.RunType, &run.PredictionLabel, &run.PredictionProbability,
		); err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
