// Package storage persists run summaries for audit and troubleshooting.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"

	"ShopifySEO/internal/domain"
	"ShopifySEO/internal/ports"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// PostgresRepository stores one row per completed run in seo_runs.
type PostgresRepository struct {
	db *sql.DB
}

var _ ports.RunRepository = (*PostgresRepository)(nil)

// NewPostgresRepository wires a sql.DB implementation.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Open connects to Postgres and verifies the connection.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

// SaveRun inserts the run snapshot.
func (r *PostgresRepository) SaveRun(ctx context.Context, run domain.RunRecord) error {
	if r.db == nil {
		return nil
	}

	query, args, err := psql.Insert("seo_runs").
		Columns("input_file", "output_file", "total_products", "active_products",
			"edited_titles", "duration_ms", "success", "error_message", "created_at").
		Values(run.InputFile, run.OutputFile, run.TotalProducts, run.ActiveProducts,
			run.EditedTitles, run.Duration.Milliseconds(), run.Success, run.ErrorMessage, run.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	return nil
}

// RecentRuns lists the latest runs, newest first.
func (r *PostgresRepository) RecentRuns(ctx context.Context, limit int) ([]domain.RunRecord, error) {
	if r.db == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 20
	}

	query, args, err := psql.Select("input_file", "output_file", "total_products", "active_products",
		"edited_titles", "duration_ms", "success", "error_message", "created_at").
		From("seo_runs").
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.RunRecord
	for rows.Next() {
		var (
			run        domain.RunRecord
			durationMS int64
		)
		if err := rows.Scan(&run.InputFile, &run.OutputFile, &run.TotalProducts, &run.ActiveProducts,
			&run.EditedTitles, &durationMS, &run.Success, &run.ErrorMessage, &run.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		run.Duration = time.Duration(durationMS) * time.Millisecond
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return runs, nil
}
