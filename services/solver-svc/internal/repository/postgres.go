package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"flownet/pkg/database"
	"flownet/pkg/telemetry"
)

// PostgresRunRepository PostgreSQL реализация
type PostgresRunRepository struct {
	db database.DB
}

// NewPostgresRunRepository создаёт новый репозиторий
func NewPostgresRunRepository(db database.DB) *PostgresRunRepository {
	return &PostgresRunRepository{db: db}
}

func (r *PostgresRunRepository) Create(ctx context.Context, run *Run) error {
	ctx, span := telemetry.StartSpan(ctx, "PostgresRunRepository.Create")
	defer span.End()

	query := `
		INSERT INTO solve_runs (
			name, source, network_hash, max_flow, cached,
			node_count, edge_count, computation_time_ms,
			request_data, result_data
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query,
		run.Name,
		run.Source,
		run.NetworkHash,
		run.MaxFlow,
		run.Cached,
		run.NodeCount,
		run.EdgeCount,
		run.ComputationTimeMs,
		run.RequestData,
		run.ResultData,
	).Scan(&run.ID, &run.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create solve run: %w", err)
	}

	return nil
}

func (r *PostgresRunRepository) GetByID(ctx context.Context, id string) (*Run, error) {
	ctx, span := telemetry.StartSpan(ctx, "PostgresRunRepository.GetByID")
	defer span.End()

	query := `
		SELECT
			id, name, source, network_hash, max_flow, cached,
			node_count, edge_count, computation_time_ms,
			request_data, result_data, created_at
		FROM solve_runs
		WHERE id = $1
	`

	run := &Run{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&run.ID,
		&run.Name,
		&run.Source,
		&run.NetworkHash,
		&run.MaxFlow,
		&run.Cached,
		&run.NodeCount,
		&run.EdgeCount,
		&run.ComputationTimeMs,
		&run.RequestData,
		&run.ResultData,
		&run.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRunNotFound
		}
		return nil, fmt.Errorf("failed to get solve run: %w", err)
	}

	return run, nil
}

func (r *PostgresRunRepository) List(ctx context.Context, opts *ListOptions) ([]*RunSummary, int64, error) {
	ctx, span := telemetry.StartSpan(ctx, "PostgresRunRepository.List")
	defer span.End()

	if opts == nil {
		opts = &ListOptions{Limit: 20}
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}

	where, args := r.buildWhereClause(opts)

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM solve_runs WHERE %s`, where)
	var total int64
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count solve runs: %w", err)
	}

	selectQuery := fmt.Sprintf(`
		SELECT
			id, name, source, max_flow, cached,
			node_count, edge_count, computation_time_ms, created_at
		FROM solve_runs
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, where, len(args)+1, len(args)+2)

	args = append(args, opts.Limit, opts.Offset)

	rows, err := r.db.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list solve runs: %w", err)
	}
	defer rows.Close()

	var results []*RunSummary
	for rows.Next() {
		summary := &RunSummary{}
		err := rows.Scan(
			&summary.ID,
			&summary.Name,
			&summary.Source,
			&summary.MaxFlow,
			&summary.Cached,
			&summary.NodeCount,
			&summary.EdgeCount,
			&summary.ComputationTimeMs,
			&summary.CreatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan solve run: %w", err)
		}
		results = append(results, summary)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows iteration error: %w", err)
	}

	return results, total, nil
}

func (r *PostgresRunRepository) buildWhereClause(opts *ListOptions) (string, []any) {
	conditions := []string{"TRUE"}
	args := []any{}

	if opts.Source != "" {
		conditions = append(conditions, fmt.Sprintf("source = $%d", len(args)+1))
		args = append(args, opts.Source)
	}

	return strings.Join(conditions, " AND "), args
}

func (r *PostgresRunRepository) Delete(ctx context.Context, id string) error {
	ctx, span := telemetry.StartSpan(ctx, "PostgresRunRepository.Delete")
	defer span.End()

	query := `DELETE FROM solve_runs WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete solve run: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrRunNotFound
	}

	return nil
}
