package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kiranshivaraju/shopdash/pkg/models"
)

// PostgresStore implements the Journal interface using pgx/v5.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgresStore.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Ping checks database connectivity.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// --- Refresh runs ---

func (s *PostgresStore) RecordRun(ctx context.Context, run models.RefreshRun) error {
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO refresh_runs (id, controller, run_trigger, status, error, started_at, finished_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		run.ID, run.Controller, run.Trigger, run.Status, run.Error, run.StartedAt, run.FinishedAt)
	if err != nil {
		if isDuplicateKeyError(err) {
			return ErrDuplicateKey
		}
		return fmt.Errorf("record refresh run: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetRun(ctx context.Context, id uuid.UUID) (*models.RefreshRun, error) {
	var r models.RefreshRun
	err := s.pool.QueryRow(ctx,
		`SELECT id, controller, run_trigger, status, error, started_at, finished_at
		 FROM refresh_runs WHERE id = $1`, id,
	).Scan(&r.ID, &r.Controller, &r.Trigger, &r.Status, &r.Error, &r.StartedAt, &r.FinishedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get refresh run: %w", err)
	}
	return &r, nil
}

func (s *PostgresStore) ListRuns(ctx context.Context, filter RunFilter) ([]models.RefreshRun, error) {
	conditions := []string{"1=1"}
	args := []any{}
	argIdx := 1

	if filter.Controller != "" {
		conditions = append(conditions, fmt.Sprintf("controller = $%d", argIdx))
		args = append(args, filter.Controller)
		argIdx++
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, filter.Status)
		argIdx++
	}

	query := fmt.Sprintf(
		`SELECT id, controller, run_trigger, status, error, started_at, finished_at
		 FROM refresh_runs WHERE %s ORDER BY started_at DESC LIMIT $%d`,
		strings.Join(conditions, " AND "), argIdx)
	args = append(args, ClampLimit(filter.Limit))

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list refresh runs: %w", err)
	}
	defer rows.Close()

	runs := []models.RefreshRun{}
	for rows.Next() {
		var r models.RefreshRun
		if err := rows.Scan(&r.ID, &r.Controller, &r.Trigger, &r.Status, &r.Error,
			&r.StartedAt, &r.FinishedAt); err != nil {
			return nil, fmt.Errorf("scan refresh run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// --- Reschedules ---

func (s *PostgresStore) RecordReschedule(ctx context.Context, rec models.RescheduleRecord) error {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO reschedule_results (id, event_id, title, start_at, end_at, ok, status_code, reason, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		rec.ID, rec.EventID, rec.Title, rec.Start, rec.End, rec.OK, rec.StatusCode, rec.Reason, rec.CreatedAt)
	if err != nil {
		if isDuplicateKeyError(err) {
			return ErrDuplicateKey
		}
		return fmt.Errorf("record reschedule: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListReschedules(ctx context.Context, filter RescheduleFilter) ([]models.RescheduleRecord, error) {
	where := ""
	if filter.FailedOnly {
		where = "WHERE NOT ok"
	}
	query := fmt.Sprintf(
		`SELECT id, event_id, title, start_at, end_at, ok, status_code, reason, created_at
		 FROM reschedule_results %s ORDER BY created_at DESC LIMIT $1`, where)

	rows, err := s.pool.Query(ctx, query, ClampLimit(filter.Limit))
	if err != nil {
		return nil, fmt.Errorf("list reschedules: %w", err)
	}
	defer rows.Close()

	recs := []models.RescheduleRecord{}
	for rows.Next() {
		var r models.RescheduleRecord
		if err := rows.Scan(&r.ID, &r.EventID, &r.Title, &r.Start, &r.End, &r.OK,
			&r.StatusCode, &r.Reason, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan reschedule: %w", err)
		}
		recs = append(recs, r)
	}
	return recs, rows.Err()
}

// isDuplicateKeyError checks if a pgx error is a unique constraint violation.
func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return false
}
