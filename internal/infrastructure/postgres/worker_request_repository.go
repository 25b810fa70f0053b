package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/abastoflow/abastoflow/internal/domain"
	"github.com/abastoflow/abastoflow/internal/domain/entity"
	"github.com/abastoflow/abastoflow/internal/domain/repository"
)

var _ repository.WorkerRequestRepository = (*WorkerRequestRepo)(nil)

// WorkerRequestRepo solicitudes de cajero sobre PostgreSQL.
type WorkerRequestRepo struct {
	q Querier
}

func NewWorkerRequestRepository(q Querier) *WorkerRequestRepo {
	return &WorkerRequestRepo{q: q}
}

const workerRequestColumns = `id, jefe_id, worker_full_name, worker_email, worker_password_hash, status, created_at, updated_at`

func scanWorkerRequest(row pgx.Row) (*entity.WorkerRequest, error) {
	var w entity.WorkerRequest
	var status string
	if err := row.Scan(&w.ID, &w.JefeID, &w.WorkerFullName, &w.WorkerEmail, &w.WorkerPasswordHash,
		&status, &w.CreatedAt, &w.UpdatedAt); err != nil {
		return nil, err
	}
	w.Status = entity.WorkerRequestStatus(status)
	return &w, nil
}

func (r *WorkerRequestRepo) Create(ctx context.Context, w *entity.WorkerRequest) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO worker_requests (`+workerRequestColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		w.ID, w.JefeID, w.WorkerFullName, w.WorkerEmail, w.WorkerPasswordHash, string(w.Status), w.CreatedAt, w.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert worker request: %w", err)
	}
	return nil
}

func (r *WorkerRequestRepo) GetByID(ctx context.Context, id string) (*entity.WorkerRequest, error) {
	w, err := scanWorkerRequest(r.q.QueryRow(ctx,
		`SELECT `+workerRequestColumns+` FROM worker_requests WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get worker request: %w", err)
	}
	return w, nil
}

func (r *WorkerRequestRepo) ListByJefe(ctx context.Context, jefeID string) ([]*entity.WorkerRequest, error) {
	return r.list(ctx, `SELECT `+workerRequestColumns+` FROM worker_requests WHERE jefe_id = $1 ORDER BY created_at DESC`, jefeID)
}

func (r *WorkerRequestRepo) ListByStatus(ctx context.Context, status entity.WorkerRequestStatus) ([]*entity.WorkerRequest, error) {
	return r.list(ctx, `SELECT `+workerRequestColumns+` FROM worker_requests WHERE status = $1 ORDER BY created_at ASC`, string(status))
}

func (r *WorkerRequestRepo) list(ctx context.Context, query string, arg any) ([]*entity.WorkerRequest, error) {
	rows, err := r.q.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("list worker requests: %w", err)
	}
	defer rows.Close()
	var list []*entity.WorkerRequest
	for rows.Next() {
		w, err := scanWorkerRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("scan worker request: %w", err)
		}
		list = append(list, w)
	}
	return list, rows.Err()
}

// UpdateStatus transición de estado. Solo se permite desde pending.
func (r *WorkerRequestRepo) UpdateStatus(ctx context.Context, id string, status entity.WorkerRequestStatus) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE worker_requests SET status = $2, updated_at = now()
		WHERE id = $1 AND status = 'pending'`, id, string(status))
	if err != nil {
		return fmt.Errorf("update worker request: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrConflict
	}
	return nil
}
