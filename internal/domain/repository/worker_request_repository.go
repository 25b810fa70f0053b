package repository

import (
	"context"

	"github.com/abastoflow/abastoflow/internal/domain/entity"
)

// WorkerRequestRepository define el puerto de persistencia para solicitudes de cajero.
type WorkerRequestRepository interface {
	Create(ctx context.Context, req *entity.WorkerRequest) error
	GetByID(ctx context.Context, id string) (*entity.WorkerRequest, error)
	ListByJefe(ctx context.Context, jefeID string) ([]*entity.WorkerRequest, error)
	ListByStatus(ctx context.Context, status entity.WorkerRequestStatus) ([]*entity.WorkerRequest, error)
	UpdateStatus(ctx context.Context, id string, status entity.WorkerRequestStatus) error
}
