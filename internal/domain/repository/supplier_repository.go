package repository

import (
	"context"

	"github.com/abastoflow/abastoflow/internal/domain/entity"
)

// SupplierRepository define el puerto de persistencia para Supplier (DIP).
type SupplierRepository interface {
	Create(ctx context.Context, supplier *entity.Supplier) error
	GetByID(ctx context.Context, commerceID, id string) (*entity.Supplier, error)
	Update(ctx context.Context, supplier *entity.Supplier) error
	ListByCommerce(ctx context.Context, commerceID string) ([]*entity.Supplier, error)
	Delete(ctx context.Context, commerceID, id string) error
}
