package repository

import (
	"context"

	"github.com/abastoflow/abastoflow/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
// Todas las lecturas van acotadas al comercio dueño.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, commerceID, id string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	ListByCommerce(ctx context.Context, commerceID string, limit, offset int) ([]*entity.Product, error)
	// ListLowStock devuelve productos con alerta > 0 y stock <= alerta, stock ascendente.
	ListLowStock(ctx context.Context, commerceID string, limit int) ([]*entity.Product, error)
	Delete(ctx context.Context, commerceID, id string) error
}
