package repository

import (
	"context"

	"github.com/abastoflow/abastoflow/internal/domain/entity"
)

// PurchaseRepository define el puerto de persistencia para compras (mismo patrón de dos pasos que ventas).
type PurchaseRepository interface {
	CreatePurchase(ctx context.Context, purchase *entity.Purchase) error
	CreatePurchaseItems(ctx context.Context, items []entity.PurchaseItem) error
	DeletePurchase(ctx context.Context, id string) error
	GetByID(ctx context.Context, commerceID, id string) (*entity.Purchase, error)
	ListItems(ctx context.Context, purchaseID string) ([]entity.PurchaseItem, error)
	ListByCommerce(ctx context.Context, commerceID string, limit, offset int) ([]*entity.Purchase, error)
}
