package repository

import (
	"context"

	"github.com/abastoflow/abastoflow/internal/domain/entity"
)

// CategoryRepository define el puerto de persistencia para Category (DIP).
type CategoryRepository interface {
	Create(ctx context.Context, category *entity.Category) error
	ListByCommerce(ctx context.Context, commerceID string) ([]*entity.Category, error)
	Delete(ctx context.Context, commerceID, id string) error
}
