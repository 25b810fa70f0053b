package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/abastoflow/abastoflow/internal/application/dto"
	"github.com/abastoflow/abastoflow/internal/domain"
	"github.com/abastoflow/abastoflow/internal/domain/entity"
	"github.com/abastoflow/abastoflow/internal/domain/repository"
)

// CategoryUseCase alta, listado y baja de categorías.
type CategoryUseCase struct {
	repo repository.CategoryRepository
}

// NewCategoryUseCase construye el caso de uso.
func NewCategoryUseCase(repo repository.CategoryRepository) *CategoryUseCase {
	return &CategoryUseCase{repo: repo}
}

// Create crea una categoría; el nombre es único por comercio (domain.ErrDuplicate).
func (uc *CategoryUseCase) Create(ctx context.Context, commerceID string, in dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	c := &entity.Category{
		ID:         uuid.New().String(),
		CommerceID: commerceID,
		Name:       name,
		CreatedAt:  time.Now(),
	}
	if err := uc.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return &dto.CategoryResponse{ID: c.ID, Name: c.Name, CreatedAt: c.CreatedAt}, nil
}

// List categorías del comercio ordenadas por nombre.
func (uc *CategoryUseCase) List(ctx context.Context, commerceID string) ([]dto.CategoryResponse, error) {
	list, err := uc.repo.ListByCommerce(ctx, commerceID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CategoryResponse, 0, len(list))
	for _, c := range list {
		out = append(out, dto.CategoryResponse{ID: c.ID, Name: c.Name, CreatedAt: c.CreatedAt})
	}
	return out, nil
}

// Delete elimina la categoría; sus productos quedan sin categoría.
func (uc *CategoryUseCase) Delete(ctx context.Context, commerceID, id string) error {
	return uc.repo.Delete(ctx, commerceID, id)
}
