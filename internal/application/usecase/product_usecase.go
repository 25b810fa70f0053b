package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/abastoflow/abastoflow/internal/application/dto"
	"github.com/abastoflow/abastoflow/internal/domain"
	"github.com/abastoflow/abastoflow/internal/domain/entity"
	"github.com/abastoflow/abastoflow/internal/domain/repository"
)

const lowStockListLimit = 100

// ProductUseCase casos de uso CRUD para productos de un comercio.
// El stock lo ajustan después los triggers de ventas y compras.
type ProductUseCase struct {
	repo repository.ProductRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo}
}

func validProductValues(price decimal.Decimal, cost *decimal.Decimal, stock int, alert *int) bool {
	if price.IsNegative() || stock < 0 {
		return false
	}
	if cost != nil && cost.IsNegative() {
		return false
	}
	if alert != nil && *alert < 0 {
		return false
	}
	return true
}

// Create crea un producto. Devuelve domain.ErrDuplicate si el SKU ya existe en el comercio.
func (uc *ProductUseCase) Create(ctx context.Context, commerceID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" || !validProductValues(in.SalePrice, in.PurchaseCost, in.CurrentStock, in.MinStockAlert) {
		return nil, domain.ErrInvalidInput
	}
	if !validCategory(in.CategoryID) {
		return nil, fmt.Errorf("category_id: %w", domain.ErrInvalidInput)
	}
	now := time.Now()
	product := &entity.Product{
		ID:            uuid.New().String(),
		CommerceID:    commerceID,
		CategoryID:    emptyToNil(in.CategoryID),
		Name:          name,
		SKU:           strings.TrimSpace(in.SKU),
		Description:   in.Description,
		SalePrice:     in.SalePrice,
		PurchaseCost:  in.PurchaseCost,
		CurrentStock:  in.CurrentStock,
		MinStockAlert: in.MinStockAlert,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto del comercio; nil si no existe.
func (uc *ProductUseCase) GetByID(ctx context.Context, commerceID, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, commerceID, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	return toProductResponse(product), nil
}

// Update actualiza los campos presentes en la petición.
func (uc *ProductUseCase) Update(ctx context.Context, commerceID, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	if !validCategory(in.CategoryID) {
		return nil, fmt.Errorf("category_id: %w", domain.ErrInvalidInput)
	}
	product, err := uc.repo.GetByID(ctx, commerceID, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	if in.Name != nil {
		product.Name = strings.TrimSpace(*in.Name)
	}
	if in.SKU != nil {
		product.SKU = strings.TrimSpace(*in.SKU)
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.CategoryID != nil {
		product.CategoryID = emptyToNil(in.CategoryID)
	}
	if in.SalePrice != nil {
		product.SalePrice = *in.SalePrice
	}
	if in.PurchaseCost != nil {
		product.PurchaseCost = in.PurchaseCost
	}
	if in.CurrentStock != nil {
		product.CurrentStock = *in.CurrentStock
	}
	if in.MinStockAlert != nil {
		product.MinStockAlert = in.MinStockAlert
	}
	if product.Name == "" || !validProductValues(product.SalePrice, product.PurchaseCost, product.CurrentStock, product.MinStockAlert) {
		return nil, domain.ErrInvalidInput
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// List lista productos del comercio con paginación.
func (uc *ProductUseCase) List(ctx context.Context, commerceID string, limit, offset int) (*dto.ProductListResponse, error) {
	list, err := uc.repo.ListByCommerce(ctx, commerceID, limit, offset)
	if err != nil {
		return nil, err
	}
	return &dto.ProductListResponse{
		Items: toProductResponses(list),
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// ListLowStock productos con alerta configurada y stock en o bajo el umbral.
func (uc *ProductUseCase) ListLowStock(ctx context.Context, commerceID string) ([]dto.ProductResponse, error) {
	list, err := uc.repo.ListLowStock(ctx, commerceID, lowStockListLimit)
	if err != nil {
		return nil, err
	}
	return toProductResponses(list), nil
}

// Delete elimina un producto del comercio.
func (uc *ProductUseCase) Delete(ctx context.Context, commerceID, id string) error {
	return uc.repo.Delete(ctx, commerceID, id)
}

// validCategory acepta la categoría ausente o vacía (sin categoría) o un UUID.
func validCategory(id *string) bool {
	c := emptyToNil(id)
	return c == nil || domain.ValidID(*c)
}

func emptyToNil(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}

func toProductResponses(list []*entity.Product) []dto.ProductResponse {
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return items
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:            p.ID,
		CommerceID:    p.CommerceID,
		CategoryID:    p.CategoryID,
		Name:          p.Name,
		SKU:           p.SKU,
		Description:   p.Description,
		SalePrice:     p.SalePrice,
		PurchaseCost:  p.PurchaseCost,
		CurrentStock:  p.CurrentStock,
		MinStockAlert: p.MinStockAlert,
		LowStock:      p.IsLowStock(),
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}
