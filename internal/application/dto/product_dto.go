package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto.
type CreateProductRequest struct {
	Name          string           `json:"name" validate:"required,min=1,max=200"`
	SKU           string           `json:"sku" validate:"omitempty,max=100"`
	Description   string           `json:"description"`
	CategoryID    *string          `json:"category_id" validate:"omitempty,uuid"`
	SalePrice     decimal.Decimal  `json:"sale_price"`
	PurchaseCost  *decimal.Decimal `json:"purchase_cost"`
	CurrentStock  int              `json:"current_stock" validate:"min=0"`
	MinStockAlert *int             `json:"min_stock_alert" validate:"omitempty,min=0"`
}

// UpdateProductRequest entrada para actualizar un producto; nil = sin cambio.
type UpdateProductRequest struct {
	Name          *string          `json:"name" validate:"omitempty,min=1,max=200"`
	SKU           *string          `json:"sku" validate:"omitempty,max=100"`
	Description   *string          `json:"description"`
	CategoryID    *string          `json:"category_id" validate:"omitempty,uuid"`
	SalePrice     *decimal.Decimal `json:"sale_price"`
	PurchaseCost  *decimal.Decimal `json:"purchase_cost"`
	CurrentStock  *int             `json:"current_stock" validate:"omitempty,min=0"`
	MinStockAlert *int             `json:"min_stock_alert" validate:"omitempty,min=0"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID            string           `json:"id"`
	CommerceID    string           `json:"commerce_id"`
	CategoryID    *string          `json:"category_id"`
	Name          string           `json:"name"`
	SKU           string           `json:"sku"`
	Description   string           `json:"description"`
	SalePrice     decimal.Decimal  `json:"sale_price"`
	PurchaseCost  *decimal.Decimal `json:"purchase_cost"`
	CurrentStock  int              `json:"current_stock"`
	MinStockAlert *int             `json:"min_stock_alert"`
	LowStock      bool             `json:"low_stock"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// CreateCategoryRequest entrada para crear una categoría.
type CreateCategoryRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
}

// CategoryResponse salida de una categoría.
type CategoryResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
