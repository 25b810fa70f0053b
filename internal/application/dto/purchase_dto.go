package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseLineRequest línea de una compra a registrar.
type PurchaseLineRequest struct {
	ProductID string          `json:"product_id" validate:"required,uuid"`
	Quantity  int             `json:"quantity" validate:"required,min=1"`
	Cost      decimal.Decimal `json:"cost"`
}

// RegisterPurchaseRequest compra completa con sus líneas.
type RegisterPurchaseRequest struct {
	SupplierName string                `json:"supplier_name" validate:"omitempty,max=200"`
	PurchaseDate string                `json:"purchase_date"` // YYYY-MM-DD; vacío = hoy
	Notes        string                `json:"notes"`
	Lines        []PurchaseLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// RegisterPurchaseResponse resultado del registro.
type RegisterPurchaseResponse struct {
	PurchaseID  string          `json:"purchase_id"`
	Outcome     string          `json:"outcome"`
	TotalCost   decimal.Decimal `json:"total_cost"`
	Compensated bool            `json:"compensated,omitempty"`
}

// CreatePurchaseRequest cabecera de compra (primer paso remoto).
type CreatePurchaseRequest struct {
	ID           string          `json:"id" validate:"required,uuid"`
	SupplierName string          `json:"supplier_name"`
	PurchaseDate time.Time       `json:"purchase_date"`
	TotalCost    decimal.Decimal `json:"total_cost"`
	Notes        string          `json:"notes"`
}

// PurchaseItemRequest una línea del lote.
type PurchaseItemRequest struct {
	ID          string          `json:"id"`
	PurchaseID  string          `json:"purchase_id" validate:"required,uuid"`
	ProductID   string          `json:"product_id" validate:"required,uuid"`
	Quantity    int             `json:"quantity" validate:"required,min=1"`
	CostPerItem decimal.Decimal `json:"cost_per_item"`
}

// CreatePurchaseItemsRequest lote de líneas (segundo paso remoto).
type CreatePurchaseItemsRequest struct {
	Items []PurchaseItemRequest `json:"items" validate:"required,min=1,dive"`
}

// PurchaseResponse cabecera de compra.
type PurchaseResponse struct {
	ID           string          `json:"id"`
	UserID       string          `json:"user_id"`
	SupplierName string          `json:"supplier_name"`
	PurchaseDate time.Time       `json:"purchase_date"`
	TotalCost    decimal.Decimal `json:"total_cost"`
	Notes        string          `json:"notes"`
}

// PurchaseItemResponse línea de compra.
type PurchaseItemResponse struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	CostPerItem decimal.Decimal `json:"cost_per_item"`
}

// PurchaseDetailResponse compra con sus líneas.
type PurchaseDetailResponse struct {
	PurchaseResponse
	Items []PurchaseItemResponse `json:"items"`
}

// PurchaseListResponse lista paginada de compras.
type PurchaseListResponse struct {
	Items []PurchaseResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
