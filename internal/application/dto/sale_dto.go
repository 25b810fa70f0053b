package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CheckoutItem línea pedida al checkout del servidor.
type CheckoutItem struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
}

// CheckoutRequest venta completa: el servidor arma el carrito con el stock actual.
type CheckoutRequest struct {
	Items          []CheckoutItem   `json:"items" validate:"required,min=1,dive"`
	PaymentMethod  string           `json:"payment_method" validate:"required,oneof=efectivo tarjeta transferencia"`
	CustomerName   string           `json:"customer_name" validate:"omitempty,max=200"`
	Notes          string           `json:"notes"`
	AmountReceived *decimal.Decimal `json:"amount_received"`
}

// CheckoutResponse resultado del checkout.
type CheckoutResponse struct {
	SaleID      string          `json:"sale_id"`
	Outcome     string          `json:"outcome"`
	Total       decimal.Decimal `json:"total"`
	Profit      decimal.Decimal `json:"profit"`
	Change      decimal.Decimal `json:"change"`
	Compensated bool            `json:"compensated,omitempty"`
}

// CreateSaleRequest cabecera de venta (primer paso del checkout remoto). El ID lo genera el cliente.
type CreateSaleRequest struct {
	ID            string          `json:"id" validate:"required,uuid"`
	CustomerName  string          `json:"customer_name"`
	SaleDate      time.Time       `json:"sale_date"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	TotalProfit   decimal.Decimal `json:"total_profit"`
	PaymentMethod string          `json:"payment_method" validate:"required,oneof=efectivo tarjeta transferencia"`
	Notes         string          `json:"notes"`
}

// SaleItemRequest una línea del lote de líneas.
type SaleItemRequest struct {
	ID           string          `json:"id"`
	SaleID       string          `json:"sale_id" validate:"required,uuid"`
	ProductID    string          `json:"product_id" validate:"required,uuid"`
	Quantity     int             `json:"quantity" validate:"required,min=1"`
	PricePerItem decimal.Decimal `json:"price_per_item"`
	CostPerItem  decimal.Decimal `json:"cost_per_item"`
}

// CreateSaleItemsRequest lote de líneas (segundo paso del checkout remoto).
type CreateSaleItemsRequest struct {
	Items []SaleItemRequest `json:"items" validate:"required,min=1,dive"`
}

// SaleResponse cabecera de venta.
type SaleResponse struct {
	ID            string          `json:"id"`
	UserID        string          `json:"user_id"`
	CustomerName  string          `json:"customer_name"`
	SaleDate      time.Time       `json:"sale_date"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	TotalProfit   decimal.Decimal `json:"total_profit"`
	PaymentMethod string          `json:"payment_method"`
	Notes         string          `json:"notes"`
}

// SaleItemResponse línea de venta.
type SaleItemResponse struct {
	ID           string          `json:"id"`
	ProductID    string          `json:"product_id"`
	ProductName  string          `json:"product_name"`
	Quantity     int             `json:"quantity"`
	PricePerItem decimal.Decimal `json:"price_per_item"`
	CostPerItem  decimal.Decimal `json:"cost_per_item"`
	Subtotal     decimal.Decimal `json:"subtotal"`
}

// SaleDetailResponse venta con sus líneas.
type SaleDetailResponse struct {
	SaleResponse
	Items []SaleItemResponse `json:"items"`
}

// SaleListQuery filtros del historial de ventas.
type SaleListQuery struct {
	PageRequest
	StartDate string `query:"start_date"` // YYYY-MM-DD
	EndDate   string `query:"end_date"`   // YYYY-MM-DD, inclusive
}

// SaleListResponse lista paginada de ventas.
type SaleListResponse struct {
	Items []SaleResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}
