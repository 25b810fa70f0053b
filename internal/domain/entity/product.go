package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del inventario de un comercio.
// CurrentStock lo ajustan los triggers de ventas y compras; nunca debe quedar negativo.
type Product struct {
	ID            string
	CommerceID    string
	CategoryID    *string
	Name          string
	SKU           string // opcional
	Description   string
	SalePrice     decimal.Decimal  // >= 0
	PurchaseCost  *decimal.Decimal // opcional, >= 0
	CurrentStock  int              // >= 0
	MinStockAlert *int             // opcional, >= 0
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Cost devuelve el costo de compra o cero si no está definido.
func (p *Product) Cost() decimal.Decimal {
	if p.PurchaseCost == nil {
		return decimal.Zero
	}
	return *p.PurchaseCost
}

// IsLowStock indica si el producto tiene alerta configurada (> 0) y el stock la alcanzó.
func (p *Product) IsLowStock() bool {
	return p.MinStockAlert != nil && *p.MinStockAlert > 0 && p.CurrentStock <= *p.MinStockAlert
}
