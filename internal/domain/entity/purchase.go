package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Purchase es la cabecera de una compra a proveedor.
type Purchase struct {
	ID           string
	CommerceID   string
	UserID       string
	SupplierName string
	PurchaseDate time.Time
	TotalCost    decimal.Decimal
	Notes        string
	CreatedAt    time.Time
}

// PurchaseItem es una línea de compra; su inserción incrementa el stock del producto.
type PurchaseItem struct {
	ID          string
	PurchaseID  string
	ProductID   string
	ProductName string
	Quantity    int
	CostPerItem decimal.Decimal
}
