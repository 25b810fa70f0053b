package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod método de pago de una venta.
type PaymentMethod string

const (
	PaymentEfectivo      PaymentMethod = "efectivo"
	PaymentTarjeta       PaymentMethod = "tarjeta"
	PaymentTransferencia PaymentMethod = "transferencia"
)

// Valid indica si el método es uno de los tres aceptados.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentEfectivo, PaymentTarjeta, PaymentTransferencia:
		return true
	}
	return false
}

// DefaultCustomerName se usa cuando la venta no indica cliente.
const DefaultCustomerName = "Mostrador"

// Sale es la cabecera de una venta.
type Sale struct {
	ID            string
	CommerceID    string
	UserID        string // identidad que registró la venta
	CustomerName  string
	SaleDate      time.Time
	TotalAmount   decimal.Decimal
	TotalProfit   decimal.Decimal
	PaymentMethod PaymentMethod
	Notes         string
	CreatedAt     time.Time
}

// SaleItem es una línea de venta. CostPerItem se congela al momento de la venta.
type SaleItem struct {
	ID           string
	SaleID       string
	ProductID    string
	ProductName  string // solo lectura (join con products)
	Quantity     int
	PricePerItem decimal.Decimal
	CostPerItem  decimal.Decimal
}

// Subtotal cantidad × precio unitario.
func (i SaleItem) Subtotal() decimal.Decimal {
	return i.PricePerItem.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
