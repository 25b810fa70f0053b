package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// SalesTotals agregado crudo de ventas en un período.
type SalesTotals struct {
	Count       int
	TotalAmount decimal.Decimal
	TotalProfit decimal.Decimal
}

// PaymentMethodCount número de ventas por método de pago.
type PaymentMethodCount struct {
	Method string
	Count  int
}

// ProductUnits unidades vendidas y ganancia por producto.
type ProductUnits struct {
	ProductID   string
	ProductName string
	UnitsSold   int
	Profit      decimal.Decimal
}

// DatedAmount importe con su fecha; lo agrega el caso de uso por día o mes.
type DatedAmount struct {
	Date   time.Time
	Amount decimal.Decimal
}

// AnalyticsRepository define las consultas de lectura para los reportes del comercio.
// Las implementaciones son read-only. Fechas cero = sin límite.
type AnalyticsRepository interface {
	// GetSalesTotals suma total_amount y total_profit de las ventas del período.
	// Usa COALESCE para devolver cero si no hay ventas.
	GetSalesTotals(ctx context.Context, commerceID string, from, to time.Time) (SalesTotals, error)

	// GetPurchaseTotals devuelve el número de compras y su costo total.
	GetPurchaseTotals(ctx context.Context, commerceID string) (count int, totalCost decimal.Decimal, err error)

	GetPaymentMethodCounts(ctx context.Context, commerceID string) ([]PaymentMethodCount, error)

	// GetTopProducts devuelve los `limit` productos con más unidades vendidas.
	GetTopProducts(ctx context.Context, commerceID string, limit int) ([]ProductUnits, error)

	// GetTopProfitableProducts devuelve los `limit` productos con mayor ganancia acumulada.
	GetTopProfitableProducts(ctx context.Context, commerceID string, limit int) ([]ProductUnits, error)

	// GetSalesSeries devuelve (sale_date, total_amount) y (sale_date, total_profit) del período.
	GetSalesSeries(ctx context.Context, commerceID string, from, to time.Time) (amounts, profits []DatedAmount, err error)

	// GetPurchaseSeries devuelve (purchase_date, total_cost) del período.
	GetPurchaseSeries(ctx context.Context, commerceID string, from, to time.Time) ([]DatedAmount, error)

	CountLowStock(ctx context.Context, commerceID string) (int, error)
}
