package dto

import "github.com/shopspring/decimal"

// ── Query parameters ──────────────────────────────────────────────────────────

// DateRangeQuery rango para series diarias.
type DateRangeQuery struct {
	StartDate string `query:"start_date"` // YYYY-MM-DD; por defecto hace 30 días
	EndDate   string `query:"end_date"`   // YYYY-MM-DD; por defecto hoy
}

// ── Tarjetas ──────────────────────────────────────────────────────────────────

// DashboardStatsDTO tarjetas principales del panel del comercio.
type DashboardStatsDTO struct {
	TotalSales    decimal.Decimal `json:"total_sales"`
	TodaySales    decimal.Decimal `json:"today_sales"`
	SalesCount    int             `json:"sales_count"`
	LowStockCount int             `json:"low_stock_count"`
}

// ProfitStatsDTO ganancia acumulada, del día y margen promedio.
type ProfitStatsDTO struct {
	TotalProfit      decimal.Decimal `json:"total_profit"`
	TodayProfit      decimal.Decimal `json:"today_profit"`
	AverageMarginPct decimal.Decimal `json:"average_margin_pct"` // total_profit / total_sales * 100
}

// PurchaseStatsDTO costo total y número de compras.
type PurchaseStatsDTO struct {
	TotalCost decimal.Decimal `json:"total_cost"`
	Count     int             `json:"count"`
}

// ── Rankings y series ─────────────────────────────────────────────────────────

// PaymentMethodDTO ventas por método de pago.
type PaymentMethodDTO struct {
	Method string `json:"method"`
	Count  int    `json:"count"`
}

// TopProductDTO producto en el ranking.
type TopProductDTO struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	UnitsSold   int             `json:"units_sold"`
	Profit      decimal.Decimal `json:"profit"`
}

// MonthlyComparisonDTO ventas vs compras de un mes ("2026-05").
type MonthlyComparisonDTO struct {
	Month     string          `json:"month"`
	Label     string          `json:"label"` // ej: "May 2026"
	Sales     decimal.Decimal `json:"sales"`
	Purchases decimal.Decimal `json:"purchases"`
}

// DailyAmountDTO importe agregado de un día ("2026-05-14").
type DailyAmountDTO struct {
	Date   string          `json:"date"`
	Amount decimal.Decimal `json:"amount"`
}

// ReportsDTO respuesta de GET /api/reports: todo el tablero en una llamada.
type ReportsDTO struct {
	Dashboard      DashboardStatsDTO      `json:"dashboard"`
	Profit         ProfitStatsDTO         `json:"profit"`
	Purchases      PurchaseStatsDTO       `json:"purchases"`
	PaymentMethods []PaymentMethodDTO     `json:"payment_methods"`
	TopProducts    []TopProductDTO        `json:"top_products"`
	TopProfitable  []TopProductDTO        `json:"top_profitable"`
	MonthlySeries  []MonthlyComparisonDTO `json:"monthly_series"`
	RecentSales    []SaleResponse         `json:"recent_sales"`
}
