package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/abastoflow/abastoflow/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas de solo lectura para los reportes del comercio.
type AnalyticsRepo struct {
	q Querier
}

// NewAnalyticsRepository construye el adaptador de analítica.
func NewAnalyticsRepository(q Querier) *AnalyticsRepo {
	return &AnalyticsRepo{q: q}
}

// GetSalesTotals número de ventas, importe y ganancia del período. Fechas cero = sin límite.
func (r *AnalyticsRepo) GetSalesTotals(ctx context.Context, commerceID string, from, to time.Time) (repository.SalesTotals, error) {
	const query = `
	SELECT
	    COUNT(*)                         AS sales_count,
	    COALESCE(SUM(total_amount), 0)   AS total_amount,
	    COALESCE(SUM(total_profit), 0)   AS total_profit
	FROM sales
	WHERE commerce_id = $1
	  AND ($2::timestamptz IS NULL OR sale_date >= $2)
	  AND ($3::timestamptz IS NULL OR sale_date <  $3)`

	var t repository.SalesTotals
	if err := r.q.QueryRow(ctx, query, commerceID, nullTime(from), nullTime(to)).
		Scan(&t.Count, &t.TotalAmount, &t.TotalProfit); err != nil {
		return repository.SalesTotals{}, fmt.Errorf("analytics.GetSalesTotals: %w", err)
	}
	return t, nil
}

// GetPurchaseTotals número de compras y costo total histórico.
func (r *AnalyticsRepo) GetPurchaseTotals(ctx context.Context, commerceID string) (int, decimal.Decimal, error) {
	var count int
	var total decimal.Decimal
	err := r.q.QueryRow(ctx,
		`SELECT COUNT(*), COALESCE(SUM(total_cost), 0) FROM purchases WHERE commerce_id = $1`, commerceID,
	).Scan(&count, &total)
	if err != nil {
		return 0, decimal.Zero, fmt.Errorf("analytics.GetPurchaseTotals: %w", err)
	}
	return count, total, nil
}

// GetPaymentMethodCounts ventas agrupadas por método de pago.
func (r *AnalyticsRepo) GetPaymentMethodCounts(ctx context.Context, commerceID string) ([]repository.PaymentMethodCount, error) {
	rows, err := r.q.Query(ctx, `
	SELECT payment_method, COUNT(*)
	FROM sales
	WHERE commerce_id = $1
	GROUP BY payment_method
	ORDER BY COUNT(*) DESC`, commerceID)
	if err != nil {
		return nil, fmt.Errorf("analytics.GetPaymentMethodCounts: %w", err)
	}
	defer rows.Close()

	var out []repository.PaymentMethodCount
	for rows.Next() {
		var pm repository.PaymentMethodCount
		if err := rows.Scan(&pm.Method, &pm.Count); err != nil {
			return nil, fmt.Errorf("analytics.GetPaymentMethodCounts scan: %w", err)
		}
		out = append(out, pm)
	}
	return out, rows.Err()
}

// GetTopProducts productos con más unidades vendidas.
func (r *AnalyticsRepo) GetTopProducts(ctx context.Context, commerceID string, limit int) ([]repository.ProductUnits, error) {
	return r.productRanking(ctx, commerceID, limit, "units_sold")
}

// GetTopProfitableProducts productos con mayor ganancia acumulada: Σ (precio - costo) × cantidad.
func (r *AnalyticsRepo) GetTopProfitableProducts(ctx context.Context, commerceID string, limit int) ([]repository.ProductUnits, error) {
	return r.productRanking(ctx, commerceID, limit, "profit")
}

func (r *AnalyticsRepo) productRanking(ctx context.Context, commerceID string, limit int, orderBy string) ([]repository.ProductUnits, error) {
	// orderBy solo recibe constantes internas.
	query := `
	SELECT
	    p.id,
	    p.name,
	    SUM(si.quantity)                                          AS units_sold,
	    SUM((si.price_per_item - si.cost_per_item) * si.quantity) AS profit
	FROM sale_items si
	JOIN sales    s ON s.id = si.sale_id
	JOIN products p ON p.id = si.product_id
	WHERE s.commerce_id = $1
	GROUP BY p.id, p.name
	ORDER BY ` + orderBy + ` DESC
	LIMIT $2`

	rows, err := r.q.Query(ctx, query, commerceID, limit)
	if err != nil {
		return nil, fmt.Errorf("analytics.productRanking: %w", err)
	}
	defer rows.Close()

	var out []repository.ProductUnits
	for rows.Next() {
		var pu repository.ProductUnits
		if err := rows.Scan(&pu.ProductID, &pu.ProductName, &pu.UnitsSold, &pu.Profit); err != nil {
			return nil, fmt.Errorf("analytics.productRanking scan: %w", err)
		}
		out = append(out, pu)
	}
	return out, rows.Err()
}

// GetSalesSeries fechas con importe y ganancia de cada venta del período; el caso de uso agrega.
func (r *AnalyticsRepo) GetSalesSeries(ctx context.Context, commerceID string, from, to time.Time) ([]repository.DatedAmount, []repository.DatedAmount, error) {
	rows, err := r.q.Query(ctx, `
	SELECT sale_date, total_amount, total_profit
	FROM sales
	WHERE commerce_id = $1
	  AND ($2::timestamptz IS NULL OR sale_date >= $2)
	  AND ($3::timestamptz IS NULL OR sale_date <  $3)
	ORDER BY sale_date ASC`, commerceID, nullTime(from), nullTime(to))
	if err != nil {
		return nil, nil, fmt.Errorf("analytics.GetSalesSeries: %w", err)
	}
	defer rows.Close()

	var amounts, profits []repository.DatedAmount
	for rows.Next() {
		var d time.Time
		var amount, profit decimal.Decimal
		if err := rows.Scan(&d, &amount, &profit); err != nil {
			return nil, nil, fmt.Errorf("analytics.GetSalesSeries scan: %w", err)
		}
		amounts = append(amounts, repository.DatedAmount{Date: d, Amount: amount})
		profits = append(profits, repository.DatedAmount{Date: d, Amount: profit})
	}
	return amounts, profits, rows.Err()
}

// GetPurchaseSeries fechas y costo de cada compra del período.
func (r *AnalyticsRepo) GetPurchaseSeries(ctx context.Context, commerceID string, from, to time.Time) ([]repository.DatedAmount, error) {
	rows, err := r.q.Query(ctx, `
	SELECT purchase_date, total_cost
	FROM purchases
	WHERE commerce_id = $1
	  AND ($2::timestamptz IS NULL OR purchase_date >= $2)
	  AND ($3::timestamptz IS NULL OR purchase_date <  $3)
	ORDER BY purchase_date ASC`, commerceID, nullTime(from), nullTime(to))
	if err != nil {
		return nil, fmt.Errorf("analytics.GetPurchaseSeries: %w", err)
	}
	defer rows.Close()

	var out []repository.DatedAmount
	for rows.Next() {
		var da repository.DatedAmount
		if err := rows.Scan(&da.Date, &da.Amount); err != nil {
			return nil, fmt.Errorf("analytics.GetPurchaseSeries scan: %w", err)
		}
		out = append(out, da)
	}
	return out, rows.Err()
}

// CountLowStock productos con alerta configurada y stock en o bajo el umbral.
func (r *AnalyticsRepo) CountLowStock(ctx context.Context, commerceID string) (int, error) {
	var n int
	err := r.q.QueryRow(ctx, `
	SELECT COUNT(*) FROM products
	WHERE commerce_id = $1 AND min_stock_alert > 0 AND current_stock <= min_stock_alert`, commerceID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("analytics.CountLowStock: %w", err)
	}
	return n, nil
}
