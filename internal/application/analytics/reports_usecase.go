// Package analytics contiene los casos de uso del tablero de reportes del comercio.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/abastoflow/abastoflow/internal/application/dto"
	"github.com/abastoflow/abastoflow/internal/domain"
	"github.com/abastoflow/abastoflow/internal/domain/entity"
	"github.com/abastoflow/abastoflow/internal/domain/repository"
)

const (
	topProducts      = 5 // productos en cada ranking
	recentSales      = 5
	monthsInSeries   = 6
	defaultDailyDays = 30
	dateLayout       = "2006-01-02"
)

var hundred = decimal.NewFromInt(100)

// RecentSalesLister últimas ventas del comercio.
type RecentSalesLister interface {
	ListByCommerce(ctx context.Context, commerceID string, f repository.SaleFilter) ([]*entity.Sale, error)
}

// ReportsUseCase arma el tablero de reportes.
//
// Fuente de datos: AnalyticsRepository (consultas read-only) y el historial de ventas.
type ReportsUseCase struct {
	analyticsRepo repository.AnalyticsRepository
	sales         RecentSalesLister
	now           func() time.Time
}

// NewReportsUseCase construye el caso de uso.
func NewReportsUseCase(analyticsRepo repository.AnalyticsRepository, sales RecentSalesLister) *ReportsUseCase {
	return &ReportsUseCase{analyticsRepo: analyticsRepo, sales: sales, now: time.Now}
}

type result[T any] struct {
	v   T
	err error
}

// async lanza fn en una goroutine; el canal tiene buffer para que nunca se bloquee.
func async[T any](fn func() (T, error)) <-chan result[T] {
	ch := make(chan result[T], 1)
	go func() {
		v, err := fn()
		ch <- result[T]{v, err}
	}()
	return ch
}

type series struct {
	sales, profits []repository.DatedAmount
}

// GetReports construye el tablero completo; todas las consultas corren en paralelo.
func (uc *ReportsUseCase) GetReports(ctx context.Context, commerceID string) (*dto.ReportsDTO, error) {
	now := uc.now()

	// ── Rangos de fecha ────────────────────────────────────────────────────────
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	tomorrow := todayStart.AddDate(0, 0, 1)
	seriesStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -(monthsInSeries - 1), 0)

	// ── Goroutines ─────────────────────────────────────────────────────────────
	allCh := async(func() (repository.SalesTotals, error) {
		return uc.analyticsRepo.GetSalesTotals(ctx, commerceID, time.Time{}, time.Time{})
	})
	todayCh := async(func() (repository.SalesTotals, error) {
		return uc.analyticsRepo.GetSalesTotals(ctx, commerceID, todayStart, tomorrow)
	})
	lowCh := async(func() (int, error) { return uc.analyticsRepo.CountLowStock(ctx, commerceID) })
	purchCh := async(func() (dto.PurchaseStatsDTO, error) {
		n, total, err := uc.analyticsRepo.GetPurchaseTotals(ctx, commerceID)
		return dto.PurchaseStatsDTO{TotalCost: total.Round(2), Count: n}, err
	})
	methodsCh := async(func() ([]repository.PaymentMethodCount, error) {
		return uc.analyticsRepo.GetPaymentMethodCounts(ctx, commerceID)
	})
	topCh := async(func() ([]repository.ProductUnits, error) {
		return uc.analyticsRepo.GetTopProducts(ctx, commerceID, topProducts)
	})
	profitableCh := async(func() ([]repository.ProductUnits, error) {
		return uc.analyticsRepo.GetTopProfitableProducts(ctx, commerceID, topProducts)
	})
	salesSeriesCh := async(func() (series, error) {
		a, p, err := uc.analyticsRepo.GetSalesSeries(ctx, commerceID, seriesStart, tomorrow)
		return series{a, p}, err
	})
	purchSeriesCh := async(func() ([]repository.DatedAmount, error) {
		return uc.analyticsRepo.GetPurchaseSeries(ctx, commerceID, seriesStart, tomorrow)
	})
	recentCh := async(func() ([]*entity.Sale, error) {
		return uc.sales.ListByCommerce(ctx, commerceID, repository.SaleFilter{Limit: recentSales})
	})

	all, today, low, purch := <-allCh, <-todayCh, <-lowCh, <-purchCh
	methods, top, profitable := <-methodsCh, <-topCh, <-profitableCh
	salesSeries, purchSeries, recent := <-salesSeriesCh, <-purchSeriesCh, <-recentCh

	checks := []struct {
		name string
		err  error
	}{
		{"ventas totales", all.err},
		{"ventas de hoy", today.err},
		{"stock bajo", low.err},
		{"compras", purch.err},
		{"métodos de pago", methods.err},
		{"top productos", top.err},
		{"top rentables", profitable.err},
		{"serie de ventas", salesSeries.err},
		{"serie de compras", purchSeries.err},
		{"ventas recientes", recent.err},
	}
	for _, c := range checks {
		if c.err != nil {
			return nil, fmt.Errorf("reportes: %s: %w", c.name, c.err)
		}
	}

	// ── Construir DTO ──────────────────────────────────────────────────────────
	out := &dto.ReportsDTO{
		Dashboard: dto.DashboardStatsDTO{
			TotalSales:    all.v.TotalAmount.Round(2),
			TodaySales:    today.v.TotalAmount.Round(2),
			SalesCount:    all.v.Count,
			LowStockCount: low.v,
		},
		Profit: dto.ProfitStatsDTO{
			TotalProfit:      all.v.TotalProfit.Round(2),
			TodayProfit:      today.v.TotalProfit.Round(2),
			AverageMarginPct: marginPct(all.v.TotalProfit, all.v.TotalAmount),
		},
		Purchases:      purch.v,
		PaymentMethods: make([]dto.PaymentMethodDTO, 0, len(methods.v)),
		TopProducts:    toTopProducts(top.v),
		TopProfitable:  toTopProducts(profitable.v),
		MonthlySeries:  monthlyComparison(seriesStart, salesSeries.v.sales, purchSeries.v),
		RecentSales:    make([]dto.SaleResponse, 0, len(recent.v)),
	}
	for _, m := range methods.v {
		out.PaymentMethods = append(out.PaymentMethods, dto.PaymentMethodDTO{Method: m.Method, Count: m.Count})
	}
	for _, s := range recent.v {
		out.RecentSales = append(out.RecentSales, dto.SaleResponse{
			ID:            s.ID,
			UserID:        s.UserID,
			CustomerName:  s.CustomerName,
			SaleDate:      s.SaleDate,
			TotalAmount:   s.TotalAmount,
			TotalProfit:   s.TotalProfit,
			PaymentMethod: string(s.PaymentMethod),
			Notes:         s.Notes,
		})
	}
	return out, nil
}

// GetDailyProfit ganancia agregada por día en el rango; los días sin ventas aparecen en cero.
func (uc *ReportsUseCase) GetDailyProfit(ctx context.Context, commerceID string, q dto.DateRangeQuery) ([]dto.DailyAmountDTO, error) {
	start, end, err := uc.dailyRange(q)
	if err != nil {
		return nil, err
	}
	_, profits, err := uc.analyticsRepo.GetSalesSeries(ctx, commerceID, start, end)
	if err != nil {
		return nil, fmt.Errorf("reportes: ganancia diaria: %w", err)
	}
	byDay := make(map[string]decimal.Decimal, len(profits))
	for _, p := range profits {
		k := p.Date.In(start.Location()).Format(dateLayout)
		byDay[k] = byDay[k].Add(p.Amount)
	}
	var out []dto.DailyAmountDTO
	for d := start; d.Before(end); d = d.AddDate(0, 0, 1) {
		k := d.Format(dateLayout)
		out = append(out, dto.DailyAmountDTO{Date: k, Amount: byDay[k].Round(2)})
	}
	return out, nil
}

// dailyRange [start, end) a medianoche; por defecto los últimos 30 días incluyendo hoy.
func (uc *ReportsUseCase) dailyRange(q dto.DateRangeQuery) (start, end time.Time, err error) {
	now := uc.now()
	loc := now.Location()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)

	end = today.AddDate(0, 0, 1)
	if q.EndDate != "" {
		e, perr := time.ParseInLocation(dateLayout, q.EndDate, loc)
		if perr != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("end_date inválido: %w", domain.ErrInvalidInput)
		}
		end = e.AddDate(0, 0, 1)
	}
	start = end.AddDate(0, 0, -defaultDailyDays)
	if q.StartDate != "" {
		s, perr := time.ParseInLocation(dateLayout, q.StartDate, loc)
		if perr != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("start_date inválido: %w", domain.ErrInvalidInput)
		}
		start = s
	}
	if !start.Before(end) {
		return time.Time{}, time.Time{}, fmt.Errorf("start_date posterior a end_date: %w", domain.ErrInvalidInput)
	}
	if end.Sub(start) > 366*24*time.Hour {
		return time.Time{}, time.Time{}, fmt.Errorf("rango mayor a un año: %w", domain.ErrInvalidInput)
	}
	return start, end, nil
}

// marginPct ganancia / ventas * 100 con un decimal; cero si no hay ventas.
func marginPct(profit, sales decimal.Decimal) decimal.Decimal {
	if !sales.IsPositive() {
		return decimal.Zero
	}
	return profit.Div(sales).Mul(hundred).Round(1)
}

func toTopProducts(rows []repository.ProductUnits) []dto.TopProductDTO {
	out := make([]dto.TopProductDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.TopProductDTO{
			ProductID:   r.ProductID,
			ProductName: r.ProductName,
			UnitsSold:   r.UnitsSold,
			Profit:      r.Profit.Round(2),
		})
	}
	return out
}

// monthlyComparison agrega ventas y compras por mes desde start, un punto por mes aunque esté vacío.
func monthlyComparison(start time.Time, sales, purchases []repository.DatedAmount) []dto.MonthlyComparisonDTO {
	out := make([]dto.MonthlyComparisonDTO, monthsInSeries)
	index := make(map[string]int, monthsInSeries)
	for i := range out {
		m := start.AddDate(0, i, 0)
		key := m.Format("2006-01")
		index[key] = i
		out[i] = dto.MonthlyComparisonDTO{Month: key, Label: monthLabel(m), Sales: decimal.Zero, Purchases: decimal.Zero}
	}
	for _, s := range sales {
		if i, ok := index[s.Date.In(start.Location()).Format("2006-01")]; ok {
			out[i].Sales = out[i].Sales.Add(s.Amount)
		}
	}
	for _, p := range purchases {
		if i, ok := index[p.Date.In(start.Location()).Format("2006-01")]; ok {
			out[i].Purchases = out[i].Purchases.Add(p.Amount)
		}
	}
	return out
}

// monthLabel devuelve una etiqueta legible del mes, ej: "Febrero 2026".
func monthLabel(t time.Time) string {
	months := [...]string{
		"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
		"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
	}
	return fmt.Sprintf("%s %d", months[t.Month()-1], t.Year())
}
