package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/abastoflow/abastoflow/internal/application/dto"
	"github.com/abastoflow/abastoflow/pkg/money"
)

// summaryTop cuántos productos del ranking se listan.
const summaryTop = 5

// summaryPanel resumen del día en el tablero del dueño, leído de GET /api/reports.
type summaryPanel struct {
	reports *dto.ReportsDTO
	loaded  bool
	loading bool
	err     error
}

func (s summaryPanel) view() string {
	switch {
	case s.loading && s.reports == nil:
		return mutedStyle.Render("Cargando resumen…")
	case s.err != nil:
		return errorStyle.Render("no se pudo cargar el resumen: " + s.err.Error())
	case s.reports == nil:
		return ""
	}

	r := s.reports
	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		panelStyle.Render("Ventas hoy\n"+okStyle.Render(money.Format(r.Dashboard.TodaySales))),
		" ",
		panelStyle.Render("Ganancia hoy\n"+okStyle.Render(money.Format(r.Profit.TodayProfit))),
		" ",
		panelStyle.Render("Margen promedio\n"+money.Percent(r.Profit.AverageMarginPct)),
	)

	var b strings.Builder
	b.WriteString(cards + "\n")
	b.WriteString(fmt.Sprintf("%d ventas · total %s · compras %s\n",
		r.Dashboard.SalesCount, money.Format(r.Dashboard.TotalSales), money.Format(r.Purchases.TotalCost)))
	if r.Dashboard.LowStockCount > 0 {
		b.WriteString(errorStyle.Render(fmt.Sprintf("%d productos con stock bajo", r.Dashboard.LowStockCount)) + "\n")
	}
	if len(r.TopProducts) > 0 {
		b.WriteString("\nMás vendidos\n")
		for i, p := range r.TopProducts {
			if i == summaryTop {
				break
			}
			b.WriteString(fmt.Sprintf("  %d. %s · %d uds\n", i+1, p.ProductName, p.UnitsSold))
		}
	}
	return b.String()
}
