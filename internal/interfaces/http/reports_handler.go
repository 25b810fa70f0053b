package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/abastoflow/abastoflow/internal/application/analytics"
	"github.com/abastoflow/abastoflow/internal/application/dto"
	"github.com/abastoflow/abastoflow/internal/domain"
)

// ReportsHandler maneja el panel de reportes del comercio.
type ReportsHandler struct {
	uc *appanalytics.ReportsUseCase
}

// NewReportsHandler construye el handler.
func NewReportsHandler(uc *appanalytics.ReportsUseCase) *ReportsHandler {
	return &ReportsHandler{uc: uc}
}

// GetReports devuelve todas las tarjetas, rankings y series del panel en una sola respuesta.
// GET /api/reports
//
// Respuesta: ReportsDTO (dashboard, profit, purchases, payment_methods, top_products,
// top_profitable, monthly_series[6], recent_sales[5]).
// @Summary      Panel de reportes
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ReportsDTO
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/reports [get]
func (h *ReportsHandler) GetReports(c *fiber.Ctx) error {
	commerceID := GetCommerceID(c)
	if commerceID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Code: "UNAUTHORIZED", Message: "commerce_id no encontrado en el token",
		})
	}

	reports, err := h.uc.GetReports(c.Context(), commerceID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(reports)
}

// GetDailyProfit godoc
// @Summary      Ganancia diaria
// @Description  Serie de ganancia por día en el rango; los días sin ventas van en cero.
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        start_date  query  string  false  "Inicio (YYYY-MM-DD). Default: hace 30 días."
// @Param        end_date    query  string  false  "Fin (YYYY-MM-DD). Default: hoy."
// @Success      200  {array}   dto.DailyAmountDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/daily-profit [get]
func (h *ReportsHandler) GetDailyProfit(c *fiber.Ctx) error {
	commerceID := GetCommerceID(c)
	if commerceID == "" {
		return unauthorized(c)
	}

	var q dto.DateRangeQuery
	if err := c.QueryParser(&q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code: "INVALID_PARAMS", Message: "parámetros de consulta inválidos",
		})
	}

	series, err := h.uc.GetDailyProfit(c.Context(), commerceID, q)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "BAD_REQUEST", Message: err.Error()})
		}
		return respondError(c, err)
	}
	return c.JSON(series)
}
