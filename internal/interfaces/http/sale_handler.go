package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/abastoflow/abastoflow/internal/application/dto"
	"github.com/abastoflow/abastoflow/internal/application/usecase"
)

// SaleHandler punto de venta: checkout, historial, detalle y recibo (protegido).
type SaleHandler struct {
	uc *usecase.SaleUseCase
}

// NewSaleHandler construye el handler.
func NewSaleHandler(uc *usecase.SaleUseCase) *SaleHandler {
	return &SaleHandler{uc: uc}
}

// Checkout godoc
// @Summary      Cobrar una venta
// @Description  Arma el carrito con el stock actual, escribe cabecera y líneas y compensa si las líneas fallan.
// @Tags         pos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CheckoutRequest  true  "Líneas y datos de cobro"
// @Success      201   {object}  dto.CheckoutResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/pos/checkout [post]
func (h *SaleHandler) Checkout(c *fiber.Ctx) error {
	actor := GetActor(c)
	if actor.UserID == "" || actor.CommerceID == "" {
		return unauthorized(c)
	}
	var in dto.CheckoutRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Checkout(c.Context(), actor, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// CreateHeader godoc
// @Summary      Escribir cabecera de venta
// @Description  Primer paso del checkout de la terminal de caja. El ID lo genera el cliente.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Param        body  body  dto.CreateSaleRequest  true  "Cabecera"
// @Success      201
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/sales [post]
func (h *SaleHandler) CreateHeader(c *fiber.Ctx) error {
	actor := GetActor(c)
	if actor.UserID == "" {
		return unauthorized(c)
	}
	var in dto.CreateSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if err := h.uc.CreateHeader(c.Context(), actor, in); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusCreated)
}

// CreateItems godoc
// @Summary      Escribir líneas de venta
// @Description  Segundo paso: todas las líneas en un lote. Falla completo si algún producto no tiene stock.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Param        body  body  dto.CreateSaleItemsRequest  true  "Líneas"
// @Success      201
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/sales/items [post]
func (h *SaleHandler) CreateItems(c *fiber.Ctx) error {
	var in dto.CreateSaleItemsRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if err := h.uc.CreateItems(c.Context(), GetCommerceID(c), in); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusCreated)
}

// List godoc
// @Summary      Historial de ventas
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        start_date  query  string  false  "Desde (YYYY-MM-DD)"
// @Param        end_date    query  string  false  "Hasta, inclusive (YYYY-MM-DD)"
// @Param        limit       query  int     false  "Límite"  default(50)
// @Param        offset      query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.SaleListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/sales [get]
func (h *SaleHandler) List(c *fiber.Ctx) error {
	q := dto.SaleListQuery{
		PageRequest: pageFromQuery(c),
		StartDate:   c.Query("start_date"),
		EndDate:     c.Query("end_date"),
	}
	out, err := h.uc.List(c.Context(), GetCommerceID(c), q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Detalle de venta
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la venta"
// @Success      200  {object}  dto.SaleDetailResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [get]
func (h *SaleHandler) GetByID(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Get(c.Context(), GetCommerceID(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar venta
// @Description  Borra la venta y sus líneas; el stock vendido se repone.
// @Tags         sales
// @Security     Bearer
// @Param        id  path  string  true  "ID de la venta"
// @Success      204
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [delete]
func (h *SaleHandler) Delete(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}
	if err := h.uc.Delete(c.Context(), GetCommerceID(c), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Receipt godoc
// @Summary      Recibo PDF de una venta
// @Tags         sales
// @Security     Bearer
// @Produce      application/pdf
// @Param        id  path  string  true  "ID de la venta"
// @Success      200  {file}  binary
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/receipt [get]
func (h *SaleHandler) Receipt(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}
	pdf, filename, err := h.uc.Receipt(c.Context(), GetCommerceID(c), id)
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Attachment(filename)
	return c.Send(pdf)
}
