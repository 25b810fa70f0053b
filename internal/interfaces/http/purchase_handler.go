package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/abastoflow/abastoflow/internal/application/dto"
	"github.com/abastoflow/abastoflow/internal/application/usecase"
)

// PurchaseHandler compras a proveedores; cada línea incrementa el stock (protegido).
type PurchaseHandler struct {
	uc *usecase.PurchaseUseCase
}

// NewPurchaseHandler construye el handler.
func NewPurchaseHandler(uc *usecase.PurchaseUseCase) *PurchaseHandler {
	return &PurchaseHandler{uc: uc}
}

// Register godoc
// @Summary      Registrar compra completa
// @Description  Cabecera y líneas en dos pasos con borrado compensatorio. Total = Σ cantidad × costo.
// @Tags         purchases
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterPurchaseRequest  true  "Compra"
// @Success      201   {object}  dto.RegisterPurchaseResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/purchases/register [post]
func (h *PurchaseHandler) Register(c *fiber.Ctx) error {
	actor := GetActor(c)
	if actor.UserID == "" || actor.CommerceID == "" {
		return unauthorized(c)
	}
	var in dto.RegisterPurchaseRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if len(in.Lines) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "la compra necesita al menos una línea"})
	}
	out, err := h.uc.Register(c.Context(), actor, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// CreateHeader godoc
// @Summary      Escribir cabecera de compra
// @Tags         purchases
// @Security     Bearer
// @Accept       json
// @Param        body  body  dto.CreatePurchaseRequest  true  "Cabecera"
// @Success      201
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/purchases [post]
func (h *PurchaseHandler) CreateHeader(c *fiber.Ctx) error {
	actor := GetActor(c)
	if actor.UserID == "" {
		return unauthorized(c)
	}
	var in dto.CreatePurchaseRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if err := h.uc.CreateHeader(c.Context(), actor, in); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusCreated)
}

// CreateItems godoc
// @Summary      Escribir líneas de compra
// @Tags         purchases
// @Security     Bearer
// @Accept       json
// @Param        body  body  dto.CreatePurchaseItemsRequest  true  "Líneas"
// @Success      201
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/purchases/items [post]
func (h *PurchaseHandler) CreateItems(c *fiber.Ctx) error {
	var in dto.CreatePurchaseItemsRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if err := h.uc.CreateItems(c.Context(), GetCommerceID(c), in); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusCreated)
}

// List godoc
// @Summary      Historial de compras
// @Tags         purchases
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(50)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200  {object}  dto.PurchaseListResponse
// @Router       /api/purchases [get]
func (h *PurchaseHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.Context(), GetCommerceID(c), pageFromQuery(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Detalle de compra
// @Tags         purchases
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la compra"
// @Success      200  {object}  dto.PurchaseDetailResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/purchases/{id} [get]
func (h *PurchaseHandler) GetByID(c *fiber.Ctx) error {
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
// @Summary      Eliminar compra
// @Description  Borra la compra y descuenta del stock lo que había ingresado.
// @Tags         purchases
// @Security     Bearer
// @Param        id  path  string  true  "ID de la compra"
// @Success      204
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/purchases/{id} [delete]
func (h *PurchaseHandler) Delete(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}
	if err := h.uc.Delete(c.Context(), GetCommerceID(c), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
