package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/abastoflow/abastoflow/internal/application/auth"
	"github.com/abastoflow/abastoflow/internal/application/dto"
)

// ProfileHandler perfil propio y administración de perfiles.
type ProfileHandler struct {
	uc *auth.ProfileUseCase
}

// NewProfileHandler construye el handler.
func NewProfileHandler(uc *auth.ProfileUseCase) *ProfileHandler {
	return &ProfileHandler{uc: uc}
}

// GetOwn godoc
// @Summary      Perfil propio
// @Tags         profile
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ProfileResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/profile [get]
func (h *ProfileHandler) GetOwn(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	out, err := h.uc.Get(c.Context(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// UpdateOwn godoc
// @Summary      Editar perfil propio
// @Description  Nombre, nombre del comercio y teléfono. El rol no se puede cambiar aquí.
// @Tags         profile
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.UpdateProfileRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.ProfileResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/profile [put]
func (h *ProfileHandler) UpdateOwn(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	var in dto.UpdateProfileRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.UpdateOwn(c.Context(), userID, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar perfiles (admin)
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(50)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200     {object}  dto.ProfileListResponse
// @Failure      403     {object}  dto.ErrorResponse
// @Router       /api/admin/profiles [get]
func (h *ProfileHandler) List(c *fiber.Ctx) error {
	page := pageFromQuery(c)
	out, err := h.uc.List(c.Context(), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ChangeRole godoc
// @Summary      Cambiar el rol de un usuario (admin)
// @Tags         admin
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "ID del usuario"
// @Param        body  body  dto.UpdateRoleRequest  true  "Nuevo rol"
// @Success      200   {object}  dto.ProfileResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/admin/profiles/{id}/role [put]
func (h *ProfileHandler) ChangeRole(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}
	var in dto.UpdateRoleRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.ChangeRole(c.Context(), GetUserID(c), id, in.Role)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// pageFromQuery lee limit/offset con los topes de dto.PageRequest.
func pageFromQuery(c *fiber.Ctx) dto.PageRequest {
	page := dto.PageRequest{Limit: c.QueryInt("limit", 50), Offset: c.QueryInt("offset", 0)}
	page.DefaultPage()
	if page.Limit > 500 {
		page.Limit = 500
	}
	return page
}
