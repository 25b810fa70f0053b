package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/abastoflow/abastoflow/internal/application/dto"
	"github.com/abastoflow/abastoflow/internal/domain/access"
	"github.com/abastoflow/abastoflow/internal/domain/entity"
)

// NavigationHandler expone la tabla de guardias a clientes que no la embeben.
type NavigationHandler struct {
	profiles ProfileLookup
}

// NewNavigationHandler construye el handler.
func NewNavigationHandler(profiles ProfileLookup) *NavigationHandler {
	return &NavigationHandler{profiles: profiles}
}

// Resolve godoc
// @Summary      Decisión de navegación
// @Description  Qué debe mostrar el cliente en path para el token actual: render, placeholder o redirect.
// @Description  Sin token se resuelve como visitante anónimo.
// @Tags         navigation
// @Produce      json
// @Param        path  query  string  true  "Ruta del cliente, p. ej. /dashboard/reportes"
// @Success      200   {object}  dto.NavigationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/navigation [get]
func (h *NavigationHandler) Resolve(c *fiber.Ctx) error {
	path := c.Query("path")
	if path == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "path es requerido"})
	}
	path = access.Normalize(path)

	var state access.AuthState
	if userID := GetUserID(c); userID != "" {
		p, err := loadProfile(c, h.profiles)
		if err != nil {
			return respondError(c, err)
		}
		state = access.AuthState{Identity: &entity.Identity{ID: userID, Email: GetEmail(c)}, Profile: p}
	}

	d := access.Resolve(state, path)
	return c.JSON(dto.NavigationResponse{
		Path:       path,
		Guard:      access.GuardFor(path).String(),
		Action:     d.Action.String(),
		RedirectTo: d.Target,
	})
}
