package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/abastoflow/abastoflow/internal/application/dto"
	"github.com/abastoflow/abastoflow/internal/domain/access"
	"github.com/abastoflow/abastoflow/internal/domain/entity"
)

// ProfileLookup contrato mínimo para leer el perfil del usuario autenticado.
// Lo implementa la caché de perfiles; el rol no viaja en el token.
type ProfileLookup interface {
	GetByID(ctx context.Context, id string) (*entity.Profile, error)
}

// loadProfile lee el perfil una vez por petición y lo deja en c.Locals.
func loadProfile(c *fiber.Ctx, profiles ProfileLookup) (*entity.Profile, error) {
	if p, ok := c.Locals(LocalProfile).(*entity.Profile); ok {
		return p, nil
	}
	p, err := profiles.GetByID(c.Context(), GetUserID(c))
	if err != nil {
		return nil, err
	}
	if p != nil {
		c.Locals(LocalProfile, p)
	}
	return p, nil
}

// RequireAccess protege un grupo de la API con la misma tabla de guardias que la navegación
// del cliente: el grupo sirve a la ruta path y solo pasa si la decisión es Render.
//
//   - 401 si no hay identidad o la guardia manda al login.
//   - 403 con redirect_to si la guardia redirige a otra área.
//   - 403 sin redirect_to si el rol no es reconocible.
func RequireAccess(profiles ProfileLookup, path string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := GetUserID(c)
		if userID == "" {
			d := access.Resolve(access.AuthState{}, path)
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token requerido", RedirectTo: d.Target})
		}
		p, err := loadProfile(c, profiles)
		if err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
				Code:    "PROFILE_CHECK_FAILED",
				Message: "no se pudo verificar el perfil, intente más tarde",
			})
		}

		state := access.AuthState{Identity: &entity.Identity{ID: userID, Email: GetEmail(c)}, Profile: p}
		d := access.Resolve(state, path)
		switch d.Action {
		case access.ActionRender:
			return c.Next()
		case access.ActionRedirect:
			if d.Target == access.PathLogin || d.Target == access.PathAdminLogin {
				return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "sesión requerida", RedirectTo: d.Target})
			}
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "el rol no tiene acceso a esta sección", RedirectTo: d.Target})
		default:
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "rol no reconocido"})
		}
	}
}
