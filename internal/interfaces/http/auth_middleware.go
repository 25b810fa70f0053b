package http

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/abastoflow/abastoflow/internal/application/checkout"
	"github.com/abastoflow/abastoflow/internal/application/dto"
	"github.com/abastoflow/abastoflow/pkg/jwt"
)

// Locals keys que deja el middleware de auth en Fiber.
const (
	LocalUserID     = "user_id"
	LocalCommerceID = "commerce_id"
	LocalEmail      = "email"
	LocalClaims     = "claims"
	LocalProfile    = "profile"
)

// RevocationChecker lista de tokens revocados por logout.
// Si la consulta falla el token se rechaza.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// AuthMiddleware valida el Bearer Token JWT y carga UserID, CommerceID y claims en c.Locals.
// revoked puede ser nil (sin logout del lado servidor).
func AuthMiddleware(jwtSecret string, revoked RevocationChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		claims, status, code, msg := parseBearer(c.Context(), jwtSecret, revoked, authHeader)
		if claims == nil {
			return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: msg})
		}
		setClaims(c, claims)
		return c.Next()
	}
}

// OptionalAuth igual que AuthMiddleware pero deja pasar peticiones anónimas o con token inválido
// sin cargar claims. La usa el endpoint de navegación.
func OptionalAuth(jwtSecret string, revoked RevocationChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if h := c.Get("Authorization"); h != "" {
			if claims, _, _, _ := parseBearer(c.Context(), jwtSecret, revoked, h); claims != nil {
				setClaims(c, claims)
			}
		}
		return c.Next()
	}
}

func parseBearer(ctx context.Context, secret string, revoked RevocationChecker, header string) (*jwt.Claims, int, string, string) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return nil, fiber.StatusUnauthorized, "INVALID_TOKEN", "formato: Bearer <token>"
	}
	tokenString := strings.TrimSpace(parts[1])
	if tokenString == "" {
		return nil, fiber.StatusUnauthorized, "MISSING_TOKEN", "token vacío"
	}
	claims, err := jwt.Parse(secret, tokenString)
	if err != nil {
		return nil, fiber.StatusUnauthorized, "INVALID_TOKEN", "token inválido o expirado"
	}
	if revoked != nil {
		isRevoked, err := revoked.IsRevoked(ctx, claims.TokenID())
		if err != nil {
			return nil, fiber.StatusServiceUnavailable, "REVOCATION_CHECK_FAILED", "no se pudo verificar la sesión, intente más tarde"
		}
		if isRevoked {
			return nil, fiber.StatusUnauthorized, "UNAUTHORIZED", "sesión cerrada"
		}
	}
	return claims, fiber.StatusOK, "", ""
}

func setClaims(c *fiber.Ctx, claims *jwt.Claims) {
	c.Locals(LocalUserID, claims.UserID)
	c.Locals(LocalCommerceID, claims.CommerceID)
	c.Locals(LocalEmail, claims.Email)
	c.Locals(LocalClaims, claims)
}

func localString(c *fiber.Ctx, key string) string {
	s, _ := c.Locals(key).(string)
	return s
}

// GetUserID devuelve el UserID del contexto (después del middleware de auth).
func GetUserID(c *fiber.Ctx) string { return localString(c, LocalUserID) }

// GetCommerceID devuelve el comercio del token (después del middleware de auth).
func GetCommerceID(c *fiber.Ctx) string { return localString(c, LocalCommerceID) }

// GetEmail devuelve el email del token.
func GetEmail(c *fiber.Ctx) string { return localString(c, LocalEmail) }

// GetClaims devuelve los claims completos o nil.
func GetClaims(c *fiber.Ctx) *jwt.Claims {
	claims, _ := c.Locals(LocalClaims).(*jwt.Claims)
	return claims
}

// GetActor actor de checkout derivado del token: quién registra y en qué comercio.
func GetActor(c *fiber.Ctx) checkout.Actor {
	return checkout.Actor{UserID: GetUserID(c), CommerceID: GetCommerceID(c)}
}
