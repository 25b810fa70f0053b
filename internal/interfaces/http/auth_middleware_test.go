package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abastoflow/abastoflow/internal/application/dto"
	"github.com/abastoflow/abastoflow/internal/domain/access"
	"github.com/abastoflow/abastoflow/internal/domain/entity"
	"github.com/abastoflow/abastoflow/internal/infrastructure/cache"
	apphttp "github.com/abastoflow/abastoflow/internal/interfaces/http"
	pkgjwt "github.com/abastoflow/abastoflow/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret  = "test-secret-key-for-unit-tests"
	testCommerceID = "00000000-0000-0000-0000-0000000000c1"
	testIssuer     = "abastoflow-test"
	testExpMin     = 60
)

// Un usuario por rol; "sin-perfil" no tiene perfil y "raro" tiene un rol fuera del enumerado.
var testProfiles = map[string]*entity.Profile{
	"u-admin":     {ID: "u-admin", Role: entity.RoleAdmin, CommerceID: "u-admin"},
	"u-aprobado":  {ID: "u-aprobado", Role: entity.RoleAprobado, CommerceID: testCommerceID},
	"u-cajero":    {ID: "u-cajero", Role: entity.RoleCajero, CommerceID: testCommerceID},
	"u-pendiente": {ID: "u-pendiente", Role: entity.RolePendiente, CommerceID: "u-pendiente"},
	"u-rechazado": {ID: "u-rechazado", Role: entity.RoleRechazado, CommerceID: "u-rechazado"},
	"u-raro":      {ID: "u-raro", Role: entity.Role("supervisor")},
}

type staticProfiles map[string]*entity.Profile

func (s staticProfiles) GetByID(_ context.Context, id string) (*entity.Profile, error) {
	p, ok := s[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func okHandler(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"ok": true})
}

// buildAuthApp construye una aplicación Fiber mínima con solo AuthMiddleware.
func buildAuthApp(revoked apphttp.RevocationChecker) *fiber.App {
	app := fiber.New()
	app.Get("/protected", apphttp.AuthMiddleware(testJWTSecret, revoked), okHandler)
	return app
}

// buildAccessApp protege /protected con la guardia de la sección path.
func buildAccessApp(path string) *fiber.App {
	app := fiber.New()
	app.Get("/protected",
		apphttp.AuthMiddleware(testJWTSecret, nil),
		apphttp.RequireAccess(staticProfiles(testProfiles), path),
		okHandler,
	)
	return app
}

func tokenFor(t *testing.T, userID string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, userID, testCommerceID, userID+"@abasto.mx", testIssuer, testExpMin)
	require.NoError(t, err, "debe generarse un token JWT válido")
	return "Bearer " + tok
}

func doRequest(t *testing.T, app *fiber.App, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeError(t *testing.T, resp *http.Response) dto.ErrorResponse {
	t.Helper()
	var body dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests AuthMiddleware: token y revocación
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_TokenValido(t *testing.T) {
	resp := doRequest(t, buildAuthApp(nil), tokenFor(t, "u-admin"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, true, body["ok"])
}

func TestAuthMiddleware_SinAuthHeader_Retorna401(t *testing.T) {
	resp := doRequest(t, buildAuthApp(nil), "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "MISSING_TOKEN", decodeError(t, resp).Code)
}

func TestAuthMiddleware_TokenInvalido_Retorna401(t *testing.T) {
	resp := doRequest(t, buildAuthApp(nil), "Bearer token.invalido.aqui")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "INVALID_TOKEN", decodeError(t, resp).Code)
}

// memRevocations guarda revocaciones en memoria; err simula la base caída.
type memRevocations struct {
	byJTI map[string]time.Time
	err   error
}

func (m *memRevocations) Revoke(_ context.Context, jti string, exp time.Time) error {
	if m.err != nil {
		return m.err
	}
	m.byJTI[jti] = exp
	return nil
}

func (m *memRevocations) ExpiresAt(_ context.Context, jti string) (time.Time, bool, error) {
	if m.err != nil {
		return time.Time{}, false, m.err
	}
	exp, ok := m.byJTI[jti]
	return exp, ok, nil
}

func (m *memRevocations) DeleteExpired(context.Context, time.Time) (int64, error) { return 0, nil }

func TestAuthMiddleware_TokenRevocado_Retorna401(t *testing.T) {
	revoked := cache.NewRevokedTokens(&memRevocations{byJTI: map[string]time.Time{}}, 10, time.Minute)
	defer revoked.Stop()

	tok, err := pkgjwt.Generate(testJWTSecret, "u-admin", "u-admin", "a@abasto.mx", testIssuer, testExpMin)
	require.NoError(t, err)
	claims, err := pkgjwt.Parse(testJWTSecret, tok)
	require.NoError(t, err)
	require.NoError(t, revoked.Revoke(context.Background(), claims.TokenID(), time.Now().Add(time.Hour)))

	resp := doRequest(t, buildAuthApp(revoked), "Bearer "+tok)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "un token revocado por logout ya no sirve")
}

func TestAuthMiddleware_RevocacionNoVerificable_Retorna503(t *testing.T) {
	repo := &memRevocations{byJTI: map[string]time.Time{}, err: errors.New("db caída")}
	revoked := cache.NewRevokedTokens(repo, 10, time.Minute)
	defer revoked.Stop()

	resp := doRequest(t, buildAuthApp(revoked), tokenFor(t, "u-admin"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "REVOCATION_CHECK_FAILED", decodeError(t, resp).Code)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests AuthMiddleware: extracción de claims del token
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_ExtraeClaims(t *testing.T) {
	app := fiber.New()
	app.Get("/me", apphttp.AuthMiddleware(testJWTSecret, nil), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"user_id":     apphttp.GetUserID(c),
			"commerce_id": apphttp.GetCommerceID(c),
			"email":       apphttp.GetEmail(c),
			"actor":       apphttp.GetActor(c).CommerceID,
		})
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", tokenFor(t, "u-cajero"))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "u-cajero", body["user_id"])
	assert.Equal(t, testCommerceID, body["commerce_id"])
	assert.Equal(t, "u-cajero@abasto.mx", body["email"])
	assert.Equal(t, testCommerceID, body["actor"])
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests RequireAccess: la tabla de guardias aplicada a la API
// ──────────────────────────────────────────────────────────────────────────────

func TestRequireAccess(t *testing.T) {
	cases := []struct {
		name       string
		path       string
		user       string
		status     int
		redirectTo string
	}{
		{"cajero en ventas", access.PathSales, "u-cajero", http.StatusOK, ""},
		{"cajero en reportes va a ventas", access.PathReports, "u-cajero", http.StatusForbidden, access.PathSales},
		{"aprobado en reportes", access.PathReports, "u-aprobado", http.StatusOK, ""},
		{"rechazado en inventario", access.PathInventory, "u-rechazado", http.StatusOK, ""},
		{"pendiente a la espera", access.PathSales, "u-pendiente", http.StatusForbidden, access.PathPendingApproval},
		{"sin perfil a la espera", access.PathSales, "sin-perfil", http.StatusForbidden, access.PathPendingApproval},
		{"admin fuera del dashboard", access.PathSales, "u-admin", http.StatusForbidden, access.PathAdminDashboard},
		{"admin en su panel", access.PathAdminDashboard, "u-admin", http.StatusOK, ""},
		{"aprobado en panel admin", access.PathAdminDashboard, "u-aprobado", http.StatusForbidden, access.PathDashboard},
		{"rol desconocido", access.PathSales, "u-raro", http.StatusForbidden, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := doRequest(t, buildAccessApp(tc.path), tokenFor(t, tc.user))
			defer resp.Body.Close()

			assert.Equal(t, tc.status, resp.StatusCode)
			if tc.status != http.StatusOK {
				assert.Equal(t, tc.redirectTo, decodeError(t, resp).RedirectTo)
			}
		})
	}
}

func TestRequireAccess_SinToken(t *testing.T) {
	app := fiber.New()
	app.Get("/protected", apphttp.RequireAccess(staticProfiles(testProfiles), access.PathAdminDashboard), okHandler)

	resp := doRequest(t, app, "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, access.PathAdminLogin, decodeError(t, resp).RedirectTo)
}
