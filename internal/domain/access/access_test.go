package access_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abastoflow/abastoflow/internal/domain/access"
	"github.com/abastoflow/abastoflow/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

var allPaths = []string{
	access.PathRoot,
	access.PathLogin,
	access.PathRegister,
	access.PathPendingApproval,
	access.PathDashboard,
	access.PathSales,
	access.PathPurchases,
	access.PathInventory,
	access.PathSuppliers,
	access.PathReports,
	access.PathProfile,
	access.PathSettings,
	access.PathTeam,
	access.PathAdminLogin,
	access.PathAdminDashboard,
	"/no-existe",
}

func withRole(role entity.Role) access.AuthState {
	return access.AuthState{
		Identity: &entity.Identity{ID: "u-1", Email: "u@abasto.mx"},
		Profile:  &entity.Profile{ID: "u-1", Role: role},
	}
}

// allStates cubre carga, anónimo, identidad sin perfil, los cinco roles y un rol desconocido.
func allStates() map[string]access.AuthState {
	states := map[string]access.AuthState{
		"loading":         {Loading: true},
		"anonimo":         {},
		"sin_perfil":      {Identity: &entity.Identity{ID: "u-1"}},
		"rol_desconocido": withRole(entity.Role("superusuario")),
	}
	for _, r := range entity.Roles() {
		states[string(r)] = withRole(r)
	}
	return states
}

// ──────────────────────────────────────────────────────────────────────────────
// Propiedades de la tabla
// ──────────────────────────────────────────────────────────────────────────────

// Todo destino de redirección debe renderizarse para el mismo estado (punto fijo en un salto).
func TestResolve_PuntoFijoEnUnSalto(t *testing.T) {
	for name, state := range allStates() {
		for _, path := range allPaths {
			t.Run(fmt.Sprintf("%s%s", name, path), func(t *testing.T) {
				d := access.Resolve(state, path)
				if d.Action != access.ActionRedirect {
					return
				}
				require.NotEmpty(t, d.Target)
				next := access.Resolve(state, d.Target)
				assert.Equal(t, access.ActionRender, next.Action,
					"el destino %s debe renderizarse sin volver a redirigir", d.Target)
			})
		}
	}
}

func TestResolve_LoadingSiempreEsPlaceholder(t *testing.T) {
	state := access.AuthState{Loading: true, Identity: &entity.Identity{ID: "u-1"}, Profile: &entity.Profile{Role: entity.RoleAdmin}}
	for _, path := range allPaths {
		g := access.GuardFor(path)
		if g == access.GuardNone {
			continue
		}
		assert.Equal(t, access.Placeholder(), access.Resolve(state, path), "ruta %s", path)
	}
}

func TestResolve_RolDesconocidoNuncaAutoriza(t *testing.T) {
	state := withRole(entity.Role("dueño"))
	for _, path := range allPaths {
		if access.GuardFor(path) == access.GuardNone {
			continue
		}
		d := access.Resolve(state, path)
		assert.Equal(t, access.ActionPlaceholder, d.Action, "ruta %s", path)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Escenarios
// ──────────────────────────────────────────────────────────────────────────────

func TestResolve_Escenarios(t *testing.T) {
	tests := []struct {
		name  string
		state access.AuthState
		path  string
		want  access.Decision
	}{
		{"pendiente en dashboard", withRole(entity.RolePendiente), "/dashboard", access.RedirectTo(access.PathPendingApproval)},
		{"cajero en dashboard índice", withRole(entity.RoleCajero), "/dashboard", access.RedirectTo(access.PathSales)},
		{"admin en login", withRole(entity.RoleAdmin), "/login", access.RedirectTo(access.PathAdminDashboard)},
		{"admin en dashboard", withRole(entity.RoleAdmin), "/dashboard/ventas", access.RedirectTo(access.PathAdminDashboard)},
		{"anónimo en dashboard", access.AuthState{}, "/dashboard", access.RedirectTo(access.PathLogin)},
		{"anónimo en login", access.AuthState{}, "/login", access.Render()},
		{"anónimo en admin", access.AuthState{}, "/admin/dashboard", access.RedirectTo(access.PathAdminLogin)},
		{"cajero en compras", withRole(entity.RoleCajero), "/dashboard/compras", access.RedirectTo(access.PathSales)},
		{"cajero en perfil", withRole(entity.RoleCajero), "/dashboard/perfil/", access.Render()},
		{"cajero en ajustes", withRole(entity.RoleCajero), "/dashboard/ajustes?tab=1", access.Render()},
		{"cajero en admin", withRole(entity.RoleCajero), "/admin/dashboard", access.RedirectTo(access.PathSales)},
		{"aprobado en reportes", withRole(entity.RoleAprobado), "/dashboard/reportes", access.Render()},
		{"aprobado en registro", withRole(entity.RoleAprobado), "/registro", access.RedirectTo(access.PathDashboard)},
		{"aprobado en pendiente", withRole(entity.RoleAprobado), "/pending-approval", access.RedirectTo(access.PathDashboard)},
		{"rechazado en dashboard", withRole(entity.RoleRechazado), "/dashboard", access.Render()},
		{"sin perfil en dashboard", access.AuthState{Identity: &entity.Identity{ID: "u"}}, "/dashboard", access.RedirectTo(access.PathPendingApproval)},
		{"sin perfil en pendiente", access.AuthState{Identity: &entity.Identity{ID: "u"}}, "/pending-approval", access.Render()},
		{"anónimo en pendiente", access.AuthState{}, "/pending-approval", access.RedirectTo(access.PathLogin)},
		{"admin login sin guardia", withRole(entity.RoleCajero), "/admin/login", access.Render()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, access.Resolve(tt.state, tt.path))
		})
	}
}

func TestHome(t *testing.T) {
	_, ok := access.Home(access.AuthState{})
	assert.False(t, ok, "sin identidad no hay área por defecto")

	home, ok := access.Home(access.AuthState{Identity: &entity.Identity{ID: "u"}})
	require.True(t, ok)
	assert.Equal(t, access.PathPendingApproval, home)

	home, ok = access.Home(withRole(entity.RoleCajero))
	require.True(t, ok)
	assert.Equal(t, access.PathSales, home)
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "/dashboard", access.Normalize("/dashboard/"))
	assert.Equal(t, "/", access.Normalize("/"))
	assert.Equal(t, "/login", access.Normalize("login"))
	assert.Equal(t, "/dashboard/ventas", access.Normalize("/dashboard/ventas?x=1#top"))
}

func TestGuardFor(t *testing.T) {
	assert.Equal(t, access.GuardPublic, access.GuardFor("/"))
	assert.Equal(t, access.GuardProtected, access.GuardFor("/dashboard/inventario"))
	assert.Equal(t, access.GuardAdmin, access.GuardFor("/admin/dashboard"))
	assert.Equal(t, access.GuardPending, access.GuardFor("/pending-approval"))
	assert.Equal(t, access.GuardNone, access.GuardFor("/admin/login"))
	assert.Equal(t, access.GuardNone, access.GuardFor("/dashboardx"))
}
