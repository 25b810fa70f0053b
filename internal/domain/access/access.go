// Package access resuelve, en una sola tabla de decisión, qué ve cada estado de
// sesión en cada ruta: (estado, rol, ruta) → render | placeholder | redirect(destino).
//
// La tabla garantiza que todo destino de redirección se renderiza para el mismo
// estado, de modo que ninguna navegación necesita más de un salto.
package access

import (
	"strings"

	"github.com/abastoflow/abastoflow/internal/domain/entity"
)

// Rutas visibles por el cliente.
const (
	PathRoot            = "/"
	PathLogin           = "/login"
	PathRegister        = "/registro"
	PathPendingApproval = "/pending-approval"
	PathDashboard       = "/dashboard"
	PathSales           = "/dashboard/ventas"
	PathPurchases       = "/dashboard/compras"
	PathInventory       = "/dashboard/inventario"
	PathSuppliers       = "/dashboard/proveedores"
	PathReports         = "/dashboard/reportes"
	PathProfile         = "/dashboard/perfil"
	PathSettings        = "/dashboard/ajustes"
	PathTeam            = "/dashboard/equipo"
	PathAdminLogin      = "/admin/login"
	PathAdminDashboard  = "/admin/dashboard"
)

// cashierAllowed rutas del layout autenticado navegables por un cajero.
var cashierAllowed = []string{PathSales, PathProfile, PathSettings}

// AuthState estado de sesión tal como lo expone el Session Store.
// Mientras Loading es true ningún consumidor debe decidir por rol.
type AuthState struct {
	Loading  bool
	Identity *entity.Identity
	Profile  *entity.Profile
}

// Guard variante de guardia que protege una ruta.
type Guard int

const (
	GuardNone Guard = iota
	GuardPublic
	GuardProtected
	GuardAdmin
	GuardPending
)

func (g Guard) String() string {
	switch g {
	case GuardPublic:
		return "public"
	case GuardProtected:
		return "protected"
	case GuardAdmin:
		return "admin"
	case GuardPending:
		return "pending"
	default:
		return "none"
	}
}

// Action resultado de evaluar una guardia.
type Action int

const (
	ActionRender Action = iota
	ActionPlaceholder
	ActionRedirect
)

func (a Action) String() string {
	switch a {
	case ActionPlaceholder:
		return "placeholder"
	case ActionRedirect:
		return "redirect"
	default:
		return "render"
	}
}

// Decision acción a tomar; Target solo aplica a ActionRedirect.
type Decision struct {
	Action Action
	Target string
}

// Render decisión de mostrar el contenido.
func Render() Decision { return Decision{Action: ActionRender} }

// Placeholder decisión de mostrar un estado neutro (cargando / sin permisos reconocibles).
func Placeholder() Decision { return Decision{Action: ActionPlaceholder} }

// RedirectTo decisión de navegar a target.
func RedirectTo(target string) Decision { return Decision{Action: ActionRedirect, Target: target} }

// Normalize limpia query, fragmento y barra final de una ruta.
func Normalize(path string) string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	for len(path) > 1 && strings.HasSuffix(path, "/") {
		path = strings.TrimSuffix(path, "/")
	}
	return path
}

// GuardFor devuelve la guardia que protege la ruta (ya normalizada o no).
func GuardFor(path string) Guard {
	p := Normalize(path)
	switch {
	case p == PathRoot || p == PathLogin || p == PathRegister:
		return GuardPublic
	case p == PathPendingApproval:
		return GuardPending
	case p == PathDashboard || strings.HasPrefix(p, PathDashboard+"/"):
		return GuardProtected
	case p == PathAdminDashboard || strings.HasPrefix(p, PathAdminDashboard+"/"):
		return GuardAdmin
	default:
		return GuardNone
	}
}

// Home devuelve el área por defecto de un estado autenticado.
// ok es false si no hay identidad o el rol no es reconocible.
func Home(state AuthState) (string, bool) {
	if state.Loading || state.Identity == nil {
		return "", false
	}
	if state.Profile == nil {
		return PathPendingApproval, true
	}
	switch state.Profile.Role {
	case entity.RoleAdmin:
		return PathAdminDashboard, true
	case entity.RolePendiente:
		return PathPendingApproval, true
	case entity.RoleCajero:
		return PathSales, true
	case entity.RoleAprobado, entity.RoleRechazado:
		return PathDashboard, true
	}
	return "", false
}

// CashierAllowed indica si un cajero puede navegar a la ruta del layout autenticado.
func CashierAllowed(path string) bool {
	p := Normalize(path)
	for _, allowed := range cashierAllowed {
		if p == allowed || strings.HasPrefix(p, allowed+"/") {
			return true
		}
	}
	return false
}

// Resolve aplica la guardia correspondiente a la ruta.
func Resolve(state AuthState, path string) Decision {
	p := Normalize(path)
	switch GuardFor(p) {
	case GuardPublic:
		return Public(state)
	case GuardProtected:
		return Protected(state, p)
	case GuardAdmin:
		return Admin(state)
	case GuardPending:
		return Pending(state)
	default:
		return Render()
	}
}

// Public login, registro y portada: solo para visitantes anónimos.
func Public(state AuthState) Decision {
	if state.Loading {
		return Placeholder()
	}
	if state.Identity == nil {
		return Render()
	}
	home, ok := Home(state)
	if !ok {
		return Placeholder()
	}
	return RedirectTo(home)
}

// Protected área autenticada general, con el filtro de rutas del layout para cajeros.
func Protected(state AuthState, path string) Decision {
	if state.Loading {
		return Placeholder()
	}
	if state.Identity == nil {
		return RedirectTo(PathLogin)
	}
	if state.Profile == nil {
		return RedirectTo(PathPendingApproval)
	}
	switch state.Profile.Role {
	case entity.RoleAdmin:
		return RedirectTo(PathAdminDashboard)
	case entity.RolePendiente:
		return RedirectTo(PathPendingApproval)
	case entity.RoleCajero:
		if !CashierAllowed(path) {
			return RedirectTo(PathSales)
		}
		return Render()
	case entity.RoleAprobado, entity.RoleRechazado:
		return Render()
	}
	return Placeholder()
}

// Admin panel de administración.
func Admin(state AuthState) Decision {
	if state.Loading {
		return Placeholder()
	}
	if state.Identity == nil {
		return RedirectTo(PathAdminLogin)
	}
	if state.Profile.IsAdmin() {
		return Render()
	}
	home, ok := Home(state)
	if !ok {
		return Placeholder()
	}
	return RedirectTo(home)
}

// Pending página de espera de aprobación.
func Pending(state AuthState) Decision {
	if state.Loading {
		return Placeholder()
	}
	if state.Identity == nil {
		return RedirectTo(PathLogin)
	}
	if state.Profile == nil || state.Profile.Role == entity.RolePendiente {
		return Render()
	}
	home, ok := Home(state)
	if !ok {
		return Placeholder()
	}
	return RedirectTo(home)
}
