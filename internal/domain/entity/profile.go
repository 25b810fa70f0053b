package entity

import "time"

// Role es el rol de aplicación de un perfil.
type Role string

// Roles válidos para Profile. Cualquier otro valor se trata como no autorizado.
const (
	RolePendiente Role = "pendiente"
	RoleAprobado  Role = "aprobado"
	RoleCajero    Role = "cajero"
	RoleAdmin     Role = "admin"
	RoleRechazado Role = "rechazado"
)

// Roles devuelve los cinco roles enumerados en orden estable.
func Roles() []Role {
	return []Role{RolePendiente, RoleAprobado, RoleCajero, RoleAdmin, RoleRechazado}
}

// Valid indica si el rol es uno de los cinco valores enumerados.
func (r Role) Valid() bool {
	switch r {
	case RolePendiente, RoleAprobado, RoleCajero, RoleAdmin, RoleRechazado:
		return true
	}
	return false
}

func (r Role) String() string { return string(r) }

// ParseRole valida un rol que entra al sistema (body HTTP, fila de BD).
func ParseRole(s string) (Role, bool) {
	r := Role(s)
	return r, r.Valid()
}

// Profile es el registro de aplicación asociado 1:1 a una Identity.
// CommerceID identifica al comercio (tenant): para el dueño es su propio ID,
// para un cajero es el ID del jefe que lo solicitó.
type Profile struct {
	ID           string // mismo ID que la Identity
	FullName     string
	CommerceName string
	CommerceID   string
	Phone        string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsAdmin indica si el perfil tiene rol admin.
func (p *Profile) IsAdmin() bool { return p != nil && p.Role == RoleAdmin }
