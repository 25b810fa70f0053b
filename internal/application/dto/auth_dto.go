package dto

import "time"

// RegisterRequest alta de un dueño de comercio; queda con rol pendiente.
type RegisterRequest struct {
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password" validate:"required,min=6"`
	FullName     string `json:"full_name" validate:"required,max=200"`
	CommerceName string `json:"commerce_name" validate:"required,max=200"`
	Phone        string `json:"phone" validate:"omitempty,max=30"`
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse token JWT y datos de la sesión.
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

// UserResponse identidad con su perfil (nil si aún no existe).
type UserResponse struct {
	ID      string           `json:"id"`
	Email   string           `json:"email"`
	Profile *ProfileResponse `json:"profile"`
}

// ChangePasswordRequest cambio de contraseña propia.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=6"`
}

// ProfileResponse salida de un perfil.
type ProfileResponse struct {
	ID           string    `json:"id"`
	FullName     string    `json:"full_name"`
	CommerceName string    `json:"commerce_name"`
	CommerceID   string    `json:"commerce_id"`
	Phone        string    `json:"phone"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UpdateProfileRequest campos de autoservicio; nil = sin cambio.
type UpdateProfileRequest struct {
	FullName     *string `json:"full_name" validate:"omitempty,min=1,max=200"`
	CommerceName *string `json:"commerce_name" validate:"omitempty,max=200"`
	Phone        *string `json:"phone" validate:"omitempty,max=30"`
}

// UpdateRoleRequest cambio de rol por un administrador.
type UpdateRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=pendiente aprobado cajero admin rechazado"`
}

// ProfileListResponse lista paginada de perfiles.
type ProfileListResponse struct {
	Items []ProfileResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// NavigationResponse decisión de la tabla de guardias para una ruta.
type NavigationResponse struct {
	Path       string `json:"path"`
	Guard      string `json:"guard"`
	Action     string `json:"action"`
	RedirectTo string `json:"redirect_to,omitempty"`
}
