package entity

import "time"

// Identity es el principal autenticado que administra el proveedor de autenticación.
// Es inmutable después de creada, salvo la contraseña.
type Identity struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt, nunca se expone fuera del proveedor
	CreatedAt    time.Time
}
