package domain

import (
	"net/mail"
	"strings"

	"github.com/google/uuid"
)

// MinPasswordLength longitud mínima de contraseñas (registro, cambio y temporales de cajero).
const MinPasswordLength = 6

// ValidEmail valida el formato de un email simple (sin nombre visible).
func ValidEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

// NormalizeEmail recorta espacios y pasa a minúsculas.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidID indica si id es un UUID en forma canónica (36 caracteres), el formato de todas las claves.
func ValidID(id string) bool {
	if len(id) != 36 {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}

// ValidIDs igual que ValidID para varios IDs a la vez.
func ValidIDs(ids ...string) bool {
	for _, id := range ids {
		if !ValidID(id) {
			return false
		}
	}
	return true
}
