package repository

import (
	"context"

	"github.com/abastoflow/abastoflow/internal/domain/entity"
)

// IdentityRepository define el puerto de persistencia del proveedor de autenticación.
type IdentityRepository interface {
	// Create devuelve domain.ErrEmailAlreadyExists si el email ya está registrado.
	Create(ctx context.Context, identity *entity.Identity) error
	GetByID(ctx context.Context, id string) (*entity.Identity, error)
	GetByEmail(ctx context.Context, email string) (*entity.Identity, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	// Delete elimina la identidad; las FKs ON DELETE CASCADE eliminan sus datos.
	Delete(ctx context.Context, id string) error
}
