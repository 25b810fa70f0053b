package repository

import (
	"context"

	"github.com/abastoflow/abastoflow/internal/domain/entity"
)

// ProfileRepository define el puerto de persistencia para Profile (uno por Identity).
type ProfileRepository interface {
	Create(ctx context.Context, profile *entity.Profile) error
	GetByID(ctx context.Context, id string) (*entity.Profile, error)
	// Update modifica solo los campos de autoservicio (nombre, comercio, teléfono).
	Update(ctx context.Context, profile *entity.Profile) error
	UpdateRole(ctx context.Context, id string, role entity.Role) error
	List(ctx context.Context, limit, offset int) ([]*entity.Profile, error)
}
