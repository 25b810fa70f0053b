package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/abastoflow/abastoflow/internal/domain"
	"github.com/abastoflow/abastoflow/internal/domain/entity"
	"github.com/abastoflow/abastoflow/internal/domain/repository"
)

var _ repository.IdentityRepository = (*IdentityRepo)(nil)

// IdentityRepo credenciales del proveedor de autenticación sobre PostgreSQL.
type IdentityRepo struct {
	q Querier
}

// NewIdentityRepository construye el adaptador. Pasar pool o tx (Querier).
func NewIdentityRepository(q Querier) *IdentityRepo {
	return &IdentityRepo{q: q}
}

// Create persiste una identidad. El índice único es sobre lower(email).
func (r *IdentityRepo) Create(ctx context.Context, i *entity.Identity) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO identities (id, email, password_hash, created_at) VALUES ($1, $2, $3, $4)`,
		i.ID, i.Email, i.PasswordHash, i.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("insert identity: %w", err)
	}
	return nil
}

// GetByID obtiene una identidad por ID; nil si no existe.
func (r *IdentityRepo) GetByID(ctx context.Context, id string) (*entity.Identity, error) {
	return r.findOne(ctx, `SELECT id, email, password_hash, created_at FROM identities WHERE id = $1`, id)
}

// GetByEmail búsqueda sin distinguir mayúsculas.
func (r *IdentityRepo) GetByEmail(ctx context.Context, email string) (*entity.Identity, error) {
	return r.findOne(ctx, `SELECT id, email, password_hash, created_at FROM identities WHERE lower(email) = lower($1)`, email)
}

func (r *IdentityRepo) findOne(ctx context.Context, query string, arg any) (*entity.Identity, error) {
	var i entity.Identity
	err := r.q.QueryRow(ctx, query, arg).Scan(&i.ID, &i.Email, &i.PasswordHash, &i.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get identity: %w", err)
	}
	return &i, nil
}

// UpdatePassword reemplaza el hash de la contraseña.
func (r *IdentityRepo) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	cmd, err := r.q.Exec(ctx, `UPDATE identities SET password_hash = $2 WHERE id = $1`, id, passwordHash)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// Delete elimina la identidad; ON DELETE CASCADE borra perfil, catálogo, ventas y compras del comercio.
func (r *IdentityRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM identities WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete identity: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
