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

var _ repository.ProfileRepository = (*ProfileRepo)(nil)

// ProfileRepo perfiles de aplicación sobre PostgreSQL.
type ProfileRepo struct {
	q Querier
}

// NewProfileRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProfileRepository(q Querier) *ProfileRepo {
	return &ProfileRepo{q: q}
}

const profileColumns = `id, full_name, commerce_name, commerce_id, phone, role, created_at, updated_at`

func scanProfile(row pgx.Row) (*entity.Profile, error) {
	var p entity.Profile
	var role string
	if err := row.Scan(&p.ID, &p.FullName, &p.CommerceName, &p.CommerceID, &p.Phone, &role, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	// Un valor fuera de los cinco roles se conserva tal cual: los guards lo tratan como no autorizado.
	p.Role = entity.Role(role)
	return &p, nil
}

// Create persiste un perfil; 23505 si la identidad ya tiene uno.
func (r *ProfileRepo) Create(ctx context.Context, p *entity.Profile) error {
	if !p.Role.Valid() {
		return domain.ErrInvalidRole
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO profiles (`+profileColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		p.ID, p.FullName, p.CommerceName, p.CommerceID, p.Phone, string(p.Role), p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert profile: %w", err)
	}
	return nil
}

// GetByID obtiene el perfil de una identidad; nil si no existe.
func (r *ProfileRepo) GetByID(ctx context.Context, id string) (*entity.Profile, error) {
	p, err := scanProfile(r.q.QueryRow(ctx, `SELECT `+profileColumns+` FROM profiles WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return p, nil
}

// Update modifica solo los campos de autoservicio.
func (r *ProfileRepo) Update(ctx context.Context, p *entity.Profile) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE profiles SET full_name = $2, commerce_name = $3, phone = $4, updated_at = now()
		WHERE id = $1`,
		p.ID, p.FullName, p.CommerceName, p.Phone,
	)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrProfileNotFound
	}
	return nil
}

// UpdateRole cambio de rol hecho por un admin.
func (r *ProfileRepo) UpdateRole(ctx context.Context, id string, role entity.Role) error {
	if !role.Valid() {
		return domain.ErrInvalidRole
	}
	cmd, err := r.q.Exec(ctx, `UPDATE profiles SET role = $2, updated_at = now() WHERE id = $1`, id, string(role))
	if err != nil {
		return fmt.Errorf("update role: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrProfileNotFound
	}
	return nil
}

// List perfiles más recientes primero (panel de administración).
func (r *ProfileRepo) List(ctx context.Context, limit, offset int) ([]*entity.Profile, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+profileColumns+` FROM profiles ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		pageLimit(limit), offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer rows.Close()
	var list []*entity.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}
