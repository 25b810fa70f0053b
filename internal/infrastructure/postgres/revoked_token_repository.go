package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/abastoflow/abastoflow/internal/domain/repository"
)

var _ repository.RevokedTokenRepository = (*RevokedTokenRepo)(nil)

// RevokedTokenRepo lista de revocación de tokens sobre PostgreSQL.
type RevokedTokenRepo struct {
	q Querier
}

func NewRevokedTokenRepository(q Querier) *RevokedTokenRepo {
	return &RevokedTokenRepo{q: q}
}

func (r *RevokedTokenRepo) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO revoked_tokens (jti, expires_at) VALUES ($1, $2)
		ON CONFLICT (jti) DO UPDATE SET expires_at = GREATEST(revoked_tokens.expires_at, EXCLUDED.expires_at)`,
		jti, expiresAt,
	)
	if err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

func (r *RevokedTokenRepo) ExpiresAt(ctx context.Context, jti string) (time.Time, bool, error) {
	var exp time.Time
	err := r.q.QueryRow(ctx, `SELECT expires_at FROM revoked_tokens WHERE jti = $1`, jti).Scan(&exp)
	if errors.Is(err, pgx.ErrNoRows) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("get revoked token: %w", err)
	}
	return exp, true, nil
}

func (r *RevokedTokenRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM revoked_tokens WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, fmt.Errorf("purge revoked tokens: %w", err)
	}
	return tag.RowsAffected(), nil
}
