package repository

import (
	"context"
	"time"
)

// RevokedTokenRepository persistencia de los jti revocados por logout.
type RevokedTokenRepository interface {
	// Revoke registra el jti hasta expiresAt. Revocar dos veces conserva la expiración mayor.
	Revoke(ctx context.Context, jti string, expiresAt time.Time) error
	// ExpiresAt devuelve hasta cuándo está revocado el jti; found es false si nunca se revocó.
	ExpiresAt(ctx context.Context, jti string) (expiresAt time.Time, found bool, err error)
	// DeleteExpired borra las revocaciones vencidas antes de now.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
