package cache

import (
	"context"
	"time"

	"github.com/karlseguin/ccache/v3"

	"github.com/abastoflow/abastoflow/internal/domain/repository"
)

// defaultUnknownTTL cuánto se recuerda que un jti no está revocado.
const defaultUnknownTTL = 30 * time.Second

// RevokedTokens lista de jti revocados por logout, persistida en el repositorio.
//
// ccache solo acelera la consulta: una entrada desalojada vuelve a leerse del repositorio,
// así el tamaño de la caché nunca decide si un token revocado vuelve a valer.
// Las revocaciones hechas en este proceso entran a la caché al escribirse.
type RevokedTokens struct {
	repo       repository.RevokedTokenRepository
	lru        *ccache.Cache[bool]
	unknownTTL time.Duration
	now        func() time.Time
}

// NewRevokedTokens construye la lista. maxSize <= 0 usa 10000; unknownTTL <= 0 usa 30s.
func NewRevokedTokens(repo repository.RevokedTokenRepository, maxSize int64, unknownTTL time.Duration) *RevokedTokens {
	if maxSize <= 0 {
		maxSize = 10000
	}
	if unknownTTL <= 0 {
		unknownTTL = defaultUnknownTTL
	}
	return &RevokedTokens{
		repo:       repo,
		lru:        ccache.New(ccache.Configure[bool]().MaxSize(maxSize)),
		unknownTTL: unknownTTL,
		now:        time.Now,
	}
}

// Revoke marca el jti como revocado hasta exp. Tokens ya expirados se ignoran.
// Si el repositorio falla la revocación no se da por hecha.
func (r *RevokedTokens) Revoke(ctx context.Context, jti string, exp time.Time) error {
	if jti == "" {
		return nil
	}
	if exp.IsZero() {
		exp = r.now().Add(24 * time.Hour)
	}
	ttl := exp.Sub(r.now())
	if ttl <= 0 {
		return nil
	}
	if err := r.repo.Revoke(ctx, jti, exp); err != nil {
		return err
	}
	r.lru.Set(jti, true, ttl)
	return nil
}

// IsRevoked indica si el jti sigue revocado. Con error el llamador debe rechazar el token.
func (r *RevokedTokens) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if jti == "" {
		return false, nil
	}
	if item := r.lru.Get(jti); item != nil && !item.Expired() {
		return item.Value(), nil
	}
	exp, found, err := r.repo.ExpiresAt(ctx, jti)
	if err != nil {
		return false, err
	}
	if ttl := exp.Sub(r.now()); found && ttl > 0 {
		r.lru.Set(jti, true, ttl)
		return true, nil
	}
	r.lru.Set(jti, false, r.unknownTTL)
	return false, nil
}

// Purge borra del repositorio las revocaciones cuyo token ya expiró.
func (r *RevokedTokens) Purge(ctx context.Context) (int64, error) {
	return r.repo.DeleteExpired(ctx, r.now())
}

// Stop detiene la goroutine de mantenimiento de ccache.
func (r *RevokedTokens) Stop() { r.lru.Stop() }
