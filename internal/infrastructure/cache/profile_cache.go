// Package cache implementa cachés en memoria del proceso sobre ccache.
package cache

import (
	"context"
	"time"

	"github.com/karlseguin/ccache/v3"

	"github.com/abastoflow/abastoflow/internal/domain/entity"
	"github.com/abastoflow/abastoflow/internal/domain/repository"
)

var _ repository.ProfileRepository = (*ProfileCache)(nil)

// ProfileCache decora un ProfileRepository con una caché LRU por ID.
// Las escrituras invalidan la entrada, así un cambio de rol se ve en la siguiente petición.
type ProfileCache struct {
	repository.ProfileRepository
	lru *ccache.Cache[*entity.Profile]
	ttl time.Duration
}

// NewProfileCache construye la caché. maxSize <= 0 usa 5000.
func NewProfileCache(repo repository.ProfileRepository, maxSize int64, ttl time.Duration) *ProfileCache {
	if maxSize <= 0 {
		maxSize = 5000
	}
	return &ProfileCache{
		ProfileRepository: repo,
		lru:               ccache.New(ccache.Configure[*entity.Profile]().MaxSize(maxSize)),
		ttl:               ttl,
	}
}

// GetByID lee de la caché; en fallo consulta el repositorio. Un perfil inexistente no se cachea.
func (c *ProfileCache) GetByID(ctx context.Context, id string) (*entity.Profile, error) {
	if item := c.lru.Get(id); item != nil && !item.Expired() {
		p := *item.Value()
		return &p, nil
	}
	p, err := c.ProfileRepository.GetByID(ctx, id)
	if err != nil || p == nil {
		return p, err
	}
	cp := *p
	c.lru.Set(id, &cp, c.ttl)
	return p, nil
}

func (c *ProfileCache) Create(ctx context.Context, p *entity.Profile) error {
	c.lru.Delete(p.ID)
	return c.ProfileRepository.Create(ctx, p)
}

func (c *ProfileCache) Update(ctx context.Context, p *entity.Profile) error {
	defer c.lru.Delete(p.ID)
	return c.ProfileRepository.Update(ctx, p)
}

func (c *ProfileCache) UpdateRole(ctx context.Context, id string, role entity.Role) error {
	defer c.lru.Delete(id)
	return c.ProfileRepository.UpdateRole(ctx, id, role)
}

// Invalidate descarta la entrada (p. ej. tras borrar la identidad).
func (c *ProfileCache) Invalidate(id string) { c.lru.Delete(id) }

// Stop detiene la goroutine de mantenimiento de ccache.
func (c *ProfileCache) Stop() { c.lru.Stop() }
