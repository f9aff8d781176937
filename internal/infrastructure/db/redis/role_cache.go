package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/userhub/identity-service/internal/core/domain"
	"github.com/userhub/identity-service/internal/core/ports"
)

const roleCacheTTL = 5 * time.Minute

// roleCacheTotal counts cache lookups by result ("hit" / "miss").
var roleCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "identity",
		Name:      "role_cache_total",
		Help:      "Total number of role cache lookups, labelled by result (hit/miss).",
	},
	[]string{"result"},
)

// RoleCache is a read-through cache in front of a RoleRepository. Every
// authenticated request resolves a role, roles change rarely, so id and name
// lookups are cached with a short TTL and invalidated on any mutation.
// Redis failures degrade to the inner store, never to a request failure.
type RoleCache struct {
	inner  ports.RoleRepository
	client *redis.Client
	log    zerolog.Logger
}

// NewRoleCache wraps inner with a Redis-backed cache.
func NewRoleCache(inner ports.RoleRepository, client *redis.Client, log zerolog.Logger) *RoleCache {
	return &RoleCache{inner: inner, client: client, log: log}
}

func (c *RoleCache) FindByID(ctx context.Context, id string) (*domain.Role, error) {
	if role := c.get(ctx, idKey(id)); role != nil {
		return role, nil
	}
	role, err := c.inner.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.put(ctx, role)
	return role, nil
}

func (c *RoleCache) FindByName(ctx context.Context, name string) (*domain.Role, error) {
	canonical := domain.CanonicalRoleName(name)
	if role := c.get(ctx, nameKey(canonical)); role != nil {
		return role, nil
	}
	role, err := c.inner.FindByName(ctx, canonical)
	if err != nil {
		return nil, err
	}
	c.put(ctx, role)
	return role, nil
}

// List and ListActive pass through: listings are admin-side and rare.
func (c *RoleCache) List(ctx context.Context) ([]domain.Role, error) {
	return c.inner.List(ctx)
}

func (c *RoleCache) ListActive(ctx context.Context) ([]domain.Role, error) {
	return c.inner.ListActive(ctx)
}

func (c *RoleCache) Insert(ctx context.Context, role *domain.Role) (*domain.Role, error) {
	created, err := c.inner.Insert(ctx, role)
	if err != nil {
		return nil, err
	}
	c.invalidate(ctx, created)
	return created, nil
}

func (c *RoleCache) Update(ctx context.Context, role *domain.Role) (*domain.Role, error) {
	updated, err := c.inner.Update(ctx, role)
	if err != nil {
		return nil, err
	}
	c.invalidate(ctx, updated)
	return updated, nil
}

func (c *RoleCache) Delete(ctx context.Context, id string) error {
	// Look the role up first so the name key can be dropped too.
	role, err := c.inner.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := c.inner.Delete(ctx, id); err != nil {
		return err
	}
	c.invalidate(ctx, role)
	return nil
}

func (c *RoleCache) get(ctx context.Context, key string) *domain.Role {
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn().Err(err).Str("key", key).Msg("role cache read failed")
		}
		roleCacheTotal.WithLabelValues("miss").Inc()
		return nil
	}
	var role domain.Role
	if err := json.Unmarshal(raw, &role); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("role cache entry corrupt")
		roleCacheTotal.WithLabelValues("miss").Inc()
		return nil
	}
	roleCacheTotal.WithLabelValues("hit").Inc()
	return &role
}

func (c *RoleCache) put(ctx context.Context, role *domain.Role) {
	raw, err := json.Marshal(role)
	if err != nil {
		return
	}
	pipe := c.client.Pipeline()
	pipe.Set(ctx, idKey(role.ID), raw, roleCacheTTL)
	pipe.Set(ctx, nameKey(role.Name), raw, roleCacheTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		c.log.Warn().Err(err).Str("role", role.Name).Msg("role cache write failed")
	}
}

func (c *RoleCache) invalidate(ctx context.Context, role *domain.Role) {
	if err := c.client.Del(ctx, idKey(role.ID), nameKey(role.Name)).Err(); err != nil {
		c.log.Warn().Err(err).Str("role", role.Name).Msg("role cache invalidation failed")
	}
}

func idKey(id string) string {
	return fmt.Sprintf("role:id:%s", id)
}

func nameKey(name string) string {
	return fmt.Sprintf("role:name:%s", name)
}
