// Package redis provides a Redis implementation of the AccessCache interface.
package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/ersonp/revmod/internal/domain/ports"
	"github.com/ersonp/revmod/internal/infrastructure/config"
)

const keyPrefix = "revmod:access"

// Cache stores access decisions under per-entity versioned keys. Invalidate
// bumps the entity's version so earlier decisions are never read again; they
// expire with the TTL.
type Cache struct {
	client *goredis.Client
	ttl    time.Duration
	group  singleflight.Group
	logger *zap.Logger
}

var _ ports.AccessCache = (*Cache)(nil)

// New connects to Redis and verifies the connection.
func New(ctx context.Context, cfg config.RedisConfig, logger *zap.Logger) (*Cache, error) {
	if cfg.Addr == "" {
		return nil, errors.New("redis address is required")
	}
	client := goredis.NewClient(&goredis.Options{Addr: cfg.Addr})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}
	return NewCache(client, cfg.TTL, logger), nil
}

// NewCache wraps an existing client.
func NewCache(client *goredis.Client, ttl time.Duration, logger *zap.Logger) *Cache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{client: client, ttl: ttl, logger: logger}
}

// Close closes the Redis client.
func (c *Cache) Close() error {
	return c.client.Close()
}

// Remember returns the cached decision for key or computes and stores it.
// Concurrent lookups of the same key share one computation. Redis failures
// fall back to computing the decision.
func (c *Cache) Remember(ctx context.Context, key ports.AccessKey, compute func(ctx context.Context) (bool, error)) (bool, error) {
	version, err := c.version(ctx, key.EntityID)
	if err != nil {
		c.logger.Warn("reading access cache version", zap.String("entity_id", key.EntityID), zap.Error(err))
		return compute(ctx)
	}
	cacheKey := decisionKey(key, version)

	resultChan := c.group.DoChan(cacheKey, func() (any, error) {
		return c.load(ctx, cacheKey, compute)
	})
	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case res := <-resultChan:
		if res.Err != nil {
			return false, res.Err
		}
		return res.Val.(bool), nil
	}
}

// Invalidate drops every cached decision for the entity.
func (c *Cache) Invalidate(ctx context.Context, entityID string) error {
	if err := c.client.Incr(ctx, versionKey(entityID)).Err(); err != nil {
		return fmt.Errorf("bumping access cache version: %w", err)
	}
	return nil
}

func (c *Cache) load(ctx context.Context, cacheKey string, compute func(ctx context.Context) (bool, error)) (bool, error) {
	cached, err := c.client.Get(ctx, cacheKey).Result()
	switch {
	case err == nil:
		return cached == "1", nil
	case !errors.Is(err, goredis.Nil):
		c.logger.Warn("reading access cache", zap.String("key", cacheKey), zap.Error(err))
	}

	allowed, err := compute(ctx)
	if err != nil {
		return false, err
	}

	value := "0"
	if allowed {
		value = "1"
	}
	if err := c.client.Set(ctx, cacheKey, value, c.ttl).Err(); err != nil {
		c.logger.Warn("writing access cache", zap.String("key", cacheKey), zap.Error(err))
	}
	return allowed, nil
}

func (c *Cache) version(ctx context.Context, entityID string) (int64, error) {
	ver, err := c.client.Get(ctx, versionKey(entityID)).Int64()
	if errors.Is(err, goredis.Nil) {
		return 0, nil
	}
	return ver, err
}

func versionKey(entityID string) string {
	return strings.Join([]string{keyPrefix, entityID, "version"}, ":")
}

func decisionKey(key ports.AccessKey, version int64) string {
	return strings.Join([]string{
		keyPrefix,
		key.EntityID,
		fmt.Sprintf("v%d", version),
		key.PrincipalID,
		key.Grants,
		key.RevisionID.String(),
		string(key.Operation),
	}, ":")
}
