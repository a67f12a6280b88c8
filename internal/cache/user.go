// Package cache provides a redis-backed cache for user lookups.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gameswap/internal/model"

	"github.com/redis/go-redis/v9"
)

// UserCache stores user snapshots under both their id and their name so
// either identifier resolves without a store read.
type UserCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewUserCache(rdb *redis.Client, ttl time.Duration) *UserCache {
	return &UserCache{rdb: rdb, ttl: ttl}
}

func userKey(identifier string) string {
	return "user:" + identifier
}

// Get returns the cached user for an id or name, or nil on a miss.
func (c *UserCache) Get(ctx context.Context, identifier string) (*model.User, error) {
	data, err := c.rdb.Get(ctx, userKey(identifier)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cache get: %w", err)
	}

	var u model.User
	if err := json.Unmarshal(data, &u); err != nil {
		return nil, fmt.Errorf("cache decode: %w", err)
	}
	return &u, nil
}

// Set caches the user under its id and name keys.
func (c *UserCache) Set(ctx context.Context, u *model.User) error {
	data, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("cache encode: %w", err)
	}
	if err := c.rdb.Set(ctx, userKey(u.ID.String()), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	if err := c.rdb.Set(ctx, userKey(u.Name), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// Invalidate drops the user's cache entries. oldName covers renames,
// where the stale name key would otherwise survive.
func (c *UserCache) Invalidate(ctx context.Context, u *model.User, oldName string) error {
	keys := []string{userKey(u.ID.String()), userKey(u.Name)}
	if oldName != "" && oldName != u.Name {
		keys = append(keys, userKey(oldName))
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("cache invalidate: %w", err)
	}
	return nil
}
