package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"agroskills-platform/pkg/logger"

	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss is returned by Cache.Get when the key does not exist or
// Redis is unavailable.
var ErrCacheMiss = errors.New("cache: key not found")

// Cache stores JSON values on top of the shared client.
type Cache struct {
	prefix string
}

func NewCache(prefix string) *Cache {
	return &Cache{prefix: prefix}
}

func (c *Cache) key(k string) string {
	return c.prefix + ":" + k
}

// Set saves value as JSON with ttl. A missing client is a no-op.
func (c *Cache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	rc := Client()
	if rc == nil {
		return nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}
	if err := rc.Set(ctx, c.key(key), data, ttl).Err(); err != nil {
		logger.Log.Warn("failed to set cache", "key", key, "error", err)
		return fmt.Errorf("set cache: %w", err)
	}
	return nil
}

func (c *Cache) Get(ctx context.Context, key string, dest interface{}) error {
	rc := Client()
	if rc == nil {
		return ErrCacheMiss
	}
	data, err := rc.Get(ctx, c.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrCacheMiss
	}
	if err != nil {
		logger.Log.Warn("failed to get cache", "key", key, "error", err)
		return fmt.Errorf("get cache: %w", err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("failed to unmarshal value: %w", err)
	}
	return nil
}

// InvalidatePrefix deletes every key under the cache prefix that starts with p.
func (c *Cache) InvalidatePrefix(ctx context.Context, p string) error {
	rc := Client()
	if rc == nil {
		return nil
	}
	iter := rc.Scan(ctx, 0, c.key(p)+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("scan cache: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	return rc.Del(ctx, keys...).Err()
}

// FeedPageKey builds the cache key for one feed page.
func FeedPageKey(kind string, page, limit int) string {
	return fmt.Sprintf("%s:page:%d:limit:%d", kind, page, limit)
}
