package redis

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	mu     sync.RWMutex
	client *redis.Client
)

// Config holds Redis connection settings.
type Config struct {
	URL      string // redis:// or rediss:// (TLS)
	Password string // overrides the password embedded in URL
}

// Client returns the shared client, nil when Redis is not configured.
func Client() *redis.Client {
	mu.RLock()
	defer mu.RUnlock()
	return client
}

// Initialize connects the shared client. An empty URL leaves Redis disabled
// and every caller falls back to its in-memory path.
func Initialize(ctx context.Context, cfg Config) error {
	if cfg.URL == "" {
		return errors.New("redis: UPSTASH_REDIS_URL not configured")
	}

	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return fmt.Errorf("redis: invalid URL: %w", err)
	}
	if cfg.Password != "" {
		opts.Password = cfg.Password
	}
	if opts.TLSConfig != nil {
		opts.TLSConfig.MinVersion = tls.VersionTLS12
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second
	opts.PoolSize = 10
	opts.MinIdleConns = 2

	c := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := c.Ping(pingCtx).Err(); err != nil {
		_ = c.Close()
		return fmt.Errorf("redis: connection failed: %w", err)
	}

	Use(c)
	return nil
}

// Use installs c as the shared client. Passing nil disables Redis.
func Use(c *redis.Client) {
	mu.Lock()
	client = c
	mu.Unlock()
}

// IsAvailable pings the shared client.
func IsAvailable() bool {
	c := Client()
	if c == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	return c.Ping(ctx).Err() == nil
}

func Close() error {
	c := Client()
	if c == nil {
		return nil
	}
	Use(nil)
	return c.Close()
}

// HealthCheck returns nil when Redis answers a ping.
func HealthCheck(ctx context.Context) error {
	c := Client()
	if c == nil {
		return errors.New("redis: client not initialized")
	}
	return c.Ping(ctx).Err()
}
