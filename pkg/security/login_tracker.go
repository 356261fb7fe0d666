package security

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"agroskills-platform/pkg/redis"

	goredis "github.com/redis/go-redis/v9"
)

// LoginTrackerConfig configures failed-login blocking.
type LoginTrackerConfig struct {
	MaxAttempts   int
	AttemptWindow time.Duration
	BlockDuration time.Duration
}

func DefaultLoginTrackerConfig() LoginTrackerConfig {
	return LoginTrackerConfig{
		MaxAttempts:   5,
		AttemptWindow: 15 * time.Minute,
		BlockDuration: 15 * time.Minute,
	}
}

// LoginTracker counts failed logins per e-mail and blocks after MaxAttempts.
// Counters live in Redis; without Redis a process-local map is used.
type LoginTracker struct {
	config LoginTrackerConfig
	logger *SecurityLogger

	mu    sync.Mutex
	local map[string]*localAttempts
	now   func() time.Time
}

type localAttempts struct {
	count        int
	windowEnds   time.Time
	blockedUntil time.Time
}

func NewLoginTracker(config LoginTrackerConfig, logger *SecurityLogger) *LoginTracker {
	if config.MaxAttempts <= 0 {
		config = DefaultLoginTrackerConfig()
	}
	if logger == nil {
		logger = DefaultLogger()
	}
	return &LoginTracker{
		config: config,
		logger: logger,
		local:  make(map[string]*localAttempts),
		now:    time.Now,
	}
}

const (
	failLoginPrefix    = "fail:login:"
	blockedLoginPrefix = "blocked:login:"
)

// incrWithTTLScript sets the expiry only on the first increment.
const incrWithTTLScript = `
local count = redis.call('INCR', KEYS[1])
if count == 1 then
    redis.call('EXPIRE', KEYS[1], ARGV[1])
end
return count
`

// IsBlocked reports whether email is currently blocked.
func (lt *LoginTracker) IsBlocked(ctx context.Context, email string) (bool, error) {
	client := redis.Client()
	if client == nil {
		lt.mu.Lock()
		defer lt.mu.Unlock()
		a, ok := lt.local[email]
		return ok && lt.now().Before(a.blockedUntil), nil
	}

	exists, err := client.Exists(ctx, blockedLoginPrefix+email).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check block: %w", err)
	}
	return exists > 0, nil
}

// RecordFailedAttempt counts a failure and reports whether the e-mail is now blocked.
func (lt *LoginTracker) RecordFailedAttempt(ctx context.Context, email, ip, userAgent, requestID string) (bool, int, error) {
	lt.logger.LogLoginFailed(ctx, email, ip, userAgent, requestID, "invalid_credentials")

	client := redis.Client()
	if client == nil {
		return lt.recordLocal(ctx, email, ip, requestID)
	}

	count, err := lt.atomicIncrement(ctx, client, failLoginPrefix+email, int(lt.config.AttemptWindow.Seconds()))
	if err != nil {
		return false, 0, fmt.Errorf("failed to increment counter: %w", err)
	}
	if count < lt.config.MaxAttempts {
		return false, count, nil
	}

	if err := client.Set(ctx, blockedLoginPrefix+email, "1", lt.config.BlockDuration).Err(); err != nil {
		return true, count, fmt.Errorf("failed to set block: %w", err)
	}
	lt.logger.LogBlockCreated(ctx, "email", email, ip, requestID, int(lt.config.BlockDuration.Minutes()))
	return true, count, nil
}

func (lt *LoginTracker) recordLocal(ctx context.Context, email, ip, requestID string) (bool, int, error) {
	lt.mu.Lock()
	now := lt.now()
	a, ok := lt.local[email]
	if !ok || now.After(a.windowEnds) {
		a = &localAttempts{windowEnds: now.Add(lt.config.AttemptWindow)}
		lt.local[email] = a
	}
	a.count++
	count := a.count
	blocked := count >= lt.config.MaxAttempts
	if blocked {
		a.blockedUntil = now.Add(lt.config.BlockDuration)
	}
	lt.mu.Unlock()

	if blocked {
		lt.logger.LogBlockCreated(ctx, "email", email, ip, requestID, int(lt.config.BlockDuration.Minutes()))
	}
	return blocked, count, nil
}

func (lt *LoginTracker) atomicIncrement(ctx context.Context, client *goredis.Client, key string, ttlSeconds int) (int, error) {
	result, err := client.Eval(ctx, incrWithTTLScript, []string{key}, ttlSeconds).Result()
	if err != nil {
		return 0, err
	}
	count, ok := result.(int64)
	if !ok {
		return 0, errors.New("unexpected result type from Lua script")
	}
	return int(count), nil
}

// ClearAttempts resets the counter after a successful login.
func (lt *LoginTracker) ClearAttempts(ctx context.Context, email string) error {
	client := redis.Client()
	if client == nil {
		lt.mu.Lock()
		delete(lt.local, email)
		lt.mu.Unlock()
		return nil
	}
	if err := client.Del(ctx, failLoginPrefix+email).Err(); err != nil {
		return fmt.Errorf("failed to clear attempts: %w", err)
	}
	return nil
}
