package security

import (
	"context"
	"fmt"
	"time"

	"agroskills-platform/pkg/redis"
)

// UploadLimiter caps uploads per IP per minute and per user per day with a
// Redis sliding window. Without Redis it allows every upload.
type UploadLimiter struct {
	maxPerMinute int
	maxPerDay    int
}

// uploadRateLimitScript: KEYS[1]=key ARGV=limit, window seconds, now (ms).
// Returns 1 when allowed.
const uploadRateLimitScript = `
local key = KEYS[1]
local limit = tonumber(ARGV[1])
local window = tonumber(ARGV[2]) * 1000
local now = tonumber(ARGV[3])

redis.call('ZREMRANGEBYSCORE', key, 0, now - window)
if redis.call('ZCARD', key) >= limit then
    return 0
end
redis.call('ZADD', key, now, now .. '-' .. math.random(1000000))
redis.call('PEXPIRE', key, window)
return 1
`

func NewUploadLimiter(perMin, perDay int) *UploadLimiter {
	if perMin <= 0 {
		perMin = 10
	}
	if perDay <= 0 {
		perDay = 100
	}
	return &UploadLimiter{maxPerMinute: perMin, maxPerDay: perDay}
}

type limitCheck struct {
	key    string
	limit  int
	window time.Duration
}

// AllowUpload returns (allowed, retryAfter). A Redis failure is returned as
// err with allowed false and no retry hint.
func (ul *UploadLimiter) AllowUpload(ctx context.Context, ip, userID string) (bool, time.Duration, error) {
	client := redis.Client()
	if client == nil {
		return true, 0, nil
	}
	now := time.Now().UnixMilli()

	checks := []limitCheck{
		{fmt.Sprintf("ratelimit:upload:ip:%s", ip), ul.maxPerMinute, time.Minute},
	}
	if userID != "" {
		checks = append(checks, limitCheck{fmt.Sprintf("ratelimit:upload:user:%s", userID), ul.maxPerDay, 24 * time.Hour})
	}

	for _, c := range checks {
		res, err := client.Eval(ctx, uploadRateLimitScript, []string{c.key}, c.limit, int(c.window.Seconds()), now).Int64()
		if err != nil {
			return false, 0, fmt.Errorf("rate limit check failed: %w", err)
		}
		if res != 1 {
			return false, c.window, nil
		}
	}
	return true, 0, nil
}
