package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// incrementScript bumps the counter and (re)arms the window in one round trip. A key that
// lost its expiry is re-armed on the next hit.
var incrementScript = redis.NewScript(`
local n = redis.call("INCR", KEYS[1])
if n == 1 or redis.call("PTTL", KEYS[1]) < 0 then
	redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return n
`)

// RateLimitRepository keeps fixed-window request counters in Redis.
type RateLimitRepository struct {
	client redis.UniversalClient
	prefix string
}

// NewRateLimitRepository constructs the counter store. Keys are "<prefix><client>".
func NewRateLimitRepository(client redis.UniversalClient, prefix string) *RateLimitRepository {
	if prefix == "" {
		prefix = "rate_limit:"
	}
	return &RateLimitRepository{client: client, prefix: prefix}
}

// Count returns the current number of hits for the key, zero when absent.
func (r *RateLimitRepository) Count(ctx context.Context, key string) (int64, error) {
	n, err := r.client.Get(ctx, r.prefix+key).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("rate limit get: %w", err)
	}
	return n, nil
}

// Increment atomically bumps the counter and starts the window on the first hit.
func (r *RateLimitRepository) Increment(ctx context.Context, key string, window time.Duration) (int64, error) {
	n, err := incrementScript.Run(ctx, r.client, []string{r.prefix + key}, window.Milliseconds()).Int64()
	if err != nil {
		return 0, fmt.Errorf("rate limit incr: %w", err)
	}
	return n, nil
}

// TTL returns the time until the window for key resets. Keys without expiry report zero.
func (r *RateLimitRepository) TTL(ctx context.Context, key string) (time.Duration, error) {
	ttl, err := r.client.TTL(ctx, r.prefix+key).Result()
	if err != nil {
		return 0, fmt.Errorf("rate limit ttl: %w", err)
	}
	if ttl < 0 {
		return 0, nil
	}
	return ttl, nil
}
