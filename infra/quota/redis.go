// Package quota provides a Redis backed exploration quota shared by every
// dispatcher instance.
package quota

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kilianp07/freightdispatch/core/audit"
)

// keyTTL keeps a day counter around long enough to cover clock skew between
// instances.
const keyTTL = 48 * time.Hour

// Config configures the Redis quota.
type Config struct {
	URL       string `json:"url"`
	KeyPrefix string `json:"key_prefix"`
}

// reserveScript increments the day counter unless the allowance is spent.
var reserveScript = redis.NewScript(`
local used = tonumber(redis.call("GET", KEYS[1]) or "0")
if used >= tonumber(ARGV[1]) then
  return 0
end
redis.call("INCR", KEYS[1])
redis.call("PEXPIRE", KEYS[1], ARGV[2])
return 1
`)

// Redis is an audit.ExplorationQuota whose day counter lives in Redis.
type Redis struct {
	client *redis.Client
	prefix string
	limit  int
}

var _ audit.ExplorationQuota = (*Redis)(nil)

// NewRedis allows floor(share*dailyVolume) reservations per UTC day.
func NewRedis(cfg Config, share float64, dailyVolume int) (*Redis, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	return NewRedisWithClient(redis.NewClient(opts), cfg.KeyPrefix, audit.Allowance(share, dailyVolume)), nil
}

// NewRedisWithClient uses an existing client and a fixed daily limit.
func NewRedisWithClient(client *redis.Client, prefix string, limit int) *Redis {
	if prefix == "" {
		prefix = "freightdispatch"
	}
	return &Redis{client: client, prefix: prefix, limit: limit}
}

func (r *Redis) key(now time.Time) string {
	return r.prefix + ":exploration:" + audit.DayKey(now)
}

// TryReserve consumes one slot of the day containing now.
func (r *Redis) TryReserve(ctx context.Context, now time.Time) (bool, error) {
	res, err := reserveScript.Run(ctx, r.client, []string{r.key(now)}, r.limit, keyTTL.Milliseconds()).Int()
	if err != nil {
		return false, fmt.Errorf("quota: reserve: %w", err)
	}
	return res == 1, nil
}

// Used returns the slots consumed on the day containing now.
func (r *Redis) Used(ctx context.Context, now time.Time) (int, error) {
	n, err := r.client.Get(ctx, r.key(now)).Int()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("quota: read: %w", err)
	}
	return n, nil
}

// Close closes the Redis connection.
func (r *Redis) Close() error {
	return r.client.Close()
}
