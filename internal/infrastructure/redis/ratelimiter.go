package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// incrWindow bumps KEYS[1], arms its expiry (ARGV[1] ms) on the first hit and
// replies {count, pttl_ms}. Running it as one script keeps the two atomic.
var incrWindow = goredis.NewScript(`
local n = redis.call("INCR", KEYS[1])
if n == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return {n, redis.call("PTTL", KEYS[1])}
`)

// Decision is the outcome of one counted request.
type Decision struct {
	Allowed    bool
	Limit      int
	Remaining  int
	Count      int
	RetryAfter time.Duration // zero when allowed
}

func allowAll(limit int) Decision {
	return Decision{Allowed: true, Limit: limit, Remaining: max(limit, 0)}
}

// FixedWindowLimiter keeps one Redis counter per key. Keys are expected to
// embed the caller identity, the route and the window bucket.
type FixedWindowLimiter struct {
	rdb *goredis.Client
}

// NewFixedWindowLimiter accepts a nil client; such a limiter allows everything.
func NewFixedWindowLimiter(c *Client) *FixedWindowLimiter {
	l := &FixedWindowLimiter{}
	if c != nil {
		l.rdb = c.rdb
	}
	return l
}

func (l *FixedWindowLimiter) AllowFixedWindow(ctx context.Context, key string, limit int, window time.Duration) (Decision, error) {
	if l.rdb == nil || limit <= 0 {
		return allowAll(limit), nil
	}
	if window <= 0 {
		window = time.Minute
	}

	reply, err := incrWindow.Run(ctx, l.rdb, []string{key}, max(window.Milliseconds(), 1)).Int64Slice()
	if err != nil {
		return Decision{}, fmt.Errorf("ratelimit %s: %w", key, err)
	}
	if len(reply) != 2 {
		return Decision{}, fmt.Errorf("ratelimit %s: want 2 values, got %d", key, len(reply))
	}

	count, ttl := int(reply[0]), time.Duration(reply[1])*time.Millisecond
	d := Decision{
		Allowed:   count <= limit,
		Limit:     limit,
		Remaining: max(limit-count, 0),
		Count:     count,
	}
	if !d.Allowed {
		d.RetryAfter = window
		if ttl > 0 {
			d.RetryAfter = ttl
		}
	}
	return d, nil
}
