package middleware

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/baechuer/user-management/internal/domain"
	"github.com/baechuer/user-management/internal/infrastructure/redis"
	"github.com/baechuer/user-management/internal/logger"
)

type RateLimiter interface {
	AllowFixedWindow(ctx context.Context, key string, limit int, window time.Duration) (redis.Decision, error)
}

type FixedWindowConfig struct {
	RouteKey string
	Limit    int
	Window   time.Duration

	// OnLimited, when set, sees every rejected request.
	OnLimited func(r *http.Request, identity string)
}

// RateLimitFixedWindow counts requests per caller (user id once authenticated,
// client IP before that) in Redis. A failing limiter lets traffic through.
func RateLimitFixedWindow(limiter RateLimiter, cfg FixedWindowConfig, writeErr WriteErrFunc) func(http.Handler) http.Handler {
	if limiter == nil || cfg.Limit <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	if cfg.Window <= 0 {
		cfg.Window = time.Minute
	}
	if cfg.RouteKey == "" {
		cfg.RouteKey = "unknown"
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			who := userOrIP(r)
			key := fmt.Sprintf("rl:%s:%s:%d", cfg.RouteKey, who, windowBucket(time.Now(), cfg.Window))

			dec, err := limiter.AllowFixedWindow(r.Context(), key, cfg.Limit, cfg.Window)
			if err != nil {
				logger.WithCtx(r.Context()).Warn().Err(err).Str("route", cfg.RouteKey).
					Msg("rate limiter unavailable, allowing request")
				next.ServeHTTP(w, r)
				return
			}

			setRateHeaders(w.Header(), dec)
			if dec.Allowed {
				next.ServeHTTP(w, r)
				return
			}
			if cfg.OnLimited != nil {
				cfg.OnLimited(r, who)
			}
			writeErr(w, r, domain.ErrRateLimited(cfg.RouteKey))
		})
	}
}

func setRateHeaders(h http.Header, dec redis.Decision) {
	h.Set("X-RateLimit-Limit", strconv.Itoa(dec.Limit))
	h.Set("X-RateLimit-Remaining", strconv.Itoa(dec.Remaining))
	if !dec.Allowed && dec.RetryAfter > 0 {
		// whole seconds, rounded up
		secs := (dec.RetryAfter + time.Second - 1) / time.Second
		h.Set("Retry-After", strconv.FormatInt(int64(secs), 10))
	}
}

// windowBucket numbers fixed windows since the epoch; a zero window means a minute.
func windowBucket(now time.Time, window time.Duration) int64 {
	if window < time.Second {
		window = time.Minute
	}
	return now.Unix() / int64(window/time.Second)
}

func userOrIP(r *http.Request) string {
	if uid, ok := UserIDFromContext(r.Context()); ok {
		return "u:" + strconv.FormatInt(uid, 10)
	}
	return "ip:" + ClientIP(r)
}

// ClientIP strips the port from RemoteAddr. chi's RealIP runs earlier in the
// chain, so proxy headers are already applied.
func ClientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}
