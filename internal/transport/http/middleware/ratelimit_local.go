package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/httprate"

	"github.com/baechuer/user-management/internal/domain"
)

// RateLimitByIP is the in-process limiter used when Redis is not configured.
// Counters live in this process only.
func RateLimitByIP(routeKey string, limit int, window time.Duration, writeErr WriteErrFunc) func(http.Handler) http.Handler {
	if limit <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	if window <= 0 {
		window = time.Minute
	}
	return httprate.Limit(
		limit,
		window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			writeErr(w, r, domain.ErrRateLimited(routeKey))
		}),
	)
}
