package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/baechuer/user-management/internal/domain"
)

// Authenticator resolves a raw bearer token to the current user row.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (domain.User, error)
}

type WriteErrFunc func(http.ResponseWriter, *http.Request, error)

// Auth verifies Authorization: Bearer <token>, re-reads the user and rejects
// blocked or deleted accounts before injecting the user into the request context.
func Auth(authn Authenticator, writeErr WriteErrFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := strings.TrimSpace(r.Header.Get("Authorization"))
			if h == "" {
				writeErr(w, r, domain.ErrTokenMissing())
				return
			}

			parts := strings.SplitN(h, " ", 2)
			if !strings.EqualFold(parts[0], "Bearer") {
				writeErr(w, r, domain.ErrTokenInvalid())
				return
			}
			raw := ""
			if len(parts) == 2 {
				raw = strings.TrimSpace(parts[1])
			}

			user, err := authn.Authenticate(r.Context(), raw)
			if err != nil {
				writeErr(w, r, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}
