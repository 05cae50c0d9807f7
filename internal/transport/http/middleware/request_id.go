package middleware

import (
	"net/http"

	"github.com/google/uuid"

	appCtx "github.com/baechuer/user-management/internal/pkg/context"
)

const (
	HeaderXRequestID = "X-Request-Id"
	maxRequestIDLen  = 64
)

// RequestID keeps a caller-supplied X-Request-Id when it is short printable
// ASCII and mints a uuid otherwise. The id is echoed on the response.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(HeaderXRequestID)
		if !acceptableRequestID(id) {
			id = uuid.NewString()
		}
		w.Header().Set(HeaderXRequestID, id)
		next.ServeHTTP(w, r.WithContext(appCtx.WithRequestID(r.Context(), id)))
	})
}

func acceptableRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLen {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] < 0x21 || id[i] > 0x7e {
			return false
		}
	}
	return true
}
