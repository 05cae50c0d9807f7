package http_handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/baechuer/user-management/internal/logger"
	"github.com/baechuer/user-management/internal/transport/http/response"
)

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type HealthHandler struct {
	db  Pinger
	now func() time.Time
}

// NewHealthHandler accepts a nil db when the in-memory store is in use.
func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db, now: time.Now}
}

// Healthz handles GET /api/health
func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	response.OK(w, map[string]string{
		"status":    "ok",
		"timestamp": h.now().UTC().Format(time.RFC3339),
	})
}

// Readyz handles GET /api/health/ready
func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := h.db.PingContext(ctx); err != nil {
			logger.WithCtx(r.Context()).Warn().Err(err).Msg("readiness check failed")
			response.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "unavailable",
				"error":  "database unavailable",
			})
			return
		}
	}

	response.OK(w, map[string]string{"status": "ready"})
}
