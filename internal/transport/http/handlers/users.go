package http_handlers

import (
	"context"
	"net/http"

	"github.com/baechuer/user-management/internal/application/users"
	"github.com/baechuer/user-management/internal/domain"
	"github.com/baechuer/user-management/internal/logger"
	"github.com/baechuer/user-management/internal/transport/http/dto"
	"github.com/baechuer/user-management/internal/transport/http/middleware"
	"github.com/baechuer/user-management/internal/transport/http/response"
)

type UsersHandler struct {
	svc *users.Service
}

func NewUsersHandler(svc *users.Service) *UsersHandler {
	return &UsersHandler{svc: svc}
}

// List handles GET /api/users
func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.List(r.Context())
	if err != nil {
		response.WriteError(w, r, failedAs(err, "Failed to fetch users."))
		return
	}
	response.OK(w, dto.NewUserList(list))
}

// Block handles POST /api/users/block
func (h *UsersHandler) Block(w http.ResponseWriter, r *http.Request) {
	h.bulk(w, r, "block", h.svc.Block, "Users blocked successfully.", "Failed to block users.")
}

// Unblock handles POST /api/users/unblock
func (h *UsersHandler) Unblock(w http.ResponseWriter, r *http.Request) {
	h.bulk(w, r, "unblock", h.svc.Unblock, "Users unblocked successfully.", "Failed to unblock users.")
}

// Delete handles POST /api/users/delete
func (h *UsersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	h.bulk(w, r, "delete", h.svc.Delete, "Users deleted successfully.", "Failed to delete users.")
}

// DeleteUnverified handles POST /api/users/delete-unverified
func (h *UsersHandler) DeleteUnverified(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.WriteError(w, r, domain.ErrTokenMissing())
		return
	}

	n, err := h.svc.DeleteUnverified(r.Context(), actorID)
	if err != nil {
		response.WriteError(w, r, failedAs(err, "Failed to delete unverified users."))
		return
	}

	logger.WithCtx(r.Context()).Info().
		Int64("deleted", n).
		Msg("unverified_users_deleted")

	response.OK(w, dto.DeleteUnverifiedResponse{
		Message:      "Unverified users deleted successfully.",
		DeletedCount: n,
	})
}

type bulkFunc func(ctx context.Context, actorID int64, ids []int64) error

func (h *UsersHandler) bulk(w http.ResponseWriter, r *http.Request, action string, fn bulkFunc, okMsg, failMsg string) {
	actorID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.WriteError(w, r, domain.ErrTokenMissing())
		return
	}

	// A body that does not decode to a list of ids is reported like a missing list.
	var req dto.BulkUsersRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, domain.ErrMissingUserIDs())
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	if err := fn(r.Context(), actorID, req.UserIDs); err != nil {
		response.WriteError(w, r, failedAs(err, failMsg))
		return
	}

	logger.WithCtx(r.Context()).Info().
		Str("action", action).
		Int("count", len(req.UserIDs)).
		Msg("users_bulk_action")

	response.Message(w, okMsg)
}
