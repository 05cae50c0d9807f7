package response

import (
	"errors"
	"net/http"

	"github.com/baechuer/user-management/internal/domain"
	"github.com/baechuer/user-management/internal/logger"
	appCtx "github.com/baechuer/user-management/internal/pkg/context"
)

// ErrorBody is the JSON shape of every failure. Clients act on message and
// redirectToLogin; code and requestId are diagnostics.
type ErrorBody struct {
	Message         string            `json:"message"`
	Code            string            `json:"code"`
	RedirectToLogin bool              `json:"redirectToLogin,omitempty"`
	Meta            map[string]string `json:"meta,omitempty"`
	RequestID       string            `json:"requestId,omitempty"`
}

var kindStatus = map[domain.ErrKind]int{
	domain.KindValidation:  http.StatusBadRequest,
	domain.KindAuth:        http.StatusUnauthorized,
	domain.KindRateLimited: http.StatusTooManyRequests,
	domain.KindInternal:    http.StatusInternalServerError,
}

func statusFromKind(kind domain.ErrKind) int {
	if s, ok := kindStatus[kind]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// WriteError renders err. Anything that is not a *domain.Error becomes an
// opaque 500; causes are logged, never sent.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	var de *domain.Error
	if !errors.As(err, &de) {
		de = domain.ErrInternal(err)
	}
	status := statusFromKind(de.Kind)

	if status >= http.StatusInternalServerError {
		logger.WithCtx(r.Context()).Error().
			Err(err).
			Str("code", de.Code).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("request failed")
	}

	WriteJSON(w, status, ErrorBody{
		Message:         de.Message,
		Code:            de.Code,
		RedirectToLogin: de.RedirectToLogin,
		Meta:            de.Meta,
		RequestID:       appCtx.RequestID(r.Context()),
	})
}
