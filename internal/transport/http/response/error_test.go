package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baechuer/user-management/internal/domain"
	appCtx "github.com/baechuer/user-management/internal/pkg/context"
)

func writeErr(t *testing.T, err error) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req = req.WithContext(appCtx.WithRequestID(req.Context(), "req-123"))
	rr := httptest.NewRecorder()

	WriteError(rr, req, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &raw))
	return rr, raw
}

func TestWriteError_Validation(t *testing.T) {
	rr, body := writeErr(t, domain.ErrMissingField("email"))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, contentTypeJSON, rr.Header().Get("Content-Type"))
	assert.Equal(t, "missing_field", body["code"])
	assert.Equal(t, "All fields are required.", body["message"])
	assert.Equal(t, map[string]any{"field": "email"}, body["meta"])
	assert.Equal(t, "req-123", body["requestId"])
	assert.NotContains(t, body, "redirectToLogin")
}

func TestWriteError_BlockedSessionRedirects(t *testing.T) {
	rr, body := writeErr(t, fmt.Errorf("auth: %w", domain.ErrSessionBlocked()))

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, true, body["redirectToLogin"])
	assert.Equal(t, "Account is blocked. Please contact administrator.", body["message"])
}

func TestWriteError_RateLimited(t *testing.T) {
	rr, body := writeErr(t, domain.ErrRateLimited("login"))

	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.Equal(t, "rate_limited", body["code"])
}

func TestWriteError_HidesCauses(t *testing.T) {
	for name, err := range map[string]error{
		"plain":   errors.New("pq: secret detail 10.0.0.5"),
		"wrapped": domain.ErrDBUnavailable(errors.New("dial tcp 10.0.0.5:5432")),
	} {
		t.Run(name, func(t *testing.T) {
			rr, body := writeErr(t, err)

			assert.Equal(t, http.StatusInternalServerError, rr.Code)
			assert.Equal(t, "Something went wrong!", body["message"])
			assert.NotContains(t, rr.Body.String(), "10.0.0.5")
		})
	}
}

func TestWriteError_PlainErrorIsInternal(t *testing.T) {
	_, body := writeErr(t, errors.New("boom"))
	assert.Equal(t, "internal_error", body["code"])
}

func TestStatusFromKind(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, statusFromKind(domain.KindValidation))
	assert.Equal(t, http.StatusUnauthorized, statusFromKind(domain.KindAuth))
	assert.Equal(t, http.StatusTooManyRequests, statusFromKind(domain.KindRateLimited))
	assert.Equal(t, http.StatusInternalServerError, statusFromKind(domain.KindInternal))
	assert.Equal(t, http.StatusInternalServerError, statusFromKind("unknown"))
}
