package http_handlers

import (
	"errors"
	"net/http"

	"github.com/baechuer/user-management/internal/domain"
	"github.com/baechuer/user-management/internal/transport/http/response"
)

type validatable interface {
	Validate() error
}

// bind decodes and validates the body into req, writing the error response
// itself on failure.
func bind(w http.ResponseWriter, r *http.Request, req validatable) bool {
	err := response.DecodeJSON(r, req)
	if err == nil {
		err = req.Validate()
	}
	if err != nil {
		response.WriteError(w, r, err)
		return false
	}
	return true
}

// failedAs replaces the message of internal failures with a route-specific one.
// Client-facing errors (400/401/429) keep their own message.
func failedAs(err error, msg string) error {
	var de *domain.Error
	if !errors.As(err, &de) {
		return domain.WithMessage(domain.ErrInternal(err), msg)
	}
	if de.Kind == domain.KindInternal {
		return domain.WithMessage(de, msg)
	}
	return err
}
