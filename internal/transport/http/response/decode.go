package response

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/baechuer/user-management/internal/domain"
)

const maxBodyBytes = 1 << 20

var errTrailingData = errors.New("unexpected data after JSON value")

// DecodeJSON reads exactly one JSON value from the request body into dst.
// A missing or empty body is not an error: dst keeps its zero value and the
// caller's field validation reports what is missing.
func DecodeJSON(r *http.Request, dst any) error {
	if r.Body == nil || r.Body == http.NoBody {
		return nil
	}
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))

	switch err := dec.Decode(dst); {
	case errors.Is(err, io.EOF):
		return nil
	case err != nil:
		return domain.ErrInvalidJSON(err)
	}
	if dec.More() {
		return domain.ErrInvalidJSON(errTrailingData)
	}
	return nil
}
