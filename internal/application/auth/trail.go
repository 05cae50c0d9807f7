package auth

import (
	"context"
	"errors"

	"github.com/baechuer/user-management/internal/domain"
)

// trail returns the audit recorder for one call of action against email.
// A nil err records success; a zero userID is left out.
func (s *Service) trail(ctx context.Context, action, email string) func(err error, userID int64) {
	return func(err error, userID int64) {
		fields := map[string]string{"email": email, "result": "success"}
		if err != nil {
			fields["result"] = "error"
			fields["error_code"] = errorCode(err)
		}
		if userID > 0 {
			fields["user_id"] = idString(userID)
		}
		s.audit(ctx, action, fields)
	}
}

func errorCode(err error) string {
	var de *domain.Error
	switch {
	case err == nil:
		return ""
	case errors.As(err, &de):
		return de.Code
	default:
		return "internal"
	}
}
