package auth

import (
	"context"
	"strings"

	"github.com/baechuer/user-management/internal/domain"
)

// Authenticate resolves a bearer token to the current user row.
// Read-only: one token verification and one lookup by id.
//
// Errors:
//   - empty token: token_missing
//   - bad signature, expired, malformed: token_invalid
//   - no row for the embedded id: user_not_found
//   - blocked row: account_blocked with RedirectToLogin set
func (s *Service) Authenticate(ctx context.Context, token string) (domain.User, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return domain.User{}, domain.ErrTokenMissing()
	}

	claims, err := s.signer.VerifyAccessToken(token)
	if err != nil {
		return domain.User{}, domain.ErrTokenInvalid()
	}

	u, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		return domain.User{}, err
	}
	if u.IsBlocked() {
		return domain.User{}, domain.ErrSessionBlocked()
	}
	return u, nil
}
