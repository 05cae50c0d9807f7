package auth

import (
	"context"

	"github.com/baechuer/user-management/internal/domain"
)

// Login authenticates a user and issues an access token.
// Unknown email and wrong password are indistinguishable to the caller.
// Unverified accounts may log in; blocked ones may not.
func (s *Service) Login(ctx context.Context, email, password string) (LoginResult, error) {
	email = normalizeEmail(email)
	audit := s.trail(ctx, "auth.login", email)

	if email == "" || password == "" {
		return LoginResult{}, domain.ErrInvalidCredentials()
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if domain.Is(err, "user_not_found") {
			err = domain.ErrInvalidCredentials()
		}
		audit(err, 0)
		return LoginResult{}, err
	}

	if u.IsBlocked() {
		err := domain.ErrAccountBlocked()
		audit(err, u.ID)
		return LoginResult{}, err
	}

	if err := s.hasher.Compare(u.PasswordHash, password); err != nil {
		err := domain.ErrInvalidCredentials()
		audit(err, u.ID)
		return LoginResult{}, err
	}

	if err := s.users.TouchLastLogin(ctx, u.ID); err != nil {
		audit(err, u.ID)
		return LoginResult{}, err
	}

	token, err := s.signer.SignAccessToken(u.ID, u.Email, s.accessTTL)
	if err != nil {
		if !domain.Is(err, "token_sign_failed") {
			err = domain.ErrTokenSignFailed(err)
		}
		audit(err, u.ID)
		return LoginResult{}, err
	}

	audit(nil, u.ID)
	return LoginResult{User: u, Token: token}, nil
}
