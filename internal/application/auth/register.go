package auth

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"github.com/baechuer/user-management/internal/domain"
	"github.com/baechuer/user-management/internal/logger"
)

// Register creates an unverified account. The password is stored only as a hash.
func (s *Service) Register(ctx context.Context, name, email, password string) (RegisterResult, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)
	audit := s.trail(ctx, "auth.register", email)

	switch {
	case name == "":
		return RegisterResult{}, domain.ErrMissingField("name")
	case email == "":
		return RegisterResult{}, domain.ErrMissingField("email")
	case password == "":
		return RegisterResult{}, domain.ErrMissingField("password")
	}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return RegisterResult{}, domain.ErrInvalidField("email", "format")
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		var de *domain.Error
		if !errors.As(err, &de) {
			err = domain.ErrHashFailed(err)
		}
		audit(err, 0)
		return RegisterResult{}, err
	}

	created, err := s.users.Create(ctx, domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Status:       domain.StatusUnverified,
	})
	if err != nil {
		audit(err, 0)
		return RegisterResult{}, err
	}

	// Best-effort: the account exists whether or not the event goes out.
	if perr := s.pub.PublishUserRegistered(ctx, UserRegisteredEvent{
		UserID: created.ID,
		Name:   created.Name,
		Email:  created.Email,
	}); perr != nil {
		logger.WithCtx(ctx).Warn().Err(perr).Int64("user_id", created.ID).Msg("publish user.registered failed")
	}

	audit(nil, created.ID)
	return RegisterResult{User: created}, nil
}
