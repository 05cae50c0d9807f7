package auth

import (
	"context"

	"github.com/baechuer/user-management/internal/domain"
	"github.com/baechuer/user-management/internal/logger"
)

// VerifyEmail activates an unverified account. There is no token: knowing the
// address is enough. A second call for the same address fails.
func (s *Service) VerifyEmail(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	audit := s.trail(ctx, "auth.verify_email", email)
	if email == "" {
		return domain.ErrMissingField("email")
	}

	id, err := s.users.ActivateUnverified(ctx, email)
	if err != nil {
		if domain.Is(err, "user_not_found") {
			err = domain.ErrVerificationFailed()
		}
		audit(err, 0)
		return err
	}

	if perr := s.pub.PublishUserVerified(ctx, UserVerifiedEvent{UserID: id, Email: email}); perr != nil {
		logger.WithCtx(ctx).Warn().Err(perr).Int64("user_id", id).Msg("publish user.verified failed")
	}

	audit(nil, id)
	return nil
}
