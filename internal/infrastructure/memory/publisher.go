package memory

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/baechuer/user-management/internal/application/auth"
)

// NoopPublisher logs events instead of sending them. Used when RABBIT_URL is unset.
type NoopPublisher struct{}

func NewNoopPublisher() *NoopPublisher { return &NoopPublisher{} }

func (p *NoopPublisher) PublishUserRegistered(ctx context.Context, evt auth.UserRegisteredEvent) error {
	log.Debug().Int64("user_id", evt.UserID).Msg("noop-pub: user.registered")
	return nil
}

func (p *NoopPublisher) PublishUserVerified(ctx context.Context, evt auth.UserVerifiedEvent) error {
	log.Debug().Int64("user_id", evt.UserID).Msg("noop-pub: user.verified")
	return nil
}
