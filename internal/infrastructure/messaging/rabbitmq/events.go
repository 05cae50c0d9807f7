package rabbitmq

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/baechuer/user-management/internal/application/auth"
	appCtx "github.com/baechuer/user-management/internal/pkg/context"
)

const (
	RoutingUserRegistered = "user.registered"
	RoutingUserVerified   = "user.verified"
)

// envelope wraps every message body on the exchange.
type envelope struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
	RequestID  string    `json:"request_id,omitempty"`
	Data       any       `json:"data"`
}

type userRegisteredData struct {
	UserID int64  `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}

type userVerifiedData struct {
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
}

func newEnvelope(ctx context.Context, typ string, data any) envelope {
	return envelope{
		ID:         uuid.NewString(),
		Type:       typ,
		OccurredAt: time.Now().UTC(),
		RequestID:  appCtx.RequestID(ctx),
		Data:       data,
	}
}

// PublishUserRegistered stands in for the verification mail: a mailer
// subscribed to user.registered sends it.
func (p *Publisher) PublishUserRegistered(ctx context.Context, evt auth.UserRegisteredEvent) error {
	return p.publish(ctx, newEnvelope(ctx, RoutingUserRegistered, userRegisteredData{
		UserID: evt.UserID,
		Name:   evt.Name,
		Email:  evt.Email,
	}))
}

func (p *Publisher) PublishUserVerified(ctx context.Context, evt auth.UserVerifiedEvent) error {
	return p.publish(ctx, newEnvelope(ctx, RoutingUserVerified, userVerifiedData{
		UserID: evt.UserID,
		Email:  evt.Email,
	}))
}
