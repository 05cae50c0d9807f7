package auth

import (
	"context"
	"time"

	"github.com/baechuer/user-management/internal/domain"
)

/*
UserRepo
--------
Persistence port for the auth flows.
Only describes WHAT the auth service needs, not HOW it's stored.
*/
type UserRepo interface {
	Create(ctx context.Context, u domain.User) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	GetByID(ctx context.Context, id int64) (domain.User, error)

	// TouchLastLogin sets last_login_time to the store's current time.
	TouchLastLogin(ctx context.Context, id int64) error
	// ActivateUnverified flips unverified -> active for email and returns the row id.
	// Returns ErrUserNotFound when no unverified row matches.
	ActivateUnverified(ctx context.Context, email string) (int64, error)
}

/*
PasswordHasher
--------------
Abstracts bcrypt.
*/
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash string, password string) error // nil if match
}

/*
TokenSigner
-----------
Issues and verifies access tokens (JWT).
Used by the service and, through Authenticate, by the auth middleware.
*/
type TokenClaims struct {
	UserID int64
	Email  string
	Exp    time.Time
}

type TokenSigner interface {
	SignAccessToken(userID int64, email string, ttl time.Duration) (string, error)
	VerifyAccessToken(token string) (TokenClaims, error)
}

/*
EventPublisher
--------------
Publishes account lifecycle events. A registered event stands in for the
verification email; nothing in this service sends mail.
*/
type EventPublisher interface {
	PublishUserRegistered(ctx context.Context, evt UserRegisteredEvent) error
	PublishUserVerified(ctx context.Context, evt UserVerifiedEvent) error
}

type UserRegisteredEvent struct {
	UserID int64
	Name   string
	Email  string
}

type UserVerifiedEvent struct {
	UserID int64
	Email  string
}
