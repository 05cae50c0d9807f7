package auth

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/baechuer/user-management/internal/domain"
)

// DefaultAccessTTL is the access token lifetime when Config.AccessTTL is unset.
const DefaultAccessTTL = 24 * time.Hour

type Service struct {
	users  UserRepo
	hasher PasswordHasher
	signer TokenSigner
	pub    EventPublisher

	accessTTL time.Duration
	audit     func(ctx context.Context, action string, fields map[string]string)
}

type Config struct {
	AccessTTL time.Duration
}

func NewService(
	users UserRepo,
	hasher PasswordHasher,
	signer TokenSigner,
	pub EventPublisher,
	cfg Config,
) *Service {
	ttl := cfg.AccessTTL
	if ttl <= 0 {
		ttl = DefaultAccessTTL
	}
	return &Service{
		users:     users,
		hasher:    hasher,
		signer:    signer,
		pub:       pub,
		accessTTL: ttl,
		audit:     func(context.Context, string, map[string]string) {},
	}
}

func (s *Service) WithAudit(fn func(ctx context.Context, action string, fields map[string]string)) *Service {
	if fn != nil {
		s.audit = fn
	}
	return s
}

type RegisterResult struct {
	User domain.User
}

type LoginResult struct {
	User  domain.User
	Token string
}

// normalizeEmail is applied on every write and lookup path.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func idString(id int64) string {
	return strconv.FormatInt(id, 10)
}
