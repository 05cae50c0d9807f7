package postgres

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/baechuer/user-management/internal/domain"
)

type SeederHasher interface {
	Hash(password string) (string, error)
}

// SeederRepo is satisfied by both the postgres and the in-memory repository.
type SeederRepo interface {
	Create(ctx context.Context, u domain.User) (domain.User, error)
}

// SeedUsers inserts one demo account per status. Restart safe: duplicates are skipped.
// Returns how many rows were created.
func SeedUsers(ctx context.Context, repo SeederRepo, hasher SeederHasher) int {
	seeds := []struct {
		Name   string
		Email  string
		Pass   string
		Status domain.UserStatus
	}{
		{Name: "Admin", Email: "admin@example.com", Pass: "admin", Status: domain.StatusActive},
		{Name: "New User", Email: "new@example.com", Pass: "new", Status: domain.StatusUnverified},
		{Name: "Blocked User", Email: "blocked@example.com", Pass: "blocked", Status: domain.StatusBlocked},
	}

	created := 0
	for _, s := range seeds {
		hash, err := hasher.Hash(s.Pass)
		if err != nil {
			log.Warn().Err(err).Str("email", s.Email).Msg("seed: hash failed")
			continue
		}

		_, err = repo.Create(ctx, domain.User{
			Name:         s.Name,
			Email:        s.Email,
			PasswordHash: hash,
			Status:       s.Status,
		})
		if err != nil {
			if !domain.Is(err, "email_already_exists") {
				log.Warn().Err(err).Str("email", s.Email).Msg("seed: create failed")
			}
			continue
		}
		created++
	}

	log.Info().Int("created", created).Msg("seed: demo users ready")
	return created
}
