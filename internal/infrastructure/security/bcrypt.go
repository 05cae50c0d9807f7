package security

import (
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/baechuer/user-management/internal/domain"
)

// BcryptHasher hashes and checks user passwords. Stored hashes are always bcrypt.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher clamps cost into bcrypt's range; 0 selects bcrypt.DefaultCost.
func NewBcryptHasher(cost int) *BcryptHasher {
	switch {
	case cost == 0:
		cost = bcrypt.DefaultCost
	case cost < bcrypt.MinCost:
		cost = bcrypt.MinCost
	case cost > bcrypt.MaxCost:
		cost = bcrypt.MaxCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Cost() int { return h.cost }

// Hash rejects passwords bcrypt would otherwise truncate.
func (h *BcryptHasher) Hash(password string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	switch {
	case errors.Is(err, bcrypt.ErrPasswordTooLong):
		return "", domain.ErrInvalidField("password", "must be at most 72 bytes")
	case err != nil:
		return "", domain.ErrHashFailed(err)
	}
	return string(digest), nil
}

// Compare returns nil on match. An empty or malformed stored hash never matches.
func (h *BcryptHasher) Compare(hash string, password string) error {
	if hash == "" {
		return bcrypt.ErrHashTooShort
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
