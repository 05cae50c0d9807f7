package users

import (
	"context"

	"github.com/baechuer/user-management/internal/domain"
)

// UserRepo is the persistence port for the admin table.
// Every method is a single statement; unknown ids are ignored.
type UserRepo interface {
	// List returns every row ordered by last_login_time DESC NULLS LAST, id ASC.
	List(ctx context.Context) ([]domain.User, error)
	SetStatus(ctx context.Context, ids []int64, status domain.UserStatus) (int64, error)
	Delete(ctx context.Context, ids []int64) (int64, error)
	DeleteByStatus(ctx context.Context, status domain.UserStatus) (int64, error)
}
