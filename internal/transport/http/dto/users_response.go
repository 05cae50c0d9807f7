package dto

import (
	"time"

	"github.com/baechuer/user-management/internal/domain"
)

// UserResponse is one row of the admin table. The password hash never leaves the server.
type UserResponse struct {
	ID               int64      `json:"id"`
	Name             string     `json:"name"`
	Email            string     `json:"email"`
	Status           string     `json:"status"`
	LastLoginTime    *time.Time `json:"last_login_time"`
	RegistrationTime time.Time  `json:"registration_time"`
	CreatedAt        time.Time  `json:"created_at"`
}

func NewUserResponse(u domain.User) UserResponse {
	return UserResponse{
		ID:               u.ID,
		Name:             u.Name,
		Email:            u.Email,
		Status:           u.Status.String(),
		LastLoginTime:    u.LastLoginTime,
		RegistrationTime: u.RegistrationTime,
		CreatedAt:        u.CreatedAt,
	}
}

// NewUserList always returns a non-nil slice so an empty table encodes as [].
func NewUserList(users []domain.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, NewUserResponse(u))
	}
	return out
}

type DeleteUnverifiedResponse struct {
	Message      string `json:"message"`
	DeletedCount int64  `json:"deletedCount"`
}
