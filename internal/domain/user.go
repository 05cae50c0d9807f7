package domain

import "time"

type UserStatus string

const (
	// StatusUnverified is assigned at registration until the email is confirmed.
	StatusUnverified UserStatus = "unverified"
	StatusActive     UserStatus = "active"
	// StatusBlocked users cannot log in and are rejected by the auth middleware.
	StatusBlocked UserStatus = "blocked"
)

func (s UserStatus) Valid() bool {
	return s == StatusUnverified || s == StatusActive || s == StatusBlocked
}

func (s UserStatus) String() string { return string(s) }

type User struct {
	ID               int64
	Name             string
	Email            string
	PasswordHash     string
	Status           UserStatus
	LastLoginTime    *time.Time
	RegistrationTime time.Time
	CreatedAt        time.Time
}

func (u User) IsBlocked() bool {
	return u.Status == StatusBlocked
}
