package postgres

import (
	"database/sql"
	"time"

	"github.com/baechuer/user-management/internal/domain"
)

type userRow struct {
	ID               int64
	Name             string
	Email            string
	PasswordHash     string
	Status           string
	LastLoginTime    sql.NullTime
	RegistrationTime time.Time
	CreatedAt        time.Time
}

type scanner interface {
	Scan(dest ...any) error
}

// scanUser reads the full column list (userColumns).
func scanUser(s scanner) (userRow, error) {
	var ur userRow
	err := s.Scan(
		&ur.ID,
		&ur.Name,
		&ur.Email,
		&ur.PasswordHash,
		&ur.Status,
		&ur.LastLoginTime,
		&ur.RegistrationTime,
		&ur.CreatedAt,
	)
	return ur, err
}

// scanPublicUser reads publicColumns: no password hash.
func scanPublicUser(s scanner) (userRow, error) {
	var ur userRow
	err := s.Scan(
		&ur.ID,
		&ur.Name,
		&ur.Email,
		&ur.Status,
		&ur.LastLoginTime,
		&ur.RegistrationTime,
		&ur.CreatedAt,
	)
	return ur, err
}

func toDomainUser(ur userRow) domain.User {
	u := domain.User{
		ID:               ur.ID,
		Name:             ur.Name,
		Email:            ur.Email,
		PasswordHash:     ur.PasswordHash,
		Status:           domain.UserStatus(ur.Status),
		RegistrationTime: ur.RegistrationTime,
		CreatedAt:        ur.CreatedAt,
	}
	if ur.LastLoginTime.Valid {
		t := ur.LastLoginTime.Time
		u.LastLoginTime = &t
	}
	return u
}
