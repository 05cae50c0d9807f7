package dto

import (
	"strings"

	"github.com/baechuer/user-management/internal/domain"
)

type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (r *RegisterRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(strings.ToLower(r.Email))
	if strings.TrimSpace(r.Password) == "" {
		r.Password = ""
	}
	if fe, ok := firstFieldError(r); ok {
		return toDomainError(fe)
	}
	return nil
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Validate reports any missing field as invalid credentials, so the
// response does not reveal which part was wrong.
func (r *LoginRequest) Validate() error {
	r.Email = strings.TrimSpace(strings.ToLower(r.Email))
	if _, ok := firstFieldError(r); ok {
		return domain.ErrInvalidCredentials()
	}
	return nil
}

type VerifyEmailRequest struct {
	Email string `json:"email" validate:"required"`
}

func (r *VerifyEmailRequest) Validate() error {
	r.Email = strings.TrimSpace(strings.ToLower(r.Email))
	if fe, ok := firstFieldError(r); ok {
		return toDomainError(fe)
	}
	return nil
}
