package dto

import "github.com/baechuer/user-management/internal/domain"

type RegisterResponse struct {
	Message string `json:"message"`
	UserID  int64  `json:"userId"`
}

type LoginUser struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Status string `json:"status"`
}

type LoginResponse struct {
	Token string    `json:"token"`
	User  LoginUser `json:"user"`
}

func NewLoginResponse(token string, u domain.User) LoginResponse {
	return LoginResponse{
		Token: token,
		User: LoginUser{
			ID:     u.ID,
			Name:   u.Name,
			Email:  u.Email,
			Status: u.Status.String(),
		},
	}
}
