package http_handlers

import (
	"net/http"

	"github.com/baechuer/user-management/internal/application/auth"
	"github.com/baechuer/user-management/internal/logger"
	"github.com/baechuer/user-management/internal/transport/http/dto"
	"github.com/baechuer/user-management/internal/transport/http/response"
)

type AuthHandler struct {
	svc *auth.Service
}

func NewAuthHandler(svc *auth.Service) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if !bind(w, r, &req) {
		return
	}

	res, err := h.svc.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		response.WriteError(w, r, failedAs(err, "Registration failed."))
		return
	}
	logger.WithCtx(r.Context()).Info().Int64("user_id", res.User.ID).Msg("user_registered")

	response.Created(w, dto.RegisterResponse{Message: "Registration successful!", UserID: res.User.ID})
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if !bind(w, r, &req) {
		return
	}

	res, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		response.WriteError(w, r, failedAs(err, "Login failed."))
		return
	}
	logger.WithCtx(r.Context()).Info().Int64("user_id", res.User.ID).Msg("user_logged_in")

	response.OK(w, dto.NewLoginResponse(res.Token, res.User))
}

// VerifyEmail handles POST /api/auth/verify-email.
func (h *AuthHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	var req dto.VerifyEmailRequest
	if !bind(w, r, &req) {
		return
	}

	if err := h.svc.VerifyEmail(r.Context(), req.Email); err != nil {
		response.WriteError(w, r, failedAs(err, "Verification failed."))
		return
	}
	response.Message(w, "Email verified successfully!")
}
