package router

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/baechuer/user-management/internal/transport/http/middleware"
	"github.com/baechuer/user-management/internal/transport/http/response"
)

type HealthHandler interface {
	Healthz(w http.ResponseWriter, r *http.Request)
	Readyz(w http.ResponseWriter, r *http.Request)
}

type AuthHandler interface {
	Register(w http.ResponseWriter, r *http.Request)
	Login(w http.ResponseWriter, r *http.Request)
	VerifyEmail(w http.ResponseWriter, r *http.Request)
}

type UsersHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Block(w http.ResponseWriter, r *http.Request)
	Unblock(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	DeleteUnverified(w http.ResponseWriter, r *http.Request)
}

type Deps struct {
	Health HealthHandler
	Auth   AuthHandler
	Users  UsersHandler

	AuthMW func(http.Handler) http.Handler

	// Optional per-route limits; nil means unlimited.
	LoginLimit    func(http.Handler) http.Handler
	RegisterLimit func(http.Handler) http.Handler

	// CORS origins; empty allows any origin.
	AllowedOrigins []string

	// HSTS adds Strict-Transport-Security to every response.
	HSTS bool
}

func New(deps Deps) (http.Handler, error) {
	if deps.Health == nil {
		return nil, fmt.Errorf("nil Health handler")
	}
	if deps.Auth == nil {
		return nil, fmt.Errorf("nil Auth handler")
	}
	if deps.Users == nil {
		return nil, fmt.Errorf("nil Users handler")
	}
	if deps.AuthMW == nil {
		return nil, fmt.Errorf("nil Auth middleware")
	}

	origins := deps.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Metrics)
	r.Use(middleware.Recoverer(response.WriteError))
	r.Use(middleware.SecurityHeaders(deps.HSTS))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type", middleware.HeaderXRequestID},
		ExposedHeaders: []string{middleware.HeaderXRequestID, "Retry-After"},
		MaxAge:         300,
	}))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		response.WriteJSON(w, http.StatusNotFound, response.MessageBody{Message: "Not found."})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		response.WriteJSON(w, http.StatusMethodNotAllowed, response.MessageBody{Message: "Method not allowed."})
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", deps.Health.Healthz)
		r.Get("/health/ready", deps.Health.Readyz)

		r.Route("/auth", func(r chi.Router) {
			r.With(optional(deps.RegisterLimit)).Post("/register", deps.Auth.Register)
			r.With(optional(deps.LoginLimit)).Post("/login", deps.Auth.Login)
			r.Post("/verify-email", deps.Auth.VerifyEmail)
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(deps.AuthMW)

			r.Get("/", deps.Users.List)
			r.Post("/block", deps.Users.Block)
			r.Post("/unblock", deps.Users.Unblock)
			r.Post("/delete", deps.Users.Delete)
			r.Post("/delete-unverified", deps.Users.DeleteUnverified)
		})
	})

	return r, nil
}

func optional(mw func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	if mw == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return mw
}
