package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/baechuer/user-management/internal/application/auth"
	"github.com/baechuer/user-management/internal/application/users"
	"github.com/baechuer/user-management/internal/audit"
	"github.com/baechuer/user-management/internal/config"
	"github.com/baechuer/user-management/internal/infrastructure/db/migrations"
	"github.com/baechuer/user-management/internal/infrastructure/db/postgres"
	"github.com/baechuer/user-management/internal/infrastructure/memory"
	rabbitmq_pub "github.com/baechuer/user-management/internal/infrastructure/messaging/rabbitmq"
	"github.com/baechuer/user-management/internal/infrastructure/redis"
	"github.com/baechuer/user-management/internal/infrastructure/security"
	"github.com/baechuer/user-management/internal/logger"
	http_handlers "github.com/baechuer/user-management/internal/transport/http/handlers"
	"github.com/baechuer/user-management/internal/transport/http/middleware"
	"github.com/baechuer/user-management/internal/transport/http/response"
	"github.com/baechuer/user-management/internal/transport/http/router"
)

/*
========================
 Public entry (prod)
========================
*/

func NewServer() (*http.Server, func(), error) {
	return newServer(defaultDeps())
}

// NewServerWithDeps allows injecting dependencies for testing
func NewServerWithDeps(deps Deps) (*http.Server, func(), error) {
	return newServer(deps)
}

/*
========================
 Dependency injection
========================
*/

type Deps struct {
	LoadConfig func() (*config.Config, error)

	NewDB func(addr string, debug bool) (*sql.DB, error)

	Migrate func(ctx context.Context, db *sql.DB) error

	NewRedis func(addr, password string, db int) *redis.Client

	NewPublisher func(url, exchange string) (Publisher, error)

	NewRouter func(router.Deps) (http.Handler, error)
}

// Publisher is an event publisher that owns a connection.
type Publisher interface {
	auth.EventPublisher
	Close() error
}

// userStore is the full repository surface; postgres and memory both satisfy it.
type userStore interface {
	auth.UserRepo
	users.UserRepo
}

/*
========================
 Core bootstrap logic
========================
*/

func newServer(deps Deps) (*http.Server, func(), error) {
	// 0) config
	cfg, err := deps.LoadConfig()
	if err != nil {
		return nil, nil, err
	}

	var cleanupFns []func()
	fail := func(err error) (*http.Server, func(), error) {
		runCleanup(cleanupFns)
		return nil, nil, err
	}

	// 1) store
	var (
		store  userStore
		sqlDB  *sql.DB
		pinger http_handlers.Pinger
	)
	if cfg.DBAddr != "" {
		sqlDB, err = deps.NewDB(cfg.DBAddr, cfg.DBDebug)
		if err != nil {
			return nil, nil, err
		}
		cleanupFns = append(cleanupFns, func() { _ = sqlDB.Close() })

		if cfg.DBMigrate && deps.Migrate != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			err := deps.Migrate(ctx, sqlDB)
			cancel()
			if err != nil {
				return fail(err)
			}
			logger.Logger.Info().Msg("database migrated")
		}

		store = postgres.NewUserRepo(sqlDB)
		pinger = sqlDB
	} else {
		if cfg.IsProd() {
			return nil, nil, errors.New("bootstrap: DB_ADDR is required in prod")
		}
		logger.Logger.Warn().Msg("DB_ADDR not set; using in-memory user store")
		store = memory.NewUserRepo()
	}

	// 2) redis (best-effort)
	var limiter *redis.FixedWindowLimiter
	if cfg.RedisAddr != "" && deps.NewRedis != nil {
		c := deps.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := c.Ping(context.Background()); err != nil {
			logger.Logger.Warn().Err(err).Msg("redis unavailable; using in-process rate limits")
			_ = c.Close()
		} else {
			logger.Logger.Info().Msg("redis connected")
			limiter = redis.NewFixedWindowLimiter(c)
			cleanupFns = append(cleanupFns, func() { _ = c.Close() })
		}
	}

	// 3) publisher
	var pub auth.EventPublisher = memory.NewNoopPublisher()
	if cfg.RabbitURL != "" && deps.NewPublisher != nil {
		p, err := deps.NewPublisher(cfg.RabbitURL, cfg.RabbitExchange)
		switch {
		case err == nil:
			pub = p
			cleanupFns = append(cleanupFns, func() { _ = p.Close() })
		case cfg.IsProd():
			return fail(err)
		default:
			logger.Logger.Warn().Err(err).Msg("rabbitmq unavailable; using noop publisher")
		}
	}

	// 4) security
	if cfg.JWTSecretFallback {
		logger.Logger.Warn().Msg("JWT_SECRET not set; using fallback secret (dev only)")
	}
	logger.Logger.Info().Str("issuer", cfg.JWTIssuer).Msg("initializing jwt signer")
	hasher := security.NewBcryptHasher(cfg.BcryptCost)
	signer := security.NewJWTSigner(cfg.JWTSecret, cfg.JWTIssuer)

	// seed (dev only)
	if cfg.SeedUsers && !cfg.IsProd() {
		n := postgres.SeedUsers(context.Background(), store, hasher)
		logger.Logger.Info().Int("created", n).Msg("seeded demo users")
	}

	// 5) services
	auditLog := audit.New(logger.Logger)

	authSvc := auth.NewService(store, hasher, signer, pub, auth.Config{
		AccessTTL: cfg.AccessTokenTTL,
	}).WithAudit(auditLog.Record)

	usersSvc := users.NewService(store).WithAudit(auditLog.Record)

	// 6) handlers + middleware
	authH := http_handlers.NewAuthHandler(authSvc)
	usersH := http_handlers.NewUsersHandler(usersSvc)
	healthH := http_handlers.NewHealthHandler(pinger)

	authMW := middleware.Auth(authSvc, response.WriteError)

	// rate limit (fail-open)
	rl := func(key string, limit int, onLimited func(*http.Request, string)) func(http.Handler) http.Handler {
		if limiter == nil {
			return middleware.RateLimitByIP(key, limit, cfg.RateLimitWindow, response.WriteError)
		}
		return middleware.RateLimitFixedWindow(
			limiter,
			middleware.FixedWindowConfig{
				RouteKey:  key,
				Limit:     limit,
				Window:    cfg.RateLimitWindow,
				OnLimited: onLimited,
			},
			response.WriteError,
		)
	}
	loginLimited := func(r *http.Request, _ string) {
		auditLog.LoginFailed(r.Context(), "", middleware.ClientIP(r), "rate_limited")
	}

	// 7) router
	mux, err := deps.NewRouter(router.Deps{
		Health: healthH,
		Auth:   authH,
		Users:  usersH,
		AuthMW: authMW,

		LoginLimit:    rl("auth.login", cfg.RateLimitLogin, loginLimited),
		RegisterLimit: rl("auth.register", cfg.RateLimitRegister, nil),

		AllowedOrigins: cfg.CORSAllowedOrigins,
		HSTS:           cfg.IsProd(),
	})
	if err != nil {
		return fail(err)
	}

	// 8) server
	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      mux,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	cleanup := func() {
		runCleanup(cleanupFns)
	}

	return srv, cleanup, nil
}

/*
========================
 Default deps (prod)
========================
*/

func defaultDeps() Deps {
	return Deps{
		LoadConfig: config.Load,
		NewDB:      config.NewDB,
		Migrate:    migrations.Up,
		NewRedis:   redis.New,
		NewPublisher: func(url, exchange string) (Publisher, error) {
			return rabbitmq_pub.NewPublisher(url, exchange)
		},
		NewRouter: router.New,
	}
}

/*
========================
 helpers
========================
*/

func runCleanup(fns []func()) {
	for i := len(fns) - 1; i >= 0; i-- {
		fns[i]()
	}
}
