package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// FallbackJWTSecret signs tokens when JWT_SECRET is unset outside prod.
const FallbackJWTSecret = "fallback-secret"

type Config struct {
	Env string // dev, staging or prod

	HTTPAddr           string
	HTTPReadTimeout    time.Duration
	HTTPWriteTimeout   time.Duration
	HTTPIdleTimeout    time.Duration
	CORSAllowedOrigins []string

	JWTSecret         string
	JWTSecretFallback bool
	JWTIssuer         string
	AccessTokenTTL    time.Duration
	BcryptCost        int

	// Empty DBAddr selects the in-memory store, RedisAddr the in-process
	// limiter and RabbitURL the noop publisher.
	DBAddr         string
	DBDebug        bool
	DBMigrate      bool
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	RabbitURL      string
	RabbitExchange string

	// requests per RateLimitWindow per client
	RateLimitLogin    int
	RateLimitRegister int
	RateLimitWindow   time.Duration

	SeedUsers bool
}

func (c *Config) IsProd() bool { return c.Env == "prod" }

// Load reads the process environment, after merging an optional .env file.
// Every malformed variable is reported, not just the first.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var e env
	cfg := &Config{
		Env:      e.str("ENV", "dev"),
		HTTPAddr: e.str("HTTP_ADDR", ":5000"),

		HTTPReadTimeout:    e.duration("HTTP_READ_TIMEOUT", 10*time.Second),
		HTTPWriteTimeout:   e.duration("HTTP_WRITE_TIMEOUT", 30*time.Second),
		HTTPIdleTimeout:    e.duration("HTTP_IDLE_TIMEOUT", time.Minute),
		CORSAllowedOrigins: splitList(e.str("CORS_ALLOWED_ORIGINS", "*")),

		JWTSecret:      e.raw("JWT_SECRET"),
		JWTIssuer:      e.str("JWT_ISSUER", "user-management"),
		AccessTokenTTL: e.duration("ACCESS_TOKEN_TTL", 24*time.Hour),
		BcryptCost:     e.integer("BCRYPT_COST", 12),

		DBAddr:         e.str("DB_ADDR", ""),
		DBDebug:        e.boolean("DB_DEBUG", false),
		DBMigrate:      e.boolean("DB_MIGRATE", true),
		RedisAddr:      e.str("REDIS_ADDR", ""),
		RedisPassword:  e.raw("REDIS_PASSWORD"),
		RedisDB:        e.integer("REDIS_DB", 0),
		RabbitURL:      e.str("RABBIT_URL", ""),
		RabbitExchange: e.str("RABBIT_EXCHANGE", "user.events"),

		RateLimitLogin:    e.integer("RATE_LIMIT_LOGIN", 5),
		RateLimitRegister: e.integer("RATE_LIMIT_REGISTER", 3),
		RateLimitWindow:   e.duration("RATE_LIMIT_WINDOW", time.Minute),

		SeedUsers: e.boolean("SEED_USERS", false),
	}
	if port := e.str("PORT", ""); port != "" {
		cfg.HTTPAddr = ":" + port
	}
	if err := e.err(); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.JWTSecret == "" {
		if c.IsProd() {
			return errors.New("config: JWT_SECRET is required in prod")
		}
		c.JWTSecret = FallbackJWTSecret
		c.JWTSecretFallback = true
	}
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		return fmt.Errorf("config: BCRYPT_COST %d outside 4..31", c.BcryptCost)
	}
	switch {
	case c.DBAddr == "" && c.IsProd():
		return errors.New("config: DB_ADDR is required in prod")
	case c.DBAddr != "" && !strings.HasPrefix(c.DBAddr, "postgres://") && !strings.HasPrefix(c.DBAddr, "postgresql://"):
		return errors.New("config: DB_ADDR must be a postgres:// URL")
	}
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
