package config

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/zerolog/log"
)

var errEmptyDSN = errors.New("config: empty database DSN")

// Pool holds database/sql pool limits for the user store.
type Pool struct {
	MaxOpen     int
	MaxIdle     int
	MaxIdleTime time.Duration
	MaxLifetime time.Duration
	PingTimeout time.Duration
}

func DefaultPool() Pool {
	return Pool{
		MaxOpen:     20,
		MaxIdle:     10,
		MaxIdleTime: 5 * time.Minute,
		MaxLifetime: time.Hour,
		PingTimeout: 3 * time.Second,
	}
}

func (p Pool) apply(db *sql.DB) {
	db.SetMaxOpenConns(p.MaxOpen)
	db.SetMaxIdleConns(p.MaxIdle)
	db.SetConnMaxIdleTime(p.MaxIdleTime)
	db.SetConnMaxLifetime(p.MaxLifetime)
}

// NewDB opens a pgx-backed pool with DefaultPool limits and pings it once.
func NewDB(dsn string, debug bool) (*sql.DB, error) {
	return OpenDB(dsn, DefaultPool(), debug)
}

func OpenDB(dsn string, pool Pool, debug bool) (*sql.DB, error) {
	if dsn == "" {
		return nil, errEmptyDSN
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	pool.apply(db)

	ctx, cancel := context.WithTimeout(context.Background(), pool.PingTimeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	if debug {
		var user, name string
		if err := db.QueryRowContext(ctx, "SELECT current_user, current_database()").Scan(&user, &name); err == nil {
			log.Debug().Str("db_user", user).Str("db_name", name).Int("max_open", pool.MaxOpen).Msg("user store connected")
		}
	}
	return db, nil
}
