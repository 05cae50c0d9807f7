package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/baechuer/user-management/internal/bootstrap"
	"github.com/baechuer/user-management/internal/logger"
)

const drainTimeout = 15 * time.Second

// server is the part of *http.Server that run drives.
type server interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
	Close() error
}

// app is a built server plus the teardown for everything bootstrap opened.
type app struct {
	srv     server
	addr    string
	cleanup func()
}

type buildFunc func() (app, error)

func fromBootstrap() (app, error) {
	srv, cleanup, err := bootstrap.NewServer()
	if err != nil {
		return app{}, err
	}
	return app{srv: srv, addr: srv.Addr, cleanup: cleanup}, nil
}

// run serves until ctx is done or the listener dies and returns the exit code.
func run(ctx context.Context, build buildFunc, lg zerolog.Logger) int {
	a, err := build()
	if err != nil {
		lg.Error().Err(err).Msg("startup failed")
		return 1
	}
	if a.cleanup != nil {
		defer a.cleanup()
	}

	served := make(chan error, 1)
	go func() {
		lg.Info().Str("addr", a.addr).Msg("user-management api listening")
		served <- a.srv.ListenAndServe()
	}()

	select {
	case err := <-served:
		if errors.Is(err, http.ErrServerClosed) {
			return 0
		}
		lg.Error().Err(err).Msg("listener stopped")
		return 1
	case <-ctx.Done():
		lg.Info().Msg("stop requested, draining connections")
	}

	drainCtx, cancel := context.WithTimeout(context.Background(), drainTimeout)
	defer cancel()

	if err := a.srv.Shutdown(drainCtx); err != nil {
		lg.Warn().Err(err).Msg("drain incomplete, closing remaining connections")
		if cerr := a.srv.Close(); cerr != nil {
			lg.Error().Err(cerr).Msg("close failed")
		}
	}

	lg.Info().Msg("stopped")
	return 0
}

func main() {
	logger.Init()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, fromBootstrap, zlog.Logger)
	stop()
	os.Exit(code)
}
