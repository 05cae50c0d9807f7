package logger

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	appCtx "github.com/baechuer/user-management/internal/pkg/context"
)

const service = "user-management"

// Logger is the process-wide logger. Its zero value discards everything.
var Logger zerolog.Logger

type Options struct {
	Level zerolog.Level
	JSON  bool
}

// OptionsFromEnv reads LOG_LEVEL (default info) and LOG_FORMAT (json|console).
func OptionsFromEnv() Options {
	opts := Options{Level: zerolog.InfoLevel}
	if lvl, err := zerolog.ParseLevel(strings.ToLower(os.Getenv("LOG_LEVEL"))); err == nil && lvl != zerolog.NoLevel {
		opts.Level = lvl
	}
	opts.JSON = strings.EqualFold(os.Getenv("LOG_FORMAT"), "json")
	return opts
}

func Init() {
	InitWithWriter(os.Stdout)
}

func InitWithWriter(w io.Writer) {
	Setup(w, OptionsFromEnv())
}

// Setup replaces Logger and the zerolog global.
func Setup(w io.Writer, opts Options) {
	if !opts.JSON {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	ctx := zerolog.New(w).Level(opts.Level).With().Timestamp()
	if opts.JSON {
		ctx = ctx.Str("service", service)
	}
	Logger = ctx.Logger()
	zlog.Logger = Logger
}

// WithCtx scopes Logger to the request id and actor carried by ctx.
func WithCtx(ctx context.Context) *zerolog.Logger {
	lc := Logger.With()
	if rid := appCtx.RequestID(ctx); rid != "" {
		lc = lc.Str("request_id", rid)
	}
	if actor, ok := appCtx.ActorID(ctx); ok {
		lc = lc.Int64("actor_id", actor)
	}
	l := lc.Logger()
	return &l
}
