// Package audit writes one structured line per account or admin action and
// counts outcomes for /metrics.
package audit

import (
	"context"
	"slices"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"

	appCtx "github.com/baechuer/user-management/internal/pkg/context"
)

var actionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "user_management",
	Name:      "account_actions_total",
	Help:      "Audited account and admin actions by outcome.",
}, []string{"action", "result"})

type Logger struct {
	log zerolog.Logger
}

func New(log zerolog.Logger) *Logger {
	return &Logger{log: log.With().Bool("audit", true).Logger()}
}

// Record matches the WithAudit hook of the application services. Fields are
// written in key order; "email" is masked and result=error logs at warn.
func (l *Logger) Record(ctx context.Context, action string, fields map[string]string) {
	result := fields["result"]
	if result == "" {
		result = "unknown"
	}
	actionsTotal.WithLabelValues(action, result).Inc()

	ev := l.log.Info()
	if result == "error" {
		ev = l.log.Warn()
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		v := fields[k]
		if k == "email" {
			v = maskEmail(v)
		}
		ev = ev.Str(k, v)
	}

	l.stamp(ctx, ev).Str("action", action).Msg("audit")
}

// LoginFailed records a login the transport layer rejected before it reached
// the service, such as a rate-limited one.
func (l *Logger) LoginFailed(ctx context.Context, email, ip, reason string) {
	actionsTotal.WithLabelValues("auth.login", reason).Inc()

	l.stamp(ctx, l.log.Warn()).
		Str("action", "login_failed").
		Str("email", maskEmail(email)).
		Str("ip", ip).
		Str("reason", reason).
		Msg("Login attempt failed")
}

func (l *Logger) stamp(ctx context.Context, ev *zerolog.Event) *zerolog.Event {
	if actor, ok := appCtx.ActorID(ctx); ok {
		ev = ev.Int64("actor_id", actor)
	}
	return ev.Str("request_id", appCtx.RequestID(ctx))
}

// maskEmail keeps at most two leading characters of the local part.
func maskEmail(email string) string {
	if len(email) < 5 {
		return "***"
	}
	local, domain, ok := strings.Cut(email, "@")
	if !ok {
		return email[:2] + "***"
	}
	return local[:min(len(local), 2)] + "***@" + domain
}
