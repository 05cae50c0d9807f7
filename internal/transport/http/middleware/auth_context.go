package middleware

import (
	"context"

	"github.com/baechuer/user-management/internal/domain"
	appCtx "github.com/baechuer/user-management/internal/pkg/context"
)

type ctxKey string

const ctxUser ctxKey = "user"

// WithUser stores the authenticated user without its password hash and marks
// it as the request's actor.
func WithUser(ctx context.Context, u domain.User) context.Context {
	u.PasswordHash = ""
	ctx = appCtx.WithActorID(ctx, u.ID)
	return context.WithValue(ctx, ctxUser, u)
}

func UserFromContext(ctx context.Context) (domain.User, bool) {
	u, ok := ctx.Value(ctxUser).(domain.User)
	return u, ok && u.ID > 0
}

func UserIDFromContext(ctx context.Context) (int64, bool) {
	u, ok := UserFromContext(ctx)
	return u.ID, ok
}
