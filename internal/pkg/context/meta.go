// Package context carries per-request metadata that outlives the transport
// layer: the correlation id and the authenticated actor.
package context

import "context"

type key int

const (
	keyRequestID key = iota
	keyActorID
)

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, keyRequestID, id)
}

// RequestID returns "" when no id was attached.
func RequestID(ctx context.Context) string {
	s, _ := value[string](ctx, keyRequestID)
	return s
}

// WithActorID records which user is performing the request.
func WithActorID(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, keyActorID, id)
}

func ActorID(ctx context.Context) (int64, bool) {
	return value[int64](ctx, keyActorID)
}

func value[T any](ctx context.Context, k key) (T, bool) {
	var zero T
	if ctx == nil {
		return zero, false
	}
	v, ok := ctx.Value(k).(T)
	return v, ok
}
