package internal

import (
	"context"
	"time"
)

type ctxKey string

const ContextActorKey ctxKey = "actor"

// Actor identifies who is performing a mutation. Every state-changing
// operation in the configuration core takes one; the UI never decides
// authorization on its own.
type Actor struct {
	ID    int64
	Email string
	Role  string
}

const (
	RoleAdmin  = "admin"
	RoleViewer = "viewer"
)

// CanManageConfig reports whether the actor may change work types or
// system settings.
func (a Actor) CanManageConfig() bool {
	return a.Role == RoleAdmin
}

func ActorFromContext(ctx context.Context) (Actor, bool) {
	if ctx == nil {
		return Actor{}, false
	}
	actor, ok := ctx.Value(ContextActorKey).(Actor)
	return actor, ok
}

func ContextWithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, ContextActorKey, actor)
}

// WithTimeout returns a context with timeout, defaulting to 5 seconds if duration is zero or negative.
func WithTimeout(ctx context.Context, duration time.Duration) (context.Context, context.CancelFunc) {
	if duration <= 0 {
		duration = 5 * time.Second
	}
	return context.WithTimeout(ctx, duration)
}
