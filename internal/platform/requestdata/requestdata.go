package requestdata

import (
	"context"

	"github.com/google/uuid"
)

// Actor identifies the authenticated teacher/admin behind a request.
type Actor struct {
	UserID      uuid.UUID
	Role        string
	DisplayName string
}

type ctxKey struct{}

func WithActor(ctx context.Context, actor *Actor) context.Context {
	return context.WithValue(ctx, ctxKey{}, actor)
}

func GetActor(ctx context.Context) *Actor {
	actor, ok := ctx.Value(ctxKey{}).(*Actor)
	if !ok {
		return nil
	}
	return actor
}
