package services

import (
	"context"
	"fmt"

	"golang.org/x/sync/singleflight"

	"messaging-service/internal/observability"
)

// Guard collapses identical toggle commands that overlap in time. A caller
// arriving while the same (operation, user, target) is in flight waits for
// and shares that result instead of toggling a second time.
type Guard struct {
	group singleflight.Group
}

func NewGuard() *Guard {
	return &Guard{}
}

func toggleKey(op string, userID int, target any) string {
	return fmt.Sprintf("%s:%d:%v", op, userID, target)
}

// guarded runs fn once per key at a time. fn gets a context detached from
// any single caller so that one caller going away does not fail the others;
// each caller still stops waiting when its own ctx is done.
func guarded[T any](ctx context.Context, g *Guard, op string, userID int, target any, fn func(context.Context) (T, error)) (T, error) {
	ch := g.group.DoChan(toggleKey(op, userID, target), func() (interface{}, error) {
		return fn(context.WithoutCancel(ctx))
	})
	var zero T
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Shared {
			observability.IncToggleCollapsed(op)
		}
		if res.Err != nil {
			return zero, res.Err
		}
		return res.Val.(T), nil
	}
}
