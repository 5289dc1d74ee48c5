package session

import (
	"context"
	"time"
)

// Repository stores sessions. Update applies fn atomically per session.
type Repository interface {
	Create(ctx context.Context, s Session) error
	Get(ctx context.Context, id string) (Session, bool, error)
	Update(ctx context.Context, id string, now time.Time, fn func(State) (State, error)) (Session, bool, error)
	Touch(ctx context.Context, id string, now time.Time) (Session, bool, error)
	Delete(ctx context.Context, id string) (bool, error)
	ListIdleSince(ctx context.Context, cutoff time.Time) ([]string, error)
	Count(ctx context.Context) (int, error)
}
