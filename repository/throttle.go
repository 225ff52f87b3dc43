package repository

import (
	"context"
	"time"
)

// LoginThrottle counts failed login attempts per username inside a fixed
// window. Implementations must fail open: an unreachable backend never
// blocks logins.
type LoginThrottle interface {
	Hit(ctx context.Context, username string, window time.Duration) (int, error)
	Reset(ctx context.Context, username string) error
}
