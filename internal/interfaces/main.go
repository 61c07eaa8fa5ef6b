package interfaces

import (
	"context"
	"errors"

	"github.com/go-redis/redis_rate/v10"
)

type Limiter interface {
	Allow(ctx context.Context, key string, limit redis_rate.Limit) error
}

// ErrLocked is returned by TryLockContext when another holder owns the lock.
var ErrLocked = errors.New("lock already taken")

// Mutex is the subset of *redsync.Mutex the services rely on.
type Mutex interface {
	TryLockContext(ctx context.Context) error
	UnlockContext(ctx context.Context) (bool, error)
}

type Locker interface {
	NewMutex(key string) Mutex
}
