package locker

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"rewardportal/internal/interfaces"

	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/redis/go-redis/v9"
)

var ErrLocked = interfaces.ErrLocked

// RedsyncLocker hands out distributed mutexes backed by redis.
type RedsyncLocker struct {
	rs *redsync.Redsync
}

func NewRedsyncLocker(client redis.UniversalClient) *RedsyncLocker {
	return &RedsyncLocker{redsync.New(goredis.NewPool(client))}
}

func (l *RedsyncLocker) NewMutex(key string) interfaces.Mutex {
	return &redsyncMutex{l.rs.NewMutex(key, redsync.WithTries(1))}
}

type redsyncMutex struct {
	*redsync.Mutex
}

// TryLockContext reports contention as ErrLocked and passes redis faults through.
func (m *redsyncMutex) TryLockContext(ctx context.Context) error {
	return contention(m.Mutex.TryLockContext(ctx))
}

func contention(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, redsync.ErrFailed) || errors.As(err, new(*redsync.ErrTaken)) {
		return fmt.Errorf("%w: %v", ErrLocked, err)
	}
	return err
}

// LocalLocker is an in-process locker for single-instance runs and tests.
type LocalLocker struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{locks: map[string]*sync.Mutex{}}
}

func (l *LocalLocker) NewMutex(key string) interfaces.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()

	m, ok := l.locks[key]
	if !ok {
		m = &sync.Mutex{}
		l.locks[key] = m
	}
	return &localMutex{m}
}

type localMutex struct {
	m *sync.Mutex
}

func (m *localMutex) TryLockContext(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !m.m.TryLock() {
		return ErrLocked
	}
	return nil
}

func (m *localMutex) UnlockContext(ctx context.Context) (bool, error) {
	m.m.Unlock()
	return true, nil
}
