package cache

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Locker is the subset of RedisClient used for short critical sections.
type Locker interface {
	AcquireLock(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, key, value string) error
}

const (
	lockAttempts = 3
	lockBackoff  = 100 * time.Millisecond
	lockTTL      = 5 * time.Second
)

// WithLock runs fn while holding key. It returns ok=false without running fn when
// the lock could not be taken after a few attempts.
func WithLock(ctx context.Context, l Locker, key string, fn func() error) (ok bool, err error) {
	token := uuid.New().String()

	acquired := false
	for i := 0; i < lockAttempts; i++ {
		got, lerr := l.AcquireLock(ctx, key, token, lockTTL)
		if lerr == nil && got {
			acquired = true
			break
		}
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-time.After(lockBackoff):
		}
	}
	if !acquired {
		return false, nil
	}
	defer l.ReleaseLock(context.WithoutCancel(ctx), key, token)

	return true, fn()
}
