package cache

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrCacheMiss       = errors.New("cache miss")
	ErrLockNotAcquired = errors.New("system busy, please try again later (lock)")
)

type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	DeletePattern(ctx context.Context, pattern string) error
}

type Locker interface {
	AcquireLock(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, key, value string) error
}

// StoreLocker is what the use cases depend on; RedisClient and Memory both
// satisfy it.
type StoreLocker interface {
	Store
	Locker
}

type LockOptions struct {
	Attempts int
	Wait     time.Duration
	TTL      time.Duration
}

var DefaultLockOptions = LockOptions{Attempts: 3, Wait: 100 * time.Millisecond, TTL: 5 * time.Second}

// WithLock runs fn while holding key. Acquisition is retried opts.Attempts
// times; a Redis error counts as a failed attempt.
func WithLock(ctx context.Context, l Locker, key string, opts LockOptions, fn func(ctx context.Context) error) error {
	if opts.Attempts <= 0 {
		opts.Attempts = 1
	}
	value := uuid.NewString()

	acquired := false
	var lastErr error
	for i := 0; i < opts.Attempts; i++ {
		ok, err := l.AcquireLock(ctx, key, value, opts.TTL)
		if err != nil {
			lastErr = err
		}
		if ok {
			acquired = true
			break
		}
		if i < opts.Attempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(opts.Wait):
			}
		}
	}
	if !acquired {
		if lastErr != nil {
			return errors.Join(ErrLockNotAcquired, lastErr)
		}
		return ErrLockNotAcquired
	}
	defer l.ReleaseLock(context.WithoutCancel(ctx), key, value)

	return fn(ctx)
}

// ProductLockKey serializes every read-modify-write of a product's variation
// list, stock adjustments included.
func ProductLockKey(productID string) string {
	return "lock:product:" + productID
}
