package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

var ErrLockFailed = errors.New("failed to acquire lock")

// DistributedLock is a Redis SET NX lock with owner verification on release.
// The expiration guards against a crashed holder leaving the key behind.
type DistributedLock struct {
	client     *redis.Client
	key        string
	value      string
	expiration time.Duration
}

func New(client *redis.Client, key, value string, expiration time.Duration) *DistributedLock {
	return &DistributedLock{client: client, key: key, value: value, expiration: expiration}
}

func (l *DistributedLock) TryLock(ctx context.Context) (bool, error) {
	return l.client.SetNX(ctx, l.key, l.value, l.expiration).Result()
}

// Lock retries until acquired or maxRetries attempts are exhausted.
func (l *DistributedLock) Lock(ctx context.Context, retryInterval time.Duration, maxRetries int) error {
	for i := 0; i < maxRetries; i++ {
		ok, err := l.TryLock(ctx)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(retryInterval):
		}
	}
	return ErrLockFailed
}

// Unlock deletes the key only if this instance still owns it; the Lua
// script keeps check-and-delete atomic.
func (l *DistributedLock) Unlock(ctx context.Context) error {
	script := `
		if redis.call("GET", KEYS[1]) == ARGV[1] then
			return redis.call("DEL", KEYS[1])
		else
			return 0
		end
	`
	_, err := l.client.Eval(ctx, script, []string{l.key}, l.value).Result()
	return err
}

// NewWalletLock serializes all balance mutations for one user. Per-user
// keys keep unrelated wallets fully concurrent.
func NewWalletLock(client *redis.Client, userID uint, holder string) *DistributedLock {
	key := fmt.Sprintf("wallet:lock:user:%d", userID)
	return New(client, key, holder, 30*time.Second)
}
