package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/flowline/pkg/ports"
	"github.com/google/uuid"
	backend "github.com/redis/go-redis/v9"
)

var (
	// ErrLockAcquire is returned when redis cannot be asked for a run lock.
	ErrLockAcquire = errors.New("failed to acquire run lock")
)

// releaseScript deletes the key only when it still holds our token.
var releaseScript = backend.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
else
	return 0
end
`)

// Locker implements ports.RunLocker with SET NX PX keys under
// "<prefix>run-lock:<run id>".
type Locker struct {
	client   *backend.Client
	prefix   string
	interval time.Duration
}

// NewLocker creates a new Redis locker.
func NewLocker(client *backend.Client, prefix string) *Locker {
	return &Locker{
		client:   client,
		prefix:   prefix,
		interval: 50 * time.Millisecond,
	}
}

// LockRun polls until the run's key is free or ctx is done.
func (l *Locker) LockRun(ctx context.Context, runID string, ttl time.Duration) (ports.Release, error) {
	lockKey := l.prefix + "run-lock:" + runID
	token := uuid.New().String()

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		ok, err := l.client.SetNX(ctx, lockKey, token, ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLockAcquire, err)
		}
		if ok {
			return func(ctx context.Context) error {
				return releaseScript.Run(ctx, l.client, []string{lockKey}, token).Err()
			}, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}
