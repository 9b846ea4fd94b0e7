package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/flowline/pkg/adapters/redis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisLocker_LockRelease(t *testing.T) {
	mr, client := newClient(t)
	locker := redis.NewLocker(client, "test:")
	ctx := context.Background()

	release, err := locker.LockRun(ctx, "run-1", 5*time.Second)
	require.NoError(t, err)
	require.NotNil(t, release)

	assert.True(t, mr.Exists("test:run-lock:run-1"), "Lock key should be set in Redis")

	require.NoError(t, release(ctx))
	assert.False(t, mr.Exists("test:run-lock:run-1"), "Lock key should be removed after release")
}

func TestRedisLocker_Contention(t *testing.T) {
	mr, client := newClient(t)
	locker1 := redis.NewLocker(client, "test:")
	locker2 := redis.NewLocker(client, "test:")
	ctx := context.Background()
	key := "shared-run"

	release1, err := locker1.LockRun(ctx, key, 5*time.Second)
	require.NoError(t, err)

	ctxTimeout, cancel := context.WithTimeout(ctx, 300*time.Millisecond)
	defer cancel()

	_, err = locker2.LockRun(ctxTimeout, key, 5*time.Second)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	require.NoError(t, release1(ctx))

	release2, err := locker2.LockRun(ctx, key, 5*time.Second)
	require.NoError(t, err)
	defer func() { _ = release2(ctx) }()

	assert.True(t, mr.Exists("test:run-lock:shared-run"))
}

func TestRedisLocker_ReleaseOnlyOwnToken(t *testing.T) {
	mr, client := newClient(t)
	locker := redis.NewLocker(client, "test:")
	ctx := context.Background()

	release, err := locker.LockRun(ctx, "run-2", time.Second)
	require.NoError(t, err)

	// Lock expires and another holder takes it.
	mr.FastForward(2 * time.Second)
	require.NoError(t, mr.Set("test:run-lock:run-2", "someone-else"))

	require.NoError(t, release(ctx))
	got, err := mr.Get("test:run-lock:run-2")
	require.NoError(t, err)
	assert.Equal(t, "someone-else", got, "a stale release must not drop another holder's lock")
}
