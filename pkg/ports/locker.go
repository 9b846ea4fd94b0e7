package ports

import (
	"context"
	"time"
)

// Release gives a run lock back. Releasing a lock that already lapsed and was
// taken by another holder leaves the new holder's lock in place.
type Release func(ctx context.Context) error

// RunLocker serializes writes to one run record across manager replicas.
type RunLocker interface {
	// LockRun blocks until runID is held or ctx is done. The lock lapses
	// after ttl if it is never released; a zero ttl never lapses.
	LockRun(ctx context.Context, runID string, ttl time.Duration) (Release, error)
}

// LockRunFunc adapts a function to RunLocker.
type LockRunFunc func(ctx context.Context, runID string, ttl time.Duration) (Release, error)

// LockRun calls f.
func (f LockRunFunc) LockRun(ctx context.Context, runID string, ttl time.Duration) (Release, error) {
	return f(ctx, runID, ttl)
}
