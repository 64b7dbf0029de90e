package launcher

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofrs/flock"
)

// ownershipLockRetryInterval is the interval between attempts to acquire
// the log-directory lock. Sibling containers (API and migration runner)
// share the volume and start concurrently; 50ms keeps the wait short after
// the holder finishes.
const ownershipLockRetryInterval = 50 * time.Millisecond

// ownershipLockName is the lock file kept inside the shared directory.
const ownershipLockName = ".pgentry.lock"

// acquireFileLock acquires an exclusive lock on lockPath, retrying at
// ownershipLockRetryInterval until it succeeds or ctx is canceled.
func acquireFileLock(ctx context.Context, lockPath string) (*flock.Flock, error) {
	fl := flock.New(lockPath)

	locked, err := fl.TryLockContext(ctx, ownershipLockRetryInterval)
	if err != nil {
		return nil, fmt.Errorf("acquiring file lock %s: %w", lockPath, err)
	}
	if !locked {
		// TryLockContext reports failure through err; (false, nil) can
		// only mean the context raced the last retry.
		if ctx.Err() != nil {
			return nil, fmt.Errorf("acquiring file lock %s: %w", lockPath, ctx.Err())
		}
		return nil, fmt.Errorf("acquiring file lock %s: lock not acquired", lockPath)
	}
	return fl, nil
}

// releaseFileLock releases the lock and closes its descriptor. The lock
// file stays on disk: unlinking it would race a concurrent acquirer that
// already opened the old inode. Close() unlocks internally.
func releaseFileLock(logger *slog.Logger, fl *flock.Flock) {
	if fl != nil {
		if err := fl.Close(); err != nil {
			logger.Debug("failed to release file lock", "path", fl.Path(), "err", err)
		}
	}
}
