package infra

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"github.com/winterwar/wwlauncher/internal/domain"
)

const lockFileName = "wwlauncher.lock"

// InstanceLock keeps two launchers from purging and launching at once.
type InstanceLock struct {
	lock *flock.Flock
}

// DefaultLockPath returns the lock file path in the OS temp dir.
func DefaultLockPath() string {
	return filepath.Join(os.TempDir(), lockFileName)
}

// AcquireInstanceLock takes the lock at path, waiting at most timeout.
func AcquireInstanceLock(ctx context.Context, path string, timeout time.Duration) (*InstanceLock, error) {
	fileLock := flock.New(path)
	lockCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	locked, err := fileLock.TryLockContext(lockCtx, 100*time.Millisecond)
	if err != nil && lockCtx.Err() == nil {
		return nil, fmt.Errorf("failed to acquire lock: %w", err)
	}
	if !locked {
		return nil, domain.NewError(domain.KindAlreadyRunning,
			fmt.Sprintf("another launcher is already running (lock %s held)", path), nil)
	}
	return &InstanceLock{lock: fileLock}, nil
}

// Release unlocks. The lock file itself is left in place.
func (l *InstanceLock) Release() error {
	if l == nil || l.lock == nil {
		return nil
	}
	return l.lock.Unlock()
}
