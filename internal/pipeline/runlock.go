package pipeline

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrRunInProgress indicates another lectern run holds the lock.
var ErrRunInProgress = errors.New("another lectern run is already in progress")

// RunLock serializes pipeline runs across processes. Runs are strictly
// sequential; concurrent invocations fail fast instead of interleaving.
type RunLock struct {
	lock *flock.Flock
	path string
}

// AcquireRunLock takes the run lock under workDir without blocking.
func AcquireRunLock(workDir string) (*RunLock, error) {
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure work dir: %w", err)
	}
	path := filepath.Join(workDir, "lectern.lock")
	lock := flock.New(path)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire run lock: %w", err)
	}
	if !ok {
		return nil, ErrRunInProgress
	}
	return &RunLock{lock: lock, path: path}, nil
}

// Path returns the lock file location.
func (l *RunLock) Path() string {
	return l.path
}

// Release drops the lock.
func (l *RunLock) Release() error {
	if l == nil || l.lock == nil {
		return nil
	}
	return l.lock.Unlock()
}
