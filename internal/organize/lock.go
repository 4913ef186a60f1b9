// Package organize performs and reverses the file moves a plan describes,
// under an exclusive per-destination lock.
package organize

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"sortd/internal/models"
	"sortd/internal/scan"
)

// DirLock is an exclusive lock on one destination root, backed by a
// lockfile created with O_EXCL so acquisition is atomic. Commit and undo
// both take it; a second caller fails fast instead of interleaving moves.
type DirLock struct {
	path string
}

// LockPath returns the lockfile location for a destination root.
func LockPath(destRoot string) string {
	return filepath.Join(destRoot, scan.StateDirName, "lock")
}

// Acquire takes the lock or fails with ErrCommitInProgress when another
// operation holds it.
func Acquire(destRoot string) (*DirLock, error) {
	path := LockPath(destRoot)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("prepare lock directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return nil, fmt.Errorf("%w: lock held at %s", models.ErrCommitInProgress, path)
		}
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	fmt.Fprintf(f, "%d %s\n", os.Getpid(), time.Now().UTC().Format(time.RFC3339))
	if err := f.Close(); err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	return &DirLock{path: path}, nil
}

// Release drops the lock. Releasing twice is harmless.
func (l *DirLock) Release() error {
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("release lock: %w", err)
	}
	return nil
}
