package organize

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"sortd/internal/models"
)

// moveFile renames src to dst, falling back to copy-then-remove when the
// rename crosses a filesystem boundary.
func moveFile(src, dst string) error {
	err := os.Rename(src, dst)
	if err == nil {
		return nil
	}
	var linkErr *os.LinkError
	if errors.As(err, &linkErr) && errors.Is(linkErr.Err, syscall.EXDEV) {
		return copyThenRemove(src, dst)
	}
	return err
}

func copyThenRemove(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}
	out, err := os.OpenFile(dst, os.O_CREATE|os.O_EXCL|os.O_WRONLY, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	if err := out.Sync(); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	if err := out.Close(); err != nil {
		os.Remove(dst)
		return err
	}
	// Keep the original modification time; query ranking relies on it.
	_ = os.Chtimes(dst, time.Now(), info.ModTime())
	return os.Remove(src)
}

// moveWithTimeout bounds how long a single move may block on an
// unresponsive mount. On timeout the move's final state is unknown; the
// error says so and the file is reported, never silently dropped.
func moveWithTimeout(timeout time.Duration, src, dst string) error {
	if timeout <= 0 {
		return moveFile(src, dst)
	}
	done := make(chan error, 1)
	go func() { done <- moveFile(src, dst) }()

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case err := <-done:
		return err
	case <-timer.C:
		return fmt.Errorf("%w: move of %s timed out after %s, state unknown", models.ErrFileAccess, src, timeout)
	}
}

// resolveCollision picks a destination that neither exists on disk nor has
// been claimed earlier in the same run. Collisions get a timestamp-derived
// suffix, then a counter when even that is taken. A destination whose state
// cannot be verified is an error: rename would overwrite it silently.
func resolveCollision(target string, claimed map[string]bool, now time.Time) (string, bool, error) {
	ok, err := free(target, claimed)
	if err != nil {
		return "", false, err
	}
	if ok {
		return target, false, nil
	}
	ext := filepath.Ext(target)
	stem := strings.TrimSuffix(target, ext)
	stamp := now.UTC().Format("20060102-150405")

	cand := fmt.Sprintf("%s_%s%s", stem, stamp, ext)
	for n := 1; n <= 1000; n++ {
		ok, err := free(cand, claimed)
		if err != nil {
			return "", false, err
		}
		if ok {
			return cand, true, nil
		}
		cand = fmt.Sprintf("%s_%s-%d%s", stem, stamp, n, ext)
	}
	return "", false, fmt.Errorf("%w: no free destination name near %s", models.ErrFileAccess, target)
}

func free(path string, claimed map[string]bool) (bool, error) {
	if claimed[path] {
		return false, nil
	}
	_, err := os.Lstat(path)
	if os.IsNotExist(err) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: check %s: %v", models.ErrFileAccess, path, err)
	}
	return false, nil
}
