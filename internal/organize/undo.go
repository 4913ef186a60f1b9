package organize

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"sortd/internal/models"
	"sortd/internal/movelog"
	"sortd/internal/scan"
)

// Undoer replays a move log in reverse, returning files to where they
// came from.
type Undoer struct {
	logs      *movelog.Store
	fsTimeout time.Duration
	now       func() time.Time
}

func NewUndoer(logs *movelog.Store, fsTimeout time.Duration) *Undoer {
	return &Undoer{logs: logs, fsTimeout: fsTimeout, now: time.Now}
}

type UndoOptions struct {
	Progress func(models.Progress)
}

// Undo reverses the commit named by selector ("latest" or a commit ID).
// Records replay newest first. A destination that no longer exists is
// skipped, not an error; a second undo of the same commit is a no-op.
func (u *Undoer) Undo(ctx context.Context, destRoot, selector string, opts UndoOptions) (*models.UndoResult, error) {
	commitID, err := u.logs.Resolve(selector)
	if err != nil {
		return nil, err
	}
	result := &models.UndoResult{CommitID: commitID}
	if u.logs.IsUndone(commitID) {
		result.AlreadyDone = true
		return result, nil
	}

	// Read the whole log up front: a corrupt log must fail before any
	// file moves, never halfway through a replay.
	records, err := u.logs.Read(commitID)
	if err != nil {
		return nil, err
	}

	lock, err := Acquire(destRoot)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := lock.Release(); err != nil {
			log.WithError(err).Warn("releasing destination lock")
		}
	}()

	total := len(records)
	progress := func(done int, current string) {
		if opts.Progress != nil {
			opts.Progress(models.Progress{Processed: done, Total: total, CurrentFile: current})
		}
	}

	touched := make(map[string]bool)
	for i := total - 1; i >= 0; i-- {
		rec := records[i]
		if err := ctx.Err(); err != nil {
			return result, err
		}
		progress(total-1-i, filepath.Base(rec.DestinationPath))

		if _, err := os.Lstat(rec.DestinationPath); err != nil {
			if os.IsNotExist(err) {
				result.Skipped = append(result.Skipped, rec.DestinationPath)
				continue
			}
			u.fail(result, rec.DestinationPath, fmt.Sprintf("destination not accessible: %v", err))
			continue
		}
		touched[filepath.Dir(rec.DestinationPath)] = true

		restoreTo := rec.SourcePath
		if err := os.MkdirAll(filepath.Dir(restoreTo), 0o755); err != nil {
			u.fail(result, rec.DestinationPath, fmt.Sprintf("recreate %s: %v", filepath.Dir(restoreTo), err))
			continue
		}
		resolved, _, err := resolveCollision(restoreTo, nil, u.now())
		if err != nil {
			u.fail(result, rec.DestinationPath, err.Error())
			continue
		}
		if err := moveWithTimeout(u.fsTimeout, rec.DestinationPath, resolved); err != nil {
			u.fail(result, rec.DestinationPath, err.Error())
			continue
		}
		result.Restored++
	}
	progress(total, "")

	result.PrunedDirs = u.pruneEmptyDirs(destRoot, touched)

	if len(result.Errors) == 0 {
		if err := u.logs.MarkUndone(commitID); err != nil {
			log.WithError(err).Warnf("marking %s undone", commitID)
		}
	}
	return result, nil
}

func (u *Undoer) fail(result *models.UndoResult, path, reason string) {
	result.Errors = append(result.Errors, models.EntryError{Path: path, Reason: reason})
}

// pruneEmptyDirs removes category directories the undo emptied out, deepest
// first so parents empty as their children go. The destination root itself
// and the state directory are never touched.
func (u *Undoer) pruneEmptyDirs(destRoot string, touched map[string]bool) int {
	stateDir := filepath.Join(destRoot, scan.StateDirName)
	candidates := make([]string, 0, len(touched))
	for dir := range touched {
		for cur := dir; strings.HasPrefix(cur, destRoot) && cur != destRoot; cur = filepath.Dir(cur) {
			if cur == stateDir || strings.HasPrefix(cur, stateDir+string(filepath.Separator)) {
				break
			}
			candidates = append(candidates, cur)
		}
	}
	sort.Slice(candidates, func(i, j int) bool { return len(candidates[i]) > len(candidates[j]) })

	pruned := 0
	seen := make(map[string]bool, len(candidates))
	for _, dir := range candidates {
		if seen[dir] {
			continue
		}
		seen[dir] = true
		// Remove fails on non-empty directories, which is exactly the
		// check we want.
		if err := os.Remove(dir); err == nil {
			pruned++
		}
	}
	return pruned
}
