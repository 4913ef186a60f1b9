package organize

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	log "github.com/sirupsen/logrus"

	"sortd/internal/models"
	"sortd/internal/movelog"
	"sortd/internal/plan"
)

// Committer executes plans. Moves run one at a time so the move log's order
// is the order moves actually completed in, which undo depends on.
type Committer struct {
	logs      *movelog.Store
	fsTimeout time.Duration
	now       func() time.Time
}

func NewCommitter(logs *movelog.Store, fsTimeout time.Duration) *Committer {
	return &Committer{logs: logs, fsTimeout: fsTimeout, now: time.Now}
}

// CommitOptions tune one Commit call. Progress is advisory and may be nil.
type CommitOptions struct {
	DryRun   bool
	Progress func(models.Progress)
}

// Commit moves every plan entry to its destination. Per-file failures are
// collected, never fatal; the batch stops early only on cancellation or
// when the move log itself cannot be appended. A dry run resolves every
// destination, collisions included, without touching the filesystem.
func (c *Committer) Commit(ctx context.Context, p *models.OrganizationPlan, opts CommitOptions) (*models.CommitResult, error) {
	if err := plan.Validate(p); err != nil {
		return nil, err
	}
	result := &models.CommitResult{DryRun: opts.DryRun, ByCategory: map[string]int{}}
	if len(p.Entries) == 0 {
		return result, nil
	}

	var writer *movelog.Writer
	if !opts.DryRun {
		lock, err := Acquire(p.DestinationRoot)
		if err != nil {
			return nil, err
		}
		defer func() {
			if err := lock.Release(); err != nil {
				log.WithError(err).Warn("releasing destination lock")
			}
		}()

		result.CommitID = movelog.NewCommitID(c.now())
		writer, err = c.logs.Create(result.CommitID)
		if err != nil {
			return nil, err
		}
		// A commit that moved nothing leaves no log behind, however it exits.
		defer func() {
			if result.Moved > 0 {
				return
			}
			if err := c.logs.Discard(result.CommitID); err != nil {
				log.WithError(err).Warnf("discarding empty move log %s", result.CommitID)
			}
			result.CommitID = ""
		}()
		defer writer.Close()
	}

	claimed := make(map[string]bool, len(p.Entries))
	total := len(p.Entries)
	progress := func(done int, current string) {
		if opts.Progress != nil {
			opts.Progress(models.Progress{Processed: done, Total: total, CurrentFile: current})
		}
	}

	for i := range p.Entries {
		entry := &p.Entries[i]
		if err := ctx.Err(); err != nil {
			return result, err
		}
		progress(i, entry.FileName)

		targetDir := filepath.Join(p.DestinationRoot, filepath.FromSlash(entry.Category))
		target := filepath.Join(targetDir, entry.FileName)
		if target == entry.SourcePath {
			result.Unchanged++
			continue
		}
		if _, err := os.Lstat(entry.SourcePath); err != nil {
			c.fail(result, entry.SourcePath, fmt.Sprintf("source not accessible: %v", err))
			continue
		}
		if !opts.DryRun {
			if err := os.MkdirAll(targetDir, 0o755); err != nil {
				c.fail(result, entry.SourcePath, fmt.Sprintf("create %s: %v", targetDir, err))
				continue
			}
		}

		resolved, suffixed, err := resolveCollision(target, claimed, c.now())
		if err != nil {
			c.fail(result, entry.SourcePath, err.Error())
			continue
		}
		claimed[resolved] = true

		rec := models.MoveRecord{
			Seq:             len(result.Records),
			SourcePath:      entry.SourcePath,
			DestinationPath: resolved,
			Category:        entry.Category,
			SuffixApplied:   suffixed,
			MovedAt:         c.now(),
		}

		if !opts.DryRun {
			if err := moveWithTimeout(c.fsTimeout, entry.SourcePath, resolved); err != nil {
				c.fail(result, entry.SourcePath, err.Error())
				continue
			}
			if err := writer.Append(rec); err != nil {
				// The move happened but could not be recorded. Stop here:
				// carrying on would stack up moves undo can never see.
				c.fail(result, entry.SourcePath, fmt.Sprintf("moved but not logged: %v", err))
				return result, fmt.Errorf("append to move log %s: %w", result.CommitID, err)
			}
		}

		result.Moved++
		if suffixed {
			result.Collisions++
		}
		result.ByCategory[entry.Category]++
		result.Records = append(result.Records, rec)
	}
	progress(total, "")
	return result, nil
}

func (c *Committer) fail(result *models.CommitResult, path, reason string) {
	result.Errors = append(result.Errors, models.EntryError{Path: path, Reason: reason})
}
