package organize

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sortd/internal/models"
	"sortd/internal/movelog"
)

func newStore(t *testing.T) *movelog.Store {
	t.Helper()
	store, err := movelog.NewStore(filepath.Join(t.TempDir(), "logs"))
	require.NoError(t, err)
	return store
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func testPlan(src, dest string, entries ...models.PlanEntry) *models.OrganizationPlan {
	return &models.OrganizationPlan{
		SourceRoot:      src,
		DestinationRoot: dest,
		Entries:         entries,
		CreatedAt:       time.Now(),
	}
}

func planEntry(path, category string) models.PlanEntry {
	return models.PlanEntry{
		SourcePath: path,
		FileName:   filepath.Base(path),
		Category:   category,
		Status:     models.StatusPending,
	}
}

func TestCommitMovesFiles(t *testing.T) {
	src, dest := t.TempDir(), t.TempDir()
	store := newStore(t)
	writeFile(t, filepath.Join(src, "invoice.pdf"), "invoice")
	writeFile(t, filepath.Join(src, "beach.jpg"), "jpg")

	p := testPlan(src, dest,
		planEntry(filepath.Join(src, "invoice.pdf"), "personal/finances"),
		planEntry(filepath.Join(src, "beach.jpg"), "creative/photos"),
	)
	res, err := NewCommitter(store, time.Second).Commit(context.Background(), p, CommitOptions{})
	require.NoError(t, err)

	assert.Equal(t, 2, res.Moved)
	assert.Zero(t, res.Collisions)
	assert.Empty(t, res.Errors)
	assert.NotEmpty(t, res.CommitID)
	assert.FileExists(t, filepath.Join(dest, "personal", "finances", "invoice.pdf"))
	assert.FileExists(t, filepath.Join(dest, "creative", "photos", "beach.jpg"))
	assert.NoFileExists(t, filepath.Join(src, "invoice.pdf"))
	assert.Equal(t, map[string]int{"personal/finances": 1, "creative/photos": 1}, res.ByCategory)

	records, err := store.Read(res.CommitID)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, filepath.Join(src, "invoice.pdf"), records[0].SourcePath)
	assert.Equal(t, filepath.Join(dest, "personal", "finances", "invoice.pdf"), records[0].DestinationPath)
	assert.False(t, records[0].SuffixApplied)
}

func TestCommitCollisionGetsSuffix(t *testing.T) {
	src, dest := t.TempDir(), t.TempDir()
	store := newStore(t)
	writeFile(t, filepath.Join(src, "photo.jpg"), "new")
	writeFile(t, filepath.Join(dest, "creative", "photos", "photo.jpg"), "old")

	p := testPlan(src, dest, planEntry(filepath.Join(src, "photo.jpg"), "creative/photos"))
	res, err := NewCommitter(store, time.Second).Commit(context.Background(), p, CommitOptions{})
	require.NoError(t, err)

	assert.Equal(t, 1, res.Moved)
	assert.Equal(t, 1, res.Collisions)
	require.Len(t, res.Records, 1)
	assert.True(t, res.Records[0].SuffixApplied)
	assert.Regexp(t, `photo_\d{8}-\d{6}(-\d+)?\.jpg$`, res.Records[0].DestinationPath)
	assert.FileExists(t, res.Records[0].DestinationPath)

	kept, err := os.ReadFile(filepath.Join(dest, "creative", "photos", "photo.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "old", string(kept))
}

func TestCommitSameNameFromDifferentDirs(t *testing.T) {
	src, dest := t.TempDir(), t.TempDir()
	store := newStore(t)
	writeFile(t, filepath.Join(src, "a", "notes.txt"), "one")
	writeFile(t, filepath.Join(src, "b", "notes.txt"), "two")

	p := testPlan(src, dest,
		planEntry(filepath.Join(src, "a", "notes.txt"), "personal"),
		planEntry(filepath.Join(src, "b", "notes.txt"), "personal"),
	)
	res, err := NewCommitter(store, time.Second).Commit(context.Background(), p, CommitOptions{})
	require.NoError(t, err)

	assert.Equal(t, 2, res.Moved)
	assert.Equal(t, 1, res.Collisions)
	require.Len(t, res.Records, 2)
	assert.NotEqual(t, res.Records[0].DestinationPath, res.Records[1].DestinationPath)
	assert.FileExists(t, res.Records[0].DestinationPath)
	assert.FileExists(t, res.Records[1].DestinationPath)
}

func TestCommitMissingSourceIsNotFatal(t *testing.T) {
	src, dest := t.TempDir(), t.TempDir()
	store := newStore(t)
	writeFile(t, filepath.Join(src, "real.txt"), "x")

	p := testPlan(src, dest,
		planEntry(filepath.Join(src, "ghost.txt"), "work/documents"),
		planEntry(filepath.Join(src, "real.txt"), "work/documents"),
	)
	res, err := NewCommitter(store, time.Second).Commit(context.Background(), p, CommitOptions{})
	require.NoError(t, err)

	assert.Equal(t, 1, res.Moved)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, filepath.Join(src, "ghost.txt"), res.Errors[0].Path)
	assert.FileExists(t, filepath.Join(dest, "work", "documents", "real.txt"))

	records, err := store.Read(res.CommitID)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestCommitKeepsFilesAlreadyInPlace(t *testing.T) {
	dest := t.TempDir()
	store := newStore(t)
	inPlace := filepath.Join(dest, "work", "documents", "report.txt")
	writeFile(t, inPlace, "x")

	p := testPlan(dest, dest, planEntry(inPlace, "work/documents"))
	res, err := NewCommitter(store, time.Second).Commit(context.Background(), p, CommitOptions{})
	require.NoError(t, err)

	assert.Zero(t, res.Moved)
	assert.Equal(t, 1, res.Unchanged)
	assert.Empty(t, res.CommitID)
	assert.FileExists(t, inPlace)

	logs, err := store.List()
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestCommitDryRunTouchesNothing(t *testing.T) {
	src, dest := t.TempDir(), t.TempDir()
	store := newStore(t)
	writeFile(t, filepath.Join(src, "a.txt"), "x")
	writeFile(t, filepath.Join(dest, "work", "documents", "a.txt"), "occupied")

	p := testPlan(src, dest, planEntry(filepath.Join(src, "a.txt"), "work/documents"))
	res, err := NewCommitter(store, time.Second).Commit(context.Background(), p, CommitOptions{DryRun: true})
	require.NoError(t, err)

	assert.True(t, res.DryRun)
	assert.Equal(t, 1, res.Moved)
	assert.Equal(t, 1, res.Collisions)
	assert.Empty(t, res.CommitID)
	require.Len(t, res.Records, 1)
	assert.Regexp(t, `a_\d{8}-\d{6}(-\d+)?\.txt$`, res.Records[0].DestinationPath)

	assert.FileExists(t, filepath.Join(src, "a.txt"))
	assert.NoFileExists(t, res.Records[0].DestinationPath)
	assert.NoFileExists(t, LockPath(dest))

	logs, err := store.List()
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestCommitRefusesWhenLocked(t *testing.T) {
	src, dest := t.TempDir(), t.TempDir()
	store := newStore(t)
	writeFile(t, filepath.Join(src, "a.txt"), "x")

	lock, err := Acquire(dest)
	require.NoError(t, err)
	defer func() { require.NoError(t, lock.Release()) }()

	p := testPlan(src, dest, planEntry(filepath.Join(src, "a.txt"), "work/documents"))
	_, err = NewCommitter(store, time.Second).Commit(context.Background(), p, CommitOptions{})
	assert.ErrorIs(t, err, models.ErrCommitInProgress)
	assert.FileExists(t, filepath.Join(src, "a.txt"))
}

func TestCommitReleasesLock(t *testing.T) {
	src, dest := t.TempDir(), t.TempDir()
	store := newStore(t)
	writeFile(t, filepath.Join(src, "a.txt"), "x")

	p := testPlan(src, dest, planEntry(filepath.Join(src, "a.txt"), "work/documents"))
	_, err := NewCommitter(store, time.Second).Commit(context.Background(), p, CommitOptions{})
	require.NoError(t, err)
	assert.NoFileExists(t, LockPath(dest))

	lock, err := Acquire(dest)
	require.NoError(t, err)
	require.NoError(t, lock.Release())
}

func TestCommitEmptyPlan(t *testing.T) {
	store := newStore(t)
	p := testPlan(t.TempDir(), t.TempDir())
	res, err := NewCommitter(store, time.Second).Commit(context.Background(), p, CommitOptions{})
	require.NoError(t, err)
	assert.Zero(t, res.Moved)
	assert.Empty(t, res.CommitID)
	assert.Empty(t, res.Errors)
}

func TestCommitInvalidPlan(t *testing.T) {
	store := newStore(t)
	p := testPlan(t.TempDir(), "", planEntry("/tmp/a.txt", "work"))
	_, err := NewCommitter(store, time.Second).Commit(context.Background(), p, CommitOptions{})
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestCommitCancelledContext(t *testing.T) {
	src, dest := t.TempDir(), t.TempDir()
	store := newStore(t)
	writeFile(t, filepath.Join(src, "a.txt"), "x")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := testPlan(src, dest, planEntry(filepath.Join(src, "a.txt"), "work/documents"))
	res, err := NewCommitter(store, time.Second).Commit(ctx, p, CommitOptions{})
	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, res.Moved)
	assert.Empty(t, res.CommitID)
	assert.FileExists(t, filepath.Join(src, "a.txt"))
	assert.NoFileExists(t, LockPath(dest))

	logs, err := store.List()
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestCommitReportsProgress(t *testing.T) {
	src, dest := t.TempDir(), t.TempDir()
	store := newStore(t)
	writeFile(t, filepath.Join(src, "a.txt"), "x")
	writeFile(t, filepath.Join(src, "b.txt"), "x")

	var events []models.Progress
	p := testPlan(src, dest,
		planEntry(filepath.Join(src, "a.txt"), "work/documents"),
		planEntry(filepath.Join(src, "b.txt"), "work/documents"),
	)
	_, err := NewCommitter(store, time.Second).Commit(context.Background(), p, CommitOptions{
		Progress: func(ev models.Progress) { events = append(events, ev) },
	})
	require.NoError(t, err)

	require.Len(t, events, 3)
	assert.Equal(t, models.Progress{Processed: 0, Total: 2, CurrentFile: "a.txt"}, events[0])
	assert.Equal(t, models.Progress{Processed: 1, Total: 2, CurrentFile: "b.txt"}, events[1])
	assert.Equal(t, models.Progress{Processed: 2, Total: 2}, events[2])
}
