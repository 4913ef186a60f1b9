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

func commitFixture(t *testing.T, store *movelog.Store, src, dest string, entries ...models.PlanEntry) *models.CommitResult {
	t.Helper()
	res, err := NewCommitter(store, time.Second).Commit(context.Background(), testPlan(src, dest, entries...), CommitOptions{})
	require.NoError(t, err)
	require.Empty(t, res.Errors)
	return res
}

func TestUndoRestoresFiles(t *testing.T) {
	src, dest := t.TempDir(), t.TempDir()
	store := newStore(t)
	writeFile(t, filepath.Join(src, "one.txt"), "1")
	writeFile(t, filepath.Join(src, "sub", "two.txt"), "2")

	commit := commitFixture(t, store, src, dest,
		planEntry(filepath.Join(src, "one.txt"), "work/documents"),
		planEntry(filepath.Join(src, "sub", "two.txt"), "work/reports"),
	)
	require.Equal(t, 2, commit.Moved)

	res, err := NewUndoer(store, time.Second).Undo(context.Background(), dest, commit.CommitID, UndoOptions{})
	require.NoError(t, err)

	assert.Equal(t, 2, res.Restored)
	assert.Empty(t, res.Skipped)
	assert.Empty(t, res.Errors)
	assert.False(t, res.AlreadyDone)
	assert.FileExists(t, filepath.Join(src, "one.txt"))
	assert.FileExists(t, filepath.Join(src, "sub", "two.txt"))
	assert.NoFileExists(t, filepath.Join(dest, "work", "documents", "one.txt"))

	assert.NoDirExists(t, filepath.Join(dest, "work"))
	assert.Equal(t, 3, res.PrunedDirs)
	assert.DirExists(t, dest)

	assert.True(t, store.IsUndone(commit.CommitID))
	logs, err := store.List()
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.True(t, logs[0].Undone)
}

func TestUndoTwiceIsNoOp(t *testing.T) {
	src, dest := t.TempDir(), t.TempDir()
	store := newStore(t)
	writeFile(t, filepath.Join(src, "a.txt"), "x")
	commit := commitFixture(t, store, src, dest, planEntry(filepath.Join(src, "a.txt"), "work/documents"))

	undoer := NewUndoer(store, time.Second)
	first, err := undoer.Undo(context.Background(), dest, commit.CommitID, UndoOptions{})
	require.NoError(t, err)
	require.Equal(t, 1, first.Restored)

	second, err := undoer.Undo(context.Background(), dest, commit.CommitID, UndoOptions{})
	require.NoError(t, err)
	assert.True(t, second.AlreadyDone)
	assert.Zero(t, second.Restored)
	assert.FileExists(t, filepath.Join(src, "a.txt"))
}

func TestUndoSkipsMissingDestinations(t *testing.T) {
	src, dest := t.TempDir(), t.TempDir()
	store := newStore(t)
	writeFile(t, filepath.Join(src, "keep.txt"), "k")
	writeFile(t, filepath.Join(src, "gone.txt"), "g")

	commit := commitFixture(t, store, src, dest,
		planEntry(filepath.Join(src, "keep.txt"), "work/documents"),
		planEntry(filepath.Join(src, "gone.txt"), "work/documents"),
	)
	require.NoError(t, os.Remove(filepath.Join(dest, "work", "documents", "gone.txt")))

	res, err := NewUndoer(store, time.Second).Undo(context.Background(), dest, commit.CommitID, UndoOptions{})
	require.NoError(t, err)

	assert.Equal(t, 1, res.Restored)
	assert.Equal(t, []string{filepath.Join(dest, "work", "documents", "gone.txt")}, res.Skipped)
	assert.Empty(t, res.Errors)
	assert.FileExists(t, filepath.Join(src, "keep.txt"))
	assert.True(t, store.IsUndone(commit.CommitID))
}

func TestUndoLatestSelectsNewestCommit(t *testing.T) {
	src, dest := t.TempDir(), t.TempDir()
	store := newStore(t)
	writeFile(t, filepath.Join(src, "a.txt"), "a")
	writeFile(t, filepath.Join(src, "b.txt"), "b")

	base := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	first := NewCommitter(store, time.Second)
	first.now = func() time.Time { return base }
	resA, err := first.Commit(context.Background(),
		testPlan(src, dest, planEntry(filepath.Join(src, "a.txt"), "work/documents")), CommitOptions{})
	require.NoError(t, err)

	second := NewCommitter(store, time.Second)
	second.now = func() time.Time { return base.Add(time.Minute) }
	resB, err := second.Commit(context.Background(),
		testPlan(src, dest, planEntry(filepath.Join(src, "b.txt"), "work/reports")), CommitOptions{})
	require.NoError(t, err)

	undoer := NewUndoer(store, time.Second)
	undone, err := undoer.Undo(context.Background(), dest, movelog.LatestSelector, UndoOptions{})
	require.NoError(t, err)
	assert.Equal(t, resB.CommitID, undone.CommitID)
	assert.FileExists(t, filepath.Join(src, "b.txt"))
	assert.NoFileExists(t, filepath.Join(src, "a.txt"))

	undone2, err := undoer.Undo(context.Background(), dest, movelog.LatestSelector, UndoOptions{})
	require.NoError(t, err)
	assert.Equal(t, resA.CommitID, undone2.CommitID)
	assert.FileExists(t, filepath.Join(src, "a.txt"))
}

func TestUndoRestoresIntoOccupiedSource(t *testing.T) {
	src, dest := t.TempDir(), t.TempDir()
	store := newStore(t)
	orig := filepath.Join(src, "draft.txt")
	writeFile(t, orig, "original")

	commit := commitFixture(t, store, src, dest, planEntry(orig, "work/documents"))

	// something else took the original spot while the commit was live
	writeFile(t, orig, "newcomer")

	res, err := NewUndoer(store, time.Second).Undo(context.Background(), dest, commit.CommitID, UndoOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Restored)
	assert.Empty(t, res.Errors)

	occupant, err := os.ReadFile(orig)
	require.NoError(t, err)
	assert.Equal(t, "newcomer", string(occupant))

	matches, err := filepath.Glob(filepath.Join(src, "draft_*.txt"))
	require.NoError(t, err)
	require.Len(t, matches, 1)
	restored, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	assert.Equal(t, "original", string(restored))
}

func TestUndoUnknownCommit(t *testing.T) {
	store := newStore(t)
	_, err := NewUndoer(store, time.Second).Undo(context.Background(), t.TempDir(), "20990101T000000Z-deadbeef", UndoOptions{})
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestUndoMalformedSelector(t *testing.T) {
	store := newStore(t)
	_, err := NewUndoer(store, time.Second).Undo(context.Background(), t.TempDir(), "../../etc/passwd", UndoOptions{})
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestUndoCorruptLogFailsBeforeMoving(t *testing.T) {
	src, dest := t.TempDir(), t.TempDir()
	store := newStore(t)
	writeFile(t, filepath.Join(src, "a.txt"), "x")
	commit := commitFixture(t, store, src, dest, planEntry(filepath.Join(src, "a.txt"), "work/documents"))

	logPath := filepath.Join(store.Dir(), commit.CommitID+".jsonl")
	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString("{not json\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	_, err = NewUndoer(store, time.Second).Undo(context.Background(), dest, commit.CommitID, UndoOptions{})
	assert.ErrorIs(t, err, models.ErrLogCorrupt)

	// nothing was replayed
	assert.FileExists(t, filepath.Join(dest, "work", "documents", "a.txt"))
	assert.NoFileExists(t, filepath.Join(src, "a.txt"))
	assert.NoFileExists(t, LockPath(dest))
}

func TestUndoRefusesWhenLocked(t *testing.T) {
	src, dest := t.TempDir(), t.TempDir()
	store := newStore(t)
	writeFile(t, filepath.Join(src, "a.txt"), "x")
	commit := commitFixture(t, store, src, dest, planEntry(filepath.Join(src, "a.txt"), "work/documents"))

	lock, err := Acquire(dest)
	require.NoError(t, err)
	defer func() { require.NoError(t, lock.Release()) }()

	_, err = NewUndoer(store, time.Second).Undo(context.Background(), dest, commit.CommitID, UndoOptions{})
	assert.ErrorIs(t, err, models.ErrCommitInProgress)
	assert.FileExists(t, filepath.Join(dest, "work", "documents", "a.txt"))
}

func TestUndoReportsProgress(t *testing.T) {
	src, dest := t.TempDir(), t.TempDir()
	store := newStore(t)
	writeFile(t, filepath.Join(src, "a.txt"), "x")
	writeFile(t, filepath.Join(src, "b.txt"), "x")
	commit := commitFixture(t, store, src, dest,
		planEntry(filepath.Join(src, "a.txt"), "work/documents"),
		planEntry(filepath.Join(src, "b.txt"), "work/reports"),
	)

	var events []models.Progress
	_, err := NewUndoer(store, time.Second).Undo(context.Background(), dest, commit.CommitID, UndoOptions{
		Progress: func(ev models.Progress) { events = append(events, ev) },
	})
	require.NoError(t, err)

	require.Len(t, events, 3)
	// replay runs newest record first
	assert.Equal(t, models.Progress{Processed: 0, Total: 2, CurrentFile: "b.txt"}, events[0])
	assert.Equal(t, models.Progress{Processed: 1, Total: 2, CurrentFile: "a.txt"}, events[1])
	assert.Equal(t, models.Progress{Processed: 2, Total: 2}, events[2])
}

func TestUndoLeavesStateDirAlone(t *testing.T) {
	src, dest := t.TempDir(), t.TempDir()
	store := newStore(t)
	writeFile(t, filepath.Join(src, "a.txt"), "x")
	commit := commitFixture(t, store, src, dest, planEntry(filepath.Join(src, "a.txt"), "work/documents"))

	stateFile := filepath.Join(dest, ".sortd", "index.db")
	writeFile(t, stateFile, "db")

	_, err := NewUndoer(store, time.Second).Undo(context.Background(), dest, commit.CommitID, UndoOptions{})
	require.NoError(t, err)
	assert.FileExists(t, stateFile)
}
