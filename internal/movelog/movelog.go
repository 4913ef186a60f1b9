// Package movelog stores one durable, append-only log per commit run. The
// log is the sole record that makes a commit reversible, so every append is
// flushed to disk before the committer may touch the next file.
package movelog

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"sortd/internal/models"
)

// LatestSelector names the newest not-yet-undone log.
const LatestSelector = "latest"

const (
	logExt       = ".jsonl"
	undoneExt    = ".undone"
	idTimeLayout = "20060102T150405Z"
)

var commitIDPattern = regexp.MustCompile(`^[0-9]{8}T[0-9]{6}Z-[0-9a-f]{8}$`)

// NewCommitID derives a sortable commit identifier from the wall clock plus
// a short random tail, so identifier order is chronological order.
func NewCommitID(now time.Time) string {
	return now.UTC().Format(idTimeLayout) + "-" + uuid.NewString()[:8]
}

// Store manages the move logs under one directory.
type Store struct {
	dir string
}

func NewStore(dir string) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("%w: move log directory is required", models.ErrValidation)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create move log directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) Dir() string { return s.dir }

func (s *Store) logPath(id string) (string, error) {
	if !commitIDPattern.MatchString(id) {
		return "", fmt.Errorf("%w: malformed commit id %q", models.ErrValidation, id)
	}
	return filepath.Join(s.dir, id+logExt), nil
}

// Create opens a fresh log for the given commit id.
func (s *Store) Create(id string) (*Writer, error) {
	path, err := s.logPath(id)
	if err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("create move log %s: %w", id, err)
	}
	return &Writer{f: f}, nil
}

// Writer appends records to one commit's log. Appends are serialized and
// synced so the log never trails the filesystem by more than zero moves.
type Writer struct {
	mu    sync.Mutex
	f     *os.File
	count int
}

func (w *Writer) Append(rec models.MoveRecord) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode move record: %w", err)
	}
	if _, err := w.f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("append move record: %w", err)
	}
	if err := w.f.Sync(); err != nil {
		return fmt.Errorf("sync move log: %w", err)
	}
	w.count++
	return nil
}

func (w *Writer) Count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.count
}

func (w *Writer) Close() error {
	return w.f.Close()
}

// Discard removes a log, used when a commit ends with nothing moved.
func (s *Store) Discard(id string) error {
	path, err := s.logPath(id)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("discard move log %s: %w", id, err)
	}
	return nil
}

// Read loads a full log in append order. Any unparsable line fails the read
// with a corruption error; a log that cannot be trusted in full must not be
// replayed at all.
func (s *Store) Read(id string) ([]models.MoveRecord, error) {
	path, err := s.logPath(id)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: move log %s", models.ErrNotFound, id)
		}
		return nil, fmt.Errorf("open move log %s: %w", id, err)
	}
	defer f.Close()

	var records []models.MoveRecord
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		var rec models.MoveRecord
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			return nil, fmt.Errorf("%w: %s line %d: %v", models.ErrLogCorrupt, id, line, err)
		}
		if rec.SourcePath == "" || rec.DestinationPath == "" {
			return nil, fmt.Errorf("%w: %s line %d: record missing paths", models.ErrLogCorrupt, id, line)
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", models.ErrLogCorrupt, id, err)
	}
	return records, nil
}

// List enumerates stored logs newest first. A corrupt log still lists; the
// corruption surfaces only when an undo tries to read it.
func (s *Store) List() ([]models.LogInfo, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("list move logs: %w", err)
	}
	var infos []models.LogInfo
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, logExt) {
			continue
		}
		id := strings.TrimSuffix(name, logExt)
		if !commitIDPattern.MatchString(id) {
			continue
		}
		path := filepath.Join(s.dir, name)
		count, err := countLines(path)
		if err != nil {
			count = -1
		}
		infos = append(infos, models.LogInfo{
			CommitID:  id,
			Path:      path,
			Entries:   count,
			CreatedAt: commitIDTime(id, path),
			Undone:    s.IsUndone(id),
		})
	}
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].CommitID > infos[j].CommitID
	})
	return infos, nil
}

// Latest returns the newest log that has not been undone.
func (s *Store) Latest() (string, error) {
	infos, err := s.List()
	if err != nil {
		return "", err
	}
	for _, info := range infos {
		if !info.Undone {
			return info.CommitID, nil
		}
	}
	return "", fmt.Errorf("%w: no move log to undo", models.ErrNotFound)
}

// Resolve maps a selector ("latest", "", or a concrete id) to a stored id.
func (s *Store) Resolve(selector string) (string, error) {
	if selector == "" || selector == LatestSelector {
		return s.Latest()
	}
	path, err := s.logPath(selector)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("%w: move log %s", models.ErrNotFound, selector)
	}
	return selector, nil
}

// MarkUndone records that a log has been fully reversed. Undone logs are
// skipped by the latest selector and replay as no-ops.
func (s *Store) MarkUndone(id string) error {
	path, err := s.logPath(id)
	if err != nil {
		return err
	}
	marker := strings.TrimSuffix(path, logExt) + undoneExt
	stamp := time.Now().UTC().Format(time.RFC3339) + "\n"
	if err := os.WriteFile(marker, []byte(stamp), 0o644); err != nil {
		return fmt.Errorf("mark log undone: %w", err)
	}
	return nil
}

func (s *Store) IsUndone(id string) bool {
	path, err := s.logPath(id)
	if err != nil {
		return false
	}
	_, statErr := os.Stat(strings.TrimSuffix(path, logExt) + undoneExt)
	return statErr == nil
}

func countLines(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	n := 0
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		n++
	}
	return n, scanner.Err()
}

func commitIDTime(id, path string) time.Time {
	if ts, err := time.Parse(idTimeLayout, strings.SplitN(id, "-", 2)[0]); err == nil {
		return ts
	}
	if info, err := os.Stat(path); err == nil {
		return info.ModTime()
	}
	return time.Time{}
}
