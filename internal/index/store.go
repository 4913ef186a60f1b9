// Package index keeps a rebuildable sqlite index over the organized tree
// and answers search queries against it. The index is derived state: it can
// be rebuilt from the destination root at any time and never consults move
// logs.
package index

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"sortd/internal/models"
)

//go:embed schema.sql
var schema string

const selectCols = "SELECT id, name, path, category, size, modified_at, indexed_at, keywords, preview FROM files"

// Store wraps the sqlite database holding the index.
type Store struct {
	db *sql.DB
}

func NewStore(dbPath string) (*Store, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("%w: index database path is required", models.ErrValidation)
	}
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create index directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open index database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init index schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Ping verifies the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// ReplaceAll swaps the whole index for the given entries in one transaction,
// so a reader never observes a half-built index.
func (s *Store) ReplaceAll(ctx context.Context, entries []models.IndexEntry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin index rebuild: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM files"); err != nil {
		return fmt.Errorf("clear index: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO files (name, path, category, size, modified_at, indexed_at, keywords, preview)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare index insert: %w", err)
	}
	defer stmt.Close()

	for i := range entries {
		e := &entries[i]
		_, err := stmt.ExecContext(ctx, e.Name, e.Path, e.Category, e.Size,
			e.ModTime.Unix(), e.IndexedAt.Unix(), e.Keywords, e.Preview)
		if err != nil {
			return fmt.Errorf("index %s: %w", e.Path, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit index rebuild: %w", err)
	}
	return nil
}

// All returns every entry, newest modification first.
func (s *Store) All(ctx context.Context) ([]models.IndexEntry, error) {
	return s.scan(ctx, selectCols+" ORDER BY modified_at DESC, path")
}

// ModifiedSince returns entries modified at or after the given time,
// newest first.
func (s *Store) ModifiedSince(ctx context.Context, from time.Time) ([]models.IndexEntry, error) {
	return s.scan(ctx, selectCols+" WHERE modified_at >= ? ORDER BY modified_at DESC, path", from.Unix())
}

// ModifiedBetween returns entries with from <= modified < to, newest first.
func (s *Store) ModifiedBetween(ctx context.Context, from, to time.Time) ([]models.IndexEntry, error) {
	return s.scan(ctx, selectCols+" WHERE modified_at >= ? AND modified_at < ? ORDER BY modified_at DESC, path",
		from.Unix(), to.Unix())
}

func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM files").Scan(&n); err != nil {
		return 0, fmt.Errorf("count index: %w", err)
	}
	return n, nil
}

// CategoryCounts reports how many indexed files each category holds.
func (s *Store) CategoryCounts(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT category, COUNT(*) FROM files GROUP BY category")
	if err != nil {
		return nil, fmt.Errorf("count categories: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var category string
		var n int
		if err := rows.Scan(&category, &n); err != nil {
			return nil, fmt.Errorf("scan category count: %w", err)
		}
		counts[category] = n
	}
	return counts, rows.Err()
}

func (s *Store) scan(ctx context.Context, q string, args ...any) ([]models.IndexEntry, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query index: %w", err)
	}
	defer rows.Close()

	var entries []models.IndexEntry
	for rows.Next() {
		var e models.IndexEntry
		var modified, indexed int64
		if err := rows.Scan(&e.ID, &e.Name, &e.Path, &e.Category, &e.Size,
			&modified, &indexed, &e.Keywords, &e.Preview); err != nil {
			return nil, fmt.Errorf("scan index entry: %w", err)
		}
		e.ModTime = time.Unix(modified, 0)
		e.IndexedAt = time.Unix(indexed, 0)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
