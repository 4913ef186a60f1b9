package index

import (
	"context"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	log "github.com/sirupsen/logrus"

	"sortd/internal/models"
	"sortd/internal/scan"
	"sortd/internal/taxonomy"
)

const (
	previewSentences = 2
	previewMaxRunes  = 240
)

// Indexer rebuilds the index from whatever is on disk under a destination
// root. Category comes from the path relative to the root, keywords from
// filename tokens plus taxonomy keywords found in a bounded content sample.
type Indexer struct {
	store   *Store
	tax     *taxonomy.Taxonomy
	sampler *scan.Sampler
	now     func() time.Time
}

func NewIndexer(store *Store, tax *taxonomy.Taxonomy, sampler *scan.Sampler) *Indexer {
	return &Indexer{store: store, tax: tax, sampler: sampler, now: time.Now}
}

// Rebuild replaces the whole index with the current state of destRoot and
// returns the number of files indexed.
func (ix *Indexer) Rebuild(ctx context.Context, destRoot string) (int, error) {
	root, err := filepath.Abs(destRoot)
	if err != nil {
		return 0, err
	}
	files, err := scan.Discover(ctx, root)
	if err != nil {
		return 0, err
	}

	indexedAt := ix.now()
	entries := make([]models.IndexEntry, 0, len(files))
	for i := range files {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		f := &files[i]
		sample, err := ix.sampler.Sample(f.Path, f.Extension)
		if err != nil {
			log.WithError(err).WithField("path", f.Path).Debug("sampling for index")
			sample = ""
		}
		entries = append(entries, models.IndexEntry{
			Name:      f.Name,
			Path:      f.Path,
			Category:  categoryOf(root, f.Path),
			Size:      f.Size,
			ModTime:   f.ModTime,
			IndexedAt: indexedAt,
			Keywords:  ix.keywords(f.Name, sample),
			Preview:   scan.Excerpt(sample, previewSentences, previewMaxRunes),
		})
	}

	if err := ix.store.ReplaceAll(ctx, entries); err != nil {
		return 0, err
	}
	return len(entries), nil
}

// categoryOf derives the category from the directory path under root. Files
// sitting directly in the root have no category.
func categoryOf(root, path string) string {
	rel, err := filepath.Rel(root, filepath.Dir(path))
	if err != nil || rel == "." {
		return ""
	}
	return filepath.ToSlash(rel)
}

func (ix *Indexer) keywords(name, sample string) string {
	seen := make(map[string]bool)
	var out []string
	add := func(tok string) {
		if len(tok) >= 2 && !seen[tok] {
			seen[tok] = true
			out = append(out, tok)
		}
	}
	for _, tok := range nameTokens(name) {
		add(tok)
	}
	if sample != "" {
		lower := strings.ToLower(sample)
		for _, c := range ix.tax.Categories() {
			for _, kw := range c.Keywords {
				if strings.Contains(lower, kw) {
					add(kw)
				}
			}
		}
	}
	return strings.Join(out, " ")
}

// nameTokens splits a filename into lowercase alphanumeric runs, extension
// included.
func nameTokens(name string) []string {
	return strings.FieldsFunc(strings.ToLower(name), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
