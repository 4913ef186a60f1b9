package taxonomy

import (
	"fmt"
	"path"
	"sort"
	"strings"

	"sortd/internal/models"
)

const defaultPriority = 100

// Category is one destination in the tree. Path is slash-separated and
// relative to the destination root. Lower Priority wins score ties; zero
// means "use the default".
type Category struct {
	Path       string   `yaml:"path" json:"path"`
	Keywords   []string `yaml:"keywords,omitempty" json:"keywords,omitempty"`
	Extensions []string `yaml:"extensions,omitempty" json:"extensions,omitempty"`
	Synonyms   []string `yaml:"synonyms,omitempty" json:"synonyms,omitempty"`
	Priority   int      `yaml:"priority,omitempty" json:"priority,omitempty"`
}

// Depth returns the number of path segments.
func (c Category) Depth() int {
	return len(strings.Split(c.Path, "/"))
}

// MatchesToken reports whether token names this category: equal to one of
// its path segments or one of its synonyms.
func (c Category) MatchesToken(token string) bool {
	for _, seg := range strings.Split(c.Path, "/") {
		if seg == token {
			return true
		}
	}
	for _, syn := range c.Synonyms {
		if syn == token {
			return true
		}
	}
	return false
}

// Taxonomy is a read-only set of categories plus a designated fallback for
// files nothing matches. Categories are kept in lexicographic path order so
// iteration is deterministic.
type Taxonomy struct {
	categories []Category
	byPath     map[string]int
	fallback   string
}

// New validates and normalizes the category set. Paths must be unique,
// relative, and free of parent escapes. Keywords, extensions, and synonyms
// are lowercased; extensions gain a leading dot when missing.
func New(categories []Category, fallback string) (*Taxonomy, error) {
	if len(categories) == 0 {
		return nil, fmt.Errorf("%w: taxonomy needs at least one category", models.ErrValidation)
	}
	fb, err := NormalizePath(fallback)
	if err != nil {
		return nil, fmt.Errorf("fallback %q: %w", fallback, err)
	}

	t := &Taxonomy{byPath: make(map[string]int, len(categories)), fallback: fb}
	for _, c := range categories {
		p, err := NormalizePath(c.Path)
		if err != nil {
			return nil, fmt.Errorf("category %q: %w", c.Path, err)
		}
		if _, dup := t.byPath[p]; dup {
			return nil, fmt.Errorf("%w: duplicate category path %q", models.ErrValidation, p)
		}
		c.Path = p
		c.Keywords = lowerAll(c.Keywords)
		c.Synonyms = lowerAll(c.Synonyms)
		c.Extensions = normalizeExtensions(c.Extensions)
		if c.Priority == 0 {
			c.Priority = defaultPriority
		}
		if c.Priority < 0 {
			return nil, fmt.Errorf("%w: category %q has negative priority", models.ErrValidation, p)
		}
		t.byPath[p] = len(t.categories)
		t.categories = append(t.categories, c)
	}

	sort.Slice(t.categories, func(i, j int) bool {
		return t.categories[i].Path < t.categories[j].Path
	})
	for i, c := range t.categories {
		t.byPath[c.Path] = i
	}
	return t, nil
}

// Categories returns the categories in lexicographic path order. Callers
// must not mutate the returned slice.
func (t *Taxonomy) Categories() []Category {
	return t.categories
}

// Resolve looks up a category by its normalized path. Unknown paths are not
// an error; they are treated as free-form categories by callers.
func (t *Taxonomy) Resolve(p string) (Category, bool) {
	np, err := NormalizePath(p)
	if err != nil {
		return Category{}, false
	}
	i, ok := t.byPath[np]
	if !ok {
		return Category{}, false
	}
	return t.categories[i], true
}

// Fallback returns the designated category for unclassifiable files.
func (t *Taxonomy) Fallback() string {
	return t.fallback
}

// Paths returns every category path plus the fallback, sorted.
func (t *Taxonomy) Paths() []string {
	out := make([]string, 0, len(t.categories)+1)
	for _, c := range t.categories {
		out = append(out, c.Path)
	}
	if _, ok := t.byPath[t.fallback]; !ok {
		out = append(out, t.fallback)
	}
	sort.Strings(out)
	return out
}

// CategoriesForToken returns the paths of categories the token names,
// matching path segments and synonyms.
func (t *Taxonomy) CategoriesForToken(token string) []string {
	token = strings.ToLower(token)
	var out []string
	for _, c := range t.categories {
		if c.MatchesToken(token) {
			out = append(out, c.Path)
		}
	}
	return out
}

// NormalizePath cleans a slash-separated category path and rejects empty,
// absolute, and parent-escaping values.
func NormalizePath(p string) (string, error) {
	p = strings.TrimSpace(strings.ReplaceAll(p, "\\", "/"))
	if p == "" {
		return "", fmt.Errorf("%w: empty category path", models.ErrValidation)
	}
	if strings.HasPrefix(p, "/") {
		return "", fmt.Errorf("%w: category path must be relative", models.ErrValidation)
	}
	clean := path.Clean(p)
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", fmt.Errorf("%w: category path escapes the destination root", models.ErrValidation)
	}
	return strings.Trim(clean, "/"), nil
}

// lowerAll lowercases, trims, and de-duplicates, preserving first-seen
// order. Scoring counts distinct keywords, so duplicates must not survive.
func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, s := range in {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

func normalizeExtensions(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, e := range in {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		if seen[e] {
			continue
		}
		seen[e] = true
		out = append(out, e)
	}
	return out
}
