package index

import (
	"context"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"sortd/internal/models"
	"sortd/internal/taxonomy"
)

var yearPattern = regexp.MustCompile(`^(19|20)[0-9]{2}$`)

var stopwords = map[string]bool{
	"a": true, "all": true, "an": true, "and": true, "at": true,
	"file": true, "files": true, "find": true, "for": true, "from": true,
	"in": true, "last": true, "me": true, "my": true, "of": true,
	"on": true, "or": true, "show": true, "the": true, "to": true,
	"with": true,
}

// timeWindow is a half-open interval [from, to). A zero to means open-ended.
type timeWindow struct {
	label string
	from  time.Time
	to    time.Time
}

func (w timeWindow) contains(t time.Time) bool {
	if t.Before(w.from) {
		return false
	}
	return w.to.IsZero() || t.Before(w.to)
}

type parsedQuery struct {
	windows    []timeWindow
	categories []string
	keywords   []string
}

// Engine answers free-text queries against the store. A query is decomposed
// into time, category, and keyword filters; an entry must satisfy every
// filter kind present, and any one token within a kind suffices. Results
// rank by number of distinct matched signals, then by modification time.
type Engine struct {
	store *Store
	tax   *taxonomy.Taxonomy
	now   func() time.Time
}

func NewEngine(store *Store, tax *taxonomy.Taxonomy) *Engine {
	return &Engine{store: store, tax: tax, now: time.Now}
}

func (e *Engine) Query(ctx context.Context, text string) ([]models.QueryResult, error) {
	q := e.parse(text)
	entries, err := e.candidates(ctx, q)
	if err != nil {
		return nil, err
	}

	results := make([]models.QueryResult, 0, len(entries))
	for i := range entries {
		matched, ok := q.match(&entries[i], e.tax)
		if !ok {
			continue
		}
		results = append(results, models.QueryResult{Entry: entries[i], Matched: matched})
	}
	sort.SliceStable(results, func(i, j int) bool {
		if len(results[i].Matched) != len(results[j].Matched) {
			return len(results[i].Matched) > len(results[j].Matched)
		}
		return results[i].Entry.ModTime.After(results[j].Entry.ModTime)
	})
	return results, nil
}

// parse splits the query into filter intents. Tokens resolve in order: time
// terms, taxonomy vocabulary (path segments and synonyms), stopwords, and
// whatever remains is a keyword.
func (e *Engine) parse(text string) parsedQuery {
	toks := nameTokens(text)
	now := e.now()

	var q parsedQuery
	seenWindow := make(map[string]bool)
	seenCategory := make(map[string]bool)
	seenKeyword := make(map[string]bool)
	addWindow := func(w timeWindow) {
		if !seenWindow[w.label] {
			seenWindow[w.label] = true
			q.windows = append(q.windows, w)
		}
	}

	for i := 0; i < len(toks); i++ {
		tok := toks[i]
		switch {
		case tok == "recent" || tok == "recently":
			addWindow(timeWindow{label: "recent", from: now.AddDate(0, 0, -14)})
		case tok == "last" && i+1 < len(toks) && toks[i+1] == "week":
			addWindow(timeWindow{label: "last week", from: now.AddDate(0, 0, -7)})
			i++
		case tok == "last" && i+1 < len(toks) && toks[i+1] == "month":
			first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
			addWindow(timeWindow{label: "last month", from: first.AddDate(0, -1, 0), to: first})
			i++
		case yearPattern.MatchString(tok):
			year, _ := strconv.Atoi(tok)
			addWindow(timeWindow{
				label: tok,
				from:  time.Date(year, time.January, 1, 0, 0, 0, 0, now.Location()),
				to:    time.Date(year+1, time.January, 1, 0, 0, 0, 0, now.Location()),
			})
		case len(e.tax.CategoriesForToken(tok)) > 0:
			if !seenCategory[tok] {
				seenCategory[tok] = true
				q.categories = append(q.categories, tok)
			}
		case stopwords[tok]:
		case len(tok) >= 2:
			if !seenKeyword[tok] {
				seenKeyword[tok] = true
				q.keywords = append(q.keywords, tok)
			}
		}
	}
	return q
}

// candidates narrows the scan through the store when a single time window
// can be pushed down to sql.
func (e *Engine) candidates(ctx context.Context, q parsedQuery) ([]models.IndexEntry, error) {
	if len(q.windows) == 1 {
		w := q.windows[0]
		if w.to.IsZero() {
			return e.store.ModifiedSince(ctx, w.from)
		}
		return e.store.ModifiedBetween(ctx, w.from, w.to)
	}
	return e.store.All(ctx)
}

func (q parsedQuery) match(e *models.IndexEntry, tax *taxonomy.Taxonomy) ([]string, bool) {
	var matched []string
	if len(q.windows) > 0 {
		hit := false
		for _, w := range q.windows {
			if w.contains(e.ModTime) {
				matched = append(matched, "time:"+w.label)
				hit = true
			}
		}
		if !hit {
			return nil, false
		}
	}
	if len(q.categories) > 0 {
		segs := strings.Split(e.Category, "/")
		hit := false
		for _, tok := range q.categories {
			if categoryTokenMatches(tok, e.Category, segs, tax) {
				matched = append(matched, "category:"+tok)
				hit = true
			}
		}
		if !hit {
			return nil, false
		}
	}
	if len(q.keywords) > 0 {
		name := strings.ToLower(e.Name)
		hit := false
		for _, tok := range q.keywords {
			if strings.Contains(name, tok) || strings.Contains(e.Keywords, tok) {
				matched = append(matched, "keyword:"+tok)
				hit = true
			}
		}
		if !hit {
			return nil, false
		}
	}
	return matched, true
}

// categoryTokenMatches checks the entry's own path segments first, so
// free-form categories the taxonomy never heard of still answer queries.
// Synonyms resolve through the taxonomy to the categories they name.
func categoryTokenMatches(tok, category string, segs []string, tax *taxonomy.Taxonomy) bool {
	for _, seg := range segs {
		if seg == tok {
			return true
		}
	}
	for _, path := range tax.CategoriesForToken(tok) {
		if category == path || strings.HasPrefix(category, path+"/") {
			return true
		}
	}
	return false
}
