package plan

import (
	"sort"
	"strings"

	"sortd/internal/models"
	"sortd/internal/taxonomy"
)

const DefaultSuggestLimit = 10

// Suggest returns destination-path completions for a partial input: the
// taxonomy's paths plus any categories already used in the plan, filtered
// by substring match. An exact match ranks first, prefix matches next,
// remaining substring matches alphabetically after that.
func Suggest(tax *taxonomy.Taxonomy, p *models.OrganizationPlan, partial string, limit int) []string {
	if limit <= 0 {
		limit = DefaultSuggestLimit
	}

	seen := map[string]bool{}
	var candidates []string
	add := func(path string) {
		if path != "" && !seen[path] {
			seen[path] = true
			candidates = append(candidates, path)
		}
	}
	for _, path := range tax.Paths() {
		add(path)
	}
	if p != nil {
		for _, e := range p.Entries {
			add(e.Category)
		}
	}

	needle := strings.ToLower(strings.TrimSpace(partial))
	var exact, prefixed, contains []string
	for _, c := range candidates {
		lc := strings.ToLower(c)
		switch {
		case needle == "":
			contains = append(contains, c)
		case lc == needle:
			exact = append(exact, c)
		case strings.HasPrefix(lc, needle):
			prefixed = append(prefixed, c)
		case strings.Contains(lc, needle):
			contains = append(contains, c)
		}
	}
	sort.Strings(exact)
	sort.Strings(prefixed)
	sort.Strings(contains)

	out := make([]string, 0, limit)
	for _, group := range [][]string{exact, prefixed, contains} {
		for _, c := range group {
			if len(out) == limit {
				return out
			}
			out = append(out, c)
		}
	}
	return out
}
