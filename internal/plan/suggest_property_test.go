package plan

import (
	"strings"
	"testing"

	"pgregory.net/rapid"

	"sortd/internal/taxonomy"
)

func TestSuggestProperties(t *testing.T) {
	tax := taxonomy.Default()

	rapid.Check(t, func(t *rapid.T) {
		partial := rapid.StringMatching(`[a-z/]{0,12}`).Draw(t, "partial")
		limit := rapid.IntRange(1, 30).Draw(t, "limit")

		got := Suggest(tax, nil, partial, limit)

		if len(got) > limit {
			t.Fatalf("suggestions exceed limit: %d > %d", len(got), limit)
		}
		seen := map[string]bool{}
		needle := strings.ToLower(strings.TrimSpace(partial))
		for _, s := range got {
			if seen[s] {
				t.Fatalf("duplicate suggestion %q", s)
			}
			seen[s] = true
			if needle != "" && !strings.Contains(strings.ToLower(s), needle) {
				t.Fatalf("suggestion %q does not contain %q", s, partial)
			}
		}

		again := Suggest(tax, nil, partial, limit)
		if len(again) != len(got) {
			t.Fatalf("suggestion count changed between calls")
		}
		for i := range got {
			if got[i] != again[i] {
				t.Fatalf("suggestion order changed between calls")
			}
		}
	})
}
