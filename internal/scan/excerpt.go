package scan

import (
	"strings"

	"github.com/neurosnap/sentences"
)

var sentenceTokenizer = sentences.NewSentenceTokenizer(nil)

// Excerpt returns the first maxSentences sentences of text, capped at
// maxRunes, for use as an index preview.
func Excerpt(text string, maxSentences, maxRunes int) string {
	text = strings.Join(strings.Fields(text), " ")
	if text == "" || maxSentences <= 0 || maxRunes <= 0 {
		return ""
	}

	var parts []string
	if sentenceTokenizer != nil {
		for _, s := range sentenceTokenizer.Tokenize(text) {
			t := strings.TrimSpace(s.Text)
			if t == "" {
				continue
			}
			parts = append(parts, t)
			if len(parts) >= maxSentences {
				break
			}
		}
	}
	out := strings.Join(parts, " ")
	if out == "" {
		out = text
	}

	runes := []rune(out)
	if len(runes) > maxRunes {
		out = strings.TrimSpace(string(runes[:maxRunes])) + "..."
	}
	return out
}
