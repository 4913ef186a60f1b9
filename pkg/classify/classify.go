// Package classify scores files against a category taxonomy. Classification
// is a pure function of the file snapshot and the taxonomy, so identical
// inputs always produce identical decisions.
package classify

import (
	"strings"

	"sortd/internal/models"
	"sortd/internal/taxonomy"
)

// Weights tunes the scoring rules. Extension evidence is the strongest,
// name keywords middle, content keywords weakest and capped so a single
// repeated term cannot dominate.
type Weights struct {
	Extension        float64
	NameKeyword      float64
	ContentKeyword   float64
	ContentHitCap    int
	SpecificityBonus float64
	MinConfidence    float64
}

// DefaultWeights preserves the extension > name > content ordering.
func DefaultWeights() Weights {
	return Weights{
		Extension:        3.0,
		NameKeyword:      2.0,
		ContentKeyword:   1.0,
		ContentHitCap:    3,
		SpecificityBonus: 0.75,
		MinConfidence:    2.0,
	}
}

// Classifier assigns category paths to files.
type Classifier struct {
	tax *taxonomy.Taxonomy
	w   Weights
}

func New(tax *taxonomy.Taxonomy, w Weights) *Classifier {
	if w.ContentHitCap < 0 {
		w.ContentHitCap = 0
	}
	return &Classifier{tax: tax, w: w}
}

type candidate struct {
	cat     taxonomy.Category
	score   float64
	signals []models.Signal
}

// Classify scores every category and returns the winner, or the fallback
// category when nothing clears the confidence threshold. It never fails:
// files with no readable content are scored on name and extension alone.
func (c *Classifier) Classify(f models.SourceFile) models.ClassificationResult {
	name := strings.ToLower(f.Name)
	sample := strings.ToLower(f.Sample)
	ext := strings.ToLower(f.Extension)

	var best *candidate
	for _, cat := range c.tax.Categories() {
		cand := c.score(cat, name, ext, sample)
		if cand.score <= 0 {
			continue
		}
		if depth := cat.Depth(); depth > 1 && c.w.SpecificityBonus > 0 {
			bonus := float64(depth-1) * c.w.SpecificityBonus
			cand.score += bonus
			cand.signals = append(cand.signals, models.Signal{
				Kind:   models.SignalSpecificity,
				Value:  cat.Path,
				Weight: bonus,
			})
		}
		if best == nil || better(cand, *best) {
			b := cand
			best = &b
		}
	}

	if best == nil || best.score < c.w.MinConfidence {
		res := models.ClassificationResult{Category: c.tax.Fallback(), Fallback: true}
		if best != nil {
			res.Score = best.score
		}
		return res
	}
	return models.ClassificationResult{
		Category: best.cat.Path,
		Score:    best.score,
		Signals:  best.signals,
	}
}

func (c *Classifier) score(cat taxonomy.Category, name, ext, sample string) candidate {
	cand := candidate{cat: cat}

	for _, e := range cat.Extensions {
		if e == ext && ext != "" {
			cand.score += c.w.Extension
			cand.signals = append(cand.signals, models.Signal{
				Kind:   models.SignalExtension,
				Value:  e,
				Weight: c.w.Extension,
			})
			break
		}
	}

	contentHits := 0
	for _, kw := range cat.Keywords {
		if strings.Contains(name, kw) {
			cand.score += c.w.NameKeyword
			cand.signals = append(cand.signals, models.Signal{
				Kind:   models.SignalNameKeyword,
				Value:  kw,
				Weight: c.w.NameKeyword,
			})
		}
		if sample != "" && contentHits < c.w.ContentHitCap && strings.Contains(sample, kw) {
			contentHits++
			cand.score += c.w.ContentKeyword
			cand.signals = append(cand.signals, models.Signal{
				Kind:   models.SignalContentKeyword,
				Value:  kw,
				Weight: c.w.ContentKeyword,
			})
		}
	}
	return cand
}

// better imposes the total order used to pick a winner: score descending,
// then priority ascending, then depth descending, then path ascending.
func better(a, b candidate) bool {
	if a.score != b.score {
		return a.score > b.score
	}
	if a.cat.Priority != b.cat.Priority {
		return a.cat.Priority < b.cat.Priority
	}
	if da, db := a.cat.Depth(), b.cat.Depth(); da != db {
		return da > db
	}
	return a.cat.Path < b.cat.Path
}
