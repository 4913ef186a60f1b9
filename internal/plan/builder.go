// Package plan turns a scanned source tree into an editable organization
// plan and offers destination-path suggestions.
package plan

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"sortd/internal/models"
	"sortd/internal/scan"
	"sortd/pkg/classify"
)

const defaultWorkers = 4

// Builder scans, samples, and classifies source files into a plan.
type Builder struct {
	classifier *classify.Classifier
	sampler    *scan.Sampler
	workers    int
}

func NewBuilder(classifier *classify.Classifier, sampler *scan.Sampler, workers int) *Builder {
	if workers <= 0 {
		workers = defaultWorkers
	}
	return &Builder{classifier: classifier, sampler: sampler, workers: workers}
}

// Build enumerates regular files under sourceRoot and proposes one
// destination category per file. The scan is read-only; sampling and
// classification run on a bounded worker pool, but entries keep the
// deterministic lexical scan order. Cancellation is honored between files.
func (b *Builder) Build(ctx context.Context, sourceRoot, destRoot string) (*models.OrganizationPlan, error) {
	if destRoot == "" {
		return nil, fmt.Errorf("%w: destination root is required", models.ErrValidation)
	}
	absSource, err := filepath.Abs(sourceRoot)
	if err != nil {
		return nil, fmt.Errorf("%w: resolve source root: %v", models.ErrValidation, err)
	}
	absDest, err := filepath.Abs(destRoot)
	if err != nil {
		return nil, fmt.Errorf("%w: resolve destination root: %v", models.ErrValidation, err)
	}

	files, err := scan.Discover(ctx, absSource)
	if err != nil {
		return nil, err
	}

	results := make([]models.ClassificationResult, len(files))
	jobs := make(chan int)
	var wg sync.WaitGroup
	workers := b.workers
	if workers > len(files) {
		workers = len(files)
	}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				f := files[i]
				sample, err := b.sampler.Sample(f.Path, f.Extension)
				if err != nil {
					log.WithError(err).Warnf("sampling %s failed, classifying by name only", f.Path)
				}
				f.Sample = sample
				results[i] = b.classifier.Classify(f)
			}
		}()
	}

dispatch:
	for i := range files {
		select {
		case <-ctx.Done():
			break dispatch
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries := make([]models.PlanEntry, 0, len(files))
	for i, f := range files {
		res := results[i]
		entries = append(entries, models.PlanEntry{
			SourcePath: f.Path,
			FileName:   f.Name,
			Category:   res.Category,
			Status:     models.StatusPending,
			Score:      res.Score,
			Signals:    res.Signals,
			Fallback:   res.Fallback,
			Size:       f.Size,
			ModTime:    f.ModTime,
		})
	}

	return &models.OrganizationPlan{
		SourceRoot:      absSource,
		DestinationRoot: absDest,
		Entries:         entries,
		CreatedAt:       time.Now(),
	}, nil
}
