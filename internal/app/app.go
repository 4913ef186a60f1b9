package app

import (
	"context"
	"fmt"
	"path/filepath"

	log "github.com/sirupsen/logrus"

	"sortd/internal/config"
	"sortd/internal/index"
	"sortd/internal/models"
	"sortd/internal/movelog"
	"sortd/internal/organize"
	"sortd/internal/plan"
	"sortd/internal/scan"
	"sortd/internal/taxonomy"
	"sortd/pkg/classify"
)

// App wires the pieces together. Taxonomy, classifier, and planner are
// always available; destination-scoped state (move logs, index) opens only
// when a destination root is configured.
type App struct {
	Config     *config.Config
	Taxonomy   *taxonomy.Taxonomy
	Classifier *classify.Classifier
	Sampler    *scan.Sampler
	Builder    *plan.Builder

	DestRoot  string
	Logs      *movelog.Store
	Index     *index.Store
	Indexer   *index.Indexer
	Queries   *index.Engine
	Committer *organize.Committer
	Undoer    *organize.Undoer
}

func NewApp(cfg *config.Config) (*App, error) {
	app := &App{Config: cfg}

	if err := app.initTaxonomy(); err != nil {
		return nil, err
	}
	if err := app.initPlanner(); err != nil {
		app.cleanupPartialInit()
		return nil, err
	}
	if err := app.initDestination(); err != nil {
		app.cleanupPartialInit()
		return nil, err
	}

	log.Debug("application initialization complete")
	return app, nil
}

func (a *App) initTaxonomy() error {
	if file := a.Config.Taxonomy.File; file != "" {
		tax, err := taxonomy.LoadFile(file)
		if err != nil {
			return fmt.Errorf("load taxonomy %s: %w", file, err)
		}
		a.Taxonomy = tax
		return nil
	}
	if fallback := a.Config.Taxonomy.Fallback; fallback != "" {
		tax, err := taxonomy.New(taxonomy.Default().Categories(), fallback)
		if err != nil {
			return fmt.Errorf("apply taxonomy fallback override: %w", err)
		}
		a.Taxonomy = tax
		return nil
	}
	a.Taxonomy = taxonomy.Default()
	return nil
}

func (a *App) initPlanner() error {
	a.Classifier = classify.New(a.Taxonomy, a.Config.Weights())
	a.Sampler = scan.NewSampler(a.Config.Scan.SampleBytes)
	a.Builder = plan.NewBuilder(a.Classifier, a.Sampler, a.Config.Scan.Workers)
	return nil
}

func (a *App) initDestination() error {
	root := a.Config.Destination.Root
	if root == "" {
		return nil
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("resolve destination root: %w", err)
	}
	a.DestRoot = abs

	logs, err := movelog.NewStore(config.LogsDir(abs))
	if err != nil {
		return fmt.Errorf("init move log store: %w", err)
	}
	a.Logs = logs

	idx, err := index.NewStore(config.IndexPath(abs))
	if err != nil {
		return fmt.Errorf("init index store: %w", err)
	}
	a.Index = idx

	a.Indexer = index.NewIndexer(idx, a.Taxonomy, a.Sampler)
	a.Queries = index.NewEngine(idx, a.Taxonomy)
	a.Committer = organize.NewCommitter(logs, a.Config.FSTimeout())
	a.Undoer = organize.NewUndoer(logs, a.Config.FSTimeout())
	return nil
}

// requireDestination guards operations that touch destination-scoped state.
func (a *App) requireDestination() error {
	if a.DestRoot == "" {
		return fmt.Errorf("%w: no destination root configured (set destination.root, SORTD_DEST, or --dest)", models.ErrValidation)
	}
	return nil
}

// Preview scans sourceRoot and classifies every file without touching the
// filesystem.
func (a *App) Preview(ctx context.Context, sourceRoot string) (*models.OrganizationPlan, error) {
	if err := a.requireDestination(); err != nil {
		return nil, err
	}
	return a.Builder.Build(ctx, sourceRoot, a.DestRoot)
}

// CommitOptions tune App.Commit. AutoIndex rebuilds the index after a
// successful non-dry run.
type CommitOptions struct {
	DryRun    bool
	AutoIndex bool
	Progress  func(models.Progress)
}

// Commit executes the plan against the configured destination root.
func (a *App) Commit(ctx context.Context, p *models.OrganizationPlan, opts CommitOptions) (*models.CommitResult, error) {
	if err := a.requireDestination(); err != nil {
		return nil, err
	}
	if p != nil {
		if p.DestinationRoot == "" {
			p.DestinationRoot = a.DestRoot
		} else if abs, err := filepath.Abs(p.DestinationRoot); err != nil || abs != a.DestRoot {
			// Logs live under the configured root; committing elsewhere
			// would leave an irreversible run.
			return nil, fmt.Errorf("%w: plan targets %s but the configured destination is %s",
				models.ErrValidation, p.DestinationRoot, a.DestRoot)
		}
	}
	result, err := a.Committer.Commit(ctx, p, organize.CommitOptions{
		DryRun:   opts.DryRun,
		Progress: opts.Progress,
	})
	if err != nil {
		return result, err
	}
	if opts.AutoIndex && !opts.DryRun {
		indexed, err := a.Indexer.Rebuild(ctx, a.DestRoot)
		if err != nil {
			log.WithError(err).Warn("index rebuild after commit failed")
		} else {
			result.Indexed = indexed
		}
	}
	return result, nil
}

// Undo reverses the commit named by selector ("latest" or a commit id).
func (a *App) Undo(ctx context.Context, selector string, opts organize.UndoOptions) (*models.UndoResult, error) {
	if err := a.requireDestination(); err != nil {
		return nil, err
	}
	return a.Undoer.Undo(ctx, a.DestRoot, selector, opts)
}

// RebuildIndex reindexes the destination root from scratch.
func (a *App) RebuildIndex(ctx context.Context) (int, error) {
	if err := a.requireDestination(); err != nil {
		return 0, err
	}
	return a.Indexer.Rebuild(ctx, a.DestRoot)
}

// Query answers a free-text search against the index.
func (a *App) Query(ctx context.Context, text string) ([]models.QueryResult, error) {
	if err := a.requireDestination(); err != nil {
		return nil, err
	}
	return a.Queries.Query(ctx, text)
}

// Logs lists stored move logs, newest first.
func (a *App) ListLogs() ([]models.LogInfo, error) {
	if err := a.requireDestination(); err != nil {
		return nil, err
	}
	return a.Logs.List()
}

// Suggest completes a partial category against the taxonomy plus any
// categories already present in the plan.
func (a *App) Suggest(p *models.OrganizationPlan, partial string, limit int) []string {
	return plan.Suggest(a.Taxonomy, p, partial, limit)
}

func (a *App) Close() error {
	if a.Index != nil {
		return a.Index.Close()
	}
	return nil
}

func (a *App) cleanupPartialInit() {
	if a.Index != nil {
		if err := a.Index.Close(); err != nil {
			log.WithError(err).Warn("closing index store")
		}
	}
}
