package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/repowiki/repowiki-mcp/internal/generator"
	"github.com/repowiki/repowiki-mcp/internal/index"
	"github.com/repowiki/repowiki-mcp/internal/layout"
	"github.com/repowiki/repowiki-mcp/internal/sitemap"
	"github.com/repowiki/repowiki-mcp/internal/storage"
	"github.com/repowiki/repowiki-mcp/pkg/types"
)

// Orchestrator sequences the per-project pipeline: index refresh, site-map
// build, content generation. It owns the status descriptor and the
// process-wide running set used to de-duplicate concurrent launches.
type Orchestrator struct {
	mu      sync.Mutex
	running map[uuid.UUID]struct{}
	wg      sync.WaitGroup

	store   storage.Storage
	layout  layout.Layout
	builder *index.Builder
	pool    *generator.Pool
	logger  *slog.Logger
}

// Config wires an Orchestrator.
type Config struct {
	Store   storage.Storage
	Layout  layout.Layout
	Builder *index.Builder
	Pool    *generator.Pool
	Logger  *slog.Logger
}

// New creates an orchestrator.
func New(cfg Config) *Orchestrator {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		running: make(map[uuid.UUID]struct{}),
		store:   cfg.Store,
		layout:  cfg.Layout,
		builder: cfg.Builder,
		pool:    cfg.Pool,
		logger:  logger,
	}
}

// Launch starts a background run for the project and reports whether one
// was actually started. A second launch while a run is active is a no-op,
// not an error. Runs are not cancellable once started; deletion is checked
// opportunistically between stages instead.
func (o *Orchestrator) Launch(projectID uuid.UUID) bool {
	o.mu.Lock()
	if _, active := o.running[projectID]; active {
		o.mu.Unlock()
		o.logger.Info("pipeline already running", "project", projectID)
		return false
	}
	o.running[projectID] = struct{}{}
	o.mu.Unlock()

	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		defer func() {
			o.mu.Lock()
			delete(o.running, projectID)
			o.mu.Unlock()
		}()
		o.run(context.Background(), projectID)
	}()
	return true
}

// Running reports whether a run is active for the project.
func (o *Orchestrator) Running(projectID uuid.UUID) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	_, active := o.running[projectID]
	return active
}

// Wait blocks until every launched run has finished. Used on shutdown and
// by tests as the join point.
func (o *Orchestrator) Wait() {
	o.wg.Wait()
}

// run executes one pipeline pass. Only a missing project record aborts it;
// every other sub-stage failure is logged and the run still resolves to a
// terminal status.
func (o *Orchestrator) run(ctx context.Context, projectID uuid.UUID) {
	if !o.projectExists(ctx, projectID) {
		o.logger.Debug("project gone before run", "project", projectID)
		return
	}

	srcRoot := o.layout.SourceDir(projectID)

	// Index refresh. Failure here is recorded but never fatal to the run.
	var buildErr error
	result, err := o.builder.Build(ctx, projectID.String(), srcRoot,
		o.layout.VectorPath(projectID), o.layout.MetaPath(projectID))
	if err != nil {
		buildErr = err
		o.logger.Error("index build failed", "project", projectID, "error", err)
	} else if result.UpToDate {
		o.logger.Info("index refresh skipped", "project", projectID)
	}

	// The project may have been deleted while the index was building.
	if !o.projectExists(ctx, projectID) {
		o.logger.Info("project deleted mid-run, aborting", "project", projectID)
		return
	}

	startedAt := types.UTCNow()
	o.setStatus(ctx, projectID, types.StatusAnalyzing, types.StatusDescriptor{
		Status:    types.StatusAnalyzing,
		StartedAt: startedAt,
	})

	tree := sitemap.Build(srcRoot)
	if err := sitemap.Save(o.layout.SiteMapPath(projectID), tree); err != nil {
		o.logger.Error("failed to persist site map", "project", projectID, "error", err)
	}

	err = o.pool.Run(ctx, srcRoot, o.layout.WikiDir(projectID), tree, func() bool {
		return o.projectExists(ctx, projectID)
	})
	if err != nil {
		o.logger.Error("generation stage failed", "project", projectID, "error", err)
	}

	final := types.StatusDescriptor{
		Status:      types.StatusGenerated,
		StartedAt:   startedAt,
		CompletedAt: types.UTCNow(),
	}
	if buildErr != nil {
		final.Error = buildErr.Error()
	} else if result != nil {
		final.VectorCount = &result.VectorCount
		final.FileCount = &result.FileCount
		final.IndexPath = result.IndexPath
	}
	o.setStatus(ctx, projectID, types.StatusGenerated, final)

	o.logger.Info("pipeline run complete", "project", projectID)
}

// setStatus persists the descriptor and mirrors the transition into the
// registry row. Either write failing is logged, not propagated; status
// must keep moving.
func (o *Orchestrator) setStatus(ctx context.Context, projectID uuid.UUID, status types.Status, desc types.StatusDescriptor) {
	if err := WriteStatus(o.layout.StatusPath(projectID), desc); err != nil {
		o.logger.Error("failed to persist status descriptor", "project", projectID, "error", err)
	}
	if err := o.store.UpdateStatus(ctx, projectID, status, desc.Error); err != nil && !errors.Is(err, storage.ErrNotFound) {
		o.logger.Error("failed to mirror status", "project", projectID, "error", err)
	}
}

func (o *Orchestrator) projectExists(ctx context.Context, projectID uuid.UUID) bool {
	_, err := o.store.GetProject(ctx, projectID)
	return err == nil
}
