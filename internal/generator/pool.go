package generator

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/repowiki/repowiki-mcp/internal/tokenizer"
	"github.com/repowiki/repowiki-mcp/pkg/types"
)

const (
	// DefaultWorkers bounds concurrent generation calls.
	DefaultWorkers = 8

	// MaxContentTokens is the input ceiling per page; longer files are
	// truncated to exactly this many tokens before generation.
	MaxContentTokens = 100_000

	// GenerateTimeout bounds one generation call. Remote generators inherit
	// it through the context.
	GenerateTimeout = 5 * time.Minute
)

// Pool runs page generation over every leaf of a site map on a bounded
// worker pool. Each leaf is independent: a failed page is logged and never
// affects its siblings, and the stage completes when all leaves finish.
type Pool struct {
	gen       Generator
	logger    *slog.Logger
	workers   int
	maxTokens int
	timeout   time.Duration
}

// PoolConfig configures a Pool.
type PoolConfig struct {
	Generator Generator
	Logger    *slog.Logger
	Workers   int           // default 8
	MaxTokens int           // default 100000
	Timeout   time.Duration // per generation call, default 5m
}

// NewPool creates a generation pool.
func NewPool(cfg PoolConfig) *Pool {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = MaxContentTokens
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = GenerateTimeout
	}
	return &Pool{
		gen:       cfg.Generator,
		logger:    logger,
		workers:   workers,
		maxTokens: maxTokens,
		timeout:   timeout,
	}
}

// Run generates one page per site-map leaf, mirroring the map's hierarchy
// under wikiDir with ".md" appended to each leaf name. Leaves whose backing
// file is missing (the overview, deleted files) generate from empty
// content. stillExists is consulted before every write so a project
// deleted mid-run stops accumulating output; pass nil to skip the check.
func (p *Pool) Run(ctx context.Context, srcRoot, wikiDir string, tree *types.SiteMap, stillExists func() bool) error {
	leaves := tree.Leaves()
	if err := os.MkdirAll(wikiDir, 0o755); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)

	for _, leaf := range leaves {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			p.processLeaf(gctx, srcRoot, wikiDir, tree, leaf, stillExists)
			return nil
		})
	}
	return g.Wait()
}

// processLeaf generates and persists one page. All failures are contained
// here; nothing propagates to the pool.
func (p *Pool) processLeaf(ctx context.Context, srcRoot, wikiDir string, tree *types.SiteMap, leaf types.Leaf, stillExists func() bool) {
	content := p.readSource(srcRoot, leaf)

	genCtx, cancel := context.WithTimeout(ctx, p.timeout)
	markdown, err := p.gen.Generate(genCtx, leaf.Name, content, tree)
	cancel()
	if err != nil {
		p.logger.Error("failed to generate page", "leaf", leaf.Name, "dir", leaf.Dir, "error", err)
		return
	}

	if stillExists != nil && !stillExists() {
		p.logger.Warn("project gone, discarding generated page", "leaf", leaf.Name)
		return
	}

	outPath := filepath.Join(wikiDir, filepath.FromSlash(leaf.Dir), leaf.Name+".md")
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		p.logger.Error("failed to create page dir", "leaf", leaf.Name, "error", err)
		return
	}
	if err := os.WriteFile(outPath, []byte(markdown), 0o644); err != nil {
		p.logger.Error("failed to write page", "leaf", leaf.Name, "error", err)
	}
}

// readSource returns the leaf's backing file content, truncated to the
// token ceiling. Synthetic and vanished leaves yield empty content.
func (p *Pool) readSource(srcRoot string, leaf types.Leaf) string {
	path := filepath.Join(srcRoot, filepath.FromSlash(leaf.Dir), leaf.Name)
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	content := string(data)
	if n := tokenizer.Count(content); n > p.maxTokens {
		p.logger.Warn("file exceeds token limit, truncating",
			"file", path, "tokens", n, "limit", p.maxTokens)
		content = tokenizer.Truncate(content, p.maxTokens)
	}
	return content
}
