package index

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/repowiki/repowiki-mcp/internal/chunker"
	"github.com/repowiki/repowiki-mcp/internal/scanner"
	"github.com/repowiki/repowiki-mcp/pkg/types"
)

// DefaultBatchSize is the number of chunk texts embedded per provider call.
const DefaultBatchSize = 128

// Embedder is the minimal embedding capability the builder needs.
type Embedder interface {
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimension() int
}

// Builder rebuilds the vector index pair for a project. The policy is full
// rebuild and replace; an existing pair is never patched incrementally.
type Builder struct {
	emb       Embedder
	logger    *slog.Logger
	batchSize int
	workers   int
}

// BuilderConfig configures a Builder.
type BuilderConfig struct {
	Embedder  Embedder
	Logger    *slog.Logger
	BatchSize int // texts per embedding call (default 128)
	Workers   int // concurrent chunk-extraction workers (default NumCPU)
}

// NewBuilder creates an index builder.
func NewBuilder(cfg BuilderConfig) *Builder {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Builder{
		emb:       cfg.Embedder,
		logger:    logger,
		batchSize: batchSize,
		workers:   workers,
	}
}

// BuildResult summarizes one build.
type BuildResult struct {
	UpToDate    bool
	VectorCount int
	FileCount   int
	IndexPath   string // empty when the project has no embeddable content
}

// UpToDate reports whether the persisted manifest exactly matches the
// current source tree. A missing or unreadable meta file is never up to
// date.
func (b *Builder) UpToDate(srcRoot, metaPath string) bool {
	meta, err := LoadMeta(metaPath)
	if err != nil {
		return false
	}
	files, err := scanner.Walk(srcRoot)
	if err != nil {
		return false
	}
	current := scanner.Fingerprint(srcRoot, files)
	return scanner.UpToDate(meta.Files, current)
}

// Build scans srcRoot, chunks every file, embeds the chunk texts in batches
// and replaces the index pair. An up-to-date index is left untouched.
//
// A batch that fails to embed is logged and skipped together with its chunk
// records, keeping rows and metadata aligned. If no batch succeeds the
// build fails with ErrNoEmbeddings. A project with no embeddable content at
// all persists an empty descriptor instead, which is a valid terminal
// state.
func (b *Builder) Build(ctx context.Context, projectID, srcRoot, vectorPath, metaPath string) (*BuildResult, error) {
	files, err := scanner.Walk(srcRoot)
	if err != nil {
		return nil, fmt.Errorf("scan source tree: %w", err)
	}
	current := scanner.Fingerprint(srcRoot, files)

	if prev, err := LoadMeta(metaPath); err == nil && scanner.UpToDate(prev.Files, current) {
		b.logger.Info("index up to date", "project", projectID, "files", len(files))
		result := &BuildResult{
			UpToDate:    true,
			VectorCount: prev.Count,
			FileCount:   len(files),
		}
		// An empty index has no vector artifact to point at.
		if prev.Count > 0 {
			result.IndexPath = vectorPath
		}
		return result, nil
	}

	texts, records, err := b.extractChunks(ctx, srcRoot, files)
	if err != nil {
		return nil, err
	}

	if len(texts) == 0 {
		meta := Meta{
			ProjectID: projectID,
			CreatedAt: types.UTCNow(),
			Files:     current,
		}
		if err := WriteEmpty(vectorPath, metaPath, meta); err != nil {
			return nil, err
		}
		b.logger.Info("no embeddable content", "project", projectID, "files", len(files))
		return &BuildResult{FileCount: len(files)}, nil
	}

	vectors, kept, dim, err := b.embedBatches(ctx, projectID, texts, records)
	if err != nil {
		return nil, err
	}

	meta := Meta{
		Dimension: dim,
		Count:     len(kept),
		ProjectID: projectID,
		CreatedAt: types.UTCNow(),
		Items:     kept,
		Files:     current,
	}
	if err := WritePair(vectorPath, metaPath, meta, vectors); err != nil {
		return nil, err
	}

	b.logger.Info("rebuilt index",
		"project", projectID,
		"vectors", len(kept),
		"files", len(files),
		"dimension", dim,
	)
	return &BuildResult{
		VectorCount: len(kept),
		FileCount:   len(files),
		IndexPath:   vectorPath,
	}, nil
}

// extractChunks chunks every file on a bounded worker pool. Merge order
// across files is not stable run to run; each record always travels with
// its text, so downstream alignment is unaffected.
func (b *Builder) extractChunks(ctx context.Context, srcRoot string, files []string) ([]string, []types.ChunkRecord, error) {
	var (
		mu      sync.Mutex
		texts   []string
		records []types.ChunkRecord
		dropped int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.workers)

	for _, rel := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fileTexts, fileRecords, fileDropped := extractFile(srcRoot, rel)
			if len(fileTexts) == 0 && fileDropped == 0 {
				return nil
			}
			mu.Lock()
			texts = append(texts, fileTexts...)
			records = append(records, fileRecords...)
			dropped += fileDropped
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	if dropped > 0 {
		b.logger.Warn("dropped oversized chunks", "count", dropped)
	}
	return texts, records, nil
}

// extractFile produces the chunk texts and records for one file.
func extractFile(srcRoot, rel string) ([]string, []types.ChunkRecord, int) {
	full := filepath.Join(srcRoot, filepath.FromSlash(rel))
	text := scanner.ReadText(full)
	ext := filepath.Ext(rel)

	spans := chunker.Spans(text, ext)
	dropped := chunker.Dropped(text, ext)
	if len(spans) == 0 {
		return nil, nil, dropped
	}

	newlines := chunker.LineIndex(text)
	isCode := chunker.IsCode(ext)

	texts := make([]string, 0, len(spans))
	records := make([]types.ChunkRecord, 0, len(spans))
	for _, s := range spans {
		chunk := text[s.Start:s.End]
		lineStart, lineEnd := chunker.SpanLines(newlines, s.Start, s.End)
		texts = append(texts, chunk)
		records = append(records, types.ChunkRecord{
			File:      rel,
			CharStart: s.Start,
			CharEnd:   s.End,
			Tokens:    s.Tokens,
			IsCode:    isCode,
			LineStart: lineStart,
			LineEnd:   lineEnd,
			Preview:   chunker.Preview(chunk),
		})
	}
	return texts, records, dropped
}

// embedBatches streams fixed-size batches through the embedding provider.
// Failed batches are skipped with their records; dimension-mismatched or
// missing vectors skip the batch the same way.
func (b *Builder) embedBatches(ctx context.Context, projectID string, texts []string, records []types.ChunkRecord) ([]float32, []types.ChunkRecord, int, error) {
	var (
		vectors []float32
		kept    []types.ChunkRecord
		dim     int
	)

	for i := 0; i < len(texts); i += b.batchSize {
		end := i + b.batchSize
		if end > len(texts) {
			end = len(texts)
		}
		batch := texts[i:end]

		embs, err := b.emb.EmbedBatch(ctx, batch)
		if err != nil {
			if ctx.Err() != nil {
				return nil, nil, 0, ctx.Err()
			}
			b.logger.Warn("embedding batch failed, skipping",
				"project", projectID, "batch_start", i, "error", err)
			continue
		}
		if len(embs) != len(batch) {
			b.logger.Warn("embedding batch returned wrong count, skipping",
				"project", projectID, "batch_start", i, "got", len(embs), "want", len(batch))
			continue
		}

		if dim == 0 && len(embs) > 0 {
			dim = len(embs[0])
		}
		ok := true
		for _, v := range embs {
			if len(v) != dim || dim == 0 {
				ok = false
				break
			}
		}
		if !ok {
			b.logger.Warn("embedding batch dimension mismatch, skipping",
				"project", projectID, "batch_start", i)
			continue
		}

		for j, v := range embs {
			vectors = append(vectors, NormalizeL2(v)...)
			kept = append(kept, records[i+j])
		}
	}

	if len(kept) == 0 {
		return nil, nil, 0, ErrNoEmbeddings
	}
	return vectors, kept, dim, nil
}
