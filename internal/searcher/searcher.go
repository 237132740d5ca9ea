package searcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/repowiki/repowiki-mcp/internal/index"
	"github.com/repowiki/repowiki-mcp/pkg/types"
)

// DefaultTopK is the result count used when a query does not specify one.
const DefaultTopK = 8

// fileCacheSize bounds the per-searcher snippet cache.
const fileCacheSize = 256

// Embedder is the query-side embedding capability the searcher needs.
type Embedder interface {
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// Searcher answers retrieval queries for one project. It holds the loaded
// index pair in memory and reloads it when the on-disk modification times
// of either file drift from those recorded at load. All operations are
// serialized by a single mutex; concurrency across projects comes from the
// Manager handing out distinct instances.
type Searcher struct {
	mu sync.Mutex

	srcRoot    string
	vectorPath string
	metaPath   string
	emb        Embedder

	ix          *index.Index
	vectorMTime int64
	metaMTime   int64

	files *lru.Cache[string, string]
}

// newSearcher creates an unloaded searcher; the first query loads the pair.
func newSearcher(srcRoot, vectorPath, metaPath string, emb Embedder) *Searcher {
	files, err := lru.New[string, string](fileCacheSize)
	if err != nil {
		// Only reachable with a non-positive size constant.
		panic(fmt.Sprintf("failed to create file cache: %v", err))
	}
	return &Searcher{
		srcRoot:    srcRoot,
		vectorPath: vectorPath,
		metaPath:   metaPath,
		emb:        emb,
		files:      files,
	}
}

// Search embeds the query, runs exact top-k retrieval and resolves each hit
// to its chunk record and source snippet. A missing index pair returns
// index.ErrNotBuilt; an empty index returns no results and no error.
func (s *Searcher) Search(ctx context.Context, query string, topK int) ([]types.SearchResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if topK <= 0 {
		topK = DefaultTopK
	}
	if err := s.ensureFresh(); err != nil {
		return nil, err
	}
	if s.ix.Empty() {
		return nil, nil
	}

	qvec, err := s.emb.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	hits, err := s.ix.Search(index.NormalizeL2(qvec), topK)
	if err != nil {
		return nil, err
	}

	results := make([]types.SearchResult, 0, len(hits))
	for _, hit := range hits {
		rec := s.ix.Meta.Items[hit.Row]
		results = append(results, types.SearchResult{
			Score:     hit.Score,
			File:      rec.File,
			LineStart: rec.LineStart,
			LineEnd:   rec.LineEnd,
			IsCode:    rec.IsCode,
			Title:     fmt.Sprintf("%s L%d-%d", rec.File, rec.LineStart, rec.LineEnd),
			Content:   s.snippet(rec),
		})
	}
	return results, nil
}

// ensureFresh loads the index pair on first use and reloads it whenever the
// on-disk modification time of either file differs from the recorded one.
// The check is time-of-check; the atomic pair replace on the writer side
// keeps a racing reload from observing a torn pair.
func (s *Searcher) ensureFresh() error {
	vm, mm, err := index.PairMTimes(s.vectorPath, s.metaPath)
	if err != nil {
		if os.IsNotExist(err) {
			return index.ErrNotBuilt
		}
		return err
	}
	if s.ix != nil && vm == s.vectorMTime && mm == s.metaMTime {
		return nil
	}

	ix, err := index.Load(s.vectorPath, s.metaPath)
	if err != nil {
		return err
	}
	s.ix = ix
	s.vectorMTime = vm
	s.metaMTime = mm
	s.files.Purge()
	return nil
}

// snippet extracts the chunk's byte span from its owning file, reading the
// file at most once per loaded instance. A vanished or shrunk file falls
// back to the persisted preview.
func (s *Searcher) snippet(rec types.ChunkRecord) string {
	content, ok := s.files.Get(rec.File)
	if !ok {
		data, err := os.ReadFile(filepath.Join(s.srcRoot, filepath.FromSlash(rec.File)))
		if err != nil {
			return rec.Preview
		}
		content = string(data)
		s.files.Add(rec.File, content)
	}
	if rec.CharStart < 0 || rec.CharEnd > len(content) || rec.CharStart >= rec.CharEnd {
		return rec.Preview
	}
	return content[rec.CharStart:rec.CharEnd]
}
