package index

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubEmbedder returns fixed-dimension vectors and can be programmed to
// fail specific calls.
type stubEmbedder struct {
	mu        sync.Mutex
	dim       int
	calls     int
	failCalls map[int]error
	badDim    map[int]int
}

func newStubEmbedder(dim int) *stubEmbedder {
	return &stubEmbedder{dim: dim, failCalls: map[int]error{}, badDim: map[int]int{}}
}

func (s *stubEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	s.mu.Lock()
	call := s.calls
	s.calls++
	s.mu.Unlock()

	if err, ok := s.failCalls[call]; ok {
		return nil, err
	}
	dim := s.dim
	if d, ok := s.badDim[call]; ok {
		dim = d
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		v := make([]float32, dim)
		v[i%dim] = 1
		out[i] = v
	}
	return out, nil
}

func (s *stubEmbedder) Dimension() int { return s.dim }

func buildFixture(t *testing.T) (srcRoot, vectorPath, metaPath string) {
	t.Helper()
	dir := t.TempDir()
	srcRoot = filepath.Join(dir, "src")
	require.NoError(t, os.MkdirAll(srcRoot, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(srcRoot, "a.py"), []byte("def f():\n    pass\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(srcRoot, "b.md"), []byte("# Title\nHello\n"), 0o644))
	return srcRoot, filepath.Join(dir, "vectors.f32"), filepath.Join(dir, "index_meta.json")
}

func TestBuildProducesAlignedIndex(t *testing.T) {
	srcRoot, vectorPath, metaPath := buildFixture(t)
	b := NewBuilder(BuilderConfig{Embedder: newStubEmbedder(4), BatchSize: 2, Workers: 2})

	result, err := b.Build(context.Background(), "p1", srcRoot, vectorPath, metaPath)
	require.NoError(t, err)
	assert.False(t, result.UpToDate)
	assert.GreaterOrEqual(t, result.VectorCount, 1)
	assert.Equal(t, 2, result.FileCount)
	assert.Equal(t, vectorPath, result.IndexPath)

	ix, err := Load(vectorPath, metaPath)
	require.NoError(t, err)
	assert.Equal(t, result.VectorCount, ix.Meta.Count)
	assert.Len(t, ix.Meta.Items, ix.Meta.Count)
	assert.Len(t, ix.Vectors, ix.Meta.Count*ix.Meta.Dimension)
	assert.Len(t, ix.Meta.Files, 2, "manifest covers the scanned file set")
	for _, rec := range ix.Meta.Items {
		assert.NoError(t, rec.Validate())
	}
}

func TestBuildSkipsWhenUpToDate(t *testing.T) {
	srcRoot, vectorPath, metaPath := buildFixture(t)
	b := NewBuilder(BuilderConfig{Embedder: newStubEmbedder(4)})

	first, err := b.Build(context.Background(), "p1", srcRoot, vectorPath, metaPath)
	require.NoError(t, err)

	second, err := b.Build(context.Background(), "p1", srcRoot, vectorPath, metaPath)
	require.NoError(t, err)
	assert.True(t, second.UpToDate)
	assert.Equal(t, first.VectorCount, second.VectorCount)

	assert.True(t, b.UpToDate(srcRoot, metaPath))
}

func TestBuildRebuildsOnChange(t *testing.T) {
	srcRoot, vectorPath, metaPath := buildFixture(t)
	b := NewBuilder(BuilderConfig{Embedder: newStubEmbedder(4)})

	_, err := b.Build(context.Background(), "p1", srcRoot, vectorPath, metaPath)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(srcRoot, "a.py"), []byte("def f():\n    return 2\n"), 0o644))
	assert.False(t, b.UpToDate(srcRoot, metaPath))

	result, err := b.Build(context.Background(), "p1", srcRoot, vectorPath, metaPath)
	require.NoError(t, err)
	assert.False(t, result.UpToDate)
}

func TestBuildSkipsFailedBatches(t *testing.T) {
	srcRoot, vectorPath, metaPath := buildFixture(t)
	emb := newStubEmbedder(4)
	emb.failCalls[0] = errors.New("remote error")
	// Batch size 1 so one failure drops exactly one chunk.
	b := NewBuilder(BuilderConfig{Embedder: emb, BatchSize: 1})

	result, err := b.Build(context.Background(), "p1", srcRoot, vectorPath, metaPath)
	require.NoError(t, err)

	ix, lerr := Load(vectorPath, metaPath)
	require.NoError(t, lerr)
	assert.Equal(t, result.VectorCount, ix.Meta.Count)
	assert.Len(t, ix.Meta.Items, ix.Meta.Count, "skipped batch must not leave orphan records")
}

func TestBuildAllBatchesFailed(t *testing.T) {
	srcRoot, vectorPath, metaPath := buildFixture(t)
	emb := newStubEmbedder(4)
	for i := 0; i < 10; i++ {
		emb.failCalls[i] = errors.New("remote error")
	}
	b := NewBuilder(BuilderConfig{Embedder: emb, BatchSize: 1})

	_, err := b.Build(context.Background(), "p1", srcRoot, vectorPath, metaPath)
	assert.ErrorIs(t, err, ErrNoEmbeddings)
}

func TestBuildDimensionMismatchSkipsBatch(t *testing.T) {
	srcRoot, vectorPath, metaPath := buildFixture(t)
	emb := newStubEmbedder(4)
	emb.badDim[1] = 7
	b := NewBuilder(BuilderConfig{Embedder: emb, BatchSize: 1})

	_, err := b.Build(context.Background(), "p1", srcRoot, vectorPath, metaPath)
	require.NoError(t, err)

	ix, err := Load(vectorPath, metaPath)
	require.NoError(t, err)
	assert.Equal(t, 4, ix.Meta.Dimension)
	assert.Len(t, ix.Vectors, ix.Meta.Count*4)
}

func TestBuildNoEmbeddableContent(t *testing.T) {
	dir := t.TempDir()
	srcRoot := filepath.Join(dir, "src")
	require.NoError(t, os.MkdirAll(srcRoot, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(srcRoot, "empty.py"), []byte("   \n"), 0o644))
	vectorPath := filepath.Join(dir, "vectors.f32")
	metaPath := filepath.Join(dir, "index_meta.json")

	b := NewBuilder(BuilderConfig{Embedder: newStubEmbedder(4)})
	result, err := b.Build(context.Background(), "p1", srcRoot, vectorPath, metaPath)
	require.NoError(t, err)
	assert.Zero(t, result.VectorCount)
	assert.Empty(t, result.IndexPath)

	ix, err := Load(vectorPath, metaPath)
	require.NoError(t, err)
	assert.True(t, ix.Empty())

	// A rerun over the unchanged empty project skips the rebuild instead
	// of rewriting the empty descriptor.
	metaBefore, err := os.Stat(metaPath)
	require.NoError(t, err)
	second, err := b.Build(context.Background(), "p1", srcRoot, vectorPath, metaPath)
	require.NoError(t, err)
	assert.True(t, second.UpToDate)
	assert.Empty(t, second.IndexPath)
	metaAfter, err := os.Stat(metaPath)
	require.NoError(t, err)
	assert.Equal(t, metaBefore.ModTime(), metaAfter.ModTime())
}

func TestBuildEmptyProjectRerunSkips(t *testing.T) {
	dir := t.TempDir()
	srcRoot := filepath.Join(dir, "src")
	require.NoError(t, os.MkdirAll(srcRoot, 0o755))
	vectorPath := filepath.Join(dir, "vectors.f32")
	metaPath := filepath.Join(dir, "index_meta.json")

	b := NewBuilder(BuilderConfig{Embedder: newStubEmbedder(4)})
	first, err := b.Build(context.Background(), "p1", srcRoot, vectorPath, metaPath)
	require.NoError(t, err)
	assert.False(t, first.UpToDate)
	assert.Zero(t, first.FileCount)

	// The recorded empty manifest matches the still-empty tree.
	assert.True(t, b.UpToDate(srcRoot, metaPath))
	metaBefore, err := os.Stat(metaPath)
	require.NoError(t, err)

	second, err := b.Build(context.Background(), "p1", srcRoot, vectorPath, metaPath)
	require.NoError(t, err)
	assert.True(t, second.UpToDate)
	metaAfter, err := os.Stat(metaPath)
	require.NoError(t, err)
	assert.Equal(t, metaBefore.ModTime(), metaAfter.ModTime())
}

func TestBuildNormalizesVectors(t *testing.T) {
	srcRoot, vectorPath, metaPath := buildFixture(t)
	b := NewBuilder(BuilderConfig{Embedder: newStubEmbedder(4)})

	_, err := b.Build(context.Background(), "p1", srcRoot, vectorPath, metaPath)
	require.NoError(t, err)

	ix, err := Load(vectorPath, metaPath)
	require.NoError(t, err)
	for i := 0; i < ix.Meta.Count; i++ {
		row := ix.Row(i)
		var norm float64
		for _, x := range row {
			norm += float64(x) * float64(x)
		}
		assert.InDelta(t, 1.0, norm, 1e-5, "row %d must be unit length", i)
	}
}
