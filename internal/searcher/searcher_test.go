package searcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/repowiki/repowiki-mcp/internal/embedder"
	"github.com/repowiki/repowiki-mcp/internal/index"
	"github.com/repowiki/repowiki-mcp/internal/layout"
	"github.com/repowiki/repowiki-mcp/pkg/types"
)

// fixture writes a two-row index over a.py and b.md using the local
// embedder, so query ranking follows lexical overlap.
type fixture struct {
	layout layout.Layout
	id     uuid.UUID
	emb    embedder.Embedder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	l := layout.New(t.TempDir())
	id := uuid.New()
	emb, err := embedder.NewLocalProvider(nil)
	require.NoError(t, err)

	f := &fixture{layout: l, id: id, emb: emb}
	f.writeSource(t, "a.py", "def f(): pass")
	f.writeSource(t, "b.md", "# Title\nHello")
	f.buildIndex(t)
	return f
}

func (f *fixture) writeSource(t *testing.T, rel, content string) {
	t.Helper()
	full := filepath.Join(f.layout.SourceDir(f.id), filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
}

func (f *fixture) buildIndex(t *testing.T) {
	t.Helper()
	srcDir := f.layout.SourceDir(f.id)

	var (
		texts   []string
		records []types.ChunkRecord
	)
	for _, rel := range []string{"a.py", "b.md"} {
		data, err := os.ReadFile(filepath.Join(srcDir, rel))
		require.NoError(t, err)
		text := string(data)
		texts = append(texts, text)
		records = append(records, types.ChunkRecord{
			File: rel, CharStart: 0, CharEnd: len(text),
			LineStart: 1, LineEnd: 2, Preview: text,
		})
	}

	vecs, err := f.emb.EmbedBatch(context.Background(), texts)
	require.NoError(t, err)
	var flat []float32
	for _, v := range vecs {
		flat = append(flat, index.NormalizeL2(v)...)
	}
	meta := index.Meta{
		Dimension: f.emb.Dimension(),
		Count:     len(records),
		ProjectID: f.id.String(),
		Items:     records,
	}
	require.NoError(t, index.WritePair(f.layout.VectorPath(f.id), f.layout.MetaPath(f.id), meta, flat))
}

func TestSearchRanksLexicalMatchFirst(t *testing.T) {
	f := newFixture(t)
	m := NewManager(f.layout, f.emb)

	results, err := m.Search(context.Background(), f.id, "Title", 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "b.md", results[0].File)
	assert.Greater(t, results[0].Score, results[1].Score)
	assert.Equal(t, "# Title\nHello", results[0].Content)
	assert.Contains(t, results[0].Title, "b.md L1-2")
	assert.False(t, results[0].IsCode)
}

func TestSearchNotBuilt(t *testing.T) {
	l := layout.New(t.TempDir())
	emb, err := embedder.NewLocalProvider(nil)
	require.NoError(t, err)
	m := NewManager(l, emb)

	_, err = m.Search(context.Background(), uuid.New(), "anything", 3)
	assert.ErrorIs(t, err, index.ErrNotBuilt)
}

func TestSearchEmptyIndex(t *testing.T) {
	l := layout.New(t.TempDir())
	id := uuid.New()
	emb, err := embedder.NewLocalProvider(nil)
	require.NoError(t, err)
	require.NoError(t, index.WriteEmpty(l.VectorPath(id), l.MetaPath(id), index.Meta{ProjectID: id.String()}))

	m := NewManager(l, emb)
	results, err := m.Search(context.Background(), id, "anything", 3)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchReloadsOnRebuild(t *testing.T) {
	f := newFixture(t)
	m := NewManager(f.layout, f.emb)
	ctx := context.Background()

	first, err := m.Search(ctx, f.id, "Title", 5)
	require.NoError(t, err)
	require.Len(t, first, 2)

	// Rebuild with an extra file; mtimes must differ for staleness to trip.
	time.Sleep(10 * time.Millisecond)
	f.writeSource(t, "c.md", "Another Title document")
	f.rebuildWith(t, []string{"a.py", "b.md", "c.md"})

	second, err := m.Search(ctx, f.id, "Title", 5)
	require.NoError(t, err)
	assert.Len(t, second, 3, "searcher must pick up the rebuilt index")
}

func (f *fixture) rebuildWith(t *testing.T, rels []string) {
	t.Helper()
	srcDir := f.layout.SourceDir(f.id)
	var (
		texts   []string
		records []types.ChunkRecord
	)
	for _, rel := range rels {
		data, err := os.ReadFile(filepath.Join(srcDir, rel))
		require.NoError(t, err)
		texts = append(texts, string(data))
		records = append(records, types.ChunkRecord{
			File: rel, CharStart: 0, CharEnd: len(data),
			LineStart: 1, LineEnd: 1, Preview: string(data),
		})
	}
	vecs, err := f.emb.EmbedBatch(context.Background(), texts)
	require.NoError(t, err)
	var flat []float32
	for _, v := range vecs {
		flat = append(flat, index.NormalizeL2(v)...)
	}
	meta := index.Meta{
		Dimension: f.emb.Dimension(),
		Count:     len(records),
		ProjectID: f.id.String(),
		Items:     records,
	}
	require.NoError(t, index.WritePair(f.layout.VectorPath(f.id), f.layout.MetaPath(f.id), meta, flat))
}

func TestSnippetFallsBackToPreview(t *testing.T) {
	f := newFixture(t)
	m := NewManager(f.layout, f.emb)
	ctx := context.Background()

	// Remove the backing file; the persisted preview still serves.
	require.NoError(t, os.Remove(filepath.Join(f.layout.SourceDir(f.id), "b.md")))
	results, err := m.Search(ctx, f.id, "Title", 2)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "# Title\nHello", results[0].Content)
}

func TestManagerEvict(t *testing.T) {
	f := newFixture(t)
	m := NewManager(f.layout, f.emb)
	ctx := context.Background()

	_, err := m.Search(ctx, f.id, "Title", 1)
	require.NoError(t, err)

	m.Evict(f.id)
	_, err = m.Search(ctx, f.id, "Title", 1)
	require.NoError(t, err, "a fresh searcher is created after eviction")
}
