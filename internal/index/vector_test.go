package index

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/repowiki/repowiki-mcp/pkg/types"
)

func TestNormalizeL2(t *testing.T) {
	v := []float32{3, 4}
	n := NormalizeL2(v)
	assert.InDelta(t, 0.6, n[0], 1e-6)
	assert.InDelta(t, 0.8, n[1], 1e-6)
	assert.Equal(t, []float32{3, 4}, v, "input must not be mutated")

	var norm float64
	for _, x := range n {
		norm += float64(x) * float64(x)
	}
	assert.InDelta(t, 1.0, math.Sqrt(norm), 1e-6)
}

func TestNormalizeL2ZeroVector(t *testing.T) {
	z := []float32{0, 0, 0}
	n := NormalizeL2(z)
	assert.Equal(t, []float32{0, 0, 0}, n)
}

func TestDot(t *testing.T) {
	got, err := Dot([]float32{1, 2, 3}, []float32{4, 5, 6})
	require.NoError(t, err)
	assert.InDelta(t, 32.0, got, 1e-9)

	_, err = Dot([]float32{1}, []float32{1, 2})
	assert.ErrorIs(t, err, ErrVectorLengthMismatch)
}

func testIndex(vectors [][]float32) *Index {
	dim := len(vectors[0])
	flat := make([]float32, 0, len(vectors)*dim)
	items := make([]types.ChunkRecord, len(vectors))
	for i, v := range vectors {
		flat = append(flat, NormalizeL2(v)...)
		items[i] = types.ChunkRecord{File: "f", CharStart: i, CharEnd: i + 1, LineStart: 1, LineEnd: 1}
	}
	return &Index{
		Meta:    Meta{Dimension: dim, Count: len(vectors), Items: items},
		Vectors: flat,
	}
}

func TestSearchRanking(t *testing.T) {
	ix := testIndex([][]float32{
		{1, 0, 0},
		{0, 1, 0},
		{0.9, 0.1, 0},
	})

	hits, err := ix.Search(NormalizeL2([]float32{1, 0, 0}), 2)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, 0, hits[0].Row)
	assert.Equal(t, 2, hits[1].Row)
	assert.Greater(t, hits[0].Score, hits[1].Score)
}

func TestSearchTieBreaksByRow(t *testing.T) {
	ix := testIndex([][]float32{
		{0, 1},
		{0, 1},
	})
	hits, err := ix.Search([]float32{0, 1}, 5)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, 0, hits[0].Row)
	assert.Equal(t, 1, hits[1].Row)
}

func TestSearchEdgeCases(t *testing.T) {
	empty := &Index{}
	hits, err := empty.Search([]float32{1}, 3)
	require.NoError(t, err)
	assert.Nil(t, hits)

	ix := testIndex([][]float32{{1, 0}})
	_, err = ix.Search([]float32{1, 0, 0}, 1)
	assert.ErrorIs(t, err, ErrVectorLengthMismatch)

	hits, err = ix.Search([]float32{1, 0}, 0)
	require.NoError(t, err)
	assert.Nil(t, hits)
}
