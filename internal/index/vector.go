package index

import (
	"math"
	"sort"
)

// NormalizeL2 returns a new vector scaled to unit L2 norm. A zero vector is
// returned unchanged (as a copy).
func NormalizeL2(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	out := make([]float32, len(v))
	n := math.Sqrt(sum)
	if n == 0 {
		copy(out, v)
		return out
	}
	inv := float32(1.0 / n)
	for i := range v {
		out[i] = v[i] * inv
	}
	return out
}

// Dot computes the inner product of two equal-length vectors.
func Dot(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, ErrVectorLengthMismatch
	}
	var dot float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
	}
	return dot, nil
}

// Hit is one row returned by a top-k search.
type Hit struct {
	Row   int
	Score float64
}

// Search runs exact inner-product search over all rows and returns the top
// k hits, best score first. With L2-normalized rows and query this
// approximates cosine similarity.
func (ix *Index) Search(query []float32, k int) ([]Hit, error) {
	if ix.Empty() {
		return nil, nil
	}
	if len(query) != ix.Meta.Dimension {
		return nil, ErrVectorLengthMismatch
	}
	if k <= 0 {
		return nil, nil
	}

	hits := make([]Hit, 0, ix.Meta.Count)
	for i := 0; i < ix.Meta.Count; i++ {
		score, err := Dot(query, ix.Row(i))
		if err != nil {
			return nil, err
		}
		hits = append(hits, Hit{Row: i, Score: score})
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].Row < hits[j].Row
	})
	if k < len(hits) {
		hits = hits[:k]
	}
	return hits, nil
}
