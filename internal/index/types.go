package index

import (
	"github.com/repowiki/repowiki-mcp/pkg/types"
)

// Meta is the metadata sidecar persisted next to the vector artifact. The
// two files form one logical unit and are replaced together on rebuild.
type Meta struct {
	Dimension int                `json:"dimension"`
	Count     int                `json:"count"`
	ProjectID string             `json:"project_id"`
	CreatedAt string             `json:"created_at"`
	Items     []types.ChunkRecord `json:"items"`
	Files     types.Manifest     `json:"files"`
}

// Index is a loaded vector index: metadata plus row-major float32 vectors.
// Row i of Vectors corresponds to Items[i].
type Index struct {
	Meta    Meta
	Vectors []float32
}

// Empty reports whether the index holds no vectors, the valid terminal
// state for a project with no embeddable content.
func (ix *Index) Empty() bool {
	return ix.Meta.Count == 0
}

// Row returns vector row i.
func (ix *Index) Row(i int) []float32 {
	d := ix.Meta.Dimension
	return ix.Vectors[i*d : (i+1)*d]
}
