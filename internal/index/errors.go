package index

import "errors"

var (
	// ErrNotBuilt indicates the index pair does not exist on disk yet.
	ErrNotBuilt = errors.New("index not built")

	// ErrNoEmbeddings indicates every embedding batch failed during a
	// build. Distinct from the no-embeddable-content case, which persists
	// an empty descriptor and is not an error.
	ErrNoEmbeddings = errors.New("failed to generate any embeddings")

	// ErrVectorLengthMismatch indicates two vectors have different
	// dimensions.
	ErrVectorLengthMismatch = errors.New("vector length mismatch")
)
