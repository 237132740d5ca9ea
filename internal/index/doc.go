// Package index builds, persists and queries the per-project vector index.
//
// An index is a pair of files: a raw little-endian float32 matrix
// (vectors.f32) and a JSON metadata sidecar (index_meta.json) carrying the
// dimension, the chunk records aligned row-for-row with the matrix, and the
// fingerprint manifest of the source tree the pair was built from. The pair
// is always replaced wholesale via temp-file renames; readers validate the
// matrix size against the sidecar, so a torn pair fails to load instead of
// serving mismatched rows.
package index
