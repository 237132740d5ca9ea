// Package searcher serves retrieval queries over persisted vector indexes.
//
// The Manager caches one Searcher per project, created lazily on first
// query. Each Searcher keeps the loaded index pair and a small snippet
// cache in memory, serializes its operations with a per-project lock, and
// transparently reloads when the on-disk pair changes under it.
package searcher
