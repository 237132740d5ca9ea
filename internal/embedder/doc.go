// Package embedder generates vector embeddings for chunk texts and queries.
//
// Two providers are available: an OpenAI-compatible HTTP provider with
// exponential-backoff retry, and a deterministic local bag-of-words provider
// for offline use. Both share an LRU cache keyed by content hash.
//
// Vectors are returned raw; L2 normalization happens at index build and
// query time so inner-product search approximates cosine similarity.
package embedder
