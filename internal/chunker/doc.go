// Package chunker divides file text into bounded spans for embedding and
// search.
//
// Two strategies are used. Files with a recognized source language are
// chunked structurally at block boundaries, targeting roughly 2 KiB per
// span. Files without a grammar, or files where the structural pass yields
// nothing, fall back to sentence chunking with a 350-word target and a
// 100-word overlap between consecutive spans.
//
// Spans whose re-tokenized length exceeds MaxChunkTokens are dropped rather
// than split. This loses content for pathological files (minified bundles,
// generated code) but keeps every persisted chunk within the embedding
// provider's limits.
//
// # Basic Usage
//
//	spans := chunker.Spans(text, filepath.Ext(path))
//	newlines := chunker.LineIndex(text)
//	for _, s := range spans {
//	    lineStart, lineEnd := chunker.SpanLines(newlines, s.Start, s.End)
//	    fmt.Printf("chunk %d-%d lines %d-%d\n", s.Start, s.End, lineStart, lineEnd)
//	}
package chunker
