package chunker

import (
	"sort"
	"strings"

	"github.com/repowiki/repowiki-mcp/internal/tokenizer"
)

const (
	// TargetBlockChars is the size target for structural code chunks.
	TargetBlockChars = 2048

	// ChunkWords is the word target for fallback sentence chunks.
	ChunkWords = 350

	// ChunkWordOverlap is the word overlap between consecutive sentence
	// chunks.
	ChunkWordOverlap = 100

	// MaxChunkTokens is the hard ceiling per chunk. Spans above it are
	// dropped, not split.
	MaxChunkTokens = 4000
)

// Span is one embeddable region of a file: byte offsets into the text and an
// approximate size in tokens.
type Span struct {
	Start  int
	End    int
	Tokens int
}

// Spans splits text into chunk spans for the file extension ext. Recognized
// source languages go through structural chunking; everything else, or a
// structural pass that yields nothing, falls back to sentence chunking.
// Empty or whitespace-only text yields no spans.
func Spans(text, ext string) []Span {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	var spans []Span
	if _, ok := LanguageForExt(ext); ok {
		spans = chunkStructural(text)
	}
	if len(spans) == 0 {
		spans = chunkSentences(text)
	}
	return dropOversized(text, spans)
}

// dropOversized removes spans whose re-tokenized length exceeds the ceiling.
// Oversized spans are lost content; callers log the count.
func dropOversized(text string, spans []Span) []Span {
	kept := spans[:0]
	for _, s := range spans {
		if tokenizer.Count(text[s.Start:s.End]) <= MaxChunkTokens {
			kept = append(kept, s)
		}
	}
	if len(kept) == 0 {
		return nil
	}
	return kept
}

// Dropped returns how many of the candidate spans for text would be removed
// by the token ceiling.
func Dropped(text, ext string) int {
	if strings.TrimSpace(text) == "" {
		return 0
	}
	var spans []Span
	if _, ok := LanguageForExt(ext); ok {
		spans = chunkStructural(text)
	}
	if len(spans) == 0 {
		spans = chunkSentences(text)
	}
	dropped := 0
	for _, s := range spans {
		if tokenizer.Count(text[s.Start:s.End]) > MaxChunkTokens {
			dropped++
		}
	}
	return dropped
}

// LineIndex returns the byte offsets of every newline in text. Used with
// SpanLines to map byte spans to 1-based line ranges.
func LineIndex(text string) []int {
	var idx []int
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			idx = append(idx, i)
		}
	}
	return idx
}

// SpanLines converts a byte span to an inclusive 1-based line range.
func SpanLines(newlines []int, start, end int) (int, int) {
	lineStart := sort.SearchInts(newlines, start) + 1
	lineEnd := sort.SearchInts(newlines, end) + 1
	if lineEnd < lineStart {
		lineEnd = lineStart
	}
	return lineStart, lineEnd
}

// Preview returns the first three lines of a chunk for result listings.
func Preview(chunk string) string {
	lines := strings.Split(chunk, "\n")
	if len(lines) > 3 {
		lines = lines[:3]
	}
	return strings.Join(lines, "\n")
}
