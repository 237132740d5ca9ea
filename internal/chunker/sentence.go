package chunker

import (
	"strings"

	"github.com/repowiki/repowiki-mcp/internal/tokenizer"
)

// sentence is a half-open byte range ending at a sentence boundary.
type sentence struct {
	start int
	end   int
	words int
}

// chunkSentences is the fallback strategy for files with no recognized
// grammar: accumulate sentences to roughly ChunkWords words per span, with
// consecutive spans overlapping by up to ChunkWordOverlap words so context
// is not lost at boundaries.
func chunkSentences(text string) []Span {
	sentences := splitSentences(text)
	if len(sentences) == 0 {
		return nil
	}

	var spans []Span
	i := 0
	for i < len(sentences) {
		words := 0
		j := i
		for j < len(sentences) {
			words += sentences[j].words
			j++
			if words >= ChunkWords {
				break
			}
		}
		start := sentences[i].start
		end := sentences[j-1].end
		chunk := strings.TrimSpace(text[start:end])
		if chunk != "" {
			spans = append(spans, Span{
				Start:  start,
				End:    end,
				Tokens: tokenizer.Words(text[start:end]),
			})
		}
		if j >= len(sentences) {
			break
		}
		i = overlapFrom(sentences, j)
	}
	return spans
}

// overlapFrom walks backwards from next so the following chunk re-includes
// up to ChunkWordOverlap words of trailing context.
func overlapFrom(sentences []sentence, next int) int {
	words := 0
	i := next
	for i > 0 {
		words += sentences[i-1].words
		if words > ChunkWordOverlap {
			break
		}
		i--
	}
	if i == next {
		// Always make forward progress even when a single sentence exceeds
		// the overlap budget.
		return next
	}
	return i
}

// splitSentences cuts text at sentence terminators followed by whitespace
// and at paragraph breaks. Ranges tile the input.
func splitSentences(text string) []sentence {
	var out []sentence
	start := 0
	for i := 0; i < len(text); i++ {
		c := text[i]
		boundary := false
		switch c {
		case '.', '!', '?':
			if i+1 >= len(text) || text[i+1] == ' ' || text[i+1] == '\n' || text[i+1] == '\t' || text[i+1] == '\r' {
				boundary = true
			}
		case '\n':
			// Paragraph break: blank line terminates the sentence.
			if i+1 < len(text) && text[i+1] == '\n' {
				boundary = true
			}
		}
		if !boundary {
			continue
		}
		end := i + 1
		// Attach trailing whitespace to the finished sentence.
		for end < len(text) && (text[end] == ' ' || text[end] == '\n' || text[end] == '\t' || text[end] == '\r') {
			end++
		}
		if w := tokenizer.Words(text[start:end]); w > 0 {
			out = append(out, sentence{start: start, end: end, words: w})
		}
		start = end
		i = end - 1
	}
	if start < len(text) {
		if w := tokenizer.Words(text[start:]); w > 0 {
			out = append(out, sentence{start: start, end: len(text), words: w})
		}
	}
	return out
}
