package chunker

import (
	"strings"

	"github.com/repowiki/repowiki-mcp/internal/tokenizer"
)

// chunkStructural splits source code into spans at block boundaries. A block
// is a run of non-blank lines plus its trailing blank lines, which keeps
// declarations and their bodies together for most languages. Blocks are
// accumulated until the span reaches TargetBlockChars; a single block larger
// than the target becomes its own span. Whitespace-only spans are skipped.
func chunkStructural(text string) []Span {
	blocks := splitBlocks(text)
	if len(blocks) == 0 {
		return nil
	}

	var spans []Span
	start := blocks[0].start
	end := blocks[0].end
	for _, b := range blocks[1:] {
		if b.end-start > TargetBlockChars && end > start {
			spans = appendSpan(spans, text, start, end)
			start = b.start
		}
		end = b.end
	}
	spans = appendSpan(spans, text, start, end)
	return spans
}

// block is a half-open byte range covering one paragraph of code.
type block struct {
	start int
	end   int
}

// splitBlocks cuts text at blank-line boundaries. Leading blank lines attach
// to the following block so that consecutive blocks tile the text.
func splitBlocks(text string) []block {
	var blocks []block
	offset := 0
	start := -1
	sawContent := false

	flush := func(end int) {
		if start >= 0 && sawContent {
			blocks = append(blocks, block{start: start, end: end})
		}
		start = -1
		sawContent = false
	}

	for offset < len(text) {
		nl := strings.IndexByte(text[offset:], '\n')
		lineEnd := len(text)
		if nl >= 0 {
			lineEnd = offset + nl + 1
		}
		line := text[offset:lineEnd]
		blank := strings.TrimSpace(line) == ""

		if start < 0 {
			start = offset
		}
		if !blank {
			sawContent = true
		}
		// A blank line after content ends the block; the blank line itself
		// stays attached to the finished block.
		if blank && sawContent {
			flush(lineEnd)
		}
		offset = lineEnd
	}
	flush(len(text))
	return blocks
}

// appendSpan records [start, end) as a span if it has any non-whitespace
// content, trimming trailing whitespace from the recorded range.
func appendSpan(spans []Span, text string, start, end int) []Span {
	chunk := text[start:end]
	trimmed := strings.TrimRight(chunk, " \t\n\r")
	if strings.TrimSpace(trimmed) == "" {
		return spans
	}
	end = start + len(trimmed)
	return append(spans, Span{
		Start:  start,
		End:    end,
		Tokens: tokenizer.Words(text[start:end]),
	})
}
