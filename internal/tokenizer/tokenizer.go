// Package tokenizer implements a deterministic, reversible tokenizer.
//
// Tokens are maximal runs of whitespace or non-whitespace bytes, so decoding
// the token stream reproduces the input exactly. The tokenizer backs the
// chunk token ceiling and the generation input truncation, where the
// requirement is reproducibility rather than model-accurate token counts.
package tokenizer

import (
	"strings"
	"unicode"
)

// Encode splits text into tokens. Concatenating the tokens yields text.
func Encode(text string) []string {
	if text == "" {
		return nil
	}
	var tokens []string
	start := 0
	inSpace := false
	for i, r := range text {
		isSpace := unicode.IsSpace(r)
		if i == 0 {
			inSpace = isSpace
			continue
		}
		if isSpace != inSpace {
			tokens = append(tokens, text[start:i])
			start = i
			inSpace = isSpace
		}
	}
	tokens = append(tokens, text[start:])
	return tokens
}

// Decode reassembles tokens into the original text.
func Decode(tokens []string) string {
	return strings.Join(tokens, "")
}

// Count returns the number of tokens in text without allocating them.
func Count(text string) int {
	n := 0
	inSpace := false
	first := true
	for _, r := range text {
		isSpace := unicode.IsSpace(r)
		if first || isSpace != inSpace {
			n++
			inSpace = isSpace
			first = false
		}
	}
	return n
}

// Truncate returns text cut to at most maxTokens tokens. The result is the
// decoded prefix of the token stream, so re-encoding it yields exactly the
// first maxTokens tokens.
func Truncate(text string, maxTokens int) string {
	if maxTokens <= 0 {
		return ""
	}
	tokens := Encode(text)
	if len(tokens) <= maxTokens {
		return text
	}
	return Decode(tokens[:maxTokens])
}

// Words returns the number of non-whitespace tokens in text.
func Words(text string) int {
	return len(strings.FieldsFunc(text, unicode.IsSpace))
}
