package embedder

import (
	"context"
	"hash/fnv"
	"strings"
	"unicode"
)

const (
	ProviderLocal  = "local"
	LocalDimension = 256
)

// LocalProvider embeds text as a hashed bag of words. It needs no network
// or credentials and is fully deterministic, which makes it usable offline
// and in tests; lexical overlap between texts translates into inner-product
// similarity.
type LocalProvider struct {
	cache *Cache
}

// NewLocalProvider creates a deterministic local embedder.
func NewLocalProvider(cache *Cache) (*LocalProvider, error) {
	return &LocalProvider{cache: cache}, nil
}

func (l *LocalProvider) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if err := ValidateBatch(texts); err != nil {
		return nil, err
	}
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		vectors[i] = l.embed(text)
	}
	return vectors, nil
}

func (l *LocalProvider) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, ErrEmptyText
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return l.embed(text), nil
}

// embed folds each lowercased word into a fixed bucket by FNV-1a hash.
func (l *LocalProvider) embed(text string) []float32 {
	hash := ComputeHash(text)
	if l.cache != nil {
		if v, ok := l.cache.Get(hash); ok {
			return v
		}
	}

	vector := make([]float32, LocalDimension)
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, w := range words {
		h := fnv.New32a()
		_, _ = h.Write([]byte(w))
		vector[h.Sum32()%LocalDimension]++
	}

	if l.cache != nil {
		l.cache.Set(hash, vector)
	}
	return vector
}

func (l *LocalProvider) Dimension() int {
	return LocalDimension
}

func (l *LocalProvider) Provider() string {
	return ProviderLocal
}

func (l *LocalProvider) Close() error {
	return nil
}
