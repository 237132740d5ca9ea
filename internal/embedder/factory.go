package embedder

import (
	"fmt"
	"strings"

	"github.com/repowiki/repowiki-mcp/internal/config"
)

// New creates an embedder from the embedding configuration.
func New(cfg config.EmbeddingConfig) (Embedder, error) {
	cache := NewCache(10000)

	switch strings.ToLower(cfg.Provider) {
	case ProviderOpenAI:
		return NewOpenAIProvider(cfg.APIKey, cache,
			WithModel(cfg.Model),
			WithBaseURL(cfg.BaseURL),
		)
	case ProviderLocal, "":
		return NewLocalProvider(cache)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedProvider, cfg.Provider)
	}
}
