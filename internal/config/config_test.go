package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefault(t *testing.T) {
	cfg := NewDefault()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, ProviderLocal, cfg.Embedding.Provider)
	assert.Equal(t, 128, cfg.Embedding.BatchSize)
	assert.Equal(t, 8, cfg.Pipeline.GenerationWorkers)
	assert.Equal(t, 100_000, cfg.Pipeline.MaxFileTokens)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, ProviderLocal, cfg.Embedding.Provider)
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "repowiki.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
app:
  data_dir: /var/lib/repowiki
database:
  path: /var/lib/repowiki/projects.db
embedding:
  provider: local
  batch_size: 64
pipeline:
  generation_workers: 4
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/repowiki", cfg.App.DataDir)
	assert.Equal(t, "/var/lib/repowiki/projects.db", cfg.Database.Path)
	assert.Equal(t, 64, cfg.Embedding.BatchSize)
	assert.Equal(t, 4, cfg.Pipeline.GenerationWorkers)
	assert.Equal(t, 100_000, cfg.Pipeline.MaxFileTokens, "unset values fall back to defaults")
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("REPOWIKI_DATA_DIR", "/data/override")
	t.Setenv("REPOWIKI_EMBEDDING_PROVIDER", "local")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "/data/override", cfg.App.DataDir)
	assert.Equal(t, ProviderLocal, cfg.Embedding.Provider)
}

func TestValidateOpenAIRequiresKey(t *testing.T) {
	cfg := NewDefault()
	cfg.Embedding.Provider = ProviderOpenAI
	cfg.Embedding.APIKey = ""
	assert.Error(t, cfg.Validate())

	cfg.Embedding.APIKey = "sk-test"
	assert.NoError(t, cfg.Validate())
}

func TestValidateRejectsUnknownProvider(t *testing.T) {
	cfg := NewDefault()
	cfg.Embedding.Provider = "quantum"
	assert.Error(t, cfg.Validate())
}
