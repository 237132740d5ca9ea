// Package config provides YAML-based configuration with environment
// variable expansion and .env loading.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Embedding provider names.
const (
	ProviderOpenAI = "openai"
	ProviderLocal  = "local"
)

// Config represents the server configuration.
type Config struct {
	App       AppConfig       `yaml:"app"`
	Database  DatabaseConfig  `yaml:"database"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Pipeline  PipelineConfig  `yaml:"pipeline"`
}

// AppConfig holds application-level settings.
type AppConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	DataDir  string     `yaml:"data_dir"`
}

// Validate validates the application configuration.
func (c *AppConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.DataDir, validation.Required),
	)
}

// DatabaseConfig holds the SQLite project database location.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the database configuration.
func (c *DatabaseConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// EmbeddingConfig holds embedding provider settings.
type EmbeddingConfig struct {
	Provider  string `yaml:"provider"`
	APIKey    string `yaml:"api_key"`
	BaseURL   string `yaml:"base_url"`
	Model     string `yaml:"model"`
	BatchSize int    `yaml:"batch_size"`
}

// Validate validates the embedding configuration.
func (c *EmbeddingConfig) Validate() error {
	if c.Provider == "" {
		c.Provider = ProviderLocal
	}
	if c.BatchSize <= 0 {
		c.BatchSize = 128
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Provider, validation.Required, validation.In(ProviderOpenAI, ProviderLocal)),
		validation.Field(&c.BatchSize, validation.Min(1), validation.Max(2048)),
	); err != nil {
		return err
	}
	if c.Provider == ProviderOpenAI && c.APIKey == "" {
		return fmt.Errorf("embedding: provider is %q but api_key is empty", ProviderOpenAI)
	}
	return nil
}

// PipelineConfig bounds the background pipeline worker pools.
type PipelineConfig struct {
	ChunkWorkers      int `yaml:"chunk_workers"`
	GenerationWorkers int `yaml:"generation_workers"`
	MaxFileTokens     int `yaml:"max_file_tokens"`
}

// Validate validates the pipeline configuration.
func (c *PipelineConfig) Validate() error {
	if c.ChunkWorkers <= 0 {
		c.ChunkWorkers = runtime.NumCPU()
	}
	if c.GenerationWorkers <= 0 {
		c.GenerationWorkers = 8
	}
	if c.MaxFileTokens <= 0 {
		c.MaxFileTokens = 100_000
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.GenerationWorkers, validation.Min(1), validation.Max(64)),
	)
}

// Validate validates the whole configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Database.Validate(); err != nil {
		return err
	}
	if err := c.Embedding.Validate(); err != nil {
		return err
	}
	return c.Pipeline.Validate()
}

// NewDefault returns a Config with sensible default values.
func NewDefault() *Config {
	cfg := &Config{
		App: AppConfig{
			LogLevel: slog.LevelInfo,
			DataDir:  "./data",
		},
		Database: DatabaseConfig{
			Path: "./data/repowiki.db",
		},
		Embedding: EmbeddingConfig{
			Provider:  ProviderLocal,
			BatchSize: 128,
		},
		Pipeline: PipelineConfig{
			ChunkWorkers:      runtime.NumCPU(),
			GenerationWorkers: 8,
			MaxFileTokens:     100_000,
		},
	}
	return cfg
}

// Load reads configuration from a YAML file with environment variable
// expansion. A .env file next to the working directory is loaded first when
// present. A missing config file yields defaults overridden by environment.
func Load(filename string) (*Config, error) {
	// Ignore a missing .env; it is a local development convenience.
	_ = godotenv.Load()

	cfg := NewDefault()

	if filename != "" {
		data, err := os.ReadFile(filename)
		switch {
		case errors.Is(err, os.ErrNotExist):
			// fall through to env-only configuration
		case err != nil:
			return nil, fmt.Errorf("failed to read config file %s: %w", filename, err)
		default:
			expanded := os.ExpandEnv(string(data))
			if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file %s: %w", filename, err)
			}
		}
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// applyEnv overrides file values with REPOWIKI_* environment variables.
func applyEnv(cfg *Config) {
	if v := os.Getenv("REPOWIKI_DATA_DIR"); v != "" {
		cfg.App.DataDir = v
	}
	if v := os.Getenv("REPOWIKI_DB_PATH"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("REPOWIKI_EMBEDDING_PROVIDER"); v != "" {
		cfg.Embedding.Provider = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" && cfg.Embedding.APIKey == "" {
		cfg.Embedding.APIKey = v
	}
	if v := os.Getenv("OPENAI_BASE_URL"); v != "" && cfg.Embedding.BaseURL == "" {
		cfg.Embedding.BaseURL = v
	}
}
