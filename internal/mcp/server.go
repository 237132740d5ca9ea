package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mark3labs/mcp-go/server"

	"github.com/repowiki/repowiki-mcp/internal/config"
	"github.com/repowiki/repowiki-mcp/internal/embedder"
	"github.com/repowiki/repowiki-mcp/internal/generator"
	"github.com/repowiki/repowiki-mcp/internal/index"
	"github.com/repowiki/repowiki-mcp/internal/layout"
	"github.com/repowiki/repowiki-mcp/internal/pipeline"
	"github.com/repowiki/repowiki-mcp/internal/searcher"
	"github.com/repowiki/repowiki-mcp/internal/storage"
)

const (
	// ServerName is the MCP server name
	ServerName = "repowiki-mcp"
	// ServerVersion is the current server version
	ServerVersion = "1.0.0"
)

// Server wraps the MCP server with application dependencies
type Server struct {
	mcp          *server.MCPServer
	storage      storage.Storage
	layout       layout.Layout
	orchestrator *pipeline.Orchestrator
	searchers    *searcher.Manager
	logger       *slog.Logger
}

// NewServer wires the full application from configuration
func NewServer(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if err := os.MkdirAll(cfg.App.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	store, err := storage.NewSQLiteStorage(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	emb, err := embedder.New(cfg.Embedding)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to initialize embedder: %w", err)
	}

	l := layout.New(cfg.App.DataDir)

	builder := index.NewBuilder(index.BuilderConfig{
		Embedder:  emb,
		Logger:    logger,
		BatchSize: cfg.Embedding.BatchSize,
		Workers:   cfg.Pipeline.ChunkWorkers,
	})
	pool := generator.NewPool(generator.PoolConfig{
		Generator: generator.Static{},
		Logger:    logger,
		Workers:   cfg.Pipeline.GenerationWorkers,
		MaxTokens: cfg.Pipeline.MaxFileTokens,
	})
	orch := pipeline.New(pipeline.Config{
		Store:   store,
		Layout:  l,
		Builder: builder,
		Pool:    pool,
		Logger:  logger,
	})

	s := &Server{
		mcp:          server.NewMCPServer(ServerName, ServerVersion),
		storage:      store,
		layout:       l,
		orchestrator: orch,
		searchers:    searcher.NewManager(l, emb),
		logger:       logger,
	}
	s.registerTools()
	return s, nil
}

// Serve starts the MCP server on stdio and blocks until shutdown. Launched
// pipeline runs are joined before the database closes.
func (s *Server) Serve(ctx context.Context) error {
	defer func() {
		s.orchestrator.Wait()
		_ = s.storage.Close()
	}()
	return server.ServeStdio(s.mcp)
}

// registerTools registers all MCP tools
func (s *Server) registerTools() {
	s.mcp.AddTool(registerProjectTool(), s.handleRegisterProject)
	s.mcp.AddTool(listProjectsTool(), s.handleListProjects)
	s.mcp.AddTool(indexProjectTool(), s.handleIndexProject)
	s.mcp.AddTool(projectStatusTool(), s.handleProjectStatus)
	s.mcp.AddTool(searchProjectTool(), s.handleSearchProject)
	s.mcp.AddTool(getSiteMapTool(), s.handleGetSiteMap)
	s.mcp.AddTool(deleteProjectTool(), s.handleDeleteProject)
}
