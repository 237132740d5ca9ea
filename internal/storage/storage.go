package storage

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/repowiki/repowiki-mcp/pkg/types"
)

// Storage defines the interface for the project registry
type Storage interface {
	// Project operations
	CreateProject(ctx context.Context, project *Project) error
	GetProject(ctx context.Context, id uuid.UUID) (*Project, error)
	GetProjectByName(ctx context.Context, name string) (*Project, error)
	ListProjects(ctx context.Context) ([]*Project, error)
	UpdateProject(ctx context.Context, project *Project) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status types.Status, errMsg string) error
	DeleteProject(ctx context.Context, id uuid.UUID) error

	// Database operations
	Close() error
}

// Project represents a registered repository tracked by the wiki pipeline.
// Pipeline progress details (vector counts, index paths) live in the
// per-project status descriptor on disk; the registry row mirrors only the
// coarse status transitions.
type Project struct {
	ID          uuid.UUID
	Name        string
	Description string
	RepoURL     string
	Status      types.Status
	Error       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
