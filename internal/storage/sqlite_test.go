package storage

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/repowiki/repowiki-mcp/pkg/types"
)

func setupTestDB(t *testing.T) *SQLiteStorage {
	// Use in-memory database for testing
	storage, err := NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	require.NotNil(t, storage)
	t.Cleanup(func() { _ = storage.Close() })
	return storage
}

func TestNewSQLiteStorage(t *testing.T) {
	storage := setupTestDB(t)
	assert.NotNil(t, storage.db)
}

func TestCreateProject(t *testing.T) {
	storage := setupTestDB(t)
	ctx := context.Background()

	project := &Project{
		Name:        "demo",
		Description: "a demo repository",
		RepoURL:     "https://example.com/demo.git",
	}
	err := storage.CreateProject(ctx, project)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, project.ID)
	assert.Equal(t, types.StatusPending, project.Status)
	assert.False(t, project.CreatedAt.IsZero())

	// Duplicate name fails with ErrAlreadyExists.
	err = storage.CreateProject(ctx, &Project{Name: "demo"})
	assert.ErrorIs(t, err, ErrAlreadyExists)
}

func TestGetProject(t *testing.T) {
	storage := setupTestDB(t)
	ctx := context.Background()

	project := &Project{Name: "demo"}
	require.NoError(t, storage.CreateProject(ctx, project))

	got, err := storage.GetProject(ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, project.ID, got.ID)
	assert.Equal(t, "demo", got.Name)

	byName, err := storage.GetProjectByName(ctx, "demo")
	require.NoError(t, err)
	assert.Equal(t, project.ID, byName.ID)

	_, err = storage.GetProject(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = storage.GetProjectByName(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListProjects(t *testing.T) {
	storage := setupTestDB(t)
	ctx := context.Background()

	projects, err := storage.ListProjects(ctx)
	require.NoError(t, err)
	assert.Empty(t, projects)

	require.NoError(t, storage.CreateProject(ctx, &Project{Name: "one"}))
	require.NoError(t, storage.CreateProject(ctx, &Project{Name: "two"}))

	projects, err = storage.ListProjects(ctx)
	require.NoError(t, err)
	assert.Len(t, projects, 2)
}

func TestUpdateProject(t *testing.T) {
	storage := setupTestDB(t)
	ctx := context.Background()

	project := &Project{Name: "demo"}
	require.NoError(t, storage.CreateProject(ctx, project))

	project.Description = "updated"
	project.Status = types.StatusAnalyzing
	require.NoError(t, storage.UpdateProject(ctx, project))

	got, err := storage.GetProject(ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, "updated", got.Description)
	assert.Equal(t, types.StatusAnalyzing, got.Status)

	err = storage.UpdateProject(ctx, &Project{ID: uuid.New(), Name: "ghost"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateStatus(t *testing.T) {
	storage := setupTestDB(t)
	ctx := context.Background()

	project := &Project{Name: "demo"}
	require.NoError(t, storage.CreateProject(ctx, project))

	require.NoError(t, storage.UpdateStatus(ctx, project.ID, types.StatusFailed, "clone failed"))
	got, err := storage.GetProject(ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, types.StatusFailed, got.Status)
	assert.Equal(t, "clone failed", got.Error)

	// Non-failed transitions clear the error column.
	require.NoError(t, storage.UpdateStatus(ctx, project.ID, types.StatusGenerated, "stale"))
	got, err = storage.GetProject(ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, types.StatusGenerated, got.Status)
	assert.Empty(t, got.Error)

	assert.Error(t, storage.UpdateStatus(ctx, project.ID, types.Status("bogus"), ""))
	assert.ErrorIs(t, storage.UpdateStatus(ctx, uuid.New(), types.StatusGenerated, ""), ErrNotFound)
}

func TestDeleteProject(t *testing.T) {
	storage := setupTestDB(t)
	ctx := context.Background()

	project := &Project{Name: "demo"}
	require.NoError(t, storage.CreateProject(ctx, project))

	require.NoError(t, storage.DeleteProject(ctx, project.ID))
	_, err := storage.GetProject(ctx, project.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, storage.DeleteProject(ctx, project.ID), ErrNotFound)
}
