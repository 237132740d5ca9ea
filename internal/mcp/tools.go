package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/repowiki/repowiki-mcp/internal/index"
	"github.com/repowiki/repowiki-mcp/internal/pipeline"
	"github.com/repowiki/repowiki-mcp/internal/sitemap"
	"github.com/repowiki/repowiki-mcp/internal/storage"
)

// MCP error codes
const (
	ErrorCodeInvalidParams   = -32602 // Invalid method parameters
	ErrorCodeInternalError   = -32603 // Internal JSON-RPC error
	ErrorCodeProjectNotFound = -32001 // Project is not registered
	ErrorCodeAlreadyExists   = -32002 // Project name already registered
	ErrorCodeNotIndexed      = -32003 // Project index not built yet
	ErrorCodeEmptyQuery      = -32004 // Query parameter is empty
)

// handleRegisterProject handles the register_project tool invocation
func (s *Server) handleRegisterProject(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	name, ok := args["name"].(string)
	if !ok || name == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "name parameter is required", map[string]interface{}{
			"param":  "name",
			"reason": "missing or empty",
		})
	}

	project := &storage.Project{
		Name:        name,
		Description: getStringDefault(args, "description", ""),
		RepoURL:     getStringDefault(args, "repo_url", ""),
	}
	if err := s.storage.CreateProject(ctx, project); err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return nil, newMCPError(ErrorCodeAlreadyExists, "project name already registered", map[string]interface{}{
				"name": name,
			})
		}
		return nil, newMCPError(ErrorCodeInternalError, "failed to register project", map[string]interface{}{
			"error": err.Error(),
		})
	}

	sourceDir := s.layout.SourceDir(project.ID)
	if err := os.MkdirAll(sourceDir, 0o755); err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to create source directory", map[string]interface{}{
			"error": err.Error(),
		})
	}

	return mcp.NewToolResultText(formatJSON(map[string]interface{}{
		"id":         project.ID.String(),
		"name":       project.Name,
		"status":     string(project.Status),
		"source_dir": sourceDir,
		"message":    "Place the repository source tree under source_dir, then call index_project.",
	})), nil
}

// handleListProjects handles the list_projects tool invocation
func (s *Server) handleListProjects(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projects, err := s.storage.ListProjects(ctx)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to list projects", map[string]interface{}{
			"error": err.Error(),
		})
	}

	rows := make([]map[string]interface{}, 0, len(projects))
	for _, p := range projects {
		rows = append(rows, map[string]interface{}{
			"id":       p.ID.String(),
			"name":     p.Name,
			"status":   string(p.Status),
			"repo_url": p.RepoURL,
			"running":  s.orchestrator.Running(p.ID),
		})
	}
	return mcp.NewToolResultText(formatJSON(map[string]interface{}{
		"projects": rows,
		"count":    len(rows),
	})), nil
}

// handleIndexProject handles the index_project tool invocation
func (s *Server) handleIndexProject(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	project, mcpErr := s.resolveProject(ctx, request)
	if mcpErr != nil {
		return nil, mcpErr
	}

	started := s.orchestrator.Launch(project.ID)
	return mcp.NewToolResultText(formatJSON(map[string]interface{}{
		"id":      project.ID.String(),
		"name":    project.Name,
		"started": started,
		"message": launchMessage(started),
	})), nil
}

func launchMessage(started bool) string {
	if started {
		return "Pipeline run launched. Poll project_status for progress."
	}
	return "A pipeline run is already active for this project; launch was a no-op."
}

// handleProjectStatus handles the project_status tool invocation
func (s *Server) handleProjectStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	project, mcpErr := s.resolveProject(ctx, request)
	if mcpErr != nil {
		return nil, mcpErr
	}

	desc := pipeline.ReadStatus(s.layout.StatusPath(project.ID))
	response := map[string]interface{}{
		"id":         project.ID.String(),
		"name":       project.Name,
		"status":     string(desc.Status),
		"updated_at": desc.UpdatedAt,
		"running":    s.orchestrator.Running(project.ID),
	}
	if desc.StartedAt != "" {
		response["started_at"] = desc.StartedAt
	}
	if desc.CompletedAt != "" {
		response["completed_at"] = desc.CompletedAt
	}
	if desc.VectorCount != nil {
		response["vector_count"] = *desc.VectorCount
	}
	if desc.FileCount != nil {
		response["file_count"] = *desc.FileCount
	}
	if desc.IndexPath != "" {
		response["index_path"] = desc.IndexPath
	}
	if desc.Error != "" {
		response["error"] = desc.Error
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleSearchProject handles the search_project tool invocation
func (s *Server) handleSearchProject(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	project, mcpErr := s.resolveProject(ctx, request)
	if mcpErr != nil {
		return nil, mcpErr
	}

	args, _ := request.Params.Arguments.(map[string]interface{})
	query, ok := args["query"].(string)
	if !ok || query == "" {
		return nil, newMCPError(ErrorCodeEmptyQuery, "query parameter is required and cannot be empty", map[string]interface{}{
			"param":  "query",
			"reason": "missing or empty",
		})
	}
	limit := getIntDefault(args, "limit", 0)
	if limit < 0 || limit > 50 {
		return nil, newMCPError(ErrorCodeInvalidParams, "limit must be between 1 and 50", map[string]interface{}{
			"param": "limit",
			"value": limit,
		})
	}

	results, err := s.searchers.Search(ctx, project.ID, query, limit)
	if err != nil {
		if errors.Is(err, index.ErrNotBuilt) {
			return nil, newMCPError(ErrorCodeNotIndexed, "project index not built yet", map[string]interface{}{
				"id":      project.ID.String(),
				"message": "Run index_project first.",
			})
		}
		return nil, newMCPError(ErrorCodeInternalError, "search failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	rows := make([]map[string]interface{}, 0, len(results))
	for _, r := range results {
		rows = append(rows, map[string]interface{}{
			"score":      r.Score,
			"file":       r.File,
			"line_start": r.LineStart,
			"line_end":   r.LineEnd,
			"is_code":    r.IsCode,
			"title":      r.Title,
			"content":    r.Content,
		})
	}
	return mcp.NewToolResultText(formatJSON(map[string]interface{}{
		"query":   query,
		"results": rows,
		"count":   len(rows),
	})), nil
}

// handleGetSiteMap handles the get_site_map tool invocation
func (s *Server) handleGetSiteMap(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	project, mcpErr := s.resolveProject(ctx, request)
	if mcpErr != nil {
		return nil, mcpErr
	}

	tree := sitemap.Load(s.layout.SiteMapPath(project.ID))
	data, err := json.MarshalIndent(tree, "", "  ")
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to encode site map", map[string]interface{}{
			"error": err.Error(),
		})
	}
	return mcp.NewToolResultText(string(data)), nil
}

// handleDeleteProject handles the delete_project tool invocation
func (s *Server) handleDeleteProject(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	project, mcpErr := s.resolveProject(ctx, request)
	if mcpErr != nil {
		return nil, mcpErr
	}

	if err := s.storage.DeleteProject(ctx, project.ID); err != nil && !errors.Is(err, storage.ErrNotFound) {
		return nil, newMCPError(ErrorCodeInternalError, "failed to delete project", map[string]interface{}{
			"error": err.Error(),
		})
	}
	s.searchers.Evict(project.ID)

	// Data directories go last: an in-flight run re-checks the registry
	// row before writing, so removing the row first stops new output.
	for _, dir := range []string{
		s.layout.SourceDir(project.ID),
		s.layout.WikiDir(project.ID),
		s.layout.AnalysisDir(project.ID),
	} {
		if err := os.RemoveAll(dir); err != nil {
			s.logger.Warn("failed to remove project data", "path", dir, "error", err)
		}
	}

	return mcp.NewToolResultText(formatJSON(map[string]interface{}{
		"id":      project.ID.String(),
		"name":    project.Name,
		"deleted": true,
	})), nil
}

// resolveProject extracts the "project" parameter (UUID or name) and loads
// the matching registry row.
func (s *Server) resolveProject(ctx context.Context, request mcp.CallToolRequest) (*storage.Project, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}
	ref, ok := args["project"].(string)
	if !ok || ref == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "project parameter is required", map[string]interface{}{
			"param":  "project",
			"reason": "missing or empty",
		})
	}

	var (
		project *storage.Project
		err     error
	)
	if id, parseErr := uuid.Parse(ref); parseErr == nil {
		project, err = s.storage.GetProject(ctx, id)
	} else {
		project, err = s.storage.GetProjectByName(ctx, ref)
	}
	if errors.Is(err, storage.ErrNotFound) {
		return nil, newMCPError(ErrorCodeProjectNotFound, "project not found", map[string]interface{}{
			"project": ref,
		})
	}
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to load project", map[string]interface{}{
			"error": err.Error(),
		})
	}
	return project, nil
}

// Helper functions

// newMCPError creates a properly formatted MCP error
func newMCPError(code int, message string, data interface{}) error {
	return &MCPError{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// MCPError represents an MCP protocol error
type MCPError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// formatJSON formats a map as indented JSON
func formatJSON(data map[string]interface{}) string {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(bytes)
}

// getIntDefault extracts an integer parameter with a default value
func getIntDefault(args map[string]interface{}, key string, defaultValue int) int {
	if val, ok := args[key].(float64); ok {
		return int(val)
	}
	if val, ok := args[key].(int); ok {
		return val
	}
	return defaultValue
}

// getStringDefault extracts a string parameter with a default value
func getStringDefault(args map[string]interface{}, key string, defaultValue string) string {
	if val, ok := args[key].(string); ok {
		return val
	}
	return defaultValue
}
