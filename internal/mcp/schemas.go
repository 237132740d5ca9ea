package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// projectProperty is the shared "project" parameter: UUID or unique name.
func projectProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Project UUID or unique project name",
	}
}

// registerProjectTool returns the tool definition for register_project
func registerProjectTool() mcp.Tool {
	return mcp.Tool{
		Name:        "register_project",
		Description: "Register a repository for documentation; returns the project id and the directory where its source tree must be placed",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"name": map[string]interface{}{
					"type":        "string",
					"description": "Unique project name",
				},
				"description": map[string]interface{}{
					"type":        "string",
					"description": "Free-form project description",
				},
				"repo_url": map[string]interface{}{
					"type":        "string",
					"description": "Origin repository URL, informational only",
				},
			},
			Required: []string{"name"},
		},
	}
}

// listProjectsTool returns the tool definition for list_projects
func listProjectsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "list_projects",
		Description: "List all registered projects with their pipeline status",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}

// indexProjectTool returns the tool definition for index_project
func indexProjectTool() mcp.Tool {
	return mcp.Tool{
		Name:        "index_project",
		Description: "Launch the documentation pipeline for a project: index refresh, site map, page generation. A launch while a run is active is a no-op",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"project": projectProperty(),
			},
			Required: []string{"project"},
		},
	}
}

// projectStatusTool returns the tool definition for project_status
func projectStatusTool() mcp.Tool {
	return mcp.Tool{
		Name:        "project_status",
		Description: "Query pipeline status and index statistics for a project",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"project": projectProperty(),
			},
			Required: []string{"project"},
		},
	}
}

// searchProjectTool returns the tool definition for search_project
func searchProjectTool() mcp.Tool {
	return mcp.Tool{
		Name:        "search_project",
		Description: "Semantic search over a project's indexed source",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"project": projectProperty(),
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Natural language or keyword query",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of results to return (1-50)",
					"default":     8,
					"minimum":     1,
					"maximum":     50,
				},
			},
			Required: []string{"project", "query"},
		},
	}
}

// getSiteMapTool returns the tool definition for get_site_map
func getSiteMapTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_site_map",
		Description: "Return the persisted documentation site map for a project",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"project": projectProperty(),
			},
			Required: []string{"project"},
		},
	}
}

// deleteProjectTool returns the tool definition for delete_project
func deleteProjectTool() mcp.Tool {
	return mcp.Tool{
		Name:        "delete_project",
		Description: "Delete a project: its registry row, source tree, index and generated wiki",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"project": projectProperty(),
			},
			Required: []string{"project"},
		},
	}
}
