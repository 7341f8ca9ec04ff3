package tools

import (
	"context"
	"fmt"

	"github.com/agentic-context/ace/internal/playbook"
	"github.com/mark3labs/mcp-go/mcp"
)

// CreateProjectTool handles the create_project MCP tool.
type CreateProjectTool struct {
	store *playbook.Store
}

// NewCreateProjectTool creates a CreateProjectTool.
func NewCreateProjectTool(store *playbook.Store) *CreateProjectTool {
	return &CreateProjectTool{store: store}
}

// Definition returns the MCP tool definition for create_project.
func (t *CreateProjectTool) Definition() mcp.Tool {
	return mcp.NewTool("create_project",
		mcp.WithDescription(
			"Create a new project scope with its own playbook and reflection "+
				"log. Project playbooks start empty and inherit global entries "+
				"when read.",
		),
		mcp.WithString("project_id",
			mcp.Required(),
			mcp.Description("Identifier for the new project (used in file names and entry tags)."),
		),
		mcp.WithString("description",
			mcp.Description("What this project is about."),
		),
	)
}

// Handle processes the create_project tool call.
func (t *CreateProjectTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projectID := req.GetString("project_id", "")
	if projectID == "" {
		return mcp.NewToolResultError("'project_id' is required"), nil
	}
	description := req.GetString("description", "")

	if err := t.store.CreateProject(projectID, description); err != nil {
		if msg, ok := domainError(err); ok {
			return mcp.NewToolResultError(msg), nil
		}
		return nil, fmt.Errorf("creating project: %w", err)
	}

	return mcp.NewToolResultText(fmt.Sprintf("Created project '%s'", projectID)), nil
}
