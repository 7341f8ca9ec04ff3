package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/agentic-context/ace/internal/playbook"
	"github.com/mark3labs/mcp-go/mcp"
)

// ListProjectsTool handles the list_projects MCP tool.
type ListProjectsTool struct {
	store *playbook.Store
}

// NewListProjectsTool creates a ListProjectsTool.
func NewListProjectsTool(store *playbook.Store) *ListProjectsTool {
	return &ListProjectsTool{store: store}
}

// Definition returns the MCP tool definition for list_projects.
func (t *ListProjectsTool) Definition() mcp.Tool {
	return mcp.NewTool("list_projects",
		mcp.WithDescription(
			"List all known projects with their descriptions. The 'global' "+
				"project always exists and is shared by every project scope.",
		),
	)
}

// Handle processes the list_projects tool call.
func (t *ListProjectsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projects, err := t.store.ListProjects()
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}

	var b strings.Builder
	b.WriteString("Projects:\n")
	for _, p := range projects {
		desc := p.Description
		if desc == "" {
			desc = "(no description)"
		}
		fmt.Fprintf(&b, "- %s: %s\n", p.ID, desc)
	}
	return mcp.NewToolResultText(strings.TrimSuffix(b.String(), "\n")), nil
}
