package tools

import (
	"context"
	"fmt"

	"github.com/agentic-context/ace/internal/playbook"
	"github.com/mark3labs/mcp-go/mcp"
)

// GetSectionTool handles the get_section MCP tool.
type GetSectionTool struct {
	store *playbook.Store
}

// NewGetSectionTool creates a GetSectionTool.
func NewGetSectionTool(store *playbook.Store) *GetSectionTool {
	return &GetSectionTool{store: store}
}

// Definition returns the MCP tool definition for get_section.
func (t *GetSectionTool) Definition() mcp.Tool {
	return mcp.NewTool("get_section",
		mcp.WithDescription(
			"Get all entries from a specific section of the playbook.",
		),
		mcp.WithString("section",
			mcp.Required(),
			mcp.Description("The section name."),
			mcp.Enum(playbook.SectionOrder...),
		),
		mcp.WithString("project_id",
			mcp.Description("Project scope to read. Defaults to 'global'."),
			mcp.DefaultString(playbook.GlobalProject),
		),
	)
}

// Handle processes the get_section tool call.
func (t *GetSectionTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	section := req.GetString("section", "")
	projectID := req.GetString("project_id", playbook.GlobalProject)

	text, err := t.store.Section(section, projectID)
	if err != nil {
		if msg, ok := domainError(err); ok {
			return mcp.NewToolResultError(msg), nil
		}
		return nil, fmt.Errorf("reading section: %w", err)
	}
	return mcp.NewToolResultText(text), nil
}
