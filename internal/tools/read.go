package tools

import (
	"context"
	"fmt"

	"github.com/agentic-context/ace/internal/playbook"
	"github.com/mark3labs/mcp-go/mcp"
)

// ReadPlaybookTool handles the read_playbook MCP tool.
type ReadPlaybookTool struct {
	store *playbook.Store
}

// NewReadPlaybookTool creates a ReadPlaybookTool.
func NewReadPlaybookTool(store *playbook.Store) *ReadPlaybookTool {
	return &ReadPlaybookTool{store: store}
}

// Definition returns the MCP tool definition for read_playbook.
func (t *ReadPlaybookTool) Definition() mcp.Tool {
	return mcp.NewTool("read_playbook",
		mcp.WithDescription(
			"Return the full current playbook content. For a named project this is "+
				"the merged view: global entries first, then the project's own entries "+
				"tagged with their project ID. The playbook is the evolving context "+
				"that improves task performance over time.",
		),
		mcp.WithString("project_id",
			mcp.Description("Project scope to read. Defaults to 'global'."),
			mcp.DefaultString(playbook.GlobalProject),
		),
	)
}

// Handle processes the read_playbook tool call.
func (t *ReadPlaybookTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projectID := req.GetString("project_id", playbook.GlobalProject)

	content, err := t.store.Read(projectID)
	if err != nil {
		return nil, fmt.Errorf("reading playbook: %w", err)
	}
	return mcp.NewToolResultText(content), nil
}
