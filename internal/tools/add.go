package tools

import (
	"context"
	"fmt"

	"github.com/agentic-context/ace/internal/playbook"
	"github.com/mark3labs/mcp-go/mcp"
)

// AddEntryTool handles the add_entry MCP tool.
type AddEntryTool struct {
	store *playbook.Store
}

// NewAddEntryTool creates an AddEntryTool.
func NewAddEntryTool(store *playbook.Store) *AddEntryTool {
	return &AddEntryTool{store: store}
}

// Definition returns the MCP tool definition for add_entry.
func (t *AddEntryTool) Definition() mcp.Tool {
	return mcp.NewTool("add_entry",
		mcp.WithDescription(
			"Add a new entry to the playbook with an auto-generated ID and both "+
				"counters set to 0. Use this after learning something new — a useful "+
				"strategy, formula, common mistake to avoid, or domain-specific knowledge.",
		),
		mcp.WithString("section",
			mcp.Required(),
			mcp.Description("The section to add to."),
			mcp.Enum(playbook.SectionOrder...),
		),
		mcp.WithString("content",
			mcp.Required(),
			mcp.Description("The insight, formula, or knowledge to add (one line)."),
		),
		mcp.WithString("project_id",
			mcp.Description("Project scope to add to. Defaults to 'global'."),
			mcp.DefaultString(playbook.GlobalProject),
		),
	)
}

// Handle processes the add_entry tool call.
func (t *AddEntryTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	section := req.GetString("section", "")
	content := req.GetString("content", "")
	projectID := req.GetString("project_id", playbook.GlobalProject)

	if content == "" {
		return mcp.NewToolResultError("'content' is required"), nil
	}

	newID, err := t.store.AddEntry(section, content, projectID)
	if err != nil {
		if msg, ok := domainError(err); ok {
			return mcp.NewToolResultError(msg), nil
		}
		return nil, fmt.Errorf("adding entry: %w", err)
	}

	return mcp.NewToolResultText(fmt.Sprintf("Added entry [%s] to '%s'", newID, section)), nil
}
