package tools

import (
	"context"
	"fmt"

	"github.com/agentic-context/ace/internal/playbook"
	"github.com/mark3labs/mcp-go/mcp"
)

// RemoveEntryTool handles the remove_entry MCP tool.
type RemoveEntryTool struct {
	store *playbook.Store
}

// NewRemoveEntryTool creates a RemoveEntryTool.
func NewRemoveEntryTool(store *playbook.Store) *RemoveEntryTool {
	return &RemoveEntryTool{store: store}
}

// Definition returns the MCP tool definition for remove_entry.
func (t *RemoveEntryTool) Definition() mcp.Tool {
	return mcp.NewTool("remove_entry",
		mcp.WithDescription(
			"Remove an entry from the playbook by its ID. Use this to delete "+
				"entries that are no longer relevant or have been superseded by "+
				"better insights. The entry is found across all project playbooks.",
		),
		mcp.WithString("entry_id",
			mcp.Required(),
			mcp.Description("The entry ID to remove (e.g. 'str-00001')."),
		),
	)
}

// Handle processes the remove_entry tool call.
func (t *RemoveEntryTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	entryID := req.GetString("entry_id", "")
	if entryID == "" {
		return mcp.NewToolResultError("'entry_id' is required"), nil
	}

	if _, err := t.store.RemoveEntry(entryID); err != nil {
		if msg, ok := domainError(err); ok {
			return mcp.NewToolResultError(msg), nil
		}
		return nil, fmt.Errorf("removing entry: %w", err)
	}

	return mcp.NewToolResultText(fmt.Sprintf("Removed entry [%s]", entryID)), nil
}
