package tools

import (
	"context"
	"fmt"

	"github.com/agentic-context/ace/internal/playbook"
	"github.com/mark3labs/mcp-go/mcp"
)

// UpdateCountersTool handles the update_counters MCP tool.
type UpdateCountersTool struct {
	store *playbook.Store
}

// NewUpdateCountersTool creates an UpdateCountersTool.
func NewUpdateCountersTool(store *playbook.Store) *UpdateCountersTool {
	return &UpdateCountersTool{store: store}
}

// Definition returns the MCP tool definition for update_counters.
func (t *UpdateCountersTool) Definition() mcp.Tool {
	return mcp.NewTool("update_counters",
		mcp.WithDescription(
			"Update the helpful/harmful counters for an entry. Call this after "+
				"using an entry to track whether it was helpful or harmful. Positive "+
				"deltas increase counters, negative deltas decrease them. Counters "+
				"cannot go below 0. The entry is found across all project playbooks.",
		),
		mcp.WithString("entry_id",
			mcp.Required(),
			mcp.Description("The entry ID (e.g. 'str-00001')."),
		),
		mcp.WithNumber("helpful_delta",
			mcp.Description("Amount to add to the helpful counter (can be negative)."),
		),
		mcp.WithNumber("harmful_delta",
			mcp.Description("Amount to add to the harmful counter (can be negative)."),
		),
	)
}

// Handle processes the update_counters tool call.
func (t *UpdateCountersTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	entryID := req.GetString("entry_id", "")
	if entryID == "" {
		return mcp.NewToolResultError("'entry_id' is required"), nil
	}
	helpfulDelta := intArg(req, "helpful_delta", 0)
	harmfulDelta := intArg(req, "harmful_delta", 0)

	result, err := t.store.UpdateCounters(entryID, helpfulDelta, harmfulDelta)
	if err != nil {
		if msg, ok := domainError(err); ok {
			return mcp.NewToolResultError(msg), nil
		}
		return nil, fmt.Errorf("updating counters: %w", err)
	}

	return mcp.NewToolResultText(fmt.Sprintf(
		"Updated [%s]: helpful=%d->%d, harmful=%d->%d",
		result.EntryID, result.OldHelpful, result.NewHelpful, result.OldHarmful, result.NewHarmful,
	)), nil
}
