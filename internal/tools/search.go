package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/agentic-context/ace/internal/playbook"
	"github.com/mark3labs/mcp-go/mcp"
)

// SearchPlaybookTool handles the search_playbook MCP tool.
type SearchPlaybookTool struct {
	store *playbook.Store
}

// NewSearchPlaybookTool creates a SearchPlaybookTool.
func NewSearchPlaybookTool(store *playbook.Store) *SearchPlaybookTool {
	return &SearchPlaybookTool{store: store}
}

// Definition returns the MCP tool definition for search_playbook.
func (t *SearchPlaybookTool) Definition() mcp.Tool {
	return mcp.NewTool("search_playbook",
		mcp.WithDescription(
			"Search the playbook for entries containing the query keywords. "+
				"Use this to find relevant strategies, formulas, or knowledge before "+
				"starting a task, or to check if similar insights already exist.",
		),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Space-separated keywords, matched case-insensitively (any keyword matches)."),
		),
		mcp.WithString("project_id",
			mcp.Description("Project scope to search. Defaults to 'global'."),
			mcp.DefaultString(playbook.GlobalProject),
		),
	)
}

// Handle processes the search_playbook tool call.
func (t *SearchPlaybookTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query := req.GetString("query", "")
	if query == "" {
		return mcp.NewToolResultError("'query' is required"), nil
	}
	projectID := req.GetString("project_id", playbook.GlobalProject)

	matches, err := t.store.Search(query, projectID)
	if err != nil {
		return nil, fmt.Errorf("searching playbook: %w", err)
	}

	if len(matches) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No entries found matching '%s'", query)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf(
		"Found %d matching entries:\n%s", len(matches), strings.Join(matches, "\n"),
	)), nil
}
