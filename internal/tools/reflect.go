package tools

import (
	"context"
	"fmt"

	"github.com/agentic-context/ace/internal/playbook"
	"github.com/mark3labs/mcp-go/mcp"
)

// LogReflectionTool handles the log_reflection MCP tool.
type LogReflectionTool struct {
	store *playbook.Store
}

// NewLogReflectionTool creates a LogReflectionTool.
func NewLogReflectionTool(store *playbook.Store) *LogReflectionTool {
	return &LogReflectionTool{store: store}
}

// Definition returns the MCP tool definition for log_reflection.
func (t *LogReflectionTool) Definition() mcp.Tool {
	return mcp.NewTool("log_reflection",
		mcp.WithDescription(
			"Log a task reflection for later curation into the playbook. After "+
				"completing a task, use this to record what happened and what was "+
				"learned. Reflections are append-only and reviewed later.",
		),
		mcp.WithString("task_summary",
			mcp.Required(),
			mcp.Description("Brief description of the task performed."),
		),
		mcp.WithString("outcome",
			mcp.Required(),
			mcp.Description("The result: 'success', 'partial', or 'failure'."),
		),
		mcp.WithArray("learnings",
			mcp.Required(),
			mcp.Description("Insights, strategies, or mistakes identified."),
			mcp.WithStringItems(),
		),
		mcp.WithString("project_id",
			mcp.Description("Project scope to log under. Defaults to 'global'."),
			mcp.DefaultString(playbook.GlobalProject),
		),
	)
}

// Handle processes the log_reflection tool call.
func (t *LogReflectionTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	taskSummary := req.GetString("task_summary", "")
	if taskSummary == "" {
		return mcp.NewToolResultError("'task_summary' is required"), nil
	}
	outcome := req.GetString("outcome", "")
	learnings := stringSliceArg(req, "learnings")
	projectID := req.GetString("project_id", playbook.GlobalProject)

	if err := t.store.LogReflection(projectID, taskSummary, outcome, learnings); err != nil {
		return nil, fmt.Errorf("logging reflection: %w", err)
	}

	summary := taskSummary
	if len(summary) > 50 {
		summary = summary[:50]
	}
	return mcp.NewToolResultText(fmt.Sprintf(
		"Logged reflection with %d learning(s) for task: %s...", len(learnings), summary,
	)), nil
}
