package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/agentic-context/ace/internal/playbook"
	"github.com/mark3labs/mcp-go/mcp"
)

// CuratePlaybookTool handles the curate_playbook MCP tool. This is the
// non-destructive policy: harmful entries are pruned in place and
// near-duplicates are reported for a human to resolve, never merged.
// The destructive prune-merge-rebuild pass lives behind 'ace curate'.
type CuratePlaybookTool struct {
	store            *playbook.Store
	defaultThreshold int
}

// NewCuratePlaybookTool creates a CuratePlaybookTool with the configured
// default harmful threshold.
func NewCuratePlaybookTool(store *playbook.Store, defaultThreshold int) *CuratePlaybookTool {
	return &CuratePlaybookTool{store: store, defaultThreshold: defaultThreshold}
}

// Definition returns the MCP tool definition for curate_playbook.
func (t *CuratePlaybookTool) Definition() mcp.Tool {
	return mcp.NewTool("curate_playbook",
		mcp.WithDescription(
			"Curate the playbook by removing harmful entries and flagging "+
				"duplicates. Entries where harmful exceeds helpful by more than the "+
				"threshold are removed; similar surviving entries (>80%) are reported "+
				"for manual review, not merged. Run this periodically to keep the "+
				"playbook clean and effective.",
		),
		mcp.WithString("project_id",
			mcp.Description("Project to curate. Omit to curate all projects."),
		),
		mcp.WithNumber("harmful_threshold",
			mcp.Description("Remove entries where harmful exceeds helpful by this amount. Default is 3."),
		),
	)
}

// Handle processes the curate_playbook tool call.
func (t *CuratePlaybookTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projectID := req.GetString("project_id", "")
	threshold := intArg(req, "harmful_threshold", t.defaultThreshold)

	report, err := t.store.Curate(projectID, threshold)
	if err != nil {
		if msg, ok := domainError(err); ok {
			return mcp.NewToolResultError(msg), nil
		}
		return nil, fmt.Errorf("curating playbook: %w", err)
	}

	return mcp.NewToolResultText(FormatCurateReport(report)), nil
}

// FormatCurateReport renders a curation report as the textual summary
// returned to the caller: removals first, then up to five duplicate
// pairs with a count of the remainder.
func FormatCurateReport(report playbook.CurateReport) string {
	var lines []string

	if len(report.Removed) > 0 {
		lines = append(lines, fmt.Sprintf("Removed %d harmful entries: %s",
			len(report.Removed), strings.Join(report.Removed, ", ")))
	} else {
		lines = append(lines, "No harmful entries to remove.")
	}

	if len(report.Duplicates) > 0 {
		shown := report.Duplicates
		if len(shown) > playbook.MaxReportedPairs {
			shown = shown[:playbook.MaxReportedPairs]
		}
		pairs := make([]string, len(shown))
		for i, d := range shown {
			pairs[i] = fmt.Sprintf("%s ~ %s (%.0f%%)", d.A, d.B, d.Score*100)
		}
		lines = append(lines, "Potential duplicates found: "+strings.Join(pairs, "; "))
		if rest := len(report.Duplicates) - len(shown); rest > 0 {
			lines = append(lines, fmt.Sprintf("  ...and %d more", rest))
		}
	} else {
		lines = append(lines, "No duplicate entries found.")
	}

	return strings.Join(lines, "\n")
}
