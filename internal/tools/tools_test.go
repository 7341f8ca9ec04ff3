package tools

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/agentic-context/ace/internal/playbook"
	"github.com/mark3labs/mcp-go/mcp"
)

// newTestStore creates a store in a temp dir.
func newTestStore(t *testing.T) *playbook.Store {
	t.Helper()
	store, err := playbook.New(playbook.Config{DataDir: t.TempDir()})
	if err != nil {
		t.Fatalf("playbook.New: %v", err)
	}
	return store
}

// makeReq builds a CallToolRequest with the given arguments.
func makeReq(args map[string]interface{}) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

// isErrorResult reports whether a tool returned an error result.
func isErrorResult(result *mcp.CallToolResult) bool {
	return result != nil && result.IsError
}

// getResultText extracts the text content from a CallToolResult.
func getResultText(result *mcp.CallToolResult) string {
	if result == nil || len(result.Content) == 0 {
		return ""
	}
	for _, c := range result.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

// --- ReadPlaybookTool ---

func TestReadPlaybookTool_Handle(t *testing.T) {
	tool := NewReadPlaybookTool(newTestStore(t))

	if tool.Definition().Name != "read_playbook" {
		t.Errorf("name = %q, want read_playbook", tool.Definition().Name)
	}

	result, err := tool.Handle(context.Background(), makeReq(nil))
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if isErrorResult(result) {
		t.Fatalf("expected success, got error: %s", getResultText(result))
	}
	if !strings.Contains(getResultText(result), "## STRATEGIES & INSIGHTS") {
		t.Error("result should contain the seeded playbook")
	}
}

// --- GetSectionTool ---

func TestGetSectionTool_Handle(t *testing.T) {
	tool := NewGetSectionTool(newTestStore(t))

	result, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"section": playbook.SectionFormulas,
	}))
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	text := getResultText(result)
	if !strings.Contains(text, "cal-00001") {
		t.Errorf("result should contain the formulas entry: %s", text)
	}
	if strings.Contains(text, "str-00001") {
		t.Errorf("result should not contain other sections: %s", text)
	}
}

func TestGetSectionTool_Handle_InvalidSection(t *testing.T) {
	tool := NewGetSectionTool(newTestStore(t))

	result, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"section": "NOT A SECTION",
	}))
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if !isErrorResult(result) {
		t.Fatal("expected error result")
	}
	if !strings.Contains(getResultText(result), "Invalid section. Must be one of:") {
		t.Errorf("unexpected message: %s", getResultText(result))
	}
}

// --- AddEntryTool ---

func TestAddEntryTool_Handle(t *testing.T) {
	store := newTestStore(t)
	tool := NewAddEntryTool(store)

	result, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"section": playbook.SectionStrategies,
		"content": "Prefer batch writes over row-at-a-time",
	}))
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if isErrorResult(result) {
		t.Fatalf("expected success, got error: %s", getResultText(result))
	}
	if getResultText(result) != "Added entry [str-00003] to 'STRATEGIES & INSIGHTS'" {
		t.Errorf("unexpected message: %s", getResultText(result))
	}

	view, err := store.Read(playbook.GlobalProject)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if !strings.Contains(view, "[str-00003] helpful=0 harmful=0 :: Prefer batch writes over row-at-a-time") {
		t.Errorf("entry not written:\n%s", view)
	}
}

func TestAddEntryTool_Handle_MissingContent(t *testing.T) {
	tool := NewAddEntryTool(newTestStore(t))

	result, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"section": playbook.SectionStrategies,
	}))
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if !isErrorResult(result) {
		t.Fatal("expected error result for missing content")
	}
}

// --- UpdateCountersTool ---

func TestUpdateCountersTool_Handle(t *testing.T) {
	store := newTestStore(t)
	if _, err := store.Read(playbook.GlobalProject); err != nil {
		t.Fatalf("Read: %v", err)
	}
	tool := NewUpdateCountersTool(store)

	result, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"entry_id":      "str-00001",
		"helpful_delta": float64(2),
		"harmful_delta": float64(1),
	}))
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if getResultText(result) != "Updated [str-00001]: helpful=0->2, harmful=0->1" {
		t.Errorf("unexpected message: %s", getResultText(result))
	}
}

func TestUpdateCountersTool_Handle_NotFound(t *testing.T) {
	tool := NewUpdateCountersTool(newTestStore(t))

	result, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"entry_id": "str-99999",
	}))
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if !isErrorResult(result) {
		t.Fatal("expected error result")
	}
	if getResultText(result) != "Entry 'str-99999' not found in any playbook." {
		t.Errorf("unexpected message: %s", getResultText(result))
	}
}

// --- RemoveEntryTool ---

func TestRemoveEntryTool_Handle(t *testing.T) {
	store := newTestStore(t)
	if _, err := store.Read(playbook.GlobalProject); err != nil {
		t.Fatalf("Read: %v", err)
	}
	tool := NewRemoveEntryTool(store)

	result, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"entry_id": "mis-00001",
	}))
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if !strings.Contains(getResultText(result), "Removed entry [mis-00001]") {
		t.Errorf("unexpected message: %s", getResultText(result))
	}

	view, err := store.Read(playbook.GlobalProject)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if strings.Contains(view, "mis-00001") {
		t.Error("entry should be gone from the playbook")
	}
}

// --- LogReflectionTool ---

func TestLogReflectionTool_Handle(t *testing.T) {
	store := newTestStore(t)
	tool := NewLogReflectionTool(store)

	result, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"task_summary": "Migrated the billing service to the new queue",
		"outcome":      "success",
		"learnings":    []interface{}{"drain before cutover", "alert on DLQ depth"},
	}))
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if !strings.Contains(getResultText(result), "Logged reflection with 2 learning(s)") {
		t.Errorf("unexpected message: %s", getResultText(result))
	}

	data, err := os.ReadFile(store.ReflectionsPath(playbook.GlobalProject))
	if err != nil {
		t.Fatalf("reflection log should exist: %v", err)
	}
	if !strings.Contains(string(data), "drain before cutover") {
		t.Errorf("log missing learning:\n%s", data)
	}
}

func TestLogReflectionTool_Handle_MissingSummary(t *testing.T) {
	tool := NewLogReflectionTool(newTestStore(t))

	result, err := tool.Handle(context.Background(), makeReq(nil))
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if !isErrorResult(result) {
		t.Fatal("expected error result for missing task_summary")
	}
}

// --- CuratePlaybookTool ---

func TestCuratePlaybookTool_Handle(t *testing.T) {
	store := newTestStore(t)
	if _, err := store.Read(playbook.GlobalProject); err != nil {
		t.Fatalf("Read: %v", err)
	}
	if _, err := store.UpdateCounters("cal-00001", 0, 10); err != nil {
		t.Fatalf("UpdateCounters: %v", err)
	}
	tool := NewCuratePlaybookTool(store, playbook.DefaultHarmfulThreshold)

	result, err := tool.Handle(context.Background(), makeReq(nil))
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	text := getResultText(result)
	if !strings.Contains(text, "Removed 1 harmful entries: cal-00001") {
		t.Errorf("unexpected message: %s", text)
	}
}

func TestFormatCurateReport_Empty(t *testing.T) {
	text := FormatCurateReport(playbook.CurateReport{})
	if !strings.Contains(text, "No harmful entries to remove.") {
		t.Errorf("unexpected message: %s", text)
	}
	if !strings.Contains(text, "No duplicate entries found.") {
		t.Errorf("unexpected message: %s", text)
	}
}

func TestFormatCurateReport_CapsDuplicates(t *testing.T) {
	report := playbook.CurateReport{}
	for i := 0; i < playbook.MaxReportedPairs+3; i++ {
		report.Duplicates = append(report.Duplicates, playbook.DuplicatePair{
			A: "str-00001", B: "str-00002", Score: 0.9,
		})
	}

	text := FormatCurateReport(report)
	if !strings.Contains(text, "...and 3 more") {
		t.Errorf("overflow count missing: %s", text)
	}
	if got := strings.Count(text, "(90%)"); got != playbook.MaxReportedPairs {
		t.Errorf("shown pairs = %d, want %d", got, playbook.MaxReportedPairs)
	}
}

// --- SearchPlaybookTool ---

func TestSearchPlaybookTool_Handle(t *testing.T) {
	tool := NewSearchPlaybookTool(newTestStore(t))

	result, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"query": "validate",
	}))
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	text := getResultText(result)
	if !strings.HasPrefix(text, "Found 2 matching entries:") {
		t.Errorf("unexpected message: %s", text)
	}

	result, err = tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"query": "zzznotfound",
	}))
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if getResultText(result) != "No entries found matching 'zzznotfound'" {
		t.Errorf("unexpected message: %s", getResultText(result))
	}
}

func TestSearchPlaybookTool_Handle_MissingQuery(t *testing.T) {
	tool := NewSearchPlaybookTool(newTestStore(t))

	result, err := tool.Handle(context.Background(), makeReq(nil))
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if !isErrorResult(result) {
		t.Fatal("expected error result for missing query")
	}
}

// --- Project tools ---

func TestCreateProjectTool_Handle(t *testing.T) {
	store := newTestStore(t)
	tool := NewCreateProjectTool(store)

	result, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"project_id":  "finance",
		"description": "Money things",
	}))
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if getResultText(result) != "Created project 'finance'" {
		t.Errorf("unexpected message: %s", getResultText(result))
	}

	// Creating it again is a domain error, not an infrastructure one.
	result, err = tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"project_id": "finance",
	}))
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if !isErrorResult(result) {
		t.Fatal("expected error result")
	}
	if getResultText(result) != "Project 'finance' already exists." {
		t.Errorf("unexpected message: %s", getResultText(result))
	}
}

func TestListProjectsTool_Handle(t *testing.T) {
	store := newTestStore(t)
	if err := store.CreateProject("finance", "Money things"); err != nil {
		t.Fatalf("CreateProject: %v", err)
	}
	tool := NewListProjectsTool(store)

	result, err := tool.Handle(context.Background(), makeReq(nil))
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	text := getResultText(result)
	if !strings.Contains(text, "- global: Universal patterns") {
		t.Errorf("global project missing: %s", text)
	}
	if !strings.Contains(text, "- finance: Money things") {
		t.Errorf("created project missing: %s", text)
	}
}
