// Package server wires all MCP components and creates the server instance.
//
// This is the composition root: it loads configuration, creates the
// playbook store, and registers the tools that depend on it. No playbook
// logic lives here — only wiring.
package server

import (
	"fmt"

	"github.com/agentic-context/ace/internal/config"
	"github.com/agentic-context/ace/internal/playbook"
	"github.com/agentic-context/ace/internal/tools"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
)

// Version is set at build time via ldflags.
var Version = "dev"

// New creates and configures the MCP server with all playbook tools
// registered. This is the single place where all dependencies are
// resolved.
func New(cfg config.Config, logger *zap.Logger) (*server.MCPServer, error) {
	store, err := playbook.New(playbook.Config{DataDir: cfg.DataDir})
	if err != nil {
		return nil, fmt.Errorf("creating playbook store: %w", err)
	}
	logger.Info("playbook store ready",
		zap.String("data_dir", cfg.DataDir),
		zap.Int("harmful_threshold", cfg.HarmfulThreshold),
	)

	s := server.NewMCPServer(
		"ace",
		Version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	readTool := tools.NewReadPlaybookTool(store)
	s.AddTool(readTool.Definition(), readTool.Handle)

	sectionTool := tools.NewGetSectionTool(store)
	s.AddTool(sectionTool.Definition(), sectionTool.Handle)

	addTool := tools.NewAddEntryTool(store)
	s.AddTool(addTool.Definition(), addTool.Handle)

	countersTool := tools.NewUpdateCountersTool(store)
	s.AddTool(countersTool.Definition(), countersTool.Handle)

	removeTool := tools.NewRemoveEntryTool(store)
	s.AddTool(removeTool.Definition(), removeTool.Handle)

	reflectTool := tools.NewLogReflectionTool(store)
	s.AddTool(reflectTool.Definition(), reflectTool.Handle)

	curateTool := tools.NewCuratePlaybookTool(store, cfg.HarmfulThreshold)
	s.AddTool(curateTool.Definition(), curateTool.Handle)

	searchTool := tools.NewSearchPlaybookTool(store)
	s.AddTool(searchTool.Definition(), searchTool.Handle)

	listTool := tools.NewListProjectsTool(store)
	s.AddTool(listTool.Definition(), listTool.Handle)

	createTool := tools.NewCreateProjectTool(store)
	s.AddTool(createTool.Definition(), createTool.Handle)

	return s, nil
}

// serverInstructions returns the system instructions that tell the AI
// how to use the playbook effectively.
func serverInstructions() string {
	return `You have access to ACE (Agentic Context Engineering), an evolving
playbook of strategies, formulas, mistakes, and domain knowledge.

## Workflow

1. BEFORE a task: call read_playbook (or search_playbook with keywords)
   to load relevant context. Pass project_id to get a project's merged
   view — global entries plus that project's own entries.
2. DURING a task: when an entry influences your work, remember its ID.
3. AFTER a task:
   - Call update_counters for each entry you used: helpful_delta=1 if it
     helped, harmful_delta=1 if it misled you.
   - Call add_entry for each new insight worth keeping. Choose the
     section carefully; entries are one line each.
   - Call log_reflection with a task summary, the outcome
     (success/partial/failure), and what you learned.

## Sections

- STRATEGIES & INSIGHTS — approaches and heuristics that work
- FORMULAS & CALCULATIONS — exact formulas and computations
- COMMON MISTAKES TO AVOID — pitfalls and anti-patterns
- DOMAIN KNOWLEDGE — facts about the problem domain

## Projects

Use create_project to give a codebase or workstream its own scope.
Entries added under a project are only visible in that project's merged
view; global entries are visible everywhere. list_projects shows what
exists.

## Curation

Run curate_playbook periodically. It removes entries whose harmful count
exceeds their helpful count by more than the threshold and reports
likely duplicates for you to resolve with remove_entry — it never merges
on its own.`
}
