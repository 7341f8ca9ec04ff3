// Package tools implements the MCP tool handlers for the playbook server.
//
// Each tool follows the same pattern:
// - A struct with its dependency (*playbook.Store) injected via constructor
// - Definition() returns the mcp.Tool schema
// - Handle() processes the request and returns a result
//
// Tools are pure dispatch: they validate and extract arguments, call one
// store operation, and format the structured result or typed error as a
// user-facing message. No playbook logic lives here.
package tools

import (
	"errors"
	"fmt"
	"strings"

	"github.com/agentic-context/ace/internal/playbook"
	"github.com/mark3labs/mcp-go/mcp"
)

// intArg extracts an integer argument from a tool request, returning
// defaultVal if the key is missing or not a number (JSON numbers are float64).
func intArg(req mcp.CallToolRequest, key string, defaultVal int) int {
	v, ok := req.GetArguments()[key].(float64)
	if !ok {
		return defaultVal
	}
	return int(v)
}

// stringSliceArg extracts a string-array argument from a tool request.
func stringSliceArg(req mcp.CallToolRequest, key string) []string {
	raw, ok := req.GetArguments()[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// domainError formats the engine's typed errors as the user-facing
// message strings the tools return, and reports whether err was one of
// them. Anything else is an infrastructure error the handler should
// propagate.
func domainError(err error) (string, bool) {
	var invalidSection *playbook.InvalidSectionError
	if errors.As(err, &invalidSection) {
		return fmt.Sprintf("Invalid section. Must be one of: %s", strings.Join(playbook.SectionOrder, ", ")), true
	}

	var sectionNotFound *playbook.SectionNotFoundError
	if errors.As(err, &sectionNotFound) {
		return fmt.Sprintf("Section '%s' not found in playbook.", sectionNotFound.Name), true
	}

	var notFound *playbook.NotFoundError
	if errors.As(err, &notFound) {
		return fmt.Sprintf("Entry '%s' not found in any playbook.", notFound.EntryID), true
	}

	var exists *playbook.ProjectExistsError
	if errors.As(err, &exists) {
		return fmt.Sprintf("Project '%s' already exists.", exists.ProjectID), true
	}

	return "", false
}
