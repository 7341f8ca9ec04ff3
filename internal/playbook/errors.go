package playbook

import (
	"fmt"
	"strings"
)

// The engine reports failures as typed errors so that callers can branch
// on the failure kind programmatically. The MCP adapter formats them for
// display at the boundary; nothing below it matches on message strings.

// InvalidSectionError reports a section name outside the closed set.
type InvalidSectionError struct {
	Name string
}

func (e *InvalidSectionError) Error() string {
	return fmt.Sprintf("invalid section %q, must be one of: %s", e.Name, strings.Join(SectionOrder, ", "))
}

// SectionNotFoundError reports a known section name with no header (and
// therefore no entries) in the playbook being read.
type SectionNotFoundError struct {
	Name string
}

func (e *SectionNotFoundError) Error() string {
	return fmt.Sprintf("section %q not found in playbook", e.Name)
}

// NotFoundError reports an entry ID absent from every scope searched.
type NotFoundError struct {
	EntryID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("entry %q not found in any playbook", e.EntryID)
}

// ProjectExistsError reports an attempt to create a project that is
// already registered.
type ProjectExistsError struct {
	ProjectID string
}

func (e *ProjectExistsError) Error() string {
	return fmt.Sprintf("project %q already exists", e.ProjectID)
}
