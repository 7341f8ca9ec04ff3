// Package playbook implements the ACE playbook engine: an evolving
// plain-text knowledge base of scored entries grouped into fixed sections,
// with per-project scoping layered over a shared global playbook.
//
// The package owns the entry line grammar, ID allocation, section-scoped
// text surgery, text similarity, both curation policies, and the
// file-backed store that serializes all access behind a single lock.
// The MCP adapter in internal/tools is a thin passthrough over this package.
package playbook

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Entry is one identified, feedback-scored line of learned content.
type Entry struct {
	ID        string `json:"id"`
	Helpful   int    `json:"helpful"`
	Harmful   int    `json:"harmful"`
	ProjectID string `json:"project_id,omitempty"`
	Content   string `json:"content"`
}

// Entry line grammar. Two forms coexist on disk: the original
//
//	[str-00001] helpful=2 harmful=0 :: content
//
// and the multi-project form that carries an origin tag:
//
//	[str-00001] helpful=2 harmful=0 [finance] :: content
//
// Lines matching neither form are not entries — never parse errors.
var (
	entryTagged = regexp.MustCompile(`^\[([a-z]{3}-\d{5})\]\s+helpful=(\d+)\s+harmful=(\d+)\s+\[([^\]]+)\]\s+::\s+(.+)$`)
	entryPlain  = regexp.MustCompile(`^\[([a-z]{3}-\d{5})\]\s+helpful=(\d+)\s+harmful=(\d+)\s+::\s+(.+)$`)
)

// ParseEntry decodes a single playbook line. It accepts both the tagged
// and the untagged form and reports ok=false for anything else (headers,
// blank lines, prose).
func ParseEntry(line string) (Entry, bool) {
	trimmed := strings.TrimSpace(line)

	if m := entryTagged.FindStringSubmatch(trimmed); m != nil {
		return Entry{
			ID:        m[1],
			Helpful:   mustUint(m[2]),
			Harmful:   mustUint(m[3]),
			ProjectID: m[4],
			Content:   m[5],
		}, true
	}
	if m := entryPlain.FindStringSubmatch(trimmed); m != nil {
		return Entry{
			ID:      m[1],
			Helpful: mustUint(m[2]),
			Harmful: mustUint(m[3]),
			Content: m[4],
		}, true
	}
	return Entry{}, false
}

// Format serializes the entry back to its line form. The project tag is
// emitted only when ProjectID is set, so untagged entries round-trip
// unchanged.
func (e Entry) Format() string {
	if e.ProjectID != "" {
		return fmt.Sprintf("[%s] helpful=%d harmful=%d [%s] :: %s",
			e.ID, e.Helpful, e.Harmful, e.ProjectID, e.Content)
	}
	return fmt.Sprintf("[%s] helpful=%d harmful=%d :: %s", e.ID, e.Helpful, e.Harmful, e.Content)
}

// mustUint converts a digits-only submatch. The grammar guarantees the
// input is numeric, so conversion failure is unreachable.
func mustUint(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
