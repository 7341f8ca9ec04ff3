package playbook

import "strings"

// renderOverlay merges the global playbook with one project's playbook
// into a single read-only view. For each canonical section, global
// entries come first in their original order, followed by the project's
// entries; project-origin entries are tagged with the project ID unless
// they already carry a tag. Only non-empty sections are emitted. The
// result is a projection — it is never written back to storage.
func renderOverlay(globalRaw, projectRaw, projectID string) string {
	globalDoc := ParseDocument(globalRaw)
	projectDoc := ParseDocument(projectRaw)

	var b strings.Builder
	for _, section := range SectionOrder {
		entries := sectionEntries(globalDoc, section)
		for _, e := range sectionEntries(projectDoc, section) {
			if e.ProjectID == "" {
				e.ProjectID = projectID
			}
			entries = append(entries, e)
		}
		if len(entries) == 0 {
			continue
		}

		b.WriteString("## " + section + "\n")
		for _, e := range entries {
			b.WriteString(e.Format() + "\n")
		}
		b.WriteString("\n")
	}

	return b.String()
}

// sectionEntries returns the entries positioned under the given section
// header, in document order.
func sectionEntries(doc Document, section string) []Entry {
	var entries []Entry
	for _, line := range doc.Lines {
		if line.Kind == LineEntry && line.Section == section {
			entries = append(entries, line.Entry)
		}
	}
	return entries
}
