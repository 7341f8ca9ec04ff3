package playbook

import "strings"

// LineKind classifies one line of a parsed playbook.
type LineKind int

const (
	// LineOpaque is any line that is neither a section header nor an
	// entry: blank lines, comments, prose. Opaque lines are preserved
	// byte-exactly by every operation except the destructive rebuild.
	LineOpaque LineKind = iota
	// LineHeader is a "## <section>" line.
	LineHeader
	// LineEntry is a line matching the entry grammar.
	LineEntry
)

// Line is one typed node of a parsed playbook document. Keeping the raw
// text alongside the parsed entry lets curation operate only on entry
// nodes while round-tripping everything else exactly.
type Line struct {
	Kind    LineKind
	Raw     string
	Entry   Entry  // valid when Kind == LineEntry
	Section string // section the line belongs to; "" before the first header
}

// Document is an ordered sequence of parsed lines.
type Document struct {
	Lines []Line
}

// ParseDocument splits raw playbook text into typed line nodes, tracking
// section membership by position: a line belongs to the most recent
// header above it, regardless of its content.
func ParseDocument(raw string) Document {
	lines := strings.Split(raw, "\n")
	doc := Document{Lines: make([]Line, 0, len(lines))}
	section := ""

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		if strings.HasPrefix(trimmed, "## ") {
			section = strings.TrimPrefix(trimmed, "## ")
			doc.Lines = append(doc.Lines, Line{Kind: LineHeader, Raw: line, Section: section})
			continue
		}
		if entry, ok := ParseEntry(line); ok {
			doc.Lines = append(doc.Lines, Line{Kind: LineEntry, Raw: line, Entry: entry, Section: section})
			continue
		}
		doc.Lines = append(doc.Lines, Line{Kind: LineOpaque, Raw: line, Section: section})
	}

	return doc
}

// Render joins the document back into playbook text. For a document that
// has not been modified, Render(ParseDocument(raw)) == raw.
func (d Document) Render() string {
	raw := make([]string, len(d.Lines))
	for i, line := range d.Lines {
		raw[i] = line.Raw
	}
	return strings.Join(raw, "\n")
}

// Entries returns the parsed entries in document order.
func (d Document) Entries() []Entry {
	var entries []Entry
	for _, line := range d.Lines {
		if line.Kind == LineEntry {
			entries = append(entries, line.Entry)
		}
	}
	return entries
}
