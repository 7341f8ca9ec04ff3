package playbook

import "strings"

// The four playbook sections form a fixed, closed set. Each maps to a
// unique three-letter ID prefix used when allocating entry IDs.
const (
	SectionStrategies = "STRATEGIES & INSIGHTS"
	SectionFormulas   = "FORMULAS & CALCULATIONS"
	SectionMistakes   = "COMMON MISTAKES TO AVOID"
	SectionKnowledge  = "DOMAIN KNOWLEDGE"
)

// SectionOrder is the canonical emission order used by the overlay view
// and the destructive rebuild.
var SectionOrder = []string{
	SectionStrategies,
	SectionFormulas,
	SectionMistakes,
	SectionKnowledge,
}

// SectionPrefixes maps each section name to its ID prefix.
var SectionPrefixes = map[string]string{
	SectionStrategies: "str",
	SectionFormulas:   "cal",
	SectionMistakes:   "mis",
	SectionKnowledge:  "dom",
}

// ValidSection reports whether name is one of the four known sections.
func ValidSection(name string) bool {
	_, ok := SectionPrefixes[name]
	return ok
}

// DefaultPlaybook seeds the global playbook on first access. Project
// playbooks start empty.
const DefaultPlaybook = `## STRATEGIES & INSIGHTS
[str-00001] helpful=0 harmful=0 :: Break complex problems into smaller, manageable steps.
[str-00002] helpful=0 harmful=0 :: Validate assumptions before proceeding with solutions.

## FORMULAS & CALCULATIONS
[cal-00001] helpful=0 harmful=0 :: ROI = (Gain - Cost) / Cost * 100

## COMMON MISTAKES TO AVOID
[mis-00001] helpful=0 harmful=0 :: Don't assume input data is clean - always validate.

## DOMAIN KNOWLEDGE
[dom-00001] helpful=0 harmful=0 :: Context window limits require prioritizing relevant information.
`

// locateSection finds the line range of a section inside raw playbook
// lines. start is the index of the line equal to "## <name>" after
// trimming; end is the index of the next "## " header (exclusive) or
// len(lines) if the section runs to the end of the text.
func locateSection(lines []string, name string) (start, end int, ok bool) {
	header := "## " + name
	start = -1

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if start == -1 {
			if trimmed == header {
				start = i
			}
			continue
		}
		if strings.HasPrefix(trimmed, "## ") {
			return start, i, true
		}
	}

	if start == -1 {
		return -1, -1, false
	}
	return start, len(lines), true
}
