package playbook

import (
	"sort"
	"strings"
)

const (
	// DefaultHarmfulThreshold is the pruning margin used when the caller
	// does not supply one: an entry is removed iff
	// harmful > helpful + threshold. Equality keeps the entry.
	DefaultHarmfulThreshold = 3

	// DuplicateReportThreshold is the similarity above which the
	// non-destructive curator reports a pair for manual review.
	DuplicateReportThreshold = 0.8

	// MergeThreshold is the similarity at or above which the destructive
	// rebuild merges entries into one.
	MergeThreshold = 0.85

	// MaxReportedPairs caps the duplicate pairs named in a curation
	// report; the remainder is summarized as a count.
	MaxReportedPairs = 5
)

// DuplicatePair is a reported near-duplicate: two entry IDs and their
// similarity score.
type DuplicatePair struct {
	A     string
	B     string
	Score float64
}

// CurateReport summarizes one non-destructive curation run (Policy A):
// which entries were pruned and which surviving pairs look like
// duplicates. Nothing is merged — duplicates are surfaced for a human.
type CurateReport struct {
	Removed    []string
	Duplicates []DuplicatePair
}

// pruneDocument removes entry lines whose harmful count strictly exceeds
// helpful + threshold. Every other line — entries below the threshold,
// headers, opaque text — survives in its original position.
func pruneDocument(doc Document, threshold int) (Document, []string) {
	out := Document{Lines: make([]Line, 0, len(doc.Lines))}
	var removed []string

	for _, line := range doc.Lines {
		if line.Kind == LineEntry && line.Entry.Harmful > line.Entry.Helpful+threshold {
			removed = append(removed, line.Entry.ID)
			continue
		}
		out.Lines = append(out.Lines, line)
	}

	return out, removed
}

// duplicatePairs returns every pair of entries whose similarity strictly
// exceeds limit, ordered by descending score so a capped report shows
// the highest-signal pairs first.
func duplicatePairs(entries []Entry, limit float64) []DuplicatePair {
	var pairs []DuplicatePair
	for i, a := range entries {
		for _, b := range entries[i+1:] {
			score := Similarity(a.Content, b.Content)
			if score > limit {
				pairs = append(pairs, DuplicatePair{A: a.ID, B: b.ID, Score: score})
			}
		}
	}

	sort.SliceStable(pairs, func(i, j int) bool { return pairs[i].Score > pairs[j].Score })
	return pairs
}

// RebuildStats summarizes one destructive curation run (Policy B).
type RebuildStats struct {
	SectionsProcessed int
	RemovedHarmful    int
	MergedDuplicates  int
	Kept              int
	OriginalCount     int
	FinalCount        int
}

// Rebuild runs the destructive curation policy over raw playbook text:
// prune harmful entries, merge near-duplicates, re-sort each section by
// helpful descending, and regenerate the whole playbook in canonical
// section order. Every line that is not a recognized entry — comments,
// blank lines, custom prose — is discarded. This is a full rewrite, not
// a patch; the non-destructive alternative is Store.Curate.
func Rebuild(raw string, threshold int) (string, RebuildStats) {
	doc := ParseDocument(raw)

	// Group entries by section, remembering the order sections appear so
	// unknown section names can be emitted after the canonical four.
	var order []string
	seen := make(map[string]bool)
	bySection := make(map[string][]Entry)
	for _, line := range doc.Lines {
		if line.Kind != LineEntry || line.Section == "" {
			continue
		}
		if !seen[line.Section] {
			seen[line.Section] = true
			order = append(order, line.Section)
		}
		bySection[line.Section] = append(bySection[line.Section], line.Entry)
	}

	stats := RebuildStats{}
	curated := make(map[string][]Entry)
	for section, entries := range bySection {
		stats.OriginalCount += len(entries)
		stats.SectionsProcessed++

		result := curateSection(entries, threshold, &stats)
		curated[section] = result
		stats.FinalCount += len(result)
	}

	// Canonical sections first, then any others in encounter order.
	emit := make([]string, 0, len(curated))
	emit = append(emit, SectionOrder...)
	for _, section := range order {
		if !ValidSection(section) {
			emit = append(emit, section)
		}
	}

	var b strings.Builder
	for _, section := range emit {
		entries := curated[section]
		if len(entries) == 0 {
			continue
		}
		b.WriteString("## " + section + "\n")
		for _, e := range entries {
			b.WriteString(e.Format() + "\n")
		}
		b.WriteString("\n")
	}

	return strings.TrimSuffix(b.String(), "\n"), stats
}

// curateSection prunes, merges, and sorts the entries of one section.
func curateSection(entries []Entry, threshold int, stats *RebuildStats) []Entry {
	var filtered []Entry
	for _, e := range entries {
		if e.Harmful > e.Helpful+threshold {
			stats.RemovedHarmful++
			continue
		}
		filtered = append(filtered, e)
	}

	// Greedy single-link clustering: each unassigned entry seeds a group
	// and absorbs every later unassigned entry similar enough to the seed.
	assigned := make([]bool, len(filtered))
	var curated []Entry
	for i, seed := range filtered {
		if assigned[i] {
			continue
		}

		group := []Entry{seed}
		for j := i + 1; j < len(filtered); j++ {
			if assigned[j] {
				continue
			}
			if Similarity(seed.Content, filtered[j].Content) >= MergeThreshold {
				group = append(group, filtered[j])
				assigned[j] = true
			}
		}

		if len(group) == 1 {
			continue // no merge needed; emitted with the survivors below
		}

		assigned[i] = true
		curated = append(curated, mergeGroup(group))
		stats.MergedDuplicates += len(group) - 1
	}

	for i, e := range filtered {
		if !assigned[i] {
			curated = append(curated, e)
			stats.Kept++
		}
	}

	sort.SliceStable(curated, func(i, j int) bool { return curated[i].Helpful > curated[j].Helpful })
	return curated
}

// mergeGroup collapses a duplicate group into one entry: the ID and
// content of the member with the highest helpful count (first occurrence
// wins ties), with both counters summed across all members.
func mergeGroup(group []Entry) Entry {
	best := group[0]
	for _, e := range group[1:] {
		if e.Helpful > best.Helpful {
			best = e
		}
	}

	merged := best
	merged.Helpful = 0
	merged.Harmful = 0
	for _, e := range group {
		merged.Helpful += e.Helpful
		merged.Harmful += e.Harmful
	}
	return merged
}
