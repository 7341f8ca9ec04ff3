package playbook

import (
	"fmt"
	"regexp"
	"strconv"
)

// NextID allocates the next entry ID for a prefix by scanning the raw
// text of every scope passed in and taking max+1 over the numeric
// suffixes found. This is a scan, not a persisted counter: removing the
// entry holding the current maximum frees its number for reuse. Callers
// that need IDs unique across every project must pass every project's
// playbook text as a scope — the store does this when adding entries.
func NextID(prefix string, scopes ...string) string {
	pattern := regexp.MustCompile(`\[` + regexp.QuoteMeta(prefix) + `-(\d{5})\]`)

	maxNum := 0
	for _, raw := range scopes {
		for _, m := range pattern.FindAllStringSubmatch(raw, -1) {
			n, err := strconv.Atoi(m[1])
			if err != nil {
				continue
			}
			if n > maxNum {
				maxNum = n
			}
		}
	}

	return fmt.Sprintf("%s-%05d", prefix, maxNum+1)
}
