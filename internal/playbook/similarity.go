package playbook

import "strings"

// Similarity returns a normalized textual similarity between two strings
// in [0, 1]: twice the number of characters covered by common matching
// blocks, divided by the total length. Matching blocks are found by
// recursively locating the longest common contiguous substring and
// recursing on the pieces to either side (sequence-matching ratio, not
// edit distance). Comparison is case-insensitive, so the function is
// symmetric up to case folding.
func Similarity(a, b string) float64 {
	ra := []rune(strings.ToLower(a))
	rb := []rune(strings.ToLower(b))

	total := len(ra) + len(rb)
	if total == 0 {
		return 1.0
	}

	matched := matchingChars(ra, rb, 0, len(ra), 0, len(rb))
	return 2.0 * float64(matched) / float64(total)
}

// matchingChars counts the characters covered by common matching blocks
// within a[alo:ahi] and b[blo:bhi].
func matchingChars(a, b []rune, alo, ahi, blo, bhi int) int {
	i, j, size := longestMatch(a, b, alo, ahi, blo, bhi)
	if size == 0 {
		return 0
	}
	return size +
		matchingChars(a, b, alo, i, blo, j) +
		matchingChars(a, b, i+size, ahi, j+size, bhi)
}

// longestMatch finds the longest common contiguous block between
// a[alo:ahi] and b[blo:bhi], preferring the earliest occurrence on ties.
func longestMatch(a, b []rune, alo, ahi, blo, bhi int) (besti, bestj, bestsize int) {
	besti, bestj = alo, blo

	// j2len[j] is the length of the common run ending at a[i-1], b[j].
	j2len := make(map[int]int)
	for i := alo; i < ahi; i++ {
		next := make(map[int]int)
		for j := blo; j < bhi; j++ {
			if a[i] != b[j] {
				continue
			}
			k := j2len[j-1] + 1
			next[j] = k
			if k > bestsize {
				besti, bestj, bestsize = i-k+1, j-k+1, k
			}
		}
		j2len = next
	}

	return besti, bestj, bestsize
}
