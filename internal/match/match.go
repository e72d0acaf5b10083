// Package match provides the generic string-similarity lookup used for
// free-text name searches.
package match

import "strings"

// DefaultThreshold is the minimum ratio at which a fuzzy match is accepted.
const DefaultThreshold = 0.6

// Ratio returns a similarity measure in [0, 1]: twice the length of the
// longest common subsequence over the combined length. Comparison is
// case-insensitive. Identical strings score 1.
func Ratio(a, b string) float64 {
	a = strings.ToLower(a)
	b = strings.ToLower(b)
	if len(a) == 0 && len(b) == 0 {
		return 1
	}
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	return 2 * float64(lcs(a, b)) / float64(len(a)+len(b))
}

// Best returns the index of the candidate most similar to the query, or -1
// when no candidate reaches the threshold.
func Best(candidates []string, query string, threshold float64) int {
	best := -1
	bestRatio := threshold
	for i, c := range candidates {
		if r := Ratio(c, query); r >= bestRatio {
			best = i
			bestRatio = r
		}
	}
	return best
}

// lcs computes the longest-common-subsequence length with a rolling row.
func lcs(a, b string) int {
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				cur[j] = prev[j-1] + 1
			} else if prev[j] >= cur[j-1] {
				cur[j] = prev[j]
			} else {
				cur[j] = cur[j-1]
			}
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}
