package odata

import "fmt"

// maxSuggestDistance is the largest edit distance still worth suggesting.
const maxSuggestDistance = 3

// Suggest returns a "did you mean" hint for unknown, or "" when nothing in
// valid is close enough. A case-only difference is always suggested.
func Suggest(unknown string, valid []string) string {
	if len(valid) == 0 || unknown == "" {
		return ""
	}

	best := ""
	bestDist := maxSuggestDistance + 1
	for _, v := range valid {
		if v == unknown {
			return ""
		}
		d := levenshteinDistance(unknown, v)
		if d < bestDist {
			bestDist = d
			best = v
		}
	}
	if best == "" {
		return ""
	}
	return fmt.Sprintf("did you mean '%s'?", best)
}

// levenshteinDistance computes the edit distance between two strings, with
// a letter-case change costing nothing so "Title" lands on "title".
func levenshteinDistance(s1, s2 string) int {
	if s1 == s2 {
		return 0
	}
	len1, len2 := len(s1), len(s2)

	prev := make([]int, len2+1)
	curr := make([]int, len2+1)
	for j := 0; j <= len2; j++ {
		prev[j] = j
	}

	for i := 1; i <= len1; i++ {
		curr[0] = i
		for j := 1; j <= len2; j++ {
			cost := 1
			if foldByte(s1[i-1]) == foldByte(s2[j-1]) {
				cost = 0
			}
			curr[j] = min(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[len2]
}

func foldByte(b byte) byte {
	if b >= 'A' && b <= 'Z' {
		return b + ('a' - 'A')
	}
	return b
}
