package match

// Levenshtein computes the edit distance between two strings.
func Levenshtein(a, b string) int {
	if a == b {
		return 0
	}

	if len(a) > len(b) {
		a, b = b, a
	}

	if len(a) == 0 {
		return len(b)
	}

	prev := make([]int, len(a)+1)
	curr := make([]int, len(a)+1)

	for i := range prev {
		prev[i] = i
	}

	for j := 1; j <= len(b); j++ {
		curr[0] = j

		for i := 1; i <= len(a); i++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}

			curr[i] = min(prev[i]+1, curr[i-1]+1, prev[i-1]+cost)
		}

		prev, curr = curr, prev
	}

	return prev[len(a)]
}

// Similarity returns 1 - distance/maxLen on the normalized identifiers,
// 1.0 meaning identical.
func Similarity(a, b string) float64 {
	na, nb := NormalizeIdent(a), NormalizeIdent(b)
	if len(na) == 0 && len(nb) == 0 {
		return 1.0
	}

	return 1.0 - float64(Levenshtein(na, nb))/float64(max(len(na), len(nb)))
}

// Closest returns the candidate most similar to the local name of s, or
// false when no candidate reaches minScore. Ties keep the first candidate.
func Closest(s string, candidates []string, minScore float64) (string, bool) {
	local := LocalName(s)
	best, bestScore := "", -1.0

	for _, c := range candidates {
		if score := Similarity(local, c); score > bestScore {
			best, bestScore = c, score
		}
	}

	if best == "" || bestScore < minScore {
		return "", false
	}

	return best, true
}
