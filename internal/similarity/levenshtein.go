package similarity

// Score returns the edit-distance similarity of two normalized strings as a
// 0-100 percentage. It is deterministic and symmetric: Score(a, b) == Score(b, a).
func Score(a, b string) int {
	if a == "" && b == "" {
		return 0
	}
	if a == b {
		return 100
	}

	ra := []rune(a)
	rb := []rune(b)
	longest := len(ra)
	if len(rb) > longest {
		longest = len(rb)
	}

	dist := levenshtein(ra, rb)
	return int(float64(longest-dist) / float64(longest) * 100)
}

// levenshtein computes the edit distance with a two-row matrix
func levenshtein(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := 0; j <= len(b); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = minInt(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[len(b)]
}

func minInt(values ...int) int {
	m := values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}
	return m
}
