package faq

// substringDistance returns the smallest edit distance between pattern and
// any substring of text. It is the Levenshtein recurrence with a free
// prefix and suffix of text, so a short query can match inside a long
// question.
func substringDistance(pattern, text []rune) int {
	if len(pattern) == 0 {
		return 0
	}

	// Rows are indexed by text position; row k holds distances for the first
	// k pattern runes. Row 0 is all zeros: a match may start anywhere.
	prev := make([]int, len(text)+1)
	curr := make([]int, len(text)+1)

	for i := 1; i <= len(pattern); i++ {
		curr[0] = i
		for j := 1; j <= len(text); j++ {
			cost := 0
			if pattern[i-1] != text[j-1] {
				cost = 1
			}
			curr[j] = min(
				prev[j]+1,
				curr[j-1]+1,
				prev[j-1]+cost,
			)
		}
		prev, curr = curr, prev
	}

	best := prev[0]
	for _, d := range prev[1:] {
		best = min(best, d)
	}
	return best
}
