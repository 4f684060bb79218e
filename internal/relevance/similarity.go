// Package relevance scores catalog records against a structured query and
// ranks them. Everything here is pure and safe for concurrent use.
package relevance

import (
	"strings"

	"github.com/spigell/govjobs/internal/normalize"
)

const (
	exactSimilarity     = 1.0
	substringSimilarity = 0.8
	// wordOverlapWeight keeps word overlap strictly below the substring tier.
	wordOverlapWeight = 0.7
)

// Similarity returns a score in [0, 1] describing how close a and b are.
//
// Equal normalized forms score 1, containment scores 0.8 and otherwise the
// share of overlapping words is scaled by 0.7. Similarity(a, b) == Similarity(b, a).
func Similarity(a, b string) float64 {
	na, nb := normalize.Text(a), normalize.Text(b)

	if na == nb {
		return exactSimilarity
	}
	if na == "" || nb == "" {
		return 0
	}
	if strings.Contains(na, nb) || strings.Contains(nb, na) {
		return substringSimilarity
	}

	wa, wb := normalize.Words(na), normalize.Words(nb)

	// Counting from both sides and keeping the larger count keeps the score symmetric.
	matches := max(countMatches(wa, wb), countMatches(wb, wa))
	if matches == 0 {
		return 0
	}

	return float64(matches) / float64(max(len(wa), len(wb))) * wordOverlapWeight
}

// countMatches counts words of from that contain, or are contained by, some word of to.
func countMatches(from, to []string) int {
	count := 0
	for _, w := range from {
		for _, other := range to {
			if strings.Contains(other, w) || strings.Contains(w, other) {
				count++
				break
			}
		}
	}
	return count
}
