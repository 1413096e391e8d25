// Package lexical computes bounded string similarity between terms.
package lexical

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// ContainmentBonus is added when one term contains the other.
const ContainmentBonus = 0.15

// Similarity returns a [0,1] score for two terms: a normalized
// edit-distance ratio (1 - distance/maxLen) plus ContainmentBonus when
// one term is a substring of the other, capped at 1.0.
// Symmetric and deterministic; no I/O.
func Similarity(a, b string) float64 {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))

	if a == b {
		return 1.0
	}
	if a == "" || b == "" {
		return 0.0
	}

	maxLen := len([]rune(a))
	if l := len([]rune(b)); l > maxLen {
		maxLen = l
	}
	ratio := 1.0 - float64(levenshtein.ComputeDistance(a, b))/float64(maxLen)
	if ratio < 0 {
		ratio = 0
	}

	if strings.Contains(a, b) || strings.Contains(b, a) {
		ratio += ContainmentBonus
	}

	if ratio > 1.0 {
		ratio = 1.0
	}
	return ratio
}
