package compare

import (
	"strings"

	"github.com/ujjwalhq/prism/internal/models"
)

// LexicalSimilarity is the alignment ratio over the raw comparable token
// sequences: surface-level resemblance, sensitive to naming and constants.
func LexicalSimilarity(a, b []models.Token) float64 {
	return Ratio(a, b)
}

// StructuralSimilarity is the same ratio over the normalized sequences, so
// identifier and literal identity no longer participates in matching.
func StructuralSimilarity(aNorm, bNorm []models.Token) float64 {
	return Ratio(aNorm, bNorm)
}

// Ratio computes 2*M/(len(a)+len(b)) where M is the total length of matching
// token runs found by a greedy longest-contiguous-match recursive split, the
// classic sequence-diff ratio. Symmetric, bounded to [0,1], 1 meaning
// token-for-token identical. Empty input takes the boundary value instead of
// failing: 1 when both sequences are empty, 0 when only one is.
func Ratio(a, b []models.Token) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1.0
	}
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}
	first, second := orderForMatch(a, b)
	matched := matchedLength(first, second)
	return 2.0 * float64(matched) / float64(len(a)+len(b))
}

// orderForMatch puts the pair in a canonical order so that tie-breaking
// inside the greedy match cannot make sim(A,B) differ from sim(B,A).
func orderForMatch(a, b []models.Token) ([]models.Token, []models.Token) {
	if len(a) != len(b) {
		if len(a) > len(b) {
			return b, a
		}
		return a, b
	}
	if sequenceKey(a) > sequenceKey(b) {
		return b, a
	}
	return a, b
}

func sequenceKey(tokens []models.Token) string {
	var sb strings.Builder
	for _, t := range tokens {
		sb.WriteString(string(t.Kind))
		sb.WriteByte(0)
		sb.WriteString(t.Text)
		sb.WriteByte(0)
	}
	return sb.String()
}

// matchedLength finds the longest contiguous run of matching tokens, then
// recurses on the unmatched left and right remainders.
func matchedLength(a, b []models.Token) int {
	startA, startB, size := longestMatch(a, b)
	if size == 0 {
		return 0
	}
	total := size
	total += matchedLength(a[:startA], b[:startB])
	total += matchedLength(a[startA+size:], b[startB+size:])
	return total
}

// longestMatch scans for the longest common contiguous token run. Two
// tokens match only when both kind and text are equal.
func longestMatch(a, b []models.Token) (int, int, int) {
	bestA, bestB, bestSize := 0, 0, 0

	for i := 0; i < len(a); i++ {
		if len(a)-i <= bestSize {
			break
		}
		for j := 0; j < len(b); j++ {
			if len(b)-j <= bestSize {
				break
			}
			size := 0
			for i+size < len(a) && j+size < len(b) && tokensEqual(a[i+size], b[j+size]) {
				size++
			}
			if size > bestSize {
				bestA, bestB, bestSize = i, j, size
			}
		}
	}

	return bestA, bestB, bestSize
}

func tokensEqual(a, b models.Token) bool {
	return a.Kind == b.Kind && a.Text == b.Text
}
