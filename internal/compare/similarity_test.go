package compare

import (
	"math"
	"testing"

	"github.com/ujjwalhq/prism/internal/models"
)

func mustUnit(t *testing.T, id, src string) *models.SourceUnit {
	t.Helper()
	unit, err := NewEngine().NewSourceUnit("", id, src)
	if err != nil {
		t.Fatalf("NewSourceUnit(%s): %v", id, err)
	}
	return unit
}

func TestRatioSelfSimilarityIsOne(t *testing.T) {
	unit := mustUnit(t, "a", "def f(a, b):\n    return a + b\n")

	if got := LexicalSimilarity(unit.Tokens, unit.Tokens); got != 1.0 {
		t.Fatalf("lexical self-similarity = %v, want 1.0", got)
	}
	if got := StructuralSimilarity(unit.Normalized, unit.Normalized); got != 1.0 {
		t.Fatalf("structural self-similarity = %v, want 1.0", got)
	}
}

func TestRatioSymmetry(t *testing.T) {
	cases := []struct {
		name string
		srcA string
		srcB string
	}{
		{"different sizes", "x = 1\n", "def f():\n    return 2\n"},
		{"same size", "a = 1 + 2\n", "b = 3 * 4\n"},
		{"repeated runs", "a b a b a\n", "b a b a b\n"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a := mustUnit(t, "a", tc.srcA)
			b := mustUnit(t, "b", tc.srcB)

			if ab, ba := Ratio(a.Tokens, b.Tokens), Ratio(b.Tokens, a.Tokens); ab != ba {
				t.Fatalf("lexical ratio asymmetric: %v vs %v", ab, ba)
			}
			if ab, ba := Ratio(a.Normalized, b.Normalized), Ratio(b.Normalized, a.Normalized); ab != ba {
				t.Fatalf("structural ratio asymmetric: %v vs %v", ab, ba)
			}
		})
	}
}

func TestRatioEmptyBoundaries(t *testing.T) {
	var empty []models.Token
	nonEmpty := mustUnit(t, "a", "x = 1\n").Tokens

	if got := Ratio(empty, empty); got != 1.0 {
		t.Fatalf("both empty = %v, want 1.0", got)
	}
	if got := Ratio(empty, nonEmpty); got != 0.0 {
		t.Fatalf("one empty = %v, want 0.0", got)
	}
	if got := Ratio(nonEmpty, empty); got != 0.0 {
		t.Fatalf("one empty (swapped) = %v, want 0.0", got)
	}
}

func TestRenameInvariance(t *testing.T) {
	original := mustUnit(t, "a", `def add(a, b):
    total = a + b
    return total
`)
	renamed := mustUnit(t, "b", `def sum_values(first, second):
    result = first + second
    return result
`)

	structural := StructuralSimilarity(original.Normalized, renamed.Normalized)
	if structural != 1.0 {
		t.Fatalf("structural similarity after pure rename = %v, want 1.0", structural)
	}

	lexical := LexicalSimilarity(original.Tokens, renamed.Tokens)
	if lexical >= 1.0 {
		t.Fatalf("lexical similarity did not decrease after rename: %v", lexical)
	}
	if lexical <= 0.3 || lexical >= 0.7 {
		t.Fatalf("lexical similarity %v outside the expected band for this identifier density", lexical)
	}
}

func TestLiteralChangeInvariance(t *testing.T) {
	a := mustUnit(t, "a", "x = 1\ny = 2\n")
	b := mustUnit(t, "b", "x = 100\ny = 250\n")

	if got := StructuralSimilarity(a.Normalized, b.Normalized); got != 1.0 {
		t.Fatalf("structural similarity after literal change = %v, want 1.0", got)
	}
	if got := LexicalSimilarity(a.Tokens, b.Tokens); got >= 1.0 {
		t.Fatalf("lexical similarity ignored literal change: %v", got)
	}
}

func TestRatioUnrelatedSourcesStayLow(t *testing.T) {
	a := mustUnit(t, "a", "x = 1\n")
	b := mustUnit(t, "b", "def f():\n    while True:\n        pass\n")

	if got := LexicalSimilarity(a.Tokens, b.Tokens); got >= 0.5 {
		t.Fatalf("lexical similarity of unrelated sources = %v, want < 0.5", got)
	}
	if got := StructuralSimilarity(a.Normalized, b.Normalized); got >= 0.5 {
		t.Fatalf("structural similarity of unrelated sources = %v, want < 0.5", got)
	}
}

func TestRatioBounded(t *testing.T) {
	a := mustUnit(t, "a", "for i in range(10):\n    print(i)\n")
	b := mustUnit(t, "b", "while n > 0:\n    n = n - 1\n")

	got := Ratio(a.Tokens, b.Tokens)
	if got < 0.0 || got > 1.0 || math.IsNaN(got) {
		t.Fatalf("ratio out of bounds: %v", got)
	}
}

func TestLongestMatchPrefersLongerRun(t *testing.T) {
	g := DefaultGrammar()
	a := Comparable(g.Tokenize("a + b + c"))
	b := Comparable(g.Tokenize("x + b + c"))

	_, _, size := longestMatch(a, b)
	// "+ b + c" is a four-token common run
	if size != 4 {
		t.Fatalf("longest match size = %d, want 4", size)
	}
}
