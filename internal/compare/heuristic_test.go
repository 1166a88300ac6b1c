package compare

import (
	"math"
	"testing"

	"github.com/ujjwalhq/prism/internal/models"
)

func TestIdentifierDiversity(t *testing.T) {
	g := DefaultGrammar()

	cases := []struct {
		name string
		src  string
		want float64
	}{
		{"no identifiers", "1 + 2", 0.0},
		{"all unique", "a = b + c", 1.0},
		{"half repeated", "x = x\ny = y", 0.5},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tokens := Comparable(g.Tokenize(tc.src))
			if got := IdentifierDiversity(tokens); got != tc.want {
				t.Fatalf("IdentifierDiversity = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestFormattingConsistency(t *testing.T) {
	uniform := LineMetrics("aaaa\naaaa\naaaa\naaaa\n")
	ragged := LineMetrics("a\n        aaaaaaaaaaaaaaaaaaaaaaaa\n  aaa\naaaaaaaaaaaa\n")

	u := FormattingConsistency(uniform)
	r := FormattingConsistency(ragged)
	if u != 1.0 {
		t.Fatalf("uniform layout consistency = %v, want 1.0", u)
	}
	if r >= u {
		t.Fatalf("ragged layout (%v) not less consistent than uniform (%v)", r, u)
	}
	if got := FormattingConsistency(nil); got != 0.0 {
		t.Fatalf("empty input consistency = %v, want 0.0", got)
	}
}

func TestLogicDensity(t *testing.T) {
	g := DefaultGrammar()

	dense := Comparable(g.Tokenize("if a and b or not c:"))
	sparse := Comparable(g.Tokenize("alpha beta gamma delta"))

	if d := LogicDensity(dense); d <= LogicDensity(sparse) {
		t.Fatalf("keyword-heavy source not denser: %v vs %v", d, LogicDensity(sparse))
	}
	if got := LogicDensity(nil); got != 0.0 {
		t.Fatalf("empty sequence density = %v, want 0.0", got)
	}
}

func TestAIAssistanceScoreSignals(t *testing.T) {
	a := mustUnit(t, "a", "def f(a, b):\n    return a + b\n")
	b := mustUnit(t, "b", "def f(a, b):\n    return a + b\n")

	// identical units in every signal: only divergence can contribute
	score, sig := AIAssistanceScore(a, b, 0.4, 0.9, DefaultWeights())
	if want := 0.5; math.Abs(sig.Divergence-want) > 1e-9 {
		t.Fatalf("divergence = %v, want %v", sig.Divergence, want)
	}
	if sig.DiversityGap != 0 || sig.FormattingGap != 0 || sig.LogicDensityGap != 0 {
		t.Fatalf("identical units produced nonzero gaps: %+v", sig)
	}
	if want := 0.125; math.Abs(score-want) > 1e-9 {
		t.Fatalf("score = %v, want %v", score, want)
	}
}

func TestAIAssistanceScoreDivergenceClampedAtZero(t *testing.T) {
	a := mustUnit(t, "a", "x = 1\n")
	b := mustUnit(t, "b", "x = 1\n")

	_, sig := AIAssistanceScore(a, b, 0.9, 0.4, DefaultWeights())
	if sig.Divergence != 0 {
		t.Fatalf("divergence = %v, want 0 when lexical exceeds structural", sig.Divergence)
	}
}

func TestAIAssistanceScoreBounded(t *testing.T) {
	a := mustUnit(t, "a", "def f():\n    if x and y or z:\n        return 1\n")
	b := mustUnit(t, "b", "value\n")

	heavy := Weights{Divergence: 2, Diversity: 2, Formatting: 2, LogicDensity: 2}
	score, _ := AIAssistanceScore(a, b, 0.0, 1.0, heavy)
	if score != 1.0 {
		t.Fatalf("score with oversized weights = %v, want clamp to 1.0", score)
	}

	zero := Weights{}
	score, _ = AIAssistanceScore(a, b, 0.0, 1.0, zero)
	if score != 0.0 {
		t.Fatalf("score with zero weights = %v, want 0.0", score)
	}
}

func TestAIAssistanceScoreSymmetric(t *testing.T) {
	a := mustUnit(t, "a", "def f(a):\n    return a\n")
	b := mustUnit(t, "b", "total = first + second + third\n")

	ab, _ := AIAssistanceScore(a, b, 0.3, 0.6, DefaultWeights())
	ba, _ := AIAssistanceScore(b, a, 0.3, 0.6, DefaultWeights())
	if ab != ba {
		t.Fatalf("ai score asymmetric: %v vs %v", ab, ba)
	}
}

func TestAIAssistanceScoreDoesNotMutateUnits(t *testing.T) {
	a := mustUnit(t, "a", "x = 1\n")
	b := mustUnit(t, "b", "y = 2\n")
	tokensBefore := len(a.Tokens)

	AIAssistanceScore(a, b, 0.5, 0.5, DefaultWeights())
	if len(a.Tokens) != tokensBefore {
		t.Fatalf("scorer mutated its input")
	}
}

func testSignalsZero(sig models.Signals) bool {
	return sig.Divergence == 0 && sig.DiversityGap == 0 &&
		sig.FormattingGap == 0 && sig.LogicDensityGap == 0
}

func TestAIAssistanceScoreIdenticalPairAllZero(t *testing.T) {
	a := mustUnit(t, "a", "def f():\n    return 1\n")
	b := mustUnit(t, "b", "def f():\n    return 1\n")

	score, sig := AIAssistanceScore(a, b, 1.0, 1.0, DefaultWeights())
	if score != 0 || !testSignalsZero(sig) {
		t.Fatalf("identical pair produced score %v signals %+v", score, sig)
	}
}
