package compare

import (
	"fmt"

	"github.com/ujjwalhq/prism/internal/models"
)

// Thresholds holds the verdict rule cutoffs. Defaults are a concrete,
// testable baseline; every value is configuration.
type Thresholds struct {
	DirectCopy float64 // lexical and structural floor for DIRECT_COPY
	Structural float64 // structural floor for the AI-pattern rule
	Divergence float64 // divergence floor for the AI-pattern rule
	AIScore    float64 // ai score floor for the AI-pattern rule
	Moderate   float64 // either-similarity floor for MODERATE_SIMILARITY
}

// DefaultThresholds returns the baseline cutoffs.
func DefaultThresholds() Thresholds {
	return Thresholds{
		DirectCopy: 0.85,
		Structural: 0.85,
		Divergence: 0.30,
		AIScore:    0.50,
		Moderate:   0.50,
	}
}

// verdictRule pairs a predicate with its outcome. Rules are evaluated top
// down and the first match wins, so DIRECT_COPY is checked before the
// AI-pattern rule: an exact copy must never be down-classified by a
// coincidentally elevated AI score.
type verdictRule struct {
	matches func(s models.PairScore, sig models.Signals, t Thresholds) bool
	verdict models.Verdict
}

var verdictRules = []verdictRule{
	{
		matches: func(s models.PairScore, _ models.Signals, t Thresholds) bool {
			return s.Structural >= t.DirectCopy && s.Lexical >= t.DirectCopy
		},
		verdict: models.VerdictDirectCopy,
	},
	{
		matches: func(s models.PairScore, sig models.Signals, t Thresholds) bool {
			return s.Structural >= t.Structural &&
				sig.Divergence >= t.Divergence &&
				s.AIAssistance >= t.AIScore
		},
		verdict: models.VerdictAIAssisted,
	},
	{
		matches: func(s models.PairScore, _ models.Signals, t Thresholds) bool {
			return s.Structural >= t.Moderate || s.Lexical >= t.Moderate
		},
		verdict: models.VerdictModerateSimilarity,
	},
	{
		matches: func(models.PairScore, models.Signals, Thresholds) bool { return true },
		verdict: models.VerdictLikelyOriginal,
	},
}

// Classify maps the three scores to one discrete verdict.
func Classify(s models.PairScore, sig models.Signals, t Thresholds) models.Verdict {
	for _, rule := range verdictRules {
		if rule.matches(s, sig, t) {
			return rule.verdict
		}
	}
	return models.VerdictLikelyOriginal
}

// Explain generates the ordered human-readable rationale for a pair: one
// line per contributing signal that crossed its threshold, framed by the
// structural and lexical readings.
func Explain(fileA, fileB string, s models.PairScore, sig models.Signals, t Thresholds) []string {
	lines := make([]string, 0, 8)

	lines = append(lines, fmt.Sprintf("Comparison between %q and %q.", fileA, fileB))

	switch {
	case s.Structural >= t.Structural:
		lines = append(lines, fmt.Sprintf(
			"structural similarity %.2f indicates near-identical control flow", s.Structural))
	case s.Structural >= t.Moderate:
		lines = append(lines, fmt.Sprintf(
			"structural similarity %.2f suggests similar control flow", s.Structural))
	default:
		lines = append(lines, fmt.Sprintf(
			"structural similarity %.2f indicates different program structures", s.Structural))
	}

	switch {
	case s.Lexical >= t.DirectCopy:
		lines = append(lines, fmt.Sprintf(
			"lexical similarity %.2f suggests direct copying", s.Lexical))
	case s.Lexical >= t.Moderate:
		lines = append(lines, fmt.Sprintf(
			"lexical similarity %.2f suggests partial reuse of identifiers", s.Lexical))
	default:
		lines = append(lines, fmt.Sprintf(
			"lexical similarity %.2f indicates heavy renaming or rewriting", s.Lexical))
	}

	if sig.Divergence >= t.Divergence {
		lines = append(lines, fmt.Sprintf(
			"high structural/lexical divergence %.2f is a common paraphrasing pattern", sig.Divergence))
	}
	if sig.DiversityGap >= t.Divergence {
		lines = append(lines, fmt.Sprintf(
			"identifier diversity gap %.2f points at a formulaic naming style on one side", sig.DiversityGap))
	}
	if sig.FormattingGap >= t.Divergence {
		lines = append(lines, fmt.Sprintf(
			"formatting consistency gap %.2f suggests automated styling on one side", sig.FormattingGap))
	}
	if sig.LogicDensityGap >= t.Divergence {
		lines = append(lines, fmt.Sprintf(
			"logic density gap %.2f indicates compressed logic on one side", sig.LogicDensityGap))
	}

	if s.AIAssistance >= t.AIScore {
		lines = append(lines, fmt.Sprintf(
			"AI-assistance score %.2f driven by the signals above", s.AIAssistance))
	}

	return lines
}
