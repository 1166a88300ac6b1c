package compare

import (
	"math"

	"github.com/ujjwalhq/prism/internal/models"
)

// Weights holds the heuristic signal weights. They are configuration, not
// law: the defaults weigh all four signals equally.
type Weights struct {
	Divergence   float64
	Diversity    float64
	Formatting   float64
	LogicDensity float64
}

// DefaultWeights returns equal weighting across the four signals.
func DefaultWeights() Weights {
	return Weights{
		Divergence:   0.25,
		Diversity:    0.25,
		Formatting:   0.25,
		LogicDensity: 0.25,
	}
}

// AIAssistanceScore derives the AI-assistance score for a pair from four
// signals, each normalized to [0,1] and independently reported so the
// explanation layer can name the ones that fired:
//
//  1. divergence: structurally near-identical but lexically dissimilar is
//     the signature of renamed or paraphrased reuse
//  2. identifier-diversity gap: an unusually large gap between a natural
//     naming style and a formulaic one
//  3. formatting-consistency gap: machine styling against hand styling
//  4. logic-density gap: compressed logic against spread-out logic
//
// Pure function of the two units' cached token data.
func AIAssistanceScore(a, b *models.SourceUnit, lexical, structural float64, w Weights) (float64, models.Signals) {
	sig := models.Signals{
		Divergence:      math.Max(0, structural-lexical),
		DiversityGap:    math.Abs(IdentifierDiversity(a.Tokens) - IdentifierDiversity(b.Tokens)),
		FormattingGap:   math.Abs(FormattingConsistency(a.Lines) - FormattingConsistency(b.Lines)),
		LogicDensityGap: math.Abs(LogicDensity(a.Tokens) - LogicDensity(b.Tokens)),
	}

	score := w.Divergence*sig.Divergence +
		w.Diversity*sig.DiversityGap +
		w.Formatting*sig.FormattingGap +
		w.LogicDensity*sig.LogicDensityGap

	return clamp01(score), sig
}

// IdentifierDiversity is unique identifiers over total identifier tokens,
// 0 for a sequence with no identifiers.
func IdentifierDiversity(tokens []models.Token) float64 {
	total := 0
	unique := make(map[string]struct{})
	for _, t := range tokens {
		if t.Kind == models.TokenIdentifier {
			total++
			unique[t.Text] = struct{}{}
		}
	}
	if total == 0 {
		return 0.0
	}
	return float64(len(unique)) / float64(total)
}

// FormattingConsistency is an inverse-variance measure over per-line
// indentation width and line length: low variance means high consistency
// and a score near 1. Empty input scores 0.
func FormattingConsistency(lines []models.LineMetric) float64 {
	if len(lines) == 0 {
		return 0.0
	}
	indents := make([]float64, len(lines))
	lengths := make([]float64, len(lines))
	for i, l := range lines {
		indents[i] = float64(l.Indent)
		lengths[i] = float64(l.Length)
	}
	return (inverseVariance(indents) + inverseVariance(lengths)) / 2.0
}

// LogicDensity is keyword plus operator tokens over total comparable
// tokens, 0 for an empty sequence.
func LogicDensity(tokens []models.Token) float64 {
	if len(tokens) == 0 {
		return 0.0
	}
	logic := 0
	for _, t := range tokens {
		if t.Kind == models.TokenKeyword || t.Kind == models.TokenOperator {
			logic++
		}
	}
	return float64(logic) / float64(len(tokens))
}

func inverseVariance(values []float64) float64 {
	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))

	variance := 0.0
	for _, v := range values {
		d := v - mean
		variance += d * d
	}
	variance /= float64(len(values))

	return 1.0 / (1.0 + variance)
}

func clamp01(v float64) float64 {
	if v < 0.0 {
		return 0.0
	}
	if v > 1.0 {
		return 1.0
	}
	return v
}
