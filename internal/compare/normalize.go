package compare

import (
	"github.com/ujjwalhq/prism/internal/models"
)

// Placeholder symbols substituted for identifier and literal text.
const (
	placeholderIdentifier = "ID"
	placeholderLiteral    = "LIT"
)

// Normalize derives the structural token sequence from a comparable one:
// identifier and literal text collapses to fixed placeholders while
// keywords, operators and punctuation pass through unchanged. Two renamed
// but logically identical programs collapse to identical normalized
// sequences. The mapping is pure and idempotent; output length equals input
// length.
func Normalize(tokens []models.Token) []models.Token {
	out := make([]models.Token, len(tokens))
	for i, t := range tokens {
		switch t.Kind {
		case models.TokenIdentifier:
			out[i] = models.Token{Kind: t.Kind, Text: placeholderIdentifier, Pos: t.Pos}
		case models.TokenLiteral:
			out[i] = models.Token{Kind: t.Kind, Text: placeholderLiteral, Pos: t.Pos}
		default:
			out[i] = t
		}
	}
	return out
}
