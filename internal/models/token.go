package models

// TokenKind classifies a lexeme produced by the tokenizer.
type TokenKind string

const (
	TokenIdentifier  TokenKind = "IDENTIFIER"
	TokenLiteral     TokenKind = "LITERAL"
	TokenKeyword     TokenKind = "KEYWORD"
	TokenOperator    TokenKind = "OPERATOR"
	TokenPunctuation TokenKind = "PUNCTUATION"
	TokenComment     TokenKind = "COMMENT"
	TokenWhitespace  TokenKind = "WHITESPACE_MARKER"
)

// Token is a single classified lexeme. Pos is the 0-based rune offset of the
// lexeme in the source text. Tokens are never mutated after tokenization.
type Token struct {
	Kind TokenKind `bson:"kind" json:"kind"`
	Text string    `bson:"text" json:"text"`
	Pos  int       `bson:"pos" json:"pos"`
}

// Comparable reports whether the token participates in similarity matching.
// Comments and layout markers only feed formatting measurement.
func (t Token) Comparable() bool {
	return t.Kind != TokenComment && t.Kind != TokenWhitespace
}

// LineMetric records the shape of one non-blank source line.
type LineMetric struct {
	Indent int `bson:"indent" json:"indent"`
	Length int `bson:"length" json:"length"`
}
