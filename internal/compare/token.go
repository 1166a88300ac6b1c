package compare

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/ujjwalhq/prism/internal/models"
)

// Grammar holds the symbol tables for the target language family. The
// defaults target Python-style source; the tables are configuration, so a
// grammar for a related language can be swapped in without touching the
// scanner.
type Grammar struct {
	Keywords     map[string]bool
	WordLiterals map[string]bool
	Operators    []string // longest first
	Punctuation  map[rune]bool
}

// DefaultGrammar returns the Python-family symbol tables.
func DefaultGrammar() Grammar {
	keywords := map[string]bool{
		"and": true, "as": true, "assert": true, "async": true, "await": true,
		"break": true, "class": true, "continue": true, "def": true, "del": true,
		"elif": true, "else": true, "except": true, "finally": true, "for": true,
		"from": true, "global": true, "if": true, "import": true, "in": true,
		"is": true, "lambda": true, "nonlocal": true, "not": true, "or": true,
		"pass": true, "raise": true, "return": true, "try": true, "while": true,
		"with": true, "yield": true,
	}
	wordLiterals := map[string]bool{"True": true, "False": true, "None": true}
	operators := []string{
		"**=", "//=", ">>=", "<<=",
		"**", "//", ">>", "<<", "==", "!=", "<=", ">=", "->", ":=",
		"+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=", "@=",
		"+", "-", "*", "/", "%", "@", "<", ">", "=", "&", "|", "^", "~",
	}
	punctuation := map[rune]bool{
		'(': true, ')': true, '[': true, ']': true, '{': true, '}': true,
		',': true, ':': true, '.': true, ';': true,
	}
	return Grammar{
		Keywords:     keywords,
		WordLiterals: wordLiterals,
		Operators:    operators,
		Punctuation:  punctuation,
	}
}

// Tokenize scans raw source left to right and classifies each maximal
// lexeme. Malformed input never fails: an unterminated string or comment is
// closed at end of input with its best-effort kind so downstream always has
// a sequence to compare. Output order equals source order.
func (g Grammar) Tokenize(raw string) []models.Token {
	runes := []rune(raw)
	tokens := make([]models.Token, 0, len(runes)/4)

	i := 0
	for i < len(runes) {
		r := runes[i]
		switch {
		case r == '\n':
			start := i
			for i < len(runes) && isSpace(runes[i]) {
				i++
			}
			// indentation width of the line the run lands on
			indent := 0
			for j := i - 1; j >= 0 && runes[j] != '\n'; j-- {
				indent += indentWidth(runes[j])
			}
			tokens = append(tokens, models.Token{
				Kind: models.TokenWhitespace,
				Text: strconv.Itoa(indent),
				Pos:  start,
			})
		case r == ' ' || r == '\t' || r == '\r':
			i++
		case r == '#':
			start := i
			for i < len(runes) && runes[i] != '\n' {
				i++
			}
			tokens = append(tokens, models.Token{
				Kind: models.TokenComment,
				Text: string(runes[start:i]),
				Pos:  start,
			})
		case isIdentStart(r):
			start := i
			for i < len(runes) && isIdentPart(runes[i]) {
				i++
			}
			word := string(runes[start:i])
			kind := models.TokenIdentifier
			if g.Keywords[word] {
				kind = models.TokenKeyword
			} else if g.WordLiterals[word] {
				kind = models.TokenLiteral
			}
			tokens = append(tokens, models.Token{Kind: kind, Text: word, Pos: start})
		case unicode.IsDigit(r):
			start := i
			for i < len(runes) && isNumberPart(runes[i]) {
				i++
			}
			tokens = append(tokens, models.Token{
				Kind: models.TokenLiteral,
				Text: string(runes[start:i]),
				Pos:  start,
			})
		case r == '"' || r == '\'':
			tok, next := scanString(runes, i)
			tokens = append(tokens, tok)
			i = next
		default:
			if op, ok := g.matchOperator(runes, i); ok {
				tokens = append(tokens, models.Token{Kind: models.TokenOperator, Text: op, Pos: i})
				i += len([]rune(op))
			} else {
				// punctuation table plus any unknown symbol, absorbed rather
				// than rejected
				tokens = append(tokens, models.Token{
					Kind: models.TokenPunctuation,
					Text: string(r),
					Pos:  i,
				})
				i++
			}
		}
	}

	return tokens
}

// Comparable filters a token sequence down to the subset that participates
// in similarity matching.
func Comparable(tokens []models.Token) []models.Token {
	out := make([]models.Token, 0, len(tokens))
	for _, t := range tokens {
		if t.Comparable() {
			out = append(out, t)
		}
	}
	return out
}

// LineMetrics measures indentation width and length of every non-blank line.
func LineMetrics(raw string) []models.LineMetric {
	lines := strings.Split(raw, "\n")
	metrics := make([]models.LineMetric, 0, len(lines))
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		indent := 0
		for _, r := range line {
			if r != ' ' && r != '\t' {
				break
			}
			indent += indentWidth(r)
		}
		metrics = append(metrics, models.LineMetric{Indent: indent, Length: len([]rune(line))})
	}
	return metrics
}

// scanString consumes a quoted literal starting at i, handling triple quotes
// and escapes. An unterminated literal is closed at end of input.
func scanString(runes []rune, i int) (models.Token, int) {
	start := i
	quote := runes[i]
	triple := i+2 < len(runes) && runes[i+1] == quote && runes[i+2] == quote
	if triple {
		i += 3
		for i < len(runes) {
			if runes[i] == quote && i+2 < len(runes) && runes[i+1] == quote && runes[i+2] == quote {
				i += 3
				break
			}
			i++
		}
	} else {
		i++
		for i < len(runes) && runes[i] != quote && runes[i] != '\n' {
			if runes[i] == '\\' && i+1 < len(runes) {
				i++
			}
			i++
		}
		if i < len(runes) && runes[i] == quote {
			i++
		}
	}
	return models.Token{
		Kind: models.TokenLiteral,
		Text: string(runes[start:min(i, len(runes))]),
		Pos:  start,
	}, min(i, len(runes))
}

func (g Grammar) matchOperator(runes []rune, i int) (string, bool) {
	rest := string(runes[i:])
	for _, op := range g.Operators {
		if strings.HasPrefix(rest, op) {
			return op, true
		}
	}
	return "", false
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isNumberPart(r rune) bool {
	return r == '.' || r == '_' || unicode.IsDigit(r) || unicode.IsLetter(r)
}

func indentWidth(r rune) int {
	switch r {
	case ' ':
		return 1
	case '\t':
		return 4
	default:
		return 0
	}
}
