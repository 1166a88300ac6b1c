package compare

import (
	"errors"
	"time"
	"unicode/utf8"

	"github.com/ujjwalhq/prism/internal/models"
)

var (
	// ErrOversized rejects raw text exceeding the configured maximum,
	// surfaced before tokenization.
	ErrOversized = errors.New("source exceeds maximum accepted size")

	// ErrEncoding rejects text that is not valid UTF-8.
	ErrEncoding = errors.New("source is not valid UTF-8")
)

// NewSourceUnit validates raw text and builds an immutable SourceUnit with
// its comparable token sequence, the normalized sequence (computed here,
// once, since inputs never change) and per-line formatting metrics.
func (e *Engine) NewSourceUnit(batchID, fileID, raw string) (*models.SourceUnit, error) {
	if e.MaxSourceBytes > 0 && len(raw) > e.MaxSourceBytes {
		return nil, ErrOversized
	}
	if !utf8.ValidString(raw) {
		return nil, ErrEncoding
	}

	comparable := Comparable(e.Grammar.Tokenize(raw))

	return &models.SourceUnit{
		ID:         fileID,
		BatchID:    batchID,
		RawText:    raw,
		Tokens:     comparable,
		Normalized: Normalize(comparable),
		Lines:      LineMetrics(raw),
		CreatedAt:  time.Now(),
	}, nil
}
