package models

import (
	"time"
)

type Step string

const (
	StepIdle      Step = "idle"
	StepInitiated Step = "initiated"
	StepIngesting Step = "ingesting"
	StepComparing Step = "comparing"
	StepCompleted Step = "completed"
	StepFailed    Step = "failed"
)

// SourceUnit is one ingested source text plus its derived token data,
// immutable after construction. Tokens holds the comparable subset only;
// Normalized is computed eagerly at construction and cached for the lifetime
// of the unit.
type SourceUnit struct {
	ID         string       `bson:"fileId" json:"fileId"`
	BatchID    string       `bson:"batchId" json:"batchId"`
	RawText    string       `bson:"rawText" json:"rawText"`
	Tokens     []Token      `bson:"tokens" json:"tokens"`
	Normalized []Token      `bson:"normalizedTokens" json:"normalizedTokens"`
	Lines      []LineMetric `bson:"lines" json:"lines"`
	CreatedAt  time.Time    `bson:"createdAt" json:"createdAt"`
}

// Submission is a raw source file arriving on the intake stream.
type Submission struct {
	BatchID string `json:"batchId"`
	FileID  string `json:"fileId"`
	Content string `json:"content"`
}

// SourceStatus reports the per-file outcome of intake validation. Files that
// fail validation are excluded from pairing; the batch itself continues.
type SourceStatus struct {
	FileID string `bson:"fileId" json:"fileId"`
	Code   string `bson:"code" json:"code"`
	Error  string `bson:"error,omitempty" json:"error,omitempty"`
}

// Per-file status codes.
const (
	StatusOK                  = "OK"
	StatusEmptyInput          = "EMPTY_INPUT"
	StatusOversizedInput      = "OVERSIZED_INPUT"
	StatusUnsupportedEncoding = "UNSUPPORTED_ENCODING"
)
