package models

import (
	"time"
)

// Verdict is the discrete classification assigned to a compared pair.
type Verdict string

const (
	VerdictLikelyOriginal     Verdict = "LIKELY_ORIGINAL"
	VerdictModerateSimilarity Verdict = "MODERATE_SIMILARITY"
	VerdictDirectCopy         Verdict = "DIRECT_COPY"
	VerdictAIAssisted         Verdict = "AI_ASSISTED_PLAGIARISM"
)

// PairScore holds the three similarity scores for one pair, each in [0,1].
type PairScore struct {
	Lexical      float64 `bson:"lexical" json:"lexical"`
	Structural   float64 `bson:"structural" json:"structural"`
	AIAssistance float64 `bson:"aiAssistance" json:"aiAssistance"`
}

// Signals exposes the four heuristic sub-signals so explanations can name
// the ones that fired. All values are normalized to [0,1].
type Signals struct {
	Divergence      float64 `bson:"divergence" json:"divergence"`
	DiversityGap    float64 `bson:"diversityGap" json:"diversityGap"`
	FormattingGap   float64 `bson:"formattingGap" json:"formattingGap"`
	LogicDensityGap float64 `bson:"logicDensityGap" json:"logicDensityGap"`
}

// ComparisonResult is one report row: two file ids, the scores, the verdict
// and its ordered explanation. Read-only once produced.
type ComparisonResult struct {
	FileA       string    `bson:"fileA" json:"fileA"`
	FileB       string    `bson:"fileB" json:"fileB"`
	Scores      PairScore `bson:"scores" json:"scores"`
	Signals     Signals   `bson:"signals" json:"signals"`
	Verdict     Verdict   `bson:"verdict" json:"verdict"`
	Explanation []string  `bson:"explanation" json:"explanation"`
}

// BatchReport is the stored outcome of analyzing one batch of sources.
type BatchReport struct {
	BatchID        string             `bson:"batchId" json:"batchId"`
	Status         string             `bson:"status" json:"status"` // pending, completed, failed
	Rows           []ComparisonResult `bson:"rows" json:"rows"`
	FileStatuses   []SourceStatus     `bson:"fileStatuses" json:"fileStatuses"`
	TotalCompared  int                `bson:"totalCompared" json:"totalCompared"`
	HighestLexical float64            `bson:"highestLexical" json:"highestLexical"`
	HighestAI      float64            `bson:"highestAI" json:"highestAI"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
}

// SourceInput is one inline source in a synchronous compare request.
type SourceInput struct {
	ID      string `json:"id" binding:"required"`
	Content string `json:"content"`
}

// CompareRequest is the body of POST /api/v1/compare.
type CompareRequest struct {
	Sources []SourceInput `json:"sources" binding:"required"`
}

// CompareResponse carries the report rows and per-file statuses.
type CompareResponse struct {
	Results  []ComparisonResult `json:"results"`
	Statuses []SourceStatus     `json:"statuses"`
}

// AnalyzeResponse acknowledges an async batch analysis.
type AnalyzeResponse struct {
	Step    Step   `json:"step"`
	BatchID string `json:"batchId"`
}
