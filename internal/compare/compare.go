package compare

import (
	"context"
	"errors"

	"github.com/ujjwalhq/prism/internal/models"
)

// DefaultMaxSourceBytes caps per-file input at 256 KiB.
const DefaultMaxSourceBytes = 256 << 10

// Engine is the comparison engine: a pure function of the input texts,
// carrying only configuration. It holds no mutable state across calls, so a
// single Engine can serve concurrent batches.
type Engine struct {
	Grammar        Grammar
	Weights        Weights
	Thresholds     Thresholds
	MaxSourceBytes int
}

// NewEngine returns an engine with the documented defaults.
func NewEngine() *Engine {
	return &Engine{
		Grammar:        DefaultGrammar(),
		Weights:        DefaultWeights(),
		Thresholds:     DefaultThresholds(),
		MaxSourceBytes: DefaultMaxSourceBytes,
	}
}

// ComparePair runs the full pipeline for one pair: both similarities, the
// heuristic score, the verdict and its explanation.
func (e *Engine) ComparePair(a, b *models.SourceUnit) models.ComparisonResult {
	lexical := LexicalSimilarity(a.Tokens, b.Tokens)
	structural := StructuralSimilarity(a.Normalized, b.Normalized)
	aiScore, signals := AIAssistanceScore(a, b, lexical, structural, e.Weights)

	scores := models.PairScore{
		Lexical:      lexical,
		Structural:   structural,
		AIAssistance: aiScore,
	}

	return models.ComparisonResult{
		FileA:       a.ID,
		FileB:       b.ID,
		Scores:      scores,
		Signals:     signals,
		Verdict:     Classify(scores, signals, e.Thresholds),
		Explanation: Explain(a.ID, b.ID, scores, signals, e.Thresholds),
	}
}

// comparisonJob carries one pair through the worker pool. The index pins the
// row to its slot so parallel execution cannot disturb report order.
type comparisonJob struct {
	engine     *Engine
	index      int
	unitA      *models.SourceUnit
	unitB      *models.SourceUnit
	resultChan chan<- indexedResult
}

type indexedResult struct {
	index int
	row   models.ComparisonResult
}

func (j *comparisonJob) Execute(ctx context.Context) error {
	row := j.engine.ComparePair(j.unitA, j.unitB)
	select {
	case <-ctx.Done():
		return ctx.Err()
	case j.resultChan <- indexedResult{index: j.index, row: row}:
		return nil
	}
}

// CompareUnits compares every unordered pair of units and returns one row
// per pair, ordered ascending by (i,j) index of first appearance. With a
// pool the pairs fan out across workers; with a nil pool they run inline.
func (e *Engine) CompareUnits(ctx context.Context, units []*models.SourceUnit, pool *WorkerPool) ([]models.ComparisonResult, error) {
	pairCount := len(units) * (len(units) - 1) / 2
	results := make([]models.ComparisonResult, pairCount)
	if pairCount == 0 {
		return results, nil
	}

	if pool == nil {
		idx := 0
		for i := 0; i < len(units); i++ {
			for j := i + 1; j < len(units); j++ {
				results[idx] = e.ComparePair(units[i], units[j])
				idx++
			}
		}
		return results, nil
	}

	resultChan := make(chan indexedResult, pairCount)
	idx := 0
	for i := 0; i < len(units); i++ {
		for j := i + 1; j < len(units); j++ {
			job := &comparisonJob{
				engine:     e,
				index:      idx,
				unitA:      units[i],
				unitB:      units[j],
				resultChan: resultChan,
			}
			if err := pool.Submit(job); err != nil {
				return nil, err
			}
			idx++
		}
	}

	for collected := 0; collected < pairCount; collected++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case r := <-resultChan:
			results[r.index] = r.row
		}
	}

	return results, nil
}

// CompareAll is the single call the report layer consumes: it validates each
// source, compares every unordered pair of the accepted ones and returns the
// rows plus a per-file status list. A rejected file is skipped, never fatal;
// a file with zero comparable tokens is flagged but still compared using the
// defined empty-sequence boundary values.
func (e *Engine) CompareAll(ctx context.Context, sources []models.SourceInput, pool *WorkerPool) ([]models.ComparisonResult, []models.SourceStatus, error) {
	statuses := make([]models.SourceStatus, 0, len(sources))
	units := make([]*models.SourceUnit, 0, len(sources))

	for _, src := range sources {
		unit, err := e.NewSourceUnit("", src.ID, src.Content)
		switch {
		case errors.Is(err, ErrOversized):
			statuses = append(statuses, models.SourceStatus{
				FileID: src.ID,
				Code:   models.StatusOversizedInput,
				Error:  err.Error(),
			})
			continue
		case errors.Is(err, ErrEncoding):
			statuses = append(statuses, models.SourceStatus{
				FileID: src.ID,
				Code:   models.StatusUnsupportedEncoding,
				Error:  err.Error(),
			})
			continue
		}

		code := models.StatusOK
		if len(unit.Tokens) == 0 {
			code = models.StatusEmptyInput
		}
		statuses = append(statuses, models.SourceStatus{FileID: src.ID, Code: code})
		units = append(units, unit)
	}

	rows, err := e.CompareUnits(ctx, units, pool)
	if err != nil {
		return nil, statuses, err
	}
	return rows, statuses, nil
}
