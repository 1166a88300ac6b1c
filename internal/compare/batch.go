package compare

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/ujjwalhq/prism/internal/infra/redis"
	"github.com/ujjwalhq/prism/internal/models"
	"github.com/ujjwalhq/prism/internal/repository"
)

// AnalyzeBatch loads every ingested source unit of a batch, compares all
// unordered pairs and stores the finished report. Batch-level status moves
// through Redis so the UI can poll progress.
func AnalyzeBatch(
	ctx context.Context,
	batchID string,
	engine *Engine,
	sourcesRepo *repository.SourcesRepository,
	reportsRepo *repository.ReportsRepository,
	pool *WorkerPool,
	redisClient *redis.Client,
) error {
	units, err := sourcesRepo.GetSourceUnitsByBatchID(ctx, batchID)
	if err != nil {
		log.Error().Err(err).Str("batchId", batchID).Msg("failed to load source units")
		return fmt.Errorf("failed to load source units: %w", err)
	}

	if len(units) == 0 {
		return fmt.Errorf("no source units found for batchId: %s", batchID)
	}

	// A single file has no pairs; the report completes empty.
	if len(units) < 2 {
		return storeReport(ctx, batchID, units, nil, reportsRepo, redisClient)
	}

	if err := UpdateStatus(ctx, redisClient, batchID, models.StepComparing); err != nil {
		log.Warn().Err(err).Str("batchId", batchID).Msg("failed to update comparing status")
	}

	rows, err := engine.CompareUnits(ctx, units, pool)
	if err != nil {
		return fmt.Errorf("failed to compare batch %s: %w", batchID, err)
	}

	return storeReport(ctx, batchID, units, rows, reportsRepo, redisClient)
}

func storeReport(
	ctx context.Context,
	batchID string,
	units []*models.SourceUnit,
	rows []models.ComparisonResult,
	reportsRepo *repository.ReportsRepository,
	redisClient *redis.Client,
) error {
	statuses := make([]models.SourceStatus, 0, len(units))
	for _, unit := range units {
		code := models.StatusOK
		if len(unit.Tokens) == 0 {
			code = models.StatusEmptyInput
		}
		statuses = append(statuses, models.SourceStatus{FileID: unit.ID, Code: code})
	}

	highestLexical := 0.0
	highestAI := 0.0
	for _, row := range rows {
		if row.Scores.Lexical > highestLexical {
			highestLexical = row.Scores.Lexical
		}
		if row.Scores.AIAssistance > highestAI {
			highestAI = row.Scores.AIAssistance
		}
	}

	report := &models.BatchReport{
		BatchID:        batchID,
		Status:         "completed",
		Rows:           rows,
		FileStatuses:   statuses,
		TotalCompared:  len(rows),
		HighestLexical: highestLexical,
		HighestAI:      highestAI,
	}

	if err := reportsRepo.UpdateBatchReportByBatchID(ctx, batchID, report); err != nil {
		return fmt.Errorf("failed to store batch report: %w", err)
	}

	if err := UpdateStatus(ctx, redisClient, batchID, models.StepCompleted); err != nil {
		log.Warn().Err(err).Str("batchId", batchID).Msg("failed to update completed status")
	}

	log.Info().
		Str("batchId", batchID).
		Int("sources", len(units)).
		Int("pairs", len(rows)).
		Msg("batch analysis completed")

	return nil
}
