package intake

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/ujjwalhq/prism/internal/compare"
	"github.com/ujjwalhq/prism/internal/models"
	"github.com/ujjwalhq/prism/internal/repository"
)

// Service turns raw submissions into stored SourceUnits: decode and size
// validation, tokenization and normalization happen here, once, at intake.
type Service struct {
	engine      *compare.Engine
	sourcesRepo *repository.SourcesRepository
}

func NewService(engine *compare.Engine, sourcesRepo *repository.SourcesRepository) *Service {
	return &Service{
		engine:      engine,
		sourcesRepo: sourcesRepo,
	}
}

// ProcessSubmission builds and persists the SourceUnit for one submission.
// Validation failures are returned to the caller so the stream layer can
// dead-letter the message.
func (s *Service) ProcessSubmission(ctx context.Context, submission *models.Submission) error {
	unit, err := s.engine.NewSourceUnit(submission.BatchID, submission.FileID, submission.Content)
	if err != nil {
		return fmt.Errorf("failed to build source unit for %s: %w", submission.FileID, err)
	}

	if err := s.sourcesRepo.InsertSourceUnit(ctx, unit); err != nil {
		return fmt.Errorf("failed to store source unit: %w", err)
	}

	log.Debug().
		Str("batchId", submission.BatchID).
		Str("fileId", submission.FileID).
		Int("tokens", len(unit.Tokens)).
		Msg("source unit ingested")

	return nil
}
