package compare

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ujjwalhq/prism/internal/infra/redis"
	"github.com/ujjwalhq/prism/internal/models"
)

const statusTTL = 12 * time.Hour

// UpdateStatus records the current analysis step for a batch in Redis so
// the UI can poll progress.
func UpdateStatus(ctx context.Context, redisClient *redis.Client, batchID string, step models.Step) error {
	validSteps := map[models.Step]bool{
		models.StepIdle:      true,
		models.StepInitiated: true,
		models.StepIngesting: true,
		models.StepComparing: true,
		models.StepCompleted: true,
		models.StepFailed:    true,
	}
	if !validSteps[step] {
		return fmt.Errorf("unknown step: %s", step)
	}

	rkey := "comparison_status:" + batchID

	if err := redisClient.Set(ctx, rkey, string(step), statusTTL).Err(); err != nil {
		log.Error().Err(err).
			Str("step", string(step)).
			Str("batchId", batchID).
			Msg("failed to update analysis status in Redis")
		return fmt.Errorf("failed to update status in Redis: %w", err)
	}

	log.Trace().
		Str("step", string(step)).
		Str("batchId", batchID).
		Msg("analysis status updated")

	return nil
}
