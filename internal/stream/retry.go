package stream

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// RetryHandler moves poison messages to a dead-letter stream so intake never
// wedges on a bad submission.
type RetryHandler struct {
	client        *redis.Client
	deadLetterKey string
}

func NewRetryHandler(client *redis.Client, deadLetterKey string) *RetryHandler {
	return &RetryHandler{
		client:        client,
		deadLetterKey: deadLetterKey,
	}
}

// DeadLetter copies the failed message and its error to the DLQ stream. The
// caller still acks the original afterwards.
func (h *RetryHandler) DeadLetter(ctx context.Context, msg redis.XMessage, procErr error) error {
	values := make(map[string]interface{}, len(msg.Values)+2)
	for k, v := range msg.Values {
		values[k] = v
	}
	values["originalId"] = msg.ID
	values["error"] = procErr.Error()

	if err := h.client.XAdd(ctx, &redis.XAddArgs{
		Stream: h.deadLetterKey,
		Values: values,
	}).Err(); err != nil {
		return fmt.Errorf("failed to dead-letter message %s: %w", msg.ID, err)
	}

	log.Warn().
		Str("messageId", msg.ID).
		Str("dlq", h.deadLetterKey).
		Err(procErr).
		Msg("message moved to dead-letter stream")

	return nil
}
