package stream

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/ujjwalhq/prism/internal/intake"
	"github.com/ujjwalhq/prism/internal/models"
)

// Consumer reads source submissions from a Redis stream and feeds them
// through intake. Messages carry batchId, fileId and content fields.
type Consumer struct {
	client            *redis.Client
	streamKey         string
	consumerGroup     string
	consumerName      string
	intakeSvc         *intake.Service
	retryHandler      *RetryHandler
	retentionDuration time.Duration
	cleanupInterval   time.Duration
}

func NewConsumer(
	client *redis.Client,
	streamKey string,
	consumerGroup string,
	consumerName string,
	intakeSvc *intake.Service,
	retryHandler *RetryHandler,
	retentionDuration time.Duration,
) *Consumer {
	return &Consumer{
		client:            client,
		streamKey:         streamKey,
		consumerGroup:     consumerGroup,
		consumerName:      consumerName,
		intakeSvc:         intakeSvc,
		retryHandler:      retryHandler,
		retentionDuration: retentionDuration,
		cleanupInterval:   1 * time.Hour,
	}
}

func (c *Consumer) Start(ctx context.Context) error {
	if err := c.createConsumerGroup(ctx); err != nil {
		log.Warn().Err(err).Msg("failed to create consumer group, may already exist")
	}

	// Claim anything a crashed consumer left pending.
	if err := c.recoverPending(ctx); err != nil {
		log.Warn().Err(err).Msg("failed to recover pending messages on startup")
	}

	go c.runCleanupPeriodically(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			if err := c.consume(ctx); err != nil {
				log.Error().Err(err).Msg("error consuming submissions")
				time.Sleep(1 * time.Second)
			}
		}
	}
}

func (c *Consumer) createConsumerGroup(ctx context.Context) error {
	// MKSTREAM creates the stream when it does not exist yet.
	err := c.client.XGroupCreateMkStream(ctx, c.streamKey, c.consumerGroup, "$").Err()
	if err != nil {
		if strings.Contains(err.Error(), "BUSYGROUP") {
			log.Debug().
				Str("group", c.consumerGroup).
				Msg("consumer group already exists")
			return nil
		}
		return fmt.Errorf("failed to create consumer group: %w", err)
	}

	log.Info().
		Str("group", c.consumerGroup).
		Str("stream", c.streamKey).
		Msg("created consumer group")
	return nil
}

func (c *Consumer) consume(ctx context.Context) error {
	streams, err := c.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    c.consumerGroup,
		Consumer: c.consumerName,
		Streams:  []string{c.streamKey, ">"},
		Count:    10,
		Block:    5 * time.Second,
	}).Result()
	if err != nil {
		if err == redis.Nil {
			return nil // no new messages within the block window
		}
		return fmt.Errorf("failed to read from stream: %w", err)
	}

	for _, stream := range streams {
		for _, msg := range stream.Messages {
			c.handleMessage(ctx, msg)
		}
	}

	return nil
}

func (c *Consumer) handleMessage(ctx context.Context, msg redis.XMessage) {
	submission, err := parseSubmission(msg)
	if err == nil {
		err = c.intakeSvc.ProcessSubmission(ctx, submission)
	}

	if err != nil {
		if dlqErr := c.retryHandler.DeadLetter(ctx, msg, err); dlqErr != nil {
			log.Error().Err(dlqErr).Str("messageId", msg.ID).Msg("failed to dead-letter message")
			return // leave in PEL for the next recovery pass
		}
	}

	if ackErr := c.client.XAck(ctx, c.streamKey, c.consumerGroup, msg.ID).Err(); ackErr != nil {
		log.Error().Err(ackErr).Str("messageId", msg.ID).Msg("failed to ack message")
	}
}

// recoverPending claims messages stuck in the pending entry list longer than
// a minute and replays them through intake.
func (c *Consumer) recoverPending(ctx context.Context) error {
	pending, err := c.client.XPendingExt(ctx, &redis.XPendingExtArgs{
		Stream: c.streamKey,
		Group:  c.consumerGroup,
		Start:  "-",
		End:    "+",
		Count:  100,
	}).Result()
	if err != nil {
		if err == redis.Nil {
			return nil
		}
		return fmt.Errorf("failed to list pending messages: %w", err)
	}

	ids := make([]string, 0, len(pending))
	for _, p := range pending {
		if p.Idle >= time.Minute {
			ids = append(ids, p.ID)
		}
	}
	if len(ids) == 0 {
		return nil
	}

	claimed, err := c.client.XClaim(ctx, &redis.XClaimArgs{
		Stream:   c.streamKey,
		Group:    c.consumerGroup,
		Consumer: c.consumerName,
		MinIdle:  time.Minute,
		Messages: ids,
	}).Result()
	if err != nil {
		return fmt.Errorf("failed to claim pending messages: %w", err)
	}

	log.Info().Int("claimed", len(claimed)).Msg("recovered pending submissions")
	for _, msg := range claimed {
		c.handleMessage(ctx, msg)
	}

	return nil
}

// runCleanupPeriodically trims entries older than the retention window.
func (c *Consumer) runCleanupPeriodically(ctx context.Context) {
	ticker := time.NewTicker(c.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			minID := fmt.Sprintf("%d-0", time.Now().Add(-c.retentionDuration).UnixMilli())
			if err := c.client.XTrimMinID(ctx, c.streamKey, minID).Err(); err != nil {
				log.Warn().Err(err).Msg("failed to trim submission stream")
			}
		}
	}
}

func parseSubmission(msg redis.XMessage) (*models.Submission, error) {
	batchID, _ := msg.Values["batchId"].(string)
	fileID, _ := msg.Values["fileId"].(string)
	content, _ := msg.Values["content"].(string)

	if batchID == "" || fileID == "" {
		return nil, fmt.Errorf("malformed submission message %s: missing batchId or fileId", msg.ID)
	}

	return &models.Submission{
		BatchID: batchID,
		FileID:  fileID,
		Content: content,
	}, nil
}
