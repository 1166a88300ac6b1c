package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/ujjwalhq/prism/internal/api"
	"github.com/ujjwalhq/prism/internal/compare"
	"github.com/ujjwalhq/prism/internal/config"
	"github.com/ujjwalhq/prism/internal/configs/env"
	"github.com/ujjwalhq/prism/internal/infra/mongo"
	redisInfra "github.com/ujjwalhq/prism/internal/infra/redis"
	"github.com/ujjwalhq/prism/internal/intake"
	"github.com/ujjwalhq/prism/internal/logger"
	"github.com/ujjwalhq/prism/internal/repository"
	"github.com/ujjwalhq/prism/internal/stream"
)

func main() {
	if err := env.LoadEnv(); err != nil {
		log.Warn().Err(err).Msg("failed to load .env file, continuing with system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}
	if err := cfg.Validate(); err != nil {
		panic(fmt.Sprintf("invalid configuration: %v", err))
	}

	logger.Init(cfg.LogLevel)
	log.Info().Msg("starting PRISM server")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Connect MongoDB
	mongoClient, err := mongo.NewClient(ctx, cfg.MongoURI, cfg.MongoDBName)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create MongoDB client")
	}
	defer mongoClient.Close(ctx)

	// Connect Redis
	redisClient, err := redisInfra.NewClient(ctx, cfg.RedisHost, cfg.RedisPassword, 0)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create Redis client")
	}
	defer redisClient.Close()

	// Repositories
	mongoRepo := repository.NewMongoRepository(mongoClient)
	sourcesRepo := repository.NewSourcesRepository(mongoRepo)
	reportsRepo := repository.NewReportsRepository(mongoRepo)

	// Comparison engine, configured from the environment
	engine := compare.NewEngine()
	engine.MaxSourceBytes = cfg.MaxSourceBytes
	engine.Thresholds = compare.Thresholds{
		DirectCopy: cfg.DirectCopyThreshold,
		Structural: cfg.StructuralThreshold,
		Divergence: cfg.DivergenceThreshold,
		AIScore:    cfg.AIScoreThreshold,
		Moderate:   cfg.ModerateThreshold,
	}
	engine.Weights = compare.Weights{
		Divergence:   cfg.WeightDivergence,
		Diversity:    cfg.WeightDiversity,
		Formatting:   cfg.WeightFormatting,
		LogicDensity: cfg.WeightLogicDensity,
	}

	// Intake pipeline fed by the Redis stream
	intakeSvc := intake.NewService(engine, sourcesRepo)
	retryHandler := stream.NewRetryHandler(redisClient.Client, cfg.RedisDeadLetterKey)

	hostname, _ := os.Hostname()
	if hostname == "" {
		hostname = "unknown"
	}
	consumerName := fmt.Sprintf("consumer-%s-%d-%s", hostname, os.Getpid(), uuid.New().String()[:8])
	consumer := stream.NewConsumer(
		redisClient.Client,
		cfg.RedisStreamKey,
		cfg.RedisConsumerGroup,
		consumerName,
		intakeSvc,
		retryHandler,
		cfg.StreamRetentionDuration,
	)
	log.Info().Str("consumer_name", consumerName).Msg("submission stream consumer initialized")

	// Worker pool for pairwise comparison fan-out
	workerPool := compare.NewWorkerPool(ctx)
	defer workerPool.Close()

	router := api.SetupRoutes(cfg, engine, sourcesRepo, reportsRepo, workerPool, redisClient)

	consumerCtx, consumerCancel := context.WithCancel(ctx)
	go func() {
		defer consumerCancel()
		if err := consumer.Start(consumerCtx); err != nil && err != context.Canceled {
			log.Error().Err(err).Msg("submission consumer error")
		}
	}()
	log.Info().Msg("submission consumer started")

	srv := api.StartServer(router, cfg.ServerPort)

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down gracefully...")

	if err := api.ShutdownServer(srv, 30*time.Second); err != nil {
		log.Error().Err(err).Msg("error shutting down HTTP server")
	}

	log.Info().Msg("shutdown complete")
}
