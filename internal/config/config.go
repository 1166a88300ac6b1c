package config

import (
	"fmt"
	"time"

	"github.com/ujjwalhq/prism/internal/configs/env"
)

// Config holds all configuration for the application.
type Config struct {
	// MongoDB
	MongoURI    string
	MongoDBName string

	// Redis
	RedisHost               string
	RedisPassword           string
	RedisStreamKey          string
	RedisConsumerGroup      string
	RedisDeadLetterKey      string
	StreamRetentionDuration time.Duration

	// JWT
	JWTSecret string
	JWTIssuer string

	// Rate Limiting
	RateLimitRPS float64

	// Concurrency
	MaxConcurrentAnalyses int

	// Analysis
	AnalysisTimeout time.Duration

	// Engine: verdict thresholds
	DirectCopyThreshold float64
	StructuralThreshold float64
	DivergenceThreshold float64
	AIScoreThreshold    float64
	ModerateThreshold   float64

	// Engine: heuristic signal weights
	WeightDivergence   float64
	WeightDiversity    float64
	WeightFormatting   float64
	WeightLogicDensity float64

	// Engine: intake limits
	MaxSourceBytes int

	// Logging
	LogLevel string

	// Server
	ServerPort string
}

func Load() (*Config, error) {
	cfg := &Config{}

	// MongoDB
	cfg.MongoURI = env.GetEnv("MONGO_URI", "")
	cfg.MongoDBName = env.GetEnv("MONGO_DB_NAME", "")

	// Redis
	cfg.RedisHost = env.GetEnv("REDIS_HOST", "localhost:6379")
	cfg.RedisPassword = env.GetEnv("REDIS_PASSWORD", "")
	cfg.RedisStreamKey = env.GetEnv("REDIS_STREAM_KEY", "prism:submissions")
	cfg.RedisConsumerGroup = env.GetEnv("REDIS_CONSUMER_GROUP", "prism:group")
	cfg.RedisDeadLetterKey = env.GetEnv("REDIS_DEAD_LETTER_KEY", "prism:dlq")
	retentionHours := env.GetEnvInt("STREAM_RETENTION_DURATION", 24)
	cfg.StreamRetentionDuration = time.Duration(retentionHours) * time.Hour

	// JWT
	cfg.JWTSecret = env.GetEnv("JWT_SECRET", "")
	cfg.JWTIssuer = env.GetEnv("JWT_ISSUER", "prism")

	// Rate Limiting
	cfg.RateLimitRPS = env.GetEnvFloat("RATE_LIMIT_RPS", 10.0)

	// Concurrency
	cfg.MaxConcurrentAnalyses = env.GetEnvInt("MAX_CONCURRENT_ANALYSES", 5)

	// Analysis
	timeoutMinutes := env.GetEnvInt("ANALYSIS_TIMEOUT_MINUTES", 30)
	cfg.AnalysisTimeout = time.Duration(timeoutMinutes) * time.Minute

	// Engine thresholds
	cfg.DirectCopyThreshold = env.GetEnvFloat("DIRECT_COPY_THRESHOLD", 0.85)
	cfg.StructuralThreshold = env.GetEnvFloat("STRUCTURAL_THRESHOLD", 0.85)
	cfg.DivergenceThreshold = env.GetEnvFloat("DIVERGENCE_THRESHOLD", 0.30)
	cfg.AIScoreThreshold = env.GetEnvFloat("AI_SCORE_THRESHOLD", 0.50)
	cfg.ModerateThreshold = env.GetEnvFloat("MODERATE_THRESHOLD", 0.50)

	// Engine weights
	cfg.WeightDivergence = env.GetEnvFloat("WEIGHT_DIVERGENCE", 0.25)
	cfg.WeightDiversity = env.GetEnvFloat("WEIGHT_DIVERSITY", 0.25)
	cfg.WeightFormatting = env.GetEnvFloat("WEIGHT_FORMATTING", 0.25)
	cfg.WeightLogicDensity = env.GetEnvFloat("WEIGHT_LOGIC_DENSITY", 0.25)

	// Intake limits
	cfg.MaxSourceBytes = env.GetEnvInt("MAX_SOURCE_BYTES", 256<<10)

	// Logging
	cfg.LogLevel = env.GetEnv("LOG_LEVEL", "info")

	// Server
	cfg.ServerPort = env.GetEnv("SERVER_PORT", "8080")

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.MongoURI == "" {
		return fmt.Errorf("MONGO_URI is required")
	}
	if c.MongoDBName == "" {
		return fmt.Errorf("MONGO_DB_NAME is required")
	}
	if c.RedisHost == "" {
		return fmt.Errorf("REDIS_HOST is required")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.MaxConcurrentAnalyses <= 0 {
		return fmt.Errorf("MAX_CONCURRENT_ANALYSES must be greater than 0")
	}
	if c.MaxSourceBytes <= 0 {
		return fmt.Errorf("MAX_SOURCE_BYTES must be greater than 0")
	}
	if c.StreamRetentionDuration <= 0 {
		return fmt.Errorf("STREAM_RETENTION_DURATION must be greater than 0")
	}
	weightSum := c.WeightDivergence + c.WeightDiversity + c.WeightFormatting + c.WeightLogicDensity
	if weightSum <= 0 {
		return fmt.Errorf("heuristic weights must sum to a positive value")
	}
	return nil
}
