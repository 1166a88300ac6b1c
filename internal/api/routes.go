package api

import (
	"github.com/gin-gonic/gin"

	"github.com/ujjwalhq/prism/internal/compare"
	"github.com/ujjwalhq/prism/internal/config"
	"github.com/ujjwalhq/prism/internal/infra/redis"
	"github.com/ujjwalhq/prism/internal/repository"
)

func SetupRoutes(
	cfg *config.Config,
	engine *compare.Engine,
	sourcesRepo *repository.SourcesRepository,
	reportsRepo *repository.ReportsRepository,
	workerPool *compare.WorkerPool,
	redisClient *redis.Client,
) *gin.Engine {
	router := gin.Default()

	handler := NewHandler(cfg, engine, sourcesRepo, reportsRepo, workerPool, redisClient)
	rateLimiter := NewRateLimiter(cfg.RateLimitRPS, int(cfg.RateLimitRPS*2))

	router.Use(ErrorHandlerMiddleware())

	// Health endpoint (no auth)
	router.GET("/health", handler.Health)

	// API routes (with auth and rate limiting)
	api := router.Group("/api/v1")
	api.Use(JWTAuthMiddleware(cfg.JWTSecret, cfg.JWTIssuer))
	api.Use(RateLimitMiddleware(rateLimiter))
	{
		api.POST("/compare", handler.Compare)
		api.POST("/batches", handler.Ingest)
		api.POST("/batches/:batchID/analyze", handler.Analyze)
		api.GET("/batches/:batchID/report", handler.GetReport)
	}

	return router
}
