package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/ujjwalhq/prism/internal/compare"
	"github.com/ujjwalhq/prism/internal/config"
	"github.com/ujjwalhq/prism/internal/infra/redis"
	"github.com/ujjwalhq/prism/internal/models"
	"github.com/ujjwalhq/prism/internal/repository"
)

// Handler holds dependencies for the HTTP handlers.
type Handler struct {
	cfg             *config.Config
	engine          *compare.Engine
	sourcesRepo     *repository.SourcesRepository
	reportsRepo     *repository.ReportsRepository
	workerPool      *compare.WorkerPool
	redisClient     *redis.Client
	analyzeSem      chan struct{} // bounded concurrency for batch analyses
	analysisTimeout time.Duration
}

func NewHandler(
	cfg *config.Config,
	engine *compare.Engine,
	sourcesRepo *repository.SourcesRepository,
	reportsRepo *repository.ReportsRepository,
	workerPool *compare.WorkerPool,
	redisClient *redis.Client,
) *Handler {
	return &Handler{
		cfg:             cfg,
		engine:          engine,
		sourcesRepo:     sourcesRepo,
		reportsRepo:     reportsRepo,
		workerPool:      workerPool,
		redisClient:     redisClient,
		analyzeSem:      make(chan struct{}, cfg.MaxConcurrentAnalyses),
		analysisTimeout: cfg.AnalysisTimeout,
	}
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
	})
}

// Compare runs the pipeline synchronously over an inline source list and
// returns the report rows plus per-file statuses.
func (h *Handler) Compare(c *gin.Context) {
	var req models.CompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid request body",
			Code:  "INVALID_REQUEST",
		})
		return
	}

	if err := validateCompareRequest(req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: err.Error(),
			Code:  "INVALID_SOURCES",
		})
		return
	}

	results, statuses, err := h.engine.CompareAll(c.Request.Context(), req.Sources, h.workerPool)
	if err != nil {
		log.Error().Err(err).Msg("synchronous comparison failed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "Comparison failed",
			Code:  "INTERNAL_ERROR",
		})
		return
	}

	c.JSON(http.StatusOK, models.CompareResponse{
		Results:  results,
		Statuses: statuses,
	})
}

// Ingest creates a batch from an inline source list: a fresh batch id is
// minted and every source is enqueued on the submission stream, where the
// consumer tokenizes and persists it. Analysis is requested separately once
// ingestion has drained.
func (h *Handler) Ingest(c *gin.Context) {
	var req models.CompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid request body",
			Code:  "INVALID_REQUEST",
		})
		return
	}

	if err := validateCompareRequest(req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: err.Error(),
			Code:  "INVALID_SOURCES",
		})
		return
	}

	ctx := c.Request.Context()
	batchID := uuid.New().String()

	for _, src := range req.Sources {
		err := h.redisClient.XAdd(ctx, &goredis.XAddArgs{
			Stream: h.cfg.RedisStreamKey,
			Values: map[string]interface{}{
				"batchId": batchID,
				"fileId":  src.ID,
				"content": src.Content,
			},
		}).Err()
		if err != nil {
			log.Error().Err(err).Str("batchId", batchID).Str("fileId", src.ID).
				Msg("failed to enqueue submission")
			c.JSON(http.StatusInternalServerError, ErrorResponse{
				Error: "Failed to enqueue sources",
				Code:  "INTERNAL_ERROR",
			})
			return
		}
	}

	if err := compare.UpdateStatus(ctx, h.redisClient, batchID, models.StepIngesting); err != nil {
		log.Warn().Err(err).Str("batchId", batchID).Msg("failed to update ingesting status")
	}

	c.JSON(http.StatusAccepted, models.AnalyzeResponse{
		Step:    models.StepIngesting,
		BatchID: batchID,
	})
}

// Analyze kicks off an asynchronous analysis of a previously ingested batch
// and returns 202 immediately.
func (h *Handler) Analyze(c *gin.Context) {
	batchID := c.Param("batchID")
	if batchID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "batchId is required",
			Code:  "INVALID_BATCH_ID",
		})
		return
	}

	ctx := c.Request.Context()
	count, err := h.sourcesRepo.CountSourceUnitsByBatchID(ctx, batchID)
	if err != nil {
		log.Error().Err(err).Str("batchId", batchID).Msg("failed to check source units")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "Failed to check source units",
			Code:  "INTERNAL_ERROR",
		})
		return
	}
	if count == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "No source units found for batchId",
			Code:  "BATCH_ID_NOT_FOUND",
		})
		return
	}

	select {
	case h.analyzeSem <- struct{}{}:
	case <-ctx.Done():
		c.JSON(http.StatusRequestTimeout, ErrorResponse{
			Error: "Request cancelled",
			Code:  "REQUEST_TIMEOUT",
		})
		return
	}

	if err := compare.UpdateStatus(ctx, h.redisClient, batchID, models.StepInitiated); err != nil {
		log.Warn().Err(err).Str("batchId", batchID).Msg("failed to update initiated status")
	}

	c.JSON(http.StatusAccepted, models.AnalyzeResponse{
		Step:    models.StepInitiated,
		BatchID: batchID,
	})

	go h.processAnalysis(batchID)
}

// GetReport returns the latest stored report for a batch.
func (h *Handler) GetReport(c *gin.Context) {
	batchID := c.Param("batchID")

	report, err := h.reportsRepo.GetLatestReportByBatchID(c.Request.Context(), batchID)
	if err != nil {
		log.Error().Err(err).Str("batchId", batchID).Msg("failed to load report")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "Failed to load report",
			Code:  "INTERNAL_ERROR",
		})
		return
	}
	if report == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error: "No report found for batchId",
			Code:  "REPORT_NOT_FOUND",
		})
		return
	}

	c.JSON(http.StatusOK, report)
}

func (h *Handler) processAnalysis(batchID string) {
	defer func() { <-h.analyzeSem }()

	ctx, cancel := context.WithTimeout(context.Background(), h.analysisTimeout)
	defer cancel()

	pendingReport := &models.BatchReport{
		BatchID:      batchID,
		Status:       "pending",
		Rows:         []models.ComparisonResult{},
		FileStatuses: []models.SourceStatus{},
	}
	if err := h.reportsRepo.UpdateBatchReportByBatchID(ctx, batchID, pendingReport); err != nil {
		log.Error().Err(err).Str("batchId", batchID).Msg("failed to create pending report")
	}

	err := compare.AnalyzeBatch(
		ctx,
		batchID,
		h.engine,
		h.sourcesRepo,
		h.reportsRepo,
		h.workerPool,
		h.redisClient,
	)
	if err != nil {
		log.Error().Err(err).Str("batchId", batchID).Msg("batch analysis failed")
		h.markFailed(ctx, batchID)
		return
	}

	log.Debug().Str("batchId", batchID).Msg("batch analysis finished")
}

func (h *Handler) markFailed(ctx context.Context, batchID string) {
	failed := &models.BatchReport{
		BatchID:      batchID,
		Status:       "failed",
		Rows:         []models.ComparisonResult{},
		FileStatuses: []models.SourceStatus{},
	}
	if err := h.reportsRepo.UpdateBatchReportByBatchID(ctx, batchID, failed); err != nil {
		log.Error().Err(err).Str("batchId", batchID).Msg("failed to store failed report")
	}
	if err := compare.UpdateStatus(ctx, h.redisClient, batchID, models.StepFailed); err != nil {
		log.Warn().Err(err).Str("batchId", batchID).Msg("failed to update failed status")
	}
}

func validateCompareRequest(req models.CompareRequest) error {
	if len(req.Sources) < 2 {
		return fmt.Errorf("at least two sources are required")
	}
	seen := make(map[string]bool, len(req.Sources))
	for _, src := range req.Sources {
		if src.ID == "" {
			return fmt.Errorf("every source needs an id")
		}
		if seen[src.ID] {
			return fmt.Errorf("duplicate source id: %s", src.ID)
		}
		seen[src.ID] = true
	}
	return nil
}
