package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ujjwalhq/prism/internal/models"
)

const reportsCollection = "comparison_reports"

// ReportsRepository persists batch comparison reports.
type ReportsRepository struct {
	mongoRepo *MongoRepository
}

func NewReportsRepository(mongoRepo *MongoRepository) *ReportsRepository {
	return &ReportsRepository{
		mongoRepo: mongoRepo,
	}
}

func (r *ReportsRepository) InsertBatchReport(ctx context.Context, report *models.BatchReport) error {
	report.CreatedAt = time.Now()

	if err := r.mongoRepo.InsertOne(ctx, reportsCollection, report); err != nil {
		return fmt.Errorf("failed to insert batch report: %w", err)
	}

	return nil
}

// GetLatestReportByBatchID returns the most recent report for a batch, or
// nil when none exists yet.
func (r *ReportsRepository) GetLatestReportByBatchID(ctx context.Context, batchID string) (*models.BatchReport, error) {
	filter := bson.M{"batchId": batchID}
	opts := options.FindOne().SetSort(bson.M{"createdAt": -1})

	var report models.BatchReport
	err := r.mongoRepo.FindOne(ctx, reportsCollection, filter, opts).Decode(&report)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find batch report: %w", err)
	}

	return &report, nil
}

// UpdateBatchReportByBatchID replaces the latest report for a batch.
func (r *ReportsRepository) UpdateBatchReportByBatchID(ctx context.Context, batchID string, report *models.BatchReport) error {
	report.CreatedAt = time.Now()
	filter := bson.M{"batchId": batchID}
	opts := options.Replace().SetUpsert(true)

	if err := r.mongoRepo.ReplaceOne(ctx, reportsCollection, filter, report, opts); err != nil {
		return fmt.Errorf("failed to update batch report: %w", err)
	}

	return nil
}
