package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/ujjwalhq/prism/internal/models"
)

const sourcesCollection = "source_units"

// SourcesRepository persists ingested source units with their cached token
// sequences.
type SourcesRepository struct {
	mongoRepo *MongoRepository
}

func NewSourcesRepository(mongoRepo *MongoRepository) *SourcesRepository {
	return &SourcesRepository{
		mongoRepo: mongoRepo,
	}
}

func (r *SourcesRepository) InsertSourceUnit(ctx context.Context, unit *models.SourceUnit) error {
	if err := r.mongoRepo.InsertOne(ctx, sourcesCollection, unit); err != nil {
		return fmt.Errorf("failed to insert source unit: %w", err)
	}
	return nil
}

func (r *SourcesRepository) GetSourceUnitsByBatchID(ctx context.Context, batchID string) ([]*models.SourceUnit, error) {
	filter := bson.M{"batchId": batchID}

	cursor, err := r.mongoRepo.FindMany(ctx, sourcesCollection, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to find source units: %w", err)
	}
	defer cursor.Close(ctx)

	var units []*models.SourceUnit
	if err := cursor.All(ctx, &units); err != nil {
		return nil, fmt.Errorf("failed to decode source units: %w", err)
	}

	return units, nil
}

func (r *SourcesRepository) CountSourceUnitsByBatchID(ctx context.Context, batchID string) (int64, error) {
	filter := bson.M{"batchId": batchID}

	count, err := r.mongoRepo.CountDocuments(ctx, sourcesCollection, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count source units: %w", err)
	}

	return count, nil
}
