package database

import (
	"context"
	"fmt"
	"time"

	"github.com/vivek-portfolio/portfolio-api/internal/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// StatusCheckRepository handles status check persistence
type StatusCheckRepository struct {
	collection *mongo.Collection
}

// NewStatusCheckRepository creates a new status check repository
func NewStatusCheckRepository(db *MongoDB) *StatusCheckRepository {
	return &StatusCheckRepository{
		collection: db.GetCollection(CollectionStatusChecks),
	}
}

// Create inserts a status check document
func (r *StatusCheckRepository) Create(ctx context.Context, check *model.StatusCheck) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.collection.InsertOne(ctxTimeout, check); err != nil {
		return fmt.Errorf("failed to create status check: %w", err)
	}

	return nil
}

// List returns up to limit status checks in natural (insertion) order
func (r *StatusCheckRepository) List(ctx context.Context, limit int64) ([]model.StatusCheck, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Find().
		SetLimit(limit).
		SetProjection(bson.M{"_id": 0})

	cursor, err := r.collection.Find(ctxTimeout, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list status checks: %w", err)
	}
	defer cursor.Close(ctxTimeout)

	checks := make([]model.StatusCheck, 0)
	if err := cursor.All(ctxTimeout, &checks); err != nil {
		return nil, fmt.Errorf("failed to decode status checks: %w", err)
	}

	return checks, nil
}
