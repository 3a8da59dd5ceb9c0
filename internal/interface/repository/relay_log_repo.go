package repository

import (
	"context"
	"fmt"

	"integration-hub/internal/domain/entity"
	"integration-hub/internal/domain/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRelayLogRepository implements the RelayLogRepository interface
type MongoRelayLogRepository struct {
	collection *mongo.Collection
}

// NewMongoRelayLogRepository creates a new MongoDB relay log repository
func NewMongoRelayLogRepository(db *mongo.Database) repository.RelayLogRepository {
	collection := db.Collection("relay_logs")

	ctx := context.Background()

	// Provider + time for per-provider history
	providerIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "provider", Value: 1},
			{Key: "createdAt", Value: -1},
		},
	}

	createdAtIndex := mongo.IndexModel{
		Keys: bson.M{"createdAt": -1},
	}

	requestIDIndex := mongo.IndexModel{
		Keys:    bson.M{"requestId": 1},
		Options: options.Index().SetSparse(true),
	}

	collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		providerIndex,
		createdAtIndex,
		requestIDIndex,
	})

	return &MongoRelayLogRepository{
		collection: collection,
	}
}

// Save inserts a relay log entry
func (r *MongoRelayLogRepository) Save(ctx context.Context, log *entity.RelayLog) error {
	_, err := r.collection.InsertOne(ctx, log)
	return err
}

// FindByProvider returns the most recent entries of a provider
func (r *MongoRelayLogRepository) FindByProvider(ctx context.Context, provider string, limit int) ([]*entity.RelayLog, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, bson.M{"provider": provider}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find relay logs: %w", err)
	}
	defer cursor.Close(ctx)

	var logs []*entity.RelayLog
	if err := cursor.All(ctx, &logs); err != nil {
		return nil, fmt.Errorf("failed to decode relay logs: %w", err)
	}
	return logs, nil
}
