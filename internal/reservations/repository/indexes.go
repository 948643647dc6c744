package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"tabletop/pkg/config"
)

// EnsureIndexes creates the indexes the booking engine relies on. The unique
// Resource_locks _id (implicit) plus its TTL index form the storage-level
// backstop for the no-overlap invariant: the per-resource lock serializes
// creates so the transactional overlap re-check sees every committed
// neighbor, and the transaction coordinates the re-check atomically with the
// inventory decrements.
func EnsureIndexes(ctx context.Context, cfg *config.Config) error {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)

	reservationIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "resource_id", Value: 1}, {Key: "status", Value: 1}, {Key: "start_at", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "member_id", Value: 1}, {Key: "status", Value: 1}, {Key: "start_at", Value: 1}},
		},
	}
	if _, err := db.Collection(ReservationCollection).Indexes().CreateMany(ctx, reservationIndexes); err != nil {
		return fmt.Errorf("failed to create reservation indexes: %w", err)
	}

	if _, err := db.Collection(ResourceCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "code", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return fmt.Errorf("failed to create resource code index: %w", err)
	}

	if _, err := db.Collection(InventoryCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "title", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return fmt.Errorf("failed to create inventory title index: %w", err)
	}

	// Locks abandoned by crashed requests expire on their own.
	if _, err := db.Collection(ResourceLockCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expires_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	}); err != nil {
		return fmt.Errorf("failed to create resource lock TTL index: %w", err)
	}

	cfg.Log.Info("MongoDB indexes ensured", "database", cfg.MongoDatabaseName)
	return nil
}
