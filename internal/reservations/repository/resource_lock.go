package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	reservationerrors "tabletop/internal/reservations/errors"
	"tabletop/pkg/config"
	"tabletop/pkg/model"
)

const (
	ResourceLockCollection = "Resource_locks"
)

// ResourceLockRepository manages the advisory locks that serialize concurrent
// creates on the same resource. The duplicate-key error on the unique _id is
// the lock contention signal.
type ResourceLockRepository interface {
	Acquire(ctx context.Context, lock *model.ResourceLock) error
	Release(ctx context.Context, lockID string) error
}

type mongoResourceLockRepository struct {
	collection *mongo.Collection
}

func NewMongoResourceLockRepository(cfg *config.Config) ResourceLockRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoResourceLockRepository{
		collection: db.Collection(ResourceLockCollection),
	}
}

func (r *mongoResourceLockRepository) Acquire(ctx context.Context, lock *model.ResourceLock) error {
	lock.CreatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, lock)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return reservationerrors.ErrLockHeld
		}
		return err
	}

	return nil
}

func (r *mongoResourceLockRepository) Release(ctx context.Context, lockID string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": lockID})
	return err
}
