package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	reservationerrors "tabletop/internal/reservations/errors"
	"tabletop/pkg/config"
	"tabletop/pkg/model"
)

const (
	InventoryCollection = "Inventory_items"
)

type InventoryRepository interface {
	FindByID(ctx context.Context, id string) (*model.InventoryItem, error)
	DecrementStock(ctx context.Context, itemID string, quantity int) error
	IncrementStock(ctx context.Context, itemID string, quantity int) error
}

type mongoInventoryRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoInventoryRepository(cfg *config.Config) InventoryRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoInventoryRepository{
		cfg:        cfg,
		collection: db.Collection(InventoryCollection),
	}
}

func (r *mongoInventoryRepository) FindByID(ctx context.Context, id string) (*model.InventoryItem, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	if err := validateHexID(id); err != nil {
		return nil, err
	}

	var item model.InventoryItem
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&item)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, reservationerrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find inventory item: %w", err)
	}

	return &item, nil
}

// DecrementStock is the compare-and-swap guard against overselling: the
// filter only matches while stock_available still covers the requested
// quantity, so a decrement that raced with another reservation matches zero
// documents and returns ErrInsufficientStock. Callers run this inside the
// reservation transaction so the whole unit aborts together.
func (r *mongoInventoryRepository) DecrementStock(ctx context.Context, itemID string, quantity int) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	if err := validateHexID(itemID); err != nil {
		return err
	}

	filter := bson.M{
		"_id":             itemID,
		"active":          true,
		"stock_available": bson.M{"$gte": quantity},
	}
	update := bson.M{"$inc": bson.M{"stock_available": -quantity}}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to decrement stock: %w", err)
	}
	if result.MatchedCount == 0 {
		return reservationerrors.ErrInsufficientStock
	}

	return nil
}

// IncrementStock reverses a hold on cancellation. The guard caps the result
// at stock_total so a stray double release can never push availability past
// the configured stock.
func (r *mongoInventoryRepository) IncrementStock(ctx context.Context, itemID string, quantity int) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	if err := validateHexID(itemID); err != nil {
		return err
	}

	filter := bson.M{
		"_id": itemID,
		"$expr": bson.M{
			"$lte": bson.A{
				bson.M{"$add": bson.A{"$stock_available", quantity}},
				"$stock_total",
			},
		},
	}
	update := bson.M{"$inc": bson.M{"stock_available": quantity}}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to increment stock: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("stock release for item %s would exceed total stock", itemID)
	}

	return nil
}
