package db

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/autogen/autogen/internal/models"
)

// GarageCollection defines the interface for garage storage operations.
type GarageCollection interface {
	FindOrCreateGarage(ctx context.Context, userID string) (*models.Garage, error)
	AddSavedCar(ctx context.Context, userID, carID string) (*models.Garage, error)
	RemoveSavedCar(ctx context.Context, userID, carID string) error
	AddWatchlistCar(ctx context.Context, userID, carID string, originalPrice float64) (*models.Garage, error)
	RemoveWatchlistCar(ctx context.Context, userID, carID string) error
}

// MongoGarageCollection implements GarageCollection for MongoDB.
type MongoGarageCollection struct {
	Collection *mongo.Collection
}

// FindOrCreateGarage returns the user's garage, creating an empty one on
// first access. The operation is idempotent.
func (c *MongoGarageCollection) FindOrCreateGarage(ctx context.Context, userID string) (*models.Garage, error) {
	userOID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, ErrGarageNotFound
	}

	var garage models.Garage
	err = c.Collection.FindOne(ctx, bson.M{"user": userOID}).Decode(&garage)
	if err == nil {
		return &garage, nil
	}
	if err != mongo.ErrNoDocuments {
		return nil, err
	}

	now := time.Now()
	garage = models.Garage{
		User:      userOID,
		SavedCars: []models.SavedCar{},
		Watchlist: []models.WatchlistEntry{},
		MyCars:    []models.OwnedCar{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	res, err := c.Collection.InsertOne(ctx, garage)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			// Lost a creation race; the other writer's garage is ours.
			err = c.Collection.FindOne(ctx, bson.M{"user": userOID}).Decode(&garage)
			if err != nil {
				return nil, err
			}
			return &garage, nil
		}
		return nil, err
	}
	garage.ID = res.InsertedID.(primitive.ObjectID)
	return &garage, nil
}

// AddSavedCar appends a listing to the user's savedCars. The duplicate guard
// is part of the update filter, so the check and the push are one
// document-level write. Returns ErrAlreadySaved when the car is present.
func (c *MongoGarageCollection) AddSavedCar(ctx context.Context, userID, carID string) (*models.Garage, error) {
	garage, err := c.FindOrCreateGarage(ctx, userID)
	if err != nil {
		return nil, err
	}
	carOID, err := primitive.ObjectIDFromHex(carID)
	if err != nil {
		return nil, ErrCarNotFound
	}

	entry := models.SavedCar{Car: carOID, SavedAt: time.Now()}
	res, err := c.Collection.UpdateOne(
		ctx,
		bson.M{"user": garage.User, "saved_cars.car": bson.M{"$ne": carOID}},
		bson.M{
			"$push": bson.M{"saved_cars": entry},
			"$set":  bson.M{"updated_at": time.Now()},
		},
	)
	if err != nil {
		return nil, err
	}
	if res.MatchedCount == 0 {
		return nil, ErrAlreadySaved
	}

	garage.SavedCars = append(garage.SavedCars, entry)
	return garage, nil
}

// RemoveSavedCar removes a listing from savedCars. Removing an absent entry
// succeeds and leaves the garage unchanged.
func (c *MongoGarageCollection) RemoveSavedCar(ctx context.Context, userID, carID string) error {
	userOID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return ErrGarageNotFound
	}
	carOID, err := primitive.ObjectIDFromHex(carID)
	if err != nil {
		return ErrCarNotFound
	}

	_, err = c.Collection.UpdateOne(
		ctx,
		bson.M{"user": userOID},
		bson.M{
			"$pull": bson.M{"saved_cars": bson.M{"car": carOID}},
			"$set":  bson.M{"updated_at": time.Now()},
		},
	)
	return err
}

// AddWatchlistCar appends a listing to the user's watchlist with a snapshot
// of its price. Returns ErrAlreadyWatchlisted when the car is present.
func (c *MongoGarageCollection) AddWatchlistCar(ctx context.Context, userID, carID string, originalPrice float64) (*models.Garage, error) {
	garage, err := c.FindOrCreateGarage(ctx, userID)
	if err != nil {
		return nil, err
	}
	carOID, err := primitive.ObjectIDFromHex(carID)
	if err != nil {
		return nil, ErrCarNotFound
	}

	entry := models.WatchlistEntry{
		Car:           carOID,
		OriginalPrice: originalPrice,
		PriceAlert:    true,
		AddedAt:       time.Now(),
	}
	res, err := c.Collection.UpdateOne(
		ctx,
		bson.M{"user": garage.User, "watchlist.car": bson.M{"$ne": carOID}},
		bson.M{
			"$push": bson.M{"watchlist": entry},
			"$set":  bson.M{"updated_at": time.Now()},
		},
	)
	if err != nil {
		return nil, err
	}
	if res.MatchedCount == 0 {
		return nil, ErrAlreadyWatchlisted
	}

	garage.Watchlist = append(garage.Watchlist, entry)
	return garage, nil
}

// RemoveWatchlistCar removes a listing from the watchlist. Removal of an
// absent entry succeeds; the listing's saved_by set is not touched.
func (c *MongoGarageCollection) RemoveWatchlistCar(ctx context.Context, userID, carID string) error {
	userOID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return ErrGarageNotFound
	}
	carOID, err := primitive.ObjectIDFromHex(carID)
	if err != nil {
		return ErrCarNotFound
	}

	_, err = c.Collection.UpdateOne(
		ctx,
		bson.M{"user": userOID},
		bson.M{
			"$pull": bson.M{"watchlist": bson.M{"car": carOID}},
			"$set":  bson.M{"updated_at": time.Now()},
		},
	)
	return err
}
