package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/autogen/autogen/internal/models"
)

// CarCollection defines the interface for listing storage operations.
type CarCollection interface {
	InsertCar(ctx context.Context, car models.Car) (*models.Car, error)
	FindCars(ctx context.Context, filter CarFilter) ([]models.Car, int64, error)
	FindCarByID(ctx context.Context, id string) (*models.Car, error)
	FindCarAndIncrementViews(ctx context.Context, id string) (*models.Car, error)
	FindCarsByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Car, error)
	UpdateCar(ctx context.Context, id, sellerID string, patch models.CarPatch) (*models.Car, error)
	DeleteCar(ctx context.Context, id, sellerID string) error
	AddSavedBy(ctx context.Context, carID, userID string) error
	RemoveSavedBy(ctx context.Context, carID, userID string) error
}

// MongoCarCollection implements CarCollection for MongoDB.
type MongoCarCollection struct {
	Collection *mongo.Collection
}

// InsertCar validates and inserts a new listing. A non-empty VIN must not
// collide with an existing listing's VIN.
func (c *MongoCarCollection) InsertCar(ctx context.Context, car models.Car) (*models.Car, error) {
	if err := car.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidation, err)
	}

	if car.VIN != "" {
		count, err := c.Collection.CountDocuments(ctx, bson.M{"vin": car.VIN})
		if err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, ErrDuplicateVIN
		}
	}

	car.CreatedAt = time.Now()
	car.UpdatedAt = car.CreatedAt

	res, err := c.Collection.InsertOne(ctx, car)
	if err != nil {
		return nil, err
	}
	car.ID = res.InsertedID.(primitive.ObjectID)
	return &car, nil
}

// FindCars returns one page of listings matching the filter, newest first,
// together with the total match count. Zero matches is not an error.
func (c *MongoCarCollection) FindCars(ctx context.Context, filter CarFilter) ([]models.Car, int64, error) {
	query := filter.Query()

	total, err := c.Collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(filter.Skip()).
		SetLimit(int64(filter.Limit))

	cursor, err := c.Collection.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	cars := []models.Car{}
	if err := cursor.All(ctx, &cars); err != nil {
		return nil, 0, err
	}
	return cars, total, nil
}

// FindCarByID finds a listing by its ID without side effects.
func (c *MongoCarCollection) FindCarByID(ctx context.Context, id string) (*models.Car, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrCarNotFound
	}

	var car models.Car
	err = c.Collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&car)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrCarNotFound
		}
		return nil, err
	}
	return &car, nil
}

// FindCarAndIncrementViews fetches a listing and bumps its view counter in
// one server-side operation, so concurrent readers never lose an increment.
// The returned document reflects the incremented count.
func (c *MongoCarCollection) FindCarAndIncrementViews(ctx context.Context, id string) (*models.Car, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrCarNotFound
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var car models.Car
	err = c.Collection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": objectID},
		bson.M{"$inc": bson.M{"views": 1}},
		opts,
	).Decode(&car)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrCarNotFound
		}
		return nil, err
	}
	return &car, nil
}

// FindCarsByIDs fetches the listings whose IDs appear in ids. Missing IDs
// are silently absent from the result.
func (c *MongoCarCollection) FindCarsByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Car, error) {
	if len(ids) == 0 {
		return []models.Car{}, nil
	}

	cursor, err := c.Collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	cars := []models.Car{}
	if err := cursor.All(ctx, &cars); err != nil {
		return nil, err
	}
	return cars, nil
}

// UpdateCar applies a patch to a listing after verifying the caller is its
// seller. Patched fields are re-validated against the same constraints as
// creation; omitted fields keep their current values.
func (c *MongoCarCollection) UpdateCar(ctx context.Context, id, sellerID string, patch models.CarPatch) (*models.Car, error) {
	car, err := c.FindCarByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if car.Seller.Hex() != sellerID {
		return nil, ErrNotOwner
	}

	patch.Apply(car)
	if err := car.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidation, err)
	}

	if patch.VIN != nil && car.VIN != "" {
		count, err := c.Collection.CountDocuments(ctx, bson.M{
			"vin": car.VIN,
			"_id": bson.M{"$ne": car.ID},
		})
		if err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, ErrDuplicateVIN
		}
	}

	car.UpdatedAt = time.Now()
	_, err = c.Collection.ReplaceOne(ctx, bson.M{"_id": car.ID}, car)
	if err != nil {
		return nil, err
	}
	return car, nil
}

// DeleteCar permanently removes a listing after verifying ownership. This is
// a hard delete, independent of the "removed" lifecycle status.
func (c *MongoCarCollection) DeleteCar(ctx context.Context, id, sellerID string) error {
	car, err := c.FindCarByID(ctx, id)
	if err != nil {
		return err
	}
	if car.Seller.Hex() != sellerID {
		return ErrNotOwner
	}

	_, err = c.Collection.DeleteOne(ctx, bson.M{"_id": car.ID})
	return err
}

// AddSavedBy adds a user to a listing's saved_by set. Adding a user that is
// already present is a no-op, as is a carID that matches no listing.
func (c *MongoCarCollection) AddSavedBy(ctx context.Context, carID, userID string) error {
	carOID, userOID, err := savedByIDs(carID, userID)
	if err != nil {
		return err
	}
	_, err = c.Collection.UpdateOne(
		ctx,
		bson.M{"_id": carOID},
		bson.M{"$addToSet": bson.M{"saved_by": userOID}},
	)
	return err
}

// RemoveSavedBy removes a user from a listing's saved_by set. Removal of an
// absent user is a no-op.
func (c *MongoCarCollection) RemoveSavedBy(ctx context.Context, carID, userID string) error {
	carOID, userOID, err := savedByIDs(carID, userID)
	if err != nil {
		return err
	}
	_, err = c.Collection.UpdateOne(
		ctx,
		bson.M{"_id": carOID},
		bson.M{"$pull": bson.M{"saved_by": userOID}},
	)
	return err
}

func savedByIDs(carID, userID string) (primitive.ObjectID, primitive.ObjectID, error) {
	carOID, err := primitive.ObjectIDFromHex(carID)
	if err != nil {
		return primitive.NilObjectID, primitive.NilObjectID, ErrCarNotFound
	}
	userOID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return primitive.NilObjectID, primitive.NilObjectID, fmt.Errorf("invalid user id: %w", err)
	}
	return carOID, userOID, nil
}
