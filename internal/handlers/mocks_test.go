package handlers

import (
	"context"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/autogen/autogen/internal/db"
	"github.com/autogen/autogen/internal/models"
)

// MockCarCollection is a mock implementation of db.CarCollection.
type MockCarCollection struct {
	mock.Mock
}

func (m *MockCarCollection) InsertCar(ctx context.Context, car models.Car) (*models.Car, error) {
	args := m.Called(ctx, car)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Car), args.Error(1)
}

func (m *MockCarCollection) FindCars(ctx context.Context, filter db.CarFilter) ([]models.Car, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.Car), args.Get(1).(int64), args.Error(2)
}

func (m *MockCarCollection) FindCarByID(ctx context.Context, id string) (*models.Car, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Car), args.Error(1)
}

func (m *MockCarCollection) FindCarAndIncrementViews(ctx context.Context, id string) (*models.Car, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Car), args.Error(1)
}

func (m *MockCarCollection) FindCarsByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Car, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Car), args.Error(1)
}

func (m *MockCarCollection) UpdateCar(ctx context.Context, id, sellerID string, patch models.CarPatch) (*models.Car, error) {
	args := m.Called(ctx, id, sellerID, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Car), args.Error(1)
}

func (m *MockCarCollection) DeleteCar(ctx context.Context, id, sellerID string) error {
	args := m.Called(ctx, id, sellerID)
	return args.Error(0)
}

func (m *MockCarCollection) AddSavedBy(ctx context.Context, carID, userID string) error {
	args := m.Called(ctx, carID, userID)
	return args.Error(0)
}

func (m *MockCarCollection) RemoveSavedBy(ctx context.Context, carID, userID string) error {
	args := m.Called(ctx, carID, userID)
	return args.Error(0)
}

// MockUserCollection is a mock implementation of db.UserCollection.
type MockUserCollection struct {
	mock.Mock
}

func (m *MockUserCollection) InsertUser(ctx context.Context, user models.User) (*models.User, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserCollection) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserCollection) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserCollection) FindUsersByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUserCollection) UpdateUser(ctx context.Context, id string, user models.User) error {
	args := m.Called(ctx, id, user)
	return args.Error(0)
}

func (m *MockUserCollection) UpdateLastLogin(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockGarageCollection is a mock implementation of db.GarageCollection.
type MockGarageCollection struct {
	mock.Mock
}

func (m *MockGarageCollection) FindOrCreateGarage(ctx context.Context, userID string) (*models.Garage, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Garage), args.Error(1)
}

func (m *MockGarageCollection) AddSavedCar(ctx context.Context, userID, carID string) (*models.Garage, error) {
	args := m.Called(ctx, userID, carID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Garage), args.Error(1)
}

func (m *MockGarageCollection) RemoveSavedCar(ctx context.Context, userID, carID string) error {
	args := m.Called(ctx, userID, carID)
	return args.Error(0)
}

func (m *MockGarageCollection) AddWatchlistCar(ctx context.Context, userID, carID string, originalPrice float64) (*models.Garage, error) {
	args := m.Called(ctx, userID, carID, originalPrice)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Garage), args.Error(1)
}

func (m *MockGarageCollection) RemoveWatchlistCar(ctx context.Context, userID, carID string) error {
	args := m.Called(ctx, userID, carID)
	return args.Error(0)
}

// MockPublisher records price-change events.
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishPriceChange(car *models.Car, oldPrice float64) error {
	args := m.Called(car, oldPrice)
	return args.Error(0)
}

func (m *MockPublisher) Close() {}
