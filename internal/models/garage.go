package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SavedCar is a saved-listing entry in a user's garage.
type SavedCar struct {
	Car     primitive.ObjectID `bson:"car" json:"car"`
	SavedAt time.Time          `bson:"saved_at" json:"saved_at"`
}

// WatchlistEntry tracks a listing the user watches for price changes. The
// original price is a snapshot taken when the entry was added.
type WatchlistEntry struct {
	Car           primitive.ObjectID `bson:"car" json:"car"`
	OriginalPrice float64            `bson:"original_price" json:"original_price"`
	PriceAlert    bool               `bson:"price_alert" json:"price_alert"`
	AddedAt       time.Time          `bson:"added_at" json:"added_at"`
}

// ServiceRecord is a single entry in an owned car's service history.
type ServiceRecord struct {
	Date  time.Time `bson:"date" json:"date"`
	Type  string    `bson:"type" json:"type"`
	Cost  float64   `bson:"cost" json:"cost"`
	Notes string    `bson:"notes,omitempty" json:"notes,omitempty"`
}

// MaintenanceRecord holds the service schedule and history of an owned car.
type MaintenanceRecord struct {
	NextService    string          `bson:"next_service,omitempty" json:"next_service,omitempty"`
	LastService    *time.Time      `bson:"last_service,omitempty" json:"last_service,omitempty"`
	ServiceHistory []ServiceRecord `bson:"service_history,omitempty" json:"service_history,omitempty"`
}

// OwnedCar is a vehicle the user owns. Entries are caller-supplied; the
// system does not verify they correspond to purchases made on the marketplace.
type OwnedCar struct {
	Car           primitive.ObjectID `bson:"car" json:"car"`
	PurchasePrice float64            `bson:"purchase_price" json:"purchase_price"`
	PurchaseDate  time.Time          `bson:"purchase_date" json:"purchase_date"`
	CurrentValue  float64            `bson:"current_value" json:"current_value"`
	Mileage       int                `bson:"mileage" json:"mileage"`
	Maintenance   MaintenanceRecord  `bson:"maintenance" json:"maintenance"`
}

// Garage is a user's personal collection of saved, watchlisted, and owned
// vehicles. One garage exists per user, created lazily on first access.
type Garage struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	User      primitive.ObjectID `bson:"user" json:"user"`
	SavedCars []SavedCar         `bson:"saved_cars" json:"saved_cars"`
	Watchlist []WatchlistEntry   `bson:"watchlist" json:"watchlist"`
	MyCars    []OwnedCar         `bson:"my_cars" json:"my_cars"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

// HasSaved reports whether a listing is already in savedCars.
func (g *Garage) HasSaved(carID primitive.ObjectID) bool {
	for _, s := range g.SavedCars {
		if s.Car == carID {
			return true
		}
	}
	return false
}

// HasWatchlisted reports whether a listing is already on the watchlist.
func (g *Garage) HasWatchlisted(carID primitive.ObjectID) bool {
	for _, w := range g.Watchlist {
		if w.Car == carID {
			return true
		}
	}
	return false
}
