package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/autogen/autogen/internal/db"
	"github.com/autogen/autogen/internal/middleware"
	"github.com/autogen/autogen/internal/models"
)

// GarageHandler serves the per-user garage endpoints.
type GarageHandler struct {
	garages db.GarageCollection
	cars    db.CarCollection
	logger  *log.Logger
}

// NewGarageHandler creates a new garage handler.
func NewGarageHandler(garages db.GarageCollection, cars db.CarCollection, logger *log.Logger) *GarageHandler {
	return &GarageHandler{
		garages: garages,
		cars:    cars,
		logger:  logger,
	}
}

// SavedCarView is a saved entry with its listing resolved. Listing is null
// when the car no longer exists.
type SavedCarView struct {
	models.SavedCar
	Listing *models.Car `json:"listing"`
}

// WatchlistView is a watchlist entry with its listing resolved.
type WatchlistView struct {
	models.WatchlistEntry
	Listing *models.Car `json:"listing"`
}

// OwnedCarView is an owned-car entry with its listing resolved.
type OwnedCarView struct {
	models.OwnedCar
	Listing *models.Car `json:"listing"`
}

// GarageView is a garage with all car references resolved.
type GarageView struct {
	models.Garage
	SavedCars []SavedCarView  `json:"saved_cars"`
	Watchlist []WatchlistView `json:"watchlist"`
	MyCars    []OwnedCarView  `json:"my_cars"`
}

// AddSavedRequest is the body of POST /api/garage/saved.
type AddSavedRequest struct {
	CarID string `json:"car_id"`
}

// AddWatchlistRequest is the body of POST /api/garage/watchlist. The price
// snapshot defaults to the listing's current price when omitted.
type AddWatchlistRequest struct {
	CarID         string   `json:"car_id"`
	OriginalPrice *float64 `json:"original_price"`
}

// Get handles GET /api/garage. The garage is created lazily on first access.
func (h *GarageHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "User context not found")
		return
	}

	garage, err := h.garages.FindOrCreateGarage(r.Context(), claims.UserID)
	if err != nil {
		h.logger.WithError(err).Error("garage fetch failed")
		writeStoreError(w, err)
		return
	}

	view, err := h.populate(r, garage)
	if err != nil {
		h.logger.WithError(err).Error("garage population failed")
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// AddSaved handles POST /api/garage/saved. The garage write and the
// listing's saved_by write form one logical operation; when the second write
// fails the first is kept and the divergence is logged, matching the
// best-effort consistency the store guarantees.
func (h *GarageHandler) AddSaved(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "User context not found")
		return
	}

	var req AddSavedRequest
	if err := decodeJSON(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return
	}

	garage, err := h.garages.AddSavedCar(r.Context(), claims.UserID, req.CarID)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	if err := h.cars.AddSavedBy(r.Context(), req.CarID, claims.UserID); err != nil {
		h.logger.WithError(err).WithFields(log.Fields{
			"user_id": claims.UserID,
			"car_id":  req.CarID,
		}).Warn("saved_by update failed; savedCars and saved_by diverged")
	}

	view, err := h.populate(r, garage)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// RemoveSaved handles DELETE /api/garage/saved/{carId}. Removing an entry
// that is not present succeeds.
func (h *GarageHandler) RemoveSaved(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "User context not found")
		return
	}
	carID := chi.URLParam(r, "carId")

	if err := h.garages.RemoveSavedCar(r.Context(), claims.UserID, carID); err != nil {
		writeStoreError(w, err)
		return
	}

	if err := h.cars.RemoveSavedBy(r.Context(), carID, claims.UserID); err != nil {
		h.logger.WithError(err).WithFields(log.Fields{
			"user_id": claims.UserID,
			"car_id":  carID,
		}).Warn("saved_by update failed; savedCars and saved_by diverged")
	}

	writeMessage(w, http.StatusOK, "Car removed from saved")
}

// AddWatchlist handles POST /api/garage/watchlist.
func (h *GarageHandler) AddWatchlist(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "User context not found")
		return
	}

	var req AddWatchlistRequest
	if err := decodeJSON(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return
	}

	originalPrice := 0.0
	if req.OriginalPrice != nil {
		originalPrice = *req.OriginalPrice
	} else {
		// Defaulting needs the listing's current price, so the id must
		// resolve here even though watchlisting never verifies it otherwise.
		car, err := h.cars.FindCarByID(r.Context(), req.CarID)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		originalPrice = car.Price
	}

	garage, err := h.garages.AddWatchlistCar(r.Context(), claims.UserID, req.CarID, originalPrice)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	view, err := h.populate(r, garage)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// RemoveWatchlist handles DELETE /api/garage/watchlist/{carId}. Removal is
// idempotent and does not touch the listing's saved_by set.
func (h *GarageHandler) RemoveWatchlist(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "User context not found")
		return
	}

	if err := h.garages.RemoveWatchlistCar(r.Context(), claims.UserID, chi.URLParam(r, "carId")); err != nil {
		writeStoreError(w, err)
		return
	}

	writeMessage(w, http.StatusOK, "Car removed from watchlist")
}

// populate resolves every car reference in the garage with one batch fetch.
func (h *GarageHandler) populate(r *http.Request, garage *models.Garage) (*GarageView, error) {
	seen := map[primitive.ObjectID]bool{}
	ids := []primitive.ObjectID{}
	collect := func(id primitive.ObjectID) {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	for _, s := range garage.SavedCars {
		collect(s.Car)
	}
	for _, e := range garage.Watchlist {
		collect(e.Car)
	}
	for _, o := range garage.MyCars {
		collect(o.Car)
	}

	cars, err := h.cars.FindCarsByIDs(r.Context(), ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[primitive.ObjectID]*models.Car, len(cars))
	for i := range cars {
		byID[cars[i].ID] = &cars[i]
	}

	view := &GarageView{
		Garage:    *garage,
		SavedCars: make([]SavedCarView, 0, len(garage.SavedCars)),
		Watchlist: make([]WatchlistView, 0, len(garage.Watchlist)),
		MyCars:    make([]OwnedCarView, 0, len(garage.MyCars)),
	}
	for _, s := range garage.SavedCars {
		view.SavedCars = append(view.SavedCars, SavedCarView{SavedCar: s, Listing: byID[s.Car]})
	}
	for _, e := range garage.Watchlist {
		view.Watchlist = append(view.Watchlist, WatchlistView{WatchlistEntry: e, Listing: byID[e.Car]})
	}
	for _, o := range garage.MyCars {
		view.MyCars = append(view.MyCars, OwnedCarView{OwnedCar: o, Listing: byID[o.Car]})
	}
	return view, nil
}
