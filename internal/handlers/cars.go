package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/autogen/autogen/internal/alerts"
	"github.com/autogen/autogen/internal/db"
	"github.com/autogen/autogen/internal/middleware"
	"github.com/autogen/autogen/internal/models"
)

// CarsHandler serves the listing endpoints.
type CarsHandler struct {
	cars   db.CarCollection
	users  db.UserCollection
	alerts alerts.Publisher
	logger *log.Logger
}

// NewCarsHandler creates a new listings handler.
func NewCarsHandler(cars db.CarCollection, users db.UserCollection, publisher alerts.Publisher, logger *log.Logger) *CarsHandler {
	return &CarsHandler{
		cars:   cars,
		users:  users,
		alerts: publisher,
		logger: logger,
	}
}

// CarView is a listing with its seller resolved to the display-safe subset.
type CarView struct {
	models.Car
	Seller *models.Seller `json:"seller"`
}

// CarListResponse is the body of GET /api/cars.
type CarListResponse struct {
	Cars       []CarView  `json:"cars"`
	Pagination Pagination `json:"pagination"`
}

// List handles GET /api/cars.
func (h *CarsHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := db.ParseCarFilter(r.URL.Query())

	cars, total, err := h.cars.FindCars(r.Context(), filter)
	if err != nil {
		h.logger.WithError(err).Error("listing query failed")
		writeStoreError(w, err)
		return
	}

	sellers, err := h.resolveSellers(r, cars)
	if err != nil {
		h.logger.WithError(err).Error("seller resolution failed")
		writeStoreError(w, err)
		return
	}

	views := make([]CarView, 0, len(cars))
	for i := range cars {
		views = append(views, CarView{
			Car:    cars[i],
			Seller: models.NewSeller(sellers[cars[i].Seller], false),
		})
	}

	writeJSON(w, http.StatusOK, CarListResponse{
		Cars: views,
		Pagination: Pagination{
			Page:  filter.Page,
			Limit: filter.Limit,
			Total: total,
			Pages: filter.Pages(total),
		},
	})
}

// Get handles GET /api/cars/{id}. Fetching a listing increments its view
// counter; the returned document carries the incremented count.
func (h *CarsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	car, err := h.cars.FindCarAndIncrementViews(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	seller, err := h.users.FindUserByID(r.Context(), car.Seller.Hex())
	if err != nil && err != db.ErrUserNotFound {
		h.logger.WithError(err).Error("seller resolution failed")
		writeStoreError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, CarView{Car: *car, Seller: models.NewSeller(seller, true)})
}

// Create handles POST /api/cars. The caller becomes the seller and the
// listing starts in draft status.
func (h *CarsHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "User context not found")
		return
	}
	sellerID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		writeMessage(w, http.StatusUnauthorized, "Invalid user id")
		return
	}

	var req models.CreateCarRequest
	if err := decodeJSON(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return
	}

	car, err := h.cars.InsertCar(r.Context(), req.NewCar(sellerID))
	if err != nil {
		writeStoreError(w, err)
		return
	}

	seller, err := h.users.FindUserByID(r.Context(), claims.UserID)
	if err != nil && err != db.ErrUserNotFound {
		writeStoreError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, CarView{Car: *car, Seller: models.NewSeller(seller, false)})
}

// Update handles PUT /api/cars/{id}. Only the seller may update; omitted
// fields are left as they are. A price change emits a watchlist alert event.
func (h *CarsHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "User context not found")
		return
	}
	id := chi.URLParam(r, "id")

	var patch models.CarPatch
	if err := decodeJSON(r, &patch); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return
	}

	before, err := h.cars.FindCarByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	oldPrice := before.Price

	car, err := h.cars.UpdateCar(r.Context(), id, claims.UserID, patch)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	if car.Price != oldPrice {
		if err := h.alerts.PublishPriceChange(car, oldPrice); err != nil {
			h.logger.WithError(err).WithField("car_id", car.ID.Hex()).
				Warn("price change alert not published")
		}
	}

	seller, err := h.users.FindUserByID(r.Context(), claims.UserID)
	if err != nil && err != db.ErrUserNotFound {
		writeStoreError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, CarView{Car: *car, Seller: models.NewSeller(seller, false)})
}

// Delete handles DELETE /api/cars/{id}. Only the seller may delete.
func (h *CarsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "User context not found")
		return
	}

	if err := h.cars.DeleteCar(r.Context(), chi.URLParam(r, "id"), claims.UserID); err != nil {
		writeStoreError(w, err)
		return
	}

	writeMessage(w, http.StatusOK, "Car deleted successfully")
}

// resolveSellers batch-fetches the distinct sellers of a result page, keyed
// by their ObjectID.
func (h *CarsHandler) resolveSellers(r *http.Request, cars []models.Car) (map[primitive.ObjectID]*models.User, error) {
	seen := map[primitive.ObjectID]bool{}
	ids := []primitive.ObjectID{}
	for i := range cars {
		if !seen[cars[i].Seller] {
			seen[cars[i].Seller] = true
			ids = append(ids, cars[i].Seller)
		}
	}

	users, err := h.users.FindUsersByIDs(r.Context(), ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[primitive.ObjectID]*models.User, len(users))
	for i := range users {
		byID[users[i].ID] = &users[i]
	}
	return byID, nil
}
