package handlers

import (
	"fmt"
	"math"
	"net/http"
	"strings"

	"github.com/autogen/autogen/internal/models"
)

// ListingsHandler serves the simulated scan and content-generation
// endpoints. Both are deterministic stand-ins: no computer vision or language
// model is involved, the payloads are fixed.
type ListingsHandler struct{}

// NewListingsHandler creates a new listings tooling handler.
func NewListingsHandler() *ListingsHandler {
	return &ListingsHandler{}
}

// ScanRequest is the body of POST /api/listings/scan.
type ScanRequest struct {
	VIN          string `json:"vin"`
	LicensePlate string `json:"license_plate"`
	Image        string `json:"image"`
}

// ScanResult is the fixed vehicle-attribute payload a real vision service
// would produce.
type ScanResult struct {
	VIN            string           `json:"vin"`
	LicensePlate   string           `json:"license_plate"`
	Year           int              `json:"year"`
	Make           string           `json:"make"`
	Model          string           `json:"model"`
	Trim           string           `json:"trim"`
	Color          string           `json:"color"`
	Condition      models.Condition `json:"condition"`
	Mileage        int              `json:"mileage"`
	DetectedIssues []string         `json:"detected_issues"`
}

// Scan handles POST /api/listings/scan.
func (h *ListingsHandler) Scan(w http.ResponseWriter, r *http.Request) {
	var req ScanRequest
	if err := decodeJSON(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return
	}

	result := ScanResult{
		VIN:          req.VIN,
		LicensePlate: req.LicensePlate,
		Year:         2020,
		Make:         "Honda",
		Model:        "Civic",
		Trim:         "EX",
		Color:        "Silver",
		Condition:    models.ConditionExcellent,
		Mileage:      35000,
		DetectedIssues: []string{
			"Minor scratch on rear bumper",
			"Tire wear: 70%",
		},
	}
	if result.VIN == "" {
		result.VIN = "1HGBH41JXMN109186"
	}
	if result.LicensePlate == "" {
		result.LicensePlate = "ABC-1234"
	}

	writeJSON(w, http.StatusOK, result)
}

// GenerateRequest is the body of POST /api/listings/generate.
type GenerateRequest struct {
	CarData GenerateCarData `json:"car_data"`
}

// GenerateCarData carries the vehicle attributes the generated copy is built
// from.
type GenerateCarData struct {
	Year    int     `json:"year"`
	Make    string  `json:"make"`
	Model   string  `json:"model"`
	Trim    string  `json:"trim"`
	Mileage int     `json:"mileage"`
	Price   float64 `json:"price"`
}

// PriceRange is a suggested asking-price band.
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// GeneratedContent is the fixed listing copy a real language model would
// produce.
type GeneratedContent struct {
	PriceRange      PriceRange         `json:"price_range"`
	Title           string             `json:"title"`
	Description     string             `json:"description"`
	Highlights      []string           `json:"highlights"`
	Pros            []string           `json:"pros"`
	Cons            []string           `json:"cons"`
	SuggestedBuyers []string           `json:"suggested_buyers"`
	TrustReport     models.TrustReport `json:"trust_report"`
}

// Generate handles POST /api/listings/generate. The price band is ±10% of
// the supplied price; everything else is canned.
func (h *ListingsHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return
	}
	car := req.CarData

	title := strings.TrimSpace(fmt.Sprintf(
		"%d %s %s %s - Low Mileage, Excellent Condition",
		car.Year, car.Make, car.Model, car.Trim,
	))

	rating := 9.2
	content := GeneratedContent{
		PriceRange: PriceRange{
			Min: math.Round(car.Price * 0.9),
			Max: math.Round(car.Price * 1.1),
		},
		Title: title,
		Description: fmt.Sprintf(
			"This well-maintained %d %s %s is perfect for anyone seeking "+
				"reliability and modern features. With only %d miles, this "+
				"vehicle has been gently used and is in excellent condition.",
			car.Year, car.Make, car.Model, car.Mileage,
		),
		Highlights: []string{
			"Low mileage for year",
			"Single owner",
			"Complete service history",
			"No accidents",
		},
		Pros: []string{
			"Outstanding reliability record",
			"Great fuel efficiency",
			"Low maintenance costs",
			"Strong resale value",
		},
		Cons: []string{
			"Limited cargo space compared to SUVs",
		},
		SuggestedBuyers: []string{"First-time buyers", "Daily commuters", "Families"},
		TrustReport: models.TrustReport{
			Accidents:       0,
			Owners:          1,
			ConditionRating: &rating,
			History:         models.HistoryClean,
		},
	}

	writeJSON(w, http.StatusOK, content)
}
