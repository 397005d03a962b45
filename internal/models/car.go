package models

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Condition describes the overall state of a listed vehicle.
type Condition string

const (
	ConditionExcellent Condition = "Excellent"
	ConditionGood      Condition = "Good"
	ConditionFair      Condition = "Fair"
	ConditionPoor      Condition = "Poor"
)

// CarStatus is the lifecycle state of a listing.
type CarStatus string

const (
	StatusDraft   CarStatus = "draft"
	StatusActive  CarStatus = "active"
	StatusSold    CarStatus = "sold"
	StatusRemoved CarStatus = "removed"
)

// History classifies a vehicle's title history.
type History string

const (
	HistoryClean   History = "Clean"
	HistorySalvage History = "Salvage"
	HistoryRebuilt History = "Rebuilt"
)

// TrustReport summarizes accident and ownership history for a listing.
type TrustReport struct {
	Accidents       int      `bson:"accidents" json:"accidents"`
	Owners          int      `bson:"owners" json:"owners"`
	ConditionRating *float64 `bson:"condition_rating,omitempty" json:"condition_rating,omitempty"`
	History         History  `bson:"history" json:"history"`
}

// Car represents a vehicle listing on the marketplace.
type Car struct {
	ID             primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	VIN            string               `bson:"vin,omitempty" json:"vin,omitempty"`
	LicensePlate   string               `bson:"license_plate,omitempty" json:"license_plate,omitempty"`
	Year           int                  `bson:"year" json:"year"`
	Make           string               `bson:"make" json:"make"`
	Model          string               `bson:"model" json:"model"`
	Trim           string               `bson:"trim,omitempty" json:"trim,omitempty"`
	Color          string               `bson:"color,omitempty" json:"color,omitempty"`
	Mileage        int                  `bson:"mileage" json:"mileage"`
	Price          float64              `bson:"price" json:"price"`
	Condition      Condition            `bson:"condition" json:"condition"`
	Description    string               `bson:"description,omitempty" json:"description,omitempty"`
	Highlights     []string             `bson:"highlights,omitempty" json:"highlights,omitempty"`
	Pros           []string             `bson:"pros,omitempty" json:"pros,omitempty"`
	Cons           []string             `bson:"cons,omitempty" json:"cons,omitempty"`
	Images         []string             `bson:"images,omitempty" json:"images,omitempty"`
	Seller         primitive.ObjectID   `bson:"seller" json:"seller"`
	Status         CarStatus            `bson:"status" json:"status"`
	TrustReport    TrustReport          `bson:"trust_report" json:"trust_report"`
	DetectedIssues []string             `bson:"detected_issues,omitempty" json:"detected_issues,omitempty"`
	AIGenerated    bool                 `bson:"ai_generated" json:"ai_generated"`
	Views          int64                `bson:"views" json:"views"`
	SavedBy        []primitive.ObjectID `bson:"saved_by,omitempty" json:"saved_by,omitempty"`
	CreatedAt      time.Time            `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time            `bson:"updated_at" json:"updated_at"`
}

// IsValidCondition checks if a condition value is valid.
func IsValidCondition(c Condition) bool {
	switch c {
	case ConditionExcellent, ConditionGood, ConditionFair, ConditionPoor:
		return true
	default:
		return false
	}
}

// IsValidCarStatus checks if a listing status value is valid.
func IsValidCarStatus(s CarStatus) bool {
	switch s {
	case StatusDraft, StatusActive, StatusSold, StatusRemoved:
		return true
	default:
		return false
	}
}

// IsValidHistory checks if a title-history value is valid.
func IsValidHistory(h History) bool {
	switch h {
	case HistoryClean, HistorySalvage, HistoryRebuilt:
		return true
	default:
		return false
	}
}

// Validate checks the field-level constraints of a listing.
func (c *Car) Validate() error {
	if c.Year == 0 {
		return errors.New("year is required")
	}
	if c.Make == "" {
		return errors.New("make is required")
	}
	if c.Model == "" {
		return errors.New("model is required")
	}
	if c.Mileage < 0 {
		return errors.New("mileage must not be negative")
	}
	if c.Price <= 0 {
		return errors.New("price is required")
	}
	if !IsValidCondition(c.Condition) {
		return errors.New("invalid condition")
	}
	if !IsValidCarStatus(c.Status) {
		return errors.New("invalid status")
	}
	if !IsValidHistory(c.TrustReport.History) {
		return errors.New("invalid trust report history")
	}
	if c.Seller.IsZero() {
		return errors.New("seller is required")
	}
	return nil
}

// CreateCarRequest is the payload for creating a listing. The seller and
// lifecycle fields are set by the server, never by the caller.
type CreateCarRequest struct {
	VIN            string       `json:"vin"`
	LicensePlate   string       `json:"license_plate"`
	Year           int          `json:"year"`
	Make           string       `json:"make"`
	Model          string       `json:"model"`
	Trim           string       `json:"trim"`
	Color          string       `json:"color"`
	Mileage        int          `json:"mileage"`
	Price          float64      `json:"price"`
	Condition      Condition    `json:"condition"`
	Description    string       `json:"description"`
	Highlights     []string     `json:"highlights"`
	Pros           []string     `json:"pros"`
	Cons           []string     `json:"cons"`
	Images         []string     `json:"images"`
	TrustReport    *TrustReport `json:"trust_report"`
	DetectedIssues []string     `json:"detected_issues"`
	AIGenerated    bool         `json:"ai_generated"`
}

// NewCar builds a listing from a create request, applying schema defaults.
func (r *CreateCarRequest) NewCar(seller primitive.ObjectID) Car {
	car := Car{
		VIN:            r.VIN,
		LicensePlate:   r.LicensePlate,
		Year:           r.Year,
		Make:           r.Make,
		Model:          r.Model,
		Trim:           r.Trim,
		Color:          r.Color,
		Mileage:        r.Mileage,
		Price:          r.Price,
		Condition:      r.Condition,
		Description:    r.Description,
		Highlights:     r.Highlights,
		Pros:           r.Pros,
		Cons:           r.Cons,
		Images:         r.Images,
		Seller:         seller,
		Status:         StatusDraft,
		TrustReport:    TrustReport{Owners: 1, History: HistoryClean},
		DetectedIssues: r.DetectedIssues,
		AIGenerated:    r.AIGenerated,
	}
	if car.Condition == "" {
		car.Condition = ConditionGood
	}
	if r.TrustReport != nil {
		car.TrustReport = *r.TrustReport
		if car.TrustReport.History == "" {
			car.TrustReport.History = HistoryClean
		}
	}
	return car
}

// CarPatch carries the updatable fields of a listing. Nil fields are left
// untouched, so a caller that omits a field never clears it.
type CarPatch struct {
	VIN            *string      `json:"vin"`
	LicensePlate   *string      `json:"license_plate"`
	Year           *int         `json:"year"`
	Make           *string      `json:"make"`
	Model          *string      `json:"model"`
	Trim           *string      `json:"trim"`
	Color          *string      `json:"color"`
	Mileage        *int         `json:"mileage"`
	Price          *float64     `json:"price"`
	Condition      *Condition   `json:"condition"`
	Description    *string      `json:"description"`
	Highlights     []string     `json:"highlights"`
	Pros           []string     `json:"pros"`
	Cons           []string     `json:"cons"`
	Images         []string     `json:"images"`
	Status         *CarStatus   `json:"status"`
	TrustReport    *TrustReport `json:"trust_report"`
	DetectedIssues []string     `json:"detected_issues"`
	AIGenerated    *bool        `json:"ai_generated"`
}

// Apply copies the provided fields onto a listing.
func (p *CarPatch) Apply(car *Car) {
	if p.VIN != nil {
		car.VIN = *p.VIN
	}
	if p.LicensePlate != nil {
		car.LicensePlate = *p.LicensePlate
	}
	if p.Year != nil {
		car.Year = *p.Year
	}
	if p.Make != nil {
		car.Make = *p.Make
	}
	if p.Model != nil {
		car.Model = *p.Model
	}
	if p.Trim != nil {
		car.Trim = *p.Trim
	}
	if p.Color != nil {
		car.Color = *p.Color
	}
	if p.Mileage != nil {
		car.Mileage = *p.Mileage
	}
	if p.Price != nil {
		car.Price = *p.Price
	}
	if p.Condition != nil {
		car.Condition = *p.Condition
	}
	if p.Description != nil {
		car.Description = *p.Description
	}
	if p.Highlights != nil {
		car.Highlights = p.Highlights
	}
	if p.Pros != nil {
		car.Pros = p.Pros
	}
	if p.Cons != nil {
		car.Cons = p.Cons
	}
	if p.Images != nil {
		car.Images = p.Images
	}
	if p.Status != nil {
		car.Status = *p.Status
	}
	if p.TrustReport != nil {
		car.TrustReport = *p.TrustReport
	}
	if p.DetectedIssues != nil {
		car.DetectedIssues = p.DetectedIssues
	}
	if p.AIGenerated != nil {
		car.AIGenerated = *p.AIGenerated
	}
}
