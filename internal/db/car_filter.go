package db

import (
	"net/url"
	"regexp"
	"strconv"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/autogen/autogen/internal/models"
)

const (
	DefaultPage  = 1
	DefaultLimit = 20
)

// CarFilter holds the optional search parameters for a listing query. Nil
// pointer fields impose no constraint.
type CarFilter struct {
	Search     string
	Make       string
	Model      string
	MinPrice   *float64
	MaxPrice   *float64
	MinMileage *int
	MaxMileage *int
	Year       *int
	Status     models.CarStatus
	Page       int
	Limit      int
}

// ParseCarFilter builds a CarFilter from request query parameters. Numeric
// parameters that fail to parse are treated as absent, not as zero. Status
// defaults to active, page to 1, limit to 20.
func ParseCarFilter(q url.Values) CarFilter {
	f := CarFilter{
		Search: q.Get("search"),
		Make:   q.Get("make"),
		Model:  q.Get("model"),
		Status: models.CarStatus(q.Get("status")),
		Page:   DefaultPage,
		Limit:  DefaultLimit,
	}
	if f.Status == "" {
		f.Status = models.StatusActive
	}

	f.MinPrice = parseFloat(q.Get("minPrice"))
	f.MaxPrice = parseFloat(q.Get("maxPrice"))
	f.MinMileage = parseInt(q.Get("minMileage"))
	f.MaxMileage = parseInt(q.Get("maxMileage"))
	f.Year = parseInt(q.Get("year"))

	if p := parseInt(q.Get("page")); p != nil && *p >= 1 {
		f.Page = *p
	}
	if l := parseInt(q.Get("limit")); l != nil && *l >= 1 {
		f.Limit = *l
	}
	return f
}

// Query translates the filter into a MongoDB predicate. All constraints
// combine with AND; the free-text search is an OR over make, model, and
// description. Bounds are inclusive.
func (f CarFilter) Query() bson.M {
	query := bson.M{"status": f.Status}

	if f.Search != "" {
		re := containsRegex(f.Search)
		query["$or"] = bson.A{
			bson.M{"make": re},
			bson.M{"model": re},
			bson.M{"description": re},
		}
	}

	if f.MinPrice != nil || f.MaxPrice != nil {
		price := bson.M{}
		if f.MinPrice != nil {
			price["$gte"] = *f.MinPrice
		}
		if f.MaxPrice != nil {
			price["$lte"] = *f.MaxPrice
		}
		query["price"] = price
	}

	if f.MinMileage != nil || f.MaxMileage != nil {
		mileage := bson.M{}
		if f.MinMileage != nil {
			mileage["$gte"] = *f.MinMileage
		}
		if f.MaxMileage != nil {
			mileage["$lte"] = *f.MaxMileage
		}
		query["mileage"] = mileage
	}

	if f.Year != nil {
		query["year"] = *f.Year
	}
	if f.Make != "" {
		query["make"] = containsRegex(f.Make)
	}
	if f.Model != "" {
		query["model"] = containsRegex(f.Model)
	}
	return query
}

// Skip returns the number of documents to skip for the requested page.
func (f CarFilter) Skip() int64 {
	return int64(f.Page-1) * int64(f.Limit)
}

// Pages returns the total page count for a result set of the given size.
func (f CarFilter) Pages(total int64) int64 {
	if total == 0 {
		return 0
	}
	return (total + int64(f.Limit) - 1) / int64(f.Limit)
}

// containsRegex builds a case-insensitive literal substring match. The input
// is quoted so regex metacharacters in user input match themselves.
func containsRegex(s string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"}
}

func parseFloat(s string) *float64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

func parseInt(s string) *int {
	if s == "" {
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &v
}
