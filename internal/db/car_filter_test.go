package db

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/autogen/autogen/internal/models"
)

func TestParseCarFilter_Defaults(t *testing.T) {
	f := ParseCarFilter(url.Values{})

	assert.Equal(t, models.StatusActive, f.Status)
	assert.Equal(t, DefaultPage, f.Page)
	assert.Equal(t, DefaultLimit, f.Limit)
	assert.Nil(t, f.MinPrice)
	assert.Nil(t, f.MaxPrice)
	assert.Nil(t, f.MinMileage)
	assert.Nil(t, f.MaxMileage)
	assert.Nil(t, f.Year)
	assert.Empty(t, f.Search)
	assert.Empty(t, f.Make)
	assert.Empty(t, f.Model)
}

func TestParseCarFilter_AllParams(t *testing.T) {
	q := url.Values{}
	q.Set("search", "civic")
	q.Set("minPrice", "1000")
	q.Set("maxPrice", "20000.50")
	q.Set("minMileage", "5000")
	q.Set("maxMileage", "60000")
	q.Set("year", "2020")
	q.Set("make", "honda")
	q.Set("model", "civ")
	q.Set("status", "sold")
	q.Set("page", "3")
	q.Set("limit", "10")

	f := ParseCarFilter(q)

	assert.Equal(t, "civic", f.Search)
	require.NotNil(t, f.MinPrice)
	assert.Equal(t, 1000.0, *f.MinPrice)
	require.NotNil(t, f.MaxPrice)
	assert.Equal(t, 20000.50, *f.MaxPrice)
	require.NotNil(t, f.MinMileage)
	assert.Equal(t, 5000, *f.MinMileage)
	require.NotNil(t, f.MaxMileage)
	assert.Equal(t, 60000, *f.MaxMileage)
	require.NotNil(t, f.Year)
	assert.Equal(t, 2020, *f.Year)
	assert.Equal(t, "honda", f.Make)
	assert.Equal(t, "civ", f.Model)
	assert.Equal(t, models.StatusSold, f.Status)
	assert.Equal(t, 3, f.Page)
	assert.Equal(t, 10, f.Limit)
}

func TestParseCarFilter_MalformedNumbersAreAbsent(t *testing.T) {
	// A filter that fails to parse must be dropped, never treated as zero.
	q := url.Values{}
	q.Set("minPrice", "cheap")
	q.Set("maxPrice", "12,000")
	q.Set("minMileage", "low")
	q.Set("maxMileage", "")
	q.Set("year", "twenty-twenty")
	q.Set("page", "first")
	q.Set("limit", "all")

	f := ParseCarFilter(q)

	assert.Nil(t, f.MinPrice)
	assert.Nil(t, f.MaxPrice)
	assert.Nil(t, f.MinMileage)
	assert.Nil(t, f.MaxMileage)
	assert.Nil(t, f.Year)
	assert.Equal(t, DefaultPage, f.Page)
	assert.Equal(t, DefaultLimit, f.Limit)

	query := f.Query()
	_, hasPrice := query["price"]
	_, hasMileage := query["mileage"]
	_, hasYear := query["year"]
	assert.False(t, hasPrice)
	assert.False(t, hasMileage)
	assert.False(t, hasYear)
}

func TestParseCarFilter_PageAndLimitFloor(t *testing.T) {
	q := url.Values{}
	q.Set("page", "0")
	q.Set("limit", "-5")

	f := ParseCarFilter(q)
	assert.Equal(t, DefaultPage, f.Page)
	assert.Equal(t, DefaultLimit, f.Limit)
}

func TestCarFilter_QueryStatusOnly(t *testing.T) {
	f := ParseCarFilter(url.Values{})
	query := f.Query()

	assert.Equal(t, bson.M{"status": models.StatusActive}, query)
}

func TestCarFilter_QuerySearchIsOrOverThreeFields(t *testing.T) {
	q := url.Values{}
	q.Set("search", "civic")
	f := ParseCarFilter(q)
	query := f.Query()

	or, ok := query["$or"].(bson.A)
	require.True(t, ok)
	require.Len(t, or, 3)

	fields := []string{}
	for _, clause := range or {
		m := clause.(bson.M)
		for field, v := range m {
			fields = append(fields, field)
			re := v.(primitive.Regex)
			assert.Equal(t, "civic", re.Pattern)
			assert.Equal(t, "i", re.Options)
		}
	}
	assert.ElementsMatch(t, []string{"make", "model", "description"}, fields)
}

func TestCarFilter_QuerySearchEscapesMetacharacters(t *testing.T) {
	q := url.Values{}
	q.Set("search", "c.v*c")
	f := ParseCarFilter(q)

	or := f.Query()["$or"].(bson.A)
	re := or[0].(bson.M)["make"].(primitive.Regex)
	assert.Equal(t, `c\.v\*c`, re.Pattern)
}

func TestCarFilter_QueryBounds(t *testing.T) {
	q := url.Values{}
	q.Set("minPrice", "1000")
	q.Set("maxPrice", "17000")
	q.Set("maxMileage", "60000")
	f := ParseCarFilter(q)
	query := f.Query()

	price, ok := query["price"].(bson.M)
	require.True(t, ok)
	assert.Equal(t, 1000.0, price["$gte"])
	assert.Equal(t, 17000.0, price["$lte"])

	mileage, ok := query["mileage"].(bson.M)
	require.True(t, ok)
	assert.Equal(t, 60000, mileage["$lte"])
	_, hasMin := mileage["$gte"]
	assert.False(t, hasMin)
}

func TestCarFilter_QueryMakeModelYear(t *testing.T) {
	q := url.Values{}
	q.Set("make", "HONDA")
	q.Set("model", "civ")
	q.Set("year", "2020")
	f := ParseCarFilter(q)
	query := f.Query()

	makeRe := query["make"].(primitive.Regex)
	assert.Equal(t, "HONDA", makeRe.Pattern)
	assert.Equal(t, "i", makeRe.Options)

	modelRe := query["model"].(primitive.Regex)
	assert.Equal(t, "civ", modelRe.Pattern)

	assert.Equal(t, 2020, query["year"])
}

func TestCarFilter_Skip(t *testing.T) {
	tests := []struct {
		page  int
		limit int
		want  int64
	}{
		{1, 20, 0},
		{2, 20, 20},
		{3, 10, 20},
		{5, 7, 28},
	}
	for _, tt := range tests {
		f := CarFilter{Page: tt.page, Limit: tt.limit}
		assert.Equal(t, tt.want, f.Skip())
	}
}

func TestCarFilter_Pages(t *testing.T) {
	tests := []struct {
		total int64
		limit int
		want  int64
	}{
		{0, 20, 0},
		{1, 20, 1},
		{20, 20, 1},
		{21, 20, 2},
		{100, 7, 15},
	}
	for _, tt := range tests {
		f := CarFilter{Limit: tt.limit}
		assert.Equal(t, tt.want, f.Pages(tt.total), "total=%d limit=%d", tt.total, tt.limit)
	}
}
