package property

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/FACorreiaa/go-rental-marketplace/internal/types"
)

// Listing defaults. Out-of-range or malformed query values fall back to
// these instead of erroring: the search endpoint never rejects a request
// over its filter parameters.
const (
	defaultPage     = 1
	defaultLimit    = 12
	defaultMinPrice = 0
	defaultMaxPrice = 10000000

	// filterAll is the sentinel clients send for "no filter".
	filterAll = "all"

	SortNewest    = "newest"
	SortPriceLow  = "price-low"
	SortPriceHigh = "price-high"
	SortRating    = "rating"
	SortBedrooms  = "bedrooms"
)

var sortOrders = map[string]string{
	SortNewest:    "created_at DESC",
	SortPriceLow:  "rent ASC",
	SortPriceHigh: "rent DESC",
	SortRating:    "rating DESC, reviews DESC",
	SortBedrooms:  "bedrooms DESC",
}

// ParsePropertyFilter reads the listing query parameters permissively:
// anything missing or unparseable takes its default, an unknown sort key
// degrades to newest.
func ParsePropertyFilter(query url.Values) types.PropertyFilter {
	f := types.PropertyFilter{
		Page:     defaultPage,
		Limit:    defaultLimit,
		Type:     filterAll,
		City:     filterAll,
		MinPrice: defaultMinPrice,
		MaxPrice: defaultMaxPrice,
		Sort:     SortNewest,
	}

	if v, err := strconv.Atoi(query.Get("page")); err == nil && v > 0 {
		f.Page = v
	}
	if v, err := strconv.Atoi(query.Get("limit")); err == nil && v > 0 {
		f.Limit = v
	}
	if v := strings.TrimSpace(query.Get("type")); v != "" {
		f.Type = v
	}
	if v := strings.TrimSpace(query.Get("city")); v != "" {
		f.City = v
	}
	if v, err := strconv.ParseFloat(query.Get("minPrice"), 64); err == nil && v >= 0 {
		f.MinPrice = v
	}
	if v, err := strconv.ParseFloat(query.Get("maxPrice"), 64); err == nil && v >= 0 {
		f.MaxPrice = v
	}
	if v, err := strconv.Atoi(query.Get("bedrooms")); err == nil && v > 0 {
		f.Bedrooms = v
	}
	f.Search = strings.TrimSpace(query.Get("search"))
	if v := query.Get("sort"); v != "" {
		if _, known := sortOrders[v]; known {
			f.Sort = v
		}
	}

	return f
}

// compileSearch translates a filter into a WHERE clause, its ordered args
// and an ORDER BY expression. Every listing query carries the base
// visibility predicate; optional filters are ANDed on top, and the search
// term expands into an OR group over the text columns.
func compileSearch(f types.PropertyFilter) (whereClause string, args []interface{}, orderBy string) {
	conditions := []string{"is_active = TRUE", "status = 'available'"}
	argID := 1

	addCondition := func(condition string, value interface{}) {
		conditions = append(conditions, fmt.Sprintf(condition, argID))
		args = append(args, value)
		argID++
	}

	if f.Type != filterAll && f.Type != "" {
		addCondition("type = $%d", f.Type)
	}
	if f.City != filterAll && f.City != "" {
		addCondition("city ILIKE '%%' || $%d || '%%'", f.City)
	}
	if f.MinPrice > 0 {
		addCondition("rent >= $%d", f.MinPrice)
	}
	if f.MaxPrice > 0 && f.MaxPrice < defaultMaxPrice {
		addCondition("rent <= $%d", f.MaxPrice)
	}
	if f.Bedrooms > 0 {
		addCondition("bedrooms >= $%d", f.Bedrooms)
	}
	if f.Search != "" {
		conditions = append(conditions, fmt.Sprintf(
			"(name ILIKE '%%' || $%d || '%%' OR description ILIKE '%%' || $%d || '%%' OR city ILIKE '%%' || $%d || '%%' OR address ILIKE '%%' || $%d || '%%')",
			argID, argID, argID, argID))
		args = append(args, f.Search)
		argID++
	}

	orderBy, ok := sortOrders[f.Sort]
	if !ok {
		orderBy = sortOrders[SortNewest]
	}

	return strings.Join(conditions, " AND "), args, orderBy
}
