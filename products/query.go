package products

import (
	"net/url"
	"strconv"

	"bazaar/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var sortableFields = map[string]bool{
	"price":      true,
	"rating":     true,
	"name":       true,
	"created_at": true,
}

var defaultSort = bson.D{{Key: "created_at", Value: -1}}

// BuildListFilter translates the catalog listing query parameters into
// a Mongo filter document.
func BuildListFilter(q url.Values) bson.M {
	filter := bson.M{}

	if category := q.Get("category"); category != "" {
		filter["categoryid"] = category
	}
	if subcategory := q.Get("subcategory"); subcategory != "" {
		filter["subcategoryid"] = subcategory
	}

	price := bson.M{}
	if min, err := strconv.ParseFloat(q.Get("minPrice"), 64); err == nil {
		price["$gte"] = min
	}
	if max, err := strconv.ParseFloat(q.Get("maxPrice"), 64); err == nil {
		price["$lte"] = max
	}
	if len(price) > 0 {
		filter["price"] = price
	}

	if rating, err := strconv.ParseFloat(q.Get("rating"), 64); err == nil {
		filter["rating"] = bson.M{"$gte": rating}
	}

	if search := q.Get("search"); search != "" {
		pattern := bson.M{"$regex": search, "$options": "i"}
		filter["$or"] = bson.A{
			bson.M{"name": pattern},
			bson.M{"description": pattern},
		}
	}

	return filter
}

// BuildListOptions applies sorting and pagination to the listing.
func BuildListOptions(sortParam string, skip, limit int64) *options.FindOptions {
	sort := utils.ParseSort(sortParam, defaultSort, sortableFields)
	return options.Find().SetSort(sort).SetSkip(skip).SetLimit(limit)
}
