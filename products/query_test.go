package products

import (
	"net/url"
	"reflect"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
)

func TestBuildListFilterEmpty(t *testing.T) {
	filter := BuildListFilter(url.Values{})
	if len(filter) != 0 {
		t.Errorf("empty query produced filter %v, want empty", filter)
	}
}

func TestBuildListFilterCategoryAndPrice(t *testing.T) {
	q := url.Values{}
	q.Set("category", "c123")
	q.Set("minPrice", "10")
	q.Set("maxPrice", "99.5")

	filter := BuildListFilter(q)
	if filter["categoryid"] != "c123" {
		t.Errorf("categoryid = %v, want c123", filter["categoryid"])
	}
	price, ok := filter["price"].(bson.M)
	if !ok {
		t.Fatalf("price filter missing: %v", filter)
	}
	if price["$gte"] != 10.0 || price["$lte"] != 99.5 {
		t.Errorf("price bounds = %v, want $gte 10 $lte 99.5", price)
	}
}

func TestBuildListFilterIgnoresBadNumbers(t *testing.T) {
	q := url.Values{}
	q.Set("minPrice", "cheap")
	q.Set("rating", "lots")

	filter := BuildListFilter(q)
	if _, ok := filter["price"]; ok {
		t.Error("non-numeric minPrice leaked into filter")
	}
	if _, ok := filter["rating"]; ok {
		t.Error("non-numeric rating leaked into filter")
	}
}

func TestBuildListFilterRatingFloor(t *testing.T) {
	q := url.Values{}
	q.Set("rating", "4")

	filter := BuildListFilter(q)
	want := bson.M{"$gte": 4.0}
	if !reflect.DeepEqual(filter["rating"], want) {
		t.Errorf("rating = %v, want %v", filter["rating"], want)
	}
}

func TestBuildListFilterSearch(t *testing.T) {
	q := url.Values{}
	q.Set("search", "widget")

	filter := BuildListFilter(q)
	or, ok := filter["$or"].(bson.A)
	if !ok || len(or) != 2 {
		t.Fatalf("$or = %v, want name+description clauses", filter["$or"])
	}
}

func TestBuildListOptionsSort(t *testing.T) {
	tests := []struct {
		name  string
		param string
		want  bson.D
	}{
		{"default newest first", "", bson.D{{Key: "created_at", Value: -1}}},
		{"ascending price", "price", bson.D{{Key: "price", Value: 1}}},
		{"descending rating", "-rating", bson.D{{Key: "rating", Value: -1}}},
		{"unknown field falls back", "secret", bson.D{{Key: "created_at", Value: -1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := BuildListOptions(tt.param, 0, 20)
			if !reflect.DeepEqual(opts.Sort, tt.want) {
				t.Errorf("sort = %v, want %v", opts.Sort, tt.want)
			}
		})
	}
}

func TestBuildListOptionsPagination(t *testing.T) {
	opts := BuildListOptions("", 40, 20)
	if opts.Skip == nil || *opts.Skip != 40 {
		t.Errorf("skip = %v, want 40", opts.Skip)
	}
	if opts.Limit == nil || *opts.Limit != 20 {
		t.Errorf("limit = %v, want 20", opts.Limit)
	}
}
