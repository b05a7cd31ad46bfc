package products

import (
	"testing"
	"time"

	"bazaar/models"

	"go.mongodb.org/mongo-driver/bson"
)

func pipelineStageSet(t *testing.T, stage bson.D) bson.M {
	t.Helper()
	if len(stage) != 1 || stage[0].Key != "$set" {
		t.Fatalf("stage = %v, want single $set", stage)
	}
	set, ok := stage[0].Value.(bson.M)
	if !ok {
		t.Fatalf("$set value is %T, want bson.M", stage[0].Value)
	}
	return set
}

func TestAppendReviewPipelineShape(t *testing.T) {
	review := models.Review{ReviewID: "r1", UserID: "u1", Rating: 5, Comment: "good", CreatedAt: time.Now()}
	p := AppendReviewPipeline(review)
	if len(p) != 2 {
		t.Fatalf("pipeline has %d stages, want append + rating", len(p))
	}

	set := pipelineStageSet(t, p[0])
	concat, ok := set["reviews"].(bson.M)["$concatArrays"].(bson.A)
	if !ok || len(concat) != 2 {
		t.Fatalf("reviews stage = %v, want $concatArrays of existing + new", set["reviews"])
	}

	rating := pipelineStageSet(t, p[1])
	if _, ok := rating["rating"]; !ok {
		t.Error("rating stage does not recompute rating")
	}
	if _, ok := rating["updated_at"]; !ok {
		t.Error("rating stage does not touch updated_at")
	}
}

func TestReplaceReviewPipelineShape(t *testing.T) {
	p := ReplaceReviewPipeline("r1", 2, "changed my mind")
	if len(p) != 2 {
		t.Fatalf("pipeline has %d stages, want replace + rating", len(p))
	}
	set := pipelineStageSet(t, p[0])
	m, ok := set["reviews"].(bson.M)["$map"].(bson.M)
	if !ok {
		t.Fatalf("reviews stage = %v, want $map", set["reviews"])
	}
	if m["input"] != "$reviews" {
		t.Errorf("$map input = %v, want $reviews", m["input"])
	}
}

func TestRemoveReviewPipelineShape(t *testing.T) {
	p := RemoveReviewPipeline("r1")
	if len(p) != 2 {
		t.Fatalf("pipeline has %d stages, want filter + rating", len(p))
	}
	set := pipelineStageSet(t, p[0])
	f, ok := set["reviews"].(bson.M)["$filter"].(bson.M)
	if !ok {
		t.Fatalf("reviews stage = %v, want $filter", set["reviews"])
	}
	cond, ok := f["cond"].(bson.M)
	if !ok {
		t.Fatalf("filter cond = %v", f["cond"])
	}
	ne, ok := cond["$ne"].(bson.A)
	if !ok || len(ne) != 2 || ne[1] != "r1" {
		t.Errorf("filter cond = %v, want $ne against r1", cond)
	}
}

func TestRatingStageZeroDefault(t *testing.T) {
	set := pipelineStageSet(t, ratingStage())
	ifNull, ok := set["rating"].(bson.M)["$ifNull"].(bson.A)
	if !ok || len(ifNull) != 2 {
		t.Fatalf("rating = %v, want $ifNull pair", set["rating"])
	}
	if ifNull[1] != 0 {
		t.Errorf("empty-reviews default = %v, want 0", ifNull[1])
	}
}

// matchesAppendFilter applies the filter's semantics to an in-memory
// product: the product id must equal, and $ne over the embedded array
// holds only when no element equals the excluded author.
func matchesAppendFilter(filter bson.M, product models.Product) bool {
	if filter["productid"] != product.ProductID {
		return false
	}
	excluded := filter["reviews.userid"].(bson.M)["$ne"]
	for _, rev := range product.Reviews {
		if rev.UserID == excluded {
			return false
		}
	}
	return true
}

func TestAppendReviewFilterShape(t *testing.T) {
	filter := appendReviewFilter("p1", "u1")
	if filter["productid"] != "p1" {
		t.Errorf("productid = %v, want p1", filter["productid"])
	}
	clause, ok := filter["reviews.userid"].(bson.M)
	if !ok {
		t.Fatalf("reviews.userid clause = %v, want bson.M", filter["reviews.userid"])
	}
	if clause["$ne"] != "u1" {
		t.Errorf("$ne = %v, want the author id", clause["$ne"])
	}
}

func TestAppendReviewFilterExcludesExistingAuthor(t *testing.T) {
	filter := appendReviewFilter("p1", "u1")

	fresh := models.Product{ProductID: "p1", Reviews: []models.Review{{ReviewID: "r2", UserID: "u2"}}}
	if !matchesAppendFilter(filter, fresh) {
		t.Error("filter rejects a product the author has not reviewed")
	}

	// Once the author's id is embedded, a second append can never match.
	reviewed := models.Product{ProductID: "p1", Reviews: []models.Review{
		{ReviewID: "r1", UserID: "u1"},
		{ReviewID: "r2", UserID: "u2"},
	}}
	if matchesAppendFilter(filter, reviewed) {
		t.Error("filter matches a product the author already reviewed")
	}

	other := models.Product{ProductID: "p9", Reviews: nil}
	if matchesAppendFilter(filter, other) {
		t.Error("filter matches a different product")
	}
}

func TestFindReview(t *testing.T) {
	product := &models.Product{Reviews: []models.Review{
		{ReviewID: "r1", UserID: "u1"},
		{ReviewID: "r2", UserID: "u2"},
	}}
	if got := findReview(product, "r2"); got == nil || got.UserID != "u2" {
		t.Errorf("findReview(r2) = %v, want u2's review", got)
	}
	if got := findReview(product, "r9"); got != nil {
		t.Errorf("findReview(r9) = %v, want nil", got)
	}
}
