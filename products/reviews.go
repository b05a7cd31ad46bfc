package products

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"bazaar/db"
	"bazaar/models"
	"bazaar/mq"
	"bazaar/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type reviewInput struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

func (in *reviewInput) validate() string {
	if in.Rating < 1 || in.Rating > 5 {
		return "Rating must be between 1 and 5"
	}
	if in.Comment == "" {
		return "Rating and comment are required"
	}
	return ""
}

// ratingStage recomputes the derived aggregate from the embedded
// reviews; an empty set yields exactly 0. Running it in the same
// pipeline update as the review mutation keeps the aggregate and the
// review set consistent in a single document write.
func ratingStage() bson.D {
	return bson.D{{Key: "$set", Value: bson.M{
		"rating":     bson.M{"$ifNull": bson.A{bson.M{"$avg": "$reviews.rating"}, 0}},
		"updated_at": "$$NOW",
	}}}
}

// appendReviewFilter matches the target product only while it holds no
// review by this author. Folding the one-review-per-author check into
// the update filter makes the check and the append a single atomic
// operation: once the author's id is in the embedded set, the filter
// can never match again.
func appendReviewFilter(productID, userID string) bson.M {
	return bson.M{
		"productid":      productID,
		"reviews.userid": bson.M{"$ne": userID},
	}
}

// AppendReviewPipeline appends a review and recomputes the rating in
// one atomic update, so concurrent reviewers never clobber each other.
func AppendReviewPipeline(review models.Review) mongo.Pipeline {
	return mongo.Pipeline{
		bson.D{{Key: "$set", Value: bson.M{
			"reviews": bson.M{"$concatArrays": bson.A{
				bson.M{"$ifNull": bson.A{"$reviews", bson.A{}}},
				bson.M{"$literal": bson.A{review}},
			}},
		}}},
		ratingStage(),
	}
}

// ReplaceReviewPipeline rewrites the matching embedded review in place
// and recomputes the rating.
func ReplaceReviewPipeline(reviewID string, rating int, comment string) mongo.Pipeline {
	return mongo.Pipeline{
		bson.D{{Key: "$set", Value: bson.M{
			"reviews": bson.M{"$map": bson.M{
				"input": "$reviews",
				"as":    "rev",
				"in": bson.M{"$cond": bson.A{
					bson.M{"$eq": bson.A{"$$rev.reviewid", reviewID}},
					bson.M{"$mergeObjects": bson.A{"$$rev", bson.M{
						"rating":  rating,
						"comment": bson.M{"$literal": comment},
					}}},
					"$$rev",
				}},
			}},
		}}},
		ratingStage(),
	}
}

// RemoveReviewPipeline drops the matching embedded review and
// recomputes the rating.
func RemoveReviewPipeline(reviewID string) mongo.Pipeline {
	return mongo.Pipeline{
		bson.D{{Key: "$set", Value: bson.M{
			"reviews": bson.M{"$filter": bson.M{
				"input": "$reviews",
				"as":    "rev",
				"cond":  bson.M{"$ne": bson.A{"$$rev.reviewid", reviewID}},
			}},
		}}},
		ratingStage(),
	}
}

// POST /api/products/:productid/reviews
func AddReview(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	productID := ps.ByName("productid")
	user := utils.GetUserFromRequest(r)
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var input reviewInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid review data")
		return
	}
	if msg := input.validate(); msg != "" {
		utils.RespondWithError(w, http.StatusBadRequest, msg)
		return
	}

	review := models.Review{
		ReviewID:  "r" + utils.GenerateID(14),
		UserID:    user.UserID,
		Rating:    input.Rating,
		Comment:   input.Comment,
		CreatedAt: time.Now(),
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var updated models.Product
	err := db.ProductCollection.FindOneAndUpdate(ctx,
		appendReviewFilter(productID, user.UserID),
		AppendReviewPipeline(review),
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err == mongo.ErrNoDocuments {
		exists := db.ProductCollection.FindOne(ctx, bson.M{"productid": productID}).Err()
		if exists == nil {
			utils.RespondWithError(w, http.StatusConflict, "You have already reviewed this product")
		} else {
			utils.RespondWithError(w, http.StatusNotFound, "Product not found")
		}
		return
	}
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to add review")
		return
	}

	invalidateProductCache(productID)

	go mq.Emit("review-added", models.Index{EntityType: "review", EntityId: review.ReviewID, Method: "POST", ItemType: "product", ItemId: productID})

	utils.RespondWithJSON(w, http.StatusCreated, utils.M{
		"review": review,
		"rating": updated.Rating,
	})
}

// findReview scans the embedded reviews for the given id. Linear scan
// is fine at embedded-collection scale.
func findReview(product *models.Product, reviewID string) *models.Review {
	for i := range product.Reviews {
		if product.Reviews[i].ReviewID == reviewID {
			return &product.Reviews[i]
		}
	}
	return nil
}

// PUT /api/products/:productid/reviews/:reviewid
// Scoped to the review's author or an admin.
func EditReview(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	productID := ps.ByName("productid")
	reviewID := ps.ByName("reviewid")
	user := utils.GetUserFromRequest(r)
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var input reviewInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid review data")
		return
	}
	if msg := input.validate(); msg != "" {
		utils.RespondWithError(w, http.StatusBadRequest, msg)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var product models.Product
	if err := db.ProductCollection.FindOne(ctx, bson.M{"productid": productID}).Decode(&product); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Product not found")
		return
	}

	review := findReview(&product, reviewID)
	if review == nil {
		utils.RespondWithError(w, http.StatusNotFound, "Review not found")
		return
	}
	if review.UserID != user.UserID && !user.IsAdmin() {
		utils.RespondWithError(w, http.StatusForbidden, "Forbidden")
		return
	}

	var updated models.Product
	err := db.ProductCollection.FindOneAndUpdate(ctx,
		bson.M{"productid": productID, "reviews.reviewid": reviewID},
		ReplaceReviewPipeline(reviewID, input.Rating, input.Comment),
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err == mongo.ErrNoDocuments {
		utils.RespondWithError(w, http.StatusNotFound, "Review not found")
		return
	}
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update review")
		return
	}

	invalidateProductCache(productID)

	go mq.Emit("review-edited", models.Index{EntityType: "review", EntityId: reviewID, Method: "PUT", ItemType: "product", ItemId: productID})

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"review": findReview(&updated, reviewID),
		"rating": updated.Rating,
	})
}

// DELETE /api/products/:productid/reviews/:reviewid
// Scoped to the review's author or an admin.
func DeleteReview(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	productID := ps.ByName("productid")
	reviewID := ps.ByName("reviewid")
	user := utils.GetUserFromRequest(r)
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var product models.Product
	if err := db.ProductCollection.FindOne(ctx, bson.M{"productid": productID}).Decode(&product); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Product not found")
		return
	}

	review := findReview(&product, reviewID)
	if review == nil {
		utils.RespondWithError(w, http.StatusNotFound, "Review not found")
		return
	}
	if review.UserID != user.UserID && !user.IsAdmin() {
		utils.RespondWithError(w, http.StatusForbidden, "Forbidden")
		return
	}

	var updated models.Product
	err := db.ProductCollection.FindOneAndUpdate(ctx,
		bson.M{"productid": productID, "reviews.reviewid": reviewID},
		RemoveReviewPipeline(reviewID),
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err == mongo.ErrNoDocuments {
		utils.RespondWithError(w, http.StatusNotFound, "Review not found")
		return
	}
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to delete review")
		return
	}

	invalidateProductCache(productID)

	go mq.Emit("review-deleted", models.Index{EntityType: "review", EntityId: reviewID, Method: "DELETE", ItemType: "product", ItemId: productID})

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"message": "Review deleted successfully",
		"rating":  updated.Rating,
	})
}
