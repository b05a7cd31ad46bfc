package products

import "bazaar/models"

// ComputeRating returns the arithmetic mean of the review ratings, or
// exactly 0 when there are none. The store-side pipeline updates in
// reviews.go implement the same rule; this is the reference form used
// for response payloads.
func ComputeRating(reviews []models.Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	total := 0
	for _, review := range reviews {
		total += review.Rating
	}
	return float64(total) / float64(len(reviews))
}
