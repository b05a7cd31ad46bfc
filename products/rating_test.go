package products

import (
	"testing"

	"bazaar/models"
)

func TestComputeRating(t *testing.T) {
	tests := []struct {
		name    string
		ratings []int
		want    float64
	}{
		{"no reviews", nil, 0},
		{"single review", []int{4}, 4},
		{"mean of several", []int{5, 3}, 4},
		{"non-integer mean", []int{5, 4, 4}, 13.0 / 3.0},
		{"all ones", []int{1, 1, 1}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reviews := make([]models.Review, len(tt.ratings))
			for i, r := range tt.ratings {
				reviews[i] = models.Review{Rating: r}
			}
			if got := ComputeRating(reviews); got != tt.want {
				t.Errorf("ComputeRating = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestReviewInputValidate(t *testing.T) {
	tests := []struct {
		name   string
		input  reviewInput
		wantOK bool
	}{
		{"valid", reviewInput{Rating: 5, Comment: "great"}, true},
		{"rating too low", reviewInput{Rating: 0, Comment: "meh"}, false},
		{"rating too high", reviewInput{Rating: 6, Comment: "wow"}, false},
		{"missing comment", reviewInput{Rating: 3}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.input.validate()
			if ok := msg == ""; ok != tt.wantOK {
				t.Errorf("validate() = %q, want ok=%v", msg, tt.wantOK)
			}
		})
	}
}
