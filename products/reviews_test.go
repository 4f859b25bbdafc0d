package products

import (
	"testing"

	"digishop/models"
)

func TestRecomputeRatingEmpty(t *testing.T) {
	rating, count := RecomputeRating(nil)
	if rating != 0 || count != 0 {
		t.Fatalf("expected zeroes for empty list, got %v, %v", rating, count)
	}
}

func TestRecomputeRatingMean(t *testing.T) {
	reviews := []models.Review{
		{UserID: "u1", Rating: 5},
		{UserID: "u2", Rating: 3},
		{UserID: "u3", Rating: 4},
	}

	rating, count := RecomputeRating(reviews)

	if count != 3 {
		t.Fatalf("expected count 3, got %d", count)
	}
	if rating != 4 {
		t.Fatalf("expected mean 4, got %v", rating)
	}
}

func TestHasReviewed(t *testing.T) {
	reviews := []models.Review{
		{UserID: "u1", Rating: 5},
		{UserID: "u2", Rating: 2},
	}

	if !HasReviewed(reviews, "u2") {
		t.Fatal("expected u2 to be detected as existing reviewer")
	}
	if HasReviewed(reviews, "u3") {
		t.Fatal("u3 has not reviewed; duplicate check must not fire")
	}
}
