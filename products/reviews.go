package products

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"digishop/db"
	"digishop/models"
	"digishop/mq"
	"digishop/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

// RecomputeRating returns the arithmetic mean rating and the review
// count for a review list. Invariant: count == len(reviews), rating ==
// mean of the list.
func RecomputeRating(reviews []models.Review) (float64, int) {
	if len(reviews) == 0 {
		return 0, 0
	}
	var sum float64
	for _, rev := range reviews {
		sum += rev.Rating
	}
	return sum / float64(len(reviews)), len(reviews)
}

// HasReviewed reports whether the user already reviewed this product.
func HasReviewed(reviews []models.Review, userID string) bool {
	for _, rev := range reviews {
		if rev.UserID == userID {
			return true
		}
	}
	return false
}

// POST /api/products/:id/reviews
func AddProductReview(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var input struct {
		Rating  float64 `json:"rating"`
		Comment string  `json:"comment"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.Rating < 1 || input.Rating > 5 {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid review data")
		return
	}

	productID := ps.ByName("id")

	var product models.Product
	err := db.ProductCollection.FindOne(ctx, bson.M{"productid": productID}).Decode(&product)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Product not found")
		return
	}

	if HasReviewed(product.Reviews, userID) {
		utils.RespondWithError(w, http.StatusBadRequest, "Product already reviewed")
		return
	}

	reviewerName := "Anonymous"
	var reviewer models.User
	if err := db.UserCollection.FindOne(ctx, bson.M{"userid": userID}).Decode(&reviewer); err == nil {
		reviewerName = reviewer.Name
	}

	review := models.Review{
		ReviewID:  utils.GenerateRandomString(16),
		UserID:    userID,
		Name:      reviewerName,
		Rating:    input.Rating,
		Comment:   input.Comment,
		CreatedAt: time.Now(),
	}

	reviews := append(product.Reviews, review)
	rating, numReviews := RecomputeRating(reviews)

	// Append and recompute in one update so the aggregate never drifts
	// from the embedded list.
	_, err = db.ProductCollection.UpdateOne(ctx,
		bson.M{"productid": productID},
		bson.M{
			"$push": bson.M{"reviews": review},
			"$set": bson.M{
				"rating":      rating,
				"num_reviews": numReviews,
				"updated_at":  time.Now(),
			},
		},
	)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to add review")
		return
	}

	invalidateTopProducts()

	m := models.Index{EntityType: "review", EntityId: review.ReviewID, Method: "POST", ItemType: "product", ItemId: productID}
	go mq.Emit(ctx, "review-added", m)

	utils.RespondWithJSON(w, http.StatusCreated, map[string]string{"message": "Review added"})
}
