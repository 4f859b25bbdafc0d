package users

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"digishop/db"
	"digishop/models"
	"digishop/mq"
	"digishop/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// isAdmin re-reads the user document so a demoted admin loses access
// immediately, whatever their token still claims.
func isAdmin(ctx context.Context, userID string) bool {
	var user models.User
	if err := db.UserCollection.FindOne(ctx, bson.M{"userid": userID}).Decode(&user); err != nil {
		return false
	}
	return user.IsAdmin()
}

// GET /api/users/profile
func GetProfile(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var user models.User
	err := db.UserCollection.FindOne(r.Context(), bson.M{"userid": userID}).Decode(&user)
	if err != nil {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, user.Sanitize())
}

// GET /api/users (admin)
func GetUsers(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if !isAdmin(ctx, utils.GetUserIDFromRequest(r)) {
		http.Error(w, "Not authorized as an admin", http.StatusForbidden)
		return
	}

	cursor, err := db.UserCollection.Find(ctx, bson.M{})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch users")
		return
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error reading users")
		return
	}

	responses := make([]models.UserResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, u.Sanitize())
	}

	utils.RespondWithJSON(w, http.StatusOK, responses)
}

// GET /api/users/:id (admin)
// The :id slot also carries the reserved word "profile" (httprouter
// keeps one wildcard per segment).
func GetUserByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if ps.ByName("id") == "profile" {
		GetProfile(w, r, ps)
		return
	}

	ctx := r.Context()
	if !isAdmin(ctx, utils.GetUserIDFromRequest(r)) {
		http.Error(w, "Not authorized as an admin", http.StatusForbidden)
		return
	}

	var user models.User
	err := db.UserCollection.FindOne(ctx, bson.M{"userid": ps.ByName("id")}).Decode(&user)
	if err != nil {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, user.Sanitize())
}

// PUT /api/users/:id (admin)
func UpdateUser(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx := r.Context()
	if !isAdmin(ctx, utils.GetUserIDFromRequest(r)) {
		http.Error(w, "Not authorized as an admin", http.StatusForbidden)
		return
	}

	var input struct {
		Name    string `json:"name"`
		Email   string `json:"email"`
		IsAdmin *bool  `json:"isAdmin"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}

	userID := ps.ByName("id")

	var user models.User
	err := db.UserCollection.FindOne(ctx, bson.M{"userid": userID}).Decode(&user)
	if err != nil {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	// Absent fields retain stored values
	set := bson.M{"updated_at": time.Now()}
	if input.Name != "" {
		set["name"] = input.Name
		user.Name = input.Name
	}
	if input.Email != "" {
		set["email"] = input.Email
		user.Email = input.Email
	}
	if input.IsAdmin != nil {
		role := []string{"user"}
		if *input.IsAdmin {
			role = append(role, "admin")
		}
		set["role"] = role
		user.Role = role
	}

	_, err = db.UserCollection.UpdateOne(ctx, bson.M{"userid": userID}, bson.M{"$set": set})
	if err != nil {
		http.Error(w, "Failed to update user", http.StatusInternalServerError)
		return
	}

	m := models.Index{EntityType: "user", EntityId: userID, Method: "PUT"}
	go mq.Emit(ctx, "user-updated", m)

	utils.RespondWithJSON(w, http.StatusOK, user.Sanitize())
}

// DELETE /api/users/:id (admin)
func DeleteUser(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx := r.Context()
	if !isAdmin(ctx, utils.GetUserIDFromRequest(r)) {
		http.Error(w, "Not authorized as an admin", http.StatusForbidden)
		return
	}

	userID := ps.ByName("id")

	res, err := db.UserCollection.DeleteOne(ctx, bson.M{"userid": userID})
	if err != nil && err != mongo.ErrNoDocuments {
		log.Printf("Failed to delete user %s: %v", userID, err)
		http.Error(w, "Failed to delete user", http.StatusInternalServerError)
		return
	}
	if res.DeletedCount == 0 {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	m := models.Index{EntityType: "user", EntityId: userID, Method: "DELETE"}
	go mq.Emit(ctx, "user-deleted", m)

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "User removed"})
}
