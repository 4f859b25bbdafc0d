package auth

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"digishop/db"
	"digishop/globals"
	"digishop/middleware"
	"digishop/models"
	"digishop/mq"
	"digishop/rdx"
	"digishop/utils"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

const sessionTTL = 24 * time.Hour

// findUserByEmail is indirect so handler tests can stub the store.
var findUserByEmail = func(ctx context.Context, email string) (models.User, error) {
	var user models.User
	err := db.UserCollection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	return user, err
}

func loginHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}
	if input.Email == "" || input.Password == "" {
		http.Error(w, "Email and password are required", http.StatusBadRequest)
		return
	}

	// The same message for an unknown email and a wrong password, so the
	// response does not leak which field was incorrect.
	storedUser, err := findUserByEmail(context.TODO(), input.Email)
	if err != nil {
		http.Error(w, "Invalid email or password", http.StatusUnauthorized)
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(storedUser.PasswordHash), []byte(input.Password)); err != nil {
		http.Error(w, "Invalid email or password", http.StatusUnauthorized)
		return
	}

	tokenString, err := issueSession(w, storedUser)
	if err != nil {
		http.Error(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	_, err = db.UserCollection.UpdateOne(
		context.TODO(),
		bson.M{"userid": storedUser.UserID},
		bson.M{"$set": bson.M{"last_login": time.Now()}},
	)
	if err != nil {
		log.Printf("Failed to record last login for %s: %v", storedUser.UserID, err)
	}

	utils.SendResponse(w, http.StatusOK, map[string]any{
		"token": tokenString,
		"user":  storedUser.Sanitize(),
	}, "Login successful", nil)
}

func registerHandler(w http.ResponseWriter, r *http.Request) {
	var user models.User
	if err := json.NewDecoder(r.Body).Decode(&user); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}
	if user.Name == "" || user.Email == "" || user.Password == "" {
		http.Error(w, "Name, email and password are required", http.StatusBadRequest)
		return
	}

	// Reject duplicate email
	err := db.UserCollection.FindOne(context.TODO(), bson.M{"email": user.Email}).Err()
	if err == nil {
		http.Error(w, "User with this email already exists", http.StatusBadRequest)
		return
	} else if err != mongo.ErrNoDocuments {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("Failed to hash password for %s: %v", user.Email, err)
		http.Error(w, "Failed to hash password", http.StatusInternalServerError)
		return
	}
	user.Password = ""
	user.PasswordHash = string(hashedPassword)
	user.UserID = utils.GenerateID("u", 10)
	user.Role = []string{"user"}
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()

	if _, err = db.UserCollection.InsertOne(context.TODO(), user); err != nil {
		http.Error(w, "Failed to register user", http.StatusInternalServerError)
		return
	}

	tokenString, err := issueSession(w, user)
	if err != nil {
		http.Error(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	m := models.Index{EntityType: "user", EntityId: user.UserID, Method: "POST"}
	go mq.Emit(r.Context(), "user-registered", m)

	utils.SendResponse(w, http.StatusCreated, map[string]any{
		"token": tokenString,
		"user":  user.Sanitize(),
	}, "Registration successful", nil)
}

// logoutUserHandler is idempotent: with no live session it still
// expires the cookie and reports success.
func logoutUserHandler(w http.ResponseWriter, r *http.Request) {
	userID := utils.GetUserIDFromRequest(r)
	if userID != "" {
		if _, err := rdx.RdxHdel("sessions", userID); err != nil {
			log.Printf("Error removing session from Redis: %v", err)
			http.Error(w, "Failed to log out", http.StatusInternalServerError)
			return
		}

		m := models.Index{EntityType: "user", EntityId: userID, Method: "LOGOUT"}
		go mq.Emit(r.Context(), "user-loggedout", m)
	}

	// Expire the session cookie
	http.SetCookie(w, &http.Cookie{
		Name:     "session",
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})

	utils.SendResponse(w, http.StatusOK, nil, "Logged out successfully", nil)
}

// issueSession signs a JWT, stores it in the Redis session hash, and
// sets it as an HTTP-only cookie.
func issueSession(w http.ResponseWriter, user models.User) (string, error) {
	claims := &middleware.Claims{
		Name:   user.Name,
		UserID: user.UserID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(sessionTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(globals.JwtSecret)
	if err != nil {
		return "", err
	}

	if err := rdx.RdxHset("sessions", user.UserID, tokenString); err != nil {
		log.Printf("Redis session storage failed: %v", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "session",
		Value:    tokenString,
		Path:     "/",
		HttpOnly: true,
		MaxAge:   int(sessionTTL.Seconds()),
	})

	return tokenString, nil
}
