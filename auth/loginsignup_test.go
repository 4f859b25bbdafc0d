package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"digishop/models"

	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	orig := findUserByEmail
	defer func() { findUserByEmail = orig }()

	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	findUserByEmail = func(_ context.Context, email string) (models.User, error) {
		if email == "ada@example.com" {
			return models.User{
				UserID:       "u1",
				Name:         "Ada",
				Email:        email,
				PasswordHash: string(hash),
				Role:         []string{"user"},
			}, nil
		}
		return models.User{}, mongo.ErrNoDocuments
	}

	do := func(body string) *httptest.ResponseRecorder {
		r := httptest.NewRequest(http.MethodPost, "/api/users/login", strings.NewReader(body))
		w := httptest.NewRecorder()
		loginHandler(w, r)
		return w
	}

	unknown := do(`{"email":"nobody@example.com","password":"whatever"}`)
	wrongPassword := do(`{"email":"ada@example.com","password":"incorrect"}`)

	if unknown.Code != http.StatusUnauthorized {
		t.Fatalf("unknown email: expected 401, got %d", unknown.Code)
	}
	if wrongPassword.Code != http.StatusUnauthorized {
		t.Fatalf("wrong password: expected 401, got %d", wrongPassword.Code)
	}

	// The two failures must not leak which field was wrong.
	if unknown.Body.String() != wrongPassword.Body.String() {
		t.Fatalf("failure responses differ: %q vs %q", unknown.Body.String(), wrongPassword.Body.String())
	}
	if got := strings.TrimSpace(unknown.Body.String()); got != "Invalid email or password" {
		t.Fatalf("unexpected failure message: %q", got)
	}
}
