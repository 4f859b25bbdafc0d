package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"digishop/globals"

	"github.com/golang-jwt/jwt/v5"
	"github.com/julienschmidt/httprouter"
)

func signTestToken(t *testing.T, claims *Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(globals.JwtSecret)
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return tokenString
}

func TestValidateJWTRoundtrip(t *testing.T) {
	claims := &Claims{
		Name:   "Ada",
		UserID: "u123",
		Role:   []string{"user", "admin"},
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}

	got, err := ValidateJWT("Bearer " + signTestToken(t, claims))
	if err != nil {
		t.Fatalf("expected valid token, got %v", err)
	}
	if got.UserID != "u123" || got.Name != "Ada" {
		t.Fatalf("claims do not roundtrip: %+v", got)
	}
	if len(got.Role) != 2 || got.Role[1] != "admin" {
		t.Fatalf("role claim lost: %+v", got.Role)
	}
}

func TestValidateJWTRejectsMalformed(t *testing.T) {
	if _, err := ValidateJWT(""); err == nil {
		t.Fatal("empty token must be rejected")
	}
	if _, err := ValidateJWT("Bearer not-a-token"); err == nil {
		t.Fatal("garbage token must be rejected")
	}
	if _, err := ValidateJWT("Basic abcdefgh"); err == nil {
		t.Fatal("non-bearer scheme must be rejected")
	}
}

func TestAuthenticateRequiresLiveSession(t *testing.T) {
	orig := sessionToken
	defer func() { sessionToken = orig }()

	tok := signTestToken(t, &Claims{
		UserID: "u123",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	handler := Authenticate(func(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
		w.WriteHeader(http.StatusOK)
	})

	do := func() int {
		r := httptest.NewRequest(http.MethodGet, "/api/orders/myorders", nil)
		r.Header.Set("Authorization", "Bearer "+tok)
		w := httptest.NewRecorder()
		handler(w, r, nil)
		return w.Code
	}

	// No stored session: a validly signed token must still be rejected,
	// otherwise logout would not invalidate bearer tokens.
	sessionToken = func(string) (string, error) { return "", errors.New("redis: nil") }
	if code := do(); code != http.StatusUnauthorized {
		t.Fatalf("token without a live session must get 401, got %d", code)
	}

	// Stored session holds a different token (re-login elsewhere).
	sessionToken = func(string) (string, error) { return "another-token", nil }
	if code := do(); code != http.StatusUnauthorized {
		t.Fatalf("token not matching the stored session must get 401, got %d", code)
	}

	// Matching live session passes through.
	sessionToken = func(string) (string, error) { return tok, nil }
	if code := do(); code != http.StatusOK {
		t.Fatalf("token matching the stored session must pass, got %d", code)
	}
}

func TestOptionalAuthAnonymousOnDeadSession(t *testing.T) {
	orig := sessionToken
	defer func() { sessionToken = orig }()
	sessionToken = func(string) (string, error) { return "", errors.New("redis: nil") }

	tok := signTestToken(t, &Claims{
		UserID: "u123",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	var gotUserID any
	handler := OptionalAuth(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		gotUserID = r.Context().Value(globals.UserIDKey)
		w.WriteHeader(http.StatusOK)
	})

	r := httptest.NewRequest(http.MethodPost, "/api/users/logout", nil)
	r.Header.Set("Authorization", "Bearer "+tok)
	w := httptest.NewRecorder()
	handler(w, r, nil)

	if w.Code != http.StatusOK {
		t.Fatalf("optional auth must not reject, got %d", w.Code)
	}
	if gotUserID != nil {
		t.Fatalf("dead session must not attach an identity, got %v", gotUserID)
	}
}

func TestValidateJWTRejectsExpired(t *testing.T) {
	claims := &Claims{
		UserID: "u123",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}

	if _, err := ValidateJWT("Bearer " + signTestToken(t, claims)); err == nil {
		t.Fatal("expired token must be rejected")
	}
}
