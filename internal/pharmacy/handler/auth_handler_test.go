package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/zenhealth/pharmacy/internal/config"
	"github.com/zenhealth/pharmacy/internal/pharmacy/repository"
	"github.com/zenhealth/pharmacy/internal/pharmacy/service"
	"github.com/zenhealth/pharmacy/internal/pharmacy/testutil"
)

func setupAuthTest(t *testing.T) *testutil.TestEnv {
	t.Helper()
	db := testutil.SetupTestDB(t)

	cfg := &config.Config{
		JWT: config.JWTConfig{
			Secret:            testutil.JWTSecret,
			AccessTokenExpire: time.Hour,
			Issuer:            "pharmacy",
		},
	}

	userRepo := repository.NewUserRepository(db)
	svc := service.NewAuthService(userRepo, nil, cfg)
	handler := NewAuthHandler(svc)

	router := testutil.SetupRouter()
	router.POST("/api/v1/auth/login", handler.Login)
	api := testutil.AuthGroup(router, "/api/v1")
	api.GET("/auth/me", handler.Me)

	return &testutil.TestEnv{DB: db, Router: router, T: t}
}

// TestLoginSuccess tests logging in with valid credentials
func TestLoginSuccess(t *testing.T) {
	env := setupAuthTest(t)

	user := testutil.SeedTestUser(t, env.DB, "user-login-001", "Head Pharmacist", "pharmacist@hospital.test")

	body := map[string]interface{}{
		"email":    user.Email,
		"password": "password",
	}
	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/auth/login", body, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	resp := testutil.ParseResponse(w)
	data := resp["data"].(map[string]interface{})
	token := data["token"].(map[string]interface{})
	if token["access_token"].(string) == "" {
		t.Fatalf("expected a non-empty access token")
	}

	userData := data["user"].(map[string]interface{})
	if _, leaked := userData["password_hash"]; leaked {
		t.Fatalf("password hash leaked in login response")
	}
}

// TestLoginWrongPassword tests that a bad password is rejected without
// revealing which part of the credentials failed
func TestLoginWrongPassword(t *testing.T) {
	env := setupAuthTest(t)

	user := testutil.SeedTestUser(t, env.DB, "user-wrong-001", "Ward Clerk", "clerk@hospital.test")

	body := map[string]interface{}{
		"email":    user.Email,
		"password": "not-the-password",
	}
	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/auth/login", body, "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d: %s", w.Code, w.Body.String())
	}

	// Unknown email gets the same answer
	body["email"] = "nobody@hospital.test"
	body["password"] = "password"
	w = testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/auth/login", body, "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for unknown email, got %d: %s", w.Code, w.Body.String())
	}
}

// TestMeRequiresToken tests that the profile endpoint rejects anonymous
// and malformed requests
func TestMeRequiresToken(t *testing.T) {
	env := setupAuthTest(t)

	w := testutil.DoRequest(env.Router, http.MethodGet, "/api/v1/auth/me", nil, "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", w.Code)
	}

	w = testutil.DoRequest(env.Router, http.MethodGet, "/api/v1/auth/me", nil, "not-a-jwt")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 with malformed token, got %d", w.Code)
	}
}

// TestMeReturnsProfile tests fetching the authenticated user's profile
func TestMeReturnsProfile(t *testing.T) {
	env := setupAuthTest(t)

	user := testutil.SeedTestUser(t, env.DB, "user-me-001", "Store Keeper", "store@hospital.test")
	token := testutil.GenerateTestToken(user.ID, user.Name, user.Email, nil, nil)

	w := testutil.DoRequest(env.Router, http.MethodGet, "/api/v1/auth/me", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	resp := testutil.ParseResponse(w)
	data := resp["data"].(map[string]interface{})
	if data["email"].(string) != user.Email {
		t.Fatalf("expected email %s, got %v", user.Email, data["email"])
	}
}
