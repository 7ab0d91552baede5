package middleware_test

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/zenhealth/pharmacy/internal/middleware"
	"github.com/zenhealth/pharmacy/internal/pharmacy/testutil"
)

func setupGatedRouter() *gin.Engine {
	router := testutil.SetupRouter()
	api := router.Group("/api/v1", middleware.JWTAuth(testutil.JWTSecret))
	api.GET("/open", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"code": 0})
	})
	api.GET("/gated", middleware.RequirePermission("medicine.stock"), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"code": 0})
	})
	return router
}

// TestJWTAuthRejectsBadTokens tests the token gate
func TestJWTAuthRejectsBadTokens(t *testing.T) {
	router := setupGatedRouter()

	w := testutil.DoRequest(router, http.MethodGet, "/api/v1/open", nil, "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", w.Code)
	}

	w = testutil.DoRequest(router, http.MethodGet, "/api/v1/open", nil, "garbage.token.here")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 with garbage token, got %d", w.Code)
	}

	w = testutil.DoRequest(router, http.MethodGet, "/api/v1/open", nil, testutil.DefaultTestToken())
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 with valid token, got %d: %s", w.Code, w.Body.String())
	}
}

// TestRequirePermission tests the permission gate including the
// wildcard grant
func TestRequirePermission(t *testing.T) {
	router := setupGatedRouter()

	// Exact permission
	token := testutil.GenerateTestToken("u1", "Pharmacist", "p@test.com",
		[]string{"pharmacist"}, []string{"medicine.stock"})
	w := testutil.DoRequest(router, http.MethodGet, "/api/v1/gated", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 with exact permission, got %d: %s", w.Code, w.Body.String())
	}

	// Wildcard
	w = testutil.DoRequest(router, http.MethodGet, "/api/v1/gated", nil, testutil.DefaultTestToken())
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 with wildcard, got %d: %s", w.Code, w.Body.String())
	}

	// Missing permission
	token = testutil.GenerateTestToken("u2", "Clerk", "c@test.com",
		[]string{"ward_clerk"}, []string{"expense.create"})
	w = testutil.DoRequest(router, http.MethodGet, "/api/v1/gated", nil, token)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 without permission, got %d: %s", w.Code, w.Body.String())
	}
}
