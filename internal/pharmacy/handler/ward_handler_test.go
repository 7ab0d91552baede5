package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/zenhealth/pharmacy/internal/pharmacy/entity"
	"github.com/zenhealth/pharmacy/internal/pharmacy/repository"
	"github.com/zenhealth/pharmacy/internal/pharmacy/service"
	"github.com/zenhealth/pharmacy/internal/pharmacy/testutil"
)

func setupWardTest(t *testing.T) *testutil.TestEnv {
	t.Helper()
	db := testutil.SetupTestDB(t)

	svc := service.NewWardService(repository.NewWardRepository(db))
	handler := NewWardHandler(svc)

	router := testutil.SetupRouter()
	api := testutil.AuthGroup(router, "/api/v1")
	api.GET("/wards", handler.List)
	api.GET("/wards/:id", handler.Get)
	api.POST("/wards", handler.Create)
	api.PUT("/wards/:id", handler.Update)
	api.DELETE("/wards/:id", handler.Delete)

	return &testutil.TestEnv{DB: db, Router: router, T: t}
}

// TestWardCRUD tests the ward lifecycle
func TestWardCRUD(t *testing.T) {
	env := setupWardTest(t)
	token := testutil.DefaultTestToken()

	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/wards",
		map[string]interface{}{"name": "Cardiology Ward"}, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	wardID := testutil.ParseResponse(w)["data"].(map[string]interface{})["id"].(string)

	newName := "Cardiology Ward B"
	w = testutil.DoRequest(env.Router, http.MethodPut, "/api/v1/wards/"+wardID,
		map[string]interface{}{"name": newName}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w = testutil.DoRequest(env.Router, http.MethodGet, "/api/v1/wards/"+wardID, nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	data := testutil.ParseResponse(w)["data"].(map[string]interface{})
	if data["name"].(string) != newName {
		t.Fatalf("expected name %q, got %v", newName, data["name"])
	}

	w = testutil.DoRequest(env.Router, http.MethodDelete, "/api/v1/wards/"+wardID, nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
}

// TestWardDeleteGuard tests that a ward with expense batches cannot be
// deleted
func TestWardDeleteGuard(t *testing.T) {
	env := setupWardTest(t)
	token := testutil.DefaultTestToken()

	ward := testutil.SeedTestWard(t, env.DB, "ward-ref-001", "Neurology Ward")

	expense := &entity.Expense{
		ID:          "exp-ref-001",
		ExpenseDate: time.Now(),
		WardID:      ward.ID,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	if err := env.DB.Create(expense).Error; err != nil {
		t.Fatalf("Failed to seed expense: %v", err)
	}

	w := testutil.DoRequest(env.Router, http.MethodDelete, "/api/v1/wards/"+ward.ID, nil, token)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 for referenced ward, got %d: %s", w.Code, w.Body.String())
	}
}
