package handler

import (
	"net/http"
	"testing"

	"github.com/zenhealth/pharmacy/internal/pharmacy/repository"
	"github.com/zenhealth/pharmacy/internal/pharmacy/service"
	"github.com/zenhealth/pharmacy/internal/pharmacy/testutil"
)

func setupSettingTest(t *testing.T) *testutil.TestEnv {
	t.Helper()
	db := testutil.SetupTestDB(t)

	svc := service.NewSettingService(repository.NewSettingRepository(db))
	handler := NewSettingHandler(svc)

	router := testutil.SetupRouter()
	api := testutil.AuthGroup(router, "/api/v1")
	api.GET("/settings", handler.List)
	api.PUT("/settings", handler.Update)

	return &testutil.TestEnv{DB: db, Router: router, T: t}
}

// TestSettingsUpsert tests writing and re-reading settings, including
// overwriting an existing key
func TestSettingsUpsert(t *testing.T) {
	env := setupSettingTest(t)
	token := testutil.DefaultTestToken()

	body := map[string]interface{}{
		"settings": map[string]string{
			"site_name":      "Central Hospital Pharmacy",
			"items_per_page": "25",
		},
	}
	w := testutil.DoRequest(env.Router, http.MethodPut, "/api/v1/settings", body, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	// Overwrite one key, leave the other untouched
	body = map[string]interface{}{
		"settings": map[string]string{
			"items_per_page": "50",
		},
	}
	w = testutil.DoRequest(env.Router, http.MethodPut, "/api/v1/settings", body, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w = testutil.DoRequest(env.Router, http.MethodGet, "/api/v1/settings", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	data := testutil.ParseResponse(w)["data"].(map[string]interface{})
	if data["site_name"].(string) != "Central Hospital Pharmacy" {
		t.Fatalf("expected site_name preserved, got %v", data["site_name"])
	}
	if data["items_per_page"].(string) != "50" {
		t.Fatalf("expected items_per_page overwritten to 50, got %v", data["items_per_page"])
	}
}
