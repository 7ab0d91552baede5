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

func setupMedicineTest(t *testing.T) *testutil.TestEnv {
	t.Helper()
	db := testutil.SetupTestDB(t)

	medicineRepo := repository.NewMedicineRepository(db)
	movementRepo := repository.NewMovementRepository(db)

	svc := service.NewMedicineService(medicineRepo)
	stockSvc := service.NewStockService(db, medicineRepo, movementRepo)
	handler := NewMedicineHandler(svc, stockSvc)

	router := testutil.SetupRouter()
	api := testutil.AuthGroup(router, "/api/v1")
	api.GET("/medicines", handler.List)
	api.GET("/medicines/:id", handler.Get)
	api.POST("/medicines", handler.Create)
	api.PUT("/medicines/:id", handler.Update)
	api.DELETE("/medicines/:id", handler.Delete)
	api.POST("/medicines/:id/movements", handler.RecordMovement)
	api.GET("/medicines/:id/movements", handler.ListMovements)

	return &testutil.TestEnv{DB: db, Router: router, T: t}
}

func getMedicine(t *testing.T, env *testutil.TestEnv, id string) *entity.Medicine {
	t.Helper()
	var medicine entity.Medicine
	if err := env.DB.Where("id = ?", id).First(&medicine).Error; err != nil {
		t.Fatalf("Failed to load medicine %s: %v", id, err)
	}
	return &medicine
}

// TestMedicineCRUD tests the medicine catalog lifecycle
func TestMedicineCRUD(t *testing.T) {
	env := setupMedicineTest(t)
	token := testutil.DefaultTestToken()

	// Create
	body := map[string]interface{}{
		"name":     "Amoxicillin 500mg",
		"category": "antibiotic",
		"route":    "oral",
		"batch_no": "AMX-2025-001",
	}
	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/medicines", body, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	resp := testutil.ParseResponse(w)
	data := resp["data"].(map[string]interface{})
	medicineID := data["id"].(string)
	if data["on_hand_qty"].(float64) != 0 {
		t.Fatalf("expected new medicine to start with zero on-hand, got %v", data["on_hand_qty"])
	}
	if data["total_received_qty"].(float64) != 0 {
		t.Fatalf("expected new medicine to start with zero total received, got %v", data["total_received_qty"])
	}

	// Get
	w = testutil.DoRequest(env.Router, http.MethodGet, "/api/v1/medicines/"+medicineID, nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	// Update descriptive fields only
	newName := "Amoxicillin 500mg Capsule"
	w = testutil.DoRequest(env.Router, http.MethodPut, "/api/v1/medicines/"+medicineID,
		map[string]interface{}{"name": newName}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if m := getMedicine(t, env, medicineID); m.Name != newName {
		t.Fatalf("expected updated name %q, got %q", newName, m.Name)
	}

	// List
	w = testutil.DoRequest(env.Router, http.MethodGet, "/api/v1/medicines?search=Amoxicillin", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	resp = testutil.ParseResponse(w)
	items := resp["data"].(map[string]interface{})["items"].([]interface{})
	if len(items) != 1 {
		t.Fatalf("expected 1 medicine in list, got %d", len(items))
	}

	// Delete an unreferenced medicine
	w = testutil.DoRequest(env.Router, http.MethodDelete, "/api/v1/medicines/"+medicineID, nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	w = testutil.DoRequest(env.Router, http.MethodGet, "/api/v1/medicines/"+medicineID, nil, token)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", w.Code)
	}
}

// TestMedicineDeleteGuard tests that a medicine referenced by expense
// records cannot be deleted
func TestMedicineDeleteGuard(t *testing.T) {
	env := setupMedicineTest(t)
	token := testutil.DefaultTestToken()

	medicine := testutil.SeedTestMedicine(t, env.DB, "med-guard-001", "Paracetamol 500mg")
	ward := testutil.SeedTestWard(t, env.DB, "ward-guard-001", "ICU")

	expense := &entity.Expense{
		ID:          "exp-guard-001",
		ExpenseDate: time.Now(),
		WardID:      ward.ID,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	if err := env.DB.Create(expense).Error; err != nil {
		t.Fatalf("Failed to seed expense: %v", err)
	}
	record := &entity.ExpenseRecord{
		ID:         "rec-guard-001",
		ExpenseID:  expense.ID,
		MedicineID: medicine.ID,
		Quantity:   5,
		CreatedAt:  time.Now(),
	}
	if err := env.DB.Create(record).Error; err != nil {
		t.Fatalf("Failed to seed expense record: %v", err)
	}

	w := testutil.DoRequest(env.Router, http.MethodDelete, "/api/v1/medicines/"+medicine.ID, nil, token)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 for referenced medicine, got %d: %s", w.Code, w.Body.String())
	}

	// The medicine must still exist
	if m := getMedicine(t, env, medicine.ID); m.ID != medicine.ID {
		t.Fatalf("medicine disappeared after rejected delete")
	}
}

// TestStockMovementApprove tests that an approve movement adds to both counters
func TestStockMovementApprove(t *testing.T) {
	env := setupMedicineTest(t)
	token := testutil.DefaultTestToken()

	medicine := testutil.SeedTestMedicine(t, env.DB, "med-appr-001", "Ceftriaxone 1g")

	body := map[string]interface{}{
		"movement_type":    entity.MovementTypeApprove,
		"quantity":         50,
		"transaction_date": "2025-06-01",
		"new_expiry_date":  "2026-12-31",
	}
	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/medicines/"+medicine.ID+"/movements", body, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	m := getMedicine(t, env, medicine.ID)
	if m.OnHandQty != 50 {
		t.Fatalf("expected on-hand 50, got %d", m.OnHandQty)
	}
	if m.TotalReceivedQty != 50 {
		t.Fatalf("expected total received 50, got %d", m.TotalReceivedQty)
	}
	if m.ExpiryDate == nil || m.ExpiryDate.Format("2006-01-02") != "2026-12-31" {
		t.Fatalf("expected expiry date 2026-12-31, got %v", m.ExpiryDate)
	}
}

// TestStockMovementReturn tests that a return subtracts from on-hand stock
func TestStockMovementReturn(t *testing.T) {
	env := setupMedicineTest(t)
	token := testutil.DefaultTestToken()

	medicine := testutil.SeedTestMedicine(t, env.DB, "med-ret-001", "Metformin 850mg")

	approve := map[string]interface{}{
		"movement_type":    entity.MovementTypeApprove,
		"quantity":         50,
		"transaction_date": "2025-06-01",
	}
	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/medicines/"+medicine.ID+"/movements", approve, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	ret := map[string]interface{}{
		"movement_type":    entity.MovementTypeReturn,
		"quantity":         20,
		"transaction_date": "2025-06-02",
	}
	w = testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/medicines/"+medicine.ID+"/movements", ret, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	m := getMedicine(t, env, medicine.ID)
	if m.OnHandQty != 30 {
		t.Fatalf("expected on-hand 30 after return, got %d", m.OnHandQty)
	}
	if m.TotalReceivedQty != 30 {
		t.Fatalf("expected total received 30 after return, got %d", m.TotalReceivedQty)
	}
}

// TestStockMovementReturnExceedsOnHand tests that a return larger than
// the on-hand quantity is rejected and leaves the counters untouched
func TestStockMovementReturnExceedsOnHand(t *testing.T) {
	env := setupMedicineTest(t)
	token := testutil.DefaultTestToken()

	medicine := testutil.SeedTestMedicine(t, env.DB, "med-over-001", "Insulin Glargine")

	approve := map[string]interface{}{
		"movement_type":    entity.MovementTypeApprove,
		"quantity":         30,
		"transaction_date": "2025-06-01",
	}
	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/medicines/"+medicine.ID+"/movements", approve, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	ret := map[string]interface{}{
		"movement_type":    entity.MovementTypeReturn,
		"quantity":         50,
		"transaction_date": "2025-06-02",
	}
	w = testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/medicines/"+medicine.ID+"/movements", ret, token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for oversized return, got %d: %s", w.Code, w.Body.String())
	}

	m := getMedicine(t, env, medicine.ID)
	if m.OnHandQty != 30 || m.TotalReceivedQty != 30 {
		t.Fatalf("expected counters unchanged (30/30), got %d/%d", m.OnHandQty, m.TotalReceivedQty)
	}

	// The failed movement must not have been logged
	var count int64
	env.DB.Model(&entity.StockMovement{}).
		Where("medicine_id = ? AND movement_type = ?", medicine.ID, entity.MovementTypeReturn).
		Count(&count)
	if count != 0 {
		t.Fatalf("expected no return ledger entry, got %d", count)
	}
}

// TestStockMovementLogOnly tests that pending and reject movements are
// recorded in the ledger without touching the counters
func TestStockMovementLogOnly(t *testing.T) {
	env := setupMedicineTest(t)
	token := testutil.DefaultTestToken()

	medicine := testutil.SeedTestMedicine(t, env.DB, "med-log-001", "Omeprazole 20mg")

	for _, movementType := range []string{entity.MovementTypePending, entity.MovementTypeReject} {
		body := map[string]interface{}{
			"movement_type":    movementType,
			"quantity":         10,
			"transaction_date": "2025-06-01",
		}
		w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/medicines/"+medicine.ID+"/movements", body, token)
		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201 for %s, got %d: %s", movementType, w.Code, w.Body.String())
		}
	}

	m := getMedicine(t, env, medicine.ID)
	if m.OnHandQty != 0 || m.TotalReceivedQty != 0 {
		t.Fatalf("expected counters untouched (0/0), got %d/%d", m.OnHandQty, m.TotalReceivedQty)
	}

	var count int64
	env.DB.Model(&entity.StockMovement{}).Where("medicine_id = ?", medicine.ID).Count(&count)
	if count != 2 {
		t.Fatalf("expected 2 ledger entries, got %d", count)
	}
}

// TestStockMovementInvalidType tests that an unknown movement type is rejected
func TestStockMovementInvalidType(t *testing.T) {
	env := setupMedicineTest(t)
	token := testutil.DefaultTestToken()

	medicine := testutil.SeedTestMedicine(t, env.DB, "med-bad-001", "Aspirin 100mg")

	body := map[string]interface{}{
		"movement_type":    "dispose",
		"quantity":         5,
		"transaction_date": "2025-06-01",
	}
	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/medicines/"+medicine.ID+"/movements", body, token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid movement type, got %d: %s", w.Code, w.Body.String())
	}
}

// TestStockMovementLedgerImmutable tests that earlier ledger entries are
// untouched by later movements
func TestStockMovementLedgerImmutable(t *testing.T) {
	env := setupMedicineTest(t)
	token := testutil.DefaultTestToken()

	medicine := testutil.SeedTestMedicine(t, env.DB, "med-ledger-001", "Heparin 5000IU")

	approve := map[string]interface{}{
		"movement_type":    entity.MovementTypeApprove,
		"quantity":         40,
		"transaction_date": "2025-06-01",
		"note":             "initial delivery",
	}
	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/medicines/"+medicine.ID+"/movements", approve, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(w)
	firstID := resp["data"].(map[string]interface{})["id"].(string)

	ret := map[string]interface{}{
		"movement_type":    entity.MovementTypeReturn,
		"quantity":         15,
		"transaction_date": "2025-06-03",
	}
	w = testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/medicines/"+medicine.ID+"/movements", ret, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var first entity.StockMovement
	if err := env.DB.Where("id = ?", firstID).First(&first).Error; err != nil {
		t.Fatalf("Failed to reload first ledger entry: %v", err)
	}
	if first.MovementType != entity.MovementTypeApprove || first.Quantity != 40 || first.Note != "initial delivery" {
		t.Fatalf("first ledger entry changed: %+v", first)
	}

	w = testutil.DoRequest(env.Router, http.MethodGet, "/api/v1/medicines/"+medicine.ID+"/movements", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	resp = testutil.ParseResponse(w)
	items := resp["data"].(map[string]interface{})["items"].([]interface{})
	if len(items) != 2 {
		t.Fatalf("expected 2 ledger entries, got %d", len(items))
	}
}

// TestMedicineMovementNotFound tests recording a movement against an
// unknown medicine
func TestMedicineMovementNotFound(t *testing.T) {
	env := setupMedicineTest(t)
	token := testutil.DefaultTestToken()

	body := map[string]interface{}{
		"movement_type":    entity.MovementTypeApprove,
		"quantity":         10,
		"transaction_date": "2025-06-01",
	}
	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/medicines/no-such-med/movements", body, token)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", w.Code, w.Body.String())
	}
}
