package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/zenhealth/pharmacy/internal/pharmacy/repository"
	"github.com/zenhealth/pharmacy/internal/pharmacy/service"
)

// MedicineHandler serves the medicine catalog and its stock ledger.
type MedicineHandler struct {
	svc      *service.MedicineService
	stockSvc *service.StockService
}

func NewMedicineHandler(svc *service.MedicineService, stockSvc *service.StockService) *MedicineHandler {
	return &MedicineHandler{svc: svc, stockSvc: stockSvc}
}

// List GET /medicines
func (h *MedicineHandler) List(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := map[string]string{
		"search":     c.Query("search"),
		"generic_id": c.Query("generic_id"),
		"category":   c.Query("category"),
		"status":     c.Query("status"),
	}

	items, total, err := h.svc.List(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		InternalError(c, err.Error())
		return
	}

	Success(c, NewListResponse(items, page, pageSize, total))
}

// Get GET /medicines/:id
func (h *MedicineHandler) Get(c *gin.Context) {
	medicine, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "Medicine not found")
			return
		}
		InternalError(c, err.Error())
		return
	}

	Success(c, medicine)
}

// Create POST /medicines
func (h *MedicineHandler) Create(c *gin.Context) {
	var req service.CreateMedicineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	medicine, err := h.svc.Create(c.Request.Context(), GetUserID(c), &req)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}

	Created(c, medicine)
}

// Update PUT /medicines/:id
func (h *MedicineHandler) Update(c *gin.Context) {
	var req service.UpdateMedicineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	medicine, err := h.svc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "Medicine not found")
			return
		}
		BadRequest(c, err.Error())
		return
	}

	Success(c, medicine)
}

// Delete DELETE /medicines/:id
func (h *MedicineHandler) Delete(c *gin.Context) {
	err := h.svc.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "Medicine not found")
			return
		}
		if errors.Is(err, service.ErrMedicineReferenced) {
			Conflict(c, "Medicine is still referenced and cannot be deleted")
			return
		}
		InternalError(c, err.Error())
		return
	}

	Success(c, nil)
}

// RecordMovement POST /medicines/:id/movements
func (h *MedicineHandler) RecordMovement(c *gin.Context) {
	var req service.RecordMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	movement, err := h.stockSvc.RecordMovement(c.Request.Context(), c.Param("id"), GetUserID(c), &req)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			NotFound(c, "Medicine not found")
		case errors.Is(err, service.ErrInsufficientStock):
			BadRequest(c, "Return quantity exceeds on-hand stock")
		case errors.Is(err, service.ErrInvalidMovementType):
			BadRequest(c, "Invalid movement type")
		default:
			InternalError(c, err.Error())
		}
		return
	}

	Created(c, movement)
}

// ListMovements GET /medicines/:id/movements
func (h *MedicineHandler) ListMovements(c *gin.Context) {
	page, pageSize := GetPagination(c)

	items, total, err := h.stockSvc.ListMovements(c.Request.Context(), c.Param("id"), page, pageSize, c.Query("movement_type"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "Medicine not found")
			return
		}
		InternalError(c, err.Error())
		return
	}

	Success(c, NewListResponse(items, page, pageSize, total))
}
