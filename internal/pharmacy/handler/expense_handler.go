package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/zenhealth/pharmacy/internal/pharmacy/repository"
	"github.com/zenhealth/pharmacy/internal/pharmacy/service"
)

// ExpenseHandler serves ward consumption batches.
type ExpenseHandler struct {
	svc *service.ExpenseService
}

func NewExpenseHandler(svc *service.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{svc: svc}
}

// List GET /expenses
func (h *ExpenseHandler) List(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := map[string]string{
		"ward_id": c.Query("ward_id"),
		"from":    c.Query("from"),
		"to":      c.Query("to"),
	}

	items, total, err := h.svc.List(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		InternalError(c, err.Error())
		return
	}

	Success(c, NewListResponse(items, page, pageSize, total))
}

// Get GET /expenses/:id
func (h *ExpenseHandler) Get(c *gin.Context) {
	expense, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "Expense not found")
			return
		}
		InternalError(c, err.Error())
		return
	}

	Success(c, expense)
}

// Open POST /expenses
//
// Returns 201 when a new batch is created, 200 when the existing batch
// for the (date, ward) key is reused.
func (h *ExpenseHandler) Open(c *gin.Context) {
	var req service.OpenExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	expense, created, err := h.svc.Open(c.Request.Context(), GetUserID(c), &req)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "Ward not found")
			return
		}
		BadRequest(c, err.Error())
		return
	}

	if created {
		Created(c, expense)
		return
	}
	Success(c, expense)
}

// AppendRecords POST /expenses/:id/records
func (h *ExpenseHandler) AppendRecords(c *gin.Context) {
	var req service.AppendRecordsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	records, err := h.svc.AppendRecords(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, err.Error())
			return
		}
		BadRequest(c, err.Error())
		return
	}

	Created(c, records)
}

// Update PUT /expenses/:id
func (h *ExpenseHandler) Update(c *gin.Context) {
	var req service.UpdateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	expense, err := h.svc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "Expense not found")
			return
		}
		BadRequest(c, err.Error())
		return
	}

	Success(c, expense)
}

// Delete DELETE /expenses/:id
func (h *ExpenseHandler) Delete(c *gin.Context) {
	err := h.svc.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "Expense not found")
			return
		}
		InternalError(c, err.Error())
		return
	}

	Success(c, nil)
}
