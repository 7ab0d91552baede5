package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/zenhealth/pharmacy/internal/pharmacy/repository"
	"github.com/zenhealth/pharmacy/internal/pharmacy/service"
)

// WardHandler serves hospital wards.
type WardHandler struct {
	svc *service.WardService
}

func NewWardHandler(svc *service.WardService) *WardHandler {
	return &WardHandler{svc: svc}
}

// List GET /wards
func (h *WardHandler) List(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := map[string]string{
		"search": c.Query("search"),
		"status": c.Query("status"),
	}

	items, total, err := h.svc.List(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		InternalError(c, err.Error())
		return
	}

	Success(c, NewListResponse(items, page, pageSize, total))
}

// Get GET /wards/:id
func (h *WardHandler) Get(c *gin.Context) {
	ward, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "Ward not found")
			return
		}
		InternalError(c, err.Error())
		return
	}

	Success(c, ward)
}

// Create POST /wards
func (h *WardHandler) Create(c *gin.Context) {
	var req service.CreateWardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	ward, err := h.svc.Create(c.Request.Context(), &req)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}

	Created(c, ward)
}

// Update PUT /wards/:id
func (h *WardHandler) Update(c *gin.Context) {
	var req service.UpdateWardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	ward, err := h.svc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "Ward not found")
			return
		}
		BadRequest(c, err.Error())
		return
	}

	Success(c, ward)
}

// Delete DELETE /wards/:id
func (h *WardHandler) Delete(c *gin.Context) {
	err := h.svc.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "Ward not found")
			return
		}
		if errors.Is(err, service.ErrWardReferenced) {
			Conflict(c, "Ward is still referenced and cannot be deleted")
			return
		}
		InternalError(c, err.Error())
		return
	}

	Success(c, nil)
}
