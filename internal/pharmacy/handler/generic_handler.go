package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/zenhealth/pharmacy/internal/pharmacy/repository"
	"github.com/zenhealth/pharmacy/internal/pharmacy/service"
)

// GenericHandler serves generic drug names.
type GenericHandler struct {
	svc *service.GenericService
}

func NewGenericHandler(svc *service.GenericService) *GenericHandler {
	return &GenericHandler{svc: svc}
}

// List GET /generics
func (h *GenericHandler) List(c *gin.Context) {
	page, pageSize := GetPagination(c)

	items, total, err := h.svc.List(c.Request.Context(), page, pageSize, c.Query("search"))
	if err != nil {
		InternalError(c, err.Error())
		return
	}

	Success(c, NewListResponse(items, page, pageSize, total))
}

// Get GET /generics/:id
func (h *GenericHandler) Get(c *gin.Context) {
	generic, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "Generic not found")
			return
		}
		InternalError(c, err.Error())
		return
	}

	Success(c, generic)
}

// Create POST /generics
func (h *GenericHandler) Create(c *gin.Context) {
	var req service.CreateGenericRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	generic, err := h.svc.Create(c.Request.Context(), &req)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}

	Created(c, generic)
}

// Update PUT /generics/:id
func (h *GenericHandler) Update(c *gin.Context) {
	var req service.UpdateGenericRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	generic, err := h.svc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "Generic not found")
			return
		}
		BadRequest(c, err.Error())
		return
	}

	Success(c, generic)
}

// Delete DELETE /generics/:id
func (h *GenericHandler) Delete(c *gin.Context) {
	err := h.svc.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "Generic not found")
			return
		}
		if errors.Is(err, service.ErrGenericReferenced) {
			Conflict(c, "Generic is still referenced and cannot be deleted")
			return
		}
		InternalError(c, err.Error())
		return
	}

	Success(c, nil)
}
