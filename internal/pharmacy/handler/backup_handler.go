package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/zenhealth/pharmacy/internal/pharmacy/repository"
	"github.com/zenhealth/pharmacy/internal/pharmacy/service"
)

// BackupHandler serves backup runs.
type BackupHandler struct {
	svc *service.BackupService
}

func NewBackupHandler(svc *service.BackupService) *BackupHandler {
	return &BackupHandler{svc: svc}
}

// Start POST /backups
func (h *BackupHandler) Start(c *gin.Context) {
	run, err := h.svc.Start(c.Request.Context(), GetUserID(c))
	if err != nil {
		if errors.Is(err, service.ErrBackupUnavailable) {
			Error(c, 50300, "Backup storage is not configured")
			return
		}
		InternalError(c, err.Error())
		return
	}

	Created(c, run)
}

// List GET /backups
func (h *BackupHandler) List(c *gin.Context) {
	page, pageSize := GetPagination(c)

	items, total, err := h.svc.List(c.Request.Context(), page, pageSize)
	if err != nil {
		InternalError(c, err.Error())
		return
	}

	Success(c, NewListResponse(items, page, pageSize, total))
}

// Get GET /backups/:id
func (h *BackupHandler) Get(c *gin.Context) {
	run, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "Backup run not found")
			return
		}
		InternalError(c, err.Error())
		return
	}

	Success(c, run)
}
