package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/zenhealth/pharmacy/internal/pharmacy/service"
)

// SettingHandler serves site settings.
type SettingHandler struct {
	svc *service.SettingService
}

func NewSettingHandler(svc *service.SettingService) *SettingHandler {
	return &SettingHandler{svc: svc}
}

// List GET /settings
func (h *SettingHandler) List(c *gin.Context) {
	settings, err := h.svc.GetAll(c.Request.Context())
	if err != nil {
		InternalError(c, err.Error())
		return
	}

	Success(c, settings)
}

// Update PUT /settings
func (h *SettingHandler) Update(c *gin.Context) {
	var req service.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	settings, err := h.svc.Update(c.Request.Context(), GetUserID(c), &req)
	if err != nil {
		InternalError(c, err.Error())
		return
	}

	Success(c, settings)
}
