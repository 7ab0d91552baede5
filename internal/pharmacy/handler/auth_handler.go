package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/zenhealth/pharmacy/internal/pharmacy/repository"
	"github.com/zenhealth/pharmacy/internal/pharmacy/service"
)

// AuthHandler serves login, logout and the current profile.
type AuthHandler struct {
	svc *service.AuthService
}

func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// Login POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req service.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	user, tokenPair, err := h.svc.Login(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) || errors.Is(err, service.ErrUserInactive) {
			Error(c, 40100, "Invalid email or password")
			return
		}
		InternalError(c, err.Error())
		return
	}

	Success(c, gin.H{
		"user":  user,
		"token": tokenPair,
	})
}

// Logout POST /auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	tokenID := c.GetString("token_id")

	expiresAt, _ := c.Get("token_expires_at")
	numericDate, ok := expiresAt.(*jwt.NumericDate)
	if !ok || numericDate == nil {
		Success(c, nil)
		return
	}

	if err := h.svc.Logout(c.Request.Context(), tokenID, numericDate.Time); err != nil {
		InternalError(c, err.Error())
		return
	}

	Success(c, nil)
}

// Me GET /auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.svc.Me(c.Request.Context(), GetUserID(c))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "User not found")
			return
		}
		InternalError(c, err.Error())
		return
	}

	Success(c, user)
}
