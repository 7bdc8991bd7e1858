package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/placement-nexus/placement-backend/internal/dtos"
	"github.com/placement-nexus/placement-backend/internal/middleware"
	"github.com/placement-nexus/placement-backend/internal/services"
)

type AuthHandler struct {
	AuthService *services.AuthService
}

func NewAuthHandler(auth *services.AuthService) *AuthHandler {
	return &AuthHandler{AuthService: auth}
}

// Register is the POST /auth/register endpoint.
func (h *AuthHandler) Register(c *gin.Context) {
	var req dtos.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format: " + err.Error()})
		return
	}
	user, token, err := h.AuthService.Register(req.Name, req.Email, req.Password, req.Role)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, dtos.AuthResponse{Token: token, User: user})
}

// Login is the POST /auth/login endpoint.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dtos.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format: " + err.Error()})
		return
	}
	user, token, err := h.AuthService.Login(req.Email, req.Password)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dtos.AuthResponse{Token: token, User: user})
}

// UpdateProfile is the PUT /auth/profile endpoint.
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var req dtos.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format: " + err.Error()})
		return
	}
	user := middleware.CurrentUser(c)
	if err := h.AuthService.UpdateProfile(user, req.Name, req.Password); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// SetResume is the PUT /auth/resume endpoint. Stores the uploaded file's
// reference on the student profile; scoring happens separately.
func (h *AuthHandler) SetResume(c *gin.Context) {
	var req struct {
		Resume string `json:"resume" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format: " + err.Error()})
		return
	}
	user := middleware.CurrentUser(c)
	if err := h.AuthService.SetResume(c.Request.Context(), user, req.Resume); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "Resume updated"})
}
