package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/placement-nexus/placement-backend/internal/middleware"
	"github.com/placement-nexus/placement-backend/internal/services"
)

// AdminHandler exposes faculty moderation and analytics.
type AdminHandler struct {
	AuthService *services.AuthService
	Analytics   *services.AnalyticsService
}

func NewAdminHandler(auth *services.AuthService, analytics *services.AnalyticsService) *AdminHandler {
	return &AdminHandler{AuthService: auth, Analytics: analytics}
}

func accountID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid account id"})
		return 0, false
	}
	return uint(id), true
}

// PendingAccounts is the GET /accounts/pending endpoint (faculty).
func (h *AdminHandler) PendingAccounts(c *gin.Context) {
	users, err := h.AuthService.ListPending(middleware.CurrentUser(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// ApproveAccount is the PUT /accounts/:id/approve endpoint (faculty).
func (h *AdminHandler) ApproveAccount(c *gin.Context) {
	id, ok := accountID(c)
	if !ok {
		return
	}
	if err := h.AuthService.Approve(id, middleware.CurrentUser(c)); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "Account Approved Successfully"})
}

// RejectAccount is the DELETE /accounts/:id endpoint (faculty). Pending
// accounts only.
func (h *AdminHandler) RejectAccount(c *gin.Context) {
	id, ok := accountID(c)
	if !ok {
		return
	}
	if err := h.AuthService.RejectPending(id, middleware.CurrentUser(c)); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "Account removed"})
}

// Overview is the GET /analytics/overview endpoint (faculty).
func (h *AdminHandler) Overview(c *gin.Context) {
	stats, err := h.Analytics.Overview(middleware.CurrentUser(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
