package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/placement-nexus/placement-backend/internal/dtos"
	"github.com/placement-nexus/placement-backend/internal/lifecycle"
	"github.com/placement-nexus/placement-backend/internal/middleware"
	"github.com/placement-nexus/placement-backend/internal/services"
)

type ApplicationHandler struct {
	Applications *services.ApplicationService
}

func NewApplicationHandler(apps *services.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{Applications: apps}
}

// Apply is the POST /jobs/:id/apply endpoint (student).
func (h *ApplicationHandler) Apply(c *gin.Context) {
	id, ok := jobID(c)
	if !ok {
		return
	}
	var req dtos.ApplyRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format: " + err.Error()})
		return
	}
	app, err := h.Applications.Apply(id, middleware.CurrentUser(c), req.Resume)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"msg": "Application successful", "application": app})
}

// Withdraw is the POST /jobs/:id/withdraw endpoint (student).
func (h *ApplicationHandler) Withdraw(c *gin.Context) {
	id, ok := jobID(c)
	if !ok {
		return
	}
	if err := h.Applications.Withdraw(id, middleware.CurrentUser(c).ID); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "Application withdrawn"})
}

// SetStatus is the PUT /jobs/:id/applications/:studentId endpoint
// (recruiter). Moves an application through the state machine and stores
// feedback or interview details when supplied.
func (h *ApplicationHandler) SetStatus(c *gin.Context) {
	id, ok := jobID(c)
	if !ok {
		return
	}
	studentID, err := strconv.ParseUint(c.Param("studentId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid student id"})
		return
	}

	var req dtos.StatusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format: " + err.Error()})
		return
	}
	target, err := lifecycle.Parse(req.Status)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var interviewAt *time.Time
	if req.InterviewDate != "" {
		t, err := time.Parse(time.RFC3339, req.InterviewDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "interview_date must be RFC 3339"})
			return
		}
		interviewAt = &t
	}

	app, err := h.Applications.SetStatus(id, uint(studentID), middleware.CurrentUser(c), target, req.Feedback, interviewAt, req.InterviewLink)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "Status updated to " + req.Status, "application": app})
}

// AcceptOffer is the POST /jobs/:id/accept-offer endpoint (student).
// Confirms the accepted offer and withdraws the student's other live
// applications per the job's policy.
func (h *ApplicationHandler) AcceptOffer(c *gin.Context) {
	id, ok := jobID(c)
	if !ok {
		return
	}
	if err := h.Applications.AcceptOffer(id, middleware.CurrentUser(c).ID); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "Offer Accepted! Other applications have been withdrawn."})
}

// MyApplications is the GET /applications endpoint (student).
func (h *ApplicationHandler) MyApplications(c *gin.Context) {
	apps, err := h.Applications.ListByStudent(middleware.CurrentUser(c).ID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, apps)
}
