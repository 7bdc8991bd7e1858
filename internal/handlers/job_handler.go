package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/placement-nexus/placement-backend/internal/dtos"
	"github.com/placement-nexus/placement-backend/internal/middleware"
	"github.com/placement-nexus/placement-backend/internal/services"
)

type JobHandler struct {
	JobService *services.JobService
}

func NewJobHandler(jobs *services.JobService) *JobHandler {
	return &JobHandler{JobService: jobs}
}

func jobID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid job id"})
		return 0, false
	}
	return uint(id), true
}

// CreateJob is the POST /jobs endpoint (recruiter). Initial status comes
// from the trust gate.
func (h *JobHandler) CreateJob(c *gin.Context) {
	var req dtos.JobCreationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format: " + err.Error()})
		return
	}
	job, err := h.JobService.Create(middleware.CurrentUser(c), &req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, job)
}

// ListJobs is the GET /jobs endpoint: approved postings only.
func (h *JobHandler) ListJobs(c *gin.Context) {
	jobs, err := h.JobService.ListApproved()
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, jobs)
}

// MyJobs is the GET /jobs/mine endpoint (recruiter).
func (h *JobHandler) MyJobs(c *gin.Context) {
	jobs, err := h.JobService.ListByRecruiter(middleware.CurrentUser(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, jobs)
}

// PendingJobs is the GET /jobs/pending moderation queue (master approver).
func (h *JobHandler) PendingJobs(c *gin.Context) {
	jobs, err := h.JobService.ListPending(middleware.CurrentUser(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, jobs)
}

// ApproveJob is the PUT /jobs/:id/approve endpoint (master approver).
func (h *JobHandler) ApproveJob(c *gin.Context) {
	id, ok := jobID(c)
	if !ok {
		return
	}
	job, err := h.JobService.Approve(id, middleware.CurrentUser(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "Job Approved Successfully", "job": job})
}

// RejectJob is the PUT /jobs/:id/reject endpoint (master approver). The
// posting is deleted outright, not flagged.
func (h *JobHandler) RejectJob(c *gin.Context) {
	id, ok := jobID(c)
	if !ok {
		return
	}
	if err := h.JobService.Reject(id, middleware.CurrentUser(c)); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "Job rejected and removed"})
}

// DeleteJob is the DELETE /jobs/:id endpoint. Owner or master approver.
func (h *JobHandler) DeleteJob(c *gin.Context) {
	id, ok := jobID(c)
	if !ok {
		return
	}
	if err := h.JobService.Delete(id, middleware.CurrentUser(c)); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "Job removed"})
}
