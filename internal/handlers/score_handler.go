package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/placement-nexus/placement-backend/internal/dtos"
	"github.com/placement-nexus/placement-backend/internal/middleware"
	"github.com/placement-nexus/placement-backend/internal/models"
	"github.com/placement-nexus/placement-backend/internal/services"
)

type ScoreHandler struct {
	Scoring *services.ScoringService
}

func NewScoreHandler(scoring *services.ScoringService) *ScoreHandler {
	return &ScoreHandler{Scoring: scoring}
}

// GetOrCompute is the POST /scores endpoint. Students score their own
// resume; recruiters and faculty may name a student (and optionally a job to
// score the per-application copy against). Pass ?force=true to bypass the
// cache after uploading a new resume.
func (h *ScoreHandler) GetOrCompute(c *gin.Context) {
	var req dtos.ScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format: " + err.Error()})
		return
	}

	user := middleware.CurrentUser(c)
	studentID := req.StudentID
	if user.Role == models.RoleStudent {
		studentID = user.ID
	} else if studentID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "student_id is required"})
		return
	}

	force := c.Query("force") == "true"
	result, err := h.Scoring.GetOrCompute(c.Request.Context(), studentID, req.JobID, force)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
