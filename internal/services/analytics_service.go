package services

import (
	"gorm.io/gorm"

	"github.com/placement-nexus/placement-backend/internal/lifecycle"
	"github.com/placement-nexus/placement-backend/internal/models"
)

// PlacementStats is the aggregate view backing the faculty dashboard.
type PlacementStats struct {
	JobsApproved    int64 `json:"jobs_approved"`
	JobsPending     int64 `json:"jobs_pending"`
	Students        int64 `json:"students"`
	StudentsPending int64 `json:"students_pending"`

	Applications map[lifecycle.Status]int64 `json:"applications_by_status"`
	Placed       int64                      `json:"placed"`
}

// AnalyticsService computes aggregate counts for faculty dashboards.
type AnalyticsService struct {
	DB *gorm.DB
}

func NewAnalyticsService(db *gorm.DB) *AnalyticsService {
	return &AnalyticsService{DB: db}
}

// Overview is faculty-only.
func (s *AnalyticsService) Overview(requester *models.User) (*PlacementStats, error) {
	if requester.Role != models.RoleFaculty {
		return nil, ErrUnauthorized
	}

	stats := &PlacementStats{Applications: make(map[lifecycle.Status]int64)}

	counts := []struct {
		dst   *int64
		query *gorm.DB
	}{
		{&stats.JobsApproved, s.DB.Model(&models.Job{}).Where("status = ?", models.JobStatusApproved)},
		{&stats.JobsPending, s.DB.Model(&models.Job{}).Where("status = ?", models.JobStatusPending)},
		{&stats.Students, s.DB.Model(&models.User{}).Where("role = ?", models.RoleStudent)},
		{&stats.StudentsPending, s.DB.Model(&models.User{}).Where("role = ? AND is_approved = ?", models.RoleStudent, false)},
	}
	for _, c := range counts {
		if err := c.query.Count(c.dst).Error; err != nil {
			return nil, err
		}
	}

	var rows []struct {
		Status lifecycle.Status
		N      int64
	}
	err := s.DB.Model(&models.Application{}).
		Select("status, COUNT(*) AS n").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		stats.Applications[r.Status] = r.N
	}
	stats.Placed = stats.Applications[lifecycle.StatusConfirmed]

	return stats, nil
}
