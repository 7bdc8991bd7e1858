package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/placement-nexus/placement-backend/internal/dtos"
	"github.com/placement-nexus/placement-backend/internal/models"
)

// JobService owns job postings and the trust/moderation gate.
type JobService struct {
	DB          *gorm.DB
	MasterEmail string
}

func NewJobService(db *gorm.DB, masterEmail string) *JobService {
	return &JobService{DB: db, MasterEmail: masterEmail}
}

// IsMaster reports whether the account is the designated master approver.
func (s *JobService) IsMaster(u *models.User) bool {
	return u != nil && u.Email == s.MasterEmail
}

// Create posts a new job. Trust gate: a recruiter with at least one
// previously approved job is trusted and the posting goes live immediately;
// a first-time recruiter's posting is queued for manual approval.
func (s *JobService) Create(recruiter *models.User, req *dtos.JobCreationRequest) (*models.Job, error) {
	if recruiter.Role != models.RoleRecruiter {
		return nil, ErrUnauthorized
	}

	var trusted int64
	err := s.DB.Model(&models.Job{}).
		Where("recruiter_id = ? AND status = ?", recruiter.ID, models.JobStatusApproved).
		Count(&trusted).Error
	if err != nil {
		return nil, err
	}

	status := models.JobStatusPending
	if trusted > 0 {
		status = models.JobStatusApproved
	}

	job := &models.Job{
		Title:          req.Title,
		Company:        req.Company,
		Location:       req.Location,
		Salary:         req.Salary,
		Description:    req.Description,
		EmploymentType: orDefault(req.EmploymentType, "Full-time"),
		Policy:         orDefault(req.Policy, models.PolicyExclusive),
		Status:         status,
		RecruiterID:    recruiter.ID,
	}
	if err := s.DB.Create(job).Error; err != nil {
		return nil, err
	}
	return job, nil
}

// ListApproved returns live postings, newest first. Pending jobs are never
// visible here.
func (s *JobService) ListApproved() ([]models.Job, error) {
	var jobs []models.Job
	err := s.DB.Where("status = ?", models.JobStatusApproved).
		Preload("Applications").
		Order("created_at DESC").
		Find(&jobs).Error
	return jobs, err
}

// ListPending is the moderation queue. Master approver only.
func (s *JobService) ListPending(requester *models.User) ([]models.Job, error) {
	if !s.IsMaster(requester) {
		return nil, ErrUnauthorized
	}
	var jobs []models.Job
	err := s.DB.Where("status = ?", models.JobStatusPending).
		Order("created_at DESC").
		Find(&jobs).Error
	return jobs, err
}

// ListByRecruiter returns the recruiter's own postings, any status.
func (s *JobService) ListByRecruiter(recruiter *models.User) ([]models.Job, error) {
	var jobs []models.Job
	err := s.DB.Where("recruiter_id = ?", recruiter.ID).
		Preload("Applications").
		Order("created_at DESC").
		Find(&jobs).Error
	return jobs, err
}

// Get fetches one job with its applications.
func (s *JobService) Get(jobID uint) (*models.Job, error) {
	var job models.Job
	err := s.DB.Preload("Applications").First(&job, jobID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &job, nil
}

// Approve flips a pending job to approved. Master approver only; idempotent.
func (s *JobService) Approve(jobID uint, requester *models.User) (*models.Job, error) {
	if !s.IsMaster(requester) {
		return nil, ErrUnauthorized
	}
	var job models.Job
	if err := s.DB.First(&job, jobID).Error; err != nil {
		return nil, ErrNotFound
	}
	if job.Status == models.JobStatusApproved {
		return &job, nil
	}
	job.Status = models.JobStatusApproved
	if err := s.DB.Save(&job).Error; err != nil {
		return nil, err
	}
	return &job, nil
}

// Reject removes a pending posting entirely. Destructive and irreversible;
// master approver only.
func (s *JobService) Reject(jobID uint, requester *models.User) error {
	if !s.IsMaster(requester) {
		return ErrUnauthorized
	}
	return s.delete(jobID)
}

// Delete removes a job. Allowed for the owning recruiter or the master
// approver.
func (s *JobService) Delete(jobID uint, requester *models.User) error {
	var job models.Job
	if err := s.DB.First(&job, jobID).Error; err != nil {
		return ErrNotFound
	}
	if job.RecruiterID != requester.ID && !s.IsMaster(requester) {
		return ErrUnauthorized
	}
	return s.delete(jobID)
}

func (s *JobService) delete(jobID uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.Job{}, jobID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		// Applications go with the job.
		return tx.Where("job_id = ?", jobID).Delete(&models.Application{}).Error
	})
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
