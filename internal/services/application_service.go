package services

import (
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/placement-nexus/placement-backend/internal/lifecycle"
	"github.com/placement-nexus/placement-backend/internal/models"
)

// ApplicationService owns the application lifecycle: apply, withdraw, status
// transitions, and cross-job offer resolution.
type ApplicationService struct {
	DB *gorm.DB

	// OpenConfirmCascade: when true, confirming an offer on an Open-policy
	// job withdraws the student's other live applications exactly like an
	// Exclusive one. Default false: an Open confirmation leaves them alone.
	OpenConfirmCascade bool
}

func NewApplicationService(db *gorm.DB, openConfirmCascade bool) *ApplicationService {
	return &ApplicationService{DB: db, OpenConfirmCascade: openConfirmCascade}
}

// Apply files a new application in Pending status.
//
// Gate: the student must not already hold an application to this job, and
// must not be Confirmed on any other Exclusive-policy job. The student's
// profile-level resume score is copied onto the application as a baseline.
func (s *ApplicationService) Apply(jobID uint, student *models.User, resumeRef string) (*models.Application, error) {
	var created *models.Application
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var job models.Job
		if err := tx.First(&job, jobID).Error; err != nil {
			return ErrNotFound
		}
		// Pending postings are invisible outside the moderation queue.
		if job.Status != models.JobStatusApproved {
			return ErrNotFound
		}

		var dup int64
		if err := tx.Model(&models.Application{}).
			Where("job_id = ? AND student_id = ?", jobID, student.ID).
			Count(&dup).Error; err != nil {
			return err
		}
		if dup > 0 {
			return ErrAlreadyExists
		}

		var confirmed int64
		err := tx.Model(&models.Application{}).
			Joins("JOIN jobs ON jobs.id = applications.job_id").
			Where("applications.student_id = ? AND applications.status = ? AND jobs.policy = ? AND jobs.id <> ?",
				student.ID, lifecycle.StatusConfirmed, models.PolicyExclusive, jobID).
			Count(&confirmed).Error
		if err != nil {
			return err
		}
		if confirmed > 0 {
			return ErrExclusivity
		}

		if resumeRef == "" {
			resumeRef = student.ResumeRef
		}
		app := &models.Application{
			JobID:     jobID,
			StudentID: student.ID,
			Name:      student.Name,
			Email:     student.Email,
			ResumeRef: resumeRef,
			Status:    lifecycle.StatusPending,
			Score:     student.ResumeScore,
			ScoreNote: student.ResumeNote,
		}
		if err := tx.Create(app).Error; err != nil {
			// Composite unique index backstops a racing duplicate apply.
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyExists
			}
			return err
		}
		created = app
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Withdraw removes the student's application record entirely. A later
// re-apply to the same job starts fresh.
func (s *ApplicationService) Withdraw(jobID uint, studentID uint) error {
	res := s.DB.Where("job_id = ? AND student_id = ?", jobID, studentID).
		Delete(&models.Application{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SetStatus is the recruiter-side transition: Accepted, Rejected, or
// Interview Scheduled, validated against the state machine. Feedback is
// stored when supplied; interview fields only when the target status is
// Interview Scheduled.
func (s *ApplicationService) SetStatus(jobID, studentID uint, requester *models.User, target lifecycle.Status, feedback string, interviewAt *time.Time, interviewLink string) (*models.Application, error) {
	if !lifecycle.RecruiterSettable(target) {
		return nil, ErrInvalidState
	}

	var updated *models.Application
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var job models.Job
		if err := tx.First(&job, jobID).Error; err != nil {
			return ErrNotFound
		}
		if job.RecruiterID != requester.ID {
			return ErrUnauthorized
		}

		var app models.Application
		if err := tx.Where("job_id = ? AND student_id = ?", jobID, studentID).First(&app).Error; err != nil {
			return ErrNotFound
		}
		if !lifecycle.CanTransition(app.Status, target) {
			return ErrInvalidState
		}

		app.Status = target
		if feedback != "" {
			app.Feedback = feedback
		}
		if target == lifecycle.StatusInterview {
			if interviewAt != nil {
				app.InterviewAt = interviewAt
			}
			if interviewLink != "" {
				app.InterviewLink = interviewLink
			}
		}
		if err := tx.Save(&app).Error; err != nil {
			return err
		}
		updated = &app
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// AcceptOffer finalizes an Accepted application as Confirmed and, unless the
// job's policy says otherwise, withdraws the student's other live
// applications so recruiters stop engaging a committed student. The whole
// scan-and-write runs in one transaction: a crash can't leave the student
// confirmed on one job while still live elsewhere.
func (s *ApplicationService) AcceptOffer(jobID uint, studentID uint) error {
	opID := uuid.NewString()
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var job models.Job
		if err := tx.First(&job, jobID).Error; err != nil {
			return ErrNotFound
		}

		var app models.Application
		if err := tx.Where("job_id = ? AND student_id = ?", jobID, studentID).First(&app).Error; err != nil {
			return ErrNotFound
		}
		if app.Status != lifecycle.StatusAccepted {
			return ErrInvalidState
		}

		app.Status = lifecycle.StatusConfirmed
		if err := tx.Save(&app).Error; err != nil {
			return err
		}

		if job.Policy == models.PolicyOpen && !s.OpenConfirmCascade {
			slog.Info("offer confirmed without cascade", "op", opID, "jobId", jobID, "studentId", studentID, "policy", job.Policy)
			return nil
		}

		res := tx.Model(&models.Application{}).
			Where("student_id = ? AND job_id <> ? AND status NOT IN ?",
				studentID, jobID,
				[]lifecycle.Status{lifecycle.StatusRejected, lifecycle.StatusConfirmed, lifecycle.StatusWithdrawnSystem}).
			Update("status", lifecycle.StatusWithdrawnSystem)
		if res.Error != nil {
			return res.Error
		}
		slog.Info("offer confirmed", "op", opID, "jobId", jobID, "studentId", studentID, "withdrawn", res.RowsAffected)
		return nil
	})
}

// ListByStudent returns all of a student's applications, newest first.
func (s *ApplicationService) ListByStudent(studentID uint) ([]models.Application, error) {
	var apps []models.Application
	err := s.DB.Where("student_id = ?", studentID).
		Order("created_at DESC").
		Find(&apps).Error
	return apps, err
}
