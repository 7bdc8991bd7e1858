package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/placement-nexus/placement-backend/internal/lifecycle"
)

// Account roles
const (
	RoleStudent   = "student"
	RoleRecruiter = "recruiter"
	RoleFaculty   = "faculty"
)

// Job moderation statuses
const (
	JobStatusPending  = "pending"
	JobStatusApproved = "approved"
)

// Job offer policies. Accepting an Exclusive offer forfeits the student's
// other live applications; whether an Open offer does too is configurable.
const (
	PolicyExclusive = "Exclusive"
	PolicyOpen      = "Open"
)

type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Name         string `gorm:"not null" json:"name"`
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`
	Role         string `gorm:"not null" json:"role"`
	IsApproved   bool   `json:"is_approved"`

	// Profile-level resume. Score/note is the cached oracle verdict; the apply
	// flow copies it onto new applications as a baseline so faculty see
	// something without re-scoring.
	ResumeRef   string `json:"resume,omitempty"`
	ResumeScore *int   `json:"resume_score,omitempty"`
	ResumeNote  string `json:"resume_feedback,omitempty"`
}

type Job struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"posted_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Title          string `gorm:"not null" json:"title"`
	Company        string `gorm:"not null" json:"company"`
	Location       string `json:"location"`
	Salary         string `json:"salary"`
	Description    string `gorm:"type:text" json:"description"`
	EmploymentType string `gorm:"default:'Full-time'" json:"type"`
	Policy         string `gorm:"default:'Exclusive'" json:"job_policy"`
	Status         string `gorm:"default:'pending'" json:"status"`

	RecruiterID uint `gorm:"index;not null" json:"recruiter_id"`
	Recruiter   User `json:"recruiter,omitempty"`

	// Insertion order = arrival order.
	Applications []Application `json:"applicants,omitempty"`
}

// Application links a student to a job. At most one per (job, student) pair,
// enforced by the composite unique index.
type Application struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"applied_at"`
	UpdatedAt time.Time `json:"updated_at"`

	JobID     uint `gorm:"uniqueIndex:idx_job_student;not null" json:"job_id"`
	StudentID uint `gorm:"uniqueIndex:idx_job_student;index;not null" json:"student_id"`

	// Denormalized at apply time so recruiter listings don't join users.
	Name  string `json:"name"`
	Email string `json:"email"`

	ResumeRef string           `json:"resume,omitempty"`
	Status    lifecycle.Status `gorm:"default:'Pending'" json:"status"`

	Feedback      string     `json:"feedback,omitempty"`
	InterviewAt   *time.Time `json:"interview_date,omitempty"`
	InterviewLink string     `json:"interview_link,omitempty"`

	Score     *int   `json:"resume_score,omitempty"`
	ScoreNote string `json:"resume_feedback,omitempty"`
}
