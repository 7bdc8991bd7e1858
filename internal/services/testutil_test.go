package services_test

import (
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/placement-nexus/placement-backend/internal/dtos"
	"github.com/placement-nexus/placement-backend/internal/lifecycle"
	"github.com/placement-nexus/placement-backend/internal/models"
	"github.com/placement-nexus/placement-backend/internal/services"
)

const testMasterEmail = "dean@campus.test"

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Job{}, &models.Application{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

var userSeq int

func newUser(t *testing.T, db *gorm.DB, role string) *models.User {
	t.Helper()
	userSeq++
	u := &models.User{
		Name:         fmt.Sprintf("%s %d", role, userSeq),
		Email:        fmt.Sprintf("%s%d@campus.test", role, userSeq),
		PasswordHash: "x",
		Role:         role,
		IsApproved:   true,
	}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("create %s: %v", role, err)
	}
	return u
}

func newJob(t *testing.T, db *gorm.DB, recruiter *models.User, status, policy string) *models.Job {
	t.Helper()
	j := &models.Job{
		Title:       "Backend Engineer",
		Company:     "Acme",
		Location:    "Remote",
		Salary:      "12 LPA",
		Description: "Go services",
		Policy:      policy,
		Status:      status,
		RecruiterID: recruiter.ID,
	}
	if err := db.Create(j).Error; err != nil {
		t.Fatalf("create job: %v", err)
	}
	return j
}

func appStatus(t *testing.T, db *gorm.DB, jobID, studentID uint) lifecycle.Status {
	t.Helper()
	var app models.Application
	if err := db.Where("job_id = ? AND student_id = ?", jobID, studentID).First(&app).Error; err != nil {
		t.Fatalf("load application (job=%d student=%d): %v", jobID, studentID, err)
	}
	return app.Status
}

func setAppStatus(t *testing.T, db *gorm.DB, jobID, studentID uint, status lifecycle.Status) {
	t.Helper()
	err := db.Model(&models.Application{}).
		Where("job_id = ? AND student_id = ?", jobID, studentID).
		Update("status", status).Error
	if err != nil {
		t.Fatalf("set status: %v", err)
	}
}

func mustApply(t *testing.T, apps *services.ApplicationService, jobID uint, student *models.User) {
	t.Helper()
	if _, err := apps.Apply(jobID, student, "uploads/cv.pdf"); err != nil {
		t.Fatalf("apply(job=%d): %v", jobID, err)
	}
}

func jobRequest() *dtos.JobCreationRequest {
	return &dtos.JobCreationRequest{
		Title:       "Backend Engineer",
		Company:     "Acme",
		Location:    "Remote",
		Salary:      "12 LPA",
		Description: "Go services",
	}
}
