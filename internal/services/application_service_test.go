package services_test

import (
	"errors"
	"testing"
	"time"

	"github.com/placement-nexus/placement-backend/internal/lifecycle"
	"github.com/placement-nexus/placement-backend/internal/models"
	"github.com/placement-nexus/placement-backend/internal/services"
)

// ── Apply gate ─────────────────────────────────────────────────────────────

func TestApply_CreatesPendingWithBaseline(t *testing.T) {
	db := newTestDB(t)
	apps := services.NewApplicationService(db, false)
	recruiter := newUser(t, db, models.RoleRecruiter)
	job := newJob(t, db, recruiter, models.JobStatusApproved, models.PolicyExclusive)

	student := newUser(t, db, models.RoleStudent)
	score := 82
	student.ResumeScore = &score
	student.ResumeNote = "Strong fundamentals."
	db.Save(student)

	app, err := apps.Apply(job.ID, student, "uploads/cv.pdf")
	if err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}
	if app.Status != lifecycle.StatusPending {
		t.Errorf("new application status = %s, want Pending", app.Status)
	}
	if app.Name != student.Name || app.Email != student.Email {
		t.Errorf("applicant fields not denormalized: got (%q, %q)", app.Name, app.Email)
	}
	if app.Score == nil || *app.Score != 82 || app.ScoreNote != "Strong fundamentals." {
		t.Errorf("profile score not copied onto application: %+v", app)
	}
}

func TestApply_DuplicateRejected(t *testing.T) {
	db := newTestDB(t)
	apps := services.NewApplicationService(db, false)
	recruiter := newUser(t, db, models.RoleRecruiter)
	job := newJob(t, db, recruiter, models.JobStatusApproved, models.PolicyExclusive)
	student := newUser(t, db, models.RoleStudent)

	mustApply(t, apps, job.ID, student)
	if _, err := apps.Apply(job.ID, student, ""); !errors.Is(err, services.ErrAlreadyExists) {
		t.Errorf("second apply error = %v, want ErrAlreadyExists", err)
	}

	var n int64
	db.Model(&models.Application{}).Where("job_id = ? AND student_id = ?", job.ID, student.ID).Count(&n)
	if n != 1 {
		t.Errorf("application count = %d, want 1", n)
	}
}

func TestApply_PendingJobNotVisible(t *testing.T) {
	db := newTestDB(t)
	apps := services.NewApplicationService(db, false)
	recruiter := newUser(t, db, models.RoleRecruiter)
	job := newJob(t, db, recruiter, models.JobStatusPending, models.PolicyExclusive)
	student := newUser(t, db, models.RoleStudent)

	if _, err := apps.Apply(job.ID, student, ""); !errors.Is(err, services.ErrNotFound) {
		t.Errorf("apply to pending job error = %v, want ErrNotFound", err)
	}
}

func TestApply_ExclusivityViolation(t *testing.T) {
	db := newTestDB(t)
	apps := services.NewApplicationService(db, false)
	recruiter := newUser(t, db, models.RoleRecruiter)
	jobA := newJob(t, db, recruiter, models.JobStatusApproved, models.PolicyExclusive)
	jobB := newJob(t, db, recruiter, models.JobStatusApproved, models.PolicyExclusive)
	student := newUser(t, db, models.RoleStudent)

	mustApply(t, apps, jobA.ID, student)
	setAppStatus(t, db, jobA.ID, student.ID, lifecycle.StatusConfirmed)

	if _, err := apps.Apply(jobB.ID, student, ""); !errors.Is(err, services.ErrExclusivity) {
		t.Errorf("apply while confirmed elsewhere error = %v, want ErrExclusivity", err)
	}
}

func TestApply_OpenConfirmationDoesNotBlock(t *testing.T) {
	db := newTestDB(t)
	apps := services.NewApplicationService(db, false)
	recruiter := newUser(t, db, models.RoleRecruiter)
	openJob := newJob(t, db, recruiter, models.JobStatusApproved, models.PolicyOpen)
	nextJob := newJob(t, db, recruiter, models.JobStatusApproved, models.PolicyExclusive)
	student := newUser(t, db, models.RoleStudent)

	mustApply(t, apps, openJob.ID, student)
	setAppStatus(t, db, openJob.ID, student.ID, lifecycle.StatusConfirmed)

	if _, err := apps.Apply(nextJob.ID, student, ""); err != nil {
		t.Errorf("apply after Open-policy confirmation returned %v, want nil", err)
	}
}

// ── Withdraw ───────────────────────────────────────────────────────────────

func TestWithdraw_RemovesRecordAndAllowsReapply(t *testing.T) {
	db := newTestDB(t)
	apps := services.NewApplicationService(db, false)
	recruiter := newUser(t, db, models.RoleRecruiter)
	job := newJob(t, db, recruiter, models.JobStatusApproved, models.PolicyExclusive)
	student := newUser(t, db, models.RoleStudent)

	mustApply(t, apps, job.ID, student)
	if err := apps.Withdraw(job.ID, student.ID); err != nil {
		t.Fatalf("Withdraw returned error: %v", err)
	}

	var n int64
	db.Model(&models.Application{}).Where("job_id = ? AND student_id = ?", job.ID, student.ID).Count(&n)
	if n != 0 {
		t.Fatalf("application count after withdraw = %d, want 0", n)
	}

	if _, err := apps.Apply(job.ID, student, ""); err != nil {
		t.Errorf("re-apply after withdraw returned %v, want nil", err)
	}
}

func TestWithdraw_NotFound(t *testing.T) {
	db := newTestDB(t)
	apps := services.NewApplicationService(db, false)
	student := newUser(t, db, models.RoleStudent)

	if err := apps.Withdraw(999, student.ID); !errors.Is(err, services.ErrNotFound) {
		t.Errorf("withdraw without application error = %v, want ErrNotFound", err)
	}
}

// ── Recruiter status transitions ───────────────────────────────────────────

func TestSetStatus_AcceptWithFeedback(t *testing.T) {
	db := newTestDB(t)
	apps := services.NewApplicationService(db, false)
	recruiter := newUser(t, db, models.RoleRecruiter)
	job := newJob(t, db, recruiter, models.JobStatusApproved, models.PolicyExclusive)
	student := newUser(t, db, models.RoleStudent)
	mustApply(t, apps, job.ID, student)

	app, err := apps.SetStatus(job.ID, student.ID, recruiter, lifecycle.StatusAccepted, "Great interview.", nil, "")
	if err != nil {
		t.Fatalf("SetStatus returned error: %v", err)
	}
	if app.Status != lifecycle.StatusAccepted || app.Feedback != "Great interview." {
		t.Errorf("got status=%s feedback=%q", app.Status, app.Feedback)
	}
}

func TestSetStatus_InterviewStoresSchedule(t *testing.T) {
	db := newTestDB(t)
	apps := services.NewApplicationService(db, false)
	recruiter := newUser(t, db, models.RoleRecruiter)
	job := newJob(t, db, recruiter, models.JobStatusApproved, models.PolicyExclusive)
	student := newUser(t, db, models.RoleStudent)
	mustApply(t, apps, job.ID, student)

	when := time.Now().Add(48 * time.Hour).UTC().Truncate(time.Second)
	app, err := apps.SetStatus(job.ID, student.ID, recruiter, lifecycle.StatusInterview, "", &when, "https://meet.example/abc")
	if err != nil {
		t.Fatalf("SetStatus returned error: %v", err)
	}
	if app.InterviewAt == nil || !app.InterviewAt.Equal(when) || app.InterviewLink != "https://meet.example/abc" {
		t.Errorf("interview details not stored: %+v", app)
	}
}

func TestSetStatus_IllegalTransitions(t *testing.T) {
	db := newTestDB(t)
	apps := services.NewApplicationService(db, false)
	recruiter := newUser(t, db, models.RoleRecruiter)
	job := newJob(t, db, recruiter, models.JobStatusApproved, models.PolicyExclusive)
	student := newUser(t, db, models.RoleStudent)
	mustApply(t, apps, job.ID, student)

	cases := []struct {
		name   string
		from   lifecycle.Status
		target lifecycle.Status
	}{
		{"rejected is terminal", lifecycle.StatusRejected, lifecycle.StatusAccepted},
		{"confirmed is terminal", lifecycle.StatusConfirmed, lifecycle.StatusRejected},
		{"cannot reject an extended offer", lifecycle.StatusAccepted, lifecycle.StatusRejected},
		{"recruiter cannot set confirmed", lifecycle.StatusAccepted, lifecycle.StatusConfirmed},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			setAppStatus(t, db, job.ID, student.ID, c.from)
			_, err := apps.SetStatus(job.ID, student.ID, recruiter, c.target, "", nil, "")
			if !errors.Is(err, services.ErrInvalidState) {
				t.Errorf("SetStatus(%s → %s) error = %v, want ErrInvalidState", c.from, c.target, err)
			}
		})
	}
}

func TestSetStatus_WrongRecruiter(t *testing.T) {
	db := newTestDB(t)
	apps := services.NewApplicationService(db, false)
	owner := newUser(t, db, models.RoleRecruiter)
	other := newUser(t, db, models.RoleRecruiter)
	job := newJob(t, db, owner, models.JobStatusApproved, models.PolicyExclusive)
	student := newUser(t, db, models.RoleStudent)
	mustApply(t, apps, job.ID, student)

	_, err := apps.SetStatus(job.ID, student.ID, other, lifecycle.StatusAccepted, "", nil, "")
	if !errors.Is(err, services.ErrUnauthorized) {
		t.Errorf("SetStatus by non-owner error = %v, want ErrUnauthorized", err)
	}
}

func TestSetStatus_MissingApplicant(t *testing.T) {
	db := newTestDB(t)
	apps := services.NewApplicationService(db, false)
	recruiter := newUser(t, db, models.RoleRecruiter)
	job := newJob(t, db, recruiter, models.JobStatusApproved, models.PolicyExclusive)

	_, err := apps.SetStatus(job.ID, 12345, recruiter, lifecycle.StatusAccepted, "", nil, "")
	if !errors.Is(err, services.ErrNotFound) {
		t.Errorf("SetStatus without application error = %v, want ErrNotFound", err)
	}
}

// ── Accept-offer / cross-job resolution ────────────────────────────────────

func TestAcceptOffer_CascadesAcrossJobs(t *testing.T) {
	db := newTestDB(t)
	apps := services.NewApplicationService(db, false)
	recruiter := newUser(t, db, models.RoleRecruiter)
	jobA := newJob(t, db, recruiter, models.JobStatusApproved, models.PolicyExclusive)
	jobB := newJob(t, db, recruiter, models.JobStatusApproved, models.PolicyExclusive)
	jobC := newJob(t, db, recruiter, models.JobStatusApproved, models.PolicyExclusive)
	jobD := newJob(t, db, recruiter, models.JobStatusApproved, models.PolicyOpen)
	student := newUser(t, db, models.RoleStudent)
	bystander := newUser(t, db, models.RoleStudent)

	for _, j := range []*models.Job{jobA, jobB, jobC, jobD} {
		mustApply(t, apps, j.ID, student)
	}
	mustApply(t, apps, jobB.ID, bystander)

	setAppStatus(t, db, jobA.ID, student.ID, lifecycle.StatusAccepted)
	setAppStatus(t, db, jobB.ID, student.ID, lifecycle.StatusInterview)
	setAppStatus(t, db, jobC.ID, student.ID, lifecycle.StatusRejected)

	if err := apps.AcceptOffer(jobA.ID, student.ID); err != nil {
		t.Fatalf("AcceptOffer returned error: %v", err)
	}

	checks := []struct {
		jobID     uint
		studentID uint
		want      lifecycle.Status
	}{
		{jobA.ID, student.ID, lifecycle.StatusConfirmed},
		{jobB.ID, student.ID, lifecycle.StatusWithdrawnSystem}, // live → forfeited
		{jobC.ID, student.ID, lifecycle.StatusRejected},        // terminal, untouched
		{jobD.ID, student.ID, lifecycle.StatusWithdrawnSystem}, // pending elsewhere → forfeited
		{jobB.ID, bystander.ID, lifecycle.StatusPending},       // other students unaffected
	}
	for _, c := range checks {
		if got := appStatus(t, db, c.jobID, c.studentID); got != c.want {
			t.Errorf("application(job=%d, student=%d) = %s, want %s", c.jobID, c.studentID, got, c.want)
		}
	}
}

func TestAcceptOffer_RequiresAcceptedStatus(t *testing.T) {
	db := newTestDB(t)
	apps := services.NewApplicationService(db, false)
	recruiter := newUser(t, db, models.RoleRecruiter)
	job := newJob(t, db, recruiter, models.JobStatusApproved, models.PolicyExclusive)
	student := newUser(t, db, models.RoleStudent)
	mustApply(t, apps, job.ID, student)

	for _, from := range []lifecycle.Status{
		lifecycle.StatusPending,
		lifecycle.StatusInterview,
		lifecycle.StatusRejected,
		lifecycle.StatusWithdrawnSystem,
	} {
		setAppStatus(t, db, job.ID, student.ID, from)
		if err := apps.AcceptOffer(job.ID, student.ID); !errors.Is(err, services.ErrInvalidState) {
			t.Errorf("AcceptOffer from %s error = %v, want ErrInvalidState", from, err)
		}
	}
}

func TestAcceptOffer_SecondCallFails(t *testing.T) {
	db := newTestDB(t)
	apps := services.NewApplicationService(db, false)
	recruiter := newUser(t, db, models.RoleRecruiter)
	job := newJob(t, db, recruiter, models.JobStatusApproved, models.PolicyExclusive)
	student := newUser(t, db, models.RoleStudent)
	mustApply(t, apps, job.ID, student)
	setAppStatus(t, db, job.ID, student.ID, lifecycle.StatusAccepted)

	if err := apps.AcceptOffer(job.ID, student.ID); err != nil {
		t.Fatalf("first AcceptOffer returned error: %v", err)
	}
	if err := apps.AcceptOffer(job.ID, student.ID); !errors.Is(err, services.ErrInvalidState) {
		t.Errorf("second AcceptOffer error = %v, want ErrInvalidState", err)
	}
}

func TestAcceptOffer_NotFound(t *testing.T) {
	db := newTestDB(t)
	apps := services.NewApplicationService(db, false)
	student := newUser(t, db, models.RoleStudent)

	if err := apps.AcceptOffer(42, student.ID); !errors.Is(err, services.ErrNotFound) {
		t.Errorf("AcceptOffer on missing job error = %v, want ErrNotFound", err)
	}
}

// Open-policy confirmation: both documented behaviors, selected by config.

func TestAcceptOffer_OpenPolicyNoCascade(t *testing.T) {
	db := newTestDB(t)
	apps := services.NewApplicationService(db, false) // cascade disabled
	recruiter := newUser(t, db, models.RoleRecruiter)
	openJob := newJob(t, db, recruiter, models.JobStatusApproved, models.PolicyOpen)
	otherJob := newJob(t, db, recruiter, models.JobStatusApproved, models.PolicyExclusive)
	student := newUser(t, db, models.RoleStudent)

	mustApply(t, apps, openJob.ID, student)
	mustApply(t, apps, otherJob.ID, student)
	setAppStatus(t, db, openJob.ID, student.ID, lifecycle.StatusAccepted)
	setAppStatus(t, db, otherJob.ID, student.ID, lifecycle.StatusAccepted)

	if err := apps.AcceptOffer(openJob.ID, student.ID); err != nil {
		t.Fatalf("AcceptOffer returned error: %v", err)
	}
	if got := appStatus(t, db, openJob.ID, student.ID); got != lifecycle.StatusConfirmed {
		t.Errorf("open job application = %s, want Confirmed", got)
	}
	if got := appStatus(t, db, otherJob.ID, student.ID); got != lifecycle.StatusAccepted {
		t.Errorf("other application = %s, want Accepted (no cascade for Open policy)", got)
	}
}

func TestAcceptOffer_OpenPolicyCascadeEnabled(t *testing.T) {
	db := newTestDB(t)
	apps := services.NewApplicationService(db, true) // cascade enabled
	recruiter := newUser(t, db, models.RoleRecruiter)
	openJob := newJob(t, db, recruiter, models.JobStatusApproved, models.PolicyOpen)
	otherJob := newJob(t, db, recruiter, models.JobStatusApproved, models.PolicyExclusive)
	student := newUser(t, db, models.RoleStudent)

	mustApply(t, apps, openJob.ID, student)
	mustApply(t, apps, otherJob.ID, student)
	setAppStatus(t, db, openJob.ID, student.ID, lifecycle.StatusAccepted)

	if err := apps.AcceptOffer(openJob.ID, student.ID); err != nil {
		t.Fatalf("AcceptOffer returned error: %v", err)
	}
	if got := appStatus(t, db, otherJob.ID, student.ID); got != lifecycle.StatusWithdrawnSystem {
		t.Errorf("other application = %s, want Withdrawn (System) when cascade is on", got)
	}
}
