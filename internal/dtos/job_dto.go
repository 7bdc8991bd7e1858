package dtos

type JobCreationRequest struct {
	Title       string `json:"title" binding:"required"`
	Company     string `json:"company" binding:"required"`
	Location    string `json:"location" binding:"required"`
	Salary      string `json:"salary" binding:"required"`
	Description string `json:"description" binding:"required"`

	// Optional fields
	EmploymentType string `json:"type" binding:"omitempty,oneof=Full-time Part-time Internship Contract"`
	Policy         string `json:"job_policy" binding:"omitempty,oneof=Exclusive Open"`
}

type ApplyRequest struct {
	Resume string `json:"resume"`
}

type StatusUpdateRequest struct {
	Status        string `json:"status" binding:"required"`
	Feedback      string `json:"feedback"`
	InterviewDate string `json:"interview_date"` // RFC 3339
	InterviewLink string `json:"interview_link"`
}

type ScoreRequest struct {
	StudentID uint  `json:"student_id"`
	JobID     *uint `json:"job_id"`
}
