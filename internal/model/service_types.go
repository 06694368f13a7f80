package model

import "time"

// EnrolledExam is an exam joined with the student's enrollment status.
type EnrolledExam struct {
	ExamID           uint       `json:"exam_id"`
	SubjectID        uint       `json:"subject_id"`
	Name             string     `json:"name"`
	Description      string     `json:"description"`
	Type             string     `json:"type"`
	StartDate        *time.Time `json:"start_date"`
	EndDate          *time.Time `json:"end_date"`
	Duration         int        `json:"duration"`
	Fees             float64    `json:"fees"`
	EnrollmentStatus string     `json:"enrollment_status"`
}

type EnrollmentCheck struct {
	Enrolled bool   `json:"enrolled"`
	Status   string `json:"status,omitempty"`
}

type AccessStatus struct {
	Enrolled         bool   `json:"enrolled"`
	EnrollmentStatus string `json:"enrollment_status,omitempty"`
	Attempted        string `json:"attempted,omitempty"`
}

// AttemptAnswer is one entry of a reconstructed attempt, in exam question order.
type AttemptAnswer struct {
	QuestionID     string `json:"question_id"`
	Question       string `json:"question,omitempty"`
	SelectedOption string `json:"selected_option"`
	Correct        bool   `json:"correct"`
	SavedAt        string `json:"saved_at,omitempty"`
}

type PreviousAttempt struct {
	AttemptID uint            `json:"attempt_id"`
	ExamID    uint            `json:"exam_id"`
	UserID    string          `json:"user_id"`
	SavedAt   time.Time       `json:"saved_at"`
	Answers   []AttemptAnswer `json:"answers"`
}
