package model

// Submission modes. The mode is stored verbatim in ExamAccess.Attempted, so
// clients may send values outside this list.
const (
	SubmissionSubmitted  = "submitted"
	SubmissionInProgress = "in_progress"
)

// ExamAccess holds the latest submission mode for a student and exam pair.
// swagger:model ExamAccess
type ExamAccess struct {
	BaseModel
	ExamID    uint   `gorm:"not null;uniqueIndex:uniq_access_exam_user" json:"exam_id"`
	UserID    string `gorm:"size:64;not null;uniqueIndex:uniq_access_exam_user" json:"user_id"`
	Attempted string `gorm:"size:32" json:"attempted"`
}

func (ExamAccess) TableName() string {
	return "exam_access"
}
