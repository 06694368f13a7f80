package model

const (
	ReExamPending   = "pending"
	ReExamApproved  = "approved"
	ReExamDeclined  = "declined"
	ReExamCompleted = "completed"
)

// ReExamRequest is a student's request to sit an exam again. At most one
// request per pair may be pending or approved at a time.
// swagger:model ReExamRequest
type ReExamRequest struct {
	BaseModel
	ExamID    uint   `gorm:"not null;index:idx_reexam_exam_user" json:"exam_id"`
	UserID    string `gorm:"size:64;not null;index:idx_reexam_exam_user" json:"user_id"`
	Reason    string `gorm:"type:text" json:"reason"`
	Status    string `gorm:"size:20;default:'pending'" json:"status"`
	AdminNote string `gorm:"type:text" json:"admin_note"`
}

func (ReExamRequest) TableName() string {
	return "re_attempt"
}

func (r *ReExamRequest) IsActive() bool {
	return IsActiveReExamStatus(r.Status)
}

func IsActiveReExamStatus(status string) bool {
	return status == ReExamPending || status == ReExamApproved
}

func ValidReExamStatus(status string) bool {
	switch status {
	case ReExamPending, ReExamApproved, ReExamDeclined, ReExamCompleted:
		return true
	}
	return false
}

// ActiveReExamStatuses is used in queries.
var ActiveReExamStatuses = []string{ReExamPending, ReExamApproved}
