package model

const (
	EnrollmentPending  = "pending"
	EnrollmentApproved = "approved"
	EnrollmentRejected = "rejected"
)

// swagger:model Enrollment
type Enrollment struct {
	BaseModel
	ExamID         uint   `gorm:"not null;uniqueIndex:uniq_enrol_exam_user" json:"exam_id"`
	UserID         string `gorm:"size:64;not null;uniqueIndex:uniq_enrol_exam_user" json:"user_id"`
	PaymentURL     string `gorm:"size:512" json:"payment_url"`
	PaymentAssetID string `gorm:"size:255" json:"-"`
	Status         string `gorm:"size:20;default:'pending'" json:"status"`
}

func (Enrollment) TableName() string {
	return "enrol_exam"
}

func ValidEnrollmentStatus(status string) bool {
	switch status {
	case EnrollmentPending, EnrollmentApproved, EnrollmentRejected:
		return true
	}
	return false
}
