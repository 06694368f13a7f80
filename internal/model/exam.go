package model

import (
	"time"
)

// swagger:model Exam
type Exam struct {
	ID            uint       `gorm:"column:exam_id;primaryKey;autoIncrement" json:"exam_id"`
	SubjectID     uint       `gorm:"index" json:"subject_id"`
	Name          string     `gorm:"size:255;not null" json:"name"`
	Description   string     `gorm:"type:text" json:"description"`
	Type          string     `gorm:"size:50" json:"type"`
	StartDate     *time.Time `json:"start_date"`
	EndDate       *time.Time `json:"end_date"`
	Fees          float64    `json:"fees"`
	NumOfQues     int        `json:"num_of_ques"`
	Duration      int        `json:"duration"` // minutes
	QuesMark      *float64   `json:"ques_mark"`
	StudyMatURL   string     `gorm:"size:512" json:"study_mat_url"`
	CertificateBg string     `gorm:"size:512" json:"certificate_bg"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func (Exam) TableName() string {
	return "exam"
}
