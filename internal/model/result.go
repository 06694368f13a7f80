package model

import (
	"time"
)

// Result rows are append-only. The latest attempted_at wins.
// swagger:model Result
type Result struct {
	BaseModel
	ExamID      uint      `gorm:"not null;index:idx_result_exam_user" json:"exam_id"`
	UserID      string    `gorm:"size:64;not null;index:idx_result_exam_user" json:"user_id"`
	Correct     int       `json:"correct"`
	Incorrect   int       `json:"incorrect"`
	Score       float64   `json:"score"`
	TotalMarks  float64   `json:"total_marks"`
	Percentage  float64   `gorm:"type:decimal(5,2)" json:"percentage"`
	TimeTaken   int       `json:"time_taken"`
	AttemptedAt time.Time `gorm:"index" json:"attempted_at"`
}

func (Result) TableName() string {
	return "result"
}
