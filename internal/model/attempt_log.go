package model

import (
	"gorm.io/datatypes"
)

// AnswerEntry is one answer as sent by the client. Correct is filled in by
// the server before the entry is logged.
type AnswerEntry struct {
	SelectedOption string `json:"selectedOption"`
	Correct        bool   `json:"correct"`
	SavedAt        string `json:"savedAt,omitempty"`
}

// AnswerSheet maps question id to the submitted answer. Nil entries mean the
// question was left blank.
type AnswerSheet map[string]*AnswerEntry

// AttemptLog is an append-only snapshot of every submission, drafts included.
// swagger:model AttemptLog
type AttemptLog struct {
	BaseModel
	ExamID  uint                            `gorm:"not null;index:idx_attempt_exam_user" json:"exam_id"`
	UserID  string                          `gorm:"size:64;not null;index:idx_attempt_exam_user" json:"user_id"`
	Answers datatypes.JSONType[AnswerSheet] `json:"answers"`
}

func (AttemptLog) TableName() string {
	return "user_attempt"
}
