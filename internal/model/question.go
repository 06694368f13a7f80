package model

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// swagger:model Question
type Question struct {
	ID           uint           `gorm:"column:question_id;primaryKey;autoIncrement" json:"question_id"`
	ExamID       uint           `gorm:"index;not null" json:"exam_id"`
	Question     string         `gorm:"type:text;not null" json:"question"`
	Options      datatypes.JSON `json:"options"`
	Correct      string         `gorm:"type:text" json:"correct"`
	ImageURL     string         `gorm:"size:512" json:"image_url"`
	ImageAssetID string         `gorm:"size:255" json:"-"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

func (Question) TableName() string {
	return "questions"
}

// OptionList decodes the stored options. A missing column yields nil.
func (q *Question) OptionList() ([]string, error) {
	if len(q.Options) == 0 {
		return nil, nil
	}
	var options []string
	if err := json.Unmarshal(q.Options, &options); err != nil {
		return nil, err
	}
	return options, nil
}

func (q *Question) SetOptions(options []string) error {
	if options == nil {
		options = []string{}
	}
	raw, err := json.Marshal(options)
	if err != nil {
		return err
	}
	q.Options = datatypes.JSON(raw)
	return nil
}
