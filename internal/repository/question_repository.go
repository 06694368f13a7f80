package repository

import (
	"context"

	"exam_portal_backend/internal/model"

	"gorm.io/gorm"
)

type QuestionRepository struct {
	DB *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{DB: db}
}

func (r *QuestionRepository) Create(ctx context.Context, question *model.Question) error {
	return r.DB.WithContext(ctx).Create(question).Error
}

func (r *QuestionRepository) Update(ctx context.Context, question *model.Question) error {
	return r.DB.WithContext(ctx).Save(question).Error
}

func (r *QuestionRepository) FindByID(ctx context.Context, id uint) (*model.Question, error) {
	var question model.Question
	err := r.DB.WithContext(ctx).Where("question_id = ?", id).Take(&question).Error
	if err != nil {
		return nil, translate(err, "question")
	}
	return &question, nil
}

// ListByExam returns the exam's questions in stable id order.
func (r *QuestionRepository) ListByExam(ctx context.Context, examID uint) ([]model.Question, error) {
	var questions []model.Question
	err := r.DB.WithContext(ctx).
		Where("exam_id = ?", examID).
		Order("question_id ASC").
		Find(&questions).Error
	return questions, err
}
