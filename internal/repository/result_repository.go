package repository

import (
	"context"

	"exam_portal_backend/internal/model"

	"gorm.io/gorm"
)

type ResultRepository struct {
	DB *gorm.DB
}

func NewResultRepository(db *gorm.DB) *ResultRepository {
	return &ResultRepository{DB: db}
}

func (r *ResultRepository) Create(ctx context.Context, result *model.Result) error {
	return r.DB.WithContext(ctx).Create(result).Error
}

func (r *ResultRepository) FindByID(ctx context.Context, id uint) (*model.Result, error) {
	var result model.Result
	err := r.DB.WithContext(ctx).Where("id = ?", id).Take(&result).Error
	if err != nil {
		return nil, translate(err, "result")
	}
	return &result, nil
}

// FindLatest returns the most recent result for the pair. Ties on
// attempted_at go to the later insert.
func (r *ResultRepository) FindLatest(ctx context.Context, examID uint, userID string) (*model.Result, error) {
	var result model.Result
	err := r.DB.WithContext(ctx).
		Where("exam_id = ? AND user_id = ?", examID, userID).
		Order("attempted_at DESC").
		Order("id DESC").
		Take(&result).Error
	if err != nil {
		return nil, translate(err, "result")
	}
	return &result, nil
}
