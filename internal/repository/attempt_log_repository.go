package repository

import (
	"context"

	"exam_portal_backend/internal/model"

	"gorm.io/gorm"
)

type AttemptLogRepository struct {
	DB *gorm.DB
}

func NewAttemptLogRepository(db *gorm.DB) *AttemptLogRepository {
	return &AttemptLogRepository{DB: db}
}

func (r *AttemptLogRepository) Append(ctx context.Context, log *model.AttemptLog) error {
	return r.DB.WithContext(ctx).Create(log).Error
}

func (r *AttemptLogRepository) FindLatest(ctx context.Context, examID uint, userID string) (*model.AttemptLog, error) {
	var log model.AttemptLog
	err := r.DB.WithContext(ctx).
		Where("exam_id = ? AND user_id = ?", examID, userID).
		Order("id DESC").
		Take(&log).Error
	if err != nil {
		return nil, translate(err, "attempt")
	}
	return &log, nil
}
