package repository

import (
	"context"
	"time"

	"exam_portal_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AccessRepository struct {
	DB *gorm.DB
}

func NewAccessRepository(db *gorm.DB) *AccessRepository {
	return &AccessRepository{DB: db}
}

// Upsert writes the attempted mode for the pair, keeping a single row.
func (r *AccessRepository) Upsert(ctx context.Context, examID uint, userID, attempted string) error {
	now := time.Now()
	access := &model.ExamAccess{
		BaseModel: model.BaseModel{CreatedAt: now, UpdatedAt: now},
		ExamID:    examID,
		UserID:    userID,
		Attempted: attempted,
	}
	return r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "exam_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"attempted", "updated_at"}),
	}).Create(access).Error
}

func (r *AccessRepository) Find(ctx context.Context, examID uint, userID string) (*model.ExamAccess, error) {
	var access model.ExamAccess
	err := r.DB.WithContext(ctx).
		Where("exam_id = ? AND user_id = ?", examID, userID).
		Take(&access).Error
	if err != nil {
		return nil, translate(err, "exam access")
	}
	return &access, nil
}
