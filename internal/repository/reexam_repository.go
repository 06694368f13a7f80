package repository

import (
	"context"

	"exam_portal_backend/internal/model"

	"gorm.io/gorm"
)

type ReExamRepository struct {
	DB *gorm.DB
}

func NewReExamRepository(db *gorm.DB) *ReExamRepository {
	return &ReExamRepository{DB: db}
}

func (r *ReExamRepository) Create(ctx context.Context, req *model.ReExamRequest) error {
	return r.DB.WithContext(ctx).Create(req).Error
}

func (r *ReExamRepository) FindByID(ctx context.Context, id uint) (*model.ReExamRequest, error) {
	var req model.ReExamRequest
	err := r.DB.WithContext(ctx).Where("id = ?", id).Take(&req).Error
	if err != nil {
		return nil, translate(err, "re-exam request")
	}
	return &req, nil
}

// FindActive returns the pending or approved request for the pair, if any.
func (r *ReExamRepository) FindActive(ctx context.Context, examID uint, userID string) (*model.ReExamRequest, error) {
	var req model.ReExamRequest
	err := r.DB.WithContext(ctx).
		Where("exam_id = ? AND user_id = ? AND status IN ?", examID, userID, model.ActiveReExamStatuses).
		Order("id DESC").
		Take(&req).Error
	if err != nil {
		return nil, translate(err, "re-exam request")
	}
	return &req, nil
}

func (r *ReExamRepository) FindLatest(ctx context.Context, examID uint, userID string) (*model.ReExamRequest, error) {
	var req model.ReExamRequest
	err := r.DB.WithContext(ctx).
		Where("exam_id = ? AND user_id = ?", examID, userID).
		Order("id DESC").
		Take(&req).Error
	if err != nil {
		return nil, translate(err, "re-exam request")
	}
	return &req, nil
}

// List returns requests newest first, optionally filtered by status.
func (r *ReExamRepository) List(ctx context.Context, status string) ([]model.ReExamRequest, error) {
	var reqs []model.ReExamRequest
	query := r.DB.WithContext(ctx).Order("id DESC")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	err := query.Find(&reqs).Error
	return reqs, err
}

func (r *ReExamRepository) UpdateStatus(ctx context.Context, id uint, status, adminNote string) error {
	res := r.DB.WithContext(ctx).
		Model(&model.ReExamRequest{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"status": status, "admin_note": adminNote})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "re-exam request")
	}
	return nil
}
