package repository

import (
	"context"

	"exam_portal_backend/internal/model"

	"gorm.io/gorm"
)

type EnrollmentRepository struct {
	DB *gorm.DB
}

func NewEnrollmentRepository(db *gorm.DB) *EnrollmentRepository {
	return &EnrollmentRepository{DB: db}
}

func (r *EnrollmentRepository) Create(ctx context.Context, enrollment *model.Enrollment) error {
	return r.DB.WithContext(ctx).Create(enrollment).Error
}

func (r *EnrollmentRepository) FindByID(ctx context.Context, id uint) (*model.Enrollment, error) {
	var enrollment model.Enrollment
	err := r.DB.WithContext(ctx).Where("id = ?", id).Take(&enrollment).Error
	if err != nil {
		return nil, translate(err, "enrollment")
	}
	return &enrollment, nil
}

func (r *EnrollmentRepository) Find(ctx context.Context, examID uint, userID string) (*model.Enrollment, error) {
	var enrollment model.Enrollment
	err := r.DB.WithContext(ctx).
		Where("exam_id = ? AND user_id = ?", examID, userID).
		Take(&enrollment).Error
	if err != nil {
		return nil, translate(err, "enrollment")
	}
	return &enrollment, nil
}

func (r *EnrollmentRepository) UpdateStatus(ctx context.Context, id uint, status string) error {
	res := r.DB.WithContext(ctx).
		Model(&model.Enrollment{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "enrollment")
	}
	return nil
}

// ListExamsByUser joins enrollments with their exams. Enrollments whose exam
// no longer exists are dropped by the inner join.
func (r *EnrollmentRepository) ListExamsByUser(ctx context.Context, userID string) ([]model.EnrolledExam, error) {
	var rows []model.EnrolledExam
	err := r.DB.WithContext(ctx).
		Table("enrol_exam AS e").
		Select(`x.exam_id, x.subject_id, x.name, x.description, x.type, x.start_date,
			x.end_date, x.duration, x.fees, e.status AS enrollment_status`).
		Joins("JOIN exam AS x ON x.exam_id = e.exam_id").
		Where("e.user_id = ?", userID).
		Order("e.created_at DESC").
		Scan(&rows).Error
	return rows, err
}
