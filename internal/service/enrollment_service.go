package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"exam_portal_backend/internal/model"
	"exam_portal_backend/internal/util"

	"go.uber.org/zap"
)

type EnrollmentService struct {
	enrollments EnrollmentStore
	access      AccessStore
	storage     ObjectStore
	log         *zap.Logger
}

func NewEnrollmentService(enrollments EnrollmentStore, access AccessStore, storage ObjectStore, log *zap.Logger) *EnrollmentService {
	return &EnrollmentService{
		enrollments: enrollments,
		access:      access,
		storage:     storage,
		log:         log,
	}
}

// Enroll uploads the payment proof, if any, and records a pending
// enrollment. If the insert fails the uploaded proof is deleted again.
func (s *EnrollmentService) Enroll(ctx context.Context, examID uint, userID string, proof *Upload) (*model.Enrollment, error) {
	if examID == 0 || strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("%w: exam_id and user_id are required", util.ErrInvalidInput)
	}

	enrollment := &model.Enrollment{
		ExamID: examID,
		UserID: userID,
		Status: model.EnrollmentPending,
	}

	seq := NewStepSequence(s.log.With(zap.Uint("exam_id", examID), zap.String("user_id", userID)))
	if proof != nil {
		var stored *StoredObject
		seq.Add(Step{
			Name:  "upload_payment_proof",
			Fatal: true,
			Run: func(ctx context.Context) error {
				obj, err := s.storage.Store(ctx, util.FolderEnrollmentPayments, proof)
				if err != nil {
					return err
				}
				stored = obj
				enrollment.PaymentURL = obj.URL
				enrollment.PaymentAssetID = obj.ID
				return nil
			},
			Compensate: func(ctx context.Context) error {
				return s.storage.Remove(ctx, stored.ID)
			},
		})
	}
	seq.Add(Step{
		Name:  "insert_enrollment",
		Fatal: true,
		Run: func(ctx context.Context) error {
			return s.enrollments.Create(ctx, enrollment)
		},
	})

	if err := seq.Run(ctx); err != nil {
		s.log.Error("Enrollment failed", zap.Uint("exam_id", examID), zap.String("user_id", userID), zap.Error(err))
		return nil, fmt.Errorf("%w: failed to enrol in exam: %v", util.ErrCollaborator, err)
	}
	return enrollment, nil
}

// CheckEnrollment reports whether the student is enrolled. A missing row is
// a normal "not enrolled" answer.
func (s *EnrollmentService) CheckEnrollment(ctx context.Context, examID uint, userID string) (*model.EnrollmentCheck, error) {
	if examID == 0 || userID == "" {
		return nil, fmt.Errorf("%w: exam_id and user_id are required", util.ErrInvalidInput)
	}
	enrollment, err := s.enrollments.Find(ctx, examID, userID)
	if errors.Is(err, util.ErrNotFound) {
		return &model.EnrollmentCheck{Enrolled: false}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: check enrollment: %v", util.ErrCollaborator, err)
	}
	status := enrollment.Status
	if status == "" {
		status = model.EnrollmentPending
	}
	return &model.EnrollmentCheck{Enrolled: true, Status: status}, nil
}

func (s *EnrollmentService) ListEnrolledExams(ctx context.Context, userID string) ([]model.EnrolledExam, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user_id is required", util.ErrInvalidInput)
	}
	exams, err := s.enrollments.ListExamsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: list enrolled exams: %v", util.ErrCollaborator, err)
	}
	if exams == nil {
		exams = []model.EnrolledExam{}
	}
	for i := range exams {
		if exams[i].EnrollmentStatus == "" {
			exams[i].EnrollmentStatus = model.EnrollmentPending
		}
	}
	return exams, nil
}

func (s *EnrollmentService) UpdateEnrollmentStatus(ctx context.Context, id uint, status string) (*model.Enrollment, error) {
	if id == 0 {
		return nil, fmt.Errorf("%w: enrollment id is required", util.ErrInvalidInput)
	}
	if !model.ValidEnrollmentStatus(status) {
		return nil, fmt.Errorf("%w: unknown enrollment status %q", util.ErrInvalidInput, status)
	}
	if err := s.enrollments.UpdateStatus(ctx, id, status); err != nil {
		return nil, lookupError(err, "update enrollment")
	}
	enrollment, err := s.enrollments.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "load enrollment")
	}
	s.log.Info("Enrollment status updated", zap.Uint("enrollment_id", id), zap.String("status", status))
	return enrollment, nil
}

// AccessStatus combines enrollment and attempt state for the exam lobby.
func (s *EnrollmentService) AccessStatus(ctx context.Context, examID uint, userID string) (*model.AccessStatus, error) {
	check, err := s.CheckEnrollment(ctx, examID, userID)
	if err != nil {
		return nil, err
	}
	status := &model.AccessStatus{
		Enrolled:         check.Enrolled,
		EnrollmentStatus: check.Status,
	}

	access, err := s.access.Find(ctx, examID, userID)
	switch {
	case err == nil:
		status.Attempted = access.Attempted
	case errors.Is(err, util.ErrNotFound):
	default:
		return nil, fmt.Errorf("%w: load exam access: %v", util.ErrCollaborator, err)
	}
	return status, nil
}
