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

type ReExamRequestInput struct {
	ExamID uint   `json:"exam_id"`
	UserID string `json:"user_id"`
	Reason string `json:"reason"`
}

type ReExamService struct {
	requests ReExamStore
	log      *zap.Logger
}

func NewReExamService(requests ReExamStore, log *zap.Logger) *ReExamService {
	return &ReExamService{requests: requests, log: log}
}

// RequestReExam files a new request unless one is already pending or approved.
func (s *ReExamService) RequestReExam(ctx context.Context, in ReExamRequestInput) (*model.ReExamRequest, error) {
	reason := strings.TrimSpace(in.Reason)
	if in.ExamID == 0 || strings.TrimSpace(in.UserID) == "" || reason == "" {
		return nil, fmt.Errorf("%w: exam_id, user_id and reason are required", util.ErrInvalidInput)
	}

	if err := s.ensureNoActive(ctx, in.ExamID, in.UserID, 0); err != nil {
		return nil, err
	}

	req := &model.ReExamRequest{
		ExamID: in.ExamID,
		UserID: in.UserID,
		Reason: reason,
		Status: model.ReExamPending,
	}
	if err := s.requests.Create(ctx, req); err != nil {
		return nil, fmt.Errorf("%w: save re-exam request: %v", util.ErrCollaborator, err)
	}
	s.log.Info("Re-exam requested", zap.Uint("exam_id", in.ExamID), zap.String("user_id", in.UserID), zap.Uint("request_id", req.ID))
	return req, nil
}

// UpdateRequestStatus is the admin decision on a request. Reactivating a
// request is refused while another one for the same pair is active.
func (s *ReExamService) UpdateRequestStatus(ctx context.Context, id uint, status, adminNote string) (*model.ReExamRequest, error) {
	if id == 0 {
		return nil, fmt.Errorf("%w: request id is required", util.ErrInvalidInput)
	}
	if !model.ValidReExamStatus(status) {
		return nil, fmt.Errorf("%w: unknown re-exam status %q", util.ErrInvalidInput, status)
	}

	req, err := s.requests.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "load re-exam request")
	}
	if model.IsActiveReExamStatus(status) && !req.IsActive() {
		if err := s.ensureNoActive(ctx, req.ExamID, req.UserID, req.ID); err != nil {
			return nil, err
		}
	}

	if err := s.requests.UpdateStatus(ctx, id, status, adminNote); err != nil {
		return nil, lookupError(err, "update re-exam request")
	}
	req.Status = status
	req.AdminNote = adminNote
	s.log.Info("Re-exam request updated", zap.Uint("request_id", id), zap.String("status", status))
	return req, nil
}

func (s *ReExamService) GetReExamRequest(ctx context.Context, examID uint, userID string) (*model.ReExamRequest, error) {
	if examID == 0 || userID == "" {
		return nil, fmt.Errorf("%w: exam_id and user_id are required", util.ErrInvalidInput)
	}
	req, err := s.requests.FindLatest(ctx, examID, userID)
	if err != nil {
		return nil, lookupError(err, "load re-exam request")
	}
	return req, nil
}

func (s *ReExamService) ListReExamRequests(ctx context.Context, status string) ([]model.ReExamRequest, error) {
	if status != "" && !model.ValidReExamStatus(status) {
		return nil, fmt.Errorf("%w: unknown re-exam status %q", util.ErrInvalidInput, status)
	}
	reqs, err := s.requests.List(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("%w: list re-exam requests: %v", util.ErrCollaborator, err)
	}
	if reqs == nil {
		reqs = []model.ReExamRequest{}
	}
	return reqs, nil
}

func (s *ReExamService) ensureNoActive(ctx context.Context, examID uint, userID string, exceptID uint) error {
	active, err := s.requests.FindActive(ctx, examID, userID)
	switch {
	case errors.Is(err, util.ErrNotFound):
		return nil
	case err != nil:
		return fmt.Errorf("%w: check re-exam requests: %v", util.ErrCollaborator, err)
	case active.ID == exceptID:
		return nil
	default:
		return fmt.Errorf("%w: a re-exam request is already %s for this exam", util.ErrPolicyViolation, active.Status)
	}
}
