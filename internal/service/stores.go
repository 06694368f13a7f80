package service

import (
	"context"

	"exam_portal_backend/internal/model"
)

// Store interfaces are satisfied by the gorm repositories. Lookups return an
// error wrapping util.ErrNotFound when the row does not exist.

type ExamStore interface {
	FindByID(ctx context.Context, id uint) (*model.Exam, error)
}

type QuestionStore interface {
	Create(ctx context.Context, question *model.Question) error
	Update(ctx context.Context, question *model.Question) error
	FindByID(ctx context.Context, id uint) (*model.Question, error)
	ListByExam(ctx context.Context, examID uint) ([]model.Question, error)
}

type StudentStore interface {
	FindByID(ctx context.Context, id string) (*model.Student, error)
}

type ResultStore interface {
	Create(ctx context.Context, result *model.Result) error
	FindByID(ctx context.Context, id uint) (*model.Result, error)
	FindLatest(ctx context.Context, examID uint, userID string) (*model.Result, error)
}

type AccessStore interface {
	Upsert(ctx context.Context, examID uint, userID, attempted string) error
	Find(ctx context.Context, examID uint, userID string) (*model.ExamAccess, error)
}

type AttemptLogStore interface {
	Append(ctx context.Context, log *model.AttemptLog) error
	FindLatest(ctx context.Context, examID uint, userID string) (*model.AttemptLog, error)
}

// AttemptRecords groups the three tables a submission writes to.
type AttemptRecords struct {
	Results ResultStore
	Access  AccessStore
	Logs    AttemptLogStore
}

type EnrollmentStore interface {
	Create(ctx context.Context, enrollment *model.Enrollment) error
	FindByID(ctx context.Context, id uint) (*model.Enrollment, error)
	Find(ctx context.Context, examID uint, userID string) (*model.Enrollment, error)
	UpdateStatus(ctx context.Context, id uint, status string) error
	ListExamsByUser(ctx context.Context, userID string) ([]model.EnrolledExam, error)
}

type ReExamStore interface {
	Create(ctx context.Context, req *model.ReExamRequest) error
	FindByID(ctx context.Context, id uint) (*model.ReExamRequest, error)
	FindActive(ctx context.Context, examID uint, userID string) (*model.ReExamRequest, error)
	FindLatest(ctx context.Context, examID uint, userID string) (*model.ReExamRequest, error)
	List(ctx context.Context, status string) ([]model.ReExamRequest, error)
	UpdateStatus(ctx context.Context, id uint, status, adminNote string) error
}

// ObjectStore uploads and removes client files.
type ObjectStore interface {
	Store(ctx context.Context, folder string, upload *Upload) (*StoredObject, error)
	Remove(ctx context.Context, id string) error
}
