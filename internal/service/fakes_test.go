package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"exam_portal_backend/internal/model"
	"exam_portal_backend/internal/util"
)

var errStoreDown = errors.New("store unavailable")

type fakeExams struct {
	exams map[uint]*model.Exam
	err   error
}

func (f *fakeExams) FindByID(ctx context.Context, id uint) (*model.Exam, error) {
	if f.err != nil {
		return nil, f.err
	}
	e, ok := f.exams[id]
	if !ok {
		return nil, fmt.Errorf("exam %w", util.ErrNotFound)
	}
	return e, nil
}

type fakeQuestions struct {
	mu        sync.Mutex
	questions []model.Question
	createErr error
	updateErr error
	nextID    uint
}

func (f *fakeQuestions) Create(ctx context.Context, q *model.Question) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.nextID++
	q.ID = 1000 + f.nextID
	f.questions = append(f.questions, *q)
	return nil
}

func (f *fakeQuestions) Update(ctx context.Context, q *model.Question) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	for i := range f.questions {
		if f.questions[i].ID == q.ID {
			f.questions[i] = *q
			return nil
		}
	}
	return fmt.Errorf("question %w", util.ErrNotFound)
}

func (f *fakeQuestions) FindByID(ctx context.Context, id uint) (*model.Question, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, q := range f.questions {
		if q.ID == id {
			copied := q
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("question %w", util.ErrNotFound)
}

func (f *fakeQuestions) ListByExam(ctx context.Context, examID uint) ([]model.Question, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Question
	for _, q := range f.questions {
		if q.ExamID == examID {
			out = append(out, q)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type fakeStudents map[string]*model.Student

func (f fakeStudents) FindByID(ctx context.Context, id string) (*model.Student, error) {
	s, ok := f[id]
	if !ok {
		return nil, fmt.Errorf("student %w", util.ErrNotFound)
	}
	return s, nil
}

type fakeResults struct {
	mu      sync.Mutex
	results []model.Result
	err     error
}

func (f *fakeResults) Create(ctx context.Context, r *model.Result) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	r.ID = uint(len(f.results) + 1)
	f.results = append(f.results, *r)
	return nil
}

func (f *fakeResults) FindByID(ctx context.Context, id uint) (*model.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.results {
		if r.ID == id {
			copied := r
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("result %w", util.ErrNotFound)
}

func (f *fakeResults) FindLatest(ctx context.Context, examID uint, userID string) (*model.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var latest *model.Result
	for i := range f.results {
		r := f.results[i]
		if r.ExamID != examID || r.UserID != userID {
			continue
		}
		if latest == nil || !r.AttemptedAt.Before(latest.AttemptedAt) {
			latest = &r
		}
	}
	if latest == nil {
		return nil, fmt.Errorf("result %w", util.ErrNotFound)
	}
	return latest, nil
}

type accessKey struct {
	examID uint
	userID string
}

type fakeAccess struct {
	mu    sync.Mutex
	rows  map[accessKey]string
	err   error
	calls int
}

func newFakeAccess() *fakeAccess {
	return &fakeAccess{rows: map[accessKey]string{}}
}

func (f *fakeAccess) Upsert(ctx context.Context, examID uint, userID, attempted string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return f.err
	}
	f.rows[accessKey{examID, userID}] = attempted
	return nil
}

func (f *fakeAccess) Find(ctx context.Context, examID uint, userID string) (*model.ExamAccess, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.rows[accessKey{examID, userID}]
	if !ok {
		return nil, fmt.Errorf("exam access %w", util.ErrNotFound)
	}
	return &model.ExamAccess{ExamID: examID, UserID: userID, Attempted: v}, nil
}

type fakeLogs struct {
	mu   sync.Mutex
	logs []model.AttemptLog
	err  error
}

func (f *fakeLogs) Append(ctx context.Context, log *model.AttemptLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	log.ID = uint(len(f.logs) + 1)
	f.logs = append(f.logs, *log)
	return nil
}

func (f *fakeLogs) FindLatest(ctx context.Context, examID uint, userID string) (*model.AttemptLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.logs) - 1; i >= 0; i-- {
		if f.logs[i].ExamID == examID && f.logs[i].UserID == userID {
			copied := f.logs[i]
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("attempt %w", util.ErrNotFound)
}

type fakeEnrollments struct {
	mu        sync.Mutex
	rows      []model.Enrollment
	exams     map[uint]*model.Exam
	createErr error
	findErr   error
}

func (f *fakeEnrollments) Create(ctx context.Context, e *model.Enrollment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	e.ID = uint(len(f.rows) + 1)
	f.rows = append(f.rows, *e)
	return nil
}

func (f *fakeEnrollments) FindByID(ctx context.Context, id uint) (*model.Enrollment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.rows {
		if e.ID == id {
			copied := e
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("enrollment %w", util.ErrNotFound)
}

func (f *fakeEnrollments) Find(ctx context.Context, examID uint, userID string) (*model.Enrollment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findErr != nil {
		return nil, f.findErr
	}
	for _, e := range f.rows {
		if e.ExamID == examID && e.UserID == userID {
			copied := e
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("enrollment %w", util.ErrNotFound)
}

func (f *fakeEnrollments) UpdateStatus(ctx context.Context, id uint, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.rows {
		if f.rows[i].ID == id {
			f.rows[i].Status = status
			return nil
		}
	}
	return fmt.Errorf("enrollment %w", util.ErrNotFound)
}

func (f *fakeEnrollments) ListExamsByUser(ctx context.Context, userID string) ([]model.EnrolledExam, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.EnrolledExam
	for _, e := range f.rows {
		exam, ok := f.exams[e.ExamID]
		if e.UserID != userID || !ok {
			continue
		}
		out = append(out, model.EnrolledExam{ExamID: exam.ID, Name: exam.Name, EnrollmentStatus: e.Status})
	}
	return out, nil
}

type fakeReExams struct {
	mu   sync.Mutex
	rows []model.ReExamRequest
}

func (f *fakeReExams) Create(ctx context.Context, r *model.ReExamRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r.ID = uint(len(f.rows) + 1)
	f.rows = append(f.rows, *r)
	return nil
}

func (f *fakeReExams) FindByID(ctx context.Context, id uint) (*model.ReExamRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.rows {
		if r.ID == id {
			copied := r
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("re-exam request %w", util.ErrNotFound)
}

func (f *fakeReExams) FindActive(ctx context.Context, examID uint, userID string) (*model.ReExamRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.rows) - 1; i >= 0; i-- {
		r := f.rows[i]
		if r.ExamID == examID && r.UserID == userID && r.IsActive() {
			return &r, nil
		}
	}
	return nil, fmt.Errorf("re-exam request %w", util.ErrNotFound)
}

func (f *fakeReExams) FindLatest(ctx context.Context, examID uint, userID string) (*model.ReExamRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.rows) - 1; i >= 0; i-- {
		r := f.rows[i]
		if r.ExamID == examID && r.UserID == userID {
			return &r, nil
		}
	}
	return nil, fmt.Errorf("re-exam request %w", util.ErrNotFound)
}

func (f *fakeReExams) List(ctx context.Context, status string) ([]model.ReExamRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.ReExamRequest
	for _, r := range f.rows {
		if status == "" || r.Status == status {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeReExams) UpdateStatus(ctx context.Context, id uint, status, note string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.rows {
		if f.rows[i].ID == id {
			f.rows[i].Status = status
			f.rows[i].AdminNote = note
			return nil
		}
	}
	return fmt.Errorf("re-exam request %w", util.ErrNotFound)
}

type fakeObjectStore struct {
	mu        sync.Mutex
	stored    []string
	removed   []string
	storeErr  error
	removeErr error
}

func (f *fakeObjectStore) Store(ctx context.Context, folder string, upload *Upload) (*StoredObject, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.storeErr != nil {
		return nil, f.storeErr
	}
	id := fmt.Sprintf("%s/%d_%s", folder, len(f.stored)+1, upload.Filename)
	f.stored = append(f.stored, id)
	return &StoredObject{URL: "https://cdn.test/" + id, ID: id}, nil
}

func (f *fakeObjectStore) Remove(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removed = append(f.removed, id)
	return f.removeErr
}

type fakeAssets struct {
	data []byte
	err  error
	refs []string
}

func (f *fakeAssets) Fetch(ctx context.Context, ref string) ([]byte, error) {
	f.refs = append(f.refs, ref)
	if f.err != nil {
		return nil, f.err
	}
	return f.data, nil
}

func markPtr(v float64) *float64 {
	return &v
}
