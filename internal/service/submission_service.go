package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"exam_portal_backend/internal/model"
	"exam_portal_backend/internal/util"
	"exam_portal_backend/pkg/monitoring"

	"go.uber.org/zap"
	"gorm.io/datatypes"
)

type SubmitRequest struct {
	ExamID           uint              `json:"exam_id"`
	UserID           string            `json:"user_id"`
	Answers          model.AnswerSheet `json:"answers"`
	TimeTaken        int               `json:"time_taken"`
	SubmissionStatus string            `json:"submission_status"`
}

type SubmitResponse struct {
	ResultID       uint    `json:"result_id,omitempty"`
	ExamName       string  `json:"exam_name"`
	ExamType       string  `json:"exam_type"`
	Score          float64 `json:"score"`
	Total          float64 `json:"total"`
	Correct        int     `json:"correct"`
	Incorrect      int     `json:"incorrect"`
	TotalQuestions int     `json:"total_questions"`
	Percentage     string  `json:"percentage"`
	Passed         bool    `json:"passed"`
}

// SubmissionService scores submissions and records them in the attempt tables.
type SubmissionService struct {
	exams     ExamStore
	questions QuestionStore
	records   AttemptRecords
	log       *zap.Logger
	now       func() time.Time
}

func NewSubmissionService(exams ExamStore, questions QuestionStore, records AttemptRecords, log *zap.Logger) *SubmissionService {
	return &SubmissionService{
		exams:     exams,
		questions: questions,
		records:   records,
		log:       log,
		now:       time.Now,
	}
}

func (r *SubmitRequest) validate() error {
	var missing []string
	if r.ExamID == 0 {
		missing = append(missing, "exam_id")
	}
	if strings.TrimSpace(r.UserID) == "" {
		missing = append(missing, "user_id")
	}
	if r.Answers == nil {
		missing = append(missing, "answers")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", util.ErrInvalidInput, strings.Join(missing, ", "))
	}
	if r.TimeTaken < 0 {
		return fmt.Errorf("%w: time_taken must not be negative", util.ErrInvalidInput)
	}
	return nil
}

// Submit scores the answers and persists them. Only the "submitted" mode
// writes a result row and a failure there fails the call. The access marker
// and the attempt log are written for every mode on a best-effort basis.
func (s *SubmissionService) Submit(ctx context.Context, req SubmitRequest) (*SubmitResponse, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	mode := strings.TrimSpace(req.SubmissionStatus)
	if mode == "" {
		mode = model.SubmissionInProgress
	}

	exam, err := s.exams.FindByID(ctx, req.ExamID)
	if err != nil {
		return nil, lookupError(err, "load exam")
	}

	questions, err := s.questions.ListByExam(ctx, req.ExamID)
	if err != nil {
		return nil, fmt.Errorf("%w: load questions: %v", util.ErrCollaborator, err)
	}

	scored := make([]ScoredQuestion, len(questions))
	for i, q := range questions {
		scored[i] = ScoredQuestion{ID: util.FormatUint(q.ID), Correct: q.Correct}
	}
	score := Score(scored, req.Answers, exam.QuesMark)

	now := s.now()
	annotated := annotateAnswers(req.Answers, score.Correctness, now)

	log := s.log.With(
		zap.Uint("exam_id", req.ExamID),
		zap.String("user_id", req.UserID),
		zap.String("mode", mode),
	)

	result := &model.Result{
		ExamID:      req.ExamID,
		UserID:      req.UserID,
		Correct:     score.CorrectCount,
		Incorrect:   score.IncorrectCount,
		Score:       score.Score,
		TotalMarks:  score.TotalMarks,
		Percentage:  score.Percentage,
		TimeTaken:   req.TimeTaken,
		AttemptedAt: now,
	}

	seq := NewStepSequence(log)
	if mode == model.SubmissionSubmitted {
		seq.Add(Step{
			Name:  "result",
			Fatal: true,
			Run: func(ctx context.Context) error {
				return s.records.Results.Create(ctx, result)
			},
		})
	}
	seq.Add(Step{
		Name: "exam_access",
		Run: func(ctx context.Context) error {
			return s.records.Access.Upsert(ctx, req.ExamID, req.UserID, mode)
		},
	})
	seq.Add(Step{
		Name: "attempt_log",
		Run: func(ctx context.Context) error {
			return s.records.Logs.Append(ctx, &model.AttemptLog{
				ExamID:  req.ExamID,
				UserID:  req.UserID,
				Answers: datatypes.NewJSONType(annotated),
			})
		},
	})

	if err := seq.Run(ctx); err != nil {
		return nil, fmt.Errorf("%w: save result: %v", util.ErrCollaborator, err)
	}

	monitoring.SubmissionCounter.WithLabelValues(mode).Inc()
	log.Info("Exam submission recorded",
		zap.Int("correct", score.CorrectCount),
		zap.Int("total_questions", score.TotalQuestions),
		zap.String("percentage", score.PercentageText()),
	)

	return &SubmitResponse{
		ResultID:       result.ID,
		ExamName:       exam.Name,
		ExamType:       exam.Type,
		Score:          score.Score,
		Total:          score.TotalMarks,
		Correct:        score.CorrectCount,
		Incorrect:      score.IncorrectCount,
		TotalQuestions: score.TotalQuestions,
		Percentage:     score.PercentageText(),
		Passed:         score.Passed,
	}, nil
}

// annotateAnswers copies the sheet with server-side correctness and a
// savedAt stamp for entries that came without one. Answers for unknown
// questions are kept and marked incorrect.
func annotateAnswers(answers model.AnswerSheet, correctness map[string]bool, now time.Time) model.AnswerSheet {
	out := make(model.AnswerSheet, len(answers))
	stamp := now.UTC().Format(time.RFC3339)
	for id, entry := range answers {
		if entry == nil {
			out[id] = nil
			continue
		}
		copied := *entry
		copied.Correct = correctness[id]
		if copied.SavedAt == "" {
			copied.SavedAt = stamp
		}
		out[id] = &copied
	}
	return out
}

func (s *SubmissionService) GetResult(ctx context.Context, resultID uint) (*model.Result, error) {
	if resultID == 0 {
		return nil, fmt.Errorf("%w: result id is required", util.ErrInvalidInput)
	}
	result, err := s.records.Results.FindByID(ctx, resultID)
	if err != nil {
		return nil, lookupError(err, "load result")
	}
	return result, nil
}

// GetPreviousResult returns the latest result for the pair.
func (s *SubmissionService) GetPreviousResult(ctx context.Context, examID uint, userID string) (*model.Result, error) {
	if examID == 0 || userID == "" {
		return nil, fmt.Errorf("%w: exam_id and user_id are required", util.ErrInvalidInput)
	}
	result, err := s.records.Results.FindLatest(ctx, examID, userID)
	if err != nil {
		return nil, lookupError(err, "load result")
	}
	return result, nil
}

// GetPreviousAttempt rebuilds the latest logged attempt in exam question
// order. Answers for questions no longer on the exam come last, by id.
func (s *SubmissionService) GetPreviousAttempt(ctx context.Context, examID uint, userID string) (*model.PreviousAttempt, error) {
	if examID == 0 || userID == "" {
		return nil, fmt.Errorf("%w: exam_id and user_id are required", util.ErrInvalidInput)
	}
	attempt, err := s.records.Logs.FindLatest(ctx, examID, userID)
	if err != nil {
		return nil, lookupError(err, "load attempt")
	}
	questions, err := s.questions.ListByExam(ctx, examID)
	if err != nil {
		return nil, fmt.Errorf("%w: load questions: %v", util.ErrCollaborator, err)
	}

	sheet := attempt.Answers.Data()
	answers := make([]model.AttemptAnswer, 0, len(sheet))
	seen := make(map[string]bool, len(questions))
	for _, q := range questions {
		id := util.FormatUint(q.ID)
		seen[id] = true
		entry, ok := sheet[id]
		if !ok {
			continue
		}
		answers = append(answers, attemptAnswer(id, q.Question, entry))
	}

	var orphans []string
	for id := range sheet {
		if !seen[id] {
			orphans = append(orphans, id)
		}
	}
	sort.Strings(orphans)
	for _, id := range orphans {
		answers = append(answers, attemptAnswer(id, "", sheet[id]))
	}

	return &model.PreviousAttempt{
		AttemptID: attempt.ID,
		ExamID:    attempt.ExamID,
		UserID:    attempt.UserID,
		SavedAt:   attempt.CreatedAt,
		Answers:   answers,
	}, nil
}

func attemptAnswer(id, question string, entry *model.AnswerEntry) model.AttemptAnswer {
	a := model.AttemptAnswer{QuestionID: id, Question: question}
	if entry != nil {
		a.SelectedOption = entry.SelectedOption
		a.Correct = entry.Correct
		a.SavedAt = entry.SavedAt
	}
	return a
}

// lookupError keeps not-found errors intact and wraps everything else as a
// collaborator failure.
func lookupError(err error, action string) error {
	if errors.Is(err, util.ErrNotFound) {
		return err
	}
	return fmt.Errorf("%w: %s: %v", util.ErrCollaborator, action, err)
}
