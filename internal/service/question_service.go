package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"exam_portal_backend/internal/model"
	"exam_portal_backend/internal/util"

	"go.uber.org/zap"
)

// QuestionInput carries form fields as sent by the admin console. Options is
// a JSON array of strings; CorrectOption is either the option text or its
// zero-based index.
type QuestionInput struct {
	ExamID        uint
	QuestionText  string
	Options       string
	CorrectOption string
}

// QuestionPatch holds the fields to change. Nil means unchanged.
type QuestionPatch struct {
	QuestionText  *string
	Options       *string
	CorrectOption *string
}

type QuestionService struct {
	questions QuestionStore
	exams     ExamStore
	storage   ObjectStore
	log       *zap.Logger
}

func NewQuestionService(questions QuestionStore, exams ExamStore, storage ObjectStore, log *zap.Logger) *QuestionService {
	return &QuestionService{
		questions: questions,
		exams:     exams,
		storage:   storage,
		log:       log,
	}
}

// ParseOptions decodes a JSON array of option strings. Blank input means no
// options.
func ParseOptions(raw string) ([]string, error) {
	if strings.TrimSpace(raw) == "" {
		return []string{}, nil
	}
	var options []string
	if err := json.Unmarshal([]byte(raw), &options); err != nil {
		return nil, fmt.Errorf("%w: options must be a JSON array of strings", util.ErrInvalidInput)
	}
	return options, nil
}

// ResolveCorrectOption stores the correct answer as option content. An
// in-range index is replaced by the option text, anything else is kept.
func ResolveCorrectOption(options []string, raw string) string {
	raw = strings.TrimSpace(raw)
	if idx, err := strconv.Atoi(raw); err == nil && idx >= 0 && idx < len(options) {
		return options[idx]
	}
	return raw
}

func (s *QuestionService) Create(ctx context.Context, in QuestionInput, image *Upload) (*model.Question, error) {
	if in.ExamID == 0 || strings.TrimSpace(in.QuestionText) == "" {
		return nil, fmt.Errorf("%w: exam_id and question_text are required", util.ErrInvalidInput)
	}
	options, err := ParseOptions(in.Options)
	if err != nil {
		return nil, err
	}
	if _, err := s.exams.FindByID(ctx, in.ExamID); err != nil {
		return nil, lookupError(err, "load exam")
	}

	question := &model.Question{
		ExamID:   in.ExamID,
		Question: strings.TrimSpace(in.QuestionText),
		Correct:  ResolveCorrectOption(options, in.CorrectOption),
	}
	if err := question.SetOptions(options); err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrInvalidInput, err)
	}

	seq := NewStepSequence(s.log.With(zap.Uint("exam_id", in.ExamID)))
	s.addImageStep(seq, question, image)
	seq.Add(Step{
		Name:  "insert_question",
		Fatal: true,
		Run: func(ctx context.Context) error {
			return s.questions.Create(ctx, question)
		},
	})
	if err := seq.Run(ctx); err != nil {
		return nil, fmt.Errorf("%w: create question: %v", util.ErrCollaborator, err)
	}
	return question, nil
}

// Update applies the patch. When only the correct option changes, an index
// is resolved against the stored options. A replaced image is removed from
// the object store after the row is saved.
func (s *QuestionService) Update(ctx context.Context, id uint, patch QuestionPatch, image *Upload) (*model.Question, error) {
	if id == 0 {
		return nil, fmt.Errorf("%w: question id is required", util.ErrInvalidInput)
	}
	if patch.QuestionText == nil && patch.Options == nil && patch.CorrectOption == nil && image == nil {
		return nil, fmt.Errorf("%w: no fields to update", util.ErrInvalidInput)
	}

	question, err := s.questions.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "load question")
	}

	if patch.QuestionText != nil {
		text := strings.TrimSpace(*patch.QuestionText)
		if text == "" {
			return nil, fmt.Errorf("%w: question_text must not be empty", util.ErrInvalidInput)
		}
		question.Question = text
	}

	options, err := question.OptionList()
	if err != nil {
		options = nil
	}
	if patch.Options != nil {
		if options, err = ParseOptions(*patch.Options); err != nil {
			return nil, err
		}
		if err := question.SetOptions(options); err != nil {
			return nil, fmt.Errorf("%w: %v", util.ErrInvalidInput, err)
		}
	}
	if patch.CorrectOption != nil {
		question.Correct = ResolveCorrectOption(options, *patch.CorrectOption)
	}

	oldAssetID := question.ImageAssetID
	seq := NewStepSequence(s.log.With(zap.Uint("question_id", id)))
	s.addImageStep(seq, question, image)
	seq.Add(Step{
		Name:  "update_question",
		Fatal: true,
		Run: func(ctx context.Context) error {
			return s.questions.Update(ctx, question)
		},
	})
	if err := seq.Run(ctx); err != nil {
		return nil, fmt.Errorf("%w: update question: %v", util.ErrCollaborator, err)
	}

	if image != nil && oldAssetID != "" && oldAssetID != question.ImageAssetID {
		if err := s.storage.Remove(ctx, oldAssetID); err != nil {
			s.log.Warn("Failed to remove replaced question image", zap.String("asset_id", oldAssetID), zap.Error(err))
		}
	}
	return question, nil
}

func (s *QuestionService) ListByExam(ctx context.Context, examID uint) ([]model.Question, error) {
	if examID == 0 {
		return nil, fmt.Errorf("%w: exam_id is required", util.ErrInvalidInput)
	}
	questions, err := s.questions.ListByExam(ctx, examID)
	if err != nil {
		return nil, fmt.Errorf("%w: list questions: %v", util.ErrCollaborator, err)
	}
	if questions == nil {
		questions = []model.Question{}
	}
	return questions, nil
}

func (s *QuestionService) addImageStep(seq *StepSequence, question *model.Question, image *Upload) {
	if image == nil {
		return
	}
	var stored *StoredObject
	seq.Add(Step{
		Name:  "upload_question_image",
		Fatal: true,
		Run: func(ctx context.Context) error {
			obj, err := s.storage.Store(ctx, util.FolderQuestions, image)
			if err != nil {
				return err
			}
			stored = obj
			question.ImageURL = obj.URL
			question.ImageAssetID = obj.ID
			return nil
		},
		Compensate: func(ctx context.Context) error {
			return s.storage.Remove(ctx, stored.ID)
		},
	})
}
