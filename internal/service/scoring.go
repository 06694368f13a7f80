package service

import (
	"math"
	"strconv"
	"strings"

	"exam_portal_backend/internal/model"
)

// PassPercentage is the inclusive pass threshold.
const PassPercentage = 50.0

// ScoredQuestion is the part of a question the scorer needs.
type ScoredQuestion struct {
	ID      string
	Correct string
}

type ScoreResult struct {
	// Correctness holds the verdict for every question of the exam.
	Correctness    map[string]bool
	CorrectCount   int
	IncorrectCount int
	TotalQuestions int
	Mark           float64
	Score          float64
	TotalMarks     float64
	Percentage     float64
	Passed         bool
}

// PercentageText formats the percentage with two decimals.
func (r ScoreResult) PercentageText() string {
	return strconv.FormatFloat(r.Percentage, 'f', 2, 64)
}

// EffectiveMark returns the per-question mark, defaulting to 1 when the exam
// has none or a non-positive one.
func EffectiveMark(quesMark *float64) float64 {
	if quesMark == nil || *quesMark <= 0 {
		return 1
	}
	return *quesMark
}

// Score grades answers against the exam's questions. An answer is correct
// when its selected option equals the stored correct content after trimming
// surrounding whitespace. Blank and missing answers count as incorrect.
// Answers for unknown question ids are ignored.
func Score(questions []ScoredQuestion, answers model.AnswerSheet, quesMark *float64) ScoreResult {
	mark := EffectiveMark(quesMark)
	res := ScoreResult{
		Correctness:    make(map[string]bool, len(questions)),
		TotalQuestions: len(questions),
		Mark:           mark,
	}

	for _, q := range questions {
		ok := false
		if entry := answers[q.ID]; entry != nil {
			selected := strings.TrimSpace(entry.SelectedOption)
			ok = selected != "" && selected == strings.TrimSpace(q.Correct)
		}
		res.Correctness[q.ID] = ok
		if ok {
			res.CorrectCount++
		}
	}

	res.IncorrectCount = res.TotalQuestions - res.CorrectCount
	res.Score = float64(res.CorrectCount) * mark
	res.TotalMarks = float64(res.TotalQuestions) * mark
	if res.TotalQuestions > 0 {
		res.Percentage = math.Round(float64(res.CorrectCount)/float64(res.TotalQuestions)*100*100) / 100
	}
	res.Passed = res.Percentage >= PassPercentage
	return res
}
