package quiz

import (
	"fmt"
	"time"
)

// QuizDuration is the time limit for one run through a category.
const QuizDuration = 300 * time.Second

// Submission is a finished run: answers are option letters keyed by question
// index. A missing or empty answer counts as skipped.
type Submission struct {
	Category   string         `json:"category"`
	Answers    map[int]string `json:"answers"`
	StartedAt  time.Time      `json:"started_at"`
	FinishedAt time.Time      `json:"finished_at,omitempty"`
}

// FinishTime resolves when the run ended. A missing or future finish time
// becomes now. A run without a start time, or one that started after it
// finished, is rejected.
func (s Submission) FinishTime(now time.Time) (time.Time, error) {
	finishedAt := s.FinishedAt
	if finishedAt.IsZero() || finishedAt.After(now) {
		finishedAt = now
	}
	if s.StartedAt.IsZero() {
		return time.Time{}, fmt.Errorf("%w: started_at is required", ErrInvalidResult)
	}
	if s.StartedAt.After(finishedAt) {
		return time.Time{}, fmt.Errorf("%w: started_at is after the finish time", ErrInvalidResult)
	}
	return finishedAt, nil
}

// Grade counts the questions whose answer letter names the correct option.
func Grade(category Category, answers map[int]string) int {
	correct := 0
	for idx, question := range category.Questions {
		letter := NormalizeLetter(answers[idx])
		if letter == "" {
			continue
		}

		answerIndex := int(letter[0] - 'A')
		if answerIndex >= len(question.Answers) {
			continue
		}
		if answerIndex == question.CorrectIndex() {
			correct++
		}
	}
	return correct
}

// Elapsed returns how long the run took, clamped to [0, QuizDuration]; the
// quiz finishes on its own once the timer runs out.
func Elapsed(startedAt, finishedAt time.Time) time.Duration {
	if startedAt.IsZero() || finishedAt.Before(startedAt) {
		return 0
	}
	elapsed := finishedAt.Sub(startedAt)
	if elapsed > QuizDuration {
		return QuizDuration
	}
	return elapsed
}
