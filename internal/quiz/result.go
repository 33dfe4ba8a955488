package quiz

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

var ErrInvalidResult = errors.New("invalid quiz result")

// Result is one completed quiz. Records are append-only: they are never
// edited after creation, only cleared wholesale. QuizTitle is a copy of the
// category title at completion time and is not re-synced later.
type Result struct {
	ID             string    `json:"id"`
	QuizType       string    `json:"quizType"`
	QuizTitle      string    `json:"quizTitle"`
	Score          int       `json:"score"`
	TotalQuestions int       `json:"totalQuestions"`
	Percentage     int       `json:"percentage"`
	Date           time.Time `json:"date"`
	TimeTaken      string    `json:"timeTaken"`
}

// NewResult builds a validated record for a graded run.
func NewResult(id string, category Category, score int, completedAt time.Time, elapsed time.Duration) (Result, error) {
	result := Result{
		ID:             id,
		QuizType:       category.Key,
		QuizTitle:      category.Title,
		Score:          score,
		TotalQuestions: len(category.Questions),
		Percentage:     Percentage(score, len(category.Questions)),
		Date:           completedAt,
		TimeTaken:      FormatTimeTaken(elapsed),
	}
	if err := result.Validate(); err != nil {
		return Result{}, err
	}
	return result, nil
}

func (r Result) Validate() error {
	switch {
	case strings.TrimSpace(r.ID) == "":
		return fmt.Errorf("%w: id is required", ErrInvalidResult)
	case r.TotalQuestions < 1:
		return fmt.Errorf("%w: totalQuestions must be at least 1", ErrInvalidResult)
	case r.Score < 0 || r.Score > r.TotalQuestions:
		return fmt.Errorf("%w: score %d out of range 0..%d", ErrInvalidResult, r.Score, r.TotalQuestions)
	case r.Percentage != Percentage(r.Score, r.TotalQuestions):
		return fmt.Errorf("%w: percentage %d does not match score", ErrInvalidResult, r.Percentage)
	case r.Date.IsZero():
		return fmt.Errorf("%w: date is required", ErrInvalidResult)
	}
	return nil
}

// Percentage is round(score/total*100), rounding halves up.
func Percentage(score, total int) int {
	if total <= 0 {
		return 0
	}
	return RoundHalfUp(float64(score) / float64(total) * 100)
}

func RoundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}

// FormatTimeTaken renders a duration as minutes:seconds with two-digit seconds.
func FormatTimeTaken(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d / time.Second)
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

// TimeTakenMinutes returns the minutes part of a m:ss value.
func TimeTakenMinutes(timeTaken string) (int, bool) {
	minutes, _, found := strings.Cut(strings.TrimSpace(timeTaken), ":")
	if !found {
		return 0, false
	}
	value, err := strconv.Atoi(minutes)
	if err != nil {
		return 0, false
	}
	return value, true
}

// Dates extracts completion timestamps for streak evaluation.
func Dates(results []Result) []time.Time {
	dates := make([]time.Time, 0, len(results))
	for _, result := range results {
		dates = append(dates, result.Date)
	}
	return dates
}

// TimeTakenSeconds converts a m:ss value back into whole seconds.
func TimeTakenSeconds(timeTaken string) (int, bool) {
	minutes, seconds, found := strings.Cut(strings.TrimSpace(timeTaken), ":")
	if !found {
		return 0, false
	}
	m, err := strconv.Atoi(minutes)
	if err != nil {
		return 0, false
	}
	s, err := strconv.Atoi(seconds)
	if err != nil {
		return 0, false
	}
	return m*60 + s, true
}
