package quiz

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func sampleCategory() Category {
	return Category{
		Key:   "math",
		Title: "Math",
		Questions: []Question{
			{ID: "q1", Question: "2+2?", Answers: []Answer{{Text: "4", Correct: true}, {Text: "3"}}},
			{ID: "q2", Question: "3+3?", Answers: []Answer{{Text: "5"}, {Text: "6", Correct: true}}},
			{ID: "q3", Question: "1+1?", Answers: []Answer{{Text: "2", Correct: true}, {Text: "11"}}},
		},
	}
}

func TestPercentageRoundsHalfUp(t *testing.T) {
	cases := []struct {
		score, total, want int
	}{
		{0, 3, 0},
		{1, 3, 33},
		{2, 3, 67},
		{5, 8, 63},
		{1, 8, 13},
		{4, 4, 100},
		{0, 0, 0},
	}
	for _, tc := range cases {
		if got := Percentage(tc.score, tc.total); got != tc.want {
			t.Fatalf("Percentage(%d, %d) = %d, want %d", tc.score, tc.total, got, tc.want)
		}
	}
}

func TestFormatTimeTakenPadsSeconds(t *testing.T) {
	cases := []struct {
		input time.Duration
		want  string
	}{
		{0, "0:00"},
		{5 * time.Second, "0:05"},
		{65 * time.Second, "1:05"},
		{4*time.Minute + 59*time.Second, "4:59"},
		{5 * time.Minute, "5:00"},
		{90*time.Second + 900*time.Millisecond, "1:30"},
		{-time.Second, "0:00"},
	}
	for _, tc := range cases {
		if got := FormatTimeTaken(tc.input); got != tc.want {
			t.Fatalf("FormatTimeTaken(%v) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestTimeTakenMinutes(t *testing.T) {
	if got, ok := TimeTakenMinutes("2:59"); !ok || got != 2 {
		t.Fatalf("TimeTakenMinutes(2:59) = (%d, %t), want (2, true)", got, ok)
	}
	if _, ok := TimeTakenMinutes("bogus"); ok {
		t.Fatalf("expected parse failure for value without colon")
	}
	if got, ok := TimeTakenSeconds("2:59"); !ok || got != 179 {
		t.Fatalf("TimeTakenSeconds(2:59) = (%d, %t), want (179, true)", got, ok)
	}
	if _, ok := TimeTakenSeconds("2:xx"); ok {
		t.Fatalf("expected parse failure for non-numeric seconds")
	}
}

func TestNewResultDerivesFields(t *testing.T) {
	completedAt := time.Date(2024, time.May, 3, 10, 0, 0, 0, time.UTC)
	result, err := NewResult("r1", sampleCategory(), 2, completedAt, 75*time.Second)
	if err != nil {
		t.Fatalf("NewResult failed: %v", err)
	}

	if result.QuizType != "math" || result.QuizTitle != "Math" {
		t.Fatalf("unexpected category fields: %+v", result)
	}
	if result.TotalQuestions != 3 || result.Percentage != 67 || result.TimeTaken != "1:15" {
		t.Fatalf("unexpected derived fields: %+v", result)
	}
	if !result.Date.Equal(completedAt) {
		t.Fatalf("date = %v, want %v", result.Date, completedAt)
	}
}

func TestNewResultRejectsOutOfRangeScore(t *testing.T) {
	_, err := NewResult("r1", sampleCategory(), 4, time.Now(), 0)
	if !errors.Is(err, ErrInvalidResult) {
		t.Fatalf("expected ErrInvalidResult, got %v", err)
	}
}

func TestValidateRejectsInconsistentPercentage(t *testing.T) {
	result := Result{
		ID:             "r1",
		QuizType:       "math",
		Score:          1,
		TotalQuestions: 2,
		Percentage:     40,
		Date:           time.Now(),
		TimeTaken:      "0:10",
	}
	err := result.Validate()
	if !errors.Is(err, ErrInvalidResult) || !strings.Contains(err.Error(), "percentage") {
		t.Fatalf("expected percentage validation error, got %v", err)
	}
}

func TestGradeCountsCorrectLetters(t *testing.T) {
	category := sampleCategory()
	answers := map[int]string{
		0: "a",
		1: "A",
		2: "",
		9: "B",
	}
	if got := Grade(category, answers); got != 1 {
		t.Fatalf("Grade = %d, want 1", got)
	}

	answers = map[int]string{0: "A", 1: "B", 2: "A"}
	if got := Grade(category, answers); got != 3 {
		t.Fatalf("Grade = %d, want 3", got)
	}

	answers = map[int]string{0: "Z"}
	if got := Grade(category, answers); got != 0 {
		t.Fatalf("out-of-range letter scored: %d", got)
	}
}

func TestElapsedClampsToDuration(t *testing.T) {
	start := time.Date(2024, time.May, 3, 10, 0, 0, 0, time.UTC)

	if got := Elapsed(start, start.Add(90*time.Second)); got != 90*time.Second {
		t.Fatalf("Elapsed = %v, want 90s", got)
	}
	if got := Elapsed(start, start.Add(10*time.Minute)); got != QuizDuration {
		t.Fatalf("Elapsed over limit = %v, want %v", got, QuizDuration)
	}
	if got := Elapsed(start, start.Add(-time.Second)); got != 0 {
		t.Fatalf("Elapsed with clock skew = %v, want 0", got)
	}
	if got := Elapsed(time.Time{}, start); got != 0 {
		t.Fatalf("Elapsed without start = %v, want 0", got)
	}
}

func TestSubmissionFinishTime(t *testing.T) {
	now := time.Date(2024, time.May, 3, 10, 0, 0, 0, time.UTC)
	started := now.Add(-2 * time.Minute)

	got, err := Submission{StartedAt: started}.FinishTime(now)
	if err != nil || !got.Equal(now) {
		t.Fatalf("missing finish = %v, %v; want %v", got, err, now)
	}
	got, err = Submission{StartedAt: started, FinishedAt: now.Add(time.Hour)}.FinishTime(now)
	if err != nil || !got.Equal(now) {
		t.Fatalf("future finish = %v, %v; want %v", got, err, now)
	}
	finished := now.Add(-time.Minute)
	got, err = Submission{StartedAt: started, FinishedAt: finished}.FinishTime(now)
	if err != nil || !got.Equal(finished) {
		t.Fatalf("finish = %v, %v; want %v", got, err, finished)
	}
	if _, err := (Submission{StartedAt: now}).FinishTime(now); err != nil {
		t.Fatalf("instant run rejected: %v", err)
	}
}

func TestSubmissionFinishTimeRequiresStart(t *testing.T) {
	now := time.Date(2024, time.May, 3, 10, 0, 0, 0, time.UTC)

	if _, err := (Submission{}).FinishTime(now); !errors.Is(err, ErrInvalidResult) || !strings.Contains(err.Error(), "started_at") {
		t.Fatalf("expected missing started_at error, got %v", err)
	}
	late := Submission{StartedAt: now.Add(-time.Minute), FinishedAt: now.Add(-2 * time.Minute)}
	if _, err := late.FinishTime(now); !errors.Is(err, ErrInvalidResult) {
		t.Fatalf("expected ErrInvalidResult for start after finish, got %v", err)
	}
}
