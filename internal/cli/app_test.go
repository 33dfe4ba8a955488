package cli

import (
	"bufio"
	"context"
	"strings"
	"testing"
	"time"

	"quizboard/internal/quiz"
	"quizboard/internal/store/memory"
	"quizboard/internal/streak"
	"quizboard/internal/tracker"
)

var testNow = time.Date(2024, time.May, 3, 10, 0, 0, 0, time.UTC)

func newTestApp(t *testing.T, now func() time.Time) (*App, *memory.Store) {
	t.Helper()

	store := memory.New()
	quizzes := quiz.NewService(quiz.NewCatalog(quiz.Category{
		Key:   "math",
		Title: "Math",
		Questions: []quiz.Question{
			{ID: "q1", Question: "2+2?", Answers: []quiz.Answer{{Text: "4", Correct: true}, {Text: "3"}}},
			{ID: "q2", Question: "3+3?", Answers: []quiz.Answer{{Text: "5"}, {Text: "6", Correct: true}}},
		},
	}), nil, nil)
	results := tracker.NewService(store, store, quizzes, streak.FixedClock{At: testNow})
	return NewApp(quizzes, results, "local", now), store
}

func TestRunRecordsResultAndStreak(t *testing.T) {
	app, store := newTestApp(t, func() time.Time { return testNow.Add(-time.Minute) })

	var out strings.Builder
	if err := app.Run(context.Background(), strings.NewReader("MATH\na\nA\n"), &out); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	text := out.String()
	for _, want := range []string{"Correct!", "Wrong. Correct answer was 6", "Final score: 1/2 (50%)", "Current streak: 1 day"} {
		if !strings.Contains(text, want) {
			t.Fatalf("output missing %q:\n%s", want, text)
		}
	}

	results, err := store.ReadResults(context.Background(), "local")
	if err != nil {
		t.Fatalf("ReadResults: %v", err)
	}
	if len(results) != 1 || results[0].Score != 1 || results[0].QuizType != "math" {
		t.Fatalf("unexpected stored results: %+v", results)
	}
}

func TestRunSkipsAfterThreeInvalidInputs(t *testing.T) {
	app, _ := newTestApp(t, func() time.Time { return testNow.Add(-time.Minute) })

	var out strings.Builder
	if err := app.Run(context.Background(), strings.NewReader("math\nz\nq\n1\nB\n"), &out); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	text := out.String()
	if got := strings.Count(text, "Invalid input"); got != 2 {
		t.Fatalf("invalid input prompts = %d, want 2:\n%s", got, text)
	}
	if !strings.Contains(text, "Skipping. Correct answer was 4") {
		t.Fatalf("expected skip message:\n%s", text)
	}
	if !strings.Contains(text, "Final score: 1/2 (50%)") {
		t.Fatalf("expected 1/2 score:\n%s", text)
	}
}

func TestRunStopsWhenTimerExpires(t *testing.T) {
	start := testNow.Add(-10 * time.Minute)
	calls := 0
	app, _ := newTestApp(t, func() time.Time {
		calls++
		if calls == 1 {
			return start
		}
		return start.Add(quiz.QuizDuration + time.Second)
	})

	var out strings.Builder
	if err := app.Run(context.Background(), strings.NewReader("math\nA\nB\n"), &out); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	text := out.String()
	for _, want := range []string{"Time's up!", "Final score: 0/2 (0%)", "Time taken: 5:00", "Current streak: 1 day"} {
		if !strings.Contains(text, want) {
			t.Fatalf("output missing %q:\n%s", want, text)
		}
	}
}

func TestRunUnknownCategory(t *testing.T) {
	app, store := newTestApp(t, nil)

	var out strings.Builder
	if err := app.Run(context.Background(), strings.NewReader("art\nmusic\nhistory\n"), &out); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if !strings.Contains(out.String(), "No category chosen.") {
		t.Fatalf("expected give-up message:\n%s", out.String())
	}

	results, _ := store.ReadResults(context.Background(), "local")
	if len(results) != 0 {
		t.Fatalf("expected nothing recorded, got %+v", results)
	}
}

func TestGetAnswerAcceptsFinalLineWithoutNewline(t *testing.T) {
	var out strings.Builder
	letter, ok := getAnswer(bufioReader("b"), &out, 4)
	if !ok || letter != "B" {
		t.Fatalf("getAnswer = (%q, %v), want (B, true)", letter, ok)
	}
}

func bufioReader(s string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(s))
}
