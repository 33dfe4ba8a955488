package userclient

import (
	"bufio"
	"bytes"
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"quizboard/internal/account"
	"quizboard/internal/httpapi"
	"quizboard/internal/notify"
	"quizboard/internal/quiz"
	"quizboard/internal/store/memory"
	"quizboard/internal/streak"
	"quizboard/internal/tracker"
)

var testNow = time.Date(2024, time.May, 3, 10, 0, 0, 0, time.UTC)

func newTestServer(t *testing.T) (*httptest.Server, account.User) {
	t.Helper()
	return newTestServerWithHints(t, nil)
}

func newTestServerWithHints(t *testing.T, hints httpapi.Hinter) (*httptest.Server, account.User) {
	t.Helper()

	store := memory.New()
	clock := streak.FixedClock{At: testNow}
	quizzes := quiz.NewService(quiz.NewCatalog(quiz.Category{
		Key:   "math",
		Title: "Math",
		Questions: []quiz.Question{
			{ID: "q1", Question: "2+2?", Answers: []quiz.Answer{{Text: "4", Correct: true}, {Text: "3"}}},
			{ID: "q2", Question: "3+3?", Answers: []quiz.Answer{{Text: "5"}, {Text: "6", Correct: true}}},
		},
	}), store, nil)
	notifications := notify.NewService(store, clock.Now, nil)
	accounts := account.NewService(store, store,
		account.WithNotifier(notifications),
		account.WithClock(clock.Now),
		account.WithBcryptCost(bcrypt.MinCost),
	)
	results := tracker.NewService(store, store, quizzes, clock, tracker.WithNotifications(notifications, accounts))

	user, err := accounts.Signup(context.Background(), account.SignupRequest{
		Name:            "Ada Lovelace",
		Email:           "ada@example.com",
		Password:        "secret1",
		ConfirmPassword: "secret1",
	})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}

	server := httptest.NewServer(httpapi.NewRouter(httpapi.NewAPI(quizzes, results, accounts, notifications, hints, nil), httpapi.Options{}))
	t.Cleanup(server.Close)
	return server, user
}

func TestParsePositiveLimit(t *testing.T) {
	if got, err := parsePositiveLimit([]string{"history"}, 1, 10); err != nil || got != 10 {
		t.Fatalf("default parsePositiveLimit = (%d, %v), want (10, nil)", got, err)
	}
	if got, err := parsePositiveLimit([]string{"history", "3"}, 1, 10); err != nil || got != 3 {
		t.Fatalf("valid parsePositiveLimit = (%d, %v), want (3, nil)", got, err)
	}
	if _, err := parsePositiveLimit([]string{"history", "0"}, 1, 10); err == nil {
		t.Fatalf("expected validation error for non-positive limit")
	}
}

func TestParseSetting(t *testing.T) {
	field, value, err := parseSetting("Timer", "off")
	if err != nil || field != "timerVisible" || value {
		t.Fatalf("parseSetting(timer, off) = (%q, %v, %v)", field, value, err)
	}
	if _, _, err := parseSetting("volume", "on"); err == nil {
		t.Fatalf("expected unknown setting error")
	}
	if _, _, err := parseSetting("sound", "loud"); err == nil {
		t.Fatalf("expected invalid value error")
	}
}

func TestPromptAnswer(t *testing.T) {
	reader := bufio.NewReader(strings.NewReader(" b \n"))
	var out bytes.Buffer

	answer, ok := promptAnswer(reader, &out, 2)
	if !ok || answer != "B" {
		t.Fatalf("promptAnswer valid = (%q, %t), want (B, true)", answer, ok)
	}

	reader = bufio.NewReader(strings.NewReader("z\n"))
	answer, ok = promptAnswer(reader, &out, 2)
	if ok || answer != "" {
		t.Fatalf("promptAnswer invalid = (%q, %t), want (\"\", false)", answer, ok)
	}

	reader = bufio.NewReader(strings.NewReader(" ? \n"))
	answer, ok = promptAnswer(reader, &out, 2)
	if !ok || answer != hintRequest {
		t.Fatalf("promptAnswer hint = (%q, %t), want (%q, true)", answer, ok, hintRequest)
	}
}

func TestPromptYesNoRetriesUntilValid(t *testing.T) {
	reader := bufio.NewReader(strings.NewReader("maybe\nyes\n"))
	var out bytes.Buffer

	ok, err := promptYesNo(reader, &out, "continue? ")
	if err != nil {
		t.Fatalf("promptYesNo returned error: %v", err)
	}
	if !ok {
		t.Fatalf("expected yes result")
	}
	if !strings.Contains(out.String(), "Please answer yes or no.") {
		t.Fatalf("expected retry hint in output, got: %s", out.String())
	}
}

func TestRunRequiresKnownUser(t *testing.T) {
	server, _ := newTestServer(t)

	err := Run(context.Background(), strings.NewReader(""), &bytes.Buffer{}, Config{UserID: "ghost", ServerURL: server.URL})
	if err == nil || !strings.Contains(err.Error(), "user not found") {
		t.Fatalf("Run error = %v, want user not found", err)
	}
}

func TestRunPlaysQuizAndManagesAccount(t *testing.T) {
	server, user := newTestServer(t)

	script := strings.Join([]string{
		"categories",
		"play math",
		"A",
		"x",
		"x",
		"x",
		"history",
		"streak",
		"settings sound off",
		"read-all",
		"notifications unread",
		"clear-results",
		"yes",
		"bogus",
		"exit",
	}, "\n") + "\n"

	var out bytes.Buffer
	err := Run(context.Background(), strings.NewReader(script), &out, Config{
		UserID:    user.ID,
		ServerURL: server.URL,
		Now:       func() time.Time { return testNow.Add(-time.Minute) },
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	text := out.String()
	for _, want := range []string{
		"user=Ada Lovelace",
		"1. math - Math (2 questions)",
		"Skipping question after multiple invalid responses.",
		"Score: 1/2 (50%)",
		"Current streak: 1",
		"1. Math 1/2 (50%)",
		"notifications=on timer=on sound=off",
		"All notifications marked as read.",
		"0 unread",
		"History cleared. Streak is now 0.",
		"unknown command.",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("output missing %q:\n%s", want, text)
		}
	}
}

type hinterFunc func(ctx context.Context, question string, options []string) (int, error)

func (f hinterFunc) Solve(ctx context.Context, question string, options []string) (int, error) {
	return f(ctx, question, options)
}

func TestRunPlayShowsHintWithoutSpendingAttempts(t *testing.T) {
	server, user := newTestServerWithHints(t, hinterFunc(func(_ context.Context, _ string, options []string) (int, error) {
		return len(options) - 1, nil
	}))

	script := strings.Join([]string{
		"play math",
		"?",
		"?",
		"?",
		"A",
		"B",
		"hint math 2",
		"hint math",
		"exit",
	}, "\n") + "\n"

	var out bytes.Buffer
	err := Run(context.Background(), strings.NewReader(script), &out, Config{
		UserID:            user.ID,
		ServerURL:         server.URL,
		MaxInvalidAnswers: 1,
		Now:               func() time.Time { return testNow.Add(-time.Minute) },
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	text := out.String()
	for _, want := range []string{
		"Hint: B. 3",
		"Score: 2/2 (100%)",
		"Hint: B. 6",
		"usage: hint <category> <question_number>",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("output missing %q:\n%s", want, text)
		}
	}
	if strings.Contains(text, "Skipping question") {
		t.Fatalf("hint requests were counted as invalid answers:\n%s", text)
	}
}

func TestRunHintWhenServerHasNoHinter(t *testing.T) {
	server, user := newTestServer(t)

	var out bytes.Buffer
	err := Run(context.Background(), strings.NewReader("hint math 1\nexit\n"), &out, Config{UserID: user.ID, ServerURL: server.URL})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !strings.Contains(out.String(), "No hint: answer hints are disabled") {
		t.Fatalf("expected disabled hint message, got:\n%s", out.String())
	}
}
