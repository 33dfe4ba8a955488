// Package cli runs a timed quiz on a terminal and records the result through
// the tracker, the same way the HTTP service does.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"quizboard/internal/quiz"
	"quizboard/internal/tracker"
)

const maxAttempts = 3

type App struct {
	quizzes *quiz.Service
	tracker *tracker.Service
	userID  string
	now     func() time.Time
}

func NewApp(quizzes *quiz.Service, results *tracker.Service, userID string, now func() time.Time) *App {
	if now == nil {
		now = time.Now
	}
	return &App{quizzes: quizzes, tracker: results, userID: userID, now: now}
}

// Run asks for a category, plays it until every question is answered or the
// timer runs out, and prints the recorded result.
func (a *App) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	reader := bufio.NewReader(in)

	category, ok := a.chooseCategory(reader, out)
	if !ok {
		fmt.Fprintln(out, "No category chosen.")
		return nil
	}

	questions := quiz.ToPublicQuestions(category.Questions)
	answers := make(map[int]string, len(questions))
	startedAt := a.now()
	deadline := startedAt.Add(quiz.QuizDuration)

	fmt.Fprintf(out, "\n%s: %d questions, %s on the clock.\n", category.Title, len(questions), quiz.FormatTimeTaken(quiz.QuizDuration))

	for idx, question := range questions {
		if !a.now().Before(deadline) {
			fmt.Fprintln(out, "\nTime's up!")
			break
		}

		printQuestion(out, idx+1, question, deadline.Sub(a.now()))
		letter, answered := getAnswer(reader, out, len(question.Options))
		fmt.Fprintln(out)

		if !a.now().Before(deadline) {
			fmt.Fprintln(out, "Time's up! That answer came too late.")
			break
		}

		correct := category.Questions[idx].CorrectIndex()
		correctText := optionTextForIndex(question.Options, correct)
		if !answered {
			fmt.Fprintf(out, "Skipping. Correct answer was %s\n", correctText)
			continue
		}

		answers[idx] = letter
		if int(letter[0]-'A') == correct {
			fmt.Fprintln(out, "Correct!")
		} else {
			fmt.Fprintf(out, "Wrong. Correct answer was %s\n", correctText)
		}
	}

	completion, err := a.tracker.SubmitQuiz(ctx, a.userID, quiz.Submission{
		Category:   category.Key,
		Answers:    answers,
		StartedAt:  startedAt,
		FinishedAt: a.now(),
	})
	if err != nil {
		return fmt.Errorf("record result: %w", err)
	}

	result := completion.Result
	fmt.Fprintf(out, "\nFinal score: %d/%d (%d%%)\n", result.Score, result.TotalQuestions, result.Percentage)
	fmt.Fprintf(out, "Time taken: %s\n", result.TimeTaken)
	fmt.Fprintf(out, "Current streak: %d %s\n", completion.Checkpoint.Streak, dayWord(completion.Checkpoint.Streak))
	return nil
}

func (a *App) chooseCategory(reader *bufio.Reader, out io.Writer) (quiz.Category, bool) {
	categories := a.quizzes.Categories()
	if len(categories) == 0 {
		return quiz.Category{}, false
	}

	fmt.Fprintln(out, "Categories:")
	for _, category := range categories {
		fmt.Fprintf(out, "  %-12s %s (%d questions)\n", category.Key, category.Title, len(category.Questions))
	}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		fmt.Fprint(out, "\nPick a category: ")
		input, err := reader.ReadString('\n')
		if strings.TrimSpace(input) == "" && err != nil {
			return quiz.Category{}, false
		}

		category, lookupErr := a.quizzes.Lookup(input)
		if lookupErr == nil {
			return category, true
		}
		if err != nil {
			return quiz.Category{}, false
		}
		fmt.Fprintf(out, "Unknown category %q.\n", strings.TrimSpace(input))
	}
	return quiz.Category{}, false
}

func printQuestion(out io.Writer, number int, question quiz.PublicQuestion, remaining time.Duration) {
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Q%d [%s left]: %s\n\n", number, quiz.FormatTimeTaken(remaining), question.Question)
	for _, option := range question.Options {
		fmt.Fprintf(out, "%s. %s\n", option.Letter, option.Text)
	}
	fmt.Fprintln(out)
}

// getAnswer returns the chosen option letter. Three invalid inputs skip the
// question.
func getAnswer(reader *bufio.Reader, out io.Writer, optionCount int) (string, bool) {
	if optionCount < 1 {
		return "", false
	}

	maxLetter := byte('A' + optionCount - 1)

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		userAnswer, err := reader.ReadString('\n')
		userAnswer = strings.ToUpper(strings.TrimSpace(userAnswer))
		if len(userAnswer) == 1 {
			letter := userAnswer[0]
			if letter >= 'A' && letter <= maxLetter {
				return userAnswer, true
			}
		}
		if err != nil {
			return "", false
		}

		if attempt < maxAttempts {
			fmt.Fprintf(out, "\nInvalid input. Please enter a letter A-%c.\n", maxLetter)
		}
	}

	return "", false
}

func optionTextForIndex(options []quiz.Option, index int) string {
	if index < 0 || index >= len(options) {
		return ""
	}
	return options[index].Text
}

func dayWord(n int) string {
	if n == 1 {
		return "day"
	}
	return "days"
}
