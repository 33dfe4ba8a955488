package userclient

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"quizboard/internal/quiz"
)

const (
	defaultServer            = "http://127.0.0.1:8080"
	defaultHistoryLimit      = 10
	defaultHTTPTimeout       = 5 * time.Second
	defaultMaxInvalidAnswers = 3
)

type Config struct {
	UserID            string
	ServerURL         string
	HistoryLimit      int
	MaxInvalidAnswers int
	HTTPTimeout       time.Duration
	// Now drives the quiz timer; nil uses time.Now.
	Now func() time.Time
}

type session struct {
	client            *HTTPClient
	reader            *bufio.Reader
	out               io.Writer
	userID            string
	serverURL         string
	historyLimit      int
	maxInvalidAnswers int
	now               func() time.Time
}

func Run(ctx context.Context, in io.Reader, out io.Writer, cfg Config) error {
	userID := strings.TrimSpace(cfg.UserID)
	if userID == "" {
		return errors.New("user id is required")
	}

	serverURL := strings.TrimSpace(cfg.ServerURL)
	if serverURL == "" {
		serverURL = defaultServer
	}

	historyLimit := cfg.HistoryLimit
	if historyLimit <= 0 {
		historyLimit = defaultHistoryLimit
	}
	maxInvalidAnswers := cfg.MaxInvalidAnswers
	if maxInvalidAnswers <= 0 {
		maxInvalidAnswers = defaultMaxInvalidAnswers
	}
	timeout := cfg.HTTPTimeout
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	s := &session{
		client:            NewHTTPClient(serverURL, &http.Client{Timeout: timeout}),
		reader:            bufio.NewReader(in),
		out:               out,
		userID:            userID,
		serverURL:         serverURL,
		historyLimit:      historyLimit,
		maxInvalidAnswers: maxInvalidAnswers,
		now:               now,
	}

	user, err := s.client.GetUser(ctx, userID)
	if err != nil {
		return describeClientError(err, serverURL)
	}

	fmt.Fprintf(out, "quiz-user-service\nuser=%s (%s)\nserver=%s\n\n", user.Name, user.ID, serverURL)
	printHelp(out)

	for {
		fmt.Fprint(out, "\n> ")
		line, err := s.reader.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(out)
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		args := strings.Fields(line)
		command := strings.ToLower(args[0])
		if command == "exit" {
			return nil
		}

		if err := s.dispatch(ctx, command, args); err != nil {
			fmt.Fprintf(out, "error: %v\n", describeClientError(err, serverURL))
		}
	}
}

func (s *session) dispatch(ctx context.Context, command string, args []string) error {
	switch command {
	case "help":
		printHelp(s.out)
		return nil
	case "categories":
		return s.runCategories(ctx)
	case "play":
		if len(args) != 2 {
			fmt.Fprintln(s.out, "usage: play <category>")
			return nil
		}
		return s.runPlay(ctx, args[1])
	case "hint":
		number := 0
		if len(args) == 3 {
			number, _ = strconv.Atoi(args[2])
		}
		if number < 1 {
			fmt.Fprintln(s.out, "usage: hint <category> <question_number>")
			return nil
		}
		s.showHint(ctx, args[1], number-1)
		return nil
	case "history":
		limit, err := parsePositiveLimit(args, 1, s.historyLimit)
		if err != nil {
			fmt.Fprintf(s.out, "invalid history limit: %v\n", err)
			return nil
		}
		return s.runHistory(ctx, limit)
	case "profile":
		return s.runProfile(ctx)
	case "performance":
		return s.runPerformance(ctx)
	case "streak":
		payload, err := s.client.Streak(ctx, s.userID)
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "Current streak: %d (checked %s)\n", payload.Streak, payload.Checkpoint.LastCheckDate)
		return nil
	case "notifications":
		unreadOnly := len(args) > 1 && strings.EqualFold(args[1], "unread")
		payload, err := s.client.Notifications(ctx, s.userID, unreadOnly)
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "%d unread\n", payload.UnreadCount)
		printNotifications(s.out, payload.Notifications)
		return nil
	case "read":
		if len(args) != 2 {
			fmt.Fprintln(s.out, "usage: read <notification_id>")
			return nil
		}
		payload, err := s.client.MarkRead(ctx, s.userID, args[1])
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "Marked as read. %d unread\n", payload.UnreadCount)
		return nil
	case "read-all":
		if _, err := s.client.MarkAllRead(ctx, s.userID); err != nil {
			return err
		}
		fmt.Fprintln(s.out, "All notifications marked as read.")
		return nil
	case "clear-notifications":
		if err := s.client.ClearNotifications(ctx, s.userID); err != nil {
			return err
		}
		fmt.Fprintln(s.out, "Notifications cleared.")
		return nil
	case "clear-results":
		confirmed, err := promptYesNo(s.reader, s.out, "delete your whole quiz history? (yes/no): ")
		if err != nil || !confirmed {
			return err
		}
		payload, err := s.client.ClearResults(ctx, s.userID)
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "History cleared. Streak is now %d.\n", payload.Streak)
		return nil
	case "settings":
		return s.runSettings(ctx, args)
	default:
		fmt.Fprintln(s.out, "unknown command. type 'help' for usage.")
		return nil
	}
}

func (s *session) runCategories(ctx context.Context) error {
	categories, err := s.client.ListCategories(ctx)
	if err != nil {
		return err
	}

	if len(categories) == 0 {
		fmt.Fprintln(s.out, "No categories available.")
		return nil
	}

	fmt.Fprintln(s.out, "Categories:")
	for idx, item := range categories {
		fmt.Fprintf(s.out, "%d. %s - %s (%d questions)\n", idx+1, item.Key, item.Title, item.QuestionCount)
	}
	return nil
}

func (s *session) runPlay(ctx context.Context, key string) error {
	category, err := s.client.GetCategory(ctx, key)
	if err != nil {
		return err
	}

	duration := time.Duration(category.DurationSeconds) * time.Second
	startedAt := s.now()
	answers := make(map[int]string, len(category.Questions))

	fmt.Fprintf(s.out, "%s: %d questions, %s on the clock.\n", category.Title, len(category.Questions), quiz.FormatTimeTaken(duration))

	for idx, question := range category.Questions {
		if duration > 0 && s.now().Sub(startedAt) >= duration {
			fmt.Fprintln(s.out, "\nTime's up!")
			break
		}

		fmt.Fprintln(s.out)
		fmt.Fprintf(s.out, "Q%d: %s\n\n", idx+1, question.Question)
		for _, option := range question.Options {
			fmt.Fprintf(s.out, "%s. %s\n", option.Letter, option.Text)
		}
		fmt.Fprintln(s.out)

		invalidCount := 0
		for {
			answer, ok := promptAnswer(s.reader, s.out, len(question.Options))
			if ok && answer == hintRequest {
				s.showHint(ctx, category.Key, idx)
				continue
			}
			if ok {
				answers[idx] = answer
				break
			}
			invalidCount++
			if invalidCount >= s.maxInvalidAnswers {
				fmt.Fprintln(s.out, "Skipping question after multiple invalid responses.")
				break
			}
			fmt.Fprintf(s.out, "Invalid input. Attempts remaining: %d\n", s.maxInvalidAnswers-invalidCount)
		}
	}

	completion, err := s.client.SubmitResult(ctx, s.userID, quiz.Submission{
		Category:   category.Key,
		Answers:    answers,
		StartedAt:  startedAt,
		FinishedAt: s.now(),
	})
	if err != nil {
		return err
	}

	result := completion.Result
	fmt.Fprintln(s.out)
	fmt.Fprintf(s.out, "Score: %d/%d (%d%%) in %s\n", result.Score, result.TotalQuestions, result.Percentage, result.TimeTaken)
	fmt.Fprintf(s.out, "Current streak: %d\n", completion.Checkpoint.Streak)
	printNotifications(s.out, completion.Notifications)
	return nil
}

func (s *session) showHint(ctx context.Context, key string, index int) {
	hint, err := s.client.Hint(ctx, key, index)
	if err != nil {
		fmt.Fprintf(s.out, "No hint: %v\n", describeClientError(err, s.serverURL))
		return
	}
	fmt.Fprintf(s.out, "Hint: %s. %s\n", hint.Letter, hint.Text)
}

func (s *session) runHistory(ctx context.Context, limit int) error {
	results, err := s.client.History(ctx, s.userID, limit)
	if err != nil {
		return err
	}

	if len(results) == 0 {
		fmt.Fprintln(s.out, "No quizzes taken yet.")
		return nil
	}

	for idx, result := range results {
		fmt.Fprintf(s.out, "%d. %s %d/%d (%d%%) %s on %s\n",
			idx+1,
			result.QuizTitle,
			result.Score,
			result.TotalQuestions,
			result.Percentage,
			result.TimeTaken,
			result.Date.Local().Format(time.DateOnly),
		)
	}
	return nil
}

func (s *session) runProfile(ctx context.Context) error {
	profile, err := s.client.Profile(ctx, s.userID)
	if err != nil {
		return err
	}

	summary := profile.Summary
	fmt.Fprintf(s.out, "%s (%s)\n", profile.User.Name, summary.Rank)
	fmt.Fprintf(s.out, "quizzes=%d points=%d correct=%d average=%d%% streak=%d\n",
		summary.QuizzesTaken,
		summary.TotalPoints,
		summary.CorrectAnswers,
		summary.AverageScore,
		summary.Streak,
	)
	for _, category := range profile.Categories {
		fmt.Fprintf(s.out, "  %s: %d quizzes, avg %d%%\n", category.Name, category.Quizzes, category.AvgScore)
	}
	for _, achievement := range profile.Achievements {
		if achievement.Earned {
			fmt.Fprintf(s.out, "  [x] %s\n", achievement.Title)
		}
	}
	return nil
}

func (s *session) runPerformance(ctx context.Context) error {
	performance, err := s.client.Performance(ctx, s.userID)
	if err != nil {
		return err
	}

	fmt.Fprintf(s.out, "total=%d average=%d%% best=%d%% time=%s\n",
		performance.TotalQuizzes,
		performance.AverageScore,
		performance.BestScore,
		quiz.FormatTimeTaken(time.Duration(performance.TotalTimeSeconds)*time.Second),
	)
	for _, item := range performance.ByQuiz {
		fmt.Fprintf(s.out, "  %s: %d attempts, best %d%%, avg %d%%\n", item.Title, item.Attempts, item.Best, item.Avg)
	}
	for _, bucket := range performance.Distribution {
		fmt.Fprintf(s.out, "  %s: %d\n", bucket.Name, bucket.Count)
	}
	return nil
}

func (s *session) runSettings(ctx context.Context, args []string) error {
	if len(args) == 1 {
		settings, err := s.client.GetSettings(ctx, s.userID)
		if err != nil {
			return err
		}
		printSettings(s.out, settings)
		return nil
	}

	if len(args) != 3 {
		fmt.Fprintln(s.out, "usage: settings [notifications|timer|sound on|off]")
		return nil
	}
	field, value, err := parseSetting(args[1], args[2])
	if err != nil {
		fmt.Fprintf(s.out, "invalid setting: %v\n", err)
		return nil
	}

	settings, err := s.client.UpdateSettings(ctx, s.userID, map[string]bool{field: value})
	if err != nil {
		return err
	}
	printSettings(s.out, settings)
	return nil
}
