package tracker

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"quizboard/internal/account"
	"quizboard/internal/metrics"
	"quizboard/internal/notify"
	"quizboard/internal/quiz"
	"quizboard/internal/stats"
	"quizboard/internal/streak"
)

type Catalog interface {
	Category(key string) (quiz.Category, error)
}

type Notifier interface {
	Add(ctx context.Context, userID string, kind notify.Kind, message string) (notify.Notification, error)
}

type SettingsReader interface {
	GetSettings(ctx context.Context, userID string) (account.Settings, error)
}

// Completion is what a finished quiz produced.
type Completion struct {
	Result        quiz.Result           `json:"result"`
	Checkpoint    streak.Checkpoint     `json:"checkpoint"`
	Notifications []notify.Notification `json:"notifications"`
}

// Service records completed quizzes and keeps each user's streak checkpoint
// in step with the result log.
type Service struct {
	results     quiz.ResultLog
	checkpoints quiz.CheckpointStore
	catalog     Catalog
	clock       streak.Clock

	notifier Notifier
	settings SettingsReader
	logger   *zap.Logger
	metrics  *metrics.Metrics
	newID    func() string
}

type Option func(*Service)

// WithNotifications enables completion notifications for users whose
// settings allow them.
func WithNotifications(notifier Notifier, settings SettingsReader) Option {
	return func(s *Service) {
		s.notifier = notifier
		s.settings = settings
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithIDGenerator(newID func() string) Option {
	return func(s *Service) {
		if newID != nil {
			s.newID = newID
		}
	}
}

func NewService(results quiz.ResultLog, checkpoints quiz.CheckpointStore, catalog Catalog, clock streak.Clock, opts ...Option) *Service {
	if clock == nil {
		clock = streak.NewSystemClock(nil)
	}
	s := &Service{
		results:     results,
		checkpoints: checkpoints,
		catalog:     catalog,
		clock:       clock,
		logger:      zap.NewNop(),
		newID:       uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SubmitQuiz grades a run, appends it to the log and rewrites the streak
// checkpoint from the log as read back after the append.
func (s *Service) SubmitQuiz(ctx context.Context, userID string, submission quiz.Submission) (Completion, error) {
	category, err := s.catalog.Category(submission.Category)
	if err != nil {
		return Completion{}, err
	}

	now := s.clock.Now()
	finishedAt, err := submission.FinishTime(now)
	if err != nil {
		return Completion{}, err
	}
	elapsed := quiz.Elapsed(submission.StartedAt, finishedAt)
	score := quiz.Grade(category, submission.Answers)

	result, err := quiz.NewResult(s.newID(), category, score, now, elapsed)
	if err != nil {
		return Completion{}, err
	}

	if err := s.results.AppendResult(ctx, userID, result); err != nil {
		return Completion{}, fmt.Errorf("append result: %w", err)
	}
	// Re-read so runs recorded concurrently count toward the checkpoint.
	after, err := s.results.ReadResults(ctx, userID)
	if err != nil {
		return Completion{}, fmt.Errorf("read results: %w", err)
	}
	before := withoutResult(after, result.ID)

	checkpoint, err := s.persistStreak(ctx, userID, after)
	if err != nil {
		return Completion{}, err
	}

	completion := Completion{
		Result:        result,
		Checkpoint:    checkpoint,
		Notifications: s.announce(ctx, userID, before, after, result, elapsed, checkpoint.Streak),
	}

	if s.metrics != nil {
		s.metrics.ObserveCompletion(result.QuizType, result.Percentage)
	}
	s.logger.Info("quiz completed",
		zap.String("user_id", userID),
		zap.String("quiz_type", result.QuizType),
		zap.Int("score", result.Score),
		zap.Int("total", result.TotalQuestions),
		zap.Int("percentage", result.Percentage),
		zap.String("time_taken", result.TimeTaken),
		zap.Int("streak", checkpoint.Streak),
	)
	return completion, nil
}

func withoutResult(results []quiz.Result, id string) []quiz.Result {
	out := make([]quiz.Result, 0, len(results))
	for _, r := range results {
		if r.ID != id {
			out = append(out, r)
		}
	}
	return out
}

// History returns the user's results, newest first.
func (s *Service) History(ctx context.Context, userID string) ([]quiz.Result, error) {
	results, err := s.results.ReadResults(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("read results: %w", err)
	}
	return stats.NewestFirst(results), nil
}

// ClearResults empties the log and writes the resulting zero streak.
func (s *Service) ClearResults(ctx context.Context, userID string) (streak.Checkpoint, error) {
	if err := s.results.ClearResults(ctx, userID); err != nil {
		return streak.Checkpoint{}, fmt.Errorf("clear results: %w", err)
	}
	s.logger.Info("results cleared", zap.String("user_id", userID))
	return s.persistStreak(ctx, userID, nil)
}

// RefreshStreak recomputes the streak from the current log and persists it.
func (s *Service) RefreshStreak(ctx context.Context, userID string) (streak.Checkpoint, error) {
	results, err := s.results.ReadResults(ctx, userID)
	if err != nil {
		return streak.Checkpoint{}, fmt.Errorf("read results: %w", err)
	}
	return s.persistStreak(ctx, userID, results)
}

// LastCheckpoint returns the stored checkpoint without recomputing it. It may
// be stale; RefreshStreak is authoritative.
func (s *Service) LastCheckpoint(ctx context.Context, userID string) (streak.Checkpoint, error) {
	return s.checkpoints.ReadCheckpoint(ctx, userID)
}

func (s *Service) Profile(ctx context.Context, userID string) (stats.Profile, error) {
	results, err := s.results.ReadResults(ctx, userID)
	if err != nil {
		return stats.Profile{}, fmt.Errorf("read results: %w", err)
	}
	checkpoint, err := s.persistStreak(ctx, userID, results)
	if err != nil {
		return stats.Profile{}, err
	}
	return stats.BuildProfile(results, checkpoint.Streak), nil
}

func (s *Service) Performance(ctx context.Context, userID string) (stats.Performance, error) {
	results, err := s.results.ReadResults(ctx, userID)
	if err != nil {
		return stats.Performance{}, fmt.Errorf("read results: %w", err)
	}
	return stats.BuildPerformance(results), nil
}

func (s *Service) persistStreak(ctx context.Context, userID string, results []quiz.Result) (streak.Checkpoint, error) {
	_, checkpoint := streak.Compute(quiz.Dates(results), s.clock.Today(), s.clock.Location())
	if err := s.checkpoints.WriteCheckpoint(ctx, userID, checkpoint); err != nil {
		return streak.Checkpoint{}, fmt.Errorf("write checkpoint: %w", err)
	}
	if s.metrics != nil {
		s.metrics.StreakRecomputes.Inc()
	}
	return checkpoint, nil
}

func (s *Service) announce(ctx context.Context, userID string, before, after []quiz.Result, result quiz.Result, elapsed time.Duration, currentStreak int) []notify.Notification {
	out := []notify.Notification{}
	if s.notifier == nil {
		return out
	}

	if s.settings != nil {
		settings, err := s.settings.GetSettings(ctx, userID)
		if err != nil {
			s.logger.Warn("read settings for notifications", zap.String("user_id", userID), zap.Error(err))
			return out
		}
		if !settings.Notifications {
			return out
		}
	}

	type pending struct {
		kind    notify.Kind
		message string
	}
	messages := []pending{
		{notify.KindScore, fmt.Sprintf("You scored %d/%d (%d%%) on %s.", result.Score, result.TotalQuestions, result.Percentage, result.QuizTitle)},
		{notify.KindPoints, fmt.Sprintf("You earned %d points on %s.", result.Score*stats.PointsPerCorrectAnswer, result.QuizTitle)},
	}
	if elapsed >= quiz.QuizDuration {
		messages = append(messages, pending{notify.KindTime, fmt.Sprintf("Time ran out on %s.", result.QuizTitle)})
	}
	if currentStreak > 1 {
		messages = append(messages, pending{notify.KindStreak, fmt.Sprintf("%d-day streak! Keep it going.", currentStreak)})
	}

	_, previous := streak.Compute(quiz.Dates(before), s.clock.Today(), s.clock.Location())
	earned := stats.NewlyEarned(
		stats.Achievements(before, stats.Summarize(before, previous.Streak)),
		stats.Achievements(after, stats.Summarize(after, currentStreak)),
	)
	for _, achievement := range earned {
		messages = append(messages, pending{notify.KindAchievement, fmt.Sprintf("Achievement unlocked: %s.", achievement.Title)})
	}

	for _, msg := range messages {
		notification, err := s.notifier.Add(ctx, userID, msg.kind, msg.message)
		if err != nil {
			s.logger.Warn("add notification", zap.String("user_id", userID), zap.String("type", string(msg.kind)), zap.Error(err))
			continue
		}
		out = append(out, notification)
	}
	return out
}
