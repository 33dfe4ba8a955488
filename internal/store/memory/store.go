// Package memory keeps every store contract in process memory. It backs the
// "memory" storage driver and the service tests.
package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"quizboard/internal/account"
	"quizboard/internal/notify"
	"quizboard/internal/quiz"
	"quizboard/internal/streak"
)

type Store struct {
	mu            sync.RWMutex
	results       map[string][]quiz.Result
	checkpoints   map[string]streak.Checkpoint
	notifications map[string][]notify.Notification
	users         map[string]account.User
	emails        map[string]string
	settings      map[string]account.Settings
	categories    map[string]quiz.Category
}

func New() *Store {
	return &Store{
		results:       make(map[string][]quiz.Result),
		checkpoints:   make(map[string]streak.Checkpoint),
		notifications: make(map[string][]notify.Notification),
		users:         make(map[string]account.User),
		emails:        make(map[string]string),
		settings:      make(map[string]account.Settings),
		categories:    make(map[string]quiz.Category),
	}
}

func (s *Store) Close() error {
	return nil
}

func (s *Store) AppendResult(ctx context.Context, userID string, result quiz.Result) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results[userID] = append(s.results[userID], result)
	return nil
}

func (s *Store) ReadResults(ctx context.Context, userID string) ([]quiz.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]quiz.Result, len(s.results[userID]))
	copy(out, s.results[userID])
	return out, nil
}

func (s *Store) ClearResults(ctx context.Context, userID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.results, userID)
	return nil
}

func (s *Store) ReadCheckpoint(ctx context.Context, userID string) (streak.Checkpoint, error) {
	if err := ctx.Err(); err != nil {
		return streak.Checkpoint{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	checkpoint, ok := s.checkpoints[userID]
	if !ok {
		return streak.Checkpoint{}, quiz.ErrCheckpointNotFound
	}
	return checkpoint, nil
}

func (s *Store) WriteCheckpoint(ctx context.Context, userID string, checkpoint streak.Checkpoint) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checkpoints[userID] = checkpoint
	return nil
}

func (s *Store) AddNotification(ctx context.Context, userID string, notification notify.Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	// newest first
	s.notifications[userID] = append([]notify.Notification{notification}, s.notifications[userID]...)
	return nil
}

func (s *Store) ListNotifications(ctx context.Context, userID string) ([]notify.Notification, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]notify.Notification, len(s.notifications[userID]))
	copy(out, s.notifications[userID])
	return out, nil
}

func (s *Store) MarkNotificationRead(ctx context.Context, userID, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for idx := range s.notifications[userID] {
		if s.notifications[userID][idx].ID == id {
			s.notifications[userID][idx].Read = true
			return nil
		}
	}
	return notify.ErrNotificationNotFound
}

func (s *Store) MarkAllNotificationsRead(ctx context.Context, userID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for idx := range s.notifications[userID] {
		s.notifications[userID][idx].Read = true
	}
	return nil
}

func (s *Store) ClearNotifications(ctx context.Context, userID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.notifications, userID)
	return nil
}

func (s *Store) CreateUser(ctx context.Context, user account.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.emails[user.Email]; taken {
		return account.ErrEmailTaken
	}
	s.users[user.ID] = user
	s.emails[user.Email] = user.ID
	return nil
}

func (s *Store) GetUser(ctx context.Context, id string) (account.User, error) {
	if err := ctx.Err(); err != nil {
		return account.User{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[id]
	if !ok {
		return account.User{}, account.ErrUserNotFound
	}
	return user, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (account.User, error) {
	if err := ctx.Err(); err != nil {
		return account.User{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.emails[email]
	if !ok {
		return account.User{}, account.ErrUserNotFound
	}
	return s.users[id], nil
}

func (s *Store) UpdateUserName(ctx context.Context, id, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return account.ErrUserNotFound
	}
	user.Name = name
	s.users[id] = user
	return nil
}

func (s *Store) ReadSettings(ctx context.Context, userID string) (account.Settings, error) {
	if err := ctx.Err(); err != nil {
		return account.Settings{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	settings, ok := s.settings[userID]
	if !ok {
		return account.Settings{}, account.ErrSettingsNotFound
	}
	return settings, nil
}

func (s *Store) WriteSettings(ctx context.Context, userID string, settings account.Settings) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings[userID] = settings
	return nil
}

func (s *Store) SaveCategory(ctx context.Context, category quiz.Category) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if category.Key == "" {
		return errors.New("category key is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories[category.Key] = category
	return nil
}

func (s *Store) ListCategories(ctx context.Context) ([]quiz.Category, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]quiz.Category, 0, len(s.categories))
	for _, category := range s.categories {
		out = append(out, category)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Key < out[j].Key
	})
	return out, nil
}
