package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrNotificationNotFound = errors.New("notification not found")

type Kind string

const (
	KindAchievement Kind = "achievement"
	KindScore       Kind = "score"
	KindStreak      Kind = "streak"
	KindTime        Kind = "time"
	KindPoints      Kind = "points"
	KindSystem      Kind = "system"
)

func (k Kind) Valid() bool {
	switch k {
	case KindAchievement, KindScore, KindStreak, KindTime, KindPoints, KindSystem:
		return true
	default:
		return false
	}
}

type Notification struct {
	ID      string    `json:"id"`
	Message string    `json:"message"`
	Time    time.Time `json:"time"`
	Read    bool      `json:"read"`
	Type    Kind      `json:"type"`
}

// Store persists the notification panel of each user.
type Store interface {
	AddNotification(ctx context.Context, userID string, notification Notification) error
	// ListNotifications returns the newest notification first.
	ListNotifications(ctx context.Context, userID string) ([]Notification, error)
	// MarkNotificationRead returns ErrNotificationNotFound for an unknown id.
	MarkNotificationRead(ctx context.Context, userID, id string) error
	MarkAllNotificationsRead(ctx context.Context, userID string) error
	ClearNotifications(ctx context.Context, userID string) error
}

type Service struct {
	store  Store
	now    func() time.Time
	logger *zap.Logger
}

func NewService(store Store, now func() time.Time, logger *zap.Logger) *Service {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:  store,
		now:    now,
		logger: logger,
	}
}

func (s *Service) List(ctx context.Context, userID string) ([]Notification, error) {
	notifications, err := s.store.ListNotifications(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	if notifications == nil {
		notifications = []Notification{}
	}
	return notifications, nil
}

// Add stores a new unread notification stamped with the current time.
func (s *Service) Add(ctx context.Context, userID string, kind Kind, message string) (Notification, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return Notification{}, errors.New("notification message is required")
	}
	if !kind.Valid() {
		return Notification{}, fmt.Errorf("unknown notification type %q", kind)
	}

	notification := Notification{
		ID:      uuid.NewString(),
		Message: message,
		Time:    s.now().UTC(),
		Type:    kind,
	}
	if err := s.store.AddNotification(ctx, userID, notification); err != nil {
		return Notification{}, fmt.Errorf("add notification: %w", err)
	}

	s.logger.Debug("notification added",
		zap.String("user_id", userID),
		zap.String("notification_id", notification.ID),
		zap.String("type", string(kind)),
	)
	return notification, nil
}

func (s *Service) MarkAsRead(ctx context.Context, userID, id string) error {
	if err := s.store.MarkNotificationRead(ctx, userID, id); err != nil {
		if errors.Is(err, ErrNotificationNotFound) {
			return err
		}
		return fmt.Errorf("mark notification read: %w", err)
	}
	return nil
}

func (s *Service) MarkAllAsRead(ctx context.Context, userID string) error {
	if err := s.store.MarkAllNotificationsRead(ctx, userID); err != nil {
		return fmt.Errorf("mark all notifications read: %w", err)
	}
	return nil
}

func (s *Service) ClearAll(ctx context.Context, userID string) error {
	if err := s.store.ClearNotifications(ctx, userID); err != nil {
		return fmt.Errorf("clear notifications: %w", err)
	}
	return nil
}

func (s *Service) UnreadCount(ctx context.Context, userID string) (int, error) {
	notifications, err := s.List(ctx, userID)
	if err != nil {
		return 0, err
	}
	return CountUnread(notifications), nil
}

func CountUnread(notifications []Notification) int {
	count := 0
	for _, notification := range notifications {
		if !notification.Read {
			count++
		}
	}
	return count
}
