package postgres

import (
	"context"
	"fmt"

	"quizboard/internal/notify"
)

func (s *Store) AddNotification(ctx context.Context, userID string, notification notify.Notification) error {
	query := `
	INSERT INTO notifications (user_id, notification_id, message, kind, read, created_at)
	VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.db.Exec(ctx, query,
		userID,
		notification.ID,
		notification.Message,
		string(notification.Type),
		notification.Read,
		notification.Time.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to add notification: %w", err)
	}
	return nil
}

func (s *Store) ListNotifications(ctx context.Context, userID string) ([]notify.Notification, error) {
	query := `
	SELECT notification_id, message, kind, read, created_at
	FROM notifications
	WHERE user_id = $1
	ORDER BY seq DESC
	`
	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	notifications := make([]notify.Notification, 0)
	for rows.Next() {
		var (
			notification notify.Notification
			kind         string
		)
		if err := rows.Scan(&notification.ID, &notification.Message, &kind, &notification.Read, &notification.Time); err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		notification.Type = notify.Kind(kind)
		notification.Time = notification.Time.UTC()
		notifications = append(notifications, notification)
	}

	return notifications, rows.Err()
}

func (s *Store) MarkNotificationRead(ctx context.Context, userID, id string) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE notifications SET read = TRUE WHERE user_id = $1 AND notification_id = $2`,
		userID, id,
	)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return notify.ErrNotificationNotFound
	}
	return nil
}

func (s *Store) MarkAllNotificationsRead(ctx context.Context, userID string) error {
	if _, err := s.db.Exec(ctx, `UPDATE notifications SET read = TRUE WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return nil
}

func (s *Store) ClearNotifications(ctx context.Context, userID string) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM notifications WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("failed to clear notifications: %w", err)
	}
	return nil
}
