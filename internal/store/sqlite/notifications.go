package sqlite

import (
	"context"
	"time"

	"quizboard/internal/notify"
)

func (s *Store) AddNotification(ctx context.Context, userID string, notification notify.Notification) error {
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO notifications (user_id, notification_id, message, kind, read, created_at_unix)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		userID,
		notification.ID,
		notification.Message,
		string(notification.Type),
		boolToInt(notification.Read),
		notification.Time.UTC().UnixNano(),
	)
	return err
}

func (s *Store) ListNotifications(ctx context.Context, userID string) ([]notify.Notification, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT notification_id, message, kind, read, created_at_unix
		 FROM notifications
		 WHERE user_id = ?
		 ORDER BY seq DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notifications := make([]notify.Notification, 0)
	for rows.Next() {
		var (
			notification notify.Notification
			kind         string
			read         int
			createdAtNs  int64
		)
		if err := rows.Scan(&notification.ID, &notification.Message, &kind, &read, &createdAtNs); err != nil {
			return nil, err
		}
		notification.Type = notify.Kind(kind)
		notification.Read = read != 0
		notification.Time = time.Unix(0, createdAtNs).UTC()
		notifications = append(notifications, notification)
	}

	return notifications, rows.Err()
}

func (s *Store) MarkNotificationRead(ctx context.Context, userID, id string) error {
	res, err := s.db.ExecContext(
		ctx,
		`UPDATE notifications SET read = 1 WHERE user_id = ? AND notification_id = ?`,
		userID,
		id,
	)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return notify.ErrNotificationNotFound
	}
	return nil
}

func (s *Store) MarkAllNotificationsRead(ctx context.Context, userID string) error {
	_, err := s.db.ExecContext(ctx, `UPDATE notifications SET read = 1 WHERE user_id = ?`, userID)
	return err
}

func (s *Store) ClearNotifications(ctx context.Context, userID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM notifications WHERE user_id = ?`, userID)
	return err
}
