package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"quizboard/internal/account"
)

func (s *Store) CreateUser(ctx context.Context, user account.User) error {
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO users (user_id, name, email, password_hash, created_at_unix)
		 VALUES (?, ?, ?, ?, ?)`,
		user.ID,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.CreatedAt.UTC().UnixNano(),
	)
	if isUniqueViolation(err) {
		return account.ErrEmailTaken
	}
	return err
}

func (s *Store) GetUser(ctx context.Context, id string) (account.User, error) {
	return s.scanUser(s.db.QueryRowContext(
		ctx,
		`SELECT user_id, name, email, password_hash, created_at_unix FROM users WHERE user_id = ?`,
		id,
	))
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (account.User, error) {
	return s.scanUser(s.db.QueryRowContext(
		ctx,
		`SELECT user_id, name, email, password_hash, created_at_unix FROM users WHERE email = ?`,
		email,
	))
}

func (s *Store) scanUser(row *sql.Row) (account.User, error) {
	var (
		user        account.User
		createdAtNs int64
	)
	if err := row.Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &createdAtNs); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return account.User{}, account.ErrUserNotFound
		}
		return account.User{}, err
	}
	user.CreatedAt = time.Unix(0, createdAtNs).UTC()
	return user, nil
}

func (s *Store) UpdateUserName(ctx context.Context, id, name string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE users SET name = ? WHERE user_id = ?`, name, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return account.ErrUserNotFound
	}
	return nil
}

func (s *Store) ReadSettings(ctx context.Context, userID string) (account.Settings, error) {
	var notifications, timerVisible, sound int
	err := s.db.QueryRowContext(
		ctx,
		`SELECT notifications, timer_visible, sound FROM settings WHERE user_id = ?`,
		userID,
	).Scan(&notifications, &timerVisible, &sound)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return account.Settings{}, account.ErrSettingsNotFound
		}
		return account.Settings{}, err
	}
	return account.Settings{
		Notifications: notifications != 0,
		TimerVisible:  timerVisible != 0,
		Sound:         sound != 0,
	}, nil
}

func (s *Store) WriteSettings(ctx context.Context, userID string, settings account.Settings) error {
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO settings (user_id, notifications, timer_visible, sound)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET
			notifications = excluded.notifications,
			timer_visible = excluded.timer_visible,
			sound = excluded.sound`,
		userID,
		boolToInt(settings.Notifications),
		boolToInt(settings.TimerVisible),
		boolToInt(settings.Sound),
	)
	return err
}
