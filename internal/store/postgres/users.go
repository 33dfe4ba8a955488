package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"quizboard/internal/account"
)

func (s *Store) CreateUser(ctx context.Context, user account.User) error {
	query := `
	INSERT INTO users (user_id, name, email, password_hash, created_at)
	VALUES ($1, $2, $3, $4, $5)
	`
	_, err := s.db.Exec(ctx, query, user.ID, user.Name, user.Email, user.PasswordHash, user.CreatedAt.UTC())
	if err != nil {
		if isUniqueViolation(err) {
			return account.ErrEmailTaken
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (s *Store) GetUser(ctx context.Context, id string) (account.User, error) {
	return s.scanUser(s.db.QueryRow(ctx,
		`SELECT user_id, name, email, password_hash, created_at FROM users WHERE user_id = $1`,
		id,
	))
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (account.User, error) {
	return s.scanUser(s.db.QueryRow(ctx,
		`SELECT user_id, name, email, password_hash, created_at FROM users WHERE email = $1`,
		email,
	))
}

func (s *Store) scanUser(row pgx.Row) (account.User, error) {
	var user account.User
	if err := row.Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return account.User{}, account.ErrUserNotFound
		}
		return account.User{}, fmt.Errorf("failed to get user: %w", err)
	}
	user.CreatedAt = user.CreatedAt.UTC()
	return user, nil
}

func (s *Store) UpdateUserName(ctx context.Context, id, name string) error {
	tag, err := s.db.Exec(ctx, `UPDATE users SET name = $1 WHERE user_id = $2`, name, id)
	if err != nil {
		return fmt.Errorf("failed to rename user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return account.ErrUserNotFound
	}
	return nil
}

func (s *Store) ReadSettings(ctx context.Context, userID string) (account.Settings, error) {
	var settings account.Settings
	err := s.db.QueryRow(ctx,
		`SELECT notifications, timer_visible, sound FROM settings WHERE user_id = $1`,
		userID,
	).Scan(&settings.Notifications, &settings.TimerVisible, &settings.Sound)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return account.Settings{}, account.ErrSettingsNotFound
		}
		return account.Settings{}, fmt.Errorf("failed to read settings: %w", err)
	}
	return settings, nil
}

func (s *Store) WriteSettings(ctx context.Context, userID string, settings account.Settings) error {
	query := `
	INSERT INTO settings (user_id, notifications, timer_visible, sound)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (user_id) DO UPDATE SET
		notifications = EXCLUDED.notifications,
		timer_visible = EXCLUDED.timer_visible,
		sound = EXCLUDED.sound
	`
	if _, err := s.db.Exec(ctx, query, userID, settings.Notifications, settings.TimerVisible, settings.Sound); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	return nil
}
