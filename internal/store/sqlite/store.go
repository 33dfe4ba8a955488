package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/mattn/go-sqlite3"
)

type Store struct {
	db *sql.DB
}

func New(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		path = "quizboard.db"
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`PRAGMA busy_timeout = 5000;`); err != nil {
		_ = db.Close()
		return nil, err
	}

	store := &Store{db: db}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			user_id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			created_at_unix INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS settings (
			user_id TEXT PRIMARY KEY,
			notifications INTEGER NOT NULL,
			timer_visible INTEGER NOT NULL,
			sound INTEGER NOT NULL
		);`,
		// seq keeps insertion order independent of the completion date.
		`CREATE TABLE IF NOT EXISTS results (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id TEXT NOT NULL,
			result_id TEXT NOT NULL,
			quiz_type TEXT NOT NULL,
			quiz_title TEXT NOT NULL,
			score INTEGER NOT NULL,
			total_questions INTEGER NOT NULL,
			percentage INTEGER NOT NULL,
			completed_at_unix INTEGER NOT NULL,
			time_taken TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS checkpoints (
			user_id TEXT PRIMARY KEY,
			streak INTEGER NOT NULL,
			last_check_date TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS notifications (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id TEXT NOT NULL,
			notification_id TEXT NOT NULL,
			message TEXT NOT NULL,
			kind TEXT NOT NULL,
			read INTEGER NOT NULL DEFAULT 0,
			created_at_unix INTEGER NOT NULL,
			UNIQUE (user_id, notification_id)
		);`,
		`CREATE TABLE IF NOT EXISTS categories (
			category_key TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			icon TEXT NOT NULL,
			description TEXT NOT NULL,
			color TEXT NOT NULL,
			questions_json TEXT NOT NULL,
			saved_at_unix INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_results_user_seq ON results(user_id, seq);`,
		`CREATE INDEX IF NOT EXISTS idx_notifications_user_seq ON notifications(user_id, seq DESC);`,
	}

	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return false
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
