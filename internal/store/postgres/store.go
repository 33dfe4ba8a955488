package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

type Store struct {
	db *pgxpool.Pool
}

// NewPool opens a pgx pool with the configured limits and checks it can
// reach the server.
func NewPool(ctx context.Context, dsn string, maxConns int, maxConnLifetime time.Duration) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	if maxConns > 0 {
		poolConfig.MaxConns = int32(maxConns)
	}
	if maxConnLifetime > 0 {
		poolConfig.MaxConnLifetime = maxConnLifetime
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

// New wraps an open pool and makes sure the schema exists.
func New(ctx context.Context, pool *pgxpool.Pool) (*Store, error) {
	store := &Store{db: pool}
	if err := store.initSchema(ctx); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *Store) Close() error {
	s.db.Close()
	return nil
}

func (s *Store) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			user_id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS settings (
			user_id TEXT PRIMARY KEY,
			notifications BOOLEAN NOT NULL,
			timer_visible BOOLEAN NOT NULL,
			sound BOOLEAN NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS results (
			seq BIGSERIAL PRIMARY KEY,
			user_id TEXT NOT NULL,
			result_id TEXT NOT NULL,
			quiz_type TEXT NOT NULL,
			quiz_title TEXT NOT NULL,
			score INTEGER NOT NULL,
			total_questions INTEGER NOT NULL,
			percentage INTEGER NOT NULL,
			completed_at TIMESTAMPTZ NOT NULL,
			time_taken TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS checkpoints (
			user_id TEXT PRIMARY KEY,
			streak INTEGER NOT NULL,
			last_check_date TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS notifications (
			seq BIGSERIAL PRIMARY KEY,
			user_id TEXT NOT NULL,
			notification_id TEXT NOT NULL,
			message TEXT NOT NULL,
			kind TEXT NOT NULL,
			read BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL,
			UNIQUE (user_id, notification_id)
		)`,
		`CREATE TABLE IF NOT EXISTS categories (
			category_key TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			icon TEXT NOT NULL,
			description TEXT NOT NULL,
			color TEXT NOT NULL,
			questions JSONB NOT NULL,
			saved_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_results_user_seq ON results(user_id, seq)`,
		`CREATE INDEX IF NOT EXISTS idx_notifications_user_seq ON notifications(user_id, seq DESC)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
