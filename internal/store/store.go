// Package store picks the persistence backend named in the configuration.
package store

import (
	"context"
	"fmt"

	"quizboard/internal/account"
	"quizboard/internal/config"
	"quizboard/internal/notify"
	"quizboard/internal/quiz"
	"quizboard/internal/store/memory"
	"quizboard/internal/store/postgres"
	"quizboard/internal/store/sqlite"
)

// Store is everything the services persist, per user.
type Store interface {
	quiz.ResultLog
	quiz.CheckpointStore
	quiz.CategoryStore
	notify.Store
	account.UserStore
	account.SettingsStore
	Close() error
}

var (
	_ Store = (*memory.Store)(nil)
	_ Store = (*sqlite.Store)(nil)
	_ Store = (*postgres.Store)(nil)
)

func Open(ctx context.Context, cfg config.Storage) (Store, error) {
	switch cfg.Driver {
	case config.DriverMemory:
		return memory.New(), nil
	case config.DriverSQLite, "":
		return sqlite.New(cfg.SQLitePath)
	case config.DriverPostgres:
		dsn, err := cfg.DSN()
		if err != nil {
			return nil, err
		}
		pool, err := postgres.NewPool(ctx, dsn, cfg.MaxConnections, cfg.MaxConnLifetime)
		if err != nil {
			return nil, err
		}
		s, err := postgres.New(ctx, pool)
		if err != nil {
			pool.Close()
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
