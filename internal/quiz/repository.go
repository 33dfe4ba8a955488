package quiz

import (
	"context"
	"errors"

	"quizboard/internal/streak"
)

var ErrCheckpointNotFound = errors.New("streak checkpoint not found")

// ResultLog is the append-only per-user log of completed quizzes.
type ResultLog interface {
	AppendResult(ctx context.Context, userID string, result Result) error
	// ReadResults returns results in insertion order.
	ReadResults(ctx context.Context, userID string) ([]Result, error)
	ClearResults(ctx context.Context, userID string) error
}

// CheckpointStore keeps the last streak evaluation per user. Writes
// overwrite the previous checkpoint.
type CheckpointStore interface {
	ReadCheckpoint(ctx context.Context, userID string) (streak.Checkpoint, error)
	WriteCheckpoint(ctx context.Context, userID string, checkpoint streak.Checkpoint) error
}

// CategoryStore persists categories imported at runtime so they survive a
// restart without being fetched again.
type CategoryStore interface {
	SaveCategory(ctx context.Context, category Category) error
	ListCategories(ctx context.Context) ([]Category, error)
}
