package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"quizboard/internal/quiz"
	"quizboard/internal/streak"
)

func (s *Store) AppendResult(ctx context.Context, userID string, result quiz.Result) error {
	query := `
	INSERT INTO results (user_id, result_id, quiz_type, quiz_title, score, total_questions, percentage, completed_at, time_taken)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := s.db.Exec(ctx, query,
		userID,
		result.ID,
		result.QuizType,
		result.QuizTitle,
		result.Score,
		result.TotalQuestions,
		result.Percentage,
		result.Date.UTC(),
		result.TimeTaken,
	)
	if err != nil {
		return fmt.Errorf("failed to append result: %w", err)
	}
	return nil
}

func (s *Store) ReadResults(ctx context.Context, userID string) ([]quiz.Result, error) {
	query := `
	SELECT result_id, quiz_type, quiz_title, score, total_questions, percentage, completed_at, time_taken
	FROM results
	WHERE user_id = $1
	ORDER BY seq ASC
	`
	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to read results: %w", err)
	}
	defer rows.Close()

	results := make([]quiz.Result, 0)
	for rows.Next() {
		var result quiz.Result
		if err := rows.Scan(
			&result.ID,
			&result.QuizType,
			&result.QuizTitle,
			&result.Score,
			&result.TotalQuestions,
			&result.Percentage,
			&result.Date,
			&result.TimeTaken,
		); err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		result.Date = result.Date.UTC()
		results = append(results, result)
	}

	return results, rows.Err()
}

func (s *Store) ClearResults(ctx context.Context, userID string) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM results WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("failed to clear results: %w", err)
	}
	return nil
}

func (s *Store) ReadCheckpoint(ctx context.Context, userID string) (streak.Checkpoint, error) {
	var (
		checkpoint streak.Checkpoint
		lastCheck  string
	)
	err := s.db.QueryRow(ctx,
		`SELECT streak, last_check_date FROM checkpoints WHERE user_id = $1`,
		userID,
	).Scan(&checkpoint.Streak, &lastCheck)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return streak.Checkpoint{}, quiz.ErrCheckpointNotFound
		}
		return streak.Checkpoint{}, fmt.Errorf("failed to read checkpoint: %w", err)
	}

	if err := checkpoint.LastCheckDate.UnmarshalText([]byte(lastCheck)); err != nil {
		return streak.Checkpoint{}, err
	}
	return checkpoint, nil
}

func (s *Store) WriteCheckpoint(ctx context.Context, userID string, checkpoint streak.Checkpoint) error {
	lastCheck, err := checkpoint.LastCheckDate.MarshalText()
	if err != nil {
		return err
	}
	query := `
	INSERT INTO checkpoints (user_id, streak, last_check_date)
	VALUES ($1, $2, $3)
	ON CONFLICT (user_id) DO UPDATE SET
		streak = EXCLUDED.streak,
		last_check_date = EXCLUDED.last_check_date
	`
	if _, err := s.db.Exec(ctx, query, userID, checkpoint.Streak, string(lastCheck)); err != nil {
		return fmt.Errorf("failed to write checkpoint: %w", err)
	}
	return nil
}
