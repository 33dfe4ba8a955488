package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"quizboard/internal/quiz"
	"quizboard/internal/streak"
)

func (s *Store) AppendResult(ctx context.Context, userID string, result quiz.Result) error {
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO results (user_id, result_id, quiz_type, quiz_title, score, total_questions, percentage, completed_at_unix, time_taken)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		userID,
		result.ID,
		result.QuizType,
		result.QuizTitle,
		result.Score,
		result.TotalQuestions,
		result.Percentage,
		result.Date.UTC().UnixNano(),
		result.TimeTaken,
	)
	return err
}

func (s *Store) ReadResults(ctx context.Context, userID string) ([]quiz.Result, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT result_id, quiz_type, quiz_title, score, total_questions, percentage, completed_at_unix, time_taken
		 FROM results
		 WHERE user_id = ?
		 ORDER BY seq ASC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := make([]quiz.Result, 0)
	for rows.Next() {
		var (
			result        quiz.Result
			completedAtNs int64
		)
		if err := rows.Scan(
			&result.ID,
			&result.QuizType,
			&result.QuizTitle,
			&result.Score,
			&result.TotalQuestions,
			&result.Percentage,
			&completedAtNs,
			&result.TimeTaken,
		); err != nil {
			return nil, err
		}
		result.Date = time.Unix(0, completedAtNs).UTC()
		results = append(results, result)
	}

	return results, rows.Err()
}

func (s *Store) ClearResults(ctx context.Context, userID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM results WHERE user_id = ?`, userID)
	return err
}

func (s *Store) ReadCheckpoint(ctx context.Context, userID string) (streak.Checkpoint, error) {
	var (
		checkpoint streak.Checkpoint
		lastCheck  string
	)
	err := s.db.QueryRowContext(
		ctx,
		`SELECT streak, last_check_date FROM checkpoints WHERE user_id = ?`,
		userID,
	).Scan(&checkpoint.Streak, &lastCheck)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return streak.Checkpoint{}, quiz.ErrCheckpointNotFound
		}
		return streak.Checkpoint{}, err
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
	_, err = s.db.ExecContext(
		ctx,
		`INSERT INTO checkpoints (user_id, streak, last_check_date)
		 VALUES (?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET
			streak = excluded.streak,
			last_check_date = excluded.last_check_date`,
		userID,
		checkpoint.Streak,
		string(lastCheck),
	)
	return err
}
