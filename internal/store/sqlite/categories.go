package sqlite

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"quizboard/internal/quiz"
)

// SaveCategory replaces any stored category with the same key.
func (s *Store) SaveCategory(ctx context.Context, category quiz.Category) error {
	if category.Key == "" {
		return errors.New("category key is required")
	}

	questionsJSON, err := json.Marshal(category.Questions)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(
		ctx,
		`INSERT INTO categories (category_key, title, icon, description, color, questions_json, saved_at_unix)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(category_key) DO UPDATE SET
			title = excluded.title,
			icon = excluded.icon,
			description = excluded.description,
			color = excluded.color,
			questions_json = excluded.questions_json,
			saved_at_unix = excluded.saved_at_unix`,
		category.Key,
		category.Title,
		category.Icon,
		category.Description,
		category.Color,
		string(questionsJSON),
		time.Now().UTC().UnixNano(),
	)
	return err
}

func (s *Store) ListCategories(ctx context.Context) ([]quiz.Category, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT category_key, title, icon, description, color, questions_json
		 FROM categories
		 ORDER BY category_key ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := make([]quiz.Category, 0)
	for rows.Next() {
		var (
			category      quiz.Category
			questionsJSON string
		)
		if err := rows.Scan(&category.Key, &category.Title, &category.Icon, &category.Description, &category.Color, &questionsJSON); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(questionsJSON), &category.Questions); err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}

	return categories, rows.Err()
}
