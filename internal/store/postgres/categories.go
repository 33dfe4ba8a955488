package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"quizboard/internal/quiz"
)

func (s *Store) SaveCategory(ctx context.Context, category quiz.Category) error {
	if category.Key == "" {
		return errors.New("category key is required")
	}

	questionsJSON, err := json.Marshal(category.Questions)
	if err != nil {
		return err
	}

	query := `
	INSERT INTO categories (category_key, title, icon, description, color, questions, saved_at)
	VALUES ($1, $2, $3, $4, $5, $6, NOW())
	ON CONFLICT (category_key) DO UPDATE SET
		title = EXCLUDED.title,
		icon = EXCLUDED.icon,
		description = EXCLUDED.description,
		color = EXCLUDED.color,
		questions = EXCLUDED.questions,
		saved_at = EXCLUDED.saved_at
	`
	_, err = s.db.Exec(ctx, query,
		category.Key,
		category.Title,
		category.Icon,
		category.Description,
		category.Color,
		questionsJSON,
	)
	if err != nil {
		return fmt.Errorf("failed to save category: %w", err)
	}
	return nil
}

func (s *Store) ListCategories(ctx context.Context) ([]quiz.Category, error) {
	rows, err := s.db.Query(ctx, `
	SELECT category_key, title, icon, description, color, questions
	FROM categories
	ORDER BY category_key ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	categories := make([]quiz.Category, 0)
	for rows.Next() {
		var (
			category      quiz.Category
			questionsJSON []byte
		)
		if err := rows.Scan(&category.Key, &category.Title, &category.Icon, &category.Description, &category.Color, &questionsJSON); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		if err := json.Unmarshal(questionsJSON, &category.Questions); err != nil {
			return nil, fmt.Errorf("failed to decode category questions: %w", err)
		}
		categories = append(categories, category)
	}

	return categories, rows.Err()
}
