package quiz

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"quizboard/internal/opentdb"
)

const (
	TriviaKey   = "trivia"
	TriviaTitle = "General Trivia"
)

type QuestionsFetcher func(ctx context.Context, amount int) ([]opentdb.RawQuestion, error)

// Service serves the category catalog. Categories imported at runtime are
// written through to the CategoryStore so a restart can restore them.
type Service struct {
	catalog *Catalog
	store   CategoryStore
	fetcher QuestionsFetcher
}

func NewService(catalog *Catalog, store CategoryStore, fetcher QuestionsFetcher) *Service {
	if catalog == nil {
		catalog = NewCatalog()
	}
	return &Service{
		catalog: catalog,
		store:   store,
		fetcher: fetcher,
	}
}

func (s *Service) Categories() []Category {
	return s.catalog.List()
}

func (s *Service) Category(key string) (Category, error) {
	return s.catalog.Get(key)
}

// Restore loads previously imported categories into the catalog and reports
// how many were added.
func (s *Service) Restore(ctx context.Context) (int, error) {
	if s.store == nil {
		return 0, nil
	}

	categories, err := s.store.ListCategories(ctx)
	if err != nil {
		return 0, fmt.Errorf("list stored categories: %w", err)
	}
	for _, category := range categories {
		s.catalog.Add(category)
	}
	return len(categories), nil
}

// ImportTrivia fetches a trivia category once. When the catalog already has
// one it is returned without another fetch.
func (s *Service) ImportTrivia(ctx context.Context, amount int) (Category, error) {
	existing, err := s.catalog.Get(TriviaKey)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, ErrCategoryNotFound) {
		return Category{}, err
	}

	if s.fetcher == nil {
		return Category{}, errors.New("question fetcher is not configured")
	}

	rawQuestions, err := s.fetcher(ctx, amount)
	if err != nil {
		return Category{}, fmt.Errorf("fetch trivia questions: %w", err)
	}

	category := BuildCategory(TriviaKey, TriviaTitle, rawQuestions)
	if len(category.Questions) == 0 {
		return Category{}, errors.New("trivia import returned no questions")
	}

	if s.store != nil {
		if err := s.store.SaveCategory(ctx, category); err != nil {
			return Category{}, fmt.Errorf("save trivia category: %w", err)
		}
	}
	s.catalog.Add(category)
	return category, nil
}

// Lookup resolves a user-typed key; matching is case-insensitive.
func (s *Service) Lookup(input string) (Category, error) {
	key := strings.ToLower(strings.TrimSpace(input))
	if key == "" {
		return Category{}, ErrCategoryNotFound
	}
	return s.catalog.Get(key)
}
