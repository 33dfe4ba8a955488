package quiz

import (
	_ "embed"

	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
)

var ErrCategoryNotFound = errors.New("quiz category not found")

//go:embed catalog.json
var defaultCatalogJSON []byte

type Answer struct {
	Text    string `json:"text"`
	Correct bool   `json:"correct"`
}

type Question struct {
	ID       string   `json:"id"`
	Question string   `json:"question"`
	Answers  []Answer `json:"answers"`
}

// CorrectIndex returns the index of the first correct answer, or -1.
func (q Question) CorrectIndex() int {
	for idx, answer := range q.Answers {
		if answer.Correct {
			return idx
		}
	}
	return -1
}

type Category struct {
	Key         string     `json:"id"`
	Title       string     `json:"title"`
	Icon        string     `json:"icon,omitempty"`
	Description string     `json:"description"`
	Color       string     `json:"color,omitempty"`
	Questions   []Question `json:"questions"`
}

type fixture struct {
	Quizzes map[string]Category `json:"quizzes"`
}

// Catalog holds the quiz categories served to players. It is safe for
// concurrent use.
type Catalog struct {
	mu         sync.RWMutex
	categories map[string]Category
}

func NewCatalog(categories ...Category) *Catalog {
	c := &Catalog{categories: make(map[string]Category, len(categories))}
	for _, category := range categories {
		c.Add(category)
	}
	return c
}

// DefaultCatalog returns the catalog bundled with the binary.
func DefaultCatalog() (*Catalog, error) {
	return ParseCatalog(bytes.NewReader(defaultCatalogJSON))
}

func LoadCatalog(path string) (*Catalog, error) {
	if strings.TrimSpace(path) == "" {
		return DefaultCatalog()
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()

	return ParseCatalog(f)
}

func ParseCatalog(r io.Reader) (*Catalog, error) {
	var payload fixture
	if err := json.NewDecoder(r).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	catalog := NewCatalog()
	for key, category := range payload.Quizzes {
		if len(category.Questions) == 0 {
			return nil, fmt.Errorf("category %q has no questions", key)
		}
		category.Key = key
		catalog.Add(category)
	}
	return catalog, nil
}

// Add registers or replaces a category. Missing question IDs are derived
// from the prompt and answer texts.
func (c *Catalog) Add(category Category) {
	questions := make([]Question, len(category.Questions))
	for idx, question := range category.Questions {
		if question.ID == "" {
			question.ID = makeQuestionID(question)
		}
		questions[idx] = question
	}
	category.Questions = questions

	c.mu.Lock()
	c.categories[category.Key] = category
	c.mu.Unlock()
}

func (c *Catalog) Get(key string) (Category, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	category, ok := c.categories[strings.TrimSpace(key)]
	if !ok {
		return Category{}, ErrCategoryNotFound
	}
	return category, nil
}

// List returns all categories ordered by key.
func (c *Catalog) List() []Category {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Category, 0, len(c.categories))
	for _, category := range c.categories {
		out = append(out, category)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Key < out[j].Key
	})
	return out
}
