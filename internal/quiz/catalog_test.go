package quiz

import (
	"errors"
	"strings"
	"testing"
)

func TestDefaultCatalogLoads(t *testing.T) {
	catalog, err := DefaultCatalog()
	if err != nil {
		t.Fatalf("DefaultCatalog failed: %v", err)
	}

	categories := catalog.List()
	if len(categories) == 0 {
		t.Fatalf("expected bundled categories")
	}
	for idx := 1; idx < len(categories); idx++ {
		if categories[idx-1].Key >= categories[idx].Key {
			t.Fatalf("categories not ordered by key: %q before %q", categories[idx-1].Key, categories[idx].Key)
		}
	}

	html, err := catalog.Get("html")
	if err != nil {
		t.Fatalf("Get(html) failed: %v", err)
	}
	for _, question := range html.Questions {
		if question.ID == "" {
			t.Fatalf("question id not derived: %+v", question)
		}
		if question.CorrectIndex() < 0 {
			t.Fatalf("question without a correct answer: %q", question.Question)
		}
	}
}

func TestParseCatalogUsesMapKeyAsCategoryKey(t *testing.T) {
	body := `{"quizzes":{"go":{"id":"ignored","title":"Go","description":"d","questions":[{"question":"q","answers":[{"text":"a","correct":true}]}]}}}`
	catalog, err := ParseCatalog(strings.NewReader(body))
	if err != nil {
		t.Fatalf("ParseCatalog failed: %v", err)
	}

	category, err := catalog.Get("go")
	if err != nil {
		t.Fatalf("Get(go) failed: %v", err)
	}
	if category.Key != "go" || category.Title != "Go" {
		t.Fatalf("unexpected category: %+v", category)
	}
}

func TestParseCatalogRejectsEmptyCategory(t *testing.T) {
	body := `{"quizzes":{"empty":{"title":"Empty","questions":[]}}}`
	if _, err := ParseCatalog(strings.NewReader(body)); err == nil {
		t.Fatalf("expected error for category without questions")
	}
}

func TestCatalogGetUnknown(t *testing.T) {
	catalog := NewCatalog()
	if _, err := catalog.Get("missing"); !errors.Is(err, ErrCategoryNotFound) {
		t.Fatalf("expected ErrCategoryNotFound, got %v", err)
	}
}

func TestCatalogAddReplaces(t *testing.T) {
	catalog := NewCatalog(Category{Key: "k", Title: "Old", Questions: []Question{{Question: "q"}}})
	catalog.Add(Category{Key: "k", Title: "New", Questions: []Question{{Question: "q"}}})

	category, err := catalog.Get("k")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if category.Title != "New" {
		t.Fatalf("title = %q, want New", category.Title)
	}
}
