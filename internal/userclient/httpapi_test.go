package userclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"quizboard/internal/quiz"
)

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func TestDoJSONReturnsServiceUnavailable(t *testing.T) {
	client := NewHTTPClient("http://example.test", &http.Client{
		Transport: roundTripperFunc(func(*http.Request) (*http.Response, error) {
			return nil, errors.New("dial error")
		}),
	})

	err := client.doJSON(context.Background(), http.MethodGet, "/healthz", nil, nil)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !errors.Is(err, ErrServiceUnavailable) {
		t.Fatalf("expected ErrServiceUnavailable wrapper, got %v", err)
	}
}

func TestDoJSONReturnsAPIErrorMessageFromBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(errorResponse{Error: "user not found"})
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, server.Client())
	_, err := client.GetUser(context.Background(), "ghost")
	if err == nil {
		t.Fatalf("expected API error")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T (%v)", err, err)
	}
	if apiErr.StatusCode != http.StatusNotFound {
		t.Fatalf("status code = %d, want %d", apiErr.StatusCode, http.StatusNotFound)
	}
	if apiErr.Message != "user not found" {
		t.Fatalf("message = %q, want %q", apiErr.Message, "user not found")
	}
}

func TestHistoryBuildsPathAndQuery(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.EscapedPath() != "/users/u%201/results" {
			t.Errorf("path = %q", r.URL.EscapedPath())
		}
		if got := r.URL.Query().Get("limit"); got != "5" {
			t.Errorf("limit query = %q, want 5", got)
		}
		_ = json.NewEncoder(w).Encode(historyResponse{Results: []quiz.Result{{ID: "r1", QuizTitle: "Math"}}})
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL+"/", server.Client())
	results, err := client.History(context.Background(), "u 1", 5)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(results) != 1 || results[0].ID != "r1" {
		t.Fatalf("unexpected results: %+v", results)
	}
}

func TestSubmitResultSendsSubmission(t *testing.T) {
	startedAt := time.Date(2024, time.May, 3, 9, 58, 0, 0, time.UTC)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/users/u1/results" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type = %q", ct)
		}

		body, _ := io.ReadAll(r.Body)
		var submission quiz.Submission
		if err := json.Unmarshal(body, &submission); err != nil {
			t.Errorf("decode submission: %v", err)
		}
		if submission.Category != "math" || submission.Answers[1] != "B" || !submission.StartedAt.Equal(startedAt) {
			t.Errorf("unexpected submission: %+v", submission)
		}

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(completionPayload{Result: quiz.Result{ID: "r1", Score: 1}})
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, server.Client())
	completion, err := client.SubmitResult(context.Background(), "u1", quiz.Submission{
		Category:  "math",
		Answers:   map[int]string{1: "B"},
		StartedAt: startedAt,
	})
	if err != nil {
		t.Fatalf("SubmitResult failed: %v", err)
	}
	if completion.Result.ID != "r1" {
		t.Fatalf("unexpected completion: %+v", completion)
	}
}

func TestUpdateSettingsSendsOnlyChangedFlag(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]bool
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if len(body) != 1 || body["sound"] {
			t.Errorf("unexpected settings body: %+v", body)
		}
		_, _ = w.Write([]byte(`{"notifications":true,"timerVisible":true,"sound":false}`))
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, server.Client())
	settings, err := client.UpdateSettings(context.Background(), "u1", map[string]bool{"sound": false})
	if err != nil {
		t.Fatalf("UpdateSettings failed: %v", err)
	}
	if settings.Sound || !settings.Notifications {
		t.Fatalf("unexpected settings: %+v", settings)
	}
}
