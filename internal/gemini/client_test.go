package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
)

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func replyWith(status int, body string) roundTripperFunc {
	return func(r *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: status,
			Body:       io.NopCloser(strings.NewReader(body)),
			Header:     make(http.Header),
		}, nil
	}
}

func candidate(text string) string {
	payload, _ := json.Marshal(map[string]any{
		"candidates": []any{
			map[string]any{"content": map[string]any{"parts": []any{map[string]string{"text": text}}}},
		},
	})
	return string(payload)
}

var planets = []string{"Venus", "Mars", "Jupiter", "Saturn"}

func TestSolveSendsPromptAndMatchesOption(t *testing.T) {
	var (
		seen    generateRequest
		path    string
		keySent string
	)
	client := NewClientWithBaseURL("http://gemini.test/", "secret", "", &http.Client{
		Transport: roundTripperFunc(func(r *http.Request) (*http.Response, error) {
			path = r.URL.Path
			keySent = r.Header.Get("x-goog-api-key")
			raw, _ := io.ReadAll(r.Body)
			if err := json.Unmarshal(raw, &seen); err != nil {
				t.Fatalf("decode request: %v", err)
			}
			return &http.Response{
				StatusCode: http.StatusOK,
				Body:       io.NopCloser(bytes.NewReader([]byte(candidate("  mars\n")))),
				Header:     make(http.Header),
			}, nil
		}),
	})

	idx, err := client.Solve(context.Background(), "Which planet is red?", planets)
	if err != nil {
		t.Fatalf("Solve returned error: %v", err)
	}
	if idx != 1 {
		t.Fatalf("index = %d, want 1", idx)
	}
	if path != "/v1beta/models/gemini-1.5-flash:generateContent" {
		t.Fatalf("unexpected path %q", path)
	}
	if keySent != "secret" {
		t.Fatalf("api key header = %q", keySent)
	}
	if seen.GenerationConfig.Temperature != 0 || seen.GenerationConfig.TopK != 1 {
		t.Fatalf("unexpected generation config: %+v", seen.GenerationConfig)
	}
	prompt := seen.Contents[0].Parts[0].Text
	if !strings.Contains(prompt, "Which planet is red?") || !strings.Contains(prompt, "4. Saturn") {
		t.Fatalf("prompt missing question or options: %q", prompt)
	}
}

func TestSolveWithoutKeyIsDisabled(t *testing.T) {
	called := false
	client := NewClient("  ", "", &http.Client{Transport: roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		called = true
		return nil, errors.New("unexpected call")
	})})

	if client.Enabled() {
		t.Fatalf("client with blank key reports enabled")
	}
	if _, err := client.Solve(context.Background(), "q", planets); !errors.Is(err, ErrDisabled) {
		t.Fatalf("expected ErrDisabled, got %v", err)
	}
	if called {
		t.Fatalf("disabled client made a request")
	}
}

func TestSolveUnmatchedAnswer(t *testing.T) {
	client := NewClient("secret", "", &http.Client{Transport: replyWith(http.StatusOK, candidate("Pluto"))})

	if _, err := client.Solve(context.Background(), "q", planets); !errors.Is(err, ErrNoMatch) {
		t.Fatalf("expected ErrNoMatch, got %v", err)
	}
}

func TestSolveUpstreamFailures(t *testing.T) {
	cases := map[string]roundTripperFunc{
		"status":     replyWith(http.StatusTooManyRequests, `{}`),
		"empty":      replyWith(http.StatusOK, `{"candidates":[]}`),
		"malformed":  replyWith(http.StatusOK, `not json`),
		"no network": func(*http.Request) (*http.Response, error) { return nil, errors.New("dial failed") },
	}
	for name, rt := range cases {
		client := NewClient("secret", "", &http.Client{Transport: rt})
		if _, err := client.Solve(context.Background(), "q", planets); !errors.Is(err, ErrUpstream) {
			t.Fatalf("%s: expected ErrUpstream, got %v", name, err)
		}
	}
}

func TestMatchOption(t *testing.T) {
	cases := []struct {
		answer string
		want   int
	}{
		{"Jupiter", 2},
		{"JUPITER", 2},
		{"The answer is Saturn.", 3},
		{"Sat", 3},
		{"", -1},
		{"Neptune", -1},
	}
	for _, tc := range cases {
		if got := MatchOption(tc.answer, planets); got != tc.want {
			t.Fatalf("MatchOption(%q) = %d, want %d", tc.answer, got, tc.want)
		}
	}
	if got := MatchOption("x", []string{"", "x"}); got != 1 {
		t.Fatalf("blank options must be skipped, got %d", got)
	}
}
