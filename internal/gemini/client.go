package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

const (
	DefaultBaseURL  = "https://generativelanguage.googleapis.com"
	DefaultModel    = "gemini-1.5-flash"
	maxOutputTokens = 100
)

var (
	// ErrDisabled is returned when no API key is configured.
	ErrDisabled = errors.New("answer hints are disabled")
	// ErrNoMatch means the model replied with text that names none of the options.
	ErrNoMatch  = errors.New("model answer matches no option")
	ErrUpstream = errors.New("gemini request failed")
)

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	TopK            int     `json:"topK"`
	TopP            float64 `json:"topP"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

type Client struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

func NewClient(apiKey, model string, httpClient *http.Client) *Client {
	return NewClientWithBaseURL(DefaultBaseURL, apiKey, model, httpClient)
}

func NewClientWithBaseURL(baseURL, apiKey, model string, httpClient *http.Client) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	if strings.TrimSpace(model) == "" {
		model = DefaultModel
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		apiKey:     strings.TrimSpace(apiKey),
		model:      model,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

func (c *Client) Enabled() bool {
	return c != nil && c.apiKey != ""
}

// Solve asks the model for the correct option and returns its index.
func (c *Client) Solve(ctx context.Context, question string, options []string) (int, error) {
	if !c.Enabled() {
		return -1, ErrDisabled
	}

	answer, err := c.generate(ctx, Prompt(question, options))
	if err != nil {
		return -1, err
	}
	idx := MatchOption(answer, options)
	if idx < 0 {
		return -1, fmt.Errorf("%w: %q", ErrNoMatch, answer)
	}
	return idx, nil
}

// Prompt asks for the option text alone so the reply can be matched back.
func Prompt(question string, options []string) string {
	var b strings.Builder
	b.WriteString("You are a perfect quiz solver. Answer ONLY with the exact correct option text, nothing else.\n\n")
	b.WriteString("Question: ")
	b.WriteString(question)
	b.WriteString("\n\nOptions:\n")
	for i, option := range options {
		fmt.Fprintf(&b, "%d. %s\n", i+1, option)
	}
	return b.String()
}

// MatchOption finds the first option that contains the answer or is contained
// in it, ignoring case. It returns -1 when none does.
func MatchOption(answer string, options []string) int {
	answer = strings.ToLower(strings.TrimSpace(answer))
	if answer == "" {
		return -1
	}
	for i, option := range options {
		option = strings.ToLower(strings.TrimSpace(option))
		if option == "" {
			continue
		}
		if strings.Contains(option, answer) || strings.Contains(answer, option) {
			return i
		}
	}
	return -1
}

func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(generateRequest{
		Contents: []content{{Role: "user", Parts: []part{{Text: prompt}}}},
		GenerationConfig: generationConfig{
			Temperature:     0,
			TopK:            1,
			TopP:            1,
			MaxOutputTokens: maxOutputTokens,
		},
	})
	if err != nil {
		return "", err
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, url.PathEscape(c.model))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}

	var payload generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	if len(payload.Candidates) == 0 || len(payload.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("%w: empty response", ErrUpstream)
	}
	return strings.TrimSpace(payload.Candidates[0].Content.Parts[0].Text), nil
}
