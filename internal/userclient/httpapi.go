package userclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"quizboard/internal/account"
	"quizboard/internal/notify"
	"quizboard/internal/quiz"
	"quizboard/internal/stats"
	"quizboard/internal/streak"
)

var ErrServiceUnavailable = errors.New("quiz service unavailable")

type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if strings.TrimSpace(e.Message) == "" {
		return fmt.Sprintf("request failed with status %d", e.StatusCode)
	}
	return e.Message
}

type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

type userPayload struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type categoryItem struct {
	Key           string `json:"key"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	QuestionCount int    `json:"question_count"`
}

type categoriesResponse struct {
	Categories []categoryItem `json:"categories"`
}

type categoryPayload struct {
	categoryItem
	DurationSeconds int                   `json:"duration_seconds"`
	Questions       []quiz.PublicQuestion `json:"questions"`
}

type hintPayload struct {
	QuestionIndex int `json:"question_index"`
	quiz.Option
}

type completionPayload struct {
	Result        quiz.Result           `json:"result"`
	Checkpoint    streak.Checkpoint     `json:"checkpoint"`
	Notifications []notify.Notification `json:"notifications"`
}

type historyResponse struct {
	Results []quiz.Result `json:"results"`
}

type streakPayload struct {
	Streak     int               `json:"streak"`
	Checkpoint streak.Checkpoint `json:"checkpoint"`
}

type profilePayload struct {
	User userPayload `json:"user"`
	stats.Profile
}

type notificationsPayload struct {
	Notifications []notify.Notification `json:"notifications"`
	UnreadCount   int                   `json:"unread_count"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func NewHTTPClient(baseURL string, httpClient *http.Client) *HTTPClient {
	baseURL = strings.TrimSpace(baseURL)
	baseURL = strings.TrimRight(baseURL, "/")
	if baseURL == "" {
		baseURL = defaultServer
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &HTTPClient{
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

func userPath(userID string, parts ...string) string {
	path := "/users/" + url.PathEscape(userID)
	for _, part := range parts {
		path += "/" + part
	}
	return path
}

func (c *HTTPClient) GetUser(ctx context.Context, userID string) (userPayload, error) {
	var payload userPayload
	err := c.doJSON(ctx, http.MethodGet, userPath(userID), nil, &payload)
	return payload, err
}

func (c *HTTPClient) ListCategories(ctx context.Context) ([]categoryItem, error) {
	var payload categoriesResponse
	if err := c.doJSON(ctx, http.MethodGet, "/categories", nil, &payload); err != nil {
		return nil, err
	}
	return payload.Categories, nil
}

func (c *HTTPClient) GetCategory(ctx context.Context, key string) (categoryPayload, error) {
	if strings.TrimSpace(key) == "" {
		return categoryPayload{}, errors.New("category key is required")
	}

	var payload categoryPayload
	err := c.doJSON(ctx, http.MethodGet, "/categories/"+url.PathEscape(key), nil, &payload)
	return payload, err
}

// Hint asks for the likely answer to the question at a zero-based index.
func (c *HTTPClient) Hint(ctx context.Context, key string, index int) (hintPayload, error) {
	var payload hintPayload
	path := "/categories/" + url.PathEscape(key) + "/questions/" + strconv.Itoa(index) + "/hint"
	err := c.doJSON(ctx, http.MethodGet, path, nil, &payload)
	return payload, err
}

func (c *HTTPClient) SubmitResult(ctx context.Context, userID string, submission quiz.Submission) (completionPayload, error) {
	var payload completionPayload
	err := c.doJSON(ctx, http.MethodPost, userPath(userID, "results"), submission, &payload)
	return payload, err
}

func (c *HTTPClient) History(ctx context.Context, userID string, limit int) ([]quiz.Result, error) {
	path := userPath(userID, "results")
	if limit > 0 {
		query := url.Values{}
		query.Set("limit", strconv.Itoa(limit))
		path += "?" + query.Encode()
	}

	var payload historyResponse
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &payload); err != nil {
		return nil, err
	}
	return payload.Results, nil
}

func (c *HTTPClient) ClearResults(ctx context.Context, userID string) (streakPayload, error) {
	var payload streakPayload
	err := c.doJSON(ctx, http.MethodDelete, userPath(userID, "results"), nil, &payload)
	return payload, err
}

func (c *HTTPClient) Streak(ctx context.Context, userID string) (streakPayload, error) {
	var payload streakPayload
	err := c.doJSON(ctx, http.MethodGet, userPath(userID, "streak"), nil, &payload)
	return payload, err
}

func (c *HTTPClient) Profile(ctx context.Context, userID string) (profilePayload, error) {
	var payload profilePayload
	err := c.doJSON(ctx, http.MethodGet, userPath(userID, "profile"), nil, &payload)
	return payload, err
}

func (c *HTTPClient) Performance(ctx context.Context, userID string) (stats.Performance, error) {
	var payload stats.Performance
	err := c.doJSON(ctx, http.MethodGet, userPath(userID, "performance"), nil, &payload)
	return payload, err
}

func (c *HTTPClient) Notifications(ctx context.Context, userID string, unreadOnly bool) (notificationsPayload, error) {
	path := userPath(userID, "notifications")
	if unreadOnly {
		path += "?unread=true"
	}

	var payload notificationsPayload
	err := c.doJSON(ctx, http.MethodGet, path, nil, &payload)
	return payload, err
}

func (c *HTTPClient) MarkRead(ctx context.Context, userID, id string) (notificationsPayload, error) {
	var payload notificationsPayload
	err := c.doJSON(ctx, http.MethodPost, userPath(userID, "notifications", url.PathEscape(id), "read"), nil, &payload)
	return payload, err
}

func (c *HTTPClient) MarkAllRead(ctx context.Context, userID string) (notificationsPayload, error) {
	var payload notificationsPayload
	err := c.doJSON(ctx, http.MethodPost, userPath(userID, "notifications", "read-all"), nil, &payload)
	return payload, err
}

func (c *HTTPClient) ClearNotifications(ctx context.Context, userID string) error {
	return c.doJSON(ctx, http.MethodDelete, userPath(userID, "notifications"), nil, nil)
}

func (c *HTTPClient) GetSettings(ctx context.Context, userID string) (account.Settings, error) {
	var payload account.Settings
	err := c.doJSON(ctx, http.MethodGet, userPath(userID, "settings"), nil, &payload)
	return payload, err
}

// UpdateSettings sends only the given flags; the server keeps the others.
func (c *HTTPClient) UpdateSettings(ctx context.Context, userID string, changes map[string]bool) (account.Settings, error) {
	var payload account.Settings
	err := c.doJSON(ctx, http.MethodPut, userPath(userID, "settings"), changes, &payload)
	return payload, err
}

func (c *HTTPClient) doJSON(ctx context.Context, method, path string, requestBody any, responseBody any) error {
	fullURL := c.baseURL + path

	var body io.Reader
	if requestBody != nil {
		encoded, err := json.Marshal(requestBody)
		if err != nil {
			return err
		}
		body = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return err
	}
	if requestBody != nil {
		request.Header.Set("Content-Type", "application/json")
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	defer response.Body.Close()

	if response.StatusCode < http.StatusOK || response.StatusCode >= http.StatusMultipleChoices {
		apiErr := APIError{StatusCode: response.StatusCode}
		var payload errorResponse
		if err := json.NewDecoder(response.Body).Decode(&payload); err == nil && strings.TrimSpace(payload.Error) != "" {
			apiErr.Message = payload.Error
		}
		if apiErr.Message == "" {
			apiErr.Message = response.Status
		}
		return &apiErr
	}

	if responseBody == nil {
		return nil
	}
	return json.NewDecoder(response.Body).Decode(responseBody)
}
