package httpapi

import (
	"time"

	"quizboard/internal/account"
	"quizboard/internal/notify"
	"quizboard/internal/quiz"
	"quizboard/internal/stats"
	"quizboard/internal/streak"
)

type userResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type renameRequest struct {
	Name string `json:"name"`
}

// settingsRequest uses pointers so a PUT can change a single flag.
type settingsRequest struct {
	Notifications *bool `json:"notifications"`
	TimerVisible  *bool `json:"timerVisible"`
	Sound         *bool `json:"sound"`
}

type categorySummary struct {
	Key           string `json:"key"`
	Title         string `json:"title"`
	Icon          string `json:"icon,omitempty"`
	Description   string `json:"description"`
	Color         string `json:"color,omitempty"`
	QuestionCount int    `json:"question_count"`
}

type categoriesResponse struct {
	Categories []categorySummary `json:"categories"`
}

type categoryResponse struct {
	categorySummary
	DurationSeconds int                   `json:"duration_seconds"`
	Questions       []quiz.PublicQuestion `json:"questions"`
}

type hintResponse struct {
	QuestionIndex int `json:"question_index"`
	quiz.Option
}

type historyResponse struct {
	Results []quiz.Result `json:"results"`
}

type streakResponse struct {
	Streak     int               `json:"streak"`
	Checkpoint streak.Checkpoint `json:"checkpoint"`
}

type profileResponse struct {
	User userResponse `json:"user"`
	stats.Profile
}

type notificationsResponse struct {
	Notifications []notify.Notification `json:"notifications"`
	UnreadCount   int                   `json:"unread_count"`
}

type statusResponse struct {
	Status string `json:"status"`
}

type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

func toUserResponse(user account.User) userResponse {
	return userResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}
}

func toCategorySummary(category quiz.Category) categorySummary {
	return categorySummary{
		Key:           category.Key,
		Title:         category.Title,
		Icon:          category.Icon,
		Description:   category.Description,
		Color:         category.Color,
		QuestionCount: len(category.Questions),
	}
}
