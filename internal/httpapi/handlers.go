package httpapi

import (
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"quizboard/internal/account"
	"quizboard/internal/gemini"
	"quizboard/internal/quiz"
)

func (a *API) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w, http.MethodGet)
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{Status: "ok"})
}

func (a *API) HandleCategories(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w, http.MethodGet)
		return
	}

	categories := a.quizzes.Categories()
	response := categoriesResponse{
		Categories: make([]categorySummary, 0, len(categories)),
	}
	for _, category := range categories {
		response.Categories = append(response.Categories, toCategorySummary(category))
	}
	writeJSON(w, http.StatusOK, response)
}

func (a *API) HandleCategory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w, http.MethodGet)
		return
	}

	category, err := a.quizzes.Lookup(r.PathValue("key"))
	if err != nil {
		a.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, categoryResponse{
		categorySummary: toCategorySummary(category),
		DurationSeconds: int(quiz.QuizDuration.Seconds()),
		Questions:       quiz.ToPublicQuestions(category.Questions),
	})
}

// HandleHint asks the hint model for one question's answer. The index is the
// same zero-based position used as the answer key in a submission.
func (a *API) HandleHint(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w, http.MethodGet)
		return
	}

	category, err := a.quizzes.Lookup(r.PathValue("key"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil || index < 0 || index >= len(category.Questions) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "question not found"})
		return
	}
	if a.hints == nil {
		a.fail(w, r, gemini.ErrDisabled)
		return
	}

	question := quiz.ToPublicQuestions(category.Questions[index : index+1])[0]
	options := make([]string, len(question.Options))
	for i, option := range question.Options {
		options[i] = option.Text
	}
	choice, err := a.hints.Solve(r.Context(), question.Question, options)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	if choice < 0 || choice >= len(question.Options) {
		a.fail(w, r, gemini.ErrNoMatch)
		return
	}

	writeJSON(w, http.StatusOK, hintResponse{QuestionIndex: index, Option: question.Options[choice]})
}

func (a *API) HandleResults(w http.ResponseWriter, r *http.Request) {
	user, ok := a.requireUser(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodPost:
		var submission quiz.Submission
		if !decodeJSON(w, r, &submission) {
			return
		}
		if strings.TrimSpace(submission.Category) == "" {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "category is required"})
			return
		}

		completion, err := a.tracker.SubmitQuiz(r.Context(), user.ID, submission)
		if err != nil {
			a.fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, completion)

	case http.MethodGet:
		limit, err := parseIntParam(r, "limit", 0)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}

		results, err := a.tracker.History(r.Context(), user.ID)
		if err != nil {
			a.fail(w, r, err)
			return
		}
		if limit > 0 && len(results) > limit {
			results = results[:limit]
		}
		writeJSON(w, http.StatusOK, historyResponse{Results: results})

	case http.MethodDelete:
		checkpoint, err := a.tracker.ClearResults(r.Context(), user.ID)
		if err != nil {
			a.fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, streakResponse{Streak: checkpoint.Streak, Checkpoint: checkpoint})

	default:
		writeMethodNotAllowed(w, http.MethodGet, http.MethodPost, http.MethodDelete)
	}
}

func (a *API) HandleStreak(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w, http.MethodGet)
		return
	}
	user, ok := a.requireUser(w, r)
	if !ok {
		return
	}

	checkpoint, err := a.tracker.RefreshStreak(r.Context(), user.ID)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, streakResponse{Streak: checkpoint.Streak, Checkpoint: checkpoint})
}

func (a *API) HandleProfile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w, http.MethodGet)
		return
	}
	user, ok := a.requireUser(w, r)
	if !ok {
		return
	}

	profile, err := a.tracker.Profile(r.Context(), user.ID)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, profileResponse{User: toUserResponse(user), Profile: profile})
}

func (a *API) HandlePerformance(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w, http.MethodGet)
		return
	}
	user, ok := a.requireUser(w, r)
	if !ok {
		return
	}

	performance, err := a.tracker.Performance(r.Context(), user.ID)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, performance)
}

// requireUser resolves {user_id} and writes a 404 when it does not exist.
func (a *API) requireUser(w http.ResponseWriter, r *http.Request) (account.User, bool) {
	userID := strings.TrimSpace(r.PathValue("user_id"))
	if userID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "user_id is required"})
		return account.User{}, false
	}

	user, err := a.accounts.GetUser(r.Context(), userID)
	if err != nil {
		a.fail(w, r, err)
		return account.User{}, false
	}
	return user, true
}

func (a *API) fail(w http.ResponseWriter, r *http.Request, err error) {
	if status := writeServiceError(w, err); status >= http.StatusInternalServerError {
		a.logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	}
}
