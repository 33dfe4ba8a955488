package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"quizboard/internal/account"
	"quizboard/internal/gemini"
	"quizboard/internal/notify"
	"quizboard/internal/quiz"
)

const maxBodyBytes = 1 << 20

// writeServiceError maps domain errors to a response and returns the status
// it wrote.
func writeServiceError(w http.ResponseWriter, err error) int {
	var validation account.ValidationErrors
	switch {
	case errors.As(err, &validation):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "validation failed", Fields: validation})
		return http.StatusBadRequest
	case errors.Is(err, quiz.ErrCategoryNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "category not found"})
		return http.StatusNotFound
	case errors.Is(err, account.ErrUserNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "user not found"})
		return http.StatusNotFound
	case errors.Is(err, notify.ErrNotificationNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "notification not found"})
		return http.StatusNotFound
	case errors.Is(err, quiz.ErrCheckpointNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "no streak recorded yet"})
		return http.StatusNotFound
	case errors.Is(err, account.ErrEmailTaken):
		writeJSON(w, http.StatusConflict, errorResponse{Error: "email already registered"})
		return http.StatusConflict
	case errors.Is(err, account.ErrInvalidCredentials):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid email or password"})
		return http.StatusUnauthorized
	case errors.Is(err, account.ErrInvalidName), errors.Is(err, quiz.ErrInvalidResult):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return http.StatusBadRequest
	case errors.Is(err, gemini.ErrNoMatch):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "could not solve this question"})
		return http.StatusNotFound
	case errors.Is(err, gemini.ErrDisabled):
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "answer hints are disabled"})
		return http.StatusServiceUnavailable
	case errors.Is(err, gemini.ErrUpstream):
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "hint service unavailable"})
		return http.StatusBadGateway
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "request failed"})
		return http.StatusInternalServerError
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	defer r.Body.Close()
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := decoder.Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return false
	}
	return true
}

func parseBoolParam(r *http.Request, key string) bool {
	value := strings.ToLower(strings.TrimSpace(r.URL.Query().Get(key)))
	return value == "1" || value == "true" || value == "yes"
}

func parseIntParam(r *http.Request, key string, defaultValue int) (int, error) {
	value := strings.TrimSpace(r.URL.Query().Get(key))
	if value == "" {
		return defaultValue, nil
	}

	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return 0, errors.New(key + " must be a positive integer")
	}
	return parsed, nil
}

func writeMethodNotAllowed(w http.ResponseWriter, allowedMethods ...string) {
	w.Header().Set("Allow", strings.Join(allowedMethods, ", "))
	writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}
