package httpapi

import (
	"net/http"

	"quizboard/internal/account"
)

func (a *API) HandleSignup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w, http.MethodPost)
		return
	}

	var request account.SignupRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	user, err := a.accounts.Signup(r.Context(), request)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toUserResponse(user))
}

func (a *API) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w, http.MethodPost)
		return
	}

	var request loginRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	user, err := a.accounts.Login(r.Context(), request.Email, request.Password)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(user))
}

func (a *API) HandleUser(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w, http.MethodGet)
		return
	}
	user, ok := a.requireUser(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(user))
}

func (a *API) HandleUserName(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		writeMethodNotAllowed(w, http.MethodPut)
		return
	}
	user, ok := a.requireUser(w, r)
	if !ok {
		return
	}

	var request renameRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	renamed, err := a.accounts.Rename(r.Context(), user.ID, request.Name)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(renamed))
}

func (a *API) HandleSettings(w http.ResponseWriter, r *http.Request) {
	user, ok := a.requireUser(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		settings, err := a.accounts.GetSettings(r.Context(), user.ID)
		if err != nil {
			a.fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, settings)

	case http.MethodPut:
		var request settingsRequest
		if !decodeJSON(w, r, &request) {
			return
		}

		settings, err := a.accounts.GetSettings(r.Context(), user.ID)
		if err != nil {
			a.fail(w, r, err)
			return
		}
		if request.Notifications != nil {
			settings.Notifications = *request.Notifications
		}
		if request.TimerVisible != nil {
			settings.TimerVisible = *request.TimerVisible
		}
		if request.Sound != nil {
			settings.Sound = *request.Sound
		}

		updated, err := a.accounts.UpdateSettings(r.Context(), user.ID, settings)
		if err != nil {
			a.fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, updated)

	default:
		writeMethodNotAllowed(w, http.MethodGet, http.MethodPut)
	}
}
