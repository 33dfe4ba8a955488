package httpapi

import (
	"net/http"
	"strings"

	"quizboard/internal/notify"
)

func (a *API) HandleNotifications(w http.ResponseWriter, r *http.Request) {
	user, ok := a.requireUser(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		notifications, err := a.notifications.List(r.Context(), user.ID)
		if err != nil {
			a.fail(w, r, err)
			return
		}

		unread := notify.CountUnread(notifications)
		if parseBoolParam(r, "unread") {
			filtered := make([]notify.Notification, 0, unread)
			for _, notification := range notifications {
				if !notification.Read {
					filtered = append(filtered, notification)
				}
			}
			notifications = filtered
		}
		writeJSON(w, http.StatusOK, notificationsResponse{Notifications: notifications, UnreadCount: unread})

	case http.MethodDelete:
		if err := a.notifications.ClearAll(r.Context(), user.ID); err != nil {
			a.fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, notificationsResponse{Notifications: []notify.Notification{}})

	default:
		writeMethodNotAllowed(w, http.MethodGet, http.MethodDelete)
	}
}

func (a *API) HandleNotificationRead(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w, http.MethodPost)
		return
	}
	user, ok := a.requireUser(w, r)
	if !ok {
		return
	}

	id := strings.TrimSpace(r.PathValue("id"))
	if err := a.notifications.MarkAsRead(r.Context(), user.ID, id); err != nil {
		a.fail(w, r, err)
		return
	}
	a.writeNotifications(w, r, user.ID)
}

func (a *API) HandleNotificationsReadAll(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w, http.MethodPost)
		return
	}
	user, ok := a.requireUser(w, r)
	if !ok {
		return
	}

	if err := a.notifications.MarkAllAsRead(r.Context(), user.ID); err != nil {
		a.fail(w, r, err)
		return
	}
	a.writeNotifications(w, r, user.ID)
}

func (a *API) writeNotifications(w http.ResponseWriter, r *http.Request, userID string) {
	notifications, err := a.notifications.List(r.Context(), userID)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, notificationsResponse{
		Notifications: notifications,
		UnreadCount:   notify.CountUnread(notifications),
	})
}
