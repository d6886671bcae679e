package http

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"rentalhub-backend/internal/domain"
	"rentalhub-backend/internal/service"
)

type NotificationHandler struct {
	notificationSvc service.NotificationService
}

func NewNotificationHandler(notificationSvc service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationSvc: notificationSvc}
}

type notificationListResponse struct {
	Notifications []domain.Notification `json:"notifications"`
	Total         int32                 `json:"total"`
}

func (h *NotificationHandler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())
	page, err := queryInt32(r.URL.Query().Get("page"))
	if err != nil {
		writeError(w, domain.Validation("page: %v", err))
		return
	}
	limit, err := queryInt32(r.URL.Query().Get("limit"))
	if err != nil {
		writeError(w, domain.Validation("limit: %v", err))
		return
	}

	notes, total, err := h.notificationSvc.GetNotifications(r.Context(), userID, page, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	if notes == nil {
		notes = []domain.Notification{}
	}
	writeJSON(w, http.StatusOK, notificationListResponse{Notifications: notes, Total: total}, "")
}

func (h *NotificationHandler) MarkAsRead(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		writeError(w, domain.Validation("notification id must be an integer"))
		return
	}
	if err := h.notificationSvc.MarkAsRead(r.Context(), userID, int32(id)); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nil, "Notification marked as read.")
}
