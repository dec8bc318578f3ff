package handlers

import (
	"net/http"

	"couple-space-backend/internal/services"

	"github.com/go-chi/chi/v5"
)

// NotificationHandler handles polled notifications
type NotificationHandler struct {
	notificationService *services.NotificationService
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(notificationService *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// UnreadCountResponse is the body of GET /notifications/unread/count
type UnreadCountResponse struct {
	UnreadCount int `json:"unread_count"`
}

// GetNotifications handles GET /api/v1/notifications
func (h *NotificationHandler) GetNotifications(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	notifications, err := h.notificationService.List(r.Context(), p)
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, nonNil(notifications))
}

// MarkRead handles PUT /api/v1/notifications/{notification_id}/read
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	if err := h.notificationService.MarkRead(r.Context(), p, chi.URLParam(r, "notification_id")); err != nil {
		respondAppError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, MessageResponse{Message: "Notification marked as read"})
}

// UnreadCount handles GET /api/v1/notifications/unread/count
func (h *NotificationHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	count, err := h.notificationService.UnreadCount(r.Context(), p)
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, UnreadCountResponse{UnreadCount: count})
}
