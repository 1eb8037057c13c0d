package handler

import (
	"net/http"
	"time"

	"github.com/kislikjeka/solsplit/internal/notify"
)

// NotificationSource defines the interface for reading recent unlock events
type NotificationSource interface {
	Recent() []notify.Event
}

// NotificationHandler handles notification HTTP requests
type NotificationHandler struct {
	source NotificationSource
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(source NotificationSource) *NotificationHandler {
	return &NotificationHandler{source: source}
}

// NotificationResponse represents one achievement unlock notification
type NotificationResponse struct {
	ID          string    `json:"id"`
	Achievement string    `json:"achievement"`
	Title       string    `json:"title"`
	Icon        string    `json:"icon"`
	UnlockedAt  time.Time `json:"unlocked_at"`
}

// GetNotifications handles GET /notifications
func (h *NotificationHandler) GetNotifications(w http.ResponseWriter, r *http.Request) {
	events := h.source.Recent()

	resp := make([]NotificationResponse, 0, len(events))
	for _, e := range events {
		resp = append(resp, NotificationResponse{
			ID:          e.ID,
			Achievement: e.Achievement.ID,
			Title:       e.Achievement.Title,
			Icon:        e.Achievement.Icon,
			UnlockedAt:  e.UnlockedAt,
		})
	}

	respondJSON(w, resp, http.StatusOK)
}
